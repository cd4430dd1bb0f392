package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppPort   string `env:"APP_PORT" envDefault:"8080"`
	SecretKey string `env:"SECRET_KEY,required"`

	// FrontURL is the default landing page of the world client. It is the
	// fallback redirect target whenever a flow ends without a usable target.
	FrontURL string `env:"FRONT_URL" envDefault:"http://localhost:3000"`

	// TrustedOrigins lists additional origins (scheme://host[:port]) that
	// login and logout targets may point at. The FrontURL origin is always
	// trusted.
	TrustedOrigins []string `env:"TRUSTED_ORIGINS" envSeparator:","`

	MatrixDomain string `env:"MATRIX_DOMAIN"`

	OIDCIssuer        string `env:"OPID_CLIENT_ISSUER"`
	OIDCClientID      string `env:"OPID_CLIENT_ID"`
	OIDCClientSecret  string `env:"OPID_CLIENT_SECRET"`
	OIDCRedirectURL   string `env:"OPID_CLIENT_REDIRECT_URL"`
	OIDCScope         string `env:"OPID_SCOPE" envDefault:"openid profile email"`
	OIDCPrompt        string `env:"OPID_PROMPT"`
	OIDCUsernameClaim string `env:"OPID_USERNAME_CLAIM" envDefault:"username"`
	OIDCLocaleClaim   string `env:"OPID_LOCALE_CLAIM" envDefault:"locale"`
	OIDCTagsClaim     string `env:"OPID_TAGS_CLAIM" envDefault:"tags"`

	HackClubClientID     string `env:"HACK_CLUB_CLIENT_ID"`
	HackClubClientSecret string `env:"HACK_CLUB_CLIENT_SECRET"`
	HackClubRedirectURL  string `env:"HACK_CLUB_REDIRECT_URL"`

	SlackClientID     string `env:"SLACK_CLIENT_ID"`
	SlackClientSecret string `env:"SLACK_CLIENT_SECRET"`
	SlackRedirectURL  string `env:"SLACK_REDIRECT_URL"`

	DatabaseDSN   string `env:"DATABASE_DSN"`
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
