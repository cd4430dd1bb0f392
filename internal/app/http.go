package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ItsFelix5/flavor-adventure/internal/auth/handler"
	"github.com/ItsFelix5/flavor-adventure/internal/auth/provider"
	"github.com/ItsFelix5/flavor-adventure/internal/auth/provider/hackclub"
	"github.com/ItsFelix5/flavor-adventure/internal/auth/provider/oidc"
	"github.com/ItsFelix5/flavor-adventure/internal/auth/provider/slack"
	"github.com/ItsFelix5/flavor-adventure/internal/config"
	"github.com/ItsFelix5/flavor-adventure/internal/maps"
	"github.com/ItsFelix5/flavor-adventure/internal/presence"
	"github.com/ItsFelix5/flavor-adventure/internal/secret"
	"github.com/ItsFelix5/flavor-adventure/internal/token"
	"github.com/ItsFelix5/flavor-adventure/internal/users"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	tokens := token.NewManager(cfg.SecretKey)

	secrets, err := secret.NewCodec(cfg.SecretKey)
	if err != nil {
		return nil, nil, err
	}

	var userStore users.Store = users.NewDisabledStore()
	var mapStore maps.Store
	if infra.DB != nil {
		userStore = users.NewPostgresStore(infra.DB)
		mapStore = maps.NewPostgresStore(infra.DB)
	}

	tracker := presence.NewTracker(nil)
	if infra.Redis != nil {
		tracker = presence.NewTracker(infra.Redis.Client)
	}

	registry, defaultProvider, err := buildProviders(cfg)
	if err != nil {
		return nil, nil, err
	}

	authHandler := handler.NewHandler(handler.Options{
		Registry:        registry,
		DefaultProvider: defaultProvider,
		Users:           userStore,
		Tokens:          tokens,
		Secrets:         secrets,
		FrontURL:        cfg.FrontURL,
		TrustedOrigins:  cfg.TrustedOrigins,
		MatrixDomain:    cfg.MatrixDomain,
	})

	mapHandler := maps.NewHandler(tokens, mapStore)
	presenceHandler := presence.NewHandler(tracker)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router)
	mapHandler.RegisterRoutes(router)
	presenceHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/banned.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", bannedPage)
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, infra.Close, nil
}

// buildProviders constructs every adapter the config enables. The first
// configured adapter in oidc, hackclub, slack order answers the shared
// /openid-callback route.
func buildProviders(cfg config.Config) (*provider.Registry, string, error) {
	var adapters []provider.Adapter

	if cfg.OIDCIssuer != "" {
		a, err := oidc.New(oidc.Options{
			Issuer:        cfg.OIDCIssuer,
			ClientID:      cfg.OIDCClientID,
			ClientSecret:  cfg.OIDCClientSecret,
			RedirectURL:   cfg.OIDCRedirectURL,
			Scope:         cfg.OIDCScope,
			Prompt:        cfg.OIDCPrompt,
			UsernameClaim: cfg.OIDCUsernameClaim,
			LocaleClaim:   cfg.OIDCLocaleClaim,
			TagsClaim:     cfg.OIDCTagsClaim,
		})
		if err != nil {
			return nil, "", err
		}
		adapters = append(adapters, a)
	}

	if cfg.HackClubClientID != "" {
		a, err := hackclub.New(cfg.HackClubClientID, cfg.HackClubClientSecret, cfg.HackClubRedirectURL)
		if err != nil {
			return nil, "", err
		}
		adapters = append(adapters, a)
	}

	if cfg.SlackClientID != "" {
		a, err := slack.New(cfg.SlackClientID, cfg.SlackClientSecret, cfg.SlackRedirectURL)
		if err != nil {
			return nil, "", err
		}
		adapters = append(adapters, a)
	}

	if len(adapters) == 0 {
		return nil, "", errors.New("app: no auth provider configured")
	}

	return provider.NewRegistry(adapters...), adapters[0].Name(), nil
}

var bannedPage = []byte(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>Account suspended</title>
  <style>
    body { font-family: sans-serif; text-align: center; margin-top: 15vh; }
    h1 { font-size: 1.6em; }
  </style>
</head>
<body>
  <h1>Your account has been suspended.</h1>
  <p>If you believe this is a mistake, please contact an administrator.</p>
</body>
</html>
`)
