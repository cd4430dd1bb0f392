// Package handler is the auth orchestrator: it drives a login attempt from
// the initial redirect through callback, reconciliation and token issuance,
// holding no server-side state between requests.
package handler

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ItsFelix5/flavor-adventure/internal/auth/provider"
	"github.com/ItsFelix5/flavor-adventure/internal/secret"
	"github.com/ItsFelix5/flavor-adventure/internal/token"
	"github.com/ItsFelix5/flavor-adventure/internal/users"
)

type Options struct {
	Registry *provider.Registry

	// DefaultProvider answers the shared /openid-callback route and is the
	// revocation target for logouts that do not name a provider.
	DefaultProvider string

	Users   users.Store
	Tokens  *token.Manager
	Secrets *secret.Codec

	FrontURL       string
	TrustedOrigins []string
	MatrixDomain   string
}

type Handler struct {
	providers       *provider.Registry
	defaultProvider string
	users           users.Store
	tokens          *token.Manager
	secrets         *secret.Codec
	frontURL        string
	trustedOrigins  map[string]bool
	matrixDomain    string
}

func NewHandler(opts Options) *Handler {
	origins := make(map[string]bool, len(opts.TrustedOrigins)+1)
	for _, raw := range opts.TrustedOrigins {
		if origin := normalizeOrigin(raw); origin != "" {
			origins[origin] = true
		}
	}
	if origin := normalizeOrigin(opts.FrontURL); origin != "" {
		origins[origin] = true
	}

	return &Handler{
		providers:       opts.Registry,
		defaultProvider: opts.DefaultProvider,
		users:           opts.Users,
		tokens:          opts.Tokens,
		secrets:         opts.Secrets,
		frontURL:        opts.FrontURL,
		trustedOrigins:  origins,
		matrixDomain:    opts.MatrixDomain,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/:provider", h.login)
	r.GET("/auth/:provider/callback", func(c *gin.Context) {
		h.callback(c, c.Param("provider"))
	})
	r.GET("/openid-callback", func(c *gin.Context) {
		h.callback(c, h.defaultProvider)
	})
	r.GET("/logout", h.logout)
	r.GET("/logout-callback", h.logoutCallback)
	r.GET("/profile", h.profile)
}

func normalizeOrigin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}
