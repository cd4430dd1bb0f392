package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ItsFelix5/flavor-adventure/internal/auth/provider"
)

// login starts a flow: validate the target, mint flow state, hand the
// verifier to the adapter, park everything in cookies and redirect to the
// provider's authorize endpoint.
func (h *Handler) login(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown auth provider"})
		return
	}

	target, err := h.verifyTarget(c.Query("target"))
	if err != nil {
		log.Warn().
			Str("provider", providerName).
			Str("target", c.Query("target")).
			Msg("login rejected, untrusted target")
		c.JSON(http.StatusForbidden, gin.H{"error": "untrusted target"})
		return
	}

	flow := &provider.FlowState{
		State:     uuid.NewString(),
		TargetURI: target,
	}

	authURL, err := p.AuthorizationURL(c.Request.Context(), flow, c.QueryArray("scopes"))
	if err != nil {
		log.Error().Err(err).Str("provider", providerName).Msg("failed to build authorization url")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}

	setFlowCookie(c, stateCookieName, flow.State)
	setFlowCookie(c, targetCookieName, target)

	if flow.Verifier != "" {
		sealed, err := h.secrets.Encrypt(flow.Verifier)
		if err != nil {
			log.Error().Err(err).Msg("failed to seal code verifier")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
			return
		}
		setFlowCookie(c, verifierCookieName, sealed)
	}

	c.Redirect(http.StatusFound, authURL)
}
