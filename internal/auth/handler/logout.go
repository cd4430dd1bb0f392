package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// logout revokes the upstream access token carried in the bearer token and
// sends the browser back to a trusted target. Expired tokens are accepted
// here so that stale sessions can still be torn down upstream.
func (h *Handler) logout(c *gin.Context) {
	target, err := h.verifyTarget(c.Query("target"))
	if err != nil {
		log.Warn().Str("target", c.Query("target")).Msg("logout target untrusted, using default")
		target = h.frontURL
	}

	raw := c.Query("token")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	claims, err := h.tokens.ParseLenient(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if claims.AccessToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing access token"})
		return
	}

	providerName := c.DefaultQuery("provider", h.defaultProvider)
	if p, err := h.providers.Get(providerName); err == nil {
		if err := p.Revoke(c.Request.Context(), claims.AccessToken); err != nil {
			log.Warn().Err(err).Str("provider", providerName).Msg("token revocation failed")
		}
	}

	// A provider-side logout round-trip comes back through /logout-callback,
	// so the target has to survive in a cookie until then.
	if redirect := c.Query("redirect"); redirect != "" {
		clearCookie(c, stateCookieName)
		clearCookie(c, verifierCookieName)
		setFlowCookie(c, targetCookieName, target)
		c.Redirect(http.StatusFound, redirect)
		return
	}

	clearFlowCookies(c)
	c.Redirect(http.StatusFound, target)
}

func (h *Handler) logoutCallback(c *gin.Context) {
	target := readCookie(c, targetCookieName)
	clearFlowCookies(c)
	if target == "" {
		target = h.frontURL
	}
	c.Redirect(http.StatusFound, target)
}
