package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// profile resolves a bearer token into the user's current profile. Stored
// fields win over the claims snapshot because the record may have been
// corrected since the token was issued.
func (h *Handler) profile(c *gin.Context) {
	claims, err := h.tokens.Verify(c.Query("token"), false)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	resp := gin.H{
		"identifier":   claims.Identifier,
		"username":     claims.Username,
		"locale":       claims.Locale,
		"tags":         claims.Tags,
		"matrixUserId": claims.MatrixUserID,
	}

	if claims.ProviderSubject != "" {
		u, err := h.users.Get(c.Request.Context(), claims.ProviderSubject)
		if err != nil {
			log.Warn().Err(err).Str("subject", claims.ProviderSubject).Msg("profile lookup degraded to token claims")
		} else if u != nil {
			if u.GivenName != "" {
				resp["username"] = u.GivenName
			}
			if u.Email != "" {
				resp["identifier"] = u.Email
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
