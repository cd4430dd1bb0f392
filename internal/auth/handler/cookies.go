package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Flow cookies carry one login attempt's state through the redirect hop.
// All three are cleared on every callback regardless of outcome.
const (
	stateCookieName    = "oidc_state"
	verifierCookieName = "code_verifier"
	targetCookieName   = "target"

	flowCookieTTL = 5 * time.Minute
)

func setFlowCookie(c *gin.Context, name, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Request.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(flowCookieTTL.Seconds()),
	})
}

func clearCookie(c *gin.Context, name string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Request.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func clearFlowCookies(c *gin.Context) {
	for _, name := range []string{stateCookieName, verifierCookieName, targetCookieName} {
		clearCookie(c, name)
	}
}

func readCookie(c *gin.Context, name string) string {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
