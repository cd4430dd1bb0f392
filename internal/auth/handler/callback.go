package handler

import (
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ItsFelix5/flavor-adventure/internal/auth"
	"github.com/ItsFelix5/flavor-adventure/internal/auth/provider"
	"github.com/ItsFelix5/flavor-adventure/internal/matrix"
	"github.com/ItsFelix5/flavor-adventure/internal/token"
	"github.com/ItsFelix5/flavor-adventure/internal/users"
)

// callback finishes a flow: check state against the cookie, redeem the
// code, fetch the identity, reconcile it against storage and send the user
// back to their target with a signed token appended.
func (h *Handler) callback(c *gin.Context, providerName string) {
	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown auth provider"})
		return
	}

	target := readCookie(c, targetCookieName)

	// The user said no at the provider. Not an error on our side.
	if upstreamErr := c.Query("error"); upstreamErr != "" {
		log.Info().
			Str("provider", providerName).
			Str("upstream_error", upstreamErr).
			Msg("provider declined authorization")
		clearFlowCookies(c)
		if target == "" {
			target = h.frontURL
		}
		c.Redirect(http.StatusFound, target)
		return
	}

	stateCookie := readCookie(c, stateCookieName)
	sealedVerifier := readCookie(c, verifierCookieName)
	clearFlowCookies(c)

	if err := validateFlow(target, stateCookie, c.Query("state")); err != nil {
		log.Warn().Err(err).Str("provider", providerName).Msg("callback rejected")
		if errors.Is(err, auth.ErrMissingFlowState) {
			c.Redirect(http.StatusFound, h.frontURL)
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "state mismatch"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	flow := provider.FlowState{State: stateCookie, TargetURI: target}
	if sealedVerifier != "" {
		verifier, err := h.secrets.Decrypt(sealedVerifier)
		if err != nil {
			log.Warn().Err(err).Msg("verifier cookie failed to open")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
			return
		}
		flow.Verifier = verifier
	}

	accessToken, err := p.Exchange(c.Request.Context(), code, flow)
	if err != nil {
		h.upstreamFailure(c, providerName, "token exchange failed", err)
		return
	}

	identity, err := p.FetchIdentity(c.Request.Context(), accessToken)
	if err != nil {
		h.upstreamFailure(c, providerName, "identity fetch failed", err)
		return
	}

	email := identity.Email
	if email == "" {
		email = identity.Subject
	}

	flags, err := h.users.Upsert(c.Request.Context(), identity.Subject, identity.Username, identity.Email)
	if err != nil {
		log.Warn().Err(err).Str("subject", identity.Subject).Msg("user reconciliation degraded")
		flags = users.Flags{}
	}

	if flags.IsBanned {
		log.Info().Str("subject", identity.Subject).Msg("banned user bounced")
		c.Redirect(http.StatusFound, "/banned.html")
		return
	}

	claims := token.Claims{
		Identifier:      email,
		AccessToken:     accessToken,
		Username:        identity.Username,
		Locale:          identity.Locale,
		Tags:            mergeTags(identity.Tags, flags),
		MatrixUserID:    matrix.BareUserID(email, h.matrixDomain),
		ProviderSubject: identity.Subject,
	}

	signed, err := h.tokens.Issue(claims)
	if err != nil {
		log.Error().Err(err).Msg("failed to sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.Redirect(http.StatusFound, appendToken(target, signed))
}

// validateFlow checks a callback against the browser-held flow state.
// Absent cookies mean the login was never started here; a present but
// non-matching state means a forged or replayed callback.
func validateFlow(target, stateCookie, stateParam string) error {
	if target == "" || stateCookie == "" {
		return auth.ErrMissingFlowState
	}
	if stateParam != stateCookie {
		return auth.ErrStateMismatch
	}
	return nil
}

func (h *Handler) upstreamFailure(c *gin.Context, providerName, msg string, err error) {
	log.Warn().Err(err).Str("provider", providerName).Msg(msg)
	if errors.Is(err, auth.ErrUpstreamTimeout) {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "auth provider timed out"})
		return
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
}

// mergeTags folds stored flags into the provider-supplied tags without
// duplicating entries.
func mergeTags(tags []string, flags users.Flags) []string {
	merged := slices.Clone(tags)
	if flags.IsAdmin && !slices.Contains(merged, "admin") {
		merged = append(merged, "admin")
	}
	if flags.HasPets && !slices.Contains(merged, "pets") {
		merged = append(merged, "pets")
	}
	return merged
}

func appendToken(target, signed string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set("token", signed)
	u.RawQuery = q.Encode()
	return u.String()
}
