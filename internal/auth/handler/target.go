package handler

import (
	"net/url"
	"strings"

	"github.com/ItsFelix5/flavor-adventure/internal/auth"
)

// verifyTarget checks that the caller-supplied redirect target points at a
// trusted origin. An open redirect here would hand the signed token to an
// attacker-controlled page.
func (h *Handler) verifyTarget(raw string) (string, error) {
	if raw == "" {
		return "", auth.ErrUntrustedTarget
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", auth.ErrUntrustedTarget
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", auth.ErrUntrustedTarget
	}
	if !h.trustedOrigins[strings.ToLower(u.Scheme+"://"+u.Host)] {
		return "", auth.ErrUntrustedTarget
	}
	return raw, nil
}
