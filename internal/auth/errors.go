package auth

import "errors"

// Sentinel errors for the login flow. Callers match with errors.Is; every
// one of these surfaces as an HTTP error or a tokenless redirect, never a
// crash.
var (
	ErrUntrustedTarget     = errors.New("auth: target uri is not a trusted origin")
	ErrStateMismatch       = errors.New("auth: oauth state mismatch")
	ErrMissingFlowState    = errors.New("auth: missing login flow state")
	ErrTokenExchangeFailed = errors.New("auth: token exchange failed")
	ErrIdentityFetchFailed = errors.New("auth: identity fetch failed")
	ErrUpstreamTimeout     = errors.New("auth: upstream provider timed out")
)
