package provider

import (
	"context"

	"github.com/ItsFelix5/flavor-adventure/internal/auth"
)

// FlowState is the per-login state that round-trips through the browser.
// Nothing here is stored server-side: State travels in a plain cookie,
// Verifier in an encrypted one, TargetURI in a plain cookie. It lives for
// exactly one login attempt.
type FlowState struct {
	// State is the CSRF value echoed back by the provider.
	State string

	// Verifier is the PKCE code verifier. Adapters that use PKCE fill it
	// in during AuthorizationURL; adapters that do not leave it empty.
	Verifier string

	// TargetURI is where the browser lands after the callback.
	TargetURI string
}

// Adapter is the contract every upstream identity provider implements.
// Implementations return identity facts only and must not perform user
// creation, flag decisions or token issuance.
type Adapter interface {
	// Name returns the adapter identifier used in routes and the registry.
	Name() string

	// AuthorizationURL builds the provider's authorize endpoint URL for the
	// given flow. Adapters that use PKCE set flow.Verifier as a side effect.
	// An empty scopes slice means the adapter's default scopes.
	AuthorizationURL(ctx context.Context, flow *FlowState, scopes []string) (string, error)

	// Exchange trades the authorization code for an upstream access token.
	Exchange(ctx context.Context, code string, flow FlowState) (string, error)

	// FetchIdentity resolves the access token into a normalized identity.
	FetchIdentity(ctx context.Context, accessToken string) (*auth.Identity, error)

	// Revoke invalidates the upstream access token where the provider
	// supports it. Adapters without a revocation endpoint return nil.
	Revoke(ctx context.Context, accessToken string) error
}
