// Package oidc implements the generic OpenID Connect adapter with PKCE.
package oidc

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/ItsFelix5/flavor-adventure/internal/auth"
	"github.com/ItsFelix5/flavor-adventure/internal/auth/provider"
)

const providerName = "oidc"

// Options configures the adapter against one OpenID Connect issuer.
type Options struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Scope is the space-separated scope string. It must contain "openid"
	// and "email".
	Scope  string
	Prompt string

	// Claim names for fields that providers place under non-standard keys.
	UsernameClaim string
	LocaleClaim   string
	TagsClaim     string
}

// Adapter talks to a generic OpenID Connect provider. Endpoint discovery is
// lazy and cached for the process lifetime: the first caller performs it
// while holding the mutex, concurrent first-time callers wait for that one
// request instead of issuing their own, and a failure leaves the cache empty
// so a later login retries.
type Adapter struct {
	opts       Options
	scopes     []string
	httpClient *http.Client

	mu     sync.Mutex
	cached *client
}

type client struct {
	provider           *gooidc.Provider
	verifier           *gooidc.IDTokenVerifier
	oauth              oauth2.Config
	revocationEndpoint string
}

func New(opts Options) (*Adapter, error) {
	if opts.Issuer == "" || opts.ClientID == "" || opts.RedirectURL == "" {
		return nil, fmt.Errorf("oidc: config missing required fields")
	}

	scopes := strings.Fields(opts.Scope)
	if !containsScope(scopes, "openid") || !containsScope(scopes, "email") {
		return nil, fmt.Errorf("oidc: invalid scope %q, 'openid' and 'email' are required", opts.Scope)
	}

	return &Adapter{
		opts:       opts,
		scopes:     scopes,
		httpClient: provider.NewHTTPClient(),
	}, nil
}

func (a *Adapter) Name() string {
	return providerName
}

// client returns the discovered endpoints, performing discovery on first
// use. Discovery tries the issuer's openid-configuration document first and
// falls back to the oauth-authorization-server well-known path.
func (a *Adapter) client(ctx context.Context) (*client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cached != nil {
		return a.cached, nil
	}

	octx := gooidc.ClientContext(ctx, a.httpClient)

	var revocationEndpoint string
	p, err := gooidc.NewProvider(octx, a.opts.Issuer)
	if err == nil {
		var meta struct {
			RevocationEndpoint string `json:"revocation_endpoint"`
		}
		if cerr := p.Claims(&meta); cerr == nil {
			revocationEndpoint = meta.RevocationEndpoint
		}
	} else {
		log.Warn().
			Err(err).
			Str("issuer", a.opts.Issuer).
			Msg("openid-configuration discovery failed, trying oauth-authorization-server")

		doc, derr := a.discoverAuthorizationServer(ctx)
		if derr != nil {
			return nil, fmt.Errorf("oidc: discovery failed for both well-known paths: %w", derr)
		}
		p = (&gooidc.ProviderConfig{
			IssuerURL:   doc.Issuer,
			AuthURL:     doc.AuthorizationEndpoint,
			TokenURL:    doc.TokenEndpoint,
			UserInfoURL: doc.UserinfoEndpoint,
			JWKSURL:     doc.JwksURI,
		}).NewProvider(octx)
		revocationEndpoint = doc.RevocationEndpoint
	}

	a.cached = &client{
		provider: p,
		verifier: p.Verifier(&gooidc.Config{ClientID: a.opts.ClientID}),
		oauth: oauth2.Config{
			ClientID:     a.opts.ClientID,
			ClientSecret: a.opts.ClientSecret,
			RedirectURL:  a.opts.RedirectURL,
			Endpoint:     p.Endpoint(),
			Scopes:       a.scopes,
		},
		revocationEndpoint: revocationEndpoint,
	}
	return a.cached, nil
}

// AuthorizationURL builds the authorize URL with state and a PKCE S256
// challenge. The fresh verifier is handed back through flow.Verifier for the
// orchestrator to seal into a cookie.
func (a *Adapter) AuthorizationURL(ctx context.Context, flow *provider.FlowState, requestedScopes []string) (string, error) {
	cl, err := a.client(ctx)
	if err != nil {
		return "", err
	}

	scopes := a.scopes
	if len(requestedScopes) > 0 {
		if !containsScope(requestedScopes, "openid") || !containsScope(requestedScopes, "email") {
			return "", fmt.Errorf("oidc: requested scopes must include 'openid' and 'email'")
		}
		scopes = requestedScopes
	}

	verifier, err := generateVerifier()
	if err != nil {
		return "", err
	}
	flow.Verifier = verifier

	authOpts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", challengeS256(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	}
	if a.opts.Prompt != "" {
		authOpts = append(authOpts, oauth2.SetAuthURLParam("prompt", a.opts.Prompt))
	}

	cfg := cl.oauth
	cfg.Scopes = scopes
	return cfg.AuthCodeURL(flow.State, authOpts...), nil
}

// Exchange trades the code for an access token, sending the PKCE verifier.
// When the provider returns an id_token its signature is validated; when it
// returns none the flow degrades to plain OAuth2, which is accepted and
// logged, never failed.
func (a *Adapter) Exchange(ctx context.Context, code string, flow provider.FlowState) (string, error) {
	cl, err := a.client(ctx)
	if err != nil {
		return "", err
	}

	octx := context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	tok, err := cl.oauth.Exchange(octx, code,
		oauth2.SetAuthURLParam("code_verifier", flow.Verifier),
	)
	if err != nil {
		return "", provider.WrapUpstreamError(err, auth.ErrTokenExchangeFailed)
	}

	if rawIDToken, ok := tok.Extra("id_token").(string); ok && rawIDToken != "" {
		if _, err := cl.verifier.Verify(octx, rawIDToken); err != nil {
			return "", fmt.Errorf("%w: id_token verification: %v", auth.ErrTokenExchangeFailed, err)
		}
	} else {
		log.Warn().
			Str("issuer", a.opts.Issuer).
			Msg("no id_token in token response, continuing with plain OAuth2")
	}

	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: no access_token in token response", auth.ErrTokenExchangeFailed)
	}
	return tok.AccessToken, nil
}

// FetchIdentity calls the userinfo endpoint and maps claims onto the
// normalized identity, honoring the configured claim names.
func (a *Adapter) FetchIdentity(ctx context.Context, accessToken string) (*auth.Identity, error) {
	cl, err := a.client(ctx)
	if err != nil {
		return nil, err
	}

	octx := gooidc.ClientContext(ctx, a.httpClient)
	userInfo, err := cl.provider.UserInfo(octx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	if err != nil {
		return nil, provider.WrapUpstreamError(err, auth.ErrIdentityFetchFailed)
	}

	raw := map[string]any{}
	if err := userInfo.Claims(&raw); err != nil {
		return nil, fmt.Errorf("%w: userinfo claims parse: %v", auth.ErrIdentityFetchFailed, err)
	}

	subject := userInfo.Subject
	if subject == "" {
		subject, _ = raw["sub"].(string)
	}
	if subject == "" {
		return nil, fmt.Errorf("%w: userinfo response has no subject", auth.ErrIdentityFetchFailed)
	}

	identity := &auth.Identity{
		Provider:    providerName,
		Subject:     subject,
		Email:       userInfo.Email,
		AccessToken: accessToken,
	}
	if identity.Email == "" {
		identity.Email, _ = raw["email"].(string)
	}
	if name, ok := raw["name"].(string); ok && name != "" {
		identity.Username = name
	} else if name, ok := raw[a.opts.UsernameClaim].(string); ok {
		identity.Username = name
	}
	if locale, ok := raw[a.opts.LocaleClaim].(string); ok && locale != "" {
		identity.Locale = locale
	} else if locale, ok := raw["locale"].(string); ok {
		identity.Locale = locale
	}
	identity.Tags = stringSlice(raw[a.opts.TagsClaim])

	return identity, nil
}

// Revoke invalidates the access token against the provider's revocation
// endpoint, when discovery advertised one.
func (a *Adapter) Revoke(ctx context.Context, accessToken string) error {
	cl, err := a.client(ctx)
	if err != nil {
		return err
	}
	if cl.revocationEndpoint == "" {
		return nil
	}

	form := url.Values{
		"token":         {accessToken},
		"client_id":     {a.opts.ClientID},
		"client_secret": {a.opts.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cl.revocationEndpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("oidc: revocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("oidc: revocation call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("oidc: revocation endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

func containsScope(scopes []string, want string) bool {
	for _, s := range scopes {
		if s == want {
			return true
		}
	}
	return false
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

type discoveryDocument struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	UserinfoEndpoint      string `json:"userinfo_endpoint"`
	JwksURI               string `json:"jwks_uri"`
	RevocationEndpoint    string `json:"revocation_endpoint"`
}
