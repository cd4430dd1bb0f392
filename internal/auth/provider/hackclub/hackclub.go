// Package hackclub implements the Hack Club OAuth2 adapter. The provider
// has no discovery document: three fixed endpoints, a fixed scope list and
// a JSON token exchange.
package hackclub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ItsFelix5/flavor-adventure/internal/auth"
	"github.com/ItsFelix5/flavor-adventure/internal/auth/provider"
)

const (
	providerName = "hackclub"
	defaultBase  = "https://hca.dinosaurbbq.org"

	authorizePath = "/oauth/authorize"
	tokenPath     = "/oauth/token"
	userInfoPath  = "/api/v1/me"

	// scope is a fixed allow-list; callers cannot widen it.
	scope = "email name slack_id"
)

type Adapter struct {
	clientID     string
	clientSecret string
	redirectURL  string
	baseURL      string
	httpClient   *http.Client
}

func New(clientID, clientSecret, redirectURL string) (*Adapter, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, fmt.Errorf("hackclub: config missing required fields")
	}
	return &Adapter{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		baseURL:      defaultBase,
		httpClient:   provider.NewHTTPClient(),
	}, nil
}

func (a *Adapter) Name() string {
	return providerName
}

// AuthorizationURL builds the authorize URL. Hack Club does not use PKCE,
// so the flow's verifier stays empty. Requested scopes are ignored in favor
// of the fixed allow-list.
func (a *Adapter) AuthorizationURL(_ context.Context, flow *provider.FlowState, _ []string) (string, error) {
	u, err := url.Parse(a.baseURL + authorizePath)
	if err != nil {
		return "", fmt.Errorf("hackclub: authorize url: %w", err)
	}

	q := u.Query()
	q.Set("client_id", a.clientID)
	q.Set("redirect_uri", a.redirectURL)
	q.Set("response_type", "code")
	q.Set("scope", scope)
	q.Set("state", flow.State)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Exchange POSTs the authorization code as JSON to the token endpoint.
func (a *Adapter) Exchange(ctx context.Context, code string, _ provider.FlowState) (string, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     a.clientID,
		"client_secret": a.clientSecret,
		"redirect_uri":  a.redirectURL,
		"code":          code,
		"grant_type":    "authorization_code",
	})
	if err != nil {
		return "", fmt.Errorf("hackclub: token request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+tokenPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("hackclub: token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", provider.WrapUpstreamError(err, auth.ErrTokenExchangeFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: token endpoint returned status %d", auth.ErrTokenExchangeFailed, resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: malformed token response: %v", auth.ErrTokenExchangeFailed, err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("%w: no access_token in token response", auth.ErrTokenExchangeFailed)
	}
	return payload.AccessToken, nil
}

// FetchIdentity calls /api/v1/me and maps the nested "identity" object when
// present, else the top-level body. The Slack ID is preferred as subject so
// Hack Club logins line up with Slack logins for the same person.
func (a *Adapter) FetchIdentity(ctx context.Context, accessToken string) (*auth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+userInfoPath, nil)
	if err != nil {
		return nil, fmt.Errorf("hackclub: userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, provider.WrapUpstreamError(err, auth.ErrIdentityFetchFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo endpoint returned status %d", auth.ErrIdentityFetchFailed, resp.StatusCode)
	}

	var body struct {
		userPayload
		Identity *userPayload `json:"identity"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: malformed userinfo response: %v", auth.ErrIdentityFetchFailed, err)
	}

	user := body.userPayload
	if body.Identity != nil {
		user = *body.Identity
	}

	subject := user.SlackID
	if subject == "" {
		subject = user.ID
	}
	if subject == "" {
		return nil, fmt.Errorf("%w: userinfo response has no usable subject", auth.ErrIdentityFetchFailed)
	}

	email := user.PrimaryEmail
	if email == "" {
		email = user.Email
	}

	return &auth.Identity{
		Provider:    providerName,
		Subject:     subject,
		Email:       email,
		Username:    user.Name,
		AccessToken: accessToken,
	}, nil
}

// Revoke is a no-op, Hack Club has no revocation endpoint.
func (a *Adapter) Revoke(context.Context, string) error {
	return nil
}

type userPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PrimaryEmail string `json:"primary_email"`
	SlackID      string `json:"slack_id"`
}
