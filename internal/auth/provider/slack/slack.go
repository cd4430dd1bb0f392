// Package slack implements Slack's OAuth2 dialect, which diverges from
// standard OIDC on every step: user scopes ride a dedicated user_scope
// parameter, the token exchange is a form-encoded POST whose token is
// nested under authed_user, and identity comes from users.identity.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ItsFelix5/flavor-adventure/internal/auth"
	"github.com/ItsFelix5/flavor-adventure/internal/auth/provider"
)

const (
	providerName = "slack"

	defaultAuthorizeURL = "https://slack.com/oauth/v2/authorize"
	defaultAPIBase      = "https://slack.com/api"

	defaultUserScopes = "identity.basic,identity.email,identity.avatar,identity.team"

	// verifierPlaceholder keeps the encrypted-cookie contract uniform across
	// adapters even though Slack has no PKCE.
	verifierPlaceholder = "slack_oauth"
)

type Adapter struct {
	clientID     string
	clientSecret string
	redirectURL  string
	authorizeURL string
	apiBase      string
	httpClient   *http.Client
}

func New(clientID, clientSecret, redirectURL string) (*Adapter, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, fmt.Errorf("slack: config missing required fields")
	}
	return &Adapter{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURL:  redirectURL,
		authorizeURL: defaultAuthorizeURL,
		apiBase:      defaultAPIBase,
		httpClient:   provider.NewHTTPClient(),
	}, nil
}

func (a *Adapter) Name() string {
	return providerName
}

func (a *Adapter) AuthorizationURL(_ context.Context, flow *provider.FlowState, requestedScopes []string) (string, error) {
	u, err := url.Parse(a.authorizeURL)
	if err != nil {
		return "", fmt.Errorf("slack: authorize url: %w", err)
	}

	userScopes := defaultUserScopes
	if len(requestedScopes) > 0 {
		userScopes = strings.Join(requestedScopes, ",")
	}

	q := u.Query()
	q.Set("client_id", a.clientID)
	q.Set("user_scope", userScopes)
	q.Set("state", flow.State)
	q.Set("redirect_uri", a.redirectURL)
	u.RawQuery = q.Encode()

	flow.Verifier = verifierPlaceholder

	return u.String(), nil
}

// Exchange POSTs the code form-encoded to oauth.v2.access. Slack reports
// failure with a 200 and ok:false, so the body decides, not the status.
func (a *Adapter) Exchange(ctx context.Context, code string, _ provider.FlowState) (string, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {a.clientID},
		"client_secret": {a.clientSecret},
		"redirect_uri":  {a.redirectURL},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiBase+"/oauth.v2.access",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("slack: token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", provider.WrapUpstreamError(err, auth.ErrTokenExchangeFailed)
	}
	defer resp.Body.Close()

	var payload struct {
		OK         bool   `json:"ok"`
		Error      string `json:"error"`
		AuthedUser struct {
			AccessToken string `json:"access_token"`
		} `json:"authed_user"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: malformed token response: %v", auth.ErrTokenExchangeFailed, err)
	}
	if !payload.OK {
		return "", fmt.Errorf("%w: slack oauth error: %s", auth.ErrTokenExchangeFailed, payload.Error)
	}
	if payload.AuthedUser.AccessToken == "" {
		return "", fmt.Errorf("%w: no authed_user access token in response", auth.ErrTokenExchangeFailed)
	}
	return payload.AuthedUser.AccessToken, nil
}

// FetchIdentity calls users.identity and maps the user and team objects.
// The subject is Slack's user id.
func (a *Adapter) FetchIdentity(ctx context.Context, accessToken string) (*auth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.apiBase+"/users.identity", nil)
	if err != nil {
		return nil, fmt.Errorf("slack: identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, provider.WrapUpstreamError(err, auth.ErrIdentityFetchFailed)
	}
	defer resp.Body.Close()

	var payload struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
		User  struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			RealName string `json:"real_name"`
			Email    string `json:"email"`
			Locale   string `json:"locale"`
		} `json:"user"`
		Team struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"team"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: malformed identity response: %v", auth.ErrIdentityFetchFailed, err)
	}
	if !payload.OK {
		return nil, fmt.Errorf("%w: slack api error: %s", auth.ErrIdentityFetchFailed, payload.Error)
	}
	if payload.User.ID == "" {
		return nil, fmt.Errorf("%w: identity response has no user id", auth.ErrIdentityFetchFailed)
	}

	username := payload.User.RealName
	if username == "" {
		username = payload.User.Name
	}
	locale := payload.User.Locale
	if locale == "" {
		locale = "en-US"
	}

	return &auth.Identity{
		Provider:    providerName,
		Subject:     payload.User.ID,
		Email:       payload.User.Email,
		Username:    username,
		Locale:      locale,
		AccessToken: accessToken,
	}, nil
}

// Revoke is a no-op, the gateway does not revoke Slack user tokens.
func (a *Adapter) Revoke(context.Context, string) error {
	return nil
}
