package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers bad signatures, malformed tokens and expiry.
	ErrInvalidToken = errors.New("token: invalid token")

	// ErrMissingAccessToken is returned by Verify when the caller requires
	// an upstream access token claim and the token does not carry one.
	ErrMissingAccessToken = errors.New("token: missing access token")
)

const defaultTTL = 30 * 24 * time.Hour

// Claims is the payload of the bearer token the gateway issues. Downstream
// services verify it offline with the shared secret; nothing in it is ever
// patched after signing.
type Claims struct {
	// Identifier is the user's email, falling back to the provider subject
	// when the provider did not return an email.
	Identifier      string   `json:"identifier"`
	AccessToken     string   `json:"accessToken,omitempty"`
	Username        string   `json:"username,omitempty"`
	Locale          string   `json:"locale,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	MatrixUserID    string   `json:"matrixUserId,omitempty"`
	ProviderSubject string   `json:"providerSubject,omitempty"`

	jwt.RegisteredClaims
}

// Manager signs and verifies auth tokens with a process-wide HMAC secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secretKey string) *Manager {
	return &Manager{
		secret: []byte(secretKey),
		ttl:    defaultTTL,
	}
}

// Issue signs the claims with an embedded issue/expiry timestamp.
func (m *Manager) Issue(claims Claims) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token: signing failed: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry. When requireAccessToken is set, the
// upstream access token claim must be present.
func (m *Manager) Verify(raw string, requireAccessToken bool) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if requireAccessToken && claims.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}
	return claims, nil
}

// ParseLenient checks the signature but tolerates an expired token. Logout
// must be able to recover the upstream access token from a token that is
// past its expiry.
func (m *Manager) ParseLenient(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if _, err := parser.ParseWithClaims(raw, claims, m.keyFunc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

func (m *Manager) keyFunc(*jwt.Token) (interface{}, error) {
	return m.secret, nil
}
