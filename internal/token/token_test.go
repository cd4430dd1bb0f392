package token

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := NewManager("signing-secret")

	issued, err := m.Issue(Claims{
		Identifier:      "a@b.com",
		AccessToken:     "upstream-token",
		Username:        "orpheus",
		Locale:          "en-US",
		Tags:            []string{"admin", "pets"},
		MatrixUserID:    "@a.b:matrix.example.com",
		ProviderSubject: "U12345",
	})
	require.NoError(t, err)

	claims, err := m.Verify(issued, true)
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", claims.Identifier)
	assert.Equal(t, "upstream-token", claims.AccessToken)
	assert.Equal(t, "orpheus", claims.Username)
	assert.Equal(t, "en-US", claims.Locale)
	assert.Equal(t, []string{"admin", "pets"}, claims.Tags)
	assert.Equal(t, "@a.b:matrix.example.com", claims.MatrixUserID)
	assert.Equal(t, "U12345", claims.ProviderSubject)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issued, err := NewManager("secret-one").Issue(Claims{Identifier: "a@b.com"})
	require.NoError(t, err)

	_, err = NewManager("secret-two").Verify(issued, false)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewManager("secret").Verify("not-a-token", false)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRequireAccessToken(t *testing.T) {
	m := NewManager("secret")

	issued, err := m.Issue(Claims{Identifier: "a@b.com"})
	require.NoError(t, err)

	_, err = m.Verify(issued, false)
	assert.NoError(t, err)

	_, err = m.Verify(issued, true)
	assert.ErrorIs(t, err, ErrMissingAccessToken)
}

func TestExpiredTokenStrictVsLenient(t *testing.T) {
	m := NewManager("secret")
	m.ttl = -time.Minute

	issued, err := m.Issue(Claims{Identifier: "a@b.com", AccessToken: "at"})
	require.NoError(t, err)

	_, err = m.Verify(issued, false)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := m.ParseLenient(issued)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Identifier)
	assert.Equal(t, "at", claims.AccessToken)
}

func TestParseLenientStillChecksSignature(t *testing.T) {
	other := NewManager("secret-one")
	other.ttl = -time.Minute

	issued, err := other.Issue(Claims{Identifier: "a@b.com"})
	require.NoError(t, err)

	_, err = NewManager("secret-two").ParseLenient(issued)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
