package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresSecretKey(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "http://localhost:3000", cfg.FrontURL)
	assert.Equal(t, "openid profile email", cfg.OIDCScope)
	assert.Equal(t, "username", cfg.OIDCUsernameClaim)
	assert.Empty(t, cfg.TrustedOrigins)
}

func TestLoadTrustedOriginsSplit(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("TRUSTED_ORIGINS", "https://app.example.com,https://play.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://app.example.com", "https://play.example.com"}, cfg.TrustedOrigins)
}
