package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledStoreDefaults(t *testing.T) {
	store := NewDisabledStore()

	flags, err := store.Upsert(context.Background(), "U12345", "Orpheus", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, Flags{}, flags)

	u, err := store.Get(context.Background(), "U12345")
	require.NoError(t, err)
	assert.Nil(t, u)
}
