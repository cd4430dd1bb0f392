package users

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ItsFelix5/flavor-adventure/internal/db"
)

// openTestDB connects to the Postgres named by TEST_DATABASE_DSN, skipping
// when none is configured so the suite stays runnable without one.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, sqlDB.PingContext(context.Background()))
	require.NoError(t, db.RunGatewayMigration(context.Background(), sqlDB))
	return sqlDB
}

func newTestSubject(t *testing.T, sqlDB *sql.DB) string {
	t.Helper()
	subject := "test-" + uuid.NewString()
	t.Cleanup(func() {
		sqlDB.ExecContext(context.Background(), `DELETE FROM users WHERE subject = $1`, subject)
	})
	return subject
}

func TestPostgresUpsertIsIdempotent(t *testing.T) {
	sqlDB := openTestDB(t)
	store := NewPostgresStore(sqlDB)
	subject := newTestSubject(t, sqlDB)
	ctx := context.Background()

	flags, err := store.Upsert(ctx, subject, "Orpheus", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, Flags{}, flags)

	again, err := store.Upsert(ctx, subject, "Orpheus", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, flags, again)

	u, err := store.Get(ctx, subject)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Orpheus", u.GivenName)
	assert.Equal(t, "a@b.com", u.Email)
}

func TestPostgresUpsertKeepsLastKnownGoodFields(t *testing.T) {
	sqlDB := openTestDB(t)
	store := NewPostgresStore(sqlDB)
	subject := newTestSubject(t, sqlDB)
	ctx := context.Background()

	_, err := store.Upsert(ctx, subject, "Orpheus", "a@b.com")
	require.NoError(t, err)

	// A later login where the provider returned no name or email must not
	// wipe what we already know.
	_, err = store.Upsert(ctx, subject, "", "")
	require.NoError(t, err)

	u, err := store.Get(ctx, subject)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Orpheus", u.GivenName)
	assert.Equal(t, "a@b.com", u.Email)

	// Partial updates replace only the field the provider sent.
	_, err = store.Upsert(ctx, subject, "", "new@b.com")
	require.NoError(t, err)

	u, err = store.Get(ctx, subject)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Orpheus", u.GivenName)
	assert.Equal(t, "new@b.com", u.Email)
}

func TestPostgresUpsertReturnsStoredFlags(t *testing.T) {
	sqlDB := openTestDB(t)
	store := NewPostgresStore(sqlDB)
	subject := newTestSubject(t, sqlDB)
	ctx := context.Background()

	_, err := store.Upsert(ctx, subject, "Orpheus", "a@b.com")
	require.NoError(t, err)

	_, err = sqlDB.ExecContext(ctx, `
		UPDATE users SET is_admin = TRUE, is_banned = TRUE, has_unlocked_pets = TRUE
		WHERE subject = $1
	`, subject)
	require.NoError(t, err)

	flags, err := store.Upsert(ctx, subject, "Orpheus", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, Flags{IsAdmin: true, IsBanned: true, HasPets: true}, flags)
}

func TestPostgresGetUnknownSubject(t *testing.T) {
	sqlDB := openTestDB(t)
	store := NewPostgresStore(sqlDB)

	u, err := store.Get(context.Background(), "test-"+uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestPostgresUpsertRequiresSubject(t *testing.T) {
	store := NewPostgresStore(nil)

	_, err := store.Upsert(context.Background(), "", "Orpheus", "a@b.com")
	require.Error(t, err)
}
