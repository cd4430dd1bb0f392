package db

import (
	"context"
	"database/sql"
)

const gatewayMigration = `
CREATE TABLE IF NOT EXISTS users (
    subject text PRIMARY KEY,
    given_name text,
    email text,
    is_admin boolean NOT NULL DEFAULT false,
    is_banned boolean NOT NULL DEFAULT false,
    has_unlocked_pets boolean NOT NULL DEFAULT false,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_maps (
    subject text PRIMARY KEY,
    map_url text NOT NULL,
    is_approved boolean NOT NULL DEFAULT false,
    updated_at timestamptz NOT NULL DEFAULT NOW()
);
`

// RunGatewayMigration creates the gateway tables. Statements are idempotent
// so running at every startup is safe.
func RunGatewayMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, gatewayMigration)
	return err
}
