package maps

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Registration struct {
	Subject    string
	MapURL     string
	IsApproved bool
	UpdatedAt  time.Time
}

type Store interface {
	// Upsert registers or replaces the user's map. A replaced map always
	// drops back to unapproved.
	Upsert(ctx context.Context, subject, mapURL string) error

	Get(ctx context.Context, subject string) (*Registration, error)
}

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, subject, mapURL string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_maps (subject, map_url, is_approved, updated_at)
		VALUES ($1, $2, FALSE, NOW())
		ON CONFLICT (subject)
		DO UPDATE SET
			map_url     = EXCLUDED.map_url,
			is_approved = FALSE,
			updated_at  = NOW()
	`,
		subject,
		mapURL,
	)
	if err != nil {
		return fmt.Errorf("maps: upsert failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, subject string) (*Registration, error) {
	var reg Registration
	err := s.db.QueryRowContext(ctx, `
		SELECT subject, map_url, is_approved, updated_at
		FROM user_maps
		WHERE subject = $1
	`,
		subject,
	).Scan(&reg.Subject, &reg.MapURL, &reg.IsApproved, &reg.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("maps: lookup failed: %w", err)
	}
	return &reg, nil
}
