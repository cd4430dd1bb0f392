package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresStore is the canonical user store. The upsert is a single
// statement so reconciliation needs no transaction.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, subject, givenName, email string) (Flags, error) {
	if subject == "" {
		return Flags{}, errors.New("users: subject is required")
	}

	var flags Flags
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (subject, given_name, email, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NOW())
		ON CONFLICT (subject)
		DO UPDATE SET
			given_name = COALESCE(EXCLUDED.given_name, users.given_name),
			email      = COALESCE(EXCLUDED.email, users.email),
			updated_at = NOW()
		RETURNING is_admin, is_banned, has_unlocked_pets
	`,
		subject,
		givenName,
		email,
	).Scan(&flags.IsAdmin, &flags.IsBanned, &flags.HasPets)

	if err != nil {
		return Flags{}, fmt.Errorf("users: upsert failed: %w", err)
	}
	return flags, nil
}

func (s *PostgresStore) Get(ctx context.Context, subject string) (*User, error) {
	var (
		u         User
		givenName sql.NullString
		email     sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT subject, given_name, email, is_admin, is_banned, has_unlocked_pets, updated_at
		FROM users
		WHERE subject = $1
	`,
		subject,
	).Scan(&u.Subject, &givenName, &email, &u.IsAdmin, &u.IsBanned, &u.HasPets, &u.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("users: lookup failed: %w", err)
	}

	u.GivenName = givenName.String
	u.Email = email.String
	return &u, nil
}
