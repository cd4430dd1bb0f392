package users

import (
	"context"
	"time"
)

// Flags are the stored authorization flags for a user. They are
// authoritative over anything the identity provider claimed.
type Flags struct {
	IsAdmin  bool
	IsBanned bool
	HasPets  bool
}

type User struct {
	Subject   string
	GivenName string
	Email     string
	Flags
	UpdatedAt time.Time
}

// Store owns the user record. Reconciliation is keyed by the provider
// subject; no other component writes users.
type Store interface {
	// Upsert inserts or refreshes the record for subject and returns the
	// stored flags. Empty givenName/email never overwrite known values.
	Upsert(ctx context.Context, subject, givenName, email string) (Flags, error)

	// Get returns the record for subject, or nil when unknown.
	Get(ctx context.Context, subject string) (*User, error)
}
