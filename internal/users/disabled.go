package users

import "context"

// DisabledStore stands in when Postgres is not configured or unreachable at
// startup. Every login gets default flags; availability of the login path
// wins over flag freshness.
type DisabledStore struct{}

func NewDisabledStore() DisabledStore {
	return DisabledStore{}
}

func (DisabledStore) Upsert(context.Context, string, string, string) (Flags, error) {
	return Flags{}, nil
}

func (DisabledStore) Get(context.Context, string) (*User, error) {
	return nil, nil
}
