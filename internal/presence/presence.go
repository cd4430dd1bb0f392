// Package presence tracks which users are online in Redis. It is a
// collaborator of the world server, not of the auth flow; the gateway only
// exposes reads.
package presence

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "user_online:"

	// ttl bounds stale entries from crashed world servers.
	ttl = 24 * time.Hour
)

// Tracker is nil-client safe: without Redis every operation is a no-op and
// every user reads as offline.
type Tracker struct {
	client *goredis.Client
}

func NewTracker(client *goredis.Client) *Tracker {
	return &Tracker{client: client}
}

func (t *Tracker) Enabled() bool {
	return t.client != nil
}

func (t *Tracker) SetOnline(ctx context.Context, userUUID string) error {
	if !t.Enabled() {
		return nil
	}
	return t.client.Set(ctx, keyPrefix+userUUID, "true", ttl).Err()
}

func (t *Tracker) SetOffline(ctx context.Context, userUUID string) error {
	if !t.Enabled() {
		return nil
	}
	return t.client.Del(ctx, keyPrefix+userUUID).Err()
}

func (t *Tracker) IsOnline(ctx context.Context, userUUID string) (bool, error) {
	if !t.Enabled() {
		return false, nil
	}
	value, err := t.client.Get(ctx, keyPrefix+userUUID).Result()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value == "true", nil
}
