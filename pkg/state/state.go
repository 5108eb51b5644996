package state

import (
	"context"
	"time"
)

// Record is what a login flow remembers between the redirect to the provider
// and the callback.
type Record struct {
	CreatedAt  time.Time `json:"created_at"`
	Provider   string    `json:"provider"`
	RedirectTo string    `json:"redirect_to,omitempty"`
}

// Store keeps state tokens until they are consumed or expire.
// Implementations are safe for concurrent use.
type Store interface {
	// Save stores rec under state for ttl. A non-positive ttl selects the
	// store's default. Saving a state that is still live returns ErrExists.
	Save(ctx context.Context, state string, rec Record, ttl time.Duration) error

	// Consume returns the record and deletes it atomically, so a state can be
	// consumed at most once. Unknown, expired and already consumed states
	// return ErrNotFound.
	Consume(ctx context.Context, state string) (Record, error)

	// Close releases resources owned by the store.
	Close() error
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Redis)(nil)
	_ Store = (*Postgres)(nil)
)

// prepare validates the arguments of Save and fills the defaults.
func prepare(state string, rec Record, ttl, defaultTTL time.Duration) (Record, time.Duration, error) {
	if state == "" {
		return rec, 0, ErrEmptyState
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec, ttl, nil
}
