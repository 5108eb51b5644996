package state

import "errors"

var (
	// ErrNotFound is returned when a state is unknown, expired or already consumed.
	ErrNotFound = errors.New("state: not found")

	// ErrExists is returned when saving a state that is still live.
	ErrExists = errors.New("state: already exists")

	// ErrEmptyState is returned when the state token is empty.
	ErrEmptyState = errors.New("state: empty state token")

	// ErrClosed is returned when the store has been closed.
	ErrClosed = errors.New("state: store closed")

	// ErrStorage wraps failures of the underlying storage.
	ErrStorage = errors.New("state: storage failure")
)
