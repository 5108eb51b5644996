package state

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	expiresAt time.Time
	rec       Record
}

// Memory is an in-process Store. States do not survive a restart and are not
// shared between instances; use Redis or Postgres behind a load balancer.
type Memory struct {
	items  map[string]memoryEntry
	opts   *options
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// NewMemory creates an in-memory store. A janitor goroutine purges expired
// states every cleanup interval until Close is called.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		items: make(map[string]memoryEntry),
		opts:  newOptions(opts),
		done:  make(chan struct{}),
	}
	if m.opts.cleanupInterval > 0 {
		go m.janitor()
	}
	return m
}

func (m *Memory) Save(_ context.Context, state string, rec Record, ttl time.Duration) error {
	rec, ttl, err := prepare(state, rec, ttl, m.opts.defaultTTL)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	now := time.Now()
	if e, ok := m.items[state]; ok && now.Before(e.expiresAt) {
		return ErrExists
	}
	m.items[state] = memoryEntry{rec: rec, expiresAt: now.Add(ttl)}
	return nil
}

func (m *Memory) Consume(_ context.Context, state string) (Record, error) {
	if state == "" {
		return Record{}, ErrEmptyState
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Record{}, ErrClosed
	}
	e, ok := m.items[state]
	if !ok {
		return Record{}, ErrNotFound
	}
	delete(m.items, state)
	if !time.Now().Before(e.expiresAt) {
		return Record{}, ErrNotFound
	}
	return e.rec, nil
}

// Len returns the number of stored states, expired ones included until the
// janitor removes them.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the janitor and drops all states. Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	m.items = nil
	close(m.done)
	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, e := range m.items {
		if !now.Before(e.expiresAt) {
			delete(m.items, k)
		}
	}
}
