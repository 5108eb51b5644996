package state

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by Redis. Each state is a JSON value with a TTL;
// Consume uses GETDEL, which requires Redis 6.2 or newer.
type Redis struct {
	client redis.UniversalClient
	opts   *options
}

// NewRedis creates a Redis store. The client lifecycle stays with the caller
// (see pkg/redis.Shutdown).
func NewRedis(client redis.UniversalClient, opts ...Option) *Redis {
	return &Redis{client: client, opts: newOptions(opts)}
}

func (r *Redis) Save(ctx context.Context, state string, rec Record, ttl time.Duration) error {
	rec, ttl, err := prepare(state, rec, ttl, r.opts.defaultTTL)
	if err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}

	ok, err := r.client.SetNX(ctx, r.key(state), data, ttl).Result()
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if !ok {
		return ErrExists
	}
	return nil
}

func (r *Redis) Consume(ctx context.Context, state string) (Record, error) {
	if state == "" {
		return Record{}, ErrEmptyState
	}

	data, err := r.client.GetDel(ctx, r.key(state)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, errors.Join(ErrStorage, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Join(ErrStorage, err)
	}
	return rec, nil
}

// Close is a no-op; the client is closed by its owner.
func (r *Redis) Close() error {
	return nil
}

func (r *Redis) key(state string) string {
	if r.opts.prefix == "" {
		return state
	}
	return r.opts.prefix + ":" + state
}
