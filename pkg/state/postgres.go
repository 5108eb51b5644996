package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the Postgres store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is a Store backed by a PostgreSQL table created by Migrations.
// Expired rows are never returned and are purged by Cleanup, which also runs
// in the background every cleanup interval.
type Postgres struct {
	db        DB
	opts      *options
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	insertSQL  string
	consumeSQL string
	cleanupSQL string
}

// NewPostgres creates a Postgres store on db, usually a *pgxpool.Pool.
// The pool lifecycle stays with the caller (see pkg/db.Shutdown).
func NewPostgres(db DB, opts ...Option) *Postgres {
	o := newOptions(opts)
	table := pgx.Identifier{o.table}.Sanitize()

	ctx, cancel := context.WithCancel(context.Background())
	p := &Postgres{
		db:     db,
		opts:   o,
		cancel: cancel,
		done:   make(chan struct{}),
		insertSQL: fmt.Sprintf(`INSERT INTO %[1]s (state, provider, redirect_to, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (state) DO UPDATE SET
	provider = EXCLUDED.provider,
	redirect_to = EXCLUDED.redirect_to,
	created_at = EXCLUDED.created_at,
	expires_at = EXCLUDED.expires_at
WHERE %[1]s.expires_at <= $6`, table),
		consumeSQL: fmt.Sprintf(`DELETE FROM %s WHERE state = $1
RETURNING provider, redirect_to, created_at, expires_at`, table),
		cleanupSQL: fmt.Sprintf(`DELETE FROM %s WHERE expires_at <= $1`, table),
	}

	if o.cleanupInterval > 0 {
		go p.janitor(ctx)
	} else {
		close(p.done)
	}
	return p
}

func (p *Postgres) Save(ctx context.Context, state string, rec Record, ttl time.Duration) error {
	rec, ttl, err := prepare(state, rec, ttl, p.opts.defaultTTL)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	tag, err := p.db.Exec(ctx, p.insertSQL, state, rec.Provider, rec.RedirectTo, rec.CreatedAt, now.Add(ttl), now)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExists
	}
	return nil
}

func (p *Postgres) Consume(ctx context.Context, state string) (Record, error) {
	if state == "" {
		return Record{}, ErrEmptyState
	}

	var (
		rec       Record
		expiresAt time.Time
	)
	err := p.db.QueryRow(ctx, p.consumeSQL, state).Scan(&rec.Provider, &rec.RedirectTo, &rec.CreatedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, errors.Join(ErrStorage, err)
	}
	if !time.Now().Before(expiresAt) {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// Cleanup deletes expired states and returns how many were removed.
func (p *Postgres) Cleanup(ctx context.Context) (int64, error) {
	tag, err := p.db.Exec(ctx, p.cleanupSQL, time.Now().UTC())
	if err != nil {
		return 0, errors.Join(ErrStorage, err)
	}
	return tag.RowsAffected(), nil
}

// Close stops the background cleanup. The pool is not closed.
func (p *Postgres) Close() error {
	p.closeOnce.Do(func() {
		p.cancel()
		<-p.done
	})
	return nil
}

func (p *Postgres) janitor(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Cleanup(ctx)
			if err != nil {
				if ctx.Err() == nil {
					p.opts.logger.WarnContext(ctx, "state cleanup failed", slog.String("error", err.Error()))
				}
				continue
			}
			if n > 0 {
				p.opts.logger.DebugContext(ctx, "expired states removed", slog.Int64("count", n))
			}
		}
	}
}
