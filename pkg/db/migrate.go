package db

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// Migrate applies every pending goose migration found at the root of migrations.
// Versions are tracked in table; an empty name selects "schema_migrations".
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger) error {
	if table == "" {
		table = "schema_migrations"
	}

	store, err := database.NewStore(database.DialectPostgres, table)
	if err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	// The sql.DB shares the pool's connections and must not be closed here.
	sqlDB := stdlib.OpenDBFromPool(pool)

	provider, err := goose.NewProvider("", sqlDB, migrations, goose.WithStore(store))
	if err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	if log != nil {
		for _, r := range results {
			log.InfoContext(ctx, "migration applied",
				slog.Int64("version", r.Source.Version),
				slog.String("file", r.Source.Path),
				slog.Duration("duration", r.Duration),
			)
		}
	}

	return nil
}
