// Package db connects to PostgreSQL through a pgx pool and applies goose
// migrations from any fs.FS.
//
//	pool, err := db.Connect(ctx, db.DefaultConfig(os.Getenv("DATABASE_URL")), log)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, state.Migrations(), "", log); err != nil {
//		return err
//	}
//
// Errors are joined with the package sentinels, so errors.Is works on the
// result of every function here.
package db
