// Package state stores OAuth state tokens between the redirect to a provider
// and its callback, so a callback is accepted only for a state this service
// issued and only once.
//
// Three stores are provided:
//
//   - Memory: a map with a janitor goroutine, for a single instance.
//   - Redis: SET NX with a TTL and GETDEL on consume.
//   - Postgres: the oauth_states table from Migrations, consumed with
//     DELETE ... RETURNING.
//
// Example:
//
//	store := state.NewRedis(client, state.WithPrefix("login"))
//	if err := store.Save(ctx, token, state.Record{Provider: "github"}, 0); err != nil {
//		return err
//	}
//	rec, err := store.Consume(ctx, token)
//	if errors.Is(err, state.ErrNotFound) {
//		// unknown, expired or replayed
//	}
package state
