// Command thirdparty serves OAuth 2.0 sign-in for the providers listed in
// its configuration file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/dmitrymomot/thirdparty"
	"github.com/dmitrymomot/thirdparty/internal/config"
	"github.com/dmitrymomot/thirdparty/internal/server"
	"github.com/dmitrymomot/thirdparty/pkg/cookie"
	"github.com/dmitrymomot/thirdparty/pkg/db"
	"github.com/dmitrymomot/thirdparty/pkg/logger"
	"github.com/dmitrymomot/thirdparty/pkg/oauth"
	"github.com/dmitrymomot/thirdparty/pkg/redis"
	"github.com/dmitrymomot/thirdparty/pkg/state"
)

const sentryFlushTimeout = 2 * time.Second

func main() {
	configPath := flag.String("config", getEnv("THIRDPARTY_CONFIG", "config.yaml"), "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.NewWithSentry(cfg.Logger.Sentry,
		logger.WithLevel(logger.ParseLevel(cfg.Logger.Level)),
		logger.WithExtractors(server.RequestIDExtractor(), thirdparty.ProviderExtractor()),
	)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		sentry.Flush(sentryFlushTimeout)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	providers, err := thirdparty.NewProviders(cfg.Providers, oauth.WithLogger(log))
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithLogger(log),
		server.WithAllowedRedirects(cfg.AllowedRedirects...),
		server.WithCORS(cfg.Server.CORSOrigins...),
		server.WithRequestTimeout(cfg.Server.RequestTimeout),
	}
	if cfg.Server.CookieSecret != "" {
		signer, err := cookie.NewSigner(cfg.Server.CookieSecret,
			cookie.WithPath("/auth/"),
			cookie.WithSecure(strings.HasPrefix(cfg.Server.PublicURL, "https://")),
		)
		if err != nil {
			return err
		}
		opts = append(opts, server.WithStateCookie(signer, cfg.State.TTL))
	}

	var hooks []func(context.Context) error
	store, err := openStore(ctx, cfg.State, log, &hooks, &opts)
	if err != nil {
		return err
	}

	// Hooks run in order: the store goes before the connection it uses.
	hooks = append([]func(context.Context) error{
		func(context.Context) error { return store.Close() },
	}, hooks...)
	hooks = append(hooks, func(context.Context) error {
		sentry.Flush(sentryFlushTimeout)
		return nil
	})

	auth, err := thirdparty.New(
		thirdparty.WithProviders(providers...),
		thirdparty.WithStateStore(store),
		thirdparty.WithStateTTL(cfg.State.TTL),
		thirdparty.WithLogger(log),
	)
	if err != nil {
		for _, hook := range hooks {
			_ = hook(ctx)
		}
		return err
	}

	log.Info("providers configured",
		slog.Any("providers", auth.Providers()),
		slog.String("state_store", cfg.State.Store),
	)

	return server.Run(ctx, server.RunConfig{
		Handler:           server.NewRouter(auth, opts...),
		Logger:            log,
		Addr:              cfg.Server.Addr,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ShutdownHooks:     hooks,
	})
}

// openStore builds the configured state store and registers the readiness
// check and shutdown hook of its backing connection.
func openStore(ctx context.Context, cfg config.StateConfig, log *slog.Logger, hooks *[]func(context.Context) error, opts *[]server.Option) (state.Store, error) {
	common := []state.Option{
		state.WithDefaultTTL(cfg.TTL),
		state.WithCleanupInterval(cfg.CleanupInterval),
		state.WithLogger(log),
	}

	switch cfg.Store {
	case config.StoreRedis:
		client, err := redis.Open(ctx, cfg.RedisURL, redis.WithLogger(log))
		if err != nil {
			return nil, err
		}
		*opts = append(*opts, server.WithHealthCheck("redis", redis.Healthcheck(client)))
		*hooks = append(*hooks, redis.Shutdown(client))
		return state.NewRedis(client, append(common, state.WithPrefix(cfg.KeyPrefix))...), nil

	case config.StorePostgres:
		dbCfg := db.DefaultConfig(cfg.DatabaseURL)
		dbCfg.MigrationsTable = cfg.MigrationsTable
		pool, err := db.Connect(ctx, dbCfg, log)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx, pool, state.Migrations(), dbCfg.MigrationsTable, log); err != nil {
			pool.Close()
			return nil, err
		}
		*opts = append(*opts, server.WithHealthCheck("postgres", db.Healthcheck(pool)))
		*hooks = append(*hooks, db.Shutdown(pool))
		return state.NewPostgres(pool, common...), nil

	default:
		return state.NewMemory(common...), nil
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
