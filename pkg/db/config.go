package db

import "time"

// Config holds PostgreSQL pool settings.
type Config struct {
	// URL is a postgres:// connection string.
	URL             string        `yaml:"url"`
	MigrationsTable string        `yaml:"migrations_table"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	RetryAttempts   int           `yaml:"retry_attempts"`
	RetryInterval   time.Duration `yaml:"retry_interval"`
}

// DefaultConfig returns pool settings suited to a small auth service.
func DefaultConfig(url string) Config {
	return Config{
		URL:             url,
		MigrationsTable: "schema_migrations",
		MaxConns:        10,
		MinConns:        2,
		MaxConnIdleTime: 10 * time.Minute,
		MaxConnLifetime: 30 * time.Minute,
		RetryAttempts:   3,
		RetryInterval:   2 * time.Second,
	}
}
