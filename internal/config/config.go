// Package config loads the service configuration from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/thirdparty/pkg/cookie"
	"github.com/dmitrymomot/thirdparty/pkg/logger"
	"github.com/dmitrymomot/thirdparty/pkg/oauth"
	"github.com/dmitrymomot/thirdparty/pkg/state"
)

// State store kinds.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// ErrInvalidConfig is joined with every validation problem found by Load.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root of the configuration file.
type Config struct {
	Providers        map[string]oauth.ProviderConfig `yaml:"providers"`
	Logger           LoggerConfig                    `yaml:"logger"`
	State            StateConfig                     `yaml:"state"`
	Server           ServerConfig                    `yaml:"server"`
	AllowedRedirects []string                        `yaml:"allowed_redirects"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// PublicURL is the externally visible base URL. Providers without a
	// redirect_url get "{public_url}/auth/{provider}/callback".
	PublicURL string `yaml:"public_url"`
	// CookieSecret enables binding each login to the browser with a signed
	// cookie. It must be at least 32 bytes.
	CookieSecret      string        `yaml:"cookie_secret"`
	CORSOrigins       []string      `yaml:"cors_origins"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
}

// LoggerConfig configures logging.
type LoggerConfig struct {
	Level  string              `yaml:"level"`
	Sentry logger.SentryConfig `yaml:"sentry"`
}

// StateConfig selects and configures the state store.
type StateConfig struct {
	Store           string        `yaml:"store"`
	RedisURL        string        `yaml:"redis_url"`
	DatabaseURL     string        `yaml:"database_url"`
	KeyPrefix       string        `yaml:"key_prefix"`
	MigrationsTable string        `yaml:"migrations_table"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// Default returns the configuration used for keys the file leaves out.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ShutdownTimeout:   10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			RequestTimeout:    30 * time.Second,
		},
		Logger: LoggerConfig{Level: "info"},
		State: StateConfig{
			Store:           StoreMemory,
			KeyPrefix:       "oauth_state",
			MigrationsTable: "schema_migrations",
			TTL:             state.DefaultTTL,
			CleanupInterval: time.Minute,
		},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML after expanding ${VAR} references from the environment,
// fills defaults and validates the result. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Join(ErrInvalidConfig, fmt.Errorf("decode: %w", err))
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Server.PublicURL = strings.TrimRight(c.Server.PublicURL, "/")
	c.State.Store = strings.ToLower(strings.TrimSpace(c.State.Store))

	for name, p := range c.Providers {
		if p.RedirectURL == "" && c.Server.PublicURL != "" {
			p.RedirectURL = c.Server.PublicURL + "/auth/" + name + "/callback"
			c.Providers[name] = p
		}
	}
}

// Validate reports every problem at once, joined with ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Providers) == 0 {
		errs = append(errs, errors.New("at least one provider is required"))
	}
	for name, p := range c.Providers {
		if _, ok := oauth.LookupDescriptor(name); !ok {
			errs = append(errs, fmt.Errorf("providers.%s: unknown provider", name))
			continue
		}
		if p.ClientID == "" {
			errs = append(errs, fmt.Errorf("providers.%s.client_id is required", name))
		}
		if p.ClientSecret == "" {
			errs = append(errs, fmt.Errorf("providers.%s.client_secret is required", name))
		}
		if p.RedirectURL == "" {
			errs = append(errs, fmt.Errorf("providers.%s.redirect_url is required when server.public_url is empty", name))
		}
	}

	switch c.State.Store {
	case StoreMemory:
	case StoreRedis:
		if c.State.RedisURL == "" {
			errs = append(errs, errors.New("state.redis_url is required for the redis store"))
		}
	case StorePostgres:
		if c.State.DatabaseURL == "" {
			errs = append(errs, errors.New("state.database_url is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("state.store: unknown store %q", c.State.Store))
	}

	if c.State.TTL <= 0 {
		errs = append(errs, errors.New("state.ttl must be positive"))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Server.CookieSecret != "" && len(c.Server.CookieSecret) < cookie.MinSecretLength {
		errs = append(errs, fmt.Errorf("server.cookie_secret must be at least %d bytes", cookie.MinSecretLength))
	}
	if slices.Contains(c.AllowedRedirects, "") {
		errs = append(errs, errors.New("allowed_redirects: empty entry"))
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
}
