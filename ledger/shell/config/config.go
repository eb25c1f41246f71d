package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of all environment overrides.
const EnvPrefix = "RENTALLEDGER_"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverPGX    = "pgx"
	DriverSQLDB  = "sqldb"
	DriverSQLX   = "sqlx"
)

// Escrow gateways.
const (
	GatewayInternal = "internal"
	GatewayHTTP     = "http"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrReadingConfig = errors.New("reading config failed")
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Store     StoreConfig     `yaml:"store"`
	Escrow    EscrowConfig    `yaml:"escrow"`
	Retry     RetryConfig     `yaml:"retry"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	Issuer    string        `yaml:"issuer"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type StoreConfig struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	ReplicaDSN      string        `yaml:"replica_dsn"`
	TableName       string        `yaml:"table_name"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
}

type EscrowConfig struct {
	Gateway string        `yaml:"gateway"`
	URL     string        `yaml:"url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
	Blocked []string      `yaml:"blocked"`
}

type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	BaseDelay    time.Duration `yaml:"base_delay"`
	JitterFactor float64       `yaml:"jitter_factor"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TelemetryConfig struct {
	Enabled         bool          `yaml:"enabled"`
	ServiceName     string        `yaml:"service_name"`
	ServiceVersion  string        `yaml:"service_version"`
	TraceEndpoint   string        `yaml:"trace_endpoint"`
	MetricEndpoint  string        `yaml:"metric_endpoint"`
	Insecure        bool          `yaml:"insecure"`
	MetricsInterval time.Duration `yaml:"metrics_interval"`
}

// Default returns a configuration that runs in-process: memory store, internal gateway, no telemetry.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			Issuer:   "rentalledger",
			TokenTTL: 24 * time.Hour,
		},
		Store: StoreConfig{
			Driver:          DriverMemory,
			TableName:       "events",
			MaxConns:        8,
			MinConns:        2,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 5 * time.Minute,
			ConnectTimeout:  5 * time.Second,
		},
		Escrow: EscrowConfig{
			Gateway: GatewayInternal,
			Timeout: 10 * time.Second,
		},
		Retry: RetryConfig{
			MaxAttempts:  6,
			BaseDelay:    10 * time.Millisecond,
			JitterFactor: 0.3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			ServiceName:     "rentalledger",
			ServiceVersion:  "dev",
			TraceEndpoint:   "localhost:4317",
			MetricEndpoint:  "localhost:4317",
			Insecure:        true,
			MetricsInterval: 15 * time.Second,
		},
	}
}

// Load reads path (skipped when empty) over the defaults, applies the environment and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Join(ErrReadingConfig, err)
		}

		if err = yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, errors.Join(ErrReadingConfig, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the environment, lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(name string, target *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*target = v
		}
	}

	duration := func(name string, target *time.Duration) {
		if v, ok := lookup(EnvPrefix + name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*target = d
		}
	}

	integer := func(name string, target *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*target = n
		}
	}

	boolean := func(name string, target *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*target = b
		}
	}

	str("SERVER_ADDR", &c.Server.Addr)
	duration("SERVER_SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	str("AUTH_JWT_SECRET", &c.Auth.JWTSecret)
	str("AUTH_ISSUER", &c.Auth.Issuer)
	duration("AUTH_TOKEN_TTL", &c.Auth.TokenTTL)
	str("STORE_DRIVER", &c.Store.Driver)
	str("STORE_DSN", &c.Store.DSN)
	str("STORE_REPLICA_DSN", &c.Store.ReplicaDSN)
	str("STORE_TABLE_NAME", &c.Store.TableName)
	str("ESCROW_GATEWAY", &c.Escrow.Gateway)
	str("ESCROW_URL", &c.Escrow.URL)
	str("ESCROW_API_KEY", &c.Escrow.APIKey)
	duration("ESCROW_TIMEOUT", &c.Escrow.Timeout)
	integer("RETRY_MAX_ATTEMPTS", &c.Retry.MaxAttempts)
	duration("RETRY_BASE_DELAY", &c.Retry.BaseDelay)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	boolean("TELEMETRY_ENABLED", &c.Telemetry.Enabled)
	str("TELEMETRY_SERVICE_NAME", &c.Telemetry.ServiceName)
	str("TELEMETRY_TRACE_ENDPOINT", &c.Telemetry.TraceEndpoint)
	str("TELEMETRY_METRIC_ENDPOINT", &c.Telemetry.MetricEndpoint)

	if v, ok := lookup(EnvPrefix + "ESCROW_BLOCKED"); ok {
		c.Escrow.Blocked = splitList(v)
	}

	return errors.Join(errs...)
}

// Validate reports every problem of the configuration at once.
func (c Config) Validate() error {
	var problems []string

	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is required")
	}

	if !slices.Contains([]string{DriverMemory, DriverPGX, DriverSQLDB, DriverSQLX}, c.Store.Driver) {
		problems = append(problems, fmt.Sprintf("store.driver %q is unknown", c.Store.Driver))
	}

	if c.Store.Driver != DriverMemory && c.Store.DSN == "" {
		problems = append(problems, "store.dsn is required for driver "+c.Store.Driver)
	}

	if c.Store.TableName == "" {
		problems = append(problems, "store.table_name is required")
	}

	switch c.Escrow.Gateway {
	case GatewayInternal:
	case GatewayHTTP:
		if c.Escrow.URL == "" {
			problems = append(problems, "escrow.url is required for the http gateway")
		}
	default:
		problems = append(problems, fmt.Sprintf("escrow.gateway %q is unknown", c.Escrow.Gateway))
	}

	if c.Retry.MaxAttempts < 1 {
		problems = append(problems, "retry.max_attempts must be at least 1")
	}

	if c.Retry.JitterFactor < 0 || c.Retry.JitterFactor > 1 {
		problems = append(problems, "retry.jitter_factor must be between 0 and 1")
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}

	return nil
}

// ValidateAuth is checked by the commands that need a signing key.
func (c Config) ValidateAuth() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("%w: auth.jwt_secret must be at least 32 bytes", ErrInvalidConfig)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
