package config

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Postgres adapters, matching the three constructors of postgresengine.
const (
	AdapterPGXPool = "pgx.pool"
	AdapterSQLDB   = "sql.db"
	AdapterSQLXDB  = "sqlx.db"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var (
	// ErrParsingEnvFailed is returned when the environment cannot be parsed into a Config.
	ErrParsingEnvFailed = errors.New("parsing environment failed")

	// ErrInvalidConfig is returned when a parsed Config holds an unsupported value.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the process configuration.
type Config struct {
	Store            string        `env:"LICDATA_STORE" envDefault:"memory"`
	PostgresDSN      string        `env:"LICDATA_POSTGRES_DSN"`
	PostgresAdapter  string        `env:"LICDATA_POSTGRES_ADAPTER" envDefault:"pgx.pool"`
	EventTable       string        `env:"LICDATA_EVENT_TABLE" envDefault:"events"`
	MaxOpenConns     int           `env:"LICDATA_POSTGRES_MAX_CONNS" envDefault:"8"`
	MinConns         int           `env:"LICDATA_POSTGRES_MIN_CONNS" envDefault:"2"`
	ConnMaxLifetime  time.Duration `env:"LICDATA_POSTGRES_CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime  time.Duration `env:"LICDATA_POSTGRES_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnectTimeout   time.Duration `env:"LICDATA_POSTGRES_CONNECT_TIMEOUT" envDefault:"5s"`
	LogLevel         string        `env:"LICDATA_LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LICDATA_LOG_FORMAT" envDefault:"text"`
	RetryMaxAttempts int           `env:"LICDATA_RETRY_MAX_ATTEMPTS" envDefault:"6"`
	RetryBaseDelay   time.Duration `env:"LICDATA_RETRY_BASE_DELAY" envDefault:"10ms"`
	OTelEnabled      bool          `env:"LICDATA_OTEL_ENABLED" envDefault:"false"`
	ServiceName      string        `env:"LICDATA_SERVICE_NAME" envDefault:"licdata"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom parses the given variables instead of the process environment. A nil map means the
// process environment.
func LoadFrom(environment map[string]string) (Config, error) {
	var cfg Config

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environment}); err != nil {
		return Config{}, errors.Join(ErrParsingEnvFailed, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// tableNamePattern matches unquoted Postgres identifiers within the 63 byte limit.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Validate checks the enumerated settings and the values the selected store needs.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.Join(ErrInvalidConfig, errors.New("LICDATA_POSTGRES_DSN is required for the postgres store"))
		}

		switch c.PostgresAdapter {
		case AdapterPGXPool, AdapterSQLDB, AdapterSQLXDB:
		default:
			return errors.Join(ErrInvalidConfig, fmt.Errorf("unknown postgres adapter %q", c.PostgresAdapter))
		}
	default:
		return errors.Join(ErrInvalidConfig, fmt.Errorf("unknown store %q", c.Store))
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return errors.Join(ErrInvalidConfig, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	if !tableNamePattern.MatchString(c.EventTable) {
		return errors.Join(ErrInvalidConfig, fmt.Errorf("LICDATA_EVENT_TABLE %q is not a plain SQL identifier", c.EventTable))
	}

	if c.RetryMaxAttempts <= 0 {
		return errors.Join(ErrInvalidConfig, errors.New("LICDATA_RETRY_MAX_ATTEMPTS must be positive"))
	}

	if c.MaxOpenConns <= 0 || c.MinConns < 0 || c.MinConns > c.MaxOpenConns {
		return errors.Join(ErrInvalidConfig, errors.New("postgres pool sizing is inconsistent"))
	}

	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errors.Join(ErrInvalidConfig, err)
	}

	return level, nil
}
