// Package config defines the top-level configuration for the race-day data
// collector and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by TURFDATA_* environment
// variables.
type Config struct {
	Source   SourceConfig   `toml:"source"`
	Store    StoreConfig    `toml:"store"`
	Fetch    FetchConfig    `toml:"fetch"`
	Backfill BackfillConfig `toml:"backfill"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// SourceConfig holds the remote program source endpoint.
type SourceConfig struct {
	// BaseURL is the program API root, without a trailing slash.
	BaseURL string   `toml:"base_url"`
	Timeout duration `toml:"timeout"`
}

// StoreConfig holds the local day-store layout.
type StoreConfig struct {
	// DataDir is the root of the per-year day-file tree.
	DataDir string `toml:"data_dir"`
}

// FetchConfig bounds the per-race fan-out.
type FetchConfig struct {
	// MaxConcurrent caps the number of simultaneously in-flight per-race
	// fetches per phase.
	MaxConcurrent int `toml:"max_concurrent"`
}

// BackfillConfig holds the date range walked in backfill mode. Date and the
// range bounds are "YYYY-MM-DD" strings; Year is a convenience that expands
// to the whole year when the explicit bounds are empty.
type BackfillConfig struct {
	Year  int    `toml:"year"`
	Start string `toml:"start"`
	End   string `toml:"end"`
}

// PostgresConfig holds the run-bookkeeping database connection parameters.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds the day-lock Redis connection parameters.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// S3Config holds the cold-archive object storage parameters.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
func Defaults() Config {
	return Config{
		Source: SourceConfig{
			BaseURL: "https://online.turfinfo.api.pmu.fr/rest/client/61/programme",
			Timeout: duration{30 * time.Second},
		},
		Store: StoreConfig{
			DataDir: "data/raw",
		},
		Fetch: FetchConfig{
			MaxConcurrent: 8,
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "turfdata",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			PoolSize:   10,
			MaxRetries: 3,
		},
		S3: S3Config{
			Region:         "us-east-1",
			Bucket:         "turfdata-archive",
			ForcePathStyle: true,
		},
		Mode:     "day",
		LogLevel: "info",
	}
}

var validModes = map[string]bool{
	"day":      true,
	"backfill": true,
	"archive":  true,
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for internal consistency and returns an
// error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: day, backfill, archive)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Source.BaseURL == "" {
		errs = append(errs, "source: base_url must not be empty")
	}
	if strings.HasSuffix(c.Source.BaseURL, "/") {
		errs = append(errs, "source: base_url must not end with a slash")
	}
	if c.Store.DataDir == "" {
		errs = append(errs, "store: data_dir must not be empty")
	}
	if c.Fetch.MaxConcurrent <= 0 {
		errs = append(errs, "fetch: max_concurrent must be positive")
	}

	if c.Mode == "backfill" || c.Mode == "archive" {
		if _, _, err := c.Backfill.Range(); err != nil {
			errs = append(errs, "backfill: "+err.Error())
		}
	}

	if c.Postgres.Enabled && strings.TrimSpace(c.Postgres.DSN) == "" {
		if c.Postgres.Host == "" {
			errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
		}
		if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
			errs = append(errs, fmt.Sprintf("postgres: port %d out of range", c.Postgres.Port))
		}
		if c.Postgres.Database == "" {
			errs = append(errs, "postgres: database must not be empty")
		}
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty")
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			errs = append(errs, "s3: bucket must not be empty")
		}
		if c.S3.Region == "" {
			errs = append(errs, "s3: region must not be empty")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Range resolves the backfill bounds: explicit start/end dates when given,
// otherwise the full year.
func (b BackfillConfig) Range() (start, end time.Time, err error) {
	if b.Start != "" || b.End != "" {
		start, err = time.Parse("2006-01-02", b.Start)
		if err != nil {
			return start, end, fmt.Errorf("invalid start %q: %w", b.Start, err)
		}
		end, err = time.Parse("2006-01-02", b.End)
		if err != nil {
			return start, end, fmt.Errorf("invalid end %q: %w", b.End, err)
		}
		if end.Before(start) {
			return start, end, fmt.Errorf("end %s before start %s", b.End, b.Start)
		}
		return start, end, nil
	}

	if b.Year <= 0 {
		return start, end, fmt.Errorf("either year or start/end must be set")
	}
	start = time.Date(b.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(b.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return start, end, nil
}
