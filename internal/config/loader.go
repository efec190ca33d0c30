package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies TURFDATA_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known TURFDATA_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Source ──
	setStr(&cfg.Source.BaseURL, "TURFDATA_SOURCE_BASE_URL")
	setDuration(&cfg.Source.Timeout, "TURFDATA_SOURCE_TIMEOUT")

	// ── Store ──
	setStr(&cfg.Store.DataDir, "TURFDATA_STORE_DATA_DIR")

	// ── Fetch ──
	setInt(&cfg.Fetch.MaxConcurrent, "TURFDATA_FETCH_MAX_CONCURRENT")

	// ── Backfill ──
	setInt(&cfg.Backfill.Year, "TURFDATA_BACKFILL_YEAR")
	setStr(&cfg.Backfill.Start, "TURFDATA_BACKFILL_START")
	setStr(&cfg.Backfill.End, "TURFDATA_BACKFILL_END")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "TURFDATA_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "TURFDATA_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "TURFDATA_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "TURFDATA_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "TURFDATA_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "TURFDATA_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "TURFDATA_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "TURFDATA_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "TURFDATA_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "TURFDATA_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "TURFDATA_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "TURFDATA_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "TURFDATA_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "TURFDATA_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "TURFDATA_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "TURFDATA_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "TURFDATA_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "TURFDATA_REDIS_TLS_ENABLED")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "TURFDATA_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "TURFDATA_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "TURFDATA_S3_REGION")
	setStr(&cfg.S3.Bucket, "TURFDATA_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "TURFDATA_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "TURFDATA_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "TURFDATA_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "TURFDATA_S3_FORCE_PATH_STYLE")

	// ── Top-level ──
	setStr(&cfg.Mode, "TURFDATA_MODE")
	setStr(&cfg.LogLevel, "TURFDATA_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
