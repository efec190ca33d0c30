package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Mode != "day" {
		t.Errorf("mode = %q, want day", cfg.Mode)
	}
	if cfg.Fetch.MaxConcurrent != 8 {
		t.Errorf("max_concurrent = %d, want 8", cfg.Fetch.MaxConcurrent)
	}
	if cfg.Source.Timeout.Duration != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Source.Timeout.Duration)
	}
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "stream"
	cfg.Source.BaseURL = "https://example.test/programme/"
	cfg.Fetch.MaxConcurrent = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate accepted a broken config")
	}
	for _, want := range []string{"unknown mode", "end with a slash", "max_concurrent"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestValidateBackfillModeNeedsRange(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "backfill"

	if err := cfg.Validate(); err == nil {
		t.Fatal("backfill mode accepted without a range")
	}

	cfg.Backfill.Year = 2024
	if err := cfg.Validate(); err != nil {
		t.Fatalf("backfill mode rejected with year set: %v", err)
	}
}

func TestBackfillRangeFromYear(t *testing.T) {
	b := BackfillConfig{Year: 2024}
	start, end, err := b.Range()
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if start.Format("2006-01-02") != "2024-01-01" || end.Format("2006-01-02") != "2024-12-31" {
		t.Errorf("range = %s..%s, want full year", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
}

func TestBackfillRangeExplicitDates(t *testing.T) {
	b := BackfillConfig{Start: "2024-03-01", End: "2024-03-15"}
	start, end, err := b.Range()
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if start.Format("2006-01-02") != "2024-03-01" || end.Format("2006-01-02") != "2024-03-15" {
		t.Errorf("range = %s..%s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	if _, _, err := (BackfillConfig{Start: "2024-03-15", End: "2024-03-01"}).Range(); err == nil {
		t.Error("inverted range accepted")
	}
}

func TestLoadTOMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
mode = "backfill"
log_level = "debug"

[source]
base_url = "https://example.test/programme"
timeout = "10s"

[fetch]
max_concurrent = 4

[backfill]
year = 2023
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TURFDATA_STORE_DATA_DIR", "/tmp/override")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Mode != "backfill" || cfg.LogLevel != "debug" {
		t.Errorf("mode/log_level = %s/%s", cfg.Mode, cfg.LogLevel)
	}
	if cfg.Source.Timeout.Duration != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", cfg.Source.Timeout.Duration)
	}
	if cfg.Fetch.MaxConcurrent != 4 {
		t.Errorf("max_concurrent = %d, want 4", cfg.Fetch.MaxConcurrent)
	}
	if cfg.Store.DataDir != "/tmp/override" {
		t.Errorf("data_dir = %q, want env override applied", cfg.Store.DataDir)
	}
	if cfg.Backfill.Year != 2023 {
		t.Errorf("backfill year = %d, want 2023", cfg.Backfill.Year)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("Load accepted a missing file")
	}
}
