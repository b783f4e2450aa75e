package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Listen != ":8090" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Budget.DailyLimit != 500_000 {
		t.Errorf("DailyLimit = %d", cfg.Budget.DailyLimit)
	}
	if cfg.Budget.WarnPct != 0.80 || cfg.Budget.CapPct != 0.95 {
		t.Errorf("thresholds = %v / %v", cfg.Budget.WarnPct, cfg.Budget.CapPct)
	}
	if !cfg.Cache.Enabled {
		t.Error("cache should default on")
	}
	if cfg.Cache.CheapTTL != 6*time.Hour || cfg.Cache.StandardTTL != time.Hour {
		t.Errorf("cache TTLs = %v / %v", cfg.Cache.CheapTTL, cfg.Cache.StandardTTL)
	}
	if cfg.Snapshot.TTL != 5*time.Minute {
		t.Errorf("snapshot TTL = %v", cfg.Snapshot.TTL)
	}
	if cfg.Model.Tiers.Cheap.Model == "" || cfg.Model.Tiers.Standard.Model == "" || cfg.Model.Tiers.Deep.Model == "" {
		t.Error("every tier needs a default model")
	}
	if cfg.Scoring.Baseline != 50 || cfg.Scoring.Min != 0 || cfg.Scoring.Max != 100 {
		t.Errorf("scoring bounds = %d/%d/%d", cfg.Scoring.Baseline, cfg.Scoring.Min, cfg.Scoring.Max)
	}
	if !cfg.Audit.Enabled || cfg.Audit.RetentionDays != 90 {
		t.Errorf("audit defaults = %v / %d", cfg.Audit.Enabled, cfg.Audit.RetentionDays)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opsassist.yaml")
	data := `
listen: ":9000"
budget:
  daily_limit: 100000
cache:
  cheap_ttl: 2h
model:
  api_key: ${OPSASSIST_TEST_KEY}
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPSASSIST_TEST_KEY", "sk-test-123")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.Budget.DailyLimit != 100_000 {
		t.Errorf("DailyLimit = %d", cfg.Budget.DailyLimit)
	}
	if cfg.Cache.CheapTTL != 2*time.Hour {
		t.Errorf("CheapTTL = %v", cfg.Cache.CheapTTL)
	}
	if cfg.Model.APIKey != "sk-test-123" {
		t.Errorf("APIKey = %q, env not expanded", cfg.Model.APIKey)
	}
	// Untouched sections keep their defaults.
	if cfg.Budget.WarnPct != 0.80 {
		t.Errorf("WarnPct = %v", cfg.Budget.WarnPct)
	}
	if cfg.Cache.StandardTTL != time.Hour {
		t.Errorf("StandardTTL = %v", cfg.Cache.StandardTTL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
