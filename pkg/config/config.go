package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all opsassist configuration.
type Config struct {
	Listen   string         `yaml:"listen"`
	DBPath   string         `yaml:"db_path"`
	OpsDB    string         `yaml:"ops_db_path"`
	Model    ModelConfig    `yaml:"model"`
	Cache    CacheConfig    `yaml:"cache"`
	Budget   BudgetConfig   `yaml:"budget"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Audit    AuditConfig    `yaml:"audit"`
}

// AuditConfig controls the question history trail.
type AuditConfig struct {
	Enabled       bool `yaml:"enabled"`
	RetentionDays int  `yaml:"retention_days"`
}

// ModelConfig defines the model endpoint and the per-tier model assignments.
type ModelConfig struct {
	URL    string     `yaml:"url"`
	APIKey string     `yaml:"api_key"`
	Tiers  TierModels `yaml:"tiers"`
}

// TierModels maps each answer tier to a concrete model and output cap.
type TierModels struct {
	Cheap    TierModel `yaml:"cheap"`
	Standard TierModel `yaml:"standard"`
	Deep     TierModel `yaml:"deep"`
}

// TierModel is one tier's model name and max output tokens.
type TierModel struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// CacheConfig controls the answer cache. A zero TTL disables caching for that tier.
type CacheConfig struct {
	Enabled     bool          `yaml:"enabled"`
	CheapTTL    time.Duration `yaml:"cheap_ttl"`
	StandardTTL time.Duration `yaml:"standard_ttl"`
	MaxQuestion int           `yaml:"max_question"`
}

// BudgetConfig controls the daily token ceiling and the cap thresholds.
type BudgetConfig struct {
	DailyLimit int64   `yaml:"daily_limit"`
	WarnPct    float64 `yaml:"warn_pct"`
	CapPct     float64 `yaml:"cap_pct"`
}

// SnapshotConfig controls context assembly.
type SnapshotConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SourceTimeout time.Duration `yaml:"source_timeout"`
}

// ScoringConfig carries the health-score policy bands. The specific numbers are
// ministry risk-tolerance policy, so they live in config rather than code.
type ScoringConfig struct {
	Baseline int `yaml:"baseline"`
	Min      int `yaml:"min"`
	Max      int `yaml:"max"`

	// Spare-capacity ratio bands for the power utility (available/peak demand).
	SpareHigh float64 `yaml:"spare_high"`
	SpareLow  float64 `yaml:"spare_low"`

	// On-time / compliance percentage bands.
	RateHigh float64 `yaml:"rate_high"`
	RateLow  float64 `yaml:"rate_low"`

	// Collection-rate bands for the water utility.
	CollectionHigh float64 `yaml:"collection_high"`
	CollectionLow  float64 `yaml:"collection_low"`

	// Non-revenue water percentage above which the water utility is penalized.
	NonRevenueHigh float64 `yaml:"non_revenue_high"`

	// Outstanding-incident count above which a domain is penalized.
	IncidentLimit int `yaml:"incident_limit"`

	// Score increments applied per signal.
	StepMajor int `yaml:"step_major"`
	StepMinor int `yaml:"step_minor"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen: ":8090",
		DBPath: "opsassist.db",
		OpsDB:  "workos.db",
		Model: ModelConfig{
			URL: "https://api.openai.com",
			Tiers: TierModels{
				Cheap:    TierModel{Model: "gpt-4o-mini", MaxTokens: 400},
				Standard: TierModel{Model: "gpt-4o", MaxTokens: 1200},
				Deep:     TierModel{Model: "o1", MaxTokens: 4000},
			},
		},
		Cache: CacheConfig{
			Enabled:     true,
			CheapTTL:    6 * time.Hour,
			StandardTTL: time.Hour,
			MaxQuestion: 500,
		},
		Budget: BudgetConfig{
			DailyLimit: 500_000,
			WarnPct:    0.80,
			CapPct:     0.95,
		},
		Snapshot: SnapshotConfig{
			TTL:           5 * time.Minute,
			SourceTimeout: 3 * time.Second,
		},
		Scoring: ScoringConfig{
			Baseline:       50,
			Min:            0,
			Max:            100,
			SpareHigh:      1.20,
			SpareLow:       1.05,
			RateHigh:       85,
			RateLow:        70,
			CollectionHigh: 90,
			CollectionLow:  75,
			NonRevenueHigh: 40,
			IncidentLimit:  5,
			StepMajor:      20,
			StepMinor:      10,
		},
		Audit: AuditConfig{
			Enabled:       true,
			RetentionDays: 90,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
