// Package config loads engine settings from YAML with environment
// overrides.
package config

// #region imports
import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// #endregion

// #region env
const (
	configPathEnv = "BILL_ENGINE_CONFIG"
	dbPathEnv     = "BILL_DB_PATH"
	apiKeyEnv     = "CONGRESS_API_KEY"
)

// #endregion

// #region types

// Config holds all settings required across the engine CLIs.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Congress  CongressConfig  `yaml:"congress"`
}

// DatabaseConfig locates the SQLite database file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ReconcileConfig tunes the pass: chunked writes, retry policy, and the
// classify fan-out width.
type ReconcileConfig struct {
	ChunkSize      int `yaml:"chunkSize"`
	RetryAttempts  int `yaml:"retryAttempts"`
	RetryBackoffMs int `yaml:"retryBackoffMs"`
	Workers        int `yaml:"workers"`
}

// CongressConfig describes the Congress.gov v3 API endpoint for ingest.
type CongressConfig struct {
	BaseURL  string `yaml:"baseUrl"`
	APIKey   string `yaml:"apiKey"`
	Congress int    `yaml:"congress"`
	PageSize int    `yaml:"pageSize"`
}

// #endregion

// #region load

// Load reads YAML configuration (if present) and applies environment
// overrides. Missing or unparsable files fall back to defaults with a
// logged warning rather than aborting.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.Congress.APIKey = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Reconcile.ChunkSize > 0 {
		base.Reconcile.ChunkSize = override.Reconcile.ChunkSize
	}
	if override.Reconcile.RetryAttempts > 0 {
		base.Reconcile.RetryAttempts = override.Reconcile.RetryAttempts
	}
	if override.Reconcile.RetryBackoffMs > 0 {
		base.Reconcile.RetryBackoffMs = override.Reconcile.RetryBackoffMs
	}
	if override.Reconcile.Workers > 0 {
		base.Reconcile.Workers = override.Reconcile.Workers
	}

	if override.Congress.BaseURL != "" {
		base.Congress.BaseURL = override.Congress.BaseURL
	}
	if override.Congress.APIKey != "" {
		base.Congress.APIKey = override.Congress.APIKey
	}
	if override.Congress.Congress > 0 {
		base.Congress.Congress = override.Congress.Congress
	}
	if override.Congress.PageSize > 0 {
		base.Congress.PageSize = override.Congress.PageSize
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{Path: "bills.db"},
		Reconcile: ReconcileConfig{
			ChunkSize:      50,
			RetryAttempts:  3,
			RetryBackoffMs: 200,
			Workers:        4,
		},
		Congress: CongressConfig{
			BaseURL:  "https://api.congress.gov/v3",
			Congress: 119,
			PageSize: 250,
		},
	}
}

// #endregion
