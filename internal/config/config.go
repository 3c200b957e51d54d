package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	// Remote search endpoint
	Search SearchConfig `json:"search"`

	// Typing gate behavior
	Debounce DebounceConfig `json:"debounce"`

	// UI preferences
	UI UIConfig `json:"ui"`

	// Recent-search history
	History HistoryConfig `json:"history"`
}

// SearchConfig holds remote endpoint settings
type SearchConfig struct {
	Endpoint        string  `json:"endpoint"`
	APIToken        string  `json:"api_token,omitempty"`
	TimeoutSeconds  int     `json:"timeout_seconds"`
	DefaultTopK     int     `json:"default_top_k"`
	DefaultMinScore float64 `json:"default_min_score"`
	MinQueryLength  int     `json:"min_query_length"`
}

// DebounceConfig holds typing gate settings
type DebounceConfig struct {
	DelayMs int `json:"delay_ms"`
}

// UIConfig holds UI preferences
type UIConfig struct {
	ChipLimit  int  `json:"chip_limit"`
	ShowScores bool `json:"show_scores"`
}

// HistoryConfig holds recent-search persistence settings
type HistoryConfig struct {
	Enabled bool `json:"enabled"`
	Keep    int  `json:"keep"` // rows retained after pruning
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Endpoint:        "http://localhost:8080/api/candidates/search",
			TimeoutSeconds:  15,
			DefaultTopK:     10,
			DefaultMinScore: 0,
			MinQueryLength:  3,
		},
		Debounce: DebounceConfig{
			DelayMs: 500,
		},
		UI: UIConfig{
			ChipLimit:  15,
			ShowScores: true,
		},
		History: HistoryConfig{
			Enabled: true,
			Keep:    200,
		},
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Search.TimeoutSeconds) * time.Second
}

// DebounceDelay returns the typing gate delay as a duration.
func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.Debounce.DelayMs) * time.Millisecond
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".scout", "config.json")
}

// Load reads config from disk, or returns defaults
func Load() (*Config, error) {
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.AutoPopulateFromEnv()
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), nil
	}
	cfg.AutoPopulateFromEnv()

	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	path := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for the API token
}

// AutoPopulateFromEnv fills in settings from environment variables
func (c *Config) AutoPopulateFromEnv() {
	if v := os.Getenv("SCOUT_ENDPOINT"); v != "" {
		c.Search.Endpoint = v
	}
	if v := os.Getenv("SCOUT_API_TOKEN"); v != "" {
		c.Search.APIToken = v
	}
}
