package config

import "time"

// Config holds runtime settings for the studydeck CLI.
type Config struct {
	// APIBaseURL is the root of the study service, without a trailing slash.
	APIBaseURL string
	// RequestTimeout bounds a single API request. LLM-backed endpoints are slow.
	RequestTimeout time.Duration

	// StoreDriver selects the shared store: "sqlite" or "postgres".
	StoreDriver string
	// StorePath is the SQLite file shared by every running client.
	StorePath string
	// StoreDSN is the PostgreSQL connection string when StoreDriver is "postgres".
	StoreDSN string
	// PollInterval is how often the store is re-read when no change
	// notification arrived.
	PollInterval time.Duration
	// ChangeRetention is how long store change records are kept.
	ChangeRetention time.Duration

	// ConfirmationTTL is how long the "saved" confirmation stays visible.
	ConfirmationTTL time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.RequestTimeout = 2 * time.Minute
	c.StoreDriver = "sqlite"
	c.StorePath = "studydeck.db"
	c.StoreDSN = ""
	c.PollInterval = time.Second
	c.ChangeRetention = time.Hour
	c.ConfirmationTTL = 3 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.LogFile = "studydeck.log"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given), the environment and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg, ".env")
	parseFlags(cfg)
	return cfg
}
