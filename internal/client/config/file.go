package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/studydeck/internal/flagx"
	"github.com/dmitrijs2005/studydeck/internal/timex"
)

// FileConfig is a DTO used only for decoding config files. Zero values mean
// "not set" and leave the corresponding Config field alone.
type FileConfig struct {
	APIBaseURL      string         `json:"api_base_url" toml:"api_base_url"`
	RequestTimeout  timex.Duration `json:"request_timeout" toml:"request_timeout"`
	StoreDriver     string         `json:"store_driver" toml:"store_driver"`
	StorePath       string         `json:"store_path" toml:"store_path"`
	StoreDSN        string         `json:"store_dsn" toml:"store_dsn"`
	PollInterval    timex.Duration `json:"poll_interval" toml:"poll_interval"`
	ChangeRetention timex.Duration `json:"change_retention" toml:"change_retention"`
	ConfirmationTTL timex.Duration `json:"confirmation_ttl" toml:"confirmation_ttl"`
	LogLevel        string         `json:"log_level" toml:"log_level"`
	LogFormat       string         `json:"log_format" toml:"log_format"`
	LogFile         string         `json:"log_file" toml:"log_file"`
}

// parseFile overlays cfg with the file named by -c/-config.
//
// Panics on read or decode errors (caller should recover if desired).
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	fc, err := decodeFile(path)
	if err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func decodeFile(path string) (*FileConfig, error) {
	var fc FileConfig

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, err
		}
		return &fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.StoreDriver, fc.StoreDriver)
	setString(&cfg.StorePath, fc.StorePath)
	setString(&cfg.StoreDSN, fc.StoreDSN)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LogFile, fc.LogFile)

	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.PollInterval.Duration > 0 {
		cfg.PollInterval = fc.PollInterval.Duration
	}
	if fc.ChangeRetention.Duration > 0 {
		cfg.ChangeRetention = fc.ChangeRetention.Duration
	}
	if fc.ConfirmationTTL.Duration > 0 {
		cfg.ConfirmationTTL = fc.ConfirmationTTL.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
