package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "STUDYDECK_"

// parseEnv overlays cfg with STUDYDECK_* variables. Values come from envFile
// (if it exists) and from the process environment, which takes precedence.
// Malformed durations are ignored.
func parseEnv(cfg *Config, envFile string) {
	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		fileVars = map[string]string{}
	}

	lookup := func(name string) string {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			return v
		}
		return fileVars[envPrefix+name]
	}

	setString(&cfg.APIBaseURL, lookup("API_BASE_URL"))
	setString(&cfg.StoreDriver, lookup("STORE_DRIVER"))
	setString(&cfg.StorePath, lookup("STORE_PATH"))
	setString(&cfg.StoreDSN, lookup("STORE_DSN"))
	setString(&cfg.LogLevel, lookup("LOG_LEVEL"))
	setString(&cfg.LogFormat, lookup("LOG_FORMAT"))
	setString(&cfg.LogFile, lookup("LOG_FILE"))

	setDuration(&cfg.RequestTimeout, lookup("REQUEST_TIMEOUT"))
	setDuration(&cfg.PollInterval, lookup("POLL_INTERVAL"))
	setDuration(&cfg.ChangeRetention, lookup("CHANGE_RETENTION"))
	setDuration(&cfg.ConfirmationTTL, lookup("CONFIRMATION_TTL"))
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		*dst = d
	}
}
