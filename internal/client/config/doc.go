// Package config loads runtime configuration for the studydeck CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     ".toml" are decoded as TOML, anything else as JSON.
//  3. Environment variables STUDYDECK_*, also read from a ".env" file in the
//     working directory. Real environment variables win over the file.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the study service
//	-d string   shared store driver: sqlite or postgres
//	-s string   SQLite store path, or PostgreSQL DSN with -d postgres
//	-t int      request timeout (seconds)
//	-l string   log level: debug, info, warn, error
//
// # File schema
//
// Durations are strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "request_timeout": "2m",
//	  "store_driver": "sqlite",
//	  "store_path": "studydeck.db",
//	  "poll_interval": "1s",
//	  "confirmation_ttl": "3s",
//	  "log_level": "info"
//	}
//
// The TOML form uses the same keys.
package config
