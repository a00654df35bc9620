package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the study service
//	-d string   store driver (sqlite|postgres)
//	-s string   store path, or DSN when the driver is postgres
//	-t int      request timeout in seconds
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs so that flags owned by other
// components do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the study service")
	fs.StringVar(&cfg.StoreDriver, "d", cfg.StoreDriver, "shared store driver: sqlite or postgres")
	store := fs.String("s", "", "SQLite store path, or PostgreSQL DSN with -d postgres")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *store != "" {
		if cfg.StoreDriver == "postgres" {
			cfg.StoreDSN = *store
		} else {
			cfg.StorePath = *store
		}
	}
	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
