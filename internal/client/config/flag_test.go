package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "sqlite store path",
			args: []string{"cmd", "-a", "http://api:9000", "-s", "/tmp/decks.db", "-t", "10", "-l", "debug"},
			expected: &Config{
				APIBaseURL:     "http://api:9000",
				StoreDriver:    "sqlite",
				StorePath:      "/tmp/decks.db",
				RequestTimeout: 10 * time.Second,
				LogLevel:       "debug",
			},
		},
		{
			name: "postgres dsn",
			args: []string{"cmd", "-d", "postgres", "-s", "postgres://u:p@db/decks", "-t", "5"},
			expected: &Config{
				StoreDriver:    "postgres",
				StoreDSN:       "postgres://u:p@db/decks",
				RequestTimeout: 5 * time.Second,
			},
		},
		{
			name:        "incorrect timeout",
			args:        []string{"cmd", "-t", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			cfg := &Config{StoreDriver: "sqlite"}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}

			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
