package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8000", c.APIBaseURL)
	assert.Equal(t, 2*time.Minute, c.RequestTimeout)
	assert.Equal(t, "sqlite", c.StoreDriver)
	assert.Equal(t, "studydeck.db", c.StorePath)
	assert.Equal(t, time.Second, c.PollInterval)
	assert.Equal(t, time.Hour, c.ChangeRetention)
	assert.Equal(t, 3*time.Second, c.ConfirmationTTL)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.ConfirmationTTL)
}
