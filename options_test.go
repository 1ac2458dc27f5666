package ftp

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_ApplyToConfig(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(nil, nil))
	var cfg Config
	opts := []Option{
		WithHost("ftp.example.com"),
		WithPort(2121),
		WithCredentials("alice", "hunter2"),
		WithTimeout(30 * time.Second),
		WithKeepAlive(5 * time.Second),
		WithBandwidthLimit(1024),
		WithLogger(logger),
	}
	for _, opt := range opts {
		require.NoError(t, opt(&cfg))
	}

	assert.Equal(t, "ftp.example.com", cfg.Host)
	assert.Equal(t, 2121, cfg.Port)
	assert.Equal(t, "alice", cfg.User)
	assert.Equal(t, "hunter2", cfg.Password)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 5*time.Second, cfg.KeepAlive)
	assert.EqualValues(t, 1024, cfg.BandwidthLimit)
	assert.Same(t, logger, cfg.Logger)
}

func TestOptions_WithListParserPrepends(t *testing.T) {
	var cfg Config
	first := UnixParser{}
	second := DOSParser{}

	require.NoError(t, WithListParser(first)(&cfg))
	require.NoError(t, WithListParser(second)(&cfg))

	require.Len(t, cfg.parsers, 2)
	assert.Equal(t, second, cfg.parsers[0])
	assert.Equal(t, first, cfg.parsers[1])
}

func TestConfig_SetDefaults(t *testing.T) {
	var cfg Config
	cfg.setDefaults()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 21, cfg.Port)
	assert.Equal(t, "anonymous", cfg.User)
	assert.Equal(t, "anonymous", cfg.Password)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 10*time.Second, cfg.KeepAlive)
	require.NotNil(t, cfg.Logger)
}

func TestConfig_SetDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := Config{
		Host:      "10.0.0.1",
		Port:      2121,
		User:      "bob",
		Password:  "secret",
		Timeout:   2 * time.Second,
		KeepAlive: 0,
	}
	cfg.setDefaults()

	assert.Equal(t, "10.0.0.1", cfg.Host)
	assert.Equal(t, 2121, cfg.Port)
	assert.Equal(t, "bob", cfg.User)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	// KeepAlive was left at zero explicitly, but setDefaults can't tell that
	// apart from "unset", so it still fills in the default.
	assert.Equal(t, 10*time.Second, cfg.KeepAlive)
}
