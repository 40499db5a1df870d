package config

import (
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("gamevault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	return fs
}

func TestParse(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := parse(newFlagSet(), nil)
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddr)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 24*time.Hour, cfg.JWTTokenTTL)
		assert.Equal(t, 10*time.Second, cfg.PushPollInterval)
		assert.Empty(t, cfg.DatabaseURI)
	})

	t.Run("flags", func(t *testing.T) {
		cfg, err := parse(newFlagSet(), []string{
			"-a", "127.0.0.1:9000", "-d", "postgres://db", "-t", "1h", "-admin-username", "root",
		})
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:9000", cfg.ServerAddr)
		assert.Equal(t, "postgres://db", cfg.DatabaseURI)
		assert.Equal(t, time.Hour, cfg.JWTTokenTTL)
		assert.Equal(t, "root", cfg.AdminUsername)
	})

	t.Run("environment overrides flags", func(t *testing.T) {
		t.Setenv("RUN_ADDRESS", ":7000")
		t.Setenv("PUSH_GATEWAY_URL", "http://push:8081")

		cfg, err := parse(newFlagSet(), []string{"-a", "127.0.0.1:9000"})
		require.NoError(t, err)

		assert.Equal(t, ":7000", cfg.ServerAddr)
		assert.Equal(t, "http://push:8081", cfg.PushGatewayURL)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := parse(newFlagSet(), []string{"-x"})
		require.Error(t, err)
	})
}
