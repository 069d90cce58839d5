package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 50051, cfg.GRPCPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "mysql", cfg.DatabaseDriver)
	assert.Equal(t, "therapyhub-menus", cfg.ServiceName)
	assert.True(t, cfg.SeedData)
	assert.False(t, cfg.Consul.Enabled)
	assert.Equal(t, "127.0.0.1:8500", cfg.Consul.Address)
	assert.True(t, cfg.InsecureJwtSecret())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("THERAPYHUB_HTTP_PORT", "9090")
	t.Setenv("THERAPYHUB_DATABASE_DRIVER", "postgres")
	t.Setenv("THERAPYHUB_JWT_SECRET", "s3cret")
	t.Setenv("THERAPYHUB_CONSUL_ENABLED", "true")
	t.Setenv("THERAPYHUB_CONSUL_ADDRESS", "consul:8500")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "s3cret", cfg.JwtSecret)
	assert.False(t, cfg.InsecureJwtSecret())
	assert.True(t, cfg.Consul.Enabled)
	assert.Equal(t, "consul:8500", cfg.Consul.Address)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("http_port: 7000\nlog_level: debug\nconsul:\n  service_host: 10.0.0.5\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "10.0.0.5", cfg.Consul.ServiceHost)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("http_port: [unclosed"), 0o600))

	_, err := Load(dir)
	assert.Error(t, err)
}
