// internal/config/validate_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magicrf/m100ctl/internal/protocol"
)

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Device.Port = "" }},
		{"zero baud", func(c *Config) { c.Device.BaudRate = 0 }},
		{"negative timeout", func(c *Config) { c.Device.ReadTimeoutMs = -1 }},
		{"short password", func(c *Config) { c.AccessPassword = "0000" }},
		{"long password", func(c *Config) { c.AccessPassword = "000000000" }},
		{"non-ascii password", func(c *Config) { c.AccessPassword = "0000000é"[:8] }},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad format", func(c *Config) { c.Logging.Format = "logfmt" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m100ctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
device:
  port: /dev/ttyUSB3
  read_timeout_ms: 250
firmware:
  image: /opt/m100/firmware.bin
logging:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "/dev/ttyUSB3", cfg.Device.Port)
	assert.Equal(t, protocol.OperationalBaudRate, cfg.Device.BaudRate, "unset keys keep defaults")
	assert.Equal(t, 250, cfg.Device.ReadTimeoutMs)
	assert.Equal(t, "/opt/m100/firmware.bin", cfg.Firmware.Image)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestPassword_WireForm(t *testing.T) {
	cfg := Default()
	assert.Equal(t, protocol.DefaultPassword, cfg.Password())

	cfg.AccessPassword = "secret42"
	assert.Equal(t, protocol.Password{'s', 'e', 'c', 'r', 'e', 't', '4', '2'}, cfg.Password())
}
