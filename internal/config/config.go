// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/magicrf/m100ctl/internal/protocol"
)

type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	Firmware FirmwareConfig `yaml:"firmware"`
	Logging  LoggingConfig  `yaml:"logging"`

	// AccessPassword is the 8-character ASCII tag access password.
	AccessPassword string `yaml:"access_password"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Port          string `yaml:"port"`
	BaudRate      int    `yaml:"baud_rate"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// ---- FIRMWARE ----

type FirmwareConfig struct {
	// Image is the path to the opaque firmware blob streamed to an
	// unprovisioned module. Empty disables automatic provisioning.
	Image string `yaml:"image"`
}

// ---- LOGGING ----

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Port:          "/dev/ttyACM0",
			BaudRate:      protocol.OperationalBaudRate,
			ReadTimeoutMs: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		AccessPassword: "00000000",
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// ReadTimeout returns the device read timeout as a duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Device.ReadTimeoutMs) * time.Millisecond
}

// Password returns the access password in its wire form.
// It MUST be called only after Validate().
func (c *Config) Password() protocol.Password {
	var pw protocol.Password
	copy(pw[:], c.AccessPassword)
	return pw
}
