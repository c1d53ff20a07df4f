// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/magicrf/m100ctl/internal/protocol"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	// ------------------------------------------------------------
	// DEVICE LINK
	// ------------------------------------------------------------

	if cfg.Device.Port == "" {
		return fmt.Errorf("config: device.port is required")
	}
	if cfg.Device.BaudRate <= 0 {
		return fmt.Errorf("config: device.baud_rate must be > 0, got %d", cfg.Device.BaudRate)
	}
	if cfg.Device.ReadTimeoutMs <= 0 {
		return fmt.Errorf("config: device.read_timeout_ms must be > 0, got %d", cfg.Device.ReadTimeoutMs)
	}

	// ------------------------------------------------------------
	// ACCESS PASSWORD (wire form is exactly 8 ASCII bytes)
	// ------------------------------------------------------------

	if len(cfg.AccessPassword) != protocol.PasswordSize {
		return fmt.Errorf("config: access_password must be exactly %d characters, got %d",
			protocol.PasswordSize, len(cfg.AccessPassword))
	}
	for i := 0; i < len(cfg.AccessPassword); i++ {
		if cfg.AccessPassword[i] > 0x7F {
			return fmt.Errorf("config: access_password must contain ASCII characters only")
		}
	}

	// ------------------------------------------------------------
	// LOGGING
	// ------------------------------------------------------------

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: logging.format %q is not one of console, json", cfg.Logging.Format)
	}

	return nil
}
