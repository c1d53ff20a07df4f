// cmd/m100ctl/main.go
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/magicrf/m100ctl/internal/config"
	"github.com/magicrf/m100ctl/internal/device"
	"github.com/magicrf/m100ctl/internal/logging"
	"github.com/magicrf/m100ctl/internal/protocol"
	"github.com/magicrf/m100ctl/internal/transport"
)

// settleDelay gives the module time to come up around the firmware upload.
const settleDelay = 100 * time.Millisecond

const usage = `usage: m100ctl [flags] <command>

commands:
  identify              print the module version string and exit
  read <bank>           read a memory bank (epc, tid or user) from the next tag
  write <bank> <hex>    write hex data to a memory bank on the next tag

flags:
`

func main() {
	var (
		port    string
		cfgPath string
		debug   bool
	)
	flag.StringVar(&port, "port", "", "serial port (overrides the config file, default /dev/ttyACM0)")
	flag.StringVar(&cfgPath, "config", "", "path to a YAML configuration file")
	flag.BoolVar(&debug, "debug", false, "show debug logs")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	// --------------------
	// Load + validate config
	// --------------------

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if port != "" {
		cfg.Device.Port = port
	}
	if debug {
		cfg.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	defer logger.Sync()

	if err := run(cfg, logger, flag.Args()); err != nil {
		logger.Error("m100ctl failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger, args []string) error {
	if len(args) == 0 {
		flag.Usage()
		return errors.New("missing command")
	}

	// --------------------
	// Open the link, bring the module up
	// --------------------

	port, err := transport.Open(transport.Config{
		Address:  cfg.Device.Port,
		BaudRate: cfg.Device.BaudRate,
		Timeout:  cfg.ReadTimeout(),
	})
	if err != nil {
		return err
	}
	defer port.Close()

	sess := device.New(port, logger)

	version, err := identify(sess, cfg, logger)
	if err != nil {
		return fmt.Errorf("could not identify the module: %w", err)
	}
	fmt.Printf("Connected to %q.\n", version)

	// --------------------
	// Dispatch
	// --------------------

	switch args[0] {
	case "identify":
		return nil

	case "read":
		if len(args) != 2 {
			return errors.New("usage: m100ctl read <bank>")
		}
		bank, err := protocol.ParseMemoryBank(args[1])
		if err != nil {
			return err
		}
		return runRead(sess, cfg.Password(), bank, logger)

	case "write":
		if len(args) != 3 {
			return errors.New("usage: m100ctl write <bank> <hex-string>")
		}
		bank, err := protocol.ParseMemoryBank(args[1])
		if err != nil {
			return err
		}
		data, err := hex.DecodeString(args[2])
		if err != nil {
			return fmt.Errorf("data is not a valid hex string: %w", err)
		}
		if len(data) == 0 || len(data)%2 != 0 {
			return fmt.Errorf("data must be a positive even number of bytes, got %d", len(data))
		}
		return runWrite(sess, cfg.Password(), bank, data, logger)

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// identify fetches the version string, provisioning firmware first when the
// module does not answer (fresh silicon boots unprovisioned at 9600 baud).
func identify(sess *device.Session, cfg *config.Config, logger *zap.Logger) (string, error) {
	version, err := sess.Version(protocol.VersionHardware)
	if err == nil {
		return version, nil
	}

	logger.Warn("module did not answer, attempting firmware upload", zap.Error(err))
	if cfg.Firmware.Image == "" {
		return "", fmt.Errorf("module not provisioned and firmware.image is not configured: %w", err)
	}

	image, err := os.ReadFile(cfg.Firmware.Image)
	if err != nil {
		return "", fmt.Errorf("load firmware image: %w", err)
	}

	time.Sleep(settleDelay)
	if err := sess.UploadFirmware(image); err != nil {
		return "", err
	}
	if err := sess.SetHfss(protocol.HfssAuto); err != nil {
		return "", err
	}
	logger.Info("firmware uploaded", zap.Int("bytes", len(image)))
	time.Sleep(settleDelay)

	return sess.Version(protocol.VersionHardware)
}

// runRead polls for a tag and dumps the requested bank. Query misses and
// failed bank reads are retried here; the session itself never retries.
func runRead(sess *device.Session, password protocol.Password, bank protocol.MemoryBank, logger *zap.Logger) error {
	fmt.Println("Waiting for a tag...")

	for {
		tag, err := sess.Query()
		if err != nil || tag == nil {
			continue
		}
		color.Green("Tag found! EPC: %s", tag.EPC)

		// The inventory round already carries the EPC.
		if bank == protocol.BankEPC {
			return nil
		}

		data, err := sess.ReadBank(password, bank)
		if err != nil {
			logger.Warn("bank read failed, trying again", zap.String("bank", bank.String()), zap.Error(err))
			continue
		}

		fmt.Println(strings.ToUpper(hex.EncodeToString(data)))
		return nil
	}
}

// runWrite polls for a tag and performs a verified write. Device rejections
// and verification mismatches retry the whole write against the next
// inventory hit.
func runWrite(sess *device.Session, password protocol.Password, bank protocol.MemoryBank, data []byte, logger *zap.Logger) error {
	fmt.Println("Waiting for a tag...")

	for {
		tag, err := sess.Query()
		if err != nil || tag == nil {
			continue
		}
		color.Green("Tag found! EPC: %s", tag.EPC)

		if err := sess.WriteBankVerified(password, bank, 0, data); err != nil {
			var ve *device.VerifyError
			if errors.As(err, &ve) {
				logger.Warn("verification failed, trying again", zap.Error(err))
			} else {
				logger.Warn("write failed, trying again", zap.String("bank", bank.String()), zap.Error(err))
			}
			continue
		}

		color.Green("Successfully wrote %d bytes to the %s bank.", len(data), bank)
		return nil
	}
}
