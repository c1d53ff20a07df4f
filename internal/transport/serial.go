// internal/transport/serial.go
package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/serial"
)

// Config is the minimal serial link configuration. The frame protocol fixes
// the framing parameters; only address, speed and patience vary.
type Config struct {
	Address  string
	BaudRate int
	Timeout  time.Duration
}

// SerialPort is a duplex byte channel over one serial device, 8 data bits,
// 1 stop bit, no parity. Reads block up to the configured timeout.
//
// It is not safe for concurrent use; the device session is single-threaded
// by design.
type SerialPort struct {
	cfg  serial.Config
	port serial.Port
}

// Open opens the serial device described by cfg.
func Open(cfg Config) (*SerialPort, error) {
	if cfg.Address == "" {
		return nil, errors.New("transport: serial address required")
	}
	if cfg.BaudRate <= 0 {
		return nil, errors.New("transport: baud rate must be > 0")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}

	sc := serial.Config{
		Address:  cfg.Address,
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.Timeout,
	}

	port, err := serial.Open(&sc)
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", cfg.Address, err)
	}

	return &SerialPort{cfg: sc, port: port}, nil
}

// Read reads up to len(p) bytes, blocking until data arrives or the read
// timeout elapses. Callers needing an exact count wrap it in io.ReadFull.
func (s *SerialPort) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

// Write writes p to the device.
func (s *SerialPort) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// Flush honors the protocol's write+flush contract. Serial writes go straight
// to the kernel driver with no userspace buffering, so there is nothing to
// drain here.
func (s *SerialPort) Flush() error {
	return nil
}

// SetBaudRate switches the link speed. The underlying library fixes the baud
// rate at open time, so the port is closed and reopened with the new speed.
func (s *SerialPort) SetBaudRate(baud int) error {
	if baud <= 0 {
		return fmt.Errorf("transport: baud rate must be > 0, got %d", baud)
	}
	if baud == s.cfg.BaudRate {
		return nil
	}

	if err := s.port.Close(); err != nil {
		return fmt.Errorf("transport: close before re-baud: %w", err)
	}

	s.cfg.BaudRate = baud
	port, err := serial.Open(&s.cfg)
	if err != nil {
		return fmt.Errorf("transport: reopen %s at %d baud: %w", s.cfg.Address, baud, err)
	}
	s.port = port

	return nil
}

// Close closes the serial device.
func (s *SerialPort) Close() error {
	return s.port.Close()
}
