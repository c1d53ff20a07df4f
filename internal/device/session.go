// internal/device/session.go
package device

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/magicrf/m100ctl/internal/protocol"
)

// Port is the duplex byte channel the session drives. The session depends on
// bytes only: write+flush, blocking exact reads (via io.ReadFull over Read),
// and a switchable link speed for the firmware bootstrap.
type Port interface {
	io.Reader
	io.Writer
	Flush() error
	SetBaudRate(baud int) error
}

// receiveBufferSize bounds one response frame: 5 header + payload + 2 trailer.
const receiveBufferSize = 1024

// Session owns one reader module on one port. It is single-threaded and
// fully synchronous: one command frame out, one response frame in.
//
// The receive buffer is reused across round trips. Payload slices returned by
// ReadData (and the parser underneath every operation) alias this buffer and
// are only valid until the next command is issued; callers copy out anything
// they keep.
type Session struct {
	port Port
	log  *zap.Logger
	buf  [receiveBufferSize]byte
}

// New creates a session over an opened port.
func New(port Port, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{port: port, log: log}
}

// roundTrip writes one command frame, flushes, and decodes one response
// frame, returning a view of its payload inside the session buffer.
func (s *Session) roundTrip(op string, frame []byte) ([]byte, error) {
	if _, err := s.port.Write(frame); err != nil {
		return nil, fmt.Errorf("device: %s: write: %w", op, err)
	}
	if err := s.port.Flush(); err != nil {
		return nil, fmt.Errorf("device: %s: flush: %w", op, err)
	}

	payload, err := protocol.ReadFrame(s.port, s.buf[:])
	if err != nil {
		return nil, fmt.Errorf("device: %s: %w", op, err)
	}

	s.log.Debug("round trip",
		zap.String("op", op),
		zap.Int("request_bytes", len(frame)),
		zap.Int("response_bytes", len(payload)),
	)

	return payload, nil
}

// Version asks the module for one of its version strings.
func (s *Session) Version(mode protocol.VersionMode) (string, error) {
	frame, err := protocol.BuildGetVersionCmd(mode)
	if err != nil {
		return "", err
	}

	payload, err := s.roundTrip("get version", frame)
	if err != nil {
		return "", err
	}

	return string(payload), nil
}

// Query runs a single inventory round. It returns nil when no tag answered
// (the module replies with a payload of at most one byte in that case).
func (s *Session) Query() (*protocol.TagInfo, error) {
	frame, err := protocol.BuildQueryCmd()
	if err != nil {
		return nil, err
	}

	payload, err := s.roundTrip("query", frame)
	if err != nil {
		return nil, err
	}
	// An empty inventory round answers with at most one byte; anything
	// shorter than the RSSI/header/CRC envelope cannot carry an EPC.
	if len(payload) < 6 {
		return nil, nil
	}

	// Payload: RSSI(1) ‖ PC-adjacent header(2) ‖ EPC ‖ CRC(2).
	return &protocol.TagInfo{
		RSSI: payload[0],
		EPC:  strings.ToUpper(hex.EncodeToString(payload[3 : len(payload)-2])),
	}, nil
}

// SetHfss toggles continuous-inventory mode.
func (s *Session) SetHfss(status protocol.HfssStatus) error {
	frame, err := protocol.BuildSetHfssCmd(status)
	if err != nil {
		return err
	}

	_, err = s.roundTrip("set hfss", frame)
	return err
}

// Idle takes the module out of continuous-inventory/sleep mode.
func (s *Session) Idle() error {
	frame, err := protocol.BuildIdleCmd()
	if err != nil {
		return err
	}

	_, err = s.roundTrip("idle", frame)
	return err
}

// ReadData reads length bytes of bank starting at address. Length must be a
// positive even number; the builder rejects violations before any I/O.
//
// The returned slice aliases the session's receive buffer and is only valid
// until the next command.
func (s *Session) ReadData(password protocol.Password, bank protocol.MemoryBank, address, length uint16) ([]byte, error) {
	frame, err := protocol.BuildReadDataCmd(password, bank, address, length)
	if err != nil {
		return nil, err
	}

	payload, err := s.roundTrip("read data", frame)
	if err != nil {
		return nil, err
	}

	// Reads return at least one word; a single byte is a status code.
	if len(payload) == 1 {
		switch payload[0] {
		case protocol.StatusFailRead, protocol.StatusReadOverrun:
			return nil, &protocol.DeviceError{Op: "read data", Status: payload[0]}
		}
	}

	return payload, nil
}
