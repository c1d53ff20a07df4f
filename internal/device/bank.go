// internal/device/bank.go
package device

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/magicrf/m100ctl/internal/protocol"
)

// Chunk geometry per bank. The module never advertises bank lengths, so the
// extensible banks are traversed by probing until a read fails.
const (
	// epcReadStart skips the CRC/PC words preceding the EPC proper.
	epcReadStart = 12

	// epcChunkSize reads the EPC one word at a time.
	epcChunkSize = 2

	// userChunkSize reads the user bank in 512-byte strides.
	userChunkSize = 512

	// tidReadLength is the fixed factory-programmed TID size.
	tidReadLength = 32
)

// ReadBank reads the whole content of a memory bank.
//
// EPC and User are extensible and use the chunked probe-until-fail
// traversal. TID is factory-programmed at a fixed 32 bytes and read in one
// shot from address 0. Reserved holds the access passwords and is not bulk
// readable; asking for it fails before any I/O.
func (s *Session) ReadBank(password protocol.Password, bank protocol.MemoryBank) ([]byte, error) {
	switch bank {
	case protocol.BankReserved:
		return nil, fmt.Errorf("device: the reserved bank is not bulk readable")
	case protocol.BankEPC:
		return s.readChunked(password, bank, epcReadStart, epcChunkSize)
	case protocol.BankTID:
		payload, err := s.ReadData(password, bank, 0, tidReadLength)
		if err != nil {
			return nil, err
		}
		return append([]byte{}, payload...), nil
	case protocol.BankUser:
		return s.readChunked(password, bank, 0, userChunkSize)
	default:
		return nil, fmt.Errorf("device: cannot read %s", bank)
	}
}

// readChunked accumulates a bank of unknown length: an optional prefix read
// of [0, start), then fixed-size chunks until a read fails.
//
// The first failed chunk — device-reported fail-read/overrun included — is
// the expected end-of-bank signal, and the bytes accumulated so far are
// returned as success. This is the only termination condition; there is no
// retry of a failed chunk.
func (s *Session) readChunked(password protocol.Password, bank protocol.MemoryBank, start, chunkSize uint16) ([]byte, error) {
	data := make([]byte, 0, start)

	if start != 0 {
		prefix, err := s.ReadData(password, bank, 0, start)
		if err != nil {
			return nil, err
		}
		data = append(data, prefix...)
	}

	address := start
	for {
		chunk, err := s.ReadData(password, bank, address, chunkSize)
		if err != nil {
			s.log.Debug("bank read terminated",
				zap.String("bank", bank.String()),
				zap.Uint16("address", address),
				zap.Error(err),
			)
			return data, nil
		}
		data = append(data, chunk...)
		address += chunkSize
	}
}

// WriteBank writes data to a bank starting at address. The EPC bank goes
// through the dedicated EPC payload shape (address is implied by the
// protocol there); everything else uses the plain write command.
//
// The module signals rejection with a one-byte status payload; any other
// response is success.
func (s *Session) WriteBank(password protocol.Password, bank protocol.MemoryBank, address uint16, data []byte) error {
	var (
		frame []byte
		err   error
	)
	if bank == protocol.BankEPC {
		frame, err = protocol.BuildWriteEpcCmd(password, data)
	} else {
		frame, err = protocol.BuildWriteDataCmd(password, bank, address, data)
	}
	if err != nil {
		return err
	}

	payload, err := s.roundTrip("write data", frame)
	if err != nil {
		return err
	}

	if len(payload) == 1 {
		switch payload[0] {
		case protocol.StatusWriteError, protocol.StatusFailWrite:
			return &protocol.DeviceError{Op: "write data", Status: payload[0]}
		}
	}

	return nil
}

// VerifyError reports a write that the device accepted but whose read-back
// did not match. It is a retry-the-whole-write condition, not a crash.
type VerifyError struct {
	Bank     protocol.MemoryBank
	Expected []byte
	Actual   []byte
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("device: verification failed for %s bank: wrote %s, read back %s",
		e.Bank, hex.EncodeToString(e.Expected), hex.EncodeToString(e.Actual))
}

// WriteBankVerified writes data and reads it back for comparison. Tag memory
// is word-granular, so data must be an even number of bytes.
//
// The EPC bank is verified through a fresh inventory round (the written EPC
// is what the tag answers with); other banks re-read the written range. A
// mismatch, or a tag that no longer answers, comes back as *VerifyError.
func (s *Session) WriteBankVerified(password protocol.Password, bank protocol.MemoryBank, address uint16, data []byte) error {
	if len(data) == 0 || len(data)%2 != 0 {
		return fmt.Errorf("device: write length must be a positive even number, got %d", len(data))
	}

	if err := s.WriteBank(password, bank, address, data); err != nil {
		return err
	}

	var readBack []byte
	if bank == protocol.BankEPC {
		tag, err := s.Query()
		if err != nil {
			return err
		}
		if tag == nil {
			return &VerifyError{Bank: bank, Expected: data}
		}
		readBack, err = hex.DecodeString(tag.EPC)
		if err != nil {
			return fmt.Errorf("device: decode queried epc: %w", err)
		}
	} else {
		payload, err := s.ReadData(password, bank, address, uint16(len(data)))
		if err != nil {
			return err
		}
		readBack = append([]byte{}, payload...)
	}

	if !bytes.Equal(data, readBack) {
		return &VerifyError{Bank: bank, Expected: data, Actual: readBack}
	}

	return nil
}
