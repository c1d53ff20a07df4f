package protocol

import (
	"errors"
	"fmt"
)

// FramingError indicates a response frame that did not end with FrameTail.
type FramingError struct {
	// Tail is the byte received where 0x7E was expected.
	Tail byte
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("protocol: invalid frame tail 0x%02X (want 0x%02X)", e.Tail, FrameTail)
}

// DeviceError is a status code reported by the module as a single-byte
// response payload.
type DeviceError struct {
	// Op is the operation that triggered the error.
	Op string

	// Status is the raw code from the device.
	Status byte
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("protocol: %s failed: %s (0x%02X)", e.Op, statusName(e.Status), e.Status)
}

// Code exposes the raw device status for callers that probe error codes
// without assuming concrete types.
func (e *DeviceError) Code() byte {
	return e.Status
}

func statusName(code byte) string {
	switch code {
	case StatusFailRead:
		return "read failure"
	case StatusReadOverrun:
		return "read memory overrun"
	case StatusWriteError:
		return "write error"
	case StatusFailWrite:
		return "write failure"
	default:
		return "unknown status"
	}
}

// IsEndOfBank reports whether err is a device-reported read failure that the
// chunked bank reader treats as the expected end-of-bank signal.
func IsEndOfBank(err error) bool {
	var de *DeviceError
	if !errors.As(err, &de) {
		return false
	}
	return de.Status == StatusFailRead || de.Status == StatusReadOverrun
}

// IsWriteFailure reports whether err is a device-reported write rejection.
func IsWriteFailure(err error) bool {
	var de *DeviceError
	if !errors.As(err, &de) {
		return false
	}
	return de.Status == StatusWriteError || de.Status == StatusFailWrite
}
