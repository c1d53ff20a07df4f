package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Encode builds a complete command frame around the given payload.
//
// Frame structure:
//
//	[HEAD][TYPE][CMD][LEN_HI][LEN_LO][PAYLOAD...][CHECKSUM][TAIL]
//
// The only failure mode is a payload too large for the 16-bit length field.
func Encode(cmd Command, payload []byte) ([]byte, error) {
	if len(payload) > math.MaxUint16 {
		return nil, fmt.Errorf("protocol: payload length %d exceeds 16-bit frame limit", len(payload))
	}

	frame := make([]byte, 0, HeaderSize+len(payload)+TrailerSize)
	frame = append(frame, FrameHead)
	frame = append(frame, TypeCommand)
	frame = append(frame, byte(cmd))

	frame = binary.BigEndian.AppendUint16(frame, uint16(len(payload)))
	frame = append(frame, payload...)

	// Checksum covers TYPE through the end of PAYLOAD, HEAD excluded.
	frame = append(frame, Checksum(frame[1:]))
	frame = append(frame, FrameTail)

	return frame, nil
}

// Checksum returns the low byte of the sum of the given bytes. A weak check:
// distinct payloads whose byte sums collide mod 256 share a checksum.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// ReadFrame consumes exactly one response frame from r and returns a view of
// its payload within buf. The read is staged: 5 header bytes, then the
// length-field count of payload bytes, then 2 trailer bytes. The caller owns
// buf; the returned slice aliases it and is only valid until buf is reused.
//
// The tail byte is the only integrity gate on decode; the checksum byte is
// read but not re-verified (protocol-inherited receive policy).
func ReadFrame(r io.Reader, buf []byte) ([]byte, error) {
	if _, err := io.ReadFull(r, buf[:HeaderSize]); err != nil {
		return nil, fmt.Errorf("protocol: read frame header: %w", err)
	}

	length := int(binary.BigEndian.Uint16(buf[3:HeaderSize]))
	total := HeaderSize + length + TrailerSize
	if total > len(buf) {
		return nil, fmt.Errorf("protocol: frame payload of %d bytes exceeds %d-byte receive buffer", length, len(buf))
	}

	if _, err := io.ReadFull(r, buf[HeaderSize:HeaderSize+length]); err != nil {
		return nil, fmt.Errorf("protocol: read frame payload: %w", err)
	}
	if _, err := io.ReadFull(r, buf[HeaderSize+length:total]); err != nil {
		return nil, fmt.Errorf("protocol: read frame trailer: %w", err)
	}

	if tail := buf[total-1]; tail != FrameTail {
		return nil, &FramingError{Tail: tail}
	}

	return buf[HeaderSize : HeaderSize+length], nil
}
