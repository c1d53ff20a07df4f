// internal/device/firmware.go
package device

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/magicrf/m100ctl/internal/protocol"
)

// speedUpSettle is the hardware settling time between requesting the speed
// switch and re-bauding the link. Non-negotiable; the module ignores traffic
// arriving earlier.
const speedUpSettle = 50 * time.Millisecond

// HandshakeError reports an unexpected reply during the firmware bring-up
// handshake. There is no recovery path: the operator power-cycles the module
// and starts over.
type HandshakeError struct {
	Stage string
	Got   byte
	Want  byte
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("device: firmware %s stage: got 0x%02X, want 0x%02X", e.Stage, e.Got, e.Want)
}

// UploadFirmware runs the 5-stage bring-up handshake and streams the opaque
// firmware image to an unprovisioned module:
//
//  1. Probe: 9600 baud, 0xFE out, 0xFF back.
//  2. SpeedUp: 0xB5 out, settle, re-baud to 115200.
//  3. Arm: 0xFF 0xDB out, 0xBF back, 0xFD out.
//  4. Stream: the whole image in one write.
//  5. Settle: Idle through the normal command path.
//
// Stages are strictly sequential; any failure aborts the upload as fatal and
// no stage is ever retried.
func (s *Session) UploadFirmware(image []byte) error {
	if len(image) == 0 {
		return fmt.Errorf("device: firmware image is empty")
	}

	// Stage 1: alive probe at the bootstrap speed.
	if err := s.port.SetBaudRate(protocol.BootstrapBaudRate); err != nil {
		return err
	}
	reply, err := s.exchangeByte(protocol.ProbeByte)
	if err != nil {
		return fmt.Errorf("device: firmware probe: %w", err)
	}
	if reply != protocol.ProbeAck {
		return &HandshakeError{Stage: "probe", Got: reply, Want: protocol.ProbeAck}
	}

	// Stage 2: request the speed switch, let the hardware settle, re-baud.
	if err := s.writeRaw([]byte{protocol.SpeedUpByte}); err != nil {
		return fmt.Errorf("device: firmware speed-up: %w", err)
	}
	time.Sleep(speedUpSettle)
	if err := s.port.SetBaudRate(protocol.OperationalBaudRate); err != nil {
		return err
	}

	// Stage 3: arm the upload.
	if err := s.writeRaw(protocol.ArmBytes); err != nil {
		return fmt.Errorf("device: firmware arm: %w", err)
	}
	if _, err := io.ReadFull(s.port, s.buf[:1]); err != nil {
		return fmt.Errorf("device: firmware arm: %w", err)
	}
	if s.buf[0] != protocol.ArmAck {
		return &HandshakeError{Stage: "arm", Got: s.buf[0], Want: protocol.ArmAck}
	}
	if err := s.writeRaw([]byte{protocol.ArmConfirmByte}); err != nil {
		return fmt.Errorf("device: firmware arm ack: %w", err)
	}

	// Stage 4: stream the image.
	s.log.Info("streaming firmware image", zap.Int("bytes", len(image)))
	if err := s.writeRaw(image); err != nil {
		return fmt.Errorf("device: firmware stream: %w", err)
	}

	// Stage 5: confirm the module answers on the framed protocol again.
	if err := s.Idle(); err != nil {
		return fmt.Errorf("device: firmware settle: %w", err)
	}

	return nil
}

// exchangeByte writes one raw byte and blocks for a one-byte reply. The
// bootstrap handshake runs outside the framed protocol.
func (s *Session) exchangeByte(b byte) (byte, error) {
	if err := s.writeRaw([]byte{b}); err != nil {
		return 0, err
	}
	if _, err := io.ReadFull(s.port, s.buf[:1]); err != nil {
		return 0, err
	}
	return s.buf[0], nil
}

// writeRaw writes bytes with the protocol's write+flush contract but no
// framing.
func (s *Session) writeRaw(p []byte) error {
	if _, err := s.port.Write(p); err != nil {
		return err
	}
	return s.port.Flush()
}
