// internal/device/session_test.go
package device

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magicrf/m100ctl/internal/protocol"
)

// fakePort is a scripted duplex channel: reads are served from a pre-loaded
// byte stream, writes and baud changes are recorded. An exhausted script
// behaves like a read timeout.
type fakePort struct {
	script  bytes.Buffer
	written bytes.Buffer
	bauds   []int
	flushes int
}

var errScriptTimeout = errors.New("fake port: read timeout")

func (f *fakePort) Read(p []byte) (int, error) {
	if f.script.Len() == 0 {
		return 0, errScriptTimeout
	}
	return f.script.Read(p)
}

func (f *fakePort) Write(p []byte) (int, error) {
	return f.written.Write(p)
}

func (f *fakePort) Flush() error {
	f.flushes++
	return nil
}

func (f *fakePort) SetBaudRate(baud int) error {
	f.bauds = append(f.bauds, baud)
	return nil
}

// queueResponse scripts one framed response carrying the given payload.
func (f *fakePort) queueResponse(t *testing.T, payload []byte) {
	t.Helper()
	frame, err := protocol.Encode(protocol.CmdGetVersion, payload)
	require.NoError(t, err)
	f.script.Write(frame)
}

func TestVersion(t *testing.T) {
	port := &fakePort{}
	port.queueResponse(t, []byte("M100 26dBm V1.0"))

	s := New(port, nil)
	version, err := s.Version(protocol.VersionHardware)
	require.NoError(t, err)
	assert.Equal(t, "M100 26dBm V1.0", version)

	want, err := protocol.BuildGetVersionCmd(protocol.VersionHardware)
	require.NoError(t, err)
	assert.Equal(t, want, port.written.Bytes())
	assert.Equal(t, 1, port.flushes)
}

func TestVersion_Timeout(t *testing.T) {
	s := New(&fakePort{}, nil)
	_, err := s.Version(protocol.VersionHardware)
	require.ErrorIs(t, err, errScriptTimeout)
}

func TestQuery_NoTag(t *testing.T) {
	port := &fakePort{}
	port.queueResponse(t, []byte{0x00})

	s := New(port, nil)
	tag, err := s.Query()
	require.NoError(t, err)
	assert.Nil(t, tag)
}

func TestQuery_Tag(t *testing.T) {
	port := &fakePort{}
	// RSSI ‖ 3-byte PC-adjacent header... the slice [3:len-2] is the EPC.
	port.queueResponse(t, []byte{0xC8, 0x34, 0x00, 0xDE, 0xAD, 0xBE, 0xEF, 0x11, 0x22})

	s := New(port, nil)
	tag, err := s.Query()
	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, byte(0xC8), tag.RSSI)
	assert.Equal(t, "DEADBEEF", tag.EPC)
}

func TestSetHfssAndIdle(t *testing.T) {
	port := &fakePort{}
	port.queueResponse(t, []byte{0x00})
	port.queueResponse(t, []byte{0x00})

	s := New(port, nil)
	require.NoError(t, s.SetHfss(protocol.HfssAuto))
	require.NoError(t, s.Idle())
	assert.Equal(t, 2, port.flushes)
}

func TestReadData_DeviceError(t *testing.T) {
	port := &fakePort{}
	port.queueResponse(t, []byte{protocol.StatusReadOverrun})

	s := New(port, nil)
	_, err := s.ReadData(protocol.DefaultPassword, protocol.BankUser, 0, 2)
	require.Error(t, err)
	assert.True(t, protocol.IsEndOfBank(err))

	var de *protocol.DeviceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, byte(protocol.StatusReadOverrun), de.Code())
}

func TestReadData_ValidationBeforeIO(t *testing.T) {
	port := &fakePort{}
	s := New(port, nil)

	for _, length := range []uint16{0, 1, 7} {
		_, err := s.ReadData(protocol.DefaultPassword, protocol.BankUser, 0, length)
		require.Error(t, err, "length %d", length)
	}
	assert.Zero(t, port.written.Len(), "validation errors must not reach the wire")
}
