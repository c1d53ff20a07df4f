package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// payloadOf strips framing and returns the command payload for inspection.
func payloadOf(t *testing.T, frame []byte) []byte {
	t.Helper()
	require.GreaterOrEqual(t, len(frame), HeaderSize+TrailerSize)
	return frame[HeaderSize : len(frame)-TrailerSize]
}

func TestBuildGetVersionCmd(t *testing.T) {
	frame, err := BuildGetVersionCmd(VersionHardware)
	require.NoError(t, err)
	assert.Equal(t, byte(CmdGetVersion), frame[2])
	assert.Equal(t, []byte{0x00}, payloadOf(t, frame))
}

func TestBuildSetHfssCmd(t *testing.T) {
	frame, err := BuildSetHfssCmd(HfssAuto)
	require.NoError(t, err)
	assert.Equal(t, byte(CmdSetHfss), frame[2])
	assert.Equal(t, []byte{0xFF}, payloadOf(t, frame))
}

func TestBuildIdleCmd(t *testing.T) {
	frame, err := BuildIdleCmd()
	require.NoError(t, err)
	assert.Equal(t, byte(CmdIdle), frame[2])
	assert.Equal(t, []byte{0x00, 0x01, 0x00}, payloadOf(t, frame))
}

func TestBuildReadDataCmd(t *testing.T) {
	frame, err := BuildReadDataCmd(DefaultPassword, BankUser, 0x0102, 0x0200)
	require.NoError(t, err)
	assert.Equal(t, byte(CmdReadData), frame[2])

	payload := payloadOf(t, frame)
	require.Len(t, payload, PasswordSize+5)
	assert.Equal(t, DefaultPassword[:], payload[:PasswordSize])
	assert.Equal(t, []byte{0x03, 0x01, 0x02, 0x02, 0x00}, payload[PasswordSize:])
}

func TestBuildReadDataCmd_LengthValidation(t *testing.T) {
	for _, length := range []uint16{0, 1, 3, 511} {
		_, err := BuildReadDataCmd(DefaultPassword, BankUser, 0, length)
		assert.Error(t, err, "length %d", length)
	}
}

func TestBuildWriteDataCmd(t *testing.T) {
	data := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	frame, err := BuildWriteDataCmd(DefaultPassword, BankUser, 0x0004, data)
	require.NoError(t, err)
	assert.Equal(t, byte(CmdWriteData), frame[2])

	payload := payloadOf(t, frame)
	assert.Equal(t, DefaultPassword[:], payload[:PasswordSize])
	assert.Equal(t, []byte{0x03, 0x00, 0x04, 0x00, 0x04}, payload[PasswordSize:PasswordSize+5])
	assert.Equal(t, data, payload[PasswordSize+5:])
}

func TestBuildWriteDataCmd_PanicsOnEpcBank(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = BuildWriteDataCmd(DefaultPassword, BankEPC, 0, []byte{0x00, 0x01})
	})
}

func TestBuildWriteEpcCmd(t *testing.T) {
	data := []byte{0xE2, 0x00, 0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0, 0x11, 0x22}
	frame, err := BuildWriteEpcCmd(DefaultPassword, data)
	require.NoError(t, err)
	assert.Equal(t, byte(CmdWriteData), frame[2])

	payload := payloadOf(t, frame)
	assert.Equal(t, DefaultPassword[:], payload[:PasswordSize])
	// Bank byte plus the fixed 0x00/0x01 wire constants.
	assert.Equal(t, []byte{0x01, 0x00, 0x01}, payload[PasswordSize:PasswordSize+3])
	// Length then PC word: (12 << 10) & 0xF800 = 0x3000.
	assert.Equal(t, []byte{0x00, 0x0C, 0x30, 0x00}, payload[PasswordSize+3:PasswordSize+7])
	assert.Equal(t, data, payload[PasswordSize+7:])
}

func TestParseMemoryBank(t *testing.T) {
	for name, want := range map[string]MemoryBank{
		"epc":  BankEPC,
		"tid":  BankTID,
		"user": BankUser,
	} {
		got, err := ParseMemoryBank(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, name := range []string{"", "reserved", "EPC", "0x01"} {
		_, err := ParseMemoryBank(name)
		assert.Error(t, err, "name %q", name)
	}
}
