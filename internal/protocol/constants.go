package protocol

// Frame structure constants. These values define the wire protocol and MUST
// NOT be configurable.
const (
	// FrameHead is the frame start marker (0xBB).
	FrameHead = 0xBB

	// FrameTail is the frame end marker (0x7E). Decoding rejects any frame
	// whose final byte differs.
	FrameTail = 0x7E

	// TypeCommand is the frame type for host-issued commands.
	TypeCommand = 0x00

	// HeaderSize is the fixed frame prefix: HEAD(1) + TYPE(1) + CMD(1) + LEN(2).
	HeaderSize = 5

	// TrailerSize is the fixed frame suffix: CHECKSUM(1) + TAIL(1).
	TrailerSize = 2
)

// PasswordSize is the fixed length of the tag access password in bytes.
const PasswordSize = 8

// Device-reported status codes. A response whose payload is this single byte
// carries an error, not data.
const (
	// StatusFailRead indicates the tag rejected or missed a read (0x09).
	StatusFailRead = 0x09

	// StatusReadOverrun indicates a read past the end of a memory bank (0xA3).
	StatusReadOverrun = 0xA3

	// StatusWriteError indicates the module failed to execute a write (0xB0).
	StatusWriteError = 0xB0

	// StatusFailWrite indicates the tag rejected or missed a write (0x10).
	StatusFailWrite = 0x10
)

// Firmware bring-up handshake bytes. The bootstrap link runs outside the
// framed protocol: single raw bytes at 9600 baud until the speed switch.
const (
	// ProbeByte is written to check the module is alive (stage 1).
	ProbeByte = 0xFE

	// ProbeAck is the expected alive reply.
	ProbeAck = 0xFF

	// SpeedUpByte requests the switch to the upload baud rate (stage 2).
	SpeedUpByte = 0xB5

	// ArmAck is the expected ready-for-upload reply (stage 3).
	ArmAck = 0xBF

	// ArmConfirmByte acknowledges ArmAck before streaming the image.
	ArmConfirmByte = 0xFD
)

// ArmBytes is the two-byte prepare-for-upload request (stage 3).
var ArmBytes = []byte{0xFF, 0xDB}

// Baud rates of the two-speed bootstrap handshake.
const (
	// BootstrapBaudRate is the link speed of an unprovisioned module.
	BootstrapBaudRate = 9600

	// OperationalBaudRate is the link speed after the speed-up stage, and the
	// normal command/response speed.
	OperationalBaudRate = 115200
)
