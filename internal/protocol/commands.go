package protocol

import (
	"encoding/binary"
	"fmt"
)

// BuildGetVersionCmd constructs a Get Version command frame.
// The mode selects the hardware, software or manufacturer string.
//
// Payload: [MODE]
func BuildGetVersionCmd(mode VersionMode) ([]byte, error) {
	return Encode(CmdGetVersion, []byte{byte(mode)})
}

// BuildSetHfssCmd constructs a Set HFSS Status command frame, switching
// continuous-inventory mode on (HfssAuto) or off (HfssStop).
//
// Payload: [STATUS]
func BuildSetHfssCmd(status HfssStatus) ([]byte, error) {
	return Encode(CmdSetHfss, []byte{byte(status)})
}

// BuildQueryCmd constructs a single inventory round (Query) command frame.
//
// Payload: [0x00, 0x00]
func BuildQueryCmd() ([]byte, error) {
	return Encode(CmdQuery, []byte{0x00, 0x00})
}

// BuildIdleCmd constructs an Idle command frame, used to leave
// continuous-inventory/sleep mode after firmware bring-up.
//
// Payload: [0x00, 0x01, 0x00]
func BuildIdleCmd() ([]byte, error) {
	return Encode(CmdIdle, []byte{0x00, 0x01, 0x00})
}

// BuildReadDataCmd constructs a Read Data command frame for length bytes of
// the given bank starting at address. The tag protocol is word-oriented, so
// length must be a positive even number; violations fail before any I/O.
//
// Payload: PASSWORD(8) ‖ BANK ‖ ADDRESS(BE16) ‖ LENGTH(BE16)
func BuildReadDataCmd(password Password, bank MemoryBank, address, length uint16) ([]byte, error) {
	if length == 0 || length%2 != 0 {
		return nil, fmt.Errorf("protocol: read length must be a positive even number, got %d", length)
	}

	payload := make([]byte, 0, PasswordSize+5)
	payload = append(payload, password[:]...)
	payload = append(payload, byte(bank))
	payload = binary.BigEndian.AppendUint16(payload, address)
	payload = binary.BigEndian.AppendUint16(payload, length)

	return Encode(CmdReadData, payload)
}

// BuildWriteDataCmd constructs a Write Data command frame.
//
// Calling it with the EPC bank is a programming error, not a runtime
// condition: EPC writes carry a different payload shape and must go through
// BuildWriteEpcCmd.
//
// Payload: PASSWORD(8) ‖ BANK ‖ ADDRESS(BE16) ‖ LEN(BE16) ‖ DATA
func BuildWriteDataCmd(password Password, bank MemoryBank, address uint16, data []byte) ([]byte, error) {
	if bank == BankEPC {
		panic("protocol: BuildWriteDataCmd called with the EPC bank, use BuildWriteEpcCmd")
	}

	payload := make([]byte, 0, PasswordSize+5+len(data))
	payload = append(payload, password[:]...)
	payload = append(payload, byte(bank))
	payload = binary.BigEndian.AppendUint16(payload, address)
	payload = binary.BigEndian.AppendUint16(payload, uint16(len(data)))
	payload = append(payload, data...)

	return Encode(CmdWriteData, payload)
}

// BuildWriteEpcCmd constructs the EPC-bank variant of Write Data.
//
// The 0x00/0x01 bytes are fixed wire constants reproduced from the observed
// protocol. The PC word encodes the EPC length per the Gen2 protocol-control
// convention and is an opaque derived field.
//
// Payload: PASSWORD(8) ‖ 0x01 ‖ 0x00 ‖ 0x01 ‖ LEN(BE16) ‖ PC(BE16) ‖ DATA
func BuildWriteEpcCmd(password Password, data []byte) ([]byte, error) {
	payload := make([]byte, 0, PasswordSize+7+len(data))
	payload = append(payload, password[:]...)
	payload = append(payload, byte(BankEPC))
	payload = append(payload, 0x00, 0x01)
	payload = binary.BigEndian.AppendUint16(payload, uint16(len(data)))

	pc := (uint16(len(data)) << 10) & 0xF800
	payload = binary.BigEndian.AppendUint16(payload, pc)
	payload = append(payload, data...)

	return Encode(CmdWriteData, payload)
}
