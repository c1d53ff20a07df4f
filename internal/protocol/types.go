package protocol

import "fmt"

// Command is an M100 opcode. The set is closed; unknown codes are rejected at
// the boundary rather than defaulted.
type Command byte

const (
	CmdGetVersion Command = 0x03
	CmdIdle       Command = 0x04
	CmdQuery      Command = 0x22
	CmdReadData   Command = 0x39
	CmdSetHfss    Command = 0xAD
	CmdWriteData  Command = 0x49
)

func (c Command) String() string {
	switch c {
	case CmdGetVersion:
		return "get-version"
	case CmdIdle:
		return "idle"
	case CmdQuery:
		return "query"
	case CmdReadData:
		return "read-data"
	case CmdSetHfss:
		return "set-hfss"
	case CmdWriteData:
		return "write-data"
	default:
		return fmt.Sprintf("unknown command 0x%02X", byte(c))
	}
}

// MemoryBank identifies one of the four Gen2 tag memory banks.
type MemoryBank byte

const (
	BankReserved MemoryBank = 0x00
	BankEPC      MemoryBank = 0x01
	BankTID      MemoryBank = 0x02
	BankUser     MemoryBank = 0x03
)

func (b MemoryBank) String() string {
	switch b {
	case BankReserved:
		return "reserved"
	case BankEPC:
		return "epc"
	case BankTID:
		return "tid"
	case BankUser:
		return "user"
	default:
		return fmt.Sprintf("unknown bank 0x%02X", byte(b))
	}
}

// ParseMemoryBank maps a bank name to its code. Only the bulk-readable banks
// are accepted from user input; Reserved is deliberately not reachable here.
func ParseMemoryBank(name string) (MemoryBank, error) {
	switch name {
	case "epc":
		return BankEPC, nil
	case "tid":
		return BankTID, nil
	case "user":
		return BankUser, nil
	default:
		return 0, fmt.Errorf("protocol: unknown memory bank %q (want epc, tid or user)", name)
	}
}

// HfssStatus toggles the module's continuous-inventory (HFSS) mode.
type HfssStatus byte

const (
	HfssAuto HfssStatus = 0xFF
	HfssStop HfssStatus = 0x00
)

func (s HfssStatus) String() string {
	switch s {
	case HfssAuto:
		return "auto"
	case HfssStop:
		return "stop"
	default:
		return fmt.Sprintf("unknown hfss status 0x%02X", byte(s))
	}
}

// VersionMode selects which version string GetVersion reports.
type VersionMode byte

const (
	VersionHardware     VersionMode = 0x00
	VersionSoftware     VersionMode = 0x01
	VersionManufacturer VersionMode = 0x02
)

// Password is the fixed 8-byte tag access credential.
type Password [PasswordSize]byte

// DefaultPassword is the factory access password, eight ASCII '0' bytes.
var DefaultPassword = Password{0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30, 0x30}

// TagInfo is the result of a successful inventory round.
type TagInfo struct {
	// EPC is the tag's EPC, uppercase hex.
	EPC string

	// RSSI is the raw signal strength byte reported by the module.
	RSSI byte
}
