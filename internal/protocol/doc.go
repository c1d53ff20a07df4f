// Package protocol implements the MagicRF M100 reader wire protocol.
//
// Every exchange with the module is one command frame out, one response
// frame back:
//
//	[HEAD][TYPE][CMD][LEN_HI][LEN_LO][PAYLOAD...][CHECKSUM][TAIL]
//
// Where:
//   - HEAD = 0xBB, TAIL = 0x7E
//   - TYPE = 0x00 for host-issued commands
//   - LEN = 16-bit payload length, big-endian
//   - CHECKSUM = low byte of the sum of all bytes from TYPE through the end
//     of PAYLOAD (HEAD excluded)
//
// The Build* functions produce complete frames for each supported command:
//
//	frame, err := protocol.BuildQueryCmd()
//	frame, err := protocol.BuildReadDataCmd(password, protocol.BankUser, 0, 512)
//
// ReadFrame consumes one response frame from a byte stream and returns a view
// of its payload. Per the module's protocol, the receive side gates on the
// tail byte only; the checksum is not re-verified on decode.
package protocol
