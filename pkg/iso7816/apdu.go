package iso7816

import (
	"fmt"
)

// APDU ENCODING (ISO/IEC 7816-3, T=0 short length):
//
// COMMAND APDU (C-APDU):
//   - Header: CLA, INS, P1, P2 (4 bytes, always present).
//   - Lc + Data: only when the command carries data. Lc is one byte, so the
//     data field is capped at 255 bytes.
//   - Le: one byte, always emitted. The value 0x00 requests up to 256
//     response bytes.
//
// RESPONSE APDU (R-APDU):
//   - Data: variable length response payload.
//   - Trailer: SW1, SW2 status bytes (always the final two bytes).

// MaxData is the largest data field a short-length command can carry.
const MaxData = 255

// CommandAPDU represents a command sent to the card.
type CommandAPDU struct {
	Class       Class
	Instruction Instruction
	P1, P2      byte
	Data        []byte

	// Le is the expected response length byte. 0 requests up to 256 bytes.
	Le byte
}

// NewCommandAPDU creates a basic command. A reserved instruction code is
// kept as-is and rejected when the command is encoded.
func NewCommandAPDU(cla Class, ins InsCode, p1, p2 byte, data []byte, le byte) *CommandAPDU {
	instruction, err := NewInstruction(ins)
	if err != nil {
		instruction = Instruction{Raw: ins}
	}
	return &CommandAPDU{
		Class:       cla,
		Instruction: instruction,
		P1:          p1,
		P2:          p2,
		Data:        data,
		Le:          le,
	}
}

// Bytes encodes the CommandAPDU into its wire representation:
// CLA INS P1 P2 [Lc Data] Le.
func (c *CommandAPDU) Bytes() ([]byte, error) {
	if _, err := NewInstruction(c.Instruction.Raw); err != nil {
		return nil, err
	}
	if len(c.Data) > MaxData {
		return nil, fmt.Errorf("data field too long: %d bytes (max %d)", len(c.Data), MaxData)
	}

	out := make([]byte, 0, 4+1+len(c.Data)+1)
	out = append(out, c.Class.Encode(), byte(c.Instruction.Raw), c.P1, c.P2)

	if len(c.Data) > 0 {
		out = append(out, byte(len(c.Data)))
		out = append(out, c.Data...)
	}

	return append(out, c.Le), nil
}

// String returns a readable representation of the command meta-data.
func (c *CommandAPDU) String() string {
	return fmt.Sprintf("%s | P1: %02X, P2: %02X | Lc: %d | Le: %d",
		c.Instruction.Verbose(), c.P1, c.P2, len(c.Data), c.Le)
}

// ResponseAPDU represents the reply from the card (R-APDU).
type ResponseAPDU struct {
	Data   []byte
	Status StatusWord
}

// ParseResponseAPDU parses raw bytes received from the card into a
// ResponseAPDU. The input must contain at least the two status bytes.
func ParseResponseAPDU(raw []byte) (*ResponseAPDU, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("response too short: length %d", len(raw))
	}

	indexSW1 := len(raw) - 2
	return &ResponseAPDU{
		Data:   raw[:indexSW1],
		Status: NewStatusWord(raw[indexSW1], raw[indexSW1+1]),
	}, nil
}

// String returns a readable representation of the response.
func (r *ResponseAPDU) String() string {
	return fmt.Sprintf("Data (%d bytes) | Status: %s", len(r.Data), r.Status.Verbose())
}
