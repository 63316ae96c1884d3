package iso7816

import (
	"fmt"

	"github.com/gregLibert/emv-select/pkg/bits"
)

// Instruction Byte (INS) Logic according to ISO/IEC 7816-4.
//
// The INS byte identifies the command to be performed by the card. Values
// whose upper nibble is '6' or '9' are reserved for status words and
// transport control and are invalid as instructions. For interindustry
// commands, bit 1 of the INS byte indicates BER-TLV formatted data fields.

// InsCode is a typed representation of the instruction byte.
type InsCode byte

// Instruction (INS) codes used by this client, as defined in ISO/IEC 7816-4
// and EMV Book 3.
const (
	INS_VERIFY              InsCode = 0x20
	INS_EXTERNAL_AUTH       InsCode = 0x82
	INS_GET_CHALLENGE       InsCode = 0x84
	INS_INTERNAL_AUTH       InsCode = 0x88
	INS_SELECT              InsCode = 0xA4
	INS_GET_PROCESSING_OPTS InsCode = 0xA8
	INS_READ_BINARY         InsCode = 0xB0
	INS_READ_RECORD         InsCode = 0xB2
	INS_GET_RESPONSE        InsCode = 0xC0
	INS_GET_DATA            InsCode = 0xCA
)

// String returns the mnemonic for known instruction codes.
func (i InsCode) String() string {
	switch i {
	case INS_VERIFY:
		return "VERIFY"
	case INS_EXTERNAL_AUTH:
		return "EXTERNAL AUTHENTICATE"
	case INS_GET_CHALLENGE:
		return "GET CHALLENGE"
	case INS_INTERNAL_AUTH:
		return "INTERNAL AUTHENTICATE"
	case INS_SELECT:
		return "SELECT"
	case INS_GET_PROCESSING_OPTS:
		return "GET PROCESSING OPTIONS"
	case INS_READ_BINARY:
		return "READ BINARY"
	case INS_READ_RECORD:
		return "READ RECORD"
	case INS_GET_RESPONSE:
		return "GET RESPONSE"
	case INS_GET_DATA:
		return "GET DATA"
	default:
		return fmt.Sprintf("INS(0x%02X)", byte(i))
	}
}

// Instruction represents the parsed ISO 7816-4 Instruction byte (INS).
type Instruction struct {
	Raw      InsCode
	IsBERTLV bool
}

// NewInstruction creates an Instruction object with validation.
// It rejects '6X' and '9X' values as they are reserved per ISO 7816-3.
func NewInstruction(ins InsCode) (Instruction, error) {
	highNibble := byte(ins) & 0xF0
	if highNibble == 0x60 || highNibble == 0x90 {
		return Instruction{}, fmt.Errorf("invalid INS 0x%02X: 6X and 9X are reserved", byte(ins))
	}

	return Instruction{
		Raw:      ins,
		IsBERTLV: bits.IsSet(byte(ins), 1),
	}, nil
}

// Verbose returns a human-readable description of the instruction.
func (i Instruction) Verbose() string {
	format := "Standard"
	if i.IsBERTLV {
		format = "BER-TLV"
	}
	return fmt.Sprintf("INS: 0x%02X | Command: %s | Format: %s", byte(i.Raw), i.Raw, format)
}
