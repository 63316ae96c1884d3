package iso7816

import (
	"fmt"
)

// Dynamic Status Word Logic:
//
// Most Status Words (SW) are static 2-byte values (e.g. 0x9000), but ISO
// 7816-4 defines ranges where the value carries contextual information:
//
// 1. '61XX' (SW1=0x61): Process Completed, Response Available.
//    XX indicates the number of extra bytes available for GET RESPONSE.
//
// 2. '6CXX' (SW1=0x6C): Wrong Length.
//    XX indicates the correct expected length (Le) for the command.

// StatusWord represents the two-byte status response (SW1-SW2) returned by
// the smart card.
type StatusWord uint16

// NewStatusWord creates a StatusWord instance from two separate bytes.
func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(uint16(sw1)<<8 | uint16(sw2))
}

// SW1 returns the first byte (high byte) of the status word.
func (sw StatusWord) SW1() byte {
	return byte(sw >> 8)
}

// SW2 returns the second byte (low byte) of the status word.
func (sw StatusWord) SW2() byte {
	return byte(sw)
}

// IsSuccess returns true if the command was processed successfully (9000)
// or if data is available (61XX).
func (sw StatusWord) IsSuccess() bool {
	return sw == SW_NO_ERROR || sw.SW1() == 0x61
}

// Verbose returns a human-readable description of the status word.
func (sw StatusWord) Verbose() string {
	sw1 := sw.SW1()
	sw2 := sw.SW2()

	if sw1 == 0x61 {
		return fmt.Sprintf("Process completed, %d bytes available", sw2)
	}
	if sw1 == 0x6C {
		return fmt.Sprintf("Wrong length, correct Le is %d", sw2)
	}

	if name := sw.name(); name != "" {
		return fmt.Sprintf("[%04X] %s", uint16(sw), name)
	}
	return fmt.Sprintf("[%04X] %s", uint16(sw), sw.genericCategoryDescription())
}

// name returns the mnemonic of well-known static status words.
func (sw StatusWord) name() string {
	switch sw {
	case SW_NO_ERROR:
		return "No error"
	case SW_ERR_WRONG_LENGTH:
		return "Wrong length"
	case SW_ERR_SECURITY_STATUS_NOT_SAT:
		return "Security status not satisfied"
	case SW_ERR_COND_OF_USE_NOT_SAT:
		return "Conditions of use not satisfied"
	case SW_ERR_FUNC_NOT_SUPPORTED:
		return "Function not supported"
	case SW_ERR_FILE_NOT_FOUND:
		return "File not found"
	case SW_ERR_RECORD_NOT_FOUND:
		return "Record not found"
	case SW_ERR_WRONG_P1P2:
		return "Wrong P1-P2"
	case SW_ERR_INS_INVALID:
		return "Instruction not supported or invalid"
	case SW_ERR_CLA_NOT_SUPPORTED:
		return "Class not supported"
	case SW_ERR_UNKNOWN:
		return "No precise diagnosis"
	default:
		return ""
	}
}

// genericCategoryDescription provides a fallback description based on SW1.
func (sw StatusWord) genericCategoryDescription() string {
	switch sw.SW1() {
	case 0x62:
		return "Warning: NV memory unchanged"
	case 0x63:
		return "Warning: NV memory changed"
	case 0x64:
		return "Execution Error: NV memory unchanged"
	case 0x65:
		return "Execution Error: NV memory changed"
	case 0x66:
		return "Execution Error: Security issue"
	case 0x68:
		return "Checking Error: Function not supported"
	case 0x69:
		return "Checking Error: Command not allowed"
	case 0x6A:
		return "Checking Error: Wrong parameters"
	default:
		return "Unknown Status"
	}
}

// Status Word codes defined in ISO/IEC 7816-4 that this client interprets.
const (
	SW_NO_ERROR StatusWord = 0x9000

	SW_ERR_WRONG_LENGTH            StatusWord = 0x6700
	SW_ERR_SECURITY_STATUS_NOT_SAT StatusWord = 0x6982
	SW_ERR_COND_OF_USE_NOT_SAT     StatusWord = 0x6985
	SW_ERR_FUNC_NOT_SUPPORTED      StatusWord = 0x6A81
	SW_ERR_FILE_NOT_FOUND          StatusWord = 0x6A82
	SW_ERR_RECORD_NOT_FOUND        StatusWord = 0x6A83
	SW_ERR_WRONG_P1P2              StatusWord = 0x6B00
	SW_ERR_INS_INVALID             StatusWord = 0x6D00
	SW_ERR_CLA_NOT_SUPPORTED       StatusWord = 0x6E00
	SW_ERR_UNKNOWN                 StatusWord = 0x6F00
)
