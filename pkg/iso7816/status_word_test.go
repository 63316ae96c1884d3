package iso7816

import (
	"strings"
	"testing"
)

func TestStatusWord_Bytes(t *testing.T) {
	sw := NewStatusWord(0x61, 0x1A)
	if sw.SW1() != 0x61 || sw.SW2() != 0x1A {
		t.Errorf("SW1/SW2 = %02X/%02X, want 61/1A", sw.SW1(), sw.SW2())
	}
}

func TestStatusWord_IsSuccess(t *testing.T) {
	tests := []struct {
		sw   StatusWord
		want bool
	}{
		{SW_NO_ERROR, true},
		{NewStatusWord(0x61, 0x10), true},
		{SW_ERR_FILE_NOT_FOUND, false},
		{NewStatusWord(0x6C, 0x10), false},
	}

	for _, tt := range tests {
		if got := tt.sw.IsSuccess(); got != tt.want {
			t.Errorf("IsSuccess(%04X) = %v, want %v", uint16(tt.sw), got, tt.want)
		}
	}
}

func TestStatusWord_Verbose(t *testing.T) {
	tests := []struct {
		sw       StatusWord
		contains string
	}{
		{NewStatusWord(0x61, 0x0A), "10 bytes available"},
		{NewStatusWord(0x6C, 0x1A), "correct Le is 26"},
		{SW_ERR_RECORD_NOT_FOUND, "Record not found"},
		{NewStatusWord(0x69, 0x99), "Command not allowed"},
		{NewStatusWord(0x12, 0x34), "Unknown Status"},
	}

	for _, tt := range tests {
		if got := tt.sw.Verbose(); !strings.Contains(got, tt.contains) {
			t.Errorf("Verbose(%04X) = %q, want substring %q", uint16(tt.sw), got, tt.contains)
		}
	}
}
