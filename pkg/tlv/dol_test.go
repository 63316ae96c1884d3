package tlv

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDOL(t *testing.T) {
	// A typical PDOL: Terminal Transaction Qualifiers (4), Amount (6),
	// Terminal Country Code (2). No values, only shape.
	rawData := Hex("9F66 04", "9F02 06", "5F2A 02")

	dol, err := ParseDOL(rawData)
	if err != nil {
		t.Fatalf("ParseDOL() error = %v", err)
	}

	want := []DOLField{
		{ID: ID(0x9F66), ExpectedLength: 4},
		{ID: ID(0x9F02), ExpectedLength: 6},
		{ID: ID(0x5F2A), ExpectedLength: 2},
	}
	if diff := cmp.Diff(want, dol.Fields); diff != "" {
		t.Errorf("Fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDOL_SkipsConstructedIDs(t *testing.T) {
	rawData := Hex("61 05", "88 01")

	dol, err := ParseDOL(rawData)
	if err != nil {
		t.Fatalf("ParseDOL() error = %v", err)
	}

	want := []DOLField{{ID: ShortFileIdentifier, ExpectedLength: 1}}
	if diff := cmp.Diff(want, dol.Fields); diff != "" {
		t.Errorf("Fields mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDOL_Truncated(t *testing.T) {
	if _, err := ParseDOL(Hex("9F02")); err == nil {
		t.Error("ParseDOL() should fail when the length byte is missing")
	}
	if _, err := ParseDOL(Hex("9F")); err == nil {
		t.Error("ParseDOL() should fail inside an identifier")
	}
}

func TestDOL_Encode(t *testing.T) {
	field := ID(0x9F02)

	tests := []struct {
		name   string
		expLen uint8
		value  Contents
		want   []byte
	}{
		{
			name:   "Numeric too short pads on the left",
			expLen: 2,
			value:  Number(0x05),
			want:   Hex("0005"),
		},
		{
			name:   "Non-numeric too short pads on the right",
			expLen: 2,
			value:  Byte(0x05),
			want:   Hex("0500"),
		},
		{
			name:   "Numeric too long keeps the trailing bytes",
			expLen: 2,
			value:  Number(0x01020304),
			want:   Hex("0304"),
		},
		{
			name:   "Non-numeric too long keeps the leading bytes",
			expLen: 2,
			value:  Bytes(Hex("01020304")),
			want:   Hex("0102"),
		},
		{
			name:   "Exact fit passes through",
			expLen: 4,
			value:  Bytes(Hex("DEADBEEF")),
			want:   Hex("DEADBEEF"),
		},
		{
			name:   "Text fits like raw bytes",
			expLen: 4,
			value:  Text("en"),
			want:   Hex("656E0000"),
		},
		{
			name:   "Unset field emits zero filler",
			expLen: 3,
			value:  nil,
			want:   Hex("000000"),
		},
		{
			name:   "Invalid emits zero filler",
			expLen: 3,
			value:  Invalid{},
			want:   Hex("000000"),
		},
		{
			name:   "Nested emits zero filler",
			expLen: 3,
			value:  Nested{{ID: ApplicationLabel, Contents: Text("x")}},
			want:   Hex("000000"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dol := &DOL{Fields: []DOLField{{ID: field, ExpectedLength: tt.expLen}}}
			if tt.value != nil {
				dol.Set(field, tt.value)
			}

			if got := dol.Encode(); !bytes.Equal(got, tt.want) {
				t.Errorf("Encode() = %X, want %X", got, tt.want)
			}
		})
	}
}

func TestDOL_EncodeLayout(t *testing.T) {
	// Field order and widths define the layout; values land in their slots.
	dol, err := ParseDOL(Hex("9F66 04", "5F2A 02"))
	if err != nil {
		t.Fatalf("ParseDOL() error = %v", err)
	}

	dol.Set(ID(0x5F2A), Number(0x0250))

	want := Hex("00000000", "0250")
	if got := dol.Encode(); !bytes.Equal(got, want) {
		t.Errorf("Encode() = %X, want %X", got, want)
	}
}
