package codetable

import "testing"

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		index byte
		want  string
		ok    bool
	}{
		{
			name:  "Plain ASCII through Latin-1",
			data:  []byte("CB Visa"),
			index: 1,
			want:  "CB Visa",
			ok:    true,
		},
		{
			name:  "Latin-1 high byte",
			data:  []byte{0xC9, 0x70, 0x61, 0x72, 0x67, 0x6E, 0x65}, // "Épargne"
			index: 1,
			want:  "Épargne",
			ok:    true,
		},
		{
			name:  "Latin-9 euro sign",
			data:  []byte{0xA4},
			index: 15,
			want:  "€",
			ok:    true,
		},
		{
			name:  "Reserved index 9",
			data:  []byte("x"),
			index: 9,
			ok:    false,
		},
		{
			name:  "Reserved index 0",
			data:  []byte("x"),
			index: 0,
			ok:    false,
		},
		{
			name:  "Out-of-range index",
			data:  []byte("x"),
			index: 42,
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(tt.data, tt.index)
			if ok != tt.ok {
				t.Fatalf("Decode() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	for _, index := range []byte{1, 2, 3, 4, 5, 6, 7, 8, 10, 13, 14, 15, 16} {
		if !Supported(index) {
			t.Errorf("Supported(%d) = false, want true", index)
		}
	}
	for _, index := range []byte{0, 9, 11, 12, 17} {
		if Supported(index) {
			t.Errorf("Supported(%d) = true, want false", index)
		}
	}
}
