// Package codetable decodes text encoded with an EMV issuer code table.
//
// The Issuer Code Table Index (tag 9F11) names the ISO/IEC 8859 part the
// Application Preferred Name (tag 9F12) is encoded with. EMV Book 1 allows
// parts 1-8, 10 and 13-16; the remaining indexes are reserved.
package codetable

import (
	"golang.org/x/text/encoding/charmap"
)

var tables = map[byte]*charmap.Charmap{
	1:  charmap.ISO8859_1,
	2:  charmap.ISO8859_2,
	3:  charmap.ISO8859_3,
	4:  charmap.ISO8859_4,
	5:  charmap.ISO8859_5,
	6:  charmap.ISO8859_6,
	7:  charmap.ISO8859_7,
	8:  charmap.ISO8859_8,
	10: charmap.ISO8859_10,
	13: charmap.ISO8859_13,
	14: charmap.ISO8859_14,
	15: charmap.ISO8859_15,
	16: charmap.ISO8859_16,
}

// Decode interprets data according to the given code table index. It
// reports false for reserved or unassigned indexes.
func Decode(data []byte, index byte) (string, bool) {
	table, ok := tables[index]
	if !ok {
		return "", false
	}

	decoded, err := table.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

// Supported reports whether the index names a known code table.
func Supported(index byte) bool {
	_, ok := tables[index]
	return ok
}
