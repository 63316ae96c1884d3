package tlv

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Hex builds a byte slice from hex fragments. Spaces are stripped, so
// inputs can be grouped for readability ("6F 0A 84 08 ..."). Intended for
// fixtures and examples; malformed input panics.
func Hex(parts ...string) []byte {
	joined := strings.ReplaceAll(strings.Join(parts, ""), " ", "")

	data, err := hex.DecodeString(joined)
	if err != nil {
		panic(fmt.Sprintf("invalid input '%s': %v", joined, err))
	}
	return data
}
