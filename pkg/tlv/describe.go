package tlv

import (
	"fmt"
	"strings"
)

// Describe generates an indented, human-readable report of the tag tree,
// one line per tag, with nested templates shown as sub-blocks.
func (l TagList) Describe() string {
	var sb strings.Builder
	writeList(&sb, l, 0)
	return strings.TrimRight(sb.String(), "\n")
}

// Describe generates the report for a single tag subtree.
func (t Tag) Describe() string {
	return TagList{t}.Describe()
}

func writeList(sb *strings.Builder, l TagList, depth int) {
	indent := strings.Repeat("    ", depth)

	for _, tag := range l {
		header := fmt.Sprintf("%s- [%X] %s", indent, uint32(tag.ID), tag.ID)

		switch v := tag.Contents.(type) {
		case Nested:
			sb.WriteString(header + "\n")
			writeList(sb, TagList(v), depth+1)
		case Text:
			sb.WriteString(fmt.Sprintf("%s: %q\n", header, string(v)))
		case Byte:
			sb.WriteString(fmt.Sprintf("%s: 0x%02X (%d)\n", header, byte(v), v))
		case Number:
			sb.WriteString(fmt.Sprintf("%s: %d\n", header, uint32(v)))
		case Bytes:
			sb.WriteString(fmt.Sprintf("%s: %X (%q)\n", header, []byte(v), MakeSafeASCII(v)))
		case Invalid:
			sb.WriteString(header + ": <invalid>\n")
		}
	}
}

// MakeSafeASCII replaces non-printable bytes with dots for display.
func MakeSafeASCII(data []byte) string {
	return strings.Map(func(r rune) rune {
		if r >= 32 && r <= 126 {
			return r
		}
		return '.'
	}, string(data))
}
