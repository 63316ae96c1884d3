package tlv

import "encoding/binary"

// Contents is the closed set of value kinds a tag can carry. Decoding only
// ever produces Text, Bytes, Byte, Invalid, or Nested; Number exists for
// building requests and never arises from the wire. Consumers are expected
// to switch exhaustively over these kinds.
type Contents interface {
	isContents()
}

// Invalid marks contents that could not be interpreted (e.g. a textual tag
// whose bytes are not valid UTF-8). In a DOL it encodes as zero filler.
type Invalid struct{}

// Text is a decoded UTF-8 string value.
type Text string

// Bytes is an uninterpreted raw value.
type Bytes []byte

// Byte is a single-byte value, used by tags with one-byte semantics such as
// the short file identifier or the application priority indicator.
type Byte uint8

// Number is a constructed numeric value. It encodes as 4 big-endian bytes
// and obeys numeric padding rules inside a DOL.
type Number uint32

// Nested holds a fully parsed sub-tree. Children are decoded eagerly; a
// Nested value never contains raw undecoded bytes.
type Nested TagList

func (Invalid) isContents() {}
func (Text) isContents()    {}
func (Bytes) isContents()   {}
func (Byte) isContents()    {}
func (Number) isContents()  {}
func (Nested) isContents()  {}

// contentBytes flattens contents to their wire value bytes.
func contentBytes(c Contents) []byte {
	switch v := c.(type) {
	case Invalid:
		return nil
	case Text:
		return []byte(v)
	case Bytes:
		return v
	case Byte:
		return []byte{byte(v)}
	case Number:
		out := make([]byte, 4)
		binary.BigEndian.PutUint32(out, uint32(v))
		return out
	case Nested:
		return TagList(v).Encode()
	}
	return nil
}
