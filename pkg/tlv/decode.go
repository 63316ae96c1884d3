package tlv

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// BER-TLV DECODING:
//
// 1. Tag identifier:
//    Read one byte. If its low 5 bits are all set ('11111'), the identifier
//    uses high-tag-number form: keep reading bytes, shifting the accumulated
//    identifier left by 8 each time, while the byte just read has its high
//    bit (the continuation flag) set.
//
// 2. Length:
//    Read one byte. High bit clear: that byte is the length (short form,
//    0-127). High bit set: the low 7 bits count subsequent octets, which are
//    accumulated big-endian into the length (long form).
//
// 3. Value:
//    Exactly Length bytes. Running out of input anywhere above is a
//    truncation error; there is no other validation.
//
// Decoding repeats until the input is exhausted, so a buffer is either fully
// consumed or the decode fails.

// ErrTruncated is returned when the decoder needs a byte that is not there.
var ErrTruncated = errors.New("tlv: unexpected end of input")

// textIDs lists the tags whose primitive contents decode as UTF-8 text.
var textIDs = map[ID]bool{
	LanguagePreference: true,
	ApplicationLabel:   true,
}

// byteIDs lists the tags whose primitive contents carry one-byte semantics.
var byteIDs = map[ID]bool{
	ShortFileIdentifier:          true,
	ApplicationPriorityIndicator: true,
	IssuerCodeTableIndex:         true,
}

// Decode parses a byte sequence into a TagList, consuming the entire input.
func Decode(data []byte) (TagList, error) {
	r := &reader{buf: data}

	var out TagList
	for !r.empty() {
		tag, err := readTag(r)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}

	return out, nil
}

func readTag(r *reader) (Tag, error) {
	id, err := readID(r)
	if err != nil {
		return Tag{}, err
	}

	length, err := readLength(r)
	if err != nil {
		return Tag{}, err
	}

	content, err := r.take(length)
	if err != nil {
		return Tag{}, fmt.Errorf("tag %s: %w", id, err)
	}

	if id.Constructed() {
		children, err := Decode(content)
		if err != nil {
			return Tag{}, fmt.Errorf("tag %s: %w", id, err)
		}
		return Tag{ID: id, Contents: Nested(children)}, nil
	}

	return Tag{ID: id, Contents: makePrimitive(id, content)}, nil
}

func readID(r *reader) (ID, error) {
	b, err := r.byte()
	if err != nil {
		return 0, err
	}
	id := uint32(b)

	// Low 5 bits all set: high-tag-number form, identifier continues.
	if b&0b11111 == 0b11111 {
		for {
			next, err := r.byte()
			if err != nil {
				return 0, err
			}
			id = id<<8 | uint32(next)

			if next&0b1000_0000 == 0 {
				break
			}
		}
	}

	return ID(id), nil
}

func readLength(r *reader) (int, error) {
	b, err := r.byte()
	if err != nil {
		return 0, err
	}

	// Short form: the byte is the length.
	if b&0b1000_0000 == 0 {
		return int(b), nil
	}

	// Long form: low 7 bits count the big-endian length octets.
	numOctets := int(b & 0b0111_1111)
	length := 0
	for i := 0; i < numOctets; i++ {
		octet, err := r.byte()
		if err != nil {
			return 0, err
		}
		length = length<<8 | int(octet)
	}

	return length, nil
}

// makePrimitive interprets primitive content according to the tag identity.
func makePrimitive(id ID, content []byte) Contents {
	switch {
	case textIDs[id]:
		if !utf8.Valid(content) {
			return Invalid{}
		}
		return Text(content)
	case byteIDs[id]:
		if len(content) == 0 {
			return Invalid{}
		}
		return Byte(content[0])
	default:
		return Bytes(append([]byte(nil), content...))
	}
}

// reader is a byte cursor over the input buffer. Every starved read reports
// ErrTruncated.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) empty() bool {
	return r.pos >= len(r.buf)
}

func (r *reader) byte() (byte, error) {
	if r.empty() {
		return 0, ErrTruncated
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) take(n int) ([]byte, error) {
	// Compare against the remaining bytes; adding n to the cursor first
	// could overflow on an absurd long-form length.
	if n < 0 || n > len(r.buf)-r.pos {
		return nil, ErrTruncated
	}
	out := r.buf[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}
