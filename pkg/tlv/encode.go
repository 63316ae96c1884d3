package tlv

// BER-TLV ENCODING:
//
// Encoding is the inverse of decoding. Each tag emits:
//   - the identifier, re-encoded to its minimal big-endian byte sequence
//     (leading zero bytes stripped, at least one byte),
//   - the length, short form when <= 127, otherwise a count byte with the
//     high bit set followed by the minimal big-endian length bytes,
//   - the content bytes.
//
// Round-trip guarantee: re-encoding a decoded TagList reproduces the input
// byte-for-byte whenever the input used minimal tag and length encodings.
// Inputs with redundant encodings round-trip semantically only.

// Encode serializes the list back to BER-TLV wire bytes.
func (l TagList) Encode() []byte {
	var out []byte

	for _, tag := range l {
		content := contentBytes(tag.Contents)
		out = append(out, tag.ID.Bytes()...)
		out = append(out, encodeLength(len(content))...)
		out = append(out, content...)
	}

	return out
}

// Encode serializes a single tag.
func (t Tag) Encode() []byte {
	return TagList{t}.Encode()
}

func encodeLength(n int) []byte {
	if n <= 0b0111_1111 {
		return []byte{byte(n)}
	}

	octets := minimalBytes(uint64(n))
	out := make([]byte, 0, len(octets)+1)
	out = append(out, 0b1000_0000|byte(len(octets)))
	return append(out, octets...)
}
