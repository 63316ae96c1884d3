package tlv

// DATA OBJECT LIST (DOL) LOGIC:
//
// A DOL describes the shape of a payload without carrying values: it is a
// sequence of (tag identifier, 1-byte expected length) pairs. The card uses
// it (e.g. as the PDOL, tag 9F38) to tell the terminal which data elements a
// follow-up command must include and how wide each slot is.
//
// Encoding a DOL produces a fixed-width byte string: each field's assigned
// value is flattened to bytes and fitted to the declared length. Numeric
// values are fitted magnitude-preserving (zero bytes prepended, excess head
// dropped); everything else is fitted layout-preserving (zero bytes
// appended, excess tail dropped). Unassigned fields emit zero filler.

// DOLField describes one slot of a Data Object List.
type DOLField struct {
	ID             ID
	ExpectedLength uint8
}

// DOL is an ordered Data Object List plus the values assigned to its fields
// for encoding.
type DOL struct {
	Fields []DOLField

	values map[ID]Contents
}

// ParseDOL reads repeated (tag identifier, expected length) pairs until the
// input is exhausted. Constructed identifiers describe no data element and
// are skipped. No content bytes are consumed: DOL entries carry no values.
func ParseDOL(data []byte) (*DOL, error) {
	r := &reader{buf: data}
	out := &DOL{}

	for !r.empty() {
		id, err := readID(r)
		if err != nil {
			return nil, err
		}
		length, err := r.byte()
		if err != nil {
			return nil, err
		}

		if id.Constructed() {
			continue
		}
		out.Fields = append(out.Fields, DOLField{ID: id, ExpectedLength: length})
	}

	return out, nil
}

// Set assigns a value to every field with the given identifier. Values are
// only consulted at encode time.
func (d *DOL) Set(id ID, c Contents) {
	if d.values == nil {
		d.values = make(map[ID]Contents)
	}
	d.values[id] = c
}

// Encode produces the fixed-width payload described by the list. Fields
// with no assigned value, or assigned Invalid or Nested contents, emit zero
// bytes of their declared length.
func (d *DOL) Encode() []byte {
	var out []byte

	for _, field := range d.Fields {
		value, ok := d.values[field.ID]
		if !ok {
			value = Invalid{}
		}

		switch v := value.(type) {
		case Invalid, Nested:
			out = append(out, make([]byte, int(field.ExpectedLength))...)
		case Number:
			out = append(out, fitBytes(contentBytes(v), int(field.ExpectedLength), true)...)
		default:
			out = append(out, fitBytes(contentBytes(v), int(field.ExpectedLength), false)...)
		}
	}

	return out
}

// fitBytes adjusts value to exactly expLen bytes. Numeric values keep their
// low-order magnitude: zeros are prepended and excess leading bytes are
// dropped. Non-numeric values keep their leading layout: zeros are appended
// and excess trailing bytes are dropped.
func fitBytes(value []byte, expLen int, numeric bool) []byte {
	switch {
	case len(value) == expLen:
		return value
	case len(value) < expLen:
		filler := make([]byte, expLen-len(value))
		if numeric {
			return append(filler, value...)
		}
		return append(append([]byte(nil), value...), filler...)
	default:
		if numeric {
			return value[len(value)-expLen:]
		}
		return value[:expLen]
	}
}
