/*
Package tlv implements the BER-TLV (Basic Encoding Rules Tag-Length-Value)
codec used by EMV payment applications, together with the Data Object List
(DOL) codec that drives parameterized card commands.

# Wire format

Every data object is a triplet:

  - Tag: 1..n bytes. If the low 5 bits of the first byte are all set, the
    identifier continues into the following bytes; each continuation byte's
    high bit announces another byte after it.
  - Length: 1 byte short form (0-127), or a count byte with the high bit set
    followed by that many big-endian length octets (long form).
  - Value: exactly Length content bytes.

A tag whose leading identifier byte has bit 6 (0x20) set is CONSTRUCTED: its
value is itself a sequence of TLV objects and is decoded recursively into a
nested TagList. All other tags are PRIMITIVE and decode into one of the leaf
Contents kinds according to the tag identity (text, single byte, raw bytes).

# Data Object Lists

A DOL is a degenerate TLV stream: repeated (tag, expected-length) pairs with
no values. The card publishes a DOL (e.g. the PDOL, tag 9F38) to describe
the layout of data it wants back; the terminal answers with a fixed-width
concatenation of values fitted to the declared lengths. See DOL.

# Decoding example

	list, err := tlv.Decode(raw)
	if err != nil {
	    log.Fatal(err)
	}
	if fci := list.Get(tlv.FileControlInformationTemplate); fci != nil {
	    fmt.Println(fci.Describe())
	}
*/
package tlv
