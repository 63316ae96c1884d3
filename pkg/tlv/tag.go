package tlv

import "fmt"

// ID is a BER-TLV tag identifier. Multi-byte identifiers are stored as the
// big-endian accumulation of their wire bytes, so tag '9F12' is ID(0x9F12).
// Identifiers not covered by the named constants are still valid IDs; they
// simply have no registered name.
type ID uint32

// Tag identifiers defined by EMV Book 3 that this client understands.
const (
	IssuerIdentificationNumber                    ID = 0x42
	ApplicationDedicatedFileName                  ID = 0x4F
	ApplicationLabel                              ID = 0x50
	LanguagePreference                            ID = 0x5F2D
	IssuerURL                                     ID = 0x5F50
	InternationalBankAccountNumber                ID = 0x5F53
	BankIdentifierCode                            ID = 0x5F54
	IssuerCountryCodeAlpha2                       ID = 0x5F55
	IssuerCountryCodeAlpha3                       ID = 0x5F56
	ApplicationTemplate                           ID = 0x61
	FileControlInformationTemplate                ID = 0x6F
	ReadRecordResponseMessageTemplate             ID = 0x70
	DirectoryDiscretionaryTemplate                ID = 0x73
	CommandTemplate                               ID = 0x83
	DedicatedFileName                             ID = 0x84
	ApplicationPriorityIndicator                  ID = 0x87
	ShortFileIdentifier                           ID = 0x88
	DirectoryDefinitionFileName                   ID = 0x9D
	ApplicationIdentifier                         ID = 0x9F06
	IssuerCodeTableIndex                          ID = 0x9F11
	ApplicationPreferredName                      ID = 0x9F12
	ProcessingOptionsDataObjectList               ID = 0x9F38
	LogEntry                                      ID = 0x9F4D
	FileControlInformationProprietaryTemplate     ID = 0xA5
	FileControlInformationIssuerDiscretionaryData ID = 0xBF0C
)

var idNames = map[ID]string{
	IssuerIdentificationNumber:                    "Issuer Identification Number",
	ApplicationDedicatedFileName:                  "Application Dedicated File (ADF) Name",
	ApplicationLabel:                              "Application Label",
	LanguagePreference:                            "Language Preference",
	IssuerURL:                                     "Issuer URL",
	InternationalBankAccountNumber:                "International Bank Account Number",
	BankIdentifierCode:                            "Bank Identifier Code",
	IssuerCountryCodeAlpha2:                       "Issuer Country Code (alpha2)",
	IssuerCountryCodeAlpha3:                       "Issuer Country Code (alpha3)",
	ApplicationTemplate:                           "Application Template",
	FileControlInformationTemplate:                "FCI Template",
	ReadRecordResponseMessageTemplate:             "READ RECORD Response Message Template",
	DirectoryDiscretionaryTemplate:                "Directory Discretionary Template",
	CommandTemplate:                               "Command Template",
	DedicatedFileName:                             "Dedicated File (DF) Name",
	ApplicationPriorityIndicator:                  "Application Priority Indicator",
	ShortFileIdentifier:                           "Short File Identifier (SFI)",
	DirectoryDefinitionFileName:                   "Directory Definition File (DDF) Name",
	ApplicationIdentifier:                         "Application Identifier (AID)",
	IssuerCodeTableIndex:                          "Issuer Code Table Index",
	ApplicationPreferredName:                      "Application Preferred Name",
	ProcessingOptionsDataObjectList:               "Processing Options Data Object List (PDOL)",
	LogEntry:                                      "Log Entry",
	FileControlInformationProprietaryTemplate:     "FCI Proprietary Template",
	FileControlInformationIssuerDiscretionaryData: "FCI Issuer Discretionary Data",
}

// Known reports whether the identifier has a registered name.
func (id ID) Known() bool {
	_, ok := idNames[id]
	return ok
}

// String returns the registered tag name, or the hex identifier for
// unregistered tags.
func (id ID) String() string {
	if name, ok := idNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Tag (0x%X)", uint32(id))
}

// Constructed reports whether the identifier denotes a constructed data
// object. Bit 6 (0x20) of the leading identifier byte carries the
// primitive/constructed flag.
func (id ID) Constructed() bool {
	v := uint32(id)
	for v > 0xFF {
		v >>= 8
	}
	return v&0x20 != 0
}

// Bytes returns the identifier's minimal big-endian wire encoding. The all
// zero identifier still encodes to a single byte.
func (id ID) Bytes() []byte {
	return minimalBytes(uint64(id))
}

// minimalBytes strips leading zero bytes from the big-endian encoding of v,
// always keeping at least one byte.
func minimalBytes(v uint64) []byte {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = byte(v >> (56 - 8*i))
	}
	for len(out) > 1 && out[0] == 0 {
		out = out[1:]
	}
	return out
}

// Tag is a single decoded data object: an identifier and its contents.
// A Tag is immutable once parsed.
type Tag struct {
	ID       ID
	Contents Contents
}

// Get searches the tag's nested contents for the first child with the given
// identifier. It returns nil when the tag is primitive or no child matches.
func (t *Tag) Get(id ID) *Tag {
	nested, ok := t.Contents.(Nested)
	if !ok {
		return nil
	}
	return TagList(nested).Get(id)
}

// GetAll returns every direct child with the given identifier, in wire
// order. It returns nil when the tag is primitive.
func (t *Tag) GetAll(id ID) []Tag {
	nested, ok := t.Contents.(Nested)
	if !ok {
		return nil
	}
	return TagList(nested).GetAll(id)
}

// TagList is an ordered sequence of tags. The order is the wire encounter
// order and is preserved on re-encode. Identifiers are not required to be
// unique within a list.
type TagList []Tag

// Get returns the first tag with the given identifier, or nil.
func (l TagList) Get(id ID) *Tag {
	for i := range l {
		if l[i].ID == id {
			return &l[i]
		}
	}
	return nil
}

// GetAll returns every tag with the given identifier, in wire order.
func (l TagList) GetAll(id ID) []Tag {
	var tags []Tag
	for _, tag := range l {
		if tag.ID == id {
			tags = append(tags, tag)
		}
	}
	return tags
}
