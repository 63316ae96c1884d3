package emv

import (
	"errors"
	"fmt"

	"github.com/gregLibert/emv-select/pkg/bits"
	"github.com/gregLibert/emv-select/pkg/tlv"
)

// APPLICATION MODEL:
// An application template (tag 61) from a PSE directory record describes
// one selectable payment application. Decoding it requires:
//
//   - A display name. The Application Preferred Name (9F12) together with
//     the Issuer Code Table Index (9F11) takes precedence; the Application
//     Label (50, plain UTF-8 text) is the fallback.
//   - The Application Priority Indicator (87): bit 8 clear means the
//     application may be selected without cardholder confirmation; the low
//     nibble is the priority value (lower = preferred).
//   - The ADF name (4F), i.e. the AID the application is selected by.

var (
	// ErrNoName is returned when neither name source yields a usable name.
	ErrNoName = errors.New("no application name")

	// ErrNoPriority is returned when the priority indicator tag is missing
	// or malformed.
	ErrNoPriority = errors.New("no application priority indicator")

	// ErrNoADFName is returned when the ADF name tag is missing.
	ErrNoADFName = errors.New("no ADF name")
)

// CodeTableDecoder decodes bytes according to an EMV issuer code table
// index, reporting false for unsupported indexes.
type CodeTableDecoder func(data []byte, index byte) (string, bool)

// PriorityIndicator is the decoded Application Priority Indicator byte.
type PriorityIndicator struct {
	AutoSelectionAllowed bool
	Priority             uint8
}

// ParsePriorityIndicator decodes tag 87. Bit 8 clear allows selection
// without confirmation; bits 4-1 carry the priority value.
func ParsePriorityIndicator(tag *tlv.Tag) (PriorityIndicator, error) {
	if tag == nil {
		return PriorityIndicator{}, ErrNoPriority
	}
	b, ok := tag.Contents.(tlv.Byte)
	if !ok {
		return PriorityIndicator{}, fmt.Errorf("%w: not a byte value", ErrNoPriority)
	}

	return PriorityIndicator{
		AutoSelectionAllowed: !bits.IsSet(byte(b), 8),
		Priority:             bits.GetRange(byte(b), 4, 1),
	}, nil
}

func (p PriorityIndicator) String() string {
	mode := "confirmation required"
	if p.AutoSelectionAllowed {
		mode = "auto-selection allowed"
	}
	return fmt.Sprintf("priority %d (%s)", p.Priority, mode)
}

// Application is a selectable payment application advertised by the card.
type Application struct {
	Name     string
	ADFName  []byte
	Priority PriorityIndicator
}

// DecodeApplication decodes an application template subtree into an
// Application. decode resolves preferred names through their issuer code
// table; when nil, the preferred-name path is skipped entirely.
func DecodeApplication(template *tlv.Tag, decode CodeTableDecoder) (*Application, error) {
	name, ok := applicationName(template, decode)
	if !ok {
		return nil, ErrNoName
	}

	priority, err := ParsePriorityIndicator(template.Get(tlv.ApplicationPriorityIndicator))
	if err != nil {
		return nil, err
	}

	adfTag := template.Get(tlv.ApplicationDedicatedFileName)
	if adfTag == nil {
		return nil, ErrNoADFName
	}
	adf, ok := adfTag.Contents.(tlv.Bytes)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected contents", ErrNoADFName)
	}

	return &Application{
		Name:     name,
		ADFName:  append([]byte(nil), adf...),
		Priority: priority,
	}, nil
}

// applicationName prefers the code-table-encoded preferred name and falls
// back to the UTF-8 application label.
func applicationName(template *tlv.Tag, decode CodeTableDecoder) (string, bool) {
	preferred := template.Get(tlv.ApplicationPreferredName)
	index := template.Get(tlv.IssuerCodeTableIndex)

	if preferred != nil && index != nil && decode != nil {
		raw, rawOK := preferred.Contents.(tlv.Bytes)
		idx, idxOK := index.Contents.(tlv.Byte)
		if rawOK && idxOK {
			if name, ok := decode(raw, byte(idx)); ok {
				return name, true
			}
		}
	}

	if label := template.Get(tlv.ApplicationLabel); label != nil {
		if text, ok := label.Contents.(tlv.Text); ok {
			return string(text), true
		}
	}

	return "", false
}

func (a *Application) String() string {
	return fmt.Sprintf("%s (AID %X, %s)", a.Name, a.ADFName, a.Priority)
}
