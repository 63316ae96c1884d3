package emv

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/gregLibert/emv-select/pkg/iso7816"
	"github.com/gregLibert/emv-select/pkg/tlv"
)

// APPLICATION DISCOVERY (EMV Book 1, PSE method):
//
// 1. SELECT the Payment System Environment "1PAY.SYS.DDF01". Its FCI
//    proprietary template carries the SFI of the payment system directory.
// 2. READ RECORD over that SFI with increasing record numbers. Every
//    record wraps zero or more application templates (tag 61) in a READ
//    RECORD response message template (tag 70). A status failure ends the
//    walk: it means "no more records", not a hard error.
// 3. Keep the templates whose ADF name matches an acceptable issuer
//    prefix, in encounter order, and decode them into Applications.
// 4. Resolve: sort candidates ascending by priority value. The best
//    candidate is taken without interaction when its priority indicator
//    allows auto-selection; otherwise candidates are offered to the
//    prompter in priority order and the first confirmed one wins.

// PSEName is the well-known DDF name of the contact Payment System
// Environment.
const PSEName = "1PAY.SYS.DDF01"

// DefaultAcceptablePrefixes lists the issuer identifiers accepted when no
// configuration overrides them.
var DefaultAcceptablePrefixes = [][]byte{
	{0xA0, 0x00, 0x00, 0x00, 0x04, 0x10, 0x10}, // Mastercard
	{0xA0, 0x00, 0x00, 0x00, 0x03, 0x10, 0x10}, // Visa
}

// defaultMaxRecords caps the directory walk for cards that never report
// "record not found". ISO 7816-4 record numbers are bounded well below it.
const defaultMaxRecords = 30

var (
	// ErrNoPSE indicates the card exposes no usable Payment System
	// Environment directory.
	ErrNoPSE = errors.New("payment system environment not available")

	// ErrNoApplication indicates the directory held no acceptable
	// application.
	ErrNoApplication = errors.New("no acceptable application found")

	// ErrSelectionDeclined indicates candidates exist but none was
	// confirmed for selection.
	ErrSelectionDeclined = errors.New("application selection declined")
)

// Prompter asks the cardholder a yes/no question.
type Prompter interface {
	Confirm(question string) bool
}

// SkippedCandidate records an application template that matched the
// acceptance list but could not be decoded.
type SkippedCandidate struct {
	ADFName []byte
	Err     error
}

// Discovery drives application discovery against one card. The zero values
// of the optional fields fall back to the package defaults.
type Discovery struct {
	Card     *Card
	Prompter Prompter

	// DecodeName resolves preferred names through their issuer code table.
	DecodeName CodeTableDecoder

	// AcceptablePrefixes filters candidate AIDs. An empty list accepts
	// every application.
	AcceptablePrefixes [][]byte

	// PSE overrides the directory name selected in step 1.
	PSE string

	// MaxRecords caps the record walk; zero means the default cap.
	MaxRecords byte

	skipped []SkippedCandidate
}

// NewDiscovery creates a Discovery with the default acceptance list.
func NewDiscovery(card *Card, prompter Prompter, decode CodeTableDecoder) *Discovery {
	return &Discovery{
		Card:               card,
		Prompter:           prompter,
		DecodeName:         decode,
		AcceptablePrefixes: DefaultAcceptablePrefixes,
	}
}

// Run executes the full discovery flow and returns the selected
// application.
func (d *Discovery) Run() (*Application, error) {
	sfi, err := d.DirectorySFI()
	if err != nil {
		return nil, err
	}

	candidates, err := d.Candidates(sfi)
	if err != nil {
		return nil, err
	}

	return d.Resolve(candidates)
}

// DirectorySFI selects the PSE and extracts the payment system directory's
// short file identifier from FCI template -> proprietary template -> SFI.
// Any missing level means the card offers no PSE directory.
func (d *Discovery) DirectorySFI() (byte, error) {
	list, err := d.Card.Select([]byte(d.pseName()), false)
	if err != nil {
		var statusErr *iso7816.StatusError
		if errors.As(err, &statusErr) {
			return 0, fmt.Errorf("%w: %v", ErrNoPSE, err)
		}
		return 0, err
	}

	fci := list.Get(tlv.FileControlInformationTemplate)
	if fci == nil {
		return 0, fmt.Errorf("%w: no FCI template in SELECT response", ErrNoPSE)
	}

	proprietary := fci.Get(tlv.FileControlInformationProprietaryTemplate)
	if proprietary == nil {
		return 0, fmt.Errorf("%w: no FCI proprietary template", ErrNoPSE)
	}

	sfiTag := proprietary.Get(tlv.ShortFileIdentifier)
	if sfiTag == nil {
		return 0, fmt.Errorf("%w: no short file identifier", ErrNoPSE)
	}

	sfi, ok := sfiTag.Contents.(tlv.Byte)
	if !ok {
		return 0, fmt.Errorf("%w: malformed short file identifier", ErrNoPSE)
	}
	return byte(sfi), nil
}

// Candidates walks the directory records and returns the acceptable,
// successfully decoded applications in encounter order. Candidates that
// match the acceptance list but fail to decode are skipped and reported
// through Skipped.
func (d *Discovery) Candidates(sfi byte) ([]*Application, error) {
	d.skipped = nil

	var candidates []*Application

	for recordNumber := byte(1); recordNumber <= d.maxRecords(); recordNumber++ {
		list, err := d.Card.ReadRecord(sfi, recordNumber)
		if err != nil {
			var statusErr *iso7816.StatusError
			if errors.As(err, &statusErr) {
				// End of the directory, not a failure.
				break
			}
			return nil, err
		}

		record := list.Get(tlv.ReadRecordResponseMessageTemplate)
		if record == nil {
			continue
		}

		for _, template := range record.GetAll(tlv.ApplicationTemplate) {
			adf := templateADFName(&template)
			if adf == nil || !d.acceptable(adf) {
				continue
			}

			app, err := DecodeApplication(&template, d.DecodeName)
			if err != nil {
				d.skipped = append(d.skipped, SkippedCandidate{
					ADFName: append([]byte(nil), adf...),
					Err:     err,
				})
				continue
			}
			candidates = append(candidates, app)
		}
	}

	return candidates, nil
}

// Resolve picks one application from the candidate list, prompting the
// cardholder when the priority indicator demands it.
func (d *Discovery) Resolve(candidates []*Application) (*Application, error) {
	if len(candidates) == 0 {
		return nil, ErrNoApplication
	}

	// Ascending priority value; wire order breaks ties.
	sorted := append([]*Application(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Priority < sorted[j].Priority.Priority
	})

	if sorted[0].Priority.AutoSelectionAllowed {
		return sorted[0], nil
	}

	if d.Prompter == nil {
		return nil, ErrSelectionDeclined
	}
	for _, app := range sorted {
		if d.Prompter.Confirm(fmt.Sprintf("Use application %s?", app)) {
			return app, nil
		}
	}
	return nil, ErrSelectionDeclined
}

// Skipped reports the candidates the last Candidates walk had to skip.
func (d *Discovery) Skipped() []SkippedCandidate {
	return d.skipped
}

func (d *Discovery) pseName() string {
	if d.PSE != "" {
		return d.PSE
	}
	return PSEName
}

func (d *Discovery) maxRecords() byte {
	if d.MaxRecords != 0 {
		return d.MaxRecords
	}
	return defaultMaxRecords
}

func (d *Discovery) acceptable(adf []byte) bool {
	if len(d.AcceptablePrefixes) == 0 {
		return true
	}
	for _, prefix := range d.AcceptablePrefixes {
		if bytes.HasPrefix(adf, prefix) {
			return true
		}
	}
	return false
}

func templateADFName(template *tlv.Tag) []byte {
	adfTag := template.Get(tlv.ApplicationDedicatedFileName)
	if adfTag == nil {
		return nil
	}
	adf, ok := adfTag.Contents.(tlv.Bytes)
	if !ok {
		return nil
	}
	return adf
}
