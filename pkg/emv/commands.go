package emv

import (
	"fmt"

	"github.com/gregLibert/emv-select/pkg/bits"
	"github.com/gregLibert/emv-select/pkg/iso7816"
	"github.com/gregLibert/emv-select/pkg/tlv"
)

// CARD COMMAND LAYER:
// Three protocol operations cover everything application discovery needs.
// Each builds the appropriate command APDU, runs it through the transport
// client, and decodes the returned payload into a tag tree.
//
//   SELECT          00 A4 04 P2 <name> 00      (P2 = 02 for "next occurrence")
//   READ RECORD     00 B2 <rec> <sfi ref> 00   (ref = sfi<<3 | 100b)
//   GPO             80 A8 00 00 <pdol data> 00 (proprietary class)

// Card exposes the EMV command set over an APDU transport.
type Card struct {
	client *iso7816.Client

	interindustry iso7816.Class
	proprietary   iso7816.Class
}

// NewCard wraps a physical card connection.
func NewCard(conn iso7816.Transmitter) *Card {
	interindustry, _ := iso7816.NewClass(0x00)
	proprietary, _ := iso7816.NewClass(0x80)

	return &Card{
		client:        iso7816.NewClient(conn),
		interindustry: interindustry,
		proprietary:   proprietary,
	}
}

// Select selects a file or application by name (DF name or AID) and decodes
// the returned FCI. With next set, the card selects the next occurrence of
// the same name instead of the first.
func (c *Card) Select(name []byte, next bool) (tlv.TagList, error) {
	p2 := byte(0x00)
	if next {
		p2 |= 0b10
	}

	cmd := iso7816.NewCommandAPDU(c.interindustry, iso7816.INS_SELECT, 0b0000_0100, p2, name, 0)

	res, err := c.client.Send(cmd)
	if err != nil {
		return nil, fmt.Errorf("SELECT %X: %w", name, err)
	}

	list, err := tlv.Decode(res.Data)
	if err != nil {
		return nil, fmt.Errorf("SELECT %X: decoding response: %w", name, err)
	}
	return list, nil
}

// ReadRecord reads one record of the file designated by its short file
// identifier and decodes it.
func (c *Card) ReadRecord(sfi, recordNumber byte) (tlv.TagList, error) {
	// P2: SFI on bits 8-4, '100' on bits 3-1 (reference by record number).
	p2 := bits.GetRange(sfi, 5, 1)<<3 | 0b100

	cmd := iso7816.NewCommandAPDU(c.interindustry, iso7816.INS_READ_RECORD, recordNumber, p2, nil, 0)

	res, err := c.client.Send(cmd)
	if err != nil {
		return nil, fmt.Errorf("READ RECORD %d/%d: %w", sfi, recordNumber, err)
	}

	list, err := tlv.Decode(res.Data)
	if err != nil {
		return nil, fmt.Errorf("READ RECORD %d/%d: decoding response: %w", sfi, recordNumber, err)
	}
	return list, nil
}

// GetProcessingOptions initiates a transaction with the currently selected
// application. pdolData is the command template payload (tag 83) built from
// the application's PDOL.
func (c *Card) GetProcessingOptions(pdolData []byte) (tlv.TagList, error) {
	cmd := iso7816.NewCommandAPDU(c.proprietary, iso7816.INS_GET_PROCESSING_OPTS, 0x00, 0x00, pdolData, 0)

	res, err := c.client.Send(cmd)
	if err != nil {
		return nil, fmt.Errorf("GET PROCESSING OPTIONS: %w", err)
	}

	list, err := tlv.Decode(res.Data)
	if err != nil {
		return nil, fmt.Errorf("GET PROCESSING OPTIONS: decoding response: %w", err)
	}
	return list, nil
}

// InitiateTransaction selects the application and issues GET PROCESSING
// OPTIONS with a command template shaped by the application's PDOL. Fields
// requested by the PDOL are zero-filled: supplying terminal data is kernel
// territory and out of scope here. It returns the card's processing
// options response.
func (c *Card) InitiateTransaction(app *Application) (tlv.TagList, error) {
	fci, err := c.Select(app.ADFName, false)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if pdolTag := findPDOL(fci); pdolTag != nil {
		if raw, ok := pdolTag.Contents.(tlv.Bytes); ok {
			dol, err := tlv.ParseDOL(raw)
			if err != nil {
				return nil, fmt.Errorf("parsing PDOL: %w", err)
			}
			payload = dol.Encode()
		}
	}

	template := tlv.Tag{ID: tlv.CommandTemplate, Contents: tlv.Bytes(payload)}
	return c.GetProcessingOptions(template.Encode())
}

func findPDOL(fci tlv.TagList) *tlv.Tag {
	template := fci.Get(tlv.FileControlInformationTemplate)
	if template == nil {
		return nil
	}
	proprietary := template.Get(tlv.FileControlInformationProprietaryTemplate)
	if proprietary == nil {
		return nil
	}
	return proprietary.Get(tlv.ProcessingOptionsDataObjectList)
}
