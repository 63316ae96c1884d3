package emv

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gregLibert/emv-select/pkg/iso7816"
	"github.com/gregLibert/emv-select/pkg/tlv"
)

// scriptedCard replays canned responses and records every command it
// receives, so tests can check exact wire bytes.
type scriptedCard struct {
	responses [][]byte
	sent      [][]byte
}

func (c *scriptedCard) Transmit(cmd []byte) ([]byte, error) {
	c.sent = append(c.sent, append([]byte(nil), cmd...))
	if len(c.responses) == 0 {
		return nil, fmt.Errorf("unexpected command %X", cmd)
	}
	res := c.responses[0]
	c.responses = c.responses[1:]
	return res, nil
}

type brokenCard struct{ err error }

func (c *brokenCard) Transmit(cmd []byte) ([]byte, error) {
	return nil, c.err
}

// ok frames a response payload with a success status word.
func ok(data []byte) []byte {
	return append(append([]byte(nil), data...), 0x90, 0x00)
}

func TestSelect(t *testing.T) {
	fci := tlv.TagList{
		{ID: tlv.FileControlInformationTemplate, Contents: tlv.Nested{
			{ID: tlv.DedicatedFileName, Contents: tlv.Bytes(PSEName)},
		}},
	}

	tests := []struct {
		name            string
		next            bool
		expectedCommand []byte
	}{
		{
			name:            "First occurrence",
			next:            false,
			expectedCommand: tlv.Hex("00 A4 04 00 0E 315041592E5359532E4444463031 00"),
		},
		{
			name:            "Next occurrence",
			next:            true,
			expectedCommand: tlv.Hex("00 A4 04 02 0E 315041592E5359532E4444463031 00"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conn := &scriptedCard{responses: [][]byte{ok(fci.Encode())}}
			card := NewCard(conn)

			list, err := card.Select([]byte(PSEName), tc.next)
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}

			if diff := cmp.Diff(tc.expectedCommand, conn.sent[0]); diff != "" {
				t.Errorf("unexpected command (-expected +got):\n%s", diff)
			}
			if diff := cmp.Diff(fci, list); diff != "" {
				t.Errorf("unexpected FCI (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestSelect_NotFound(t *testing.T) {
	conn := &scriptedCard{responses: [][]byte{{0x6A, 0x82}}}
	card := NewCard(conn)

	_, err := card.Select([]byte(PSEName), false)
	if !errors.Is(err, iso7816.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReadRecord(t *testing.T) {
	record := tlv.TagList{
		{ID: tlv.ReadRecordResponseMessageTemplate, Contents: tlv.Nested{}},
	}

	tests := []struct {
		name            string
		sfi             byte
		recordNumber    byte
		expectedCommand []byte
	}{
		{
			name:            "First record of SFI 1",
			sfi:             1,
			recordNumber:    1,
			expectedCommand: tlv.Hex("00 B2 01 0C 00"),
		},
		{
			name:            "Third record of SFI 10",
			sfi:             10,
			recordNumber:    3,
			expectedCommand: tlv.Hex("00 B2 03 54 00"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conn := &scriptedCard{responses: [][]byte{ok(record.Encode())}}
			card := NewCard(conn)

			if _, err := card.ReadRecord(tc.sfi, tc.recordNumber); err != nil {
				t.Fatalf("ReadRecord failed: %v", err)
			}

			if diff := cmp.Diff(tc.expectedCommand, conn.sent[0]); diff != "" {
				t.Errorf("unexpected command (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestGetProcessingOptions(t *testing.T) {
	payload := tlv.Hex("83 00")
	conn := &scriptedCard{responses: [][]byte{ok(tlv.Hex("80 06 00 00 08 01 01 00"))}}
	card := NewCard(conn)

	if _, err := card.GetProcessingOptions(payload); err != nil {
		t.Fatalf("GetProcessingOptions failed: %v", err)
	}

	expected := tlv.Hex("80 A8 00 00 02 83 00 00")
	if diff := cmp.Diff(expected, conn.sent[0]); diff != "" {
		t.Errorf("unexpected command (-expected +got):\n%s", diff)
	}
}

func TestInitiateTransaction(t *testing.T) {
	app := &Application{
		Name:    "VISA",
		ADFName: tlv.Hex("A0 00 00 00 03 10 10"),
	}

	tests := []struct {
		name        string
		fci         tlv.TagList
		expectedGPO []byte
	}{
		{
			name: "PDOL fields are zero-filled",
			fci: tlv.TagList{
				{ID: tlv.FileControlInformationTemplate, Contents: tlv.Nested{
					{ID: tlv.FileControlInformationProprietaryTemplate, Contents: tlv.Nested{
						{ID: tlv.ProcessingOptionsDataObjectList, Contents: tlv.Bytes(tlv.Hex("9F6604 9F0206"))},
					}},
				}},
			},
			expectedGPO: tlv.Hex("80 A8 00 00 0C 830A 00000000 000000000000 00"),
		},
		{
			name: "No PDOL yields an empty command template",
			fci: tlv.TagList{
				{ID: tlv.FileControlInformationTemplate, Contents: tlv.Nested{
					{ID: tlv.FileControlInformationProprietaryTemplate, Contents: tlv.Nested{}},
				}},
			},
			expectedGPO: tlv.Hex("80 A8 00 00 02 8300 00"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conn := &scriptedCard{responses: [][]byte{
				ok(tc.fci.Encode()),
				ok(tlv.Hex("80 06 00 00 08 01 01 00")),
			}}
			card := NewCard(conn)

			if _, err := card.InitiateTransaction(app); err != nil {
				t.Fatalf("InitiateTransaction failed: %v", err)
			}

			if len(conn.sent) != 2 {
				t.Fatalf("expected 2 commands, got %d", len(conn.sent))
			}
			expectedSelect := append(tlv.Hex("00 A4 04 00 07"), app.ADFName...)
			expectedSelect = append(expectedSelect, 0x00)
			if diff := cmp.Diff(expectedSelect, conn.sent[0]); diff != "" {
				t.Errorf("unexpected SELECT (-expected +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.expectedGPO, conn.sent[1]); diff != "" {
				t.Errorf("unexpected GPO (-expected +got):\n%s", diff)
			}
		})
	}
}

func TestCommands_TransportFailure(t *testing.T) {
	transportErr := errors.New("reader unplugged")
	card := NewCard(&brokenCard{err: transportErr})

	if _, err := card.ReadRecord(1, 1); !errors.Is(err, transportErr) {
		t.Errorf("expected transport error, got %v", err)
	}
}
