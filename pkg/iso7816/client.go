package iso7816

import (
	"fmt"
)

// CLIENT & PROTOCOL LOGIC:
// The Client acts as a high-level driver over the physical connection. It
// implements the ISO 7816-3 transport behaviors that T=0 cards expose to
// the application layer:
//
// 1. "61 XX" (Response Available):
//    The card indicates that XX bytes are waiting. The client sends GET
//    RESPONSE commands (same class byte, INS 0xC0) and accumulates each
//    returned payload, repeating while the card keeps answering 61XX.
//
// 2. "6C XX" (Wrong Length):
//    The card rejects the expected length (Le) and suggests XX. The client
//    reissues the original command unchanged except for Le = XX; the
//    reissue's outcome (which may itself chain) is the final result.
//
// A completed exchange is then resolved against its terminal status word:
// 9000 succeeds, 6A81 maps to ErrUnsupportedFeature, 6A82/6A83 map to
// ErrNotFound, anything else is a generic StatusError.

// Transmitter abstracts the physical card connection. One call transmits a
// complete command APDU and blocks until the full response arrives.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// Client manages the high-level communication with the card.
type Client struct {
	Card Transmitter
}

// NewClient creates a new Client instance.
func NewClient(card Transmitter) *Client {
	return &Client{Card: card}
}

// Result is the outcome of one logical exchange: the accumulated response
// data, the terminal status word, and the trace of every physical
// transaction that fulfilled the request.
type Result struct {
	Data   []byte
	Status StatusWord
	Trace  Trace
}

// Send transmits a command, drives the 61XX/6CXX protocol handling, and
// resolves the terminal status word. On a status failure the Result is
// still returned next to the error so callers can inspect the trace.
func (c *Client) Send(cmd *CommandAPDU) (*Result, error) {
	res, err := c.exchange(cmd)
	if err != nil {
		return nil, err
	}
	return res, resolve(res.Status)
}

// exchange runs the transport state machine without judging the terminal
// status. Errors returned here are framing or transmission failures only.
func (c *Client) exchange(cmd *CommandAPDU) (*Result, error) {
	resp, err := c.transmit(cmd)
	if err != nil {
		return nil, err
	}

	trace := Trace{{Command: cmd, Response: resp}}
	data := append([]byte(nil), resp.Data...)
	sw := resp.Status

	// Case 61XX: more data available, retrieve it with GET RESPONSE.
	for sw.SW1() == 0x61 {
		// Same logical channel as the original command; the follow-up is
		// never itself chained.
		respCls := cmd.Class
		respCls.IsChained = false

		getResp := NewCommandAPDU(respCls, INS_GET_RESPONSE, 0x00, 0x00, nil, sw.SW2())

		resp, err = c.transmit(getResp)
		if err != nil {
			return nil, err
		}

		trace = append(trace, Transaction{Command: getResp, Response: resp})
		data = append(data, resp.Data...)
		sw = resp.Status
	}

	// Case 6CXX: wrong length, reissue the original command with the
	// corrected Le. The reissue's outcome is the final result.
	if sw.SW1() == 0x6C {
		corrected := *cmd
		corrected.Le = sw.SW2()

		sub, err := c.exchange(&corrected)
		if err != nil {
			return nil, err
		}
		sub.Trace = append(trace, sub.Trace...)
		return sub, nil
	}

	return &Result{Data: data, Status: sw, Trace: trace}, nil
}

func (c *Client) transmit(cmd *CommandAPDU) (*ResponseAPDU, error) {
	rawCmd, err := cmd.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}

	rawResp, err := c.Card.Transmit(rawCmd)
	if err != nil {
		return nil, fmt.Errorf("transmission error: %w", err)
	}

	return ParseResponseAPDU(rawResp)
}
