package iso7816

// TRACE:
// A Transaction is the atomic unit of communication defined in ISO 7816-3:
// one Command APDU sent by the terminal, one Response APDU sent back by the
// card. A Trace is the chronological sequence of transactions a single
// logical operation produced. Protocol auto-handling ('61 XX' GET RESPONSE
// rounds, '6C XX' corrected reissues) makes one logical exchange span
// several physical transactions; the Trace keeps the whole conversation for
// inspection and debugging.

// Transaction represents a completed Command-Response pair.
type Transaction struct {
	Command  *CommandAPDU
	Response *ResponseAPDU
}

// IsSuccess checks if the transaction ended with a successful status.
// It returns false if the response is missing.
func (t *Transaction) IsSuccess() bool {
	if t.Response == nil {
		return false
	}
	return t.Response.Status.IsSuccess()
}

// Trace is a sequence of transactions (Command-Response pairs).
type Trace []Transaction

// Last returns the final transaction of the trace, or nil when empty.
func (t Trace) Last() *Transaction {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}

// IsSuccess checks if the FINAL transaction in the trace was successful,
// regardless of intermediate statuses (like 61XX) in previous transactions.
func (t Trace) IsSuccess() bool {
	last := t.Last()
	if last == nil {
		return false
	}
	return last.IsSuccess()
}
