package iso7816

import (
	"errors"
	"fmt"
)

// Sentinel failures resolved from terminal status words. Use errors.Is to
// discriminate them and errors.As with *StatusError to recover the raw SW.
var (
	// ErrUnsupportedFeature is resolved from status 6A81.
	ErrUnsupportedFeature = errors.New("function not supported by card")

	// ErrNotFound is resolved from statuses 6A82 (file) and 6A83 (record).
	ErrNotFound = errors.New("file or record not found")
)

// StatusError reports a logical exchange that completed on the wire but
// ended with a non-success status word.
type StatusError struct {
	Status StatusWord
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("card status: %s", e.Status.Verbose())
}

// Unwrap maps well-known statuses onto their sentinel errors.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case SW_ERR_FUNC_NOT_SUPPORTED:
		return ErrUnsupportedFeature
	case SW_ERR_FILE_NOT_FOUND, SW_ERR_RECORD_NOT_FOUND:
		return ErrNotFound
	default:
		return nil
	}
}

// resolve maps a terminal status word onto the outcome of the exchange:
// nil for success, a StatusError otherwise.
func resolve(sw StatusWord) error {
	if sw == SW_NO_ERROR {
		return nil
	}
	return &StatusError{Status: sw}
}
