package catalog

import (
	"errors"
	"fmt"

	"vidpub/internal/services"
)

var (
	// ErrPaginationOverrun is returned when a listing keeps producing
	// continuation cursors past the configured page bound.
	ErrPaginationOverrun = fmt.Errorf("%w: pagination overrun", services.ErrTransport)
	// ErrEntryNotFound is returned when a read finds no entry for the identifier.
	ErrEntryNotFound = fmt.Errorf("%w: catalog entry not found", services.ErrValidation)
	// ErrNoChannel is returned when the account has no channel and so no uploads container.
	ErrNoChannel = fmt.Errorf("%w: account has no channel", services.ErrValidation)
)

// TransportError describes a failed exchange with the catalog.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("catalog %s %s", e.Method, e.URL)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.StatusCode == 0 && e.Body == "" && e.Err == nil {
		msg += " failed"
	}
	return msg
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrTransport}
	}
	return []error{services.ErrTransport, e.Err}
}

// StatusCode extracts the HTTP status from a catalog error, or 0.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
