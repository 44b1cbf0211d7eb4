package schedule

import (
	"fmt"

	"vidpub/internal/services"
)

var (
	// ErrMissingEpisode is returned when WeeksAfterEpoch has no episode number to work with.
	ErrMissingEpisode = fmt.Errorf("%w: episode number required for weeks-from-episode scheduling", services.ErrValidation)
	// ErrResolverDefect signals the weekday scan found no match, which only
	// happens for an invalid weekday value. Callers must not publish with it.
	ErrResolverDefect = fmt.Errorf("%w: weekday scan found no match", services.ErrValidation)
)

// ParseError describes a malformed scheduling argument, date or time.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap exposes both the parse marker and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrParse}
	}
	return []error{services.ErrParse, e.Err}
}

func parseErr(field, value string, err error) error {
	return &ParseError{Field: field, Value: value, Err: err}
}
