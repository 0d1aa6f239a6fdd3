// Package tzerr defines the error taxonomy shared by every other package
// in this module. Errors are sentinel values wrapped with context via
// fmt.Errorf("%w: ..."), so callers can use errors.Is/errors.As across
// package boundaries instead of matching on message text.
package tzerr

import (
	"errors"
	"strconv"
)

var (
	// ErrOverflow is returned by internal/safemath and everything built on
	// top of it when an arithmetic operation would silently lose
	// information (over/underflow, narrowing loss).
	ErrOverflow = errors.New("tzcore: arithmetic overflow")

	// ErrInvalidField means a value was outside the range its rule
	// declares (e.g. a ZoneOffset outside +-18:00).
	ErrInvalidField = errors.New("tzcore: invalid field value")

	// ErrInvalidDate means the individual fields of a date are each
	// in-range but do not combine into a real date (e.g. 31 February).
	ErrInvalidDate = errors.New("tzcore: invalid date")

	// ErrParse means malformed textual input (TZDB lines, leap-second
	// records, zone ids).
	ErrParse = errors.New("tzcore: parse failure")

	// ErrZoneResolution means a local date-time could not be mapped to
	// an instant under the resolver in use (gap/overlap under the
	// strict resolver, or an offset invalid for the zone).
	ErrZoneResolution = errors.New("tzcore: zone resolution failure")

	// ErrConfiguration means a missing or malformed archive or
	// leap-second data file.
	ErrConfiguration = errors.New("tzcore: configuration or data failure")

	// ErrConcurrentUpdate means a compare-and-swap on the leap-second
	// table (or another CAS-guarded structure) lost a race; the caller
	// may retry.
	ErrConcurrentUpdate = errors.New("tzcore: concurrent update")
)

// ParseError carries the offending text and its position in the input
// (utctime.ParseLeapSecondFile stores the line number), per spec.md's
// "Parse failure" kind. It wraps ErrParse so errors.Is(err, tzerr.ErrParse)
// succeeds.
type ParseError struct {
	Text  string
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	return "tzcore: parse failure at index " + strconv.Itoa(e.Index) + " in " + strconv.Quote(e.Text) + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }
