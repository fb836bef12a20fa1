package jalali

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine. Callers match them with
// errors.Is; the text is never meant for end users (see internal/messages).
var (
	// ErrInvalidDate is returned when a (year, month, day) combination is
	// not a valid Persian date in the supported range.
	ErrInvalidDate = errors.New("jalali: invalid date")

	// ErrInvalidTime is returned when an (hour, minute, second) combination
	// is not a valid time of day.
	ErrInvalidTime = errors.New("jalali: invalid time")

	// ErrGregorianConversion is returned when a conversion between the
	// Persian and Gregorian calendars leaves the supported range.
	ErrGregorianConversion = errors.New("jalali: gregorian conversion out of range")

	// ErrArithmeticOverflow is returned when arithmetic produces a year
	// outside [MinYear, MaxYear] or a magnitude that does not fit int64.
	ErrArithmeticOverflow = errors.New("jalali: arithmetic overflow")

	// ErrInvalidOrdinal is returned for a day-of-year outside [1, 365|366].
	ErrInvalidOrdinal = errors.New("jalali: invalid ordinal day")

	// ErrParse matches every *ParseError regardless of its kind.
	ErrParse = errors.New("jalali: parse error")
)

// ParseErrorKind classifies why ParseDate or ParseDateTime failed.
type ParseErrorKind int

const (
	// FormatMismatch: a literal in the pattern did not match the input,
	// the input has trailing characters, or a required field is missing.
	FormatMismatch ParseErrorKind = iota + 1
	// InvalidNumber: a numeric field did not have the expected digits.
	InvalidNumber
	// InvalidDateValue: the fields were read but do not form a valid date.
	InvalidDateValue
	// InvalidTimeValue: the fields were read but do not form a valid time.
	InvalidTimeValue
	// UnsupportedSpecifier: the pattern uses a specifier that can be
	// formatted but not parsed, such as %A or %j.
	UnsupportedSpecifier
	// InvalidMonthName: no Persian month name matched the input.
	InvalidMonthName
	// InvalidWeekdayName: no Persian weekday name matched the input.
	// Weekday names are not parsed today, so the kind is never produced by
	// this package; it is part of the error taxonomy for callers.
	InvalidWeekdayName
)

var parseErrorKindNames = map[ParseErrorKind]string{
	FormatMismatch:       "format mismatch",
	InvalidNumber:        "invalid number",
	InvalidDateValue:     "invalid date value",
	InvalidTimeValue:     "invalid time value",
	UnsupportedSpecifier: "unsupported specifier",
	InvalidMonthName:     "invalid month name",
	InvalidWeekdayName:   "invalid weekday name",
}

func (k ParseErrorKind) String() string {
	if s, ok := parseErrorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// ParseError is returned by ParseDate and ParseDateTime.
//
// Two parse errors are considered the same by errors.Is when their kinds
// match; Input and Pattern are informational only.
type ParseError struct {
	Kind    ParseErrorKind
	Input   string
	Pattern string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jalali: parsing %q with pattern %q: %s", e.Input, e.Pattern, e.Kind)
}

// Is reports whether target is ErrParse or a *ParseError of the same kind.
func (e *ParseError) Is(target error) bool {
	if target == ErrParse {
		return true
	}
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

func parseErr(kind ParseErrorKind, input, pattern string) error {
	return &ParseError{Kind: kind, Input: input, Pattern: pattern}
}
