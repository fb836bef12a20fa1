// Package messages turns engine errors into sentences for people.
package messages

import (
	"errors"
	"fmt"

	"mitra/internal/jalali"
)

var parseKindText = map[jalali.ParseErrorKind]string{
	jalali.FormatMismatch:       "input does not match the expected format or has extra characters",
	jalali.InvalidNumber:        "a number is missing, has the wrong number of digits or is out of range",
	jalali.InvalidDateValue:     "the fields form an invalid date (for example day 31 in Mehr, or Esfand 30 in a common year)",
	jalali.InvalidTimeValue:     "the fields form an invalid time (for example hour 24 or minute 60)",
	jalali.UnsupportedSpecifier: "the pattern uses a specifier that cannot be parsed (such as %A or %j)",
	jalali.InvalidMonthName:     "no Persian month name was recognized",
	jalali.InvalidWeekdayName:   "no Persian weekday name was recognized",
}

// Describe returns the user-facing text for err without any context. Errors
// that do not come from the engine are returned as err.Error().
func Describe(err error) string {
	var pe *jalali.ParseError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		if s, ok := parseKindText[pe.Kind]; ok {
			return "parse error: " + s
		}
		return "parse error: " + pe.Kind.String()
	case errors.Is(err, jalali.ErrInvalidDate):
		return "the operation produced an invalid date"
	case errors.Is(err, jalali.ErrInvalidTime):
		return "the operation produced an invalid time"
	case errors.Is(err, jalali.ErrGregorianConversion):
		return "Gregorian conversion failed; the date may be outside the supported range (before 622 AD)"
	case errors.Is(err, jalali.ErrArithmeticOverflow):
		return fmt.Sprintf("date arithmetic left the supported year range [%d, %d]", jalali.MinYear, jalali.MaxYear)
	case errors.Is(err, jalali.ErrInvalidOrdinal):
		return "invalid day-of-year number"
	}
	return err.Error()
}

// Error wraps err with the operation it interrupted. The result still
// matches the original error with errors.Is and errors.As.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "Error while " + e.Op + ": " + Describe(e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns err annotated with op, or nil if err is nil.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Wrapf is Wrap with a formatted operation.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Op: fmt.Sprintf(format, args...), Err: err}
}
