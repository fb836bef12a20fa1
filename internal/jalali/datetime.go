package jalali

import (
	"fmt"
	"strings"
)

// A DateTime is a Persian date with a time of day, second precision and no
// time zone. Like Date it is an immutable value.
type DateTime struct {
	date                 Date
	hour, minute, second int
}

// NewDateTime returns the DateTime for the given fields. It returns
// ErrInvalidDate when the date part is invalid and ErrInvalidTime when the
// time of day is.
func NewDateTime(year, month, day, hour, minute, second int) (DateTime, error) {
	d, err := NewDate(year, month, day)
	if err != nil {
		return DateTime{}, err
	}
	return d.At(hour, minute, second)
}

// MustDateTime is like NewDateTime but panics on invalid input.
func MustDateTime(year, month, day, hour, minute, second int) DateTime {
	dt, err := NewDateTime(year, month, day, hour, minute, second)
	if err != nil {
		panic(err)
	}
	return dt
}

// At returns d at the given time of day.
func (d Date) At(hour, minute, second int) (DateTime, error) {
	if !d.IsValid() {
		return DateTime{}, ErrInvalidDate
	}
	if !validTime(hour, minute, second) {
		return DateTime{}, fmt.Errorf("%w: %02d:%02d:%02d", ErrInvalidTime, hour, minute, second)
	}
	return DateTime{date: d, hour: hour, minute: minute, second: second}, nil
}

// midnight returns d at 00:00:00 without going through At. It is only
// called right after d has been checked with IsValid.
func (d Date) midnight() DateTime {
	return mustDateTime(d, 0, 0, 0)
}

// mustDateTime attaches a time of day to a date the caller has already
// validated. It panics if that promise was broken, which can only be a bug
// in this package.
func mustDateTime(d Date, hour, minute, second int) DateTime {
	if !d.IsValid() || !validTime(hour, minute, second) {
		panic(fmt.Sprintf("jalali: unchecked datetime from invalid fields %v %02d:%02d:%02d", d, hour, minute, second))
	}
	return DateTime{date: d, hour: hour, minute: minute, second: second}
}

func validTime(hour, minute, second int) bool {
	return hour >= 0 && hour <= 23 &&
		minute >= 0 && minute <= 59 &&
		second >= 0 && second <= 59
}

// Date returns the date part of dt.
func (dt DateTime) Date() Date { return dt.date }

// Year returns the Persian year.
func (dt DateTime) Year() int { return dt.date.year }

// Month returns the month of the year.
func (dt DateTime) Month() int { return dt.date.month }

// Day returns the day of the month.
func (dt DateTime) Day() int { return dt.date.day }

// Hour returns the hour, in [0, 23].
func (dt DateTime) Hour() int { return dt.hour }

// Minute returns the minute, in [0, 59].
func (dt DateTime) Minute() int { return dt.minute }

// Second returns the second, in [0, 59].
func (dt DateTime) Second() int { return dt.second }

// IsValid reports whether dt is a valid datetime.
func (dt DateTime) IsValid() bool {
	return dt.date.IsValid() && validTime(dt.hour, dt.minute, dt.second)
}

// IsZero reports whether dt is the zero value.
func (dt DateTime) IsZero() bool {
	return dt == DateTime{}
}

// Equal reports whether dt and dt2 denote the same instant.
func (dt DateTime) Equal(dt2 DateTime) bool {
	return dt == dt2
}

// Compare returns -1 if dt is before dt2, +1 if after, and 0 if equal.
func (dt DateTime) Compare(dt2 DateTime) int {
	if c := dt.date.Compare(dt2.date); c != 0 {
		return c
	}
	return sign(dt.secondOfDay() - dt2.secondOfDay())
}

// Before reports whether dt is before dt2.
func (dt DateTime) Before(dt2 DateTime) bool { return dt.Compare(dt2) < 0 }

// After reports whether dt is after dt2.
func (dt DateTime) After(dt2 DateTime) bool { return dt.Compare(dt2) > 0 }

// String returns dt in the "YYYY/MM/DD HH:MM:SS" form.
func (dt DateTime) String() string {
	return fmt.Sprintf("%s %02d:%02d:%02d", dt.date, dt.hour, dt.minute, dt.second)
}

// MarshalText formats dt in the "YYYY/MM/DD HH:MM:SS" form.
func (dt DateTime) MarshalText() ([]byte, error) {
	return []byte(dt.String()), nil
}

// UnmarshalText parses "YYYY/MM/DD HH:MM:SS" or "YYYY-MM-DDTHH:MM:SS".
func (dt *DateTime) UnmarshalText(data []byte) error {
	s := strings.TrimSpace(string(data))
	layout := LayoutDateTime
	if strings.Contains(s, "T") {
		layout = LayoutISO
	}
	ndt, err := ParseDateTime(s, layout)
	if err != nil {
		return err
	}
	*dt = ndt
	return nil
}

func (dt DateTime) secondOfDay() int {
	return dt.hour*3600 + dt.minute*60 + dt.second
}
