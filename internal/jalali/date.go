package jalali

import (
	"fmt"
	"strings"
)

// A Date is a Persian (Jalali) calendar date.
//
// Date values are immutable and safe to share. The zero value is not a
// valid date; every constructor validates its input, so a Date obtained
// from this package without an error is always valid.
type Date struct {
	year, month, day int
}

// NewDate returns the Date for the given year, month and day, or
// ErrInvalidDate if the combination is not a valid Persian date in
// [MinYear, MaxYear].
func NewDate(year, month, day int) (Date, error) {
	d := Date{year: year, month: month, day: day}
	if !d.IsValid() {
		return Date{}, fmt.Errorf("%w: %04d/%02d/%02d", ErrInvalidDate, year, month, day)
	}
	return d, nil
}

// MustDate is like NewDate but panics on invalid input. It is intended for
// package-level variables and tests.
func MustDate(year, month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// Year returns the Persian year.
func (d Date) Year() int { return d.year }

// Month returns the month of the year, 1 (Farvardin) to 12 (Esfand).
func (d Date) Month() int { return d.month }

// Day returns the day of the month.
func (d Date) Day() int { return d.day }

// IsValid reports whether d is a valid date in the supported range.
func (d Date) IsValid() bool {
	if d.year < MinYear || d.year > MaxYear {
		return false
	}
	if d.month < 1 || d.month > 12 {
		return false
	}
	return d.day >= 1 && d.day <= DaysInMonth(d.year, d.month)
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Equal reports whether d and d2 denote the same day.
func (d Date) Equal(d2 Date) bool {
	return d == d2
}

// Compare returns -1 if d is before d2, +1 if after, and 0 if equal.
func (d Date) Compare(d2 Date) int {
	switch {
	case d.year != d2.year:
		return sign(d.year - d2.year)
	case d.month != d2.month:
		return sign(d.month - d2.month)
	}
	return sign(d.day - d2.day)
}

// Before reports whether d is before d2.
func (d Date) Before(d2 Date) bool { return d.Compare(d2) < 0 }

// After reports whether d is after d2.
func (d Date) After(d2 Date) bool { return d.Compare(d2) > 0 }

// IsLeapYear reports whether d falls in a leap year.
func (d Date) IsLeapYear() bool { return IsLeapYear(d.year) }

// DaysInMonth returns the length of d's month.
func (d Date) DaysInMonth() int { return DaysInMonth(d.year, d.month) }

// Weekday returns the day of the week of d, with Saturday as the first day.
func (d Date) Weekday() (Weekday, error) {
	if !d.IsValid() {
		return 0, ErrInvalidDate
	}
	return weekdayOf(d.dayCount()), nil
}

// Ordinal returns the 1-based day of the year of d.
func (d Date) Ordinal() (int, error) {
	if !d.IsValid() {
		return 0, ErrInvalidOrdinal
	}
	return int(daysBeforeMonth(d.month)) + d.day, nil
}

// FromOrdinal returns the date of the ordinal-th day of year.
func FromOrdinal(year, ordinal int) (Date, error) {
	if year < MinYear || year > MaxYear {
		return Date{}, ErrInvalidDate
	}
	if ordinal < 1 || ordinal > DaysInYear(year) {
		return Date{}, fmt.Errorf("%w: %d in year %d", ErrInvalidOrdinal, ordinal, year)
	}
	return dateFromYearDay(year, int64(ordinal-1)), nil
}

// FirstDayOfMonth returns the first day of d's month.
func (d Date) FirstDayOfMonth() Date {
	return Date{year: d.year, month: d.month, day: 1}
}

// LastDayOfMonth returns the last day of d's month.
func (d Date) LastDayOfMonth() Date {
	return Date{year: d.year, month: d.month, day: DaysInMonth(d.year, d.month)}
}

// FirstDayOfYear returns Farvardin 1st of d's year.
func (d Date) FirstDayOfYear() Date {
	return Date{year: d.year, month: 1, day: 1}
}

// LastDayOfYear returns the last day of Esfand of d's year.
func (d Date) LastDayOfYear() Date {
	return Date{year: d.year, month: 12, day: DaysInMonth(d.year, 12)}
}

// DaysBetween returns the signed number of days from d to other, so that
// d.AddDays(d.DaysBetween(other)) equals other.
func (d Date) DaysBetween(other Date) int64 {
	return other.dayCount() - d.dayCount()
}

// String returns d in the YYYY/MM/DD form, like "1403/05/02".
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.year, d.month, d.day)
}

// MarshalText formats d in the YYYY/MM/DD form.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses a date in the YYYY/MM/DD or YYYY-MM-DD form.
func (d *Date) UnmarshalText(data []byte) error {
	s := strings.TrimSpace(string(data))
	layout := LayoutDate
	if strings.Contains(s, "-") {
		layout = LayoutISODate
	}
	nd, err := ParseDate(s, layout)
	if err != nil {
		return err
	}
	*d = nd
	return nil
}

// dayCount returns the number of days elapsed from 1/01/01 to d.
func (d Date) dayCount() int64 {
	return daysBeforeYear(d.year) + daysBeforeMonth(d.month) + int64(d.day-1)
}

// dateFromDayCount is the inverse of Date.dayCount. It returns
// ErrArithmeticOverflow when the result is outside the supported range.
func dateFromDayCount(n int64) (Date, error) {
	if n < 0 || n >= daysBeforeYear(MaxYear+1) {
		return Date{}, ErrArithmeticOverflow
	}
	year := int(n/cycleDays*cycleYears) + 1
	for daysBeforeYear(year+1) <= n {
		year++
	}
	for daysBeforeYear(year) > n {
		year--
	}
	return dateFromYearDay(year, n-daysBeforeYear(year)), nil
}

// dateFromYearDay builds the date of the zero-based day of year yd.
func dateFromYearDay(year int, yd int64) Date {
	if yd < 186 {
		return Date{year: year, month: int(yd/31) + 1, day: int(yd%31) + 1}
	}
	yd -= 186
	return Date{year: year, month: int(yd/30) + 7, day: int(yd%30) + 1}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
