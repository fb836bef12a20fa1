// Package core implements the operations shared by the CLI and the web
// server on top of the calendar engine: lenient input parsing, single-unit
// arithmetic, date summaries and output rendering.
package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mitra/internal/jalali"
	"mitra/internal/messages"
)

var (
	// ErrUnrecognizedInput is returned by ParseInput and
	// ParseGregorianInput when no accepted layout matches.
	ErrUnrecognizedInput = errors.New("unrecognized date input")

	// ErrNoUnit and ErrMultipleUnits are returned when a Delta or SubDelta
	// does not set exactly one unit.
	ErrNoUnit        = errors.New("no unit given; set one of days, months, years, hours, minutes or seconds")
	ErrMultipleUnits = errors.New("more than one unit given")

	// ErrUnknownStyle is returned by Styled for a style other than short,
	// long or iso.
	ErrUnknownStyle = errors.New("unknown format style")
)

var (
	dateTimeLayouts = []string{jalali.LayoutDateTime, jalali.LayoutISO, "%Y-%m-%d %H:%M:%S"}
	dateLayouts     = []string{jalali.LayoutDate, jalali.LayoutISODate}
)

// ParseInput reads a Persian date or date-time in one of the common
// layouts: YYYY/MM/DD HH:MM:SS, YYYY-MM-DDTHH:MM:SS, YYYY-MM-DD HH:MM:SS,
// YYYY/MM/DD or YYYY-MM-DD. withTime reports whether the input had a time
// of day; a date alone yields midnight.
func ParseInput(s string) (dt jalali.DateTime, withTime bool, err error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if v, perr := jalali.ParseDateTime(s, layout); perr == nil {
			return v, true, nil
		}
	}
	for _, layout := range dateLayouts {
		if d, perr := jalali.ParseDate(s, layout); perr == nil {
			dt, err = d.At(0, 0, 0)
			return dt, false, err
		}
	}
	return jalali.DateTime{}, false, fmt.Errorf("%w %q: expected YYYY/MM/DD, YYYY-MM-DD, YYYY/MM/DD HH:MM:SS or YYYY-MM-DDTHH:MM:SS", ErrUnrecognizedInput, s)
}

// ParseGregorianInput reads a Gregorian YYYY-MM-DD, YYYY-MM-DD HH:MM:SS or
// YYYY-MM-DDTHH:MM:SS. The result is in UTC.
func ParseGregorianInput(s string) (t time.Time, withTime bool, err error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if v, perr := time.Parse(layout, s); perr == nil {
			return v, true, nil
		}
	}
	if v, perr := time.Parse(time.DateOnly, s); perr == nil {
		return v, false, nil
	}
	return time.Time{}, false, fmt.Errorf("%w %q: expected YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS", ErrUnrecognizedInput, s)
}

// Delta is a signed amount of exactly one unit.
type Delta struct {
	Days    *int64
	Months  *int
	Years   *int
	Hours   *int64
	Minutes *int64
	Seconds *int64
}

// SubDelta is an unsigned amount of exactly one unit to subtract.
type SubDelta struct {
	Days    *uint64
	Months  *uint
	Years   *uint
	Hours   *uint64
	Minutes *uint64
	Seconds *uint64
}

func countSet(set ...bool) error {
	n := 0
	for _, ok := range set {
		if ok {
			n++
		}
	}
	switch {
	case n == 0:
		return ErrNoUnit
	case n > 1:
		return ErrMultipleUnits
	}
	return nil
}

// Add applies d to base. Engine errors are wrapped with the operation
// that failed, e.g. "Error while adding days: ...".
func Add(base jalali.DateTime, d Delta) (jalali.DateTime, error) {
	if err := countSet(d.Days != nil, d.Months != nil, d.Years != nil, d.Hours != nil, d.Minutes != nil, d.Seconds != nil); err != nil {
		return jalali.DateTime{}, err
	}
	var (
		out jalali.DateTime
		err error
		op  string
	)
	switch {
	case d.Days != nil:
		out, err = base.AddDays(*d.Days)
		op = "adding days"
	case d.Months != nil:
		out, err = base.AddMonths(*d.Months)
		op = "adding months"
	case d.Years != nil:
		out, err = base.AddYears(*d.Years)
		op = "adding years"
	case d.Hours != nil:
		out, err = base.AddDuration(*d.Hours, jalali.Hour)
		op = "adding hours"
	case d.Minutes != nil:
		out, err = base.AddDuration(*d.Minutes, jalali.Minute)
		op = "adding minutes"
	default:
		out, err = base.AddDuration(*d.Seconds, jalali.Second)
		op = "adding seconds"
	}
	return out, messages.Wrap(err, op)
}

// Sub subtracts d from base.
func Sub(base jalali.DateTime, d SubDelta) (jalali.DateTime, error) {
	if err := countSet(d.Days != nil, d.Months != nil, d.Years != nil, d.Hours != nil, d.Minutes != nil, d.Seconds != nil); err != nil {
		return jalali.DateTime{}, err
	}
	var (
		out jalali.DateTime
		err error
		op  string
	)
	switch {
	case d.Days != nil:
		out, err = base.SubDays(*d.Days)
		op = "subtracting days"
	case d.Months != nil:
		out, err = base.SubMonths(*d.Months)
		op = "subtracting months"
	case d.Years != nil:
		out, err = base.SubYears(*d.Years)
		op = "subtracting years"
	case d.Hours != nil:
		out, err = base.SubDuration(*d.Hours, jalali.Hour)
		op = "subtracting hours"
	case d.Minutes != nil:
		out, err = base.SubDuration(*d.Minutes, jalali.Minute)
		op = "subtracting minutes"
	default:
		out, err = base.SubDuration(*d.Seconds, jalali.Second)
		op = "subtracting seconds"
	}
	return out, messages.Wrap(err, op)
}

// DaysDiff returns the absolute number of days between the dates of a and
// b; times of day are ignored.
func DaysDiff(a, b jalali.DateTime) uint64 {
	n := a.Date().DaysBetween(b.Date())
	if n < 0 {
		return uint64(-n)
	}
	return uint64(n)
}

// DateInfo summarizes a date for the info command and /api/info.
type DateInfo struct {
	Date            string `json:"date"`
	Time            string `json:"time,omitempty"`
	Weekday         string `json:"weekday"`
	DayOfYear       int    `json:"day_of_year"`
	DaysInMonth     int    `json:"days_in_month"`
	LeapYear        bool   `json:"leap_year"`
	Gregorian       string `json:"gregorian"`
	FirstDayOfMonth string `json:"first_day_of_month"`
	LastDayOfMonth  string `json:"last_day_of_month"`
	FirstDayOfYear  string `json:"first_day_of_year"`
	LastDayOfYear   string `json:"last_day_of_year"`
}

// Info describes dt. Time and the time part of Gregorian are only filled
// in when withTime is set.
func Info(dt jalali.DateTime, withTime bool) (DateInfo, error) {
	d := dt.Date()
	g, err := dt.ToGregorian()
	if err != nil {
		return DateInfo{}, messages.Wrap(err, "converting to Gregorian")
	}
	wd, err := d.Weekday()
	if err != nil {
		return DateInfo{}, messages.Wrap(err, "getting weekday")
	}
	ord, err := d.Ordinal()
	if err != nil {
		return DateInfo{}, messages.Wrap(err, "getting ordinal")
	}
	info := DateInfo{
		Date:            d.String(),
		Weekday:         wd.String(),
		DayOfYear:       ord,
		DaysInMonth:     d.DaysInMonth(),
		LeapYear:        d.IsLeapYear(),
		Gregorian:       g.Format(time.DateOnly),
		FirstDayOfMonth: d.FirstDayOfMonth().String(),
		LastDayOfMonth:  d.LastDayOfMonth().String(),
		FirstDayOfYear:  d.FirstDayOfYear().String(),
		LastDayOfYear:   d.LastDayOfYear().String(),
	}
	if withTime {
		info.Time = dt.Format("%T")
		info.Gregorian = g.Format(time.DateTime)
	}
	return info, nil
}

// Render prints dt, dropping the time when the input was a date only.
func Render(dt jalali.DateTime, withTime bool) string {
	if withTime {
		return dt.String()
	}
	return dt.Date().String()
}

// RenderGregorian is Render for a Gregorian time.
func RenderGregorian(t time.Time, withTime bool) string {
	if withTime {
		return t.Format(time.DateTime)
	}
	return t.Format(time.DateOnly)
}

// Styled renders dt in one of the named styles. short and iso keep the
// time when withTime is set; long is always date only.
func Styled(dt jalali.DateTime, withTime bool, style string) (string, error) {
	switch style {
	case jalali.StyleShort:
		if withTime {
			return dt.Format(jalali.LayoutDateTime), nil
		}
		return dt.Date().Format(jalali.StyleShort), nil
	case jalali.StyleLong:
		return dt.Date().Format(jalali.StyleLong), nil
	case jalali.StyleISO:
		if withTime {
			return dt.Format(jalali.LayoutISO), nil
		}
		return dt.Date().Format(jalali.StyleISO), nil
	}
	return "", fmt.Errorf("%w %q: want short, long or iso", ErrUnknownStyle, style)
}
