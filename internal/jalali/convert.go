package jalali

import (
	"errors"
	"time"
)

const secondsPerDay = 86400

// epochUnixDay is the Unix day number (days since 1970-01-01) of 1/01/01,
// which is 622-03-21 in the proleptic Gregorian calendar.
var epochUnixDay = unixDay(time.Date(622, time.March, 21, 0, 0, 0, 0, time.UTC))

// unixDay returns the number of days from 1970-01-01 to the civil date of t.
func unixDay(t time.Time) int64 {
	y, m, d := t.Date()
	s := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
	return floorDiv(s, secondsPerDay)
}

// weekdayOf returns the weekday of the day with the given day count.
// 1970-01-01 was a Thursday, which is day 5 counting from Saturday.
func weekdayOf(dayCount int64) Weekday {
	return Weekday(floorMod(dayCount+epochUnixDay+5, 7))
}

// ToGregorian returns d as a Gregorian date at midnight UTC.
func (d Date) ToGregorian() (time.Time, error) {
	if !d.IsValid() {
		return time.Time{}, ErrGregorianConversion
	}
	return d.midnight().ToGregorian()
}

// ToGregorian returns dt as a Gregorian datetime in UTC. The time of day is
// carried over unchanged; no zone conversion takes place.
func (dt DateTime) ToGregorian() (time.Time, error) {
	if !dt.date.IsValid() {
		return time.Time{}, ErrGregorianConversion
	}
	return gregorianAt(dt.date.dayCount(), dt.hour, dt.minute, dt.second), nil
}

// FromGregorian converts the civil date and time of t to a Persian
// DateTime. Only the wall-clock fields of t in its own location are used;
// sub-second precision is dropped.
func FromGregorian(t time.Time) (DateTime, error) {
	d, err := DateFromGregorian(t)
	if err != nil {
		return DateTime{}, err
	}
	h, m, s := t.Clock()
	return DateTime{date: d, hour: h, minute: m, second: s}, nil
}

// DateFromGregorian converts the civil date of t to a Persian Date.
func DateFromGregorian(t time.Time) (Date, error) {
	d, err := dateFromDayCount(unixDay(t) - epochUnixDay)
	if errors.Is(err, ErrArithmeticOverflow) {
		return Date{}, ErrGregorianConversion
	}
	return d, err
}

func gregorianAt(dayCount int64, hour, minute, second int) time.Time {
	t := time.Unix((dayCount+epochUnixDay)*secondsPerDay, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, second, 0, time.UTC)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}
