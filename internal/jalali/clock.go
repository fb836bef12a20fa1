package jalali

import "time"

// A Clock returns the current wall-clock time. Tests substitute a fixed
// clock; production code uses time.Now.
type Clock func() time.Time

// Now returns the current local date and time in the Persian calendar.
func Now() (DateTime, error) {
	return Clock(time.Now).Now()
}

// Today returns the current local date in the Persian calendar.
func Today() (Date, error) {
	return Clock(time.Now).Today()
}

// Now converts the clock's current reading to a Persian DateTime.
func (c Clock) Now() (DateTime, error) {
	return FromGregorian(c())
}

// Today converts the clock's current reading to a Persian Date.
func (c Clock) Today() (Date, error) {
	return DateFromGregorian(c())
}
