package jalali

// Supported year range, inclusive.
const (
	MinYear = 1
	MaxYear = 9999
)

const (
	cycleYears = 33
	// 33*365 + 8 leap days.
	cycleDays = 12053
)

// leapInCycle marks the positions (year mod 33) that are leap years.
var leapInCycle = [cycleYears]bool{
	1: true, 5: true, 9: true, 13: true, 17: true, 22: true, 26: true, 30: true,
}

// leapsBefore[r] counts leap positions in 1..r of a cycle.
var leapsBefore = func() (t [cycleYears]int64) {
	for r := 1; r < cycleYears; r++ {
		t[r] = t[r-1]
		if leapInCycle[r] {
			t[r]++
		}
	}
	return t
}()

// IsLeapYear reports whether Esfand of the given Persian year has 30 days.
//
// The rule is the arithmetic 33-year cycle: a year is leap when year mod 33
// is one of 1, 5, 9, 13, 17, 22, 26 or 30. Over the supported range this
// reproduces the reference table pinned in leap_test.go.
func IsLeapYear(year int) bool {
	r := year % cycleYears
	if r < 0 {
		r += cycleYears
	}
	return leapInCycle[r]
}

// DaysInMonth returns the number of days in the given month of a Persian
// year, or 0 if month is outside [1, 12].
func DaysInMonth(year, month int) int {
	switch {
	case month >= 1 && month <= 6:
		return 31
	case month >= 7 && month <= 11:
		return 30
	case month == 12:
		if IsLeapYear(year) {
			return 30
		}
		return 29
	}
	return 0
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// daysBeforeYear returns the number of days from 1/01/01 to year/01/01,
// negative for years before 1.
func daysBeforeYear(year int) int64 {
	y := int64(year - 1)
	cycles, rem := floorDiv(y, cycleYears), floorMod(y, cycleYears)
	return y*365 + cycles*8 + leapsBefore[rem]
}

// daysBeforeMonth returns the number of days in a year before the first of
// month. month must be in [1, 12].
func daysBeforeMonth(month int) int64 {
	if month <= 7 {
		return int64(month-1) * 31
	}
	return 186 + int64(month-7)*30
}
