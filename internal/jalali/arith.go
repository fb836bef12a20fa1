package jalali

import (
	"fmt"
	"math"
	"time"
)

// maxDaySpan bounds day deltas: no valid result is further away than the
// whole supported range.
var maxDaySpan = daysBeforeYear(MaxYear + 1)

const maxMonthSpan = 12 * (MaxYear + 1)

// AddDays returns d moved by days (negative moves backwards). Day
// arithmetic is exact and never clamps.
func (d Date) AddDays(days int64) (Date, error) {
	if !d.IsValid() {
		return Date{}, ErrInvalidDate
	}
	if days > maxDaySpan || days < -maxDaySpan {
		return Date{}, ErrArithmeticOverflow
	}
	return dateFromDayCount(d.dayCount() + days)
}

// SubDays returns d moved backwards by days. It is equivalent to
// AddDays(-days) for every days that fits int64.
func (d Date) SubDays(days uint64) (Date, error) {
	if days > math.MaxInt64 {
		return Date{}, ErrArithmeticOverflow
	}
	return d.AddDays(-int64(days))
}

// AddMonths returns d moved by months (negative moves backwards). When the
// day does not exist in the target month it is clamped to the last day of
// that month, so AddMonths(1) followed by AddMonths(-1) does not always
// return to d.
func (d Date) AddMonths(months int) (Date, error) {
	if !d.IsValid() {
		return Date{}, ErrInvalidDate
	}
	if months > maxMonthSpan || months < -maxMonthSpan {
		return Date{}, ErrArithmeticOverflow
	}
	idx := int64(d.year)*12 + int64(d.month-1) + int64(months)
	year := int(floorDiv(idx, 12))
	month := int(floorMod(idx, 12)) + 1
	return clampedDate(year, month, d.day)
}

// SubMonths returns d moved backwards by months, with the same clamping as
// AddMonths.
func (d Date) SubMonths(months uint) (Date, error) {
	if months > maxMonthSpan {
		return Date{}, ErrArithmeticOverflow
	}
	return d.AddMonths(-int(months))
}

// AddYears returns d moved by years. Month and day are kept, except that
// Esfand 30th becomes Esfand 29th when the target year is not leap.
func (d Date) AddYears(years int) (Date, error) {
	if !d.IsValid() {
		return Date{}, ErrInvalidDate
	}
	if years > MaxYear || years < -MaxYear {
		return Date{}, ErrArithmeticOverflow
	}
	return clampedDate(d.year+years, d.month, d.day)
}

// SubYears returns d moved backwards by years.
func (d Date) SubYears(years uint) (Date, error) {
	if years > MaxYear {
		return Date{}, ErrArithmeticOverflow
	}
	return d.AddYears(-int(years))
}

func clampedDate(year, month, day int) (Date, error) {
	if year < MinYear || year > MaxYear {
		return Date{}, fmt.Errorf("%w: year %d", ErrArithmeticOverflow, year)
	}
	if n := DaysInMonth(year, month); day > n {
		day = n
	}
	return Date{year: year, month: month, day: day}, nil
}

// AddDays returns dt moved by days, keeping the time of day.
func (dt DateTime) AddDays(days int64) (DateTime, error) {
	return dt.withDate(dt.date.AddDays(days))
}

// SubDays returns dt moved backwards by days, keeping the time of day.
func (dt DateTime) SubDays(days uint64) (DateTime, error) {
	return dt.withDate(dt.date.SubDays(days))
}

// AddMonths is Date.AddMonths applied to the date part of dt.
func (dt DateTime) AddMonths(months int) (DateTime, error) {
	return dt.withDate(dt.date.AddMonths(months))
}

// SubMonths is Date.SubMonths applied to the date part of dt.
func (dt DateTime) SubMonths(months uint) (DateTime, error) {
	return dt.withDate(dt.date.SubMonths(months))
}

// AddYears is Date.AddYears applied to the date part of dt.
func (dt DateTime) AddYears(years int) (DateTime, error) {
	return dt.withDate(dt.date.AddYears(years))
}

// SubYears is Date.SubYears applied to the date part of dt.
func (dt DateTime) SubYears(years uint) (DateTime, error) {
	return dt.withDate(dt.date.SubYears(years))
}

func (dt DateTime) withDate(d Date, err error) (DateTime, error) {
	if err != nil {
		return DateTime{}, err
	}
	return mustDateTime(d, dt.hour, dt.minute, dt.second), nil
}

// A Unit is a fixed-length duration unit, measured in seconds.
type Unit int64

const (
	Second Unit = 1
	Minute Unit = 60
	Hour   Unit = 3600
)

func (u Unit) String() string {
	switch u {
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	}
	return fmt.Sprintf("Unit(%d)", int64(u))
}

// AddDuration returns dt moved by n units (negative moves backwards). The
// computation runs on absolute seconds, so hours, minutes and seconds roll
// over into days, months and years exactly; nothing is clamped.
func (dt DateTime) AddDuration(n int64, unit Unit) (DateTime, error) {
	if !dt.IsValid() {
		return DateTime{}, ErrInvalidDate
	}
	if unit <= 0 {
		return DateTime{}, fmt.Errorf("jalali: invalid duration unit %v", unit)
	}
	u := int64(unit)
	if n > math.MaxInt64/u || n < math.MinInt64/u {
		return DateTime{}, ErrArithmeticOverflow
	}
	delta := n * u
	base := dt.seconds()
	if delta > 0 && base > math.MaxInt64-delta {
		return DateTime{}, ErrArithmeticOverflow
	}
	total := base + delta
	if total < 0 {
		return DateTime{}, ErrArithmeticOverflow
	}
	d, err := dateFromDayCount(total / secondsPerDay)
	if err != nil {
		return DateTime{}, err
	}
	sod := int(total % secondsPerDay)
	return mustDateTime(d, sod/3600, sod/60%60, sod%60), nil
}

// SubDuration returns dt moved backwards by n units. n must fit int64;
// larger magnitudes fail with ErrArithmeticOverflow rather than wrapping.
func (dt DateTime) SubDuration(n uint64, unit Unit) (DateTime, error) {
	if n > math.MaxInt64 {
		return DateTime{}, ErrArithmeticOverflow
	}
	return dt.AddDuration(-int64(n), unit)
}

// Add returns dt moved by d, truncated to whole seconds.
func (dt DateTime) Add(d time.Duration) (DateTime, error) {
	return dt.AddDuration(int64(d/time.Second), Second)
}

// seconds returns the number of seconds elapsed from 1/01/01 00:00:00.
func (dt DateTime) seconds() int64 {
	return dt.date.dayCount()*secondsPerDay + int64(dt.secondOfDay())
}

// SecondsBetween returns the signed number of seconds from dt to other.
func (dt DateTime) SecondsBetween(other DateTime) int64 {
	return other.seconds() - dt.seconds()
}
