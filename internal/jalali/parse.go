package jalali

import "errors"

// fields collects the values read from an input string.
type fields struct {
	year, month, day     int
	hour, minute, second int
	hasYear, hasMonth    bool
	hasDay               bool
}

// ParseDate parses input according to pattern and returns the Date it
// represents. The pattern must contain a year (%Y), a month (%m or %B) and
// a day (%d); time specifiers are rejected with UnsupportedSpecifier since
// a Date has no time of day to hold them.
func ParseDate(input, pattern string) (Date, error) {
	f, err := scan(input, pattern, false)
	if err != nil {
		return Date{}, err
	}
	d, err := NewDate(f.year, f.month, f.day)
	if err != nil {
		return Date{}, parseErr(InvalidDateValue, input, pattern)
	}
	return d, nil
}

// ParseDateTime parses input according to pattern and returns the
// DateTime it represents. Year, month and day are required; time fields
// missing from the pattern default to zero.
func ParseDateTime(input, pattern string) (DateTime, error) {
	f, err := scan(input, pattern, true)
	if err != nil {
		return DateTime{}, err
	}
	d, err := NewDate(f.year, f.month, f.day)
	if err != nil {
		return DateTime{}, parseErr(InvalidDateValue, input, pattern)
	}
	dt, err := d.At(f.hour, f.minute, f.second)
	if errors.Is(err, ErrInvalidTime) {
		return DateTime{}, parseErr(InvalidTimeValue, input, pattern)
	}
	return dt, err
}

// scan walks input along the compiled pattern and extracts the fields.
// Unsupported specifiers are reported before any input is consumed, so
// the error does not depend on where in the input a mismatch occurs.
func scan(input, pattern string, withTime bool) (fields, error) {
	var f fields
	prog := compile(pattern)
	for _, in := range prog {
		if !in.op.parsable() || (in.op.isTime() && !withTime) {
			return f, parseErr(UnsupportedSpecifier, input, pattern)
		}
	}

	s := input
	num := func(dst *int, width int) error {
		n, rest, ok := digits(s, width)
		if !ok {
			return parseErr(InvalidNumber, input, pattern)
		}
		*dst, s = n, rest
		return nil
	}
	lit := func(l string) error {
		if len(s) < len(l) || s[:len(l)] != l {
			return parseErr(FormatMismatch, input, pattern)
		}
		s = s[len(l):]
		return nil
	}

	for _, in := range prog {
		var err error
		switch in.op {
		case opLiteral:
			err = lit(in.lit)
		case opYear:
			err = num(&f.year, 4)
			f.hasYear = true
		case opMonth:
			err = num(&f.month, 2)
			f.hasMonth = true
		case opDay:
			err = num(&f.day, 2)
			f.hasDay = true
		case opMonthName:
			m, n := matchMonthName(s)
			if n == 0 {
				return f, parseErr(InvalidMonthName, input, pattern)
			}
			f.month, s = m, s[n:]
			f.hasMonth = true
		case opHour:
			err = num(&f.hour, 2)
		case opMinute:
			err = num(&f.minute, 2)
		case opSecond:
			err = num(&f.second, 2)
		case opTime:
			for i, dst := range []*int{&f.hour, &f.minute, &f.second} {
				if i > 0 {
					if err = lit(":"); err != nil {
						break
					}
				}
				if err = num(dst, 2); err != nil {
					break
				}
			}
		}
		if err != nil {
			return f, err
		}
	}
	if s != "" {
		return f, parseErr(FormatMismatch, input, pattern)
	}
	if !f.hasYear || !f.hasMonth || !f.hasDay {
		return f, parseErr(FormatMismatch, input, pattern)
	}
	return f, nil
}

// digits reads exactly width ASCII digits from the front of s.
func digits(s string, width int) (n int, rest string, ok bool) {
	if len(s) < width {
		return 0, s, false
	}
	for i := 0; i < width; i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, s, false
		}
		n = n*10 + int(c-'0')
	}
	return n, s[width:], true
}
