package jalali

import (
	"errors"
	"testing"
)

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		input, pattern string
		want           DateTime
	}{
		{"1403/05/02 10:30:00", LayoutDateTime, MustDateTime(1403, 5, 2, 10, 30, 0)},
		{"1403-05-02T23:59:59", LayoutISO, MustDateTime(1403, 5, 2, 23, 59, 59)},
		{"1403/05/02", LayoutDate, MustDateTime(1403, 5, 2, 0, 0, 0)},
		{"1403/05/02 07", "%Y/%m/%d %H", MustDateTime(1403, 5, 2, 7, 0, 0)},
		{"02 مرداد 1403 - 08:15", "%d %B %Y - %H:%M", MustDateTime(1403, 5, 2, 8, 15, 0)},
		{"14030502100000", "%Y%m%d%H%M%S", MustDateTime(1403, 5, 2, 10, 0, 0)},
	}
	for _, test := range tests {
		got, err := ParseDateTime(test.input, test.pattern)
		if err != nil {
			t.Errorf("ParseDateTime(%q, %q): %v", test.input, test.pattern, err)
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("ParseDateTime(%q, %q) = %v; want %v", test.input, test.pattern, got, test.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input, pattern string
		want           Date
	}{
		{"1403/05/02", LayoutDate, MustDate(1403, 5, 2)},
		{"1403-12-30", LayoutISODate, MustDate(1403, 12, 30)},
		{"30 اسفند 1403", "%d %B %Y", MustDate(1403, 12, 30)},
		{"1403 اردیبهشت 09", "%Y %B %d", MustDate(1403, 2, 9)},
		{"100% 1403.01.01", "100%% %Y.%m.%d", MustDate(1403, 1, 1)},
	}
	for _, test := range tests {
		got, err := ParseDate(test.input, test.pattern)
		if err != nil {
			t.Errorf("ParseDate(%q, %q): %v", test.input, test.pattern, err)
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("ParseDate(%q, %q) = %v; want %v", test.input, test.pattern, got, test.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name           string
		input, pattern string
		date           bool
		want           ParseErrorKind
	}{
		{"literal mismatch", "1403-05-02", LayoutDate, true, FormatMismatch},
		{"trailing input", "1403/05/02 extra", LayoutDate, true, FormatMismatch},
		{"missing day", "1403/05", "%Y/%m", true, FormatMismatch},
		{"short input", "1403/05/", LayoutDate, true, InvalidNumber},
		{"short year", "403/05/02", LayoutDate, true, InvalidNumber},
		{"one digit month", "1403/5/02", LayoutDate, true, InvalidNumber},
		{"letters", "abcd/05/02", LayoutDate, true, InvalidNumber},
		{"day 32", "1403/01/32", LayoutDate, true, InvalidDateValue},
		{"esfand 30 in common year", "1404/12/30", LayoutDate, true, InvalidDateValue},
		{"month 13", "1403/13/01", LayoutDate, true, InvalidDateValue},
		{"year zero", "0000/01/01", LayoutDate, true, InvalidDateValue},
		{"unknown month name", "02 January 1403", "%d %B %Y", true, InvalidMonthName},
		{"weekday name", "سه‌شنبه 1403/05/02", "%A " + LayoutDate, true, UnsupportedSpecifier},
		{"ordinal", "126 1403", "%j %Y", true, UnsupportedSpecifier},
		{"unknown specifier", "1403/05/02", "%Y/%m/%q", true, UnsupportedSpecifier},
		{"time in date pattern", "1403/05/02 10:30:00", LayoutDateTime, true, UnsupportedSpecifier},
		{"hour 24", "1403/05/02 24:00:00", LayoutDateTime, false, InvalidTimeValue},
		{"minute 60", "1403-05-02T10:60:00", LayoutISO, false, InvalidTimeValue},
		{"broken %T", "1403-05-02T10-30-00", LayoutISO, false, FormatMismatch},
		{"unsupported before mismatch", "garbage", "%Y %A", false, UnsupportedSpecifier},
		{"datetime day 31 in mehr", "1403/07/31 00:00:00", LayoutDateTime, false, InvalidDateValue},
	}
	for _, test := range tests {
		var err error
		if test.date {
			_, err = ParseDate(test.input, test.pattern)
		} else {
			_, err = ParseDateTime(test.input, test.pattern)
		}
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: error = %v; want *ParseError", test.name, err)
			continue
		}
		if pe.Kind != test.want {
			t.Errorf("%s: kind = %v; want %v", test.name, pe.Kind, test.want)
		}
		if pe.Input != test.input || pe.Pattern != test.pattern {
			t.Errorf("%s: error carries (%q, %q); want (%q, %q)", test.name, pe.Input, pe.Pattern, test.input, test.pattern)
		}
		if !errors.Is(err, ErrParse) || !errors.Is(err, &ParseError{Kind: test.want}) {
			t.Errorf("%s: errors.Is does not match %v", test.name, test.want)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	patterns := []string{LayoutDateTime, LayoutISO, "%d %B %Y %H:%M:%S", "%Y%m%d-%T"}
	dt := MustDateTime(1399, 12, 30, 0, 0, 1)
	for i := 0; i < 400; i++ {
		for _, p := range patterns {
			got, err := ParseDateTime(dt.Format(p), p)
			if err != nil {
				t.Fatalf("ParseDateTime(%q, %q): %v", dt.Format(p), p, err)
			}
			if !got.Equal(dt) {
				t.Fatalf("round trip of %v through %q = %v", dt, p, got)
			}
		}
		var err error
		if dt, err = dt.AddDuration(86400+3661, Second); err != nil {
			t.Fatal(err)
		}
	}
}

func TestParseErrorKindString(t *testing.T) {
	if got := InvalidMonthName.String(); got != "invalid month name" {
		t.Errorf("InvalidMonthName.String() = %q", got)
	}
	if got := ParseErrorKind(99).String(); got != "ParseErrorKind(99)" {
		t.Errorf("ParseErrorKind(99).String() = %q", got)
	}
}
