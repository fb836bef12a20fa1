package jalali

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewDate(t *testing.T) {
	tests := []struct {
		year, month, day int
		wantErr          bool
	}{
		{1403, 1, 1, false},
		{1403, 6, 31, false},
		{1403, 7, 31, true},
		{1403, 12, 30, false},
		{1404, 12, 30, true},
		{1404, 12, 29, false},
		{1403, 0, 1, true},
		{1403, 13, 1, true},
		{1403, 1, 0, true},
		{0, 1, 1, true},
		{MinYear, 1, 1, false},
		{MaxYear, 12, 29, false},
		{MaxYear + 1, 1, 1, true},
	}
	for _, test := range tests {
		d, err := NewDate(test.year, test.month, test.day)
		if test.wantErr {
			if !errors.Is(err, ErrInvalidDate) {
				t.Errorf("NewDate(%d, %d, %d) error = %v; want ErrInvalidDate", test.year, test.month, test.day, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewDate(%d, %d, %d): %v", test.year, test.month, test.day, err)
			continue
		}
		if d.Year() != test.year || d.Month() != test.month || d.Day() != test.day {
			t.Errorf("NewDate(%d, %d, %d) = %v", test.year, test.month, test.day, d)
		}
	}
}

func TestZeroDateIsInvalid(t *testing.T) {
	var d Date
	if d.IsValid() {
		t.Error("zero Date is valid")
	}
	if !d.IsZero() {
		t.Error("zero Date is not IsZero")
	}
	if _, err := d.Weekday(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Weekday() error = %v; want ErrInvalidDate", err)
	}
	if _, err := d.Ordinal(); !errors.Is(err, ErrInvalidOrdinal) {
		t.Errorf("Ordinal() error = %v; want ErrInvalidOrdinal", err)
	}
	if _, err := d.AddDays(1); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("AddDays(1) error = %v; want ErrInvalidDate", err)
	}
}

func TestZeroValuesDifference(t *testing.T) {
	var zero Date
	nowruz := MustDate(1403, 1, 1)
	if got := zero.DaysBetween(zero); got != 0 {
		t.Errorf("zero.DaysBetween(zero) = %d; want 0", got)
	}
	if a, b := zero.DaysBetween(nowruz), nowruz.DaysBetween(zero); a != -b || a <= 0 {
		t.Errorf("DaysBetween across the zero Date = %d and %d; want opposite signs", a, b)
	}

	var zeroDT DateTime
	noon := MustDateTime(1403, 1, 1, 12, 0, 0)
	if got := zeroDT.SecondsBetween(zeroDT); got != 0 {
		t.Errorf("zero.SecondsBetween(zero) = %d; want 0", got)
	}
	if a, b := zeroDT.SecondsBetween(noon), noon.SecondsBetween(zeroDT); a != -b || a <= 0 {
		t.Errorf("SecondsBetween across the zero DateTime = %d and %d; want opposite signs", a, b)
	}
}

func TestDateCompare(t *testing.T) {
	a := MustDate(1403, 5, 2)
	b := MustDate(1403, 5, 3)
	c := MustDate(1404, 1, 1)
	if !a.Before(b) || !b.Before(c) || !c.After(a) {
		t.Errorf("ordering of %v, %v, %v is wrong", a, b, c)
	}
	if a.Compare(MustDate(1403, 5, 2)) != 0 || !a.Equal(MustDate(1403, 5, 2)) {
		t.Errorf("%v does not equal itself", a)
	}
}

func TestWeekday(t *testing.T) {
	tests := []struct {
		date Date
		want Weekday
		name string
	}{
		{MustDate(1403, 1, 1), Chaharshanbeh, "چهارشنبه"},
		{MustDate(1404, 1, 1), Jomeh, "جمعه"},
		{MustDate(1403, 5, 2), Seshanbeh, "سه‌شنبه"},
		{MustDate(1357, 11, 22), Yekshanbeh, "یکشنبه"},
		{MustDate(1200, 6, 31), Shanbeh, "شنبه"},
		{MustDate(1, 1, 1), Panjshanbeh, "پنجشنبه"},
		{MustDate(1400, 1, 1), Yekshanbeh, "یکشنبه"},
	}
	for _, test := range tests {
		got, err := test.date.Weekday()
		if err != nil {
			t.Errorf("%v.Weekday(): %v", test.date, err)
			continue
		}
		if got != test.want || got.String() != test.name {
			t.Errorf("%v.Weekday() = %d (%s); want %d (%s)", test.date, got, got, test.want, test.name)
		}
	}
}

func TestWeekdayAdvancesDaily(t *testing.T) {
	d := MustDate(1402, 12, 20)
	prev, _ := d.Weekday()
	for i := 0; i < 30; i++ {
		next, err := d.AddDays(1)
		if err != nil {
			t.Fatal(err)
		}
		w, _ := next.Weekday()
		if w != (prev+1)%7 {
			t.Fatalf("%v.Weekday() = %d after %d", next, w, prev)
		}
		d, prev = next, w
	}
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		date Date
		want int
	}{
		{MustDate(1403, 1, 1), 1},
		{MustDate(1403, 1, 31), 31},
		{MustDate(1403, 2, 1), 32},
		{MustDate(1403, 7, 1), 187},
		{MustDate(1403, 12, 30), 366},
		{MustDate(1404, 12, 29), 365},
	}
	for _, test := range tests {
		got, err := test.date.Ordinal()
		if err != nil || got != test.want {
			t.Errorf("%v.Ordinal() = %d, %v; want %d", test.date, got, err, test.want)
		}
		back, err := FromOrdinal(test.date.Year(), got)
		if err != nil || !back.Equal(test.date) {
			t.Errorf("FromOrdinal(%d, %d) = %v, %v; want %v", test.date.Year(), got, back, err, test.date)
		}
	}
}

func TestFromOrdinalOutOfRange(t *testing.T) {
	for _, test := range []struct{ year, ordinal int }{
		{1403, 0},
		{1403, 367},
		{1404, 366},
	} {
		if _, err := FromOrdinal(test.year, test.ordinal); !errors.Is(err, ErrInvalidOrdinal) {
			t.Errorf("FromOrdinal(%d, %d) error = %v; want ErrInvalidOrdinal", test.year, test.ordinal, err)
		}
	}
}

func TestMonthAndYearBoundaries(t *testing.T) {
	d := MustDate(1403, 12, 15)
	got := []Date{d.FirstDayOfMonth(), d.LastDayOfMonth(), d.FirstDayOfYear(), d.LastDayOfYear()}
	want := []Date{MustDate(1403, 12, 1), MustDate(1403, 12, 30), MustDate(1403, 1, 1), MustDate(1403, 12, 30)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("boundaries of %v (-want +got):\n%s", d, diff)
	}

	d = MustDate(1404, 7, 9)
	got = []Date{d.FirstDayOfMonth(), d.LastDayOfMonth(), d.FirstDayOfYear(), d.LastDayOfYear()}
	want = []Date{MustDate(1404, 7, 1), MustDate(1404, 7, 30), MustDate(1404, 1, 1), MustDate(1404, 12, 29)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("boundaries of %v (-want +got):\n%s", d, diff)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b Date
		want int64
	}{
		{MustDate(1403, 1, 1), MustDate(1403, 2, 1), 31},
		{MustDate(1403, 2, 1), MustDate(1403, 1, 1), -31},
		{MustDate(1403, 1, 1), MustDate(1404, 1, 1), 366},
		{MustDate(1404, 1, 1), MustDate(1405, 1, 1), 365},
		{MustDate(1403, 5, 2), MustDate(1403, 5, 2), 0},
	}
	for _, test := range tests {
		if got := test.a.DaysBetween(test.b); got != test.want {
			t.Errorf("%v.DaysBetween(%v) = %d; want %d", test.a, test.b, got, test.want)
		}
		if got := test.b.DaysBetween(test.a); got != -test.want {
			t.Errorf("%v.DaysBetween(%v) = %d; want %d", test.b, test.a, got, -test.want)
		}
	}
}

func TestDateTextMarshalling(t *testing.T) {
	d := MustDate(1403, 5, 2)
	text, err := d.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "1403/05/02" {
		t.Errorf("MarshalText() = %q; want %q", text, "1403/05/02")
	}
	for _, in := range []string{"1403/05/02", "1403-05-02", " 1403/05/02 "} {
		var got Date
		if err := got.UnmarshalText([]byte(in)); err != nil {
			t.Errorf("UnmarshalText(%q): %v", in, err)
			continue
		}
		if !got.Equal(d) {
			t.Errorf("UnmarshalText(%q) = %v; want %v", in, got, d)
		}
	}
	var bad Date
	if err := bad.UnmarshalText([]byte("1404/12/30")); !errors.Is(err, &ParseError{Kind: InvalidDateValue}) {
		t.Errorf("UnmarshalText(1404/12/30) error = %v; want InvalidDateValue", err)
	}
}

func TestNewDateTime(t *testing.T) {
	dt, err := NewDateTime(1403, 5, 2, 10, 30, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := dt.String(); got != "1403/05/02 10:30:00" {
		t.Errorf("String() = %q", got)
	}
	if !dt.Date().Equal(MustDate(1403, 5, 2)) {
		t.Errorf("Date() = %v", dt.Date())
	}
	if _, err := NewDateTime(1404, 12, 30, 0, 0, 0); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("NewDateTime(1404/12/30) error = %v; want ErrInvalidDate", err)
	}
	for _, hms := range [][3]int{{24, 0, 0}, {0, 60, 0}, {0, 0, 60}, {-1, 0, 0}} {
		if _, err := NewDateTime(1403, 1, 1, hms[0], hms[1], hms[2]); !errors.Is(err, ErrInvalidTime) {
			t.Errorf("NewDateTime(..., %v) error = %v; want ErrInvalidTime", hms, err)
		}
	}
}

func TestDateTimeCompare(t *testing.T) {
	a := MustDateTime(1403, 5, 2, 10, 30, 0)
	b := MustDateTime(1403, 5, 2, 10, 30, 1)
	c := MustDateTime(1403, 5, 3, 0, 0, 0)
	if !a.Before(b) || !b.Before(c) || !c.After(a) || a.Compare(a) != 0 {
		t.Errorf("ordering of %v, %v, %v is wrong", a, b, c)
	}
	if got := a.SecondsBetween(c); got != 13*3600+30*60 {
		t.Errorf("SecondsBetween = %d", got)
	}
}

func TestMustDateTimePanicsOnInvalidFields(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("mustDateTime did not panic")
		}
	}()
	mustDateTime(Date{}, 0, 0, 0)
}

func TestDateTimeTextMarshalling(t *testing.T) {
	want := MustDateTime(1403, 5, 2, 10, 30, 0)
	for _, in := range []string{"1403/05/02 10:30:00", "1403-05-02T10:30:00"} {
		var got DateTime
		if err := got.UnmarshalText([]byte(in)); err != nil {
			t.Errorf("UnmarshalText(%q): %v", in, err)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("UnmarshalText(%q) = %v; want %v", in, got, want)
		}
	}
}
