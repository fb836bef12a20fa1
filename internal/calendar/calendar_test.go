package calendar

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mitra/internal/jalali"
)

func TestMonthFarvardin1403(t *testing.T) {
	today := jalali.MustDate(1403, 1, 13)
	g, err := Month(1403, 1, today)
	if err != nil {
		t.Fatal(err)
	}
	if g.Title != "فروردین 1403" {
		t.Errorf("Title = %q", g.Title)
	}
	// 1403/01/01 is a Wednesday.
	var days [][7]int
	for _, w := range g.Weeks {
		var row [7]int
		for i, c := range w {
			row[i] = c.Day
		}
		days = append(days, row)
	}
	want := [][7]int{
		{0, 0, 0, 0, 1, 2, 3},
		{4, 5, 6, 7, 8, 9, 10},
		{11, 12, 13, 14, 15, 16, 17},
		{18, 19, 20, 21, 22, 23, 24},
		{25, 26, 27, 28, 29, 30, 31},
	}
	if diff := cmp.Diff(want, days); diff != "" {
		t.Errorf("day layout (-want +got):\n%s", diff)
	}

	cells := []struct {
		week, col int
		want      Cell
	}{
		{0, 4, Cell{Day: 1, Indicator: '*', Holiday: true}},
		{0, 6, Cell{Day: 3, Indicator: '*', Holiday: true}},
		{1, 1, Cell{Day: 5}},
		{1, 6, Cell{Day: 10, Holiday: true}},
		{2, 2, Cell{Day: 13, Indicator: '*', Holiday: true, Today: true}},
		{3, 0, Cell{Day: 18}},
		{4, 0, Cell{Day: 25, Indicator: '+'}},
	}
	for _, c := range cells {
		if diff := cmp.Diff(c.want, g.Weeks[c.week][c.col]); diff != "" {
			t.Errorf("cell [%d][%d] (-want +got):\n%s", c.week, c.col, diff)
		}
	}
	if !g.Weeks[0][0].Blank() {
		t.Error("leading cell is not blank")
	}
}

func TestMonthRejectsInvalidMonth(t *testing.T) {
	for _, m := range []int{0, 13} {
		if _, err := Month(1403, m, jalali.Date{}); err == nil {
			t.Errorf("Month(1403, %d) succeeded", m)
		}
	}
}

func TestQuarterCrossesYears(t *testing.T) {
	q, err := Quarter(jalali.MustDate(1403, 1, 10))
	if err != nil {
		t.Fatal(err)
	}
	var got [][2]int
	for _, g := range q {
		got = append(got, [2]int{g.Year, g.Month})
	}
	want := [][2]int{{1402, 12}, {1403, 1}, {1403, 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Quarter (-want +got):\n%s", diff)
	}
}

func TestYearCoversEveryDay(t *testing.T) {
	for _, year := range []int{1403, 1404} {
		months, err := Year(year, jalali.Date{})
		if err != nil {
			t.Fatal(err)
		}
		n := 0
		for _, g := range months {
			for _, w := range g.Weeks {
				for _, c := range w {
					if !c.Blank() {
						n++
					}
					if c.Today {
						t.Errorf("%s: cell %d marked today", g.Title, c.Day)
					}
				}
			}
		}
		if n != jalali.DaysInYear(year) {
			t.Errorf("Year(%d) has %d days; want %d", year, n, jalali.DaysInYear(year))
		}
	}
}
