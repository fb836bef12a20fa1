// Package calendar lays out Persian months as week grids for the terminal
// and HTML views.
package calendar

import (
	"fmt"
	"strconv"

	"mitra/internal/events"
	"mitra/internal/jalali"
)

// WeekdayAbbrev are the column headers of a grid, Saturday first.
var WeekdayAbbrev = [7]string{"Sat", "Sun", "Mon", "Tue", "Wed", "Thu", "Fri"}

// Cell is one day of a month grid. A zero Day marks padding before the
// first or after the last day of the month.
type Cell struct {
	Day       int
	Indicator rune
	Holiday   bool
	Today     bool
}

// Blank reports whether the cell is padding.
func (c Cell) Blank() bool { return c.Day == 0 }

// Grid is a month laid out in Saturday-first weeks.
type Grid struct {
	Year  int
	Month int
	// Title is the Persian month name followed by the year.
	Title string
	Weeks [][7]Cell
}

// Month builds the grid for year/month. Cells are marked from the default
// event table; Fridays are holidays. today highlights at most one cell.
func Month(year, month int, today jalali.Date) (Grid, error) {
	return MonthWith(events.Default(), year, month, today)
}

// MonthWith is Month with an explicit event table.
func MonthWith(tbl *events.Table, year, month int, today jalali.Date) (Grid, error) {
	first, err := jalali.NewDate(year, month, 1)
	if err != nil {
		return Grid{}, fmt.Errorf("calendar: %d/%d: %w", year, month, err)
	}
	wd, err := first.Weekday()
	if err != nil {
		return Grid{}, err
	}

	g := Grid{
		Year:  year,
		Month: month,
		Title: jalali.MonthName(month) + " " + strconv.Itoa(year),
	}
	var week [7]Cell
	col := int(wd)
	for day := 1; day <= first.DaysInMonth(); day++ {
		ind := tbl.Indicator(month, day)
		week[col] = Cell{
			Day:       day,
			Indicator: ind,
			Holiday:   ind == events.HolidayIndicator || jalali.Weekday(col) == jalali.Jomeh,
			Today:     today.Year() == year && today.Month() == month && today.Day() == day,
		}
		col++
		if col == 7 {
			g.Weeks = append(g.Weeks, week)
			week, col = [7]Cell{}, 0
		}
	}
	if col > 0 {
		g.Weeks = append(g.Weeks, week)
	}
	return g, nil
}

// Quarter returns the months before, of and after today.
func Quarter(today jalali.Date) ([3]Grid, error) {
	var out [3]Grid
	for i, delta := range []int{-1, 0, 1} {
		d, err := today.FirstDayOfMonth().AddMonths(delta)
		if err != nil {
			return out, fmt.Errorf("calendar: quarter around %v: %w", today, err)
		}
		if out[i], err = Month(d.Year(), d.Month(), today); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Year returns the twelve months of year.
func Year(year int, today jalali.Date) ([12]Grid, error) {
	var out [12]Grid
	for m := 1; m <= 12; m++ {
		g, err := Month(year, m, today)
		if err != nil {
			return out, err
		}
		out[m-1] = g
	}
	return out, nil
}
