package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"mitra/internal/calendar"
	"mitra/internal/core"
	"mitra/internal/events"
)

// monthWidth is seven 3-column cells with single spaces between them.
const monthWidth = 7*3 + 6

const legend = "*: Holiday  +: Other Event"

var (
	colorHoliday = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// calStyles are bound to the renderer of the output, so colors are only
// emitted to terminals.
type calStyles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	holiday lipgloss.Style
	today   lipgloss.Style
	plain   lipgloss.Style
}

func newCalStyles(w io.Writer) calStyles {
	r := lipgloss.NewRenderer(w)
	return calStyles{
		title:   r.NewStyle().Bold(true).Width(monthWidth).Align(lipgloss.Center),
		header:  r.NewStyle().Foreground(colorMuted),
		holiday: r.NewStyle().Foreground(colorHoliday),
		today:   r.NewStyle().Reverse(true),
		plain:   r.NewStyle(),
	}
}

// renderMonth draws g as a block of monthWidth columns: title, weekday
// header and one line per week.
func (s calStyles) renderMonth(g calendar.Grid) string {
	lines := []string{
		s.title.Render(g.Title),
		s.header.Render(strings.Join(calendar.WeekdayAbbrev[:], " ")),
	}
	for _, week := range g.Weeks {
		cells := make([]string, len(week))
		for i, c := range week {
			cells[i] = s.renderCell(c)
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

func (s calStyles) renderCell(c calendar.Cell) string {
	if c.Blank() {
		return "   "
	}
	ind := ' '
	if c.Indicator != 0 {
		ind = c.Indicator
	}
	text := fmt.Sprintf("%2d%c", c.Day, ind)
	switch {
	case c.Today:
		return s.today.Render(text)
	case c.Holiday:
		return s.holiday.Render(text)
	}
	return s.plain.Render(text)
}

func (s calStyles) row(grids []calendar.Grid) string {
	blocks := make([]string, 0, 2*len(grids))
	for i, g := range grids {
		if i > 0 {
			blocks = append(blocks, "  ")
		}
		blocks = append(blocks, s.renderMonth(g))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func newCalCmd(a *app) *cobra.Command {
	var (
		three    bool
		showYear int
	)
	cmd := &cobra.Command{
		Use:   "cal [month [year]]",
		Short: "Print a month calendar",
		Long: `Print the current month, a given month, three months around today (-3)
or a whole year (-y YEAR). Saturday is the first column; holidays and
Fridays are highlighted, * marks a holiday and + another event.`,
		Example: `  mitra cal
  mitra cal 1 1404
  mitra cal -3
  mitra cal -y 1403`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && (three || cmd.Flags().Changed("year")) {
				return errors.New("month and year arguments cannot be combined with -3 or -y")
			}
			now, err := a.current()
			if err != nil {
				return err
			}
			today := now.Date()
			w := cmd.OutOrStdout()
			s := newCalStyles(w)

			switch {
			case cmd.Flags().Changed("year"):
				grids, err := calendar.Year(showYear, today)
				if err != nil {
					return err
				}
				yearWidth := 3*monthWidth + 2*2
				fmt.Fprintln(w, s.title.Width(yearWidth).Render(strconv.Itoa(showYear)))
				for i := 0; i < 12; i += 3 {
					fmt.Fprintln(w, s.row(grids[i:i+3]))
					fmt.Fprintln(w)
				}
			case three:
				grids, err := calendar.Quarter(today)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, s.row(grids[:]))
			default:
				year, month := today.Year(), today.Month()
				if len(args) > 0 {
					if month, err = strconv.Atoi(args[0]); err != nil || month < 1 || month > 12 {
						return fmt.Errorf("month %q must be between 1 and 12", args[0])
					}
				}
				if len(args) > 1 {
					if year, err = strconv.Atoi(args[1]); err != nil {
						return fmt.Errorf("year %q is not a number", args[1])
					}
				}
				g, err := calendar.Month(year, month, today)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, s.renderMonth(g))
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, legend)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&three, "three", "3", false, "show the previous, current and next month")
	cmd.Flags().IntVarP(&showYear, "year", "y", 0, "show every month of `YEAR`")
	cmd.MarkFlagsMutuallyExclusive("three", "year")
	return cmd
}

func newEventsCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events <date>",
		Short: "List the events on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, _, err := core.ParseInput(args[0])
			if err != nil {
				return err
			}
			d := dt.Date()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Events for %s:\n", d.Format("%A، %d %B %Y"))
			evs := events.ForDate(d.Year(), d.Month(), d.Day())
			if len(evs) == 0 {
				fmt.Fprintln(w, "  - No events found.")
				return nil
			}
			for _, e := range evs {
				prefix := "- "
				if e.Holiday {
					prefix = "[تعطیل] "
				}
				fmt.Fprintf(w, "  %s%s\n", prefix, e.Title)
			}
			return nil
		},
	}
}
