package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mitra/internal/core"
	"mitra/internal/jalali"
	"mitra/internal/messages"
)

const inputHelp = "Dates are YYYY/MM/DD or YYYY-MM-DD; date-times YYYY/MM/DD HH:MM:SS or YYYY-MM-DDTHH:MM:SS."

func (a *app) runNow(cmd *cobra.Command, _ []string) error {
	dt, err := a.current()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dt)
	return nil
}

func newNowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Print the current Persian date and time",
		Args:  cobra.NoArgs,
		RunE:  a.runNow,
	}
}

func newAddCmd(_ *app) *cobra.Command {
	var d struct {
		days, hours, minutes, seconds int64
		months, years                 int
	}
	cmd := &cobra.Command{
		Use:   "add <date> --days|--months|--years|--hours|--minutes|--seconds N",
		Short: "Add a duration to a date or date-time",
		Long: `Add exactly one of days, months, years, hours, minutes or seconds.
Negative amounts move backwards. Month and year steps clamp the day to
the end of the target month. ` + inputHelp,
		Example: `  mitra add 1403/12/30 --days 1
  mitra add "1403/01/31 10:00:00" --months 6`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, withTime, err := core.ParseInput(args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			var delta core.Delta
			if f.Changed("days") {
				delta.Days = &d.days
			}
			if f.Changed("months") {
				delta.Months = &d.months
			}
			if f.Changed("years") {
				delta.Years = &d.years
			}
			if f.Changed("hours") {
				delta.Hours, withTime = &d.hours, true
			}
			if f.Changed("minutes") {
				delta.Minutes, withTime = &d.minutes, true
			}
			if f.Changed("seconds") {
				delta.Seconds, withTime = &d.seconds, true
			}
			out, err := core.Add(base, delta)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), core.Render(out, withTime))
			return nil
		},
	}
	f := cmd.Flags()
	f.Int64Var(&d.days, "days", 0, "days to add")
	f.IntVar(&d.months, "months", 0, "months to add")
	f.IntVar(&d.years, "years", 0, "years to add")
	f.Int64Var(&d.hours, "hours", 0, "hours to add")
	f.Int64Var(&d.minutes, "minutes", 0, "minutes to add")
	f.Int64Var(&d.seconds, "seconds", 0, "seconds to add")
	cmd.MarkFlagsMutuallyExclusive("days", "months", "years", "hours", "minutes", "seconds")
	return cmd
}

func newSubCmd(_ *app) *cobra.Command {
	var d struct {
		days, hours, minutes, seconds uint64
		months, years                 uint
	}
	cmd := &cobra.Command{
		Use:   "sub <date> --days|--months|--years|--hours|--minutes|--seconds N",
		Short: "Subtract a duration from a date or date-time",
		Long:  "Subtract exactly one non-negative amount of days, months, years, hours, minutes or seconds. " + inputHelp,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, withTime, err := core.ParseInput(args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			var delta core.SubDelta
			if f.Changed("days") {
				delta.Days = &d.days
			}
			if f.Changed("months") {
				delta.Months = &d.months
			}
			if f.Changed("years") {
				delta.Years = &d.years
			}
			if f.Changed("hours") {
				delta.Hours, withTime = &d.hours, true
			}
			if f.Changed("minutes") {
				delta.Minutes, withTime = &d.minutes, true
			}
			if f.Changed("seconds") {
				delta.Seconds, withTime = &d.seconds, true
			}
			out, err := core.Sub(base, delta)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), core.Render(out, withTime))
			return nil
		},
	}
	f := cmd.Flags()
	f.Uint64Var(&d.days, "days", 0, "days to subtract")
	f.UintVar(&d.months, "months", 0, "months to subtract")
	f.UintVar(&d.years, "years", 0, "years to subtract")
	f.Uint64Var(&d.hours, "hours", 0, "hours to subtract")
	f.Uint64Var(&d.minutes, "minutes", 0, "minutes to subtract")
	f.Uint64Var(&d.seconds, "seconds", 0, "seconds to subtract")
	cmd.MarkFlagsMutuallyExclusive("days", "months", "years", "hours", "minutes", "seconds")
	return cmd
}

func newFormatCmd(a *app) *cobra.Command {
	var style, pattern string
	cmd := &cobra.Command{
		Use:   "format <date>",
		Short: "Format a date with a style or pattern",
		Long: `Format a date or date-time with --style (short, long, iso) or a
--pattern of %Y %m %d %B %A %j %H %M %S %T %% specifiers. Without either
the default_pattern from the config is used. ` + inputHelp,
		Example: `  mitra format 1403/05/02 --style long
  mitra format "1403/05/02 14:30:00" -p "%A %d %B %Y ساعت %H:%M"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, withTime, err := core.ParseInput(args[0])
			if err != nil {
				return err
			}
			var out string
			switch {
			case style != "":
				if out, err = core.Styled(dt, withTime, style); err != nil {
					return err
				}
			case pattern != "":
				out = dt.Format(pattern)
			default:
				out = dt.Format(a.cfg.DefaultPattern)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&style, "style", "", "short, long or iso")
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "format pattern")
	cmd.MarkFlagsMutuallyExclusive("style", "pattern")
	return cmd
}

func newDiffCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <date> <date>",
		Short: "Print the number of days between two dates",
		Long:  "Print the absolute number of days between two dates; times of day are ignored. " + inputHelp,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := core.ParseInput(args[0])
			if err != nil {
				return err
			}
			b, _, err := core.ParseInput(args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Difference: %d days\n", core.DaysDiff(a, b))
			return nil
		},
	}
}

func newWeekdayCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "weekday <date>",
		Short: "Print the Persian weekday of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, _, err := core.ParseInput(args[0])
			if err != nil {
				return err
			}
			wd, err := dt.Date().Weekday()
			if err != nil {
				return messages.Wrap(err, "getting weekday")
			}
			fmt.Fprintln(cmd.OutOrStdout(), wd)
			return nil
		},
	}
}

func newToGregorianCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "to-gregorian <date>",
		Short: "Convert a Persian date to Gregorian",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, withTime, err := core.ParseInput(args[0])
			if err != nil {
				return err
			}
			t, err := dt.ToGregorian()
			if err != nil {
				return messages.Wrap(err, "converting to Gregorian")
			}
			fmt.Fprintln(cmd.OutOrStdout(), core.RenderGregorian(t, withTime))
			return nil
		},
	}
}

func newFromGregorianCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "from-gregorian <date>",
		Short: "Convert a Gregorian date to Persian",
		Long:  "Convert a Gregorian YYYY-MM-DD, YYYY-MM-DD HH:MM:SS or YYYY-MM-DDTHH:MM:SS to the Persian calendar.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, withTime, err := core.ParseGregorianInput(args[0])
			if err != nil {
				return err
			}
			dt, err := jalali.FromGregorian(t)
			if err != nil {
				return messages.Wrap(err, "converting from Gregorian")
			}
			fmt.Fprintln(cmd.OutOrStdout(), core.Render(dt, withTime))
			return nil
		},
	}
}

func newIsLeapCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "is-leap <year>",
		Short: "Report whether a Persian year is a leap year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("year %q is not a number", args[0])
			}
			answer := "No"
			if jalali.IsLeapYear(year) {
				answer = "Yes"
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

func newInfoCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <date>",
		Short: "Show details about a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, withTime, err := core.ParseInput(args[0])
			if err != nil {
				return err
			}
			info, err := core.Info(dt, withTime)
			if err != nil {
				return err
			}
			leap := "No"
			if info.LeapYear {
				leap = "Yes"
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Input: %s\n", args[0])
			fmt.Fprintln(w, "-------------------------")
			fmt.Fprintf(w, " Date: %s\n", info.Date)
			if info.Time != "" {
				fmt.Fprintf(w, " Time: %s\n", info.Time)
			}
			fmt.Fprintf(w, " Weekday: %s\n", info.Weekday)
			fmt.Fprintf(w, " Day of Year: %d\n", info.DayOfYear)
			fmt.Fprintf(w, " Days in Month: %d\n", info.DaysInMonth)
			fmt.Fprintf(w, " Leap Year: %s\n", leap)
			fmt.Fprintf(w, " Gregorian: %s\n", info.Gregorian)
			fmt.Fprintf(w, " First Day of Month: %s\n", info.FirstDayOfMonth)
			fmt.Fprintf(w, " Last Day of Month: %s\n", info.LastDayOfMonth)
			fmt.Fprintf(w, " First Day of Year: %s\n", info.FirstDayOfYear)
			fmt.Fprintf(w, " Last Day of Year: %s\n", info.LastDayOfYear)
			return nil
		},
	}
}

func newParseCmd(_ *app) *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "parse <input> --pattern <pattern>",
		Short: "Parse a string with an explicit pattern",
		Long: `Parse input with the given pattern. A pattern containing %H, %M, %S
or %T yields a date-time, otherwise a date. %A and %j cannot be parsed.`,
		Example: `  mitra parse "02 مرداد 1403" -p "%d %B %Y"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if jalali.HasTimeSpecifier(pattern) {
				dt, err := jalali.ParseDateTime(args[0], pattern)
				if err != nil {
					return messages.Wrap(err, "parsing date-time")
				}
				fmt.Fprintln(w, "Parsed DateTime:", dt)
				return nil
			}
			d, err := jalali.ParseDate(args[0], pattern)
			if err != nil {
				return messages.Wrap(err, "parsing date")
			}
			fmt.Fprintln(w, "Parsed Date:", d)
			return nil
		},
	}
	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "parse pattern")
	_ = cmd.MarkFlagRequired("pattern")
	return cmd
}
