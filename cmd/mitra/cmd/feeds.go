package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mitra/internal/core"
	"mitra/internal/events"
	"mitra/internal/ics"
	"mitra/internal/jalali"
	appLog "mitra/internal/log"
	"mitra/internal/messages"
	"mitra/internal/schedule"
)

func (a *app) newAgenda() *ics.Agenda {
	return ics.NewAgenda(ics.NewFetcher(a.cfg.CacheDir, nil), ics.SourcesFromConfig(a.cfg.ICS), a.loc)
}

func newExportCmd(a *app) *cobra.Command {
	var (
		year   int
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a year of events as iCalendar",
		Long: `Write the calendar events of a Persian year as an iCalendar file, one
all-day event per entry. Holidays are marked busy. UIDs are stable, so
importing the same year twice updates instead of duplicating.`,
		Example: `  mitra export --year 1404 -o 1404.ics`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("year") {
				now, err := a.current()
				if err != nil {
					return err
				}
				year = now.Year()
			}
			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := ics.Export(w, events.Default(), year, a.now()); err != nil {
				return err
			}
			if output != "" {
				appLog.Info("exported events", "year", year, "path", output)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Persian year to export (default: this year)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to `FILE` instead of stdout")
	return cmd
}

func newAgendaCmd(a *app) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "List upcoming events from the subscribed ICS feeds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if len(a.cfg.ICS) == 0 {
				fmt.Fprintln(w, "No ICS sources configured.")
				return nil
			}
			if days <= 0 {
				days = a.cfg.HorizonDays
			}
			now, err := a.current()
			if err != nil {
				return err
			}
			occ, err := a.newAgenda().Occurrences(cmd.Context(), now.Date(), days)
			if err != nil {
				return err
			}
			if len(occ) == 0 {
				fmt.Fprintf(w, "Nothing in the next %d days.\n", days)
				return nil
			}
			for _, o := range occ {
				when := "all day"
				if !o.AllDay {
					when = o.Start.In(a.loc).Format("15:04")
				}
				wd, err := o.PersianStart.Weekday()
				if err != nil {
					return messages.Wrap(err, "getting weekday")
				}
				fmt.Fprintf(w, "%s %-8s %-7s %s\n", o.PersianStart, wd, when, o.Summary)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "number of days to show (default: horizon_days)")
	return cmd
}

func newNextCmd(a *app) *cobra.Command {
	var (
		count int
		from  string
	)
	cmd := &cobra.Command{
		Use:   "next <cron>",
		Short: "Show the next runs of a cron schedule as Persian date-times",
		Long: `Print the next times a standard five-field cron expression (or a
descriptor such as @daily) fires, on the configured time zone's clock.`,
		Example: `  mitra next "0 8 * * 6" -n 4
  mitra next @monthly --from 1403/12/01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := a.current()
			if from != "" {
				start, _, err = core.ParseInput(from)
			}
			if err != nil {
				return err
			}
			runs, err := schedule.Next(args[0], start, count, a.loc)
			for _, r := range runs {
				wd, werr := r.Date().Weekday()
				if werr != nil {
					return messages.Wrap(werr, "getting weekday")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", r.Format(jalali.LayoutDateTime), wd)
			}
			return err
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of runs")
	cmd.Flags().StringVar(&from, "from", "", "start after this date or date-time (default: now)")
	return cmd
}
