package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mitra/internal/config"
	"mitra/internal/events"
	"mitra/internal/jalali"
	appLog "mitra/internal/log"
	"mitra/internal/messages"
)

// Version is overridden at build time with -ldflags "-X mitra/cmd/mitra/cmd.Version=...".
var Version = "0.1.0-dev"

// app carries what every subcommand needs once the root has run its
// pre-run: the loaded config and the clock.
type app struct {
	cfgFile string
	verbose bool

	cfg *config.Config
	loc *time.Location
	now func() time.Time
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mitra",
		Short: "Persian (Jalali) calendar tool",
		Long: `mitra converts, formats and does arithmetic on Persian (Jalali/Shamsi)
dates, prints month calendars with holidays and events, and serves a
calendar page and JSON API.

Dates are written YYYY/MM/DD or YYYY-MM-DD, date-times
YYYY/MM/DD HH:MM:SS or YYYY-MM-DDTHH:MM:SS. Without a subcommand the
current date and time are printed.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		Args:              cobra.NoArgs,
		RunE:              a.runNow,
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newNowCmd(a),
		newAddCmd(a),
		newSubCmd(a),
		newFormatCmd(a),
		newDiffCmd(a),
		newWeekdayCmd(a),
		newToGregorianCmd(a),
		newFromGregorianCmd(a),
		newIsLeapCmd(a),
		newInfoCmd(a),
		newParseCmd(a),
		newEventsCmd(a),
		newCalCmd(a),
		newExportCmd(a),
		newAgendaCmd(a),
		newNextCmd(a),
		newServeCmd(a),
		newSnapshotCmd(a),
		newVersionCmd(a),
	)
	return root
}

// Execute runs the command line and prints any error to stderr.
func Execute() error {
	root := newRootCmd(&app{now: time.Now})
	err := root.Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	appLog.Sync()
	return err
}

// setup loads the config, applies the log level and installs a custom
// event table.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	switch {
	case cfg == nil:
		return err
	case err != nil:
		// The default config could not be written; run with it anyway.
		appLog.Debug("config not saved", "path", path, "err", err)
	}
	a.cfg = cfg

	level := appLog.ParseLevel(cfg.LogLevel)
	if a.verbose {
		level = appLog.LevelDebug
	}
	appLog.SetLevel(level)

	if a.loc, err = cfg.Location(); err != nil {
		return err
	}
	if cfg.EventsFile != "" {
		if err := events.Load(cfg.EventsFile); err != nil {
			return err
		}
	}
	appLog.Debug("config loaded", "path", path, "timezone", a.loc.String(), "command", cmd.Name())
	return nil
}

// current is the Persian date and time on the configured zone's clock.
func (a *app) current() (jalali.DateTime, error) {
	dt, err := jalali.FromGregorian(a.now().In(a.loc))
	return dt, messages.Wrap(err, "reading the clock")
}

// printError writes err the way users should see it: engine errors as
// sentences, everything else as is.
func printError(w io.Writer, err error) {
	var me *messages.Error
	if errors.As(err, &me) {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintln(w, "Error:", messages.Describe(err))
}

func newVersionCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "mitra", Version)
		},
	}
}
