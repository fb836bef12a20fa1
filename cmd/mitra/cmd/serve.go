package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mitra/internal/capture"
	appLog "mitra/internal/log"
	"mitra/internal/schedule"
	"mitra/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar page and JSON API",
		Long: `Serve /calendar, /api/* and /preview.png. ICS feeds are refreshed on the
"refresh" schedule; with snapshot.enabled the /calendar page is captured
to snapshot.output on snapshot.cron.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// CLI --listen overrides config file listen if provided.
			if listen != "" {
				a.cfg.Listen = listen
			}
			appLog.Info("effective config",
				"listen", a.cfg.Listen,
				"timezone", a.loc.String(),
				"refresh", a.cfg.RefreshCron,
				"horizon_days", a.cfg.HorizonDays,
				"ics_count", len(a.cfg.ICS),
				"snapshot", a.cfg.Snapshot.Enabled,
			)

			// Root context with cancellation on SIGINT/SIGTERM.
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case sig := <-sigCh:
					appLog.Info("signal received, shutting down", "signal", sig.String())
					cancel()
				case <-ctx.Done():
				}
			}()

			agenda := a.newAgenda()
			runner := schedule.NewRunner(a.loc)
			if len(agenda.Sources()) > 0 {
				if err := runner.Add(a.cfg.RefreshCron, "ics-refresh", agenda.Refresh); err != nil {
					return err
				}
			}
			if a.cfg.Snapshot.Enabled {
				opts := capture.OptionsFor(a.cfg, localURL(a.cfg.Listen))
				err := runner.Add(a.cfg.Snapshot.Cron, "snapshot", func(ctx context.Context) error {
					return capture.CaptureToFile(ctx, opts)
				})
				if err != nil {
					return err
				}
			}
			runner.Start()
			defer func() {
				stopCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
				defer stop()
				if err := runner.Stop(stopCtx); err != nil {
					appLog.Error("scheduler did not stop cleanly", err)
				}
			}()

			err := web.NewServer(a.cfg, agenda).Run(ctx)
			appLog.Info("mitra exiting")
			return err
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}

// localURL is the base URL under which this process reaches a server
// listening on addr.
func localURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func newSnapshotCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture the month page as a PNG once",
		Long: `Start the calendar page on a loopback port, capture it with headless
Chromium and write the PNG to snapshot.output (or --output).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return err
			}
			srv := &http.Server{
				Handler:           web.NewServer(a.cfg, a.newAgenda()).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					appLog.Error("snapshot server failed", err)
				}
			}()
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}()

			opts := capture.OptionsFor(a.cfg, "http://"+ln.Addr().String())
			if output != "" {
				opts.Output = output
			}
			if err := capture.CaptureToFile(cmd.Context(), opts); err != nil {
				return err
			}
			appLog.Info("snapshot written", "path", opts.Output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG path (default: snapshot.output)")
	return cmd
}
