// Package capture renders the calendar page to PNG with headless Chromium.
package capture

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"mitra/internal/config"
	"mitra/internal/convert"
	appLog "mitra/internal/log"
)

// Defaults match the 800x480 panel layout of the /calendar page.
const (
	DefaultWidth   = 800
	DefaultHeight  = 480
	DefaultTimeout = 30 * time.Second
)

// ReadySelector is the element the /calendar page marks once rendered.
const ReadySelector = `[data-ready="true"]`

// Options defines one capture.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/calendar".
	URL string
	// Output is where the PNG is written by CaptureToFile.
	Output string
	// Width and Height are the viewport in pixels; zero means the default.
	Width, Height int
	// Timeout bounds the whole capture; zero means DefaultTimeout.
	Timeout time.Duration
	// Username and Password, when set, are sent as HTTP Basic credentials.
	Username, Password string
	// Inks makes CaptureToFile write a black/red/white paletted PNG.
	Inks bool
}

// OptionsFor builds the capture of the /calendar page served at baseURL
// from the snapshot and auth settings.
func OptionsFor(cfg *config.Config, baseURL string) Options {
	o := Options{
		URL:    baseURL + "/calendar",
		Output: cfg.Snapshot.Output,
		Width:  cfg.Snapshot.Width,
		Height: cfg.Snapshot.Height,
		Inks:   cfg.Snapshot.Inks,
	}
	if cfg.BasicAuth != nil {
		o.Username, o.Password = cfg.BasicAuth.Username, cfg.BasicAuth.Password
	}
	return o
}

func (o Options) withDefaults() (Options, error) {
	if o.URL == "" {
		return o, errors.New("capture: URL is required")
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o, nil
}

func (o Options) headers() network.Headers {
	if o.Username == "" && o.Password == "" {
		return nil
	}
	token := base64.StdEncoding.EncodeToString([]byte(o.Username + ":" + o.Password))
	return network.Headers{"Authorization": "Basic " + token}
}

// Capture loads opts.URL in headless Chromium, waits for ReadySelector to
// become visible and returns a PNG of the viewport.
func Capture(parent context.Context, opts Options) ([]byte, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height))}
	if h := opts.headers(); h != nil {
		tasks = append(tasks, network.Enable(), network.SetExtraHTTPHeaders(h))
	}
	tasks = append(tasks,
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		chromedp.CaptureScreenshot(&png),
	)
	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("capture: %s: %w", opts.URL, err)
	}
	return png, nil
}

// CaptureToFile captures and writes the PNG to opts.Output, replacing any
// previous file atomically.
func CaptureToFile(ctx context.Context, opts Options) error {
	if opts.Output == "" {
		return errors.New("capture: output path is required")
	}
	png, err := Capture(ctx, opts)
	if err != nil {
		return err
	}
	if opts.Inks {
		if png, err = convert.InkPNG(png); err != nil {
			return err
		}
	}
	dir := filepath.Dir(opts.Output)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".mitra-snapshot-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(png); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), opts.Output); err != nil {
		return err
	}
	appLog.Info("snapshot written", "path", opts.Output, "bytes", len(png))
	return nil
}
