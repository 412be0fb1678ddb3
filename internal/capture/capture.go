// Package capture renders the /calendar page to a PNG with headless
// Chromium.
package capture

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/chromedp"

	appLog "holical/internal/log"
)

const (
	DefaultWidth   = 1200
	DefaultHeight  = 900
	DefaultTimeout = 30 * time.Second

	// readySelector is set by the calendar template once the grid is in
	// the DOM.
	readySelector = `[data-ready="true"]`
)

// Options configures one snapshot.
type Options struct {
	// URL of the page, e.g. "http://127.0.0.1:8080/calendar?year=2025&month=1".
	URL string

	// OutputPath receives the PNG.
	OutputPath string

	// Width and Height of the viewport. Zero means the defaults.
	Width  int
	Height int

	Timeout time.Duration
}

func (o *Options) normalize() error {
	if o.URL == "" {
		return errors.New("capture: URL is required")
	}
	u, err := url.Parse(o.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("capture: URL %q must be absolute http(s)", o.URL)
	}
	if o.OutputPath == "" {
		return errors.New("capture: OutputPath is required")
	}
	if o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("capture: negative viewport %dx%d", o.Width, o.Height)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return nil
}

// Snapshot navigates to opts.URL, waits for the month grid to report
// ready and writes a full-page screenshot to opts.OutputPath.
func Snapshot(parent context.Context, opts Options) error {
	if err := opts.normalize(); err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parent)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	start := time.Now()
	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(readySelector, chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	appLog.Info("calendar snapshot written",
		"path", opts.OutputPath,
		"bytes", len(png),
		"elapsed", time.Since(start).String(),
	)
	return nil
}
