// Package rod provides a headless Chrome implementation of sitestat.Fetcher
// for pages that need JavaScript to render their ranking panels.
package rod

import (
	"context"
	neturl "net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/sitestat"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load including rendering.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements sitestat.Fetcher at compile time.
var _ sitestat.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation. The
// browser is recycled by a BrowserManager after a number of pages.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
	limiter sitestat.DomainLimiter
	opts    []ManagerOption
	closed  atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout of a single fetch.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithLimiter throttles fetches per host.
func WithLimiter(l sitestat.DomainLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithRecycleAfter sets the number of pages after which the browser is
// replaced. Defaults to DefaultMaxPages.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.opts = append(f.opts, WithMaxPages(n))
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.opts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to url and returns the rendered HTML. A document
// response with a status other than 200 is reported as
// *sitestat.TransportError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", sitestat.Errorf(sitestat.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.limiter != nil {
		u, err := neturl.Parse(url)
		if err != nil {
			return "", sitestat.Errorf(sitestat.EINVALID, "invalid URL %q", url)
		}
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()
	page = page.Context(ctx)

	var status int
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(url); err != nil {
		return "", contextErr(ctx, err)
	}
	waitResponse()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if status != 0 && status != 200 {
		return "", &sitestat.TransportError{URL: url, StatusCode: status}
	}

	if err := page.WaitLoad(); err != nil {
		return "", contextErr(ctx, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", contextErr(ctx, err)
	}

	f.manager.IncrementPageCount()
	return html, nil
}

// contextErr prefers the context error over the browser error it caused.
func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the current browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
