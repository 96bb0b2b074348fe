package sitestat

import "context"

// Fetcher retrieves raw markup from URLs.
type Fetcher interface {
	// Fetch returns the body of the page at url.
	// A non-success response is reported as a *TransportError.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter throttles requests per host.
type DomainLimiter interface {
	// Wait blocks until a request to host is allowed or ctx is done.
	Wait(ctx context.Context, host string) error
}
