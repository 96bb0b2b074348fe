package slog

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/sitestat"
)

// Ensure LoggingFetcher implements sitestat.Fetcher.
var _ sitestat.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with page fetch logging. Successful
// fetches are logged at info, failures at warn with the HTTP status when
// the page was answered with one.
type LoggingFetcher struct {
	next   sitestat.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next sitestat.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, rawURL string) (html string, err error) {
	defer func(begin time.Time) {
		redacted := redactURL(rawURL)
		attrs := []any{
			"host", hostOf(rawURL),
			"url", redacted,
			"duration", time.Since(begin),
		}
		if err == nil {
			f.logger.InfoContext(ctx, "page fetched", append(attrs, "bytes", len(html))...)
			return
		}

		var te *sitestat.TransportError
		if errors.As(err, &te) {
			attrs = append(attrs, "status", te.StatusCode)
		}
		msg := err.Error()
		if redacted != rawURL {
			msg = strings.ReplaceAll(msg, rawURL, redacted)
		}
		f.logger.WarnContext(ctx, "page fetch failed", append(attrs, "err", msg)...)
	}(time.Now())
	return f.next.Fetch(ctx, rawURL)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// redactURL drops the query and fragment, which may carry credentials
// such as request signatures.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil
	return u.String()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
