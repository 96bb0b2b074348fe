package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/sitestat"
)

// Ensure LoggingDetector implements sitestat.PageDetector.
var _ sitestat.PageDetector = (*LoggingDetector)(nil)

// LoggingDetector wraps a PageDetector with debug logging.
type LoggingDetector struct {
	next   sitestat.PageDetector
	logger *slog.Logger
}

// NewLoggingDetector creates a new LoggingDetector.
func NewLoggingDetector(next sitestat.PageDetector, logger *slog.Logger) *LoggingDetector {
	return &LoggingDetector{next: next, logger: logger}
}

// Detect delegates to the wrapped detector and logs the detected kind.
func (d *LoggingDetector) Detect(html string) sitestat.PageKind {
	begin := time.Now()
	kind := d.next.Detect(html)
	name := string(kind)
	if kind == sitestat.PageUnknown {
		name = "(unknown)"
	}
	d.logger.Debug("page detection",
		"kind", name,
		"bytes", len(html),
		"duration", time.Since(begin),
	)
	return kind
}
