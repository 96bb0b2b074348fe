package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/sitestat"
	"github.com/fwojciec/sitestat/mock"
	sitestatslog "github.com/fwojciec/sitestat/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingDetector_Detect(t *testing.T) {
	t.Parallel()

	t.Run("logs detected page kind", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.PageDetector{
			DetectFn: func(string) sitestat.PageKind { return sitestat.PageWhois },
		}

		kind := sitestatslog.NewLoggingDetector(inner, logger).Detect("<html></html>")

		assert.Equal(t, sitestat.PageWhois, kind)
		assert.Contains(t, buf.String(), "kind=whois")
		assert.Contains(t, buf.String(), "bytes=13")
	})

	t.Run("logs unknown kind readably", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.PageDetector{
			DetectFn: func(string) sitestat.PageKind { return sitestat.PageUnknown },
		}

		kind := sitestatslog.NewLoggingDetector(inner, logger).Detect("")

		assert.Equal(t, sitestat.PageUnknown, kind)
		assert.Contains(t, buf.String(), "kind=(unknown)")
	})
}
