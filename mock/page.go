package mock

import "github.com/fwojciec/sitestat"

var _ sitestat.PageDetector = (*PageDetector)(nil)

// PageDetector is a mock implementation of sitestat.PageDetector.
type PageDetector struct {
	DetectFn func(html string) sitestat.PageKind
}

func (d *PageDetector) Detect(html string) sitestat.PageKind {
	return d.DetectFn(html)
}
