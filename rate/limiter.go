// Package rate throttles page fetches per host with token buckets from
// golang.org/x/time/rate.
package rate

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/sitestat"
	"golang.org/x/time/rate"
)

var _ sitestat.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter keeps one token bucket per host, so requests to different
// hosts proceed independently while requests to one host are spaced out.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// to each host with a burst of 1. A non-positive rps disables throttling.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    1,
	}
}

// Wait blocks until a request to host is allowed. Host names are compared
// case-insensitively. Returns an error if ctx is done first.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	key := strings.ToLower(host)

	d.mu.Lock()
	limiter, ok := d.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(d.limit, d.burst)
		d.limiters[key] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
