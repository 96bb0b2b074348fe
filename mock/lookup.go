package mock

import (
	"context"

	"github.com/fwojciec/sitestat"
)

var _ sitestat.LookupService = (*LookupService)(nil)

// LookupService is a mock implementation of sitestat.LookupService.
type LookupService struct {
	CreateLookupFn   func(ctx context.Context, lookup *sitestat.Lookup) error
	FindLookupByIDFn func(ctx context.Context, id string) (*sitestat.Lookup, error)
	FindLookupsFn    func(ctx context.Context, filter sitestat.LookupFilter) ([]*sitestat.Lookup, error)
	DeleteLookupFn   func(ctx context.Context, id string) error
}

func (s *LookupService) CreateLookup(ctx context.Context, lookup *sitestat.Lookup) error {
	return s.CreateLookupFn(ctx, lookup)
}

func (s *LookupService) FindLookupByID(ctx context.Context, id string) (*sitestat.Lookup, error) {
	return s.FindLookupByIDFn(ctx, id)
}

func (s *LookupService) FindLookups(ctx context.Context, filter sitestat.LookupFilter) ([]*sitestat.Lookup, error) {
	return s.FindLookupsFn(ctx, filter)
}

func (s *LookupService) DeleteLookup(ctx context.Context, id string) error {
	return s.DeleteLookupFn(ctx, id)
}
