package sitestat

import (
	"context"
	"time"
)

// LookupKind names the pipeline that produced a lookup.
type LookupKind string

// LookupKind constants.
const (
	KindSiteInfo     LookupKind = "siteinfo"
	KindTopSites     LookupKind = "topsites"
	KindRegistration LookupKind = "whois"
	KindURLInfo      LookupKind = "awis"
)

// Lookup is a stored extraction result.
type Lookup struct {
	ID          string     `json:"id"`
	Kind        LookupKind `json:"kind"`
	Key         string     `json:"key"`
	SourceURL   string     `json:"sourceUrl"`
	Record      Record     `json:"record"`
	ContentHash string     `json:"contentHash"`
	FetchedAt   time.Time  `json:"fetchedAt"`
}

// Validate returns an error if the lookup contains invalid fields.
func (l *Lookup) Validate() error {
	if l.Kind == "" {
		return Errorf(EINVALID, "lookup kind required")
	}
	if l.Key == "" {
		return Errorf(EINVALID, "lookup key required")
	}
	if l.Record == nil {
		return Errorf(EINVALID, "lookup record required")
	}
	return nil
}

// LookupService persists extraction results.
type LookupService interface {
	// CreateLookup stores a new lookup, assigning its ID, hash and timestamp.
	CreateLookup(ctx context.Context, lookup *Lookup) error

	// FindLookupByID retrieves a lookup by ID.
	// Returns ENOTFOUND if the lookup does not exist.
	FindLookupByID(ctx context.Context, id string) (*Lookup, error)

	// FindLookups retrieves lookups matching the filter, newest first.
	FindLookups(ctx context.Context, filter LookupFilter) ([]*Lookup, error)

	// DeleteLookup permanently removes a lookup.
	// Returns ENOTFOUND if the lookup does not exist.
	DeleteLookup(ctx context.Context, id string) error
}

// LookupFilter represents a filter for FindLookups.
type LookupFilter struct {
	Kind *LookupKind `json:"kind"`
	Key  *string     `json:"key"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RecordWriter writes records to durable storage.
type RecordWriter interface {
	WriteRecord(ctx context.Context, name string, rec Record) error
}
