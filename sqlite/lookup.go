package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitestat"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ sitestat.LookupService = (*LookupService)(nil)

// LookupService implements sitestat.LookupService using SQLite.
type LookupService struct {
	db  *DB
	now func() time.Time
}

// NewLookupService creates a new LookupService.
func NewLookupService(db *DB) *LookupService {
	return &LookupService{db: db, now: time.Now}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content []byte) string {
	h := xxhash.Sum64(content)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

const lookupColumns = "id, kind, key, source_url, record, content_hash, fetched_at"

// CreateLookup stores a new lookup. FetchedAt is kept when already set.
func (s *LookupService) CreateLookup(ctx context.Context, lookup *sitestat.Lookup) error {
	if err := lookup.Validate(); err != nil {
		return err
	}

	// Map keys are sorted by encoding/json so equal records hash equally.
	data, err := json.Marshal(lookup.Record)
	if err != nil {
		return sitestat.Errorf(sitestat.EINVALID, "cannot encode record: %v", err)
	}

	lookup.ID = uuid.New().String()
	lookup.ContentHash = hashContent(data)
	if lookup.FetchedAt.IsZero() {
		lookup.FetchedAt = s.now()
	}
	lookup.FetchedAt = lookup.FetchedAt.UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO lookups (`+lookupColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, lookup.ID, string(lookup.Kind), lookup.Key, lookup.SourceURL, string(data),
		lookup.ContentHash, formatTimestamp(lookup.FetchedAt))

	return err
}

// FindLookupByID retrieves a lookup by ID.
func (s *LookupService) FindLookupByID(ctx context.Context, id string) (*sitestat.Lookup, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+lookupColumns+" FROM lookups WHERE id = ?", id)
	lookup, err := scanLookup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitestat.Errorf(sitestat.ENOTFOUND, "lookup not found")
	}
	if err != nil {
		return nil, err
	}
	return lookup, nil
}

// FindLookups retrieves lookups matching the filter, newest first.
func (s *LookupService) FindLookups(ctx context.Context, filter sitestat.LookupFilter) ([]*sitestat.Lookup, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + lookupColumns + " FROM lookups WHERE 1=1")

	if filter.Kind != nil {
		query.WriteString(" AND kind = ?")
		args = append(args, string(*filter.Kind))
	}
	if filter.Key != nil {
		query.WriteString(" AND key = ?")
		args = append(args, *filter.Key)
	}

	query.WriteString(" ORDER BY fetched_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lookups []*sitestat.Lookup
	for rows.Next() {
		lookup, err := scanLookup(rows)
		if err != nil {
			return nil, err
		}
		lookups = append(lookups, lookup)
	}

	return lookups, rows.Err()
}

// DeleteLookup permanently removes a lookup.
func (s *LookupService) DeleteLookup(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM lookups WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return sitestat.Errorf(sitestat.ENOTFOUND, "lookup not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLookup(row scanner) (*sitestat.Lookup, error) {
	var lookup sitestat.Lookup
	var kind, data, fetchedAt string

	if err := row.Scan(&lookup.ID, &kind, &lookup.Key, &lookup.SourceURL, &data,
		&lookup.ContentHash, &fetchedAt); err != nil {
		return nil, err
	}
	lookup.Kind = sitestat.LookupKind(kind)

	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	lookup.Record = toRecord(raw)

	var err error
	lookup.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &lookup, nil
}

// toRecord converts decoded JSON objects into records, recursively.
func toRecord(m map[string]any) sitestat.Record {
	rec := make(sitestat.Record, len(m))
	for k, v := range m {
		rec[k] = toRecordValue(v)
	}
	return rec
}

func toRecordValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return toRecord(v)
	case []any:
		for i := range v {
			v[i] = toRecordValue(v[i])
		}
		return v
	default:
		return v
	}
}
