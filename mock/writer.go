package mock

import (
	"context"

	"github.com/fwojciec/sitestat"
)

var _ sitestat.RecordWriter = (*RecordWriter)(nil)

// RecordWriter is a mock implementation of sitestat.RecordWriter.
type RecordWriter struct {
	WriteRecordFn func(ctx context.Context, name string, rec sitestat.Record) error
}

func (w *RecordWriter) WriteRecord(ctx context.Context, name string, rec sitestat.Record) error {
	return w.WriteRecordFn(ctx, name, rec)
}
