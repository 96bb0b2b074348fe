// Package fs saves records as JSON files.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/sitestat"
)

// JSONExt is appended to record file names that lack it.
const JSONExt = ".json"

// FileName returns name with trailing dots removed and JSONExt appended
// when missing.
func FileName(name string) string {
	name = strings.TrimRight(name, ".")
	if strings.HasSuffix(strings.ToLower(name), JSONExt) {
		return name
	}
	return name + JSONExt
}

// FormatRecord encodes rec as indented JSON with sorted keys and a
// trailing newline.
func FormatRecord(rec sitestat.Record) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", " ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Ensure Writer implements sitestat.RecordWriter at compile time.
var _ sitestat.RecordWriter = (*Writer)(nil)

// Writer writes records as JSON files below a base directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteRecord writes rec to name relative to the base directory. The file
// is written to a temporary sibling first and renamed into place, so a
// reader never sees a partial record.
func (w *Writer) WriteRecord(ctx context.Context, name string, rec sitestat.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec == nil {
		return sitestat.Errorf(sitestat.EINVALID, "record required")
	}

	fullPath, err := w.resolve(name)
	if err != nil {
		return err
	}

	data, err := FormatRecord(rec)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// resolve joins name to the base directory and rejects names that would
// escape it.
func (w *Writer) resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", sitestat.Errorf(sitestat.EINVALID, "file name required")
	}
	if filepath.IsAbs(name) && w.baseDir == "" {
		return FileName(filepath.Clean(name)), nil
	}

	base := w.baseDir
	if base == "" {
		base = "."
	}
	fullPath := filepath.Join(base, FileName(name))
	rel, err := filepath.Rel(base, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", sitestat.Errorf(sitestat.EINVALID, "file name %q escapes output directory", name)
	}
	return fullPath, nil
}
