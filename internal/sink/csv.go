package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// CSV appends each table to <dir>/<table>.csv. A file that is new or empty
// gets a header line from the first event's column names. Nulls are
// written as empty fields.
type CSV struct {
	dir    string
	files  map[string]*os.File
	writer map[string]*csv.Writer
	closed bool
}

// NewCSV creates the output directory if needed.
func NewCSV(dir string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating csv directory: %w", err)
	}
	return &CSV{
		dir:    dir,
		files:  make(map[string]*os.File),
		writer: make(map[string]*csv.Writer),
	}, nil
}

func (s *CSV) open(e types.Event) (*csv.Writer, error) {
	if w, ok := s.writer[e.Table]; ok {
		return w, nil
	}
	path := filepath.Join(s.dir, e.Table+".csv")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(e.Names()); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing header of %s: %w", path, err)
		}
	}
	s.files[e.Table] = f
	s.writer[e.Table] = w
	return w, nil
}

// Insert appends one row.
func (s *CSV) Insert(_ context.Context, e types.Event) error {
	if s.closed {
		return types.ErrSinkClosed
	}
	if err := checkTable(e); err != nil {
		return err
	}
	w, err := s.open(e)
	if err != nil {
		return err
	}
	rec := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		if !types.IsNull(c.Value) {
			rec[i] = types.Format(c.Value)
		}
	}
	return w.Write(rec)
}

// Close flushes and closes every table file.
func (s *CSV) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var first error
	for table, w := range s.writer {
		w.Flush()
		if err := w.Error(); err != nil && first == nil {
			first = fmt.Errorf("flushing %s: %w", table, err)
		}
		if err := s.files[table].Close(); err != nil && first == nil {
			first = fmt.Errorf("closing %s: %w", table, err)
		}
	}
	return first
}
