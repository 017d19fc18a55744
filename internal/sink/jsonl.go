package sink

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// JSONL collects rows in memory and writes one <table>.jsonl file per
// table on Close. Each file is replaced atomically, so a failed run never
// leaves a half-written table behind.
type JSONL struct {
	dir    string
	rows   map[string][]json.RawMessage
	closed bool
}

// NewJSONL creates the output directory if needed.
func NewJSONL(dir string) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating jsonl directory: %w", err)
	}
	return &JSONL{dir: dir, rows: make(map[string][]json.RawMessage)}, nil
}

// encodeRow renders an event as a JSON object with keys in column order.
func encodeRow(e types.Event) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range e.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		var v any
		if !types.IsNull(c.Value) {
			v = c.Value
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Insert buffers one row.
func (s *JSONL) Insert(_ context.Context, e types.Event) error {
	if s.closed {
		return types.ErrSinkClosed
	}
	if err := checkTable(e); err != nil {
		return err
	}
	row, err := encodeRow(e)
	if err != nil {
		return fmt.Errorf("encoding %s row: %w", e.Table, err)
	}
	s.rows[e.Table] = append(s.rows[e.Table], row)
	return nil
}

// Close writes every table that received rows.
func (s *JSONL) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for _, table := range types.StandardTableNames {
		rows, ok := s.rows[table]
		if !ok {
			continue
		}
		if err := writeJSONL(filepath.Join(s.dir, table+".jsonl"), rows); err != nil {
			return fmt.Errorf("writing %s: %w", table, err)
		}
	}
	s.rows = nil
	return nil
}

// writeJSONL atomically writes records to a JSONL file using the
// temp-file, fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(what string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", what, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
