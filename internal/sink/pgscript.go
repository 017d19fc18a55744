package sink

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// pgBatchSize is the number of rows between COMMIT; BEGIN; markers, which
// let psql import in batches.
const pgBatchSize = 10_000

// PGScript writes one <table>.sql script per Postgres table, starting with
// its CREATE TABLE statement, for loading with psql.
type PGScript struct {
	dir    string
	files  map[string]*os.File
	bufs   map[string]*bufio.Writer
	rows   map[string]int
	closed bool
}

// NewPGScript creates dir and truncates every script with its DDL.
func NewPGScript(dir string) (*PGScript, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating script directory: %w", err)
	}
	s := &PGScript{
		dir:   dir,
		files: make(map[string]*os.File),
		bufs:  make(map[string]*bufio.Writer),
		rows:  make(map[string]int),
	}
	for _, t := range pgTableOrder {
		f, err := os.Create(filepath.Join(dir, t+".sql"))
		if err != nil {
			s.closeFiles()
			return nil, fmt.Errorf("creating %s script: %w", t, err)
		}
		s.files[t] = f
		s.bufs[t] = bufio.NewWriter(f)
		if _, err := s.bufs[t].WriteString(pgDDL[t] + "\n"); err != nil {
			s.closeFiles()
			return nil, fmt.Errorf("writing %s ddl: %w", t, err)
		}
	}
	return s, nil
}

// pgLiteral renders a value for a script: null, a bare number or a quoted
// string.
func pgLiteral(v any) string {
	switch {
	case types.IsNull(v):
		return "null"
	case types.IsNumeric(v):
		return types.Format(v)
	}
	return quoteLiteral(types.Format(v))
}

// Insert appends one INSERT statement.
func (s *PGScript) Insert(_ context.Context, e types.Event) error {
	if s.closed {
		return types.ErrSinkClosed
	}
	if err := checkTable(e); err != nil {
		return err
	}
	table, cols, _ := pgRow(e)
	vals := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		vals[i] = pgLiteral(c.Value)
	}
	w := s.bufs[table]
	if s.rows[table]%pgBatchSize == 0 {
		if _, err := w.WriteString("COMMIT; BEGIN;\n"); err != nil {
			return fmt.Errorf("writing %s script: %w", table, err)
		}
	}
	s.rows[table]++
	conflict := ""
	if pgSuppressDuplicates[table] {
		conflict = " ON CONFLICT DO NOTHING"
	}
	_, err := fmt.Fprintf(w, "INSERT INTO %s (%s) VALUES (%s)%s;\n",
		table, strings.Join(cols, ","), strings.Join(vals, ","), conflict)
	if err != nil {
		return fmt.Errorf("writing %s script: %w", table, err)
	}
	return nil
}

// Close ends the open transaction of every script that received rows.
func (s *PGScript) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var first error
	for _, t := range pgTableOrder {
		if s.rows[t] == 0 {
			continue
		}
		if _, err := s.bufs[t].WriteString("COMMIT;\n"); err != nil && first == nil {
			first = fmt.Errorf("writing %s script: %w", t, err)
		}
	}
	if err := s.closeFiles(); err != nil && first == nil {
		first = err
	}
	return first
}

func (s *PGScript) closeFiles() error {
	var first error
	for t, f := range s.files {
		if err := s.bufs[t].Flush(); err != nil && first == nil {
			first = fmt.Errorf("flushing %s script: %w", t, err)
		}
		if err := f.Close(); err != nil && first == nil {
			first = fmt.Errorf("closing %s script: %w", t, err)
		}
	}
	return first
}
