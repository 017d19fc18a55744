package sink

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// SQLite writes a fresh database file inside one transaction that commits
// on Close. Null columns are left out of each insert.
type SQLite struct {
	db    *sql.DB
	tx    *sql.Tx
	stmts map[string]*sql.Stmt
}

// NewSQLite removes any database at path and creates the output schema.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("removing old database: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	for _, ddl := range sqliteDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}
	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return &SQLite{db: db, tx: tx, stmts: make(map[string]*sql.Stmt)}, nil
}

// insertSQL builds the insert statement of a table and column list.
// Duplicate decays are ignored.
func insertSQL(table string, cols []string) string {
	verb := "INSERT"
	if table == types.DecaysTable {
		verb = "INSERT OR IGNORE"
	}
	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf("%s INTO %s (%s) VALUES (%s)",
		verb, table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
}

// stmt returns a prepared statement for the column set, preparing it on
// first use.
func (s *SQLite) stmt(ctx context.Context, table string, cols []string) (*sql.Stmt, error) {
	key := table + "(" + strings.Join(cols, ",") + ")"
	if st, ok := s.stmts[key]; ok {
		return st, nil
	}
	st, err := s.tx.PrepareContext(ctx, insertSQL(table, cols))
	if err != nil {
		return nil, fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	s.stmts[key] = st
	return st, nil
}

// Insert adds one row.
func (s *SQLite) Insert(ctx context.Context, e types.Event) error {
	if s.tx == nil {
		return types.ErrSinkClosed
	}
	if err := checkTable(e); err != nil {
		return err
	}
	present := e.Present()
	cols := make([]string, len(present))
	args := make([]any, len(present))
	for i, c := range present {
		cols[i], args[i] = c.Name, c.Value
	}
	st, err := s.stmt(ctx, e.Table, cols)
	if err != nil {
		return err
	}
	if _, err := st.ExecContext(ctx, args...); err != nil {
		return fmt.Errorf("inserting into %s: %w", e.Table, err)
	}
	return nil
}

// Close commits the run and closes the database.
func (s *SQLite) Close() error {
	if s.tx == nil {
		return nil
	}
	for _, st := range s.stmts {
		st.Close()
	}
	err := s.tx.Commit()
	s.tx = nil
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("committing database: %w", err)
	}
	return nil
}
