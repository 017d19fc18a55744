package sink

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver

	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

const pgDriver = "pgx"

var sqlOpen = sql.Open

// Postgres inserts rows into a live database using snake case table and
// column names. All inserts of a run share one transaction.
type Postgres struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgres connects to dsn and creates any missing tables.
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sqlOpen(pgDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, t := range pgTableOrder {
		if _, err := db.ExecContext(ctx, pgDDL[t]); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute ddl for %s: %w", t, err)
		}
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("begin postgres transaction: %w", err)
	}
	return &Postgres{db: db, tx: tx}, nil
}

// pgInsertSQL builds a parameterized insert for a Postgres table.
func pgInsertSQL(table string, cols []string) string {
	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	conflict := ""
	if pgSuppressDuplicates[table] {
		conflict = " ON CONFLICT DO NOTHING"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)%s",
		table, strings.Join(cols, ","), strings.Join(placeholders, ","), conflict)
}

// pgRow translates an event to its Postgres table, columns and arguments.
// Null values become SQL NULL.
func pgRow(e types.Event) (table string, cols []string, args []any) {
	table = pgTables[e.Table]
	cols = make([]string, len(e.Columns))
	args = make([]any, len(e.Columns))
	for i, c := range e.Columns {
		cols[i] = pgColumn(c.Name)
		if !types.IsNull(c.Value) {
			args[i] = c.Value
		}
	}
	return table, cols, args
}

// Insert adds one row.
func (s *Postgres) Insert(ctx context.Context, e types.Event) error {
	if s.tx == nil {
		return types.ErrSinkClosed
	}
	if err := checkTable(e); err != nil {
		return err
	}
	table, cols, args := pgRow(e)
	if _, err := s.tx.ExecContext(ctx, pgInsertSQL(table, cols), args...); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// Close commits the run and closes the connection pool.
func (s *Postgres) Close() error {
	if s.tx == nil {
		return nil
	}
	err := s.tx.Commit()
	s.tx = nil
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("commit postgres: %w", err)
	}
	return nil
}
