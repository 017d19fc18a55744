// Package sink writes reconciled insert events to CSV files, SQLite,
// Postgres, Postgres script files or JSONL files.
package sink

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// Option configures a sink built by New.
type Option func(*options)

type options struct {
	log *zap.Logger
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// New validates cfg and opens the sink it names.
func New(cfg types.Config, opts ...Option) (types.Sink, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o.log.Info("opening sink", zap.String("sink", cfg.Sink), zap.String("output", cfg.Output))
	switch cfg.Sink {
	case types.SinkCSV:
		return NewCSV(cfg.Output)
	case types.SinkSQLite:
		return NewSQLite(cfg.Output)
	case types.SinkPostgres:
		return NewPostgres(cfg.PostgresDSN)
	case types.SinkPGScript:
		return NewPGScript(cfg.Output)
	case types.SinkJSONL:
		return NewJSONL(cfg.Output)
	case types.SinkDiscard:
		return NewDiscard(), nil
	}
	return nil, fmt.Errorf("%w: %s", types.ErrSinkUnknown, cfg.Sink)
}

// checkTable rejects events for tables outside the output schema.
func checkTable(e types.Event) error {
	if !types.KnownTable(e.Table) {
		return fmt.Errorf("%w: %s", types.ErrTableUnknown, e.Table)
	}
	return nil
}
