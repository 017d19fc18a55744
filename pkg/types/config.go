package types

import "errors"

// Config selects and parameterizes the output sink.
type Config struct {
	Sink        string `json:"sink" yaml:"sink"`
	Output      string `json:"output" yaml:"output"`
	PostgresDSN string `json:"postgres_dsn" yaml:"postgres_dsn"`
}

// Supported sink names.
const (
	SinkCSV      = "csv"
	SinkSQLite   = "sqlite"
	SinkPostgres = "postgres"
	SinkPGScript = "pgscript"
	SinkJSONL    = "jsonl"
	SinkDiscard  = "discard"
)

// Config validation errors.
var (
	ErrSinkEmpty   = errors.New("sink must not be empty")
	ErrSinkUnknown = errors.New("unknown sink")
	ErrOutputEmpty = errors.New("output path must not be empty")
	ErrDSNEmpty    = errors.New("postgres dsn must not be empty")
)

// knownSinks lists the sinks that Validate accepts and whether each writes
// to an output path.
var knownSinks = map[string]bool{
	SinkCSV:      true,
	SinkSQLite:   true,
	SinkPostgres: false,
	SinkPGScript: true,
	SinkJSONL:    true,
	SinkDiscard:  false,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Sink == "" {
		return ErrSinkEmpty
	}
	needsPath, ok := knownSinks[c.Sink]
	if !ok {
		return ErrSinkUnknown
	}
	if needsPath && c.Output == "" {
		return ErrOutputEmpty
	}
	if c.Sink == SinkPostgres && c.PostgresDSN == "" {
		return ErrDSNEmpty
	}
	return nil
}

// NeedsOutput reports whether the configured sink writes to an output path.
func (c Config) NeedsOutput() bool {
	return knownSinks[c.Sink]
}
