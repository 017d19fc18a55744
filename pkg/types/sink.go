package types

import (
	"context"
	"errors"
)

// Sink persists insert events. Implementations write every event they are
// given and decide how null values are represented.
type Sink interface {
	// Insert writes one event. It returns ErrSinkClosed after Close.
	Insert(ctx context.Context, e Event) error

	// Close flushes pending writes and releases resources. Closing twice
	// succeeds.
	Close() error
}

// Sink errors.
var (
	ErrSinkClosed   = errors.New("sink is closed")
	ErrTableUnknown = errors.New("unknown table")
)
