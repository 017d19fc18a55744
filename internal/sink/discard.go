package sink

import (
	"context"

	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// Discard drops every event. It backs test runs that exercise the engine
// without writing output, and counts what it was given.
type Discard struct {
	Rows   map[string]int
	closed bool
}

// NewDiscard returns an open discard sink.
func NewDiscard() *Discard {
	return &Discard{Rows: make(map[string]int)}
}

func (s *Discard) Insert(_ context.Context, e types.Event) error {
	if s.closed {
		return types.ErrSinkClosed
	}
	if err := checkTable(e); err != nil {
		return err
	}
	s.Rows[e.Table]++
	return nil
}

func (s *Discard) Close() error {
	s.closed = true
	return nil
}
