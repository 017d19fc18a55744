package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
	"github.com/mesh-intelligence/nuclibre/internal/refdata"
	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// card builds one 80-column line with the NUCID in columns 1-5 and each
// text placed at its 1-based starting column.
func card(nucid string, at map[int]string) string {
	b := []byte(strings.Repeat(" ", ensdf.RecordWidth))
	copy(b, nucid)
	for col, s := range at {
		copy(b[col-1:], s)
	}
	return string(b)
}

func deck(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func ident(nucid, dsid string) string {
	return card(nucid, map[int]string{10: dsid})
}

func level(nucid, e, j, t, ms string) string {
	return card(nucid, map[int]string{8: "L", 10: e, 22: j, 40: t, 78: ms})
}

func gamma(nucid, e, ri string) string {
	return card(nucid, map[int]string{8: "G", 10: e, 22: ri})
}

func norm(nucid, nr, br string) string {
	return card(nucid, map[int]string{8: "N", 10: nr, 32: br})
}

func parent(nucid, e, t string) string {
	return card(nucid, map[int]string{8: "P", 10: e, 40: t})
}

func beta(nucid, e, ib string) string {
	return card(nucid, map[int]string{8: "B", 10: e, 22: ib})
}

func ec(nucid, e, ib, ie string) string {
	return card(nucid, map[int]string{8: "E", 10: e, 22: ib, 32: ie})
}

func cont(nucid string, code byte, text string) string {
	return card(nucid, map[int]string{6: "2", 8: string(code), 10: text})
}

var cs137Adopted = deck(
	ident("137CS", "ADOPTED LEVELS"),
	level("137CS", "0.0", "7/2+", "30.08 Y", ""),
	"",
	ident("137BA", "ADOPTED LEVELS, GAMMAS"),
	level("137BA", "0.0", "3/2+", "STABLE", ""),
	level("137BA", "661.659", "11/2-", "2.552 M", "M"),
	gamma("137BA", "661.657", "100"),
	"",
)

var cs137Decay = deck(
	ident("137BA", "137CS B- DECAY (30.08 Y)"),
	parent("137CS", "0.0", "30.08 Y"),
	norm("137BA", "1.0", "1.0"),
	level("137BA", "0.0", "3/2+", "STABLE", ""),
	beta("137BA", "1175.63", "5.6"),
	level("137BA", "661.659", "11/2-", "2.552 M", "M"),
	beta("137BA", "513.97", "94.4"),
	gamma("137BA", "661.657", "85.1"),
	"",
)

var ba137mDecay = deck(
	ident("137BA", "137BA IT DECAY (2.552 M)"),
	parent("137BA", "661.659", "2.552 M"),
	norm("137BA", "1.0", "1.0"),
	level("137BA", "0.0", "3/2+", "STABLE", ""),
	level("137BA", "661.659", "11/2-", "2.552 M", "M"),
	gamma("137BA", "661.657", "90.1"),
	"",
)

func registry(t *testing.T, input string) *ensdf.Registry {
	t.Helper()
	p := ensdf.NewParser()
	require.NoError(t, p.Parse("test", strings.NewReader(input), "ENSDF"))
	return p.Registry()
}

// memSink keeps every event in memory.
type memSink struct {
	events []types.Event
	closed bool
}

func (s *memSink) Insert(_ context.Context, e types.Event) error {
	if s.closed {
		return types.ErrSinkClosed
	}
	s.events = append(s.events, e)
	return nil
}

func (s *memSink) Close() error {
	s.closed = true
	return nil
}

// rows returns the events of a table whose columns match every key/value
// pair in match.
func (s *memSink) rows(table string, match map[string]any) []types.Event {
	var out []types.Event
	for _, e := range s.events {
		if e.Table != table {
			continue
		}
		ok := true
		for k, v := range match {
			if got, _ := e.Get(k); got != v {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, e)
		}
	}
	return out
}

func get(e types.Event, col string) any {
	v, _ := e.Get(col)
	return v
}

var errBroken = errors.New("broken pipe")

type failingSink struct{ after int }

func (s *failingSink) Insert(context.Context, types.Event) error {
	if s.after == 0 {
		return errBroken
	}
	s.after--
	return nil
}

func (s *failingSink) Close() error { return nil }

func store(t *testing.T, input string, opts ...Option) (*memSink, *Report) {
	t.Helper()
	sink := &memSink{}
	rep, err := New(registry(t, input), opts...).Store(context.Background(), sink)
	require.NoError(t, err)
	return sink, rep
}

// shells builds shell data for one element with a single K and a single
// L line.
func shells(t *testing.T, z int, el string, wk, wl, nkl string) *refdata.Tables {
	t.Helper()
	tables := refdata.Empty()
	yields := fmt.Sprintf("%d %s %s 0 0 0 0 %s %s\n", z, el, wk, nkl, wl)
	lines := fmt.Sprintf("%d %s KA1 30.0 100\n%d %s LA 4.0 100\n", z, el, z, el)
	require.NoError(t, tables.Shells.LoadYields(strings.NewReader(yields)))
	require.NoError(t, tables.Shells.LoadLines(strings.NewReader(lines)))
	return tables
}
