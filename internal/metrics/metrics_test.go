// Tests for run metrics and the textfile export.
package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
	"github.com/mesh-intelligence/nuclibre/internal/reconcile"
	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

type recordingSink struct {
	fail   bool
	events int
}

func (s *recordingSink) Insert(context.Context, types.Event) error {
	if s.fail {
		return errors.New("disk full")
	}
	s.events++
	return nil
}

func (s *recordingSink) Close() error { return nil }

func TestInstrument_CountsAcceptedRows(t *testing.T) {
	r := New()
	inner := &recordingSink{}
	s := r.Instrument(inner)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, types.NewEvent(types.NuclidesTable)))
	require.NoError(t, s.Insert(ctx, types.NewEvent(types.NuclidesTable)))
	require.NoError(t, s.Insert(ctx, types.NewEvent(types.LinesTable)))

	assert.Equal(t, 3, inner.events)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.rowsWritten.WithLabelValues(types.NuclidesTable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rowsWritten.WithLabelValues(types.LinesTable)))

	inner.fail = true
	assert.Error(t, s.Insert(ctx, types.NewEvent(types.LinesTable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rowsWritten.WithLabelValues(types.LinesTable)), "failed inserts are not counted")
}

func TestObserveReport(t *testing.T) {
	r := New()
	r.ObserveReport(&reconcile.Report{
		Nuclides: 3,
		Decays:   2,
		Skipped: map[reconcile.SkipReason]int{
			reconcile.ReasonNoParent: 4,
		},
		Unresolved: []string{"98TC"},
	})
	r.ObserveReport(nil)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.stored.WithLabelValues("nuclides")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.stored.WithLabelValues("decays")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.skipped.WithLabelValues(string(reconcile.ReasonNoParent))))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.unresolved))
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ObserveParse(ensdf.Stats{Lines: 120, Datasets: 4})
	r.ObserveDuration(1500 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "nuclibre.prom")
	require.NoError(t, r.WriteTextfile(path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(b)
	assert.Contains(t, text, `nuclibre_parse_items{kind="lines"} 120`)
	assert.Contains(t, text, `nuclibre_parse_items{kind="datasets"} 4`)
	assert.Contains(t, text, "nuclibre_run_duration_seconds 1.5")
	assert.True(t, strings.HasPrefix(text, "# HELP"))

	err = r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}
