// Package metrics records the counters of one nuclibre run in a Prometheus
// registry and exports them in the node-exporter textfile format.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
	"github.com/mesh-intelligence/nuclibre/internal/reconcile"
	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

const namespace = "nuclibre"

// Recorder holds the metrics of one run. Each Recorder owns its registry,
// so tests and repeated runs do not share state.
type Recorder struct {
	reg *prometheus.Registry

	// rowsWritten counts events accepted by the sink.
	// Labels: table
	rowsWritten *prometheus.CounterVec

	// parsed reports the parser counters.
	// Labels: kind (lines, datasets, records, field_errors, ...)
	parsed *prometheus.GaugeVec

	// stored reports what the engine wrote.
	// Labels: kind (nuclides, isomers, states, decays, lines, ...)
	stored *prometheus.GaugeVec

	// skipped reports skipped entities.
	// Labels: reason
	skipped *prometheus.GaugeVec

	unresolved prometheus.Gauge
	duration   prometheus.Gauge
}

// New returns a recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		rowsWritten: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "rows_total",
			Help:      "Rows written to the output sink",
		}, []string{"table"}),
		parsed: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "parse",
			Name:      "items",
			Help:      "ENSDF parser counters of the last run",
		}, []string{"kind"}),
		stored: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "entities",
			Help:      "Entities stored by the reconciliation engine",
		}, []string{"kind"}),
		skipped: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "skipped",
			Help:      "Entities left out of the output by reason",
		}, []string{"reason"}),
		unresolved: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "unresolved_nuclides",
			Help:      "Nuclides whose ground-state half-life was never found",
		}),
		duration: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// ObserveParse records the parser counters.
func (r *Recorder) ObserveParse(st ensdf.Stats) {
	for kind, v := range map[string]int{
		"lines":                   st.Lines,
		"datasets":                st.Datasets,
		"records":                 st.Records,
		"field_errors":            st.FieldErrors,
		"unknown_records":         st.UnknownRecords,
		"ignored_continuations":   st.IgnoredContinuations,
		"replaced_normalizations": st.ReplacedNormalizations,
		"patch_replaced":          st.PatchReplaced,
		"patch_appended":          st.PatchAppended,
		"patch_second_removed":    st.PatchSecondRemoved,
	} {
		r.parsed.WithLabelValues(kind).Set(float64(v))
	}
}

// ObserveReport records the outcome of a store run.
func (r *Recorder) ObserveReport(rep *reconcile.Report) {
	if rep == nil {
		return
	}
	for kind, v := range map[string]int{
		"nuclides":      rep.Nuclides,
		"isomers":       rep.Isomers,
		"states":        rep.States,
		"decays":        rep.Decays,
		"lines":         rep.Lines,
		"xrays":         rep.XRays,
		"annihilations": rep.Annihilations,
		"resolved":      rep.Resolved,
	} {
		r.stored.WithLabelValues(kind).Set(float64(v))
	}
	for reason, n := range rep.Skipped {
		r.skipped.WithLabelValues(string(reason)).Set(float64(n))
	}
	r.unresolved.Set(float64(len(rep.Unresolved)))
}

// ObserveDuration records the run's wall time.
func (r *Recorder) ObserveDuration(d time.Duration) {
	r.duration.Set(d.Seconds())
}

// WriteTextfile writes the registry to path for a node-exporter textfile
// collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

// Instrument wraps a sink so that every accepted event is counted.
func (r *Recorder) Instrument(s types.Sink) types.Sink {
	return &countingSink{Sink: s, rows: r.rowsWritten}
}

type countingSink struct {
	types.Sink
	rows *prometheus.CounterVec
}

func (s *countingSink) Insert(ctx context.Context, e types.Event) error {
	if err := s.Sink.Insert(ctx, e); err != nil {
		return err
	}
	s.rows.WithLabelValues(e.Table).Inc()
	return nil
}
