// Package reconcile turns a parsed ENSDF registry into nuclides, states,
// decays and emission lines.
//
// A store run makes two passes over the registry. The first stores every
// nuclide with its adopted levels and decay branches, recursing into
// daughters so that their isomers are known before a parent's branching
// into them is computed. The second emits the radiation lines of every
// stored decay, including derived X-rays and annihilation photons.
package reconcile

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
	"github.com/mesh-intelligence/nuclibre/internal/refdata"
	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// progressEvery is the number of nuclides between progress log lines.
const progressEvery = 300

// Engine reconciles the datasets of a registry. It is not safe for
// concurrent use; each Store call owns its own run state.
type Engine struct {
	log *zap.Logger
	reg *ensdf.Registry
	ref *refdata.Tables
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithTables sets the reference tables. Without them derived Q-values and
// X-rays are omitted.
func WithTables(t *refdata.Tables) Option {
	return func(e *Engine) { e.ref = t }
}

// New returns an engine over reg.
func New(reg *ensdf.Registry, opts ...Option) *Engine {
	e := &Engine{log: zap.NewNop(), reg: reg, ref: refdata.Empty()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Store writes the reconciled registry to sink. Missing prerequisites skip
// single entities and are counted in the report; a sink error stops the
// run and is returned.
func (e *Engine) Store(ctx context.Context, sink types.Sink) (*Report, error) {
	r := newRun(ctx, e, sink)
	nuclides := e.reg.Nuclides()
	e.log.Info("storing", zap.Int("nuclides", len(nuclides)))

	done := 0
	for _, n := range nuclides {
		r.storeNuclideStatesAndDecays(n)
		if r.err != nil {
			return r.report, r.err
		}
		done++
		r.progress(done, 2*len(nuclides))
	}
	for _, n := range nuclides {
		if r.nuclideStored[n] {
			r.storeLines(n)
		}
		if r.err != nil {
			return r.report, r.err
		}
		done++
		r.progress(done, 2*len(nuclides))
	}

	for _, id := range r.deferredOrder {
		if _, ok := r.deferred[id]; ok {
			r.report.Unresolved = append(r.report.Unresolved, id)
		}
	}
	if len(r.report.Unresolved) > 0 {
		e.log.Warn("deferred nuclides never resolved",
			zap.Int("count", len(r.report.Unresolved)),
			zap.Strings("nuclides", r.report.Unresolved))
	}
	e.log.Info("storing done",
		zap.Int("nuclides", r.report.Nuclides),
		zap.Int("isomers", r.report.Isomers),
		zap.Int("decays", r.report.Decays),
		zap.Int("lines", r.report.Lines))
	return r.report, nil
}

// decayState is the run state of one decay dataset.
type decayState struct {
	outcome Outcome
	// ms is the metastable symbol of the decaying parent state.
	ms string
	// destMS is the symbol of the daughter isomer the decay feeds, and
	// destBranch the fraction of decays that reach it.
	destMS     string
	destBranch float64
}

// run is the state of one Store call.
type run struct {
	*Engine
	ctx  context.Context
	sink types.Sink
	err  error

	report *Report

	// isomers maps an external nuclide id to its isomer symbols and their
	// half-lives in seconds.
	isomers       map[string]map[string]float64
	storedIsomers map[string]bool

	deferred      map[string]*ensdf.NuclideDataset
	deferredOrder []string

	nuclideStored map[*ensdf.NuclideDataset]bool
	decaysStored  map[*ensdf.NuclideDataset]bool
	decays        map[*ensdf.Dataset]*decayState
}

func newRun(ctx context.Context, e *Engine, sink types.Sink) *run {
	return &run{
		Engine:        e,
		ctx:           ctx,
		sink:          sink,
		report:        newReport(),
		isomers:       make(map[string]map[string]float64),
		storedIsomers: make(map[string]bool),
		deferred:      make(map[string]*ensdf.NuclideDataset),
		nuclideStored: make(map[*ensdf.NuclideDataset]bool),
		decaysStored:  make(map[*ensdf.NuclideDataset]bool),
		decays:        make(map[*ensdf.Dataset]*decayState),
	}
}

func (r *run) progress(done, total int) {
	if done%progressEvery != 0 {
		return
	}
	pct := math.Round(float64(done) / float64(total) * 100)
	r.log.Info("store progress", zap.Float64("percent", pct))
}

// emit sends one insert event to the sink. After the first sink error
// every further emit is a no-op.
func (r *run) emit(table string, cols ...types.Column) {
	if r.err != nil {
		return
	}
	if err := r.ctx.Err(); err != nil {
		r.err = err
		return
	}
	if err := r.sink.Insert(r.ctx, types.NewEvent(table, cols...)); err != nil {
		r.err = fmt.Errorf("inserting into %s: %w", table, err)
	}
}

// storeNuclideStatesAndDecays is the first pass for one nuclide.
func (r *run) storeNuclideStatesAndDecays(n *ensdf.NuclideDataset) {
	o := r.storeNuclide(n)
	switch {
	case o.IsStored():
		r.nuclideStored[n] = true
		r.storeStates(n)
	case o.Reason == ReasonDeferred:
		// The decays may carry the parent record that resolves it.
	default:
		r.report.skip(o.Reason)
		return
	}
	r.storeDecays(n, "")
}

// storeDecays stores every decay of a parent nuclide that has not been
// attempted yet. The nuclide is marked first so that a daughter chain
// leading back to it does not recurse.
func (r *run) storeDecays(n *ensdf.NuclideDataset, prevParent string) {
	r.decaysStored[n] = true
	for _, d := range n.Decays {
		if _, ok := r.decays[d]; ok {
			continue
		}
		st := &decayState{}
		r.decays[d] = st
		st.outcome = r.storeDecay(d, st, prevParent)
		if !st.outcome.IsStored() {
			r.report.skip(st.outcome.Reason)
			r.log.Debug("decay skipped",
				zap.String("dsid", d.DSID()),
				zap.Int("line", d.Line),
				zap.String("reason", string(st.outcome.Reason)))
		}
		if r.err != nil {
			return
		}
	}
}

// storeLines is the second pass for one nuclide. Line ids run across all
// decays of the nuclide.
func (r *run) storeLines(n *ensdf.NuclideDataset) {
	line := 0
	for _, d := range n.Decays {
		st := r.decays[d]
		if st == nil || !st.outcome.IsStored() {
			continue
		}
		line = r.decayLines(d, st, line)
		if r.err != nil {
			return
		}
	}
}

// parentNUCID is the first token of a decay DSID.
func parentNUCID(dsid string) string {
	if tok := strings.Fields(dsid); len(tok) > 0 {
		return tok[0]
	}
	return ""
}

// levelState returns the index of a level as an output value: nil for
// levels outside an adopted dataset.
func levelState(l *ensdf.Level) any {
	if l == nil || l.Index < 0 {
		return nil
	}
	return l.Index
}

func number(n ensdf.Number) any {
	if !n.Valid {
		return nil
	}
	return n.Value
}

func uncertainty(u ensdf.Uncertainty) any {
	if !u.Valid {
		return nil
	}
	return u.Value
}

func text(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// seconds returns a half-life in seconds, nil when unknown or stable.
func seconds(h ensdf.HalfLife) any {
	if s, ok := h.Seconds(); ok {
		return s
	}
	return nil
}

// positive reports whether a half-life has a non-zero value in seconds.
func positive(h ensdf.HalfLife) bool {
	s, ok := h.Seconds()
	return ok && s != 0
}
