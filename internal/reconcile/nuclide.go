package reconcile

import (
	"math"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
	"github.com/mesh-intelligence/nuclibre/internal/refdata"
	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// identity returns the z and a columns of a NUCID.
func identity(nucid string) (z, a any) {
	if v, ok := refdata.Z(ensdf.ElementSymbol(nucid)); ok {
		z = v
	}
	if v, ok := ensdf.MassNumber(nucid); ok {
		a = v
	}
	return z, a
}

// qColumns returns the Q-value and separation energy columns of an adopted
// dataset.
func qColumns(ad *ensdf.Dataset) []types.Column {
	q := ad.QValue
	if q == nil {
		q = &ensdf.QValue{}
	}
	return []types.Column{
		types.Col("qMinus", number(q.QMinus)),
		types.Col("uncQMinus", uncertainty(q.DQM)),
		types.Col("sn", number(q.SN)),
		types.Col("uncSn", uncertainty(q.DSN)),
		types.Col("sp", number(q.SP)),
		types.Col("uncSp", uncertainty(q.DSP)),
		types.Col("qAlpha", number(q.QA)),
		types.Col("uncQAlpha", uncertainty(q.DQA)),
	}
}

// storeNuclide emits the nuclide row. A nuclide whose adopted levels carry
// no ground-state half-life is deferred until a parent record supplies it.
func (r *run) storeNuclide(n *ensdf.NuclideDataset) Outcome {
	ad := n.Adopted
	if ad == nil {
		return Skipped(ReasonNoAdopted)
	}
	gs := ad.GroundState()
	if gs == nil {
		if _, ok := r.deferred[n.NUCID]; !ok {
			r.deferred[n.NUCID] = n
			r.deferredOrder = append(r.deferredOrder, n.NUCID)
			r.log.Debug("nuclide deferred", zap.String("nucid", n.NUCID), zap.Int("line", ad.Line))
		}
		return Skipped(ReasonDeferred)
	}

	z, a := identity(n.NUCID)
	isStable := 0
	if gs.T.Stable {
		isStable = 1
	}
	qPlus := roundSig(r.ref.Masses.QPlus(n.NUCID), 1, roundUp)
	qEC := roundSig(r.ref.Masses.QEC(n.NUCID), 1, roundUp)

	cols := []types.Column{
		types.Col("nuclideId", ensdf.ExternalID(n.NUCID)),
		types.Col("z", z),
		types.Col("a", a),
		types.Col("isomer", nil),
		types.Col("halflife", seconds(gs.T)),
		types.Col("uncHalflife", uncertainty(gs.DT)),
		types.Col("isStable", isStable),
	}
	cols = append(cols, qColumns(ad)...)
	cols = append(cols,
		types.Col("qPlus", nullable(qPlus)),
		types.Col("uncQPlus", nil),
		types.Col("qEc", nullable(qEC)),
		types.Col("uncQEc", nil),
		types.Col("source", ad.Origin),
	)
	r.emit(types.NuclidesTable, cols...)
	r.report.Nuclides++
	return Stored()
}

// storeStates emits one state row per adopted level with a known energy.
func (r *run) storeStates(n *ensdf.NuclideDataset) {
	id := ensdf.ExternalID(n.NUCID)
	for _, l := range n.Adopted.Levels() {
		if !l.E.Valid {
			continue
		}
		r.emit(types.StatesTable,
			types.Col("nuclideId", id),
			types.Col("idState", l.Index),
			types.Col("energy", l.E.Value),
			types.Col("uncEnergy", uncertainty(l.DE)),
			types.Col("spinParity", text(l.J)),
			types.Col("halflife", seconds(l.T)),
			types.Col("uncHalflife", uncertainty(l.DT)),
			types.Col("isomer", text(l.MS)),
			types.Col("source", n.Adopted.Origin),
		)
		r.report.States++
	}
}

// storeIsomer emits a nuclide row for a metastable state and records it in
// the isomer table. Q-values are those of the ground state.
func (r *run) storeIsomer(id, ms string, hl ensdf.HalfLife, parent *ensdf.NuclideDataset) {
	z, a := identity(parent.NUCID)
	cols := []types.Column{
		types.Col("nuclideId", id+ms),
		types.Col("z", z),
		types.Col("a", a),
		types.Col("isomer", ms),
		types.Col("halflife", seconds(hl)),
		types.Col("isStable", 0),
	}
	source := ""
	if parent.Adopted != nil {
		cols = append(cols, qColumns(parent.Adopted)...)
		source = parent.Adopted.Origin
	}
	cols = append(cols, types.Col("source", text(source)))
	r.emit(types.NuclidesTable, cols...)
	r.report.Isomers++

	s, ok := hl.Seconds()
	if !ok {
		s = math.NaN()
	}
	m := r.isomers[id]
	if m == nil {
		m = make(map[string]float64)
		r.isomers[id] = m
	}
	m[ms] = s
	r.log.Debug("isomer stored", zap.String("nuclide", id+ms), zap.Stringer("halflife", hl))
}

// resolveDeferred stores a deferred nuclide once a parent record gives its
// ground-state half-life.
func (r *run) resolveDeferred(nucid string, pr *ensdf.Parent) {
	n := r.deferred[nucid]
	if n == nil || !pr.T.Defined() {
		return
	}
	delete(r.deferred, nucid)
	n.Adopted.SetGroundState(pr.T)
	if o := r.storeNuclide(n); !o.IsStored() {
		r.report.skip(o.Reason)
		return
	}
	r.nuclideStored[n] = true
	r.storeStates(n)
	r.report.Resolved++
	r.log.Debug("deferred nuclide resolved", zap.String("nucid", nucid), zap.Stringer("halflife", pr.T))
}
