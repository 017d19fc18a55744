package reconcile

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// maxDSIDTokens bounds the DSIDs the engine understands. Longer ids such
// as "216BI B- DECAY (2.17 M+6.6 M)" describe mixed parents.
const maxDSIDTokens = 5

// storeDecay emits the decay rows of one decay dataset. Daughter decays
// are stored first so that the daughter's isomers are known.
func (r *run) storeDecay(d *ensdf.Dataset, st *decayState, prevParent string) Outcome {
	dsid := d.DSID()
	if strings.Contains(dsid, ":") {
		return Skipped(ReasonCombinedDecay)
	}
	pr := d.Parent
	if pr == nil {
		return Skipped(ReasonNoParent)
	}
	nr := d.Normalization
	if nr == nil {
		return Skipped(ReasonNoNormalization)
	}
	tok := strings.Fields(dsid)
	if len(tok) > maxDSIDTokens || len(tok) < 2 {
		return Skipped(ReasonComplexDSID)
	}
	parentNUCID, decayType := tok[0], tok[1]
	daughterNUCID := d.NUCID()

	if daughterNUCID != parentNUCID && daughterNUCID != prevParent {
		if dn := r.reg.Get(daughterNUCID); dn != nil && len(dn.Decays) > 0 && !r.decaysStored[dn] {
			r.storeDecays(dn, parentNUCID)
			if r.err != nil {
				return Stored()
			}
		}
	}

	if decayType == "SF" {
		return Skipped(ReasonFission)
	}
	if _, ok := r.deferred[parentNUCID]; ok && parentNUCID != daughterNUCID {
		r.resolveDeferred(parentNUCID, pr)
	}
	parent := r.reg.Get(parentNUCID)
	if parent == nil {
		return Skipped(ReasonParentUnknown)
	}

	var level *ensdf.Level
	if pr.E.Valid && parent.Adopted != nil {
		level = parent.Adopted.LevelNear(pr.E.Value)
		if level == nil {
			level = d.LevelNear(pr.E.Value)
		}
	}
	st.ms = r.decayingSymbol(decayType == "IT", pr, level, dsid, parentNUCID, parent)
	fromIsomer := st.ms != ""

	parentID := ensdf.ExternalID(parentNUCID) + st.ms
	daughterID := ensdf.ExternalID(daughterNUCID)
	r.destination(d, st, daughterNUCID, daughterID)
	if daughterNUCID == parentNUCID && st.destMS == st.ms {
		st.destMS, st.destBranch = "", 0
	}

	if decayType == "B-" && level == nil && !fromIsomer {
		r.report.skip(ReasonDecayingLevel)
		return Stored()
	}
	decay := func(daughter string, branching float64) {
		r.emit(types.DecaysTable,
			types.Col("parentNuclideId", parentID),
			types.Col("daughterNuclideId", daughter),
			types.Col("decayType", decayType),
			types.Col("qValue", number(pr.QP)),
			types.Col("uncQValue", uncertainty(pr.DQP)),
			types.Col("branching", branching),
			types.Col("uncBranching", uncertainty(nr.DBR)),
			types.Col("source", text(d.Origin)),
		)
		r.report.Decays++
	}
	if st.destMS != "" {
		decay(daughterID+st.destMS, math.Min(st.destBranch, 1))
	}
	if br := nr.BR.Or(1) - st.destBranch; br > 0 {
		decay(daughterID, br)
	}
	return Stored()
}

// destination checks whether the decay feeds a stored isomer of its
// daughter. When it does, the isomer's symbol and the fraction of decays
// reaching it are recorded on st.
func (r *run) destination(d *ensdf.Dataset, st *decayState, daughterNUCID, daughterID string) {
	daughter := r.reg.Get(daughterNUCID)
	var prev *ensdf.Level
	for _, rec := range d.Records {
		switch g := rec.(type) {
		case *ensdf.Level:
			prev = g
		case *ensdf.Gamma:
			if prev == nil || !prev.E.Valid || !g.E.Valid {
				continue
			}
			from := d.LevelNear(prev.E.Value)
			if from == nil || !from.E.Valid {
				continue
			}
			to := d.LevelNear(from.E.Value - g.E.Value)
			if !(isMetastable(to, daughter) && to.T.Defined()) && !(isMetastable(from, daughter) && from.T.Defined()) {
				continue
			}
			if !isMetastable(from, daughter) {
				continue
			}
			ms := r.storedSymbol(daughterID, from.T)
			if ms == "" {
				continue
			}
			st.destMS = ms
			st.destBranch = newTracer(d, destTolerance).branching(from.E.Value)
			r.log.Debug("decay feeds isomer",
				zap.String("dsid", d.DSID()),
				zap.String("isomer", daughterID+ms),
				zap.Float64("branching", st.destBranch))
			return
		}
	}
}
