package reconcile

import (
	"math"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// Line types of the libLines table.
const (
	LineGamma    = "G"
	LineBeta     = "B"
	LineAlpha    = "A"
	LineCapture  = "E"
	LineXRay     = "X"
	annihilation = "annihilation"
)

func lineType(e ensdf.Emission) string {
	switch e.(type) {
	case *ensdf.Gamma:
		return LineGamma
	case *ensdf.Beta:
		return LineBeta
	case *ensdf.Alpha:
		return LineAlpha
	case *ensdf.EC:
		return LineCapture
	}
	return ""
}

// lineContext is what every line of one decay shares.
type lineContext struct {
	decay     *ensdf.Dataset
	parentID  string
	daughter  string
	branching float64
	// feeding is the parent level the decay starts from.
	feeding *ensdf.Level
	// states is the daughter's adopted dataset, used for state ids.
	states *ensdf.Dataset
}

// stateNear finds the daughter state at energy e: the adopted level when
// the daughter has one, else the decay's own level, which has no id.
func (c *lineContext) stateNear(e float64) *ensdf.Level {
	if c.states != nil {
		if l := c.states.LevelNear(e); l != nil {
			return l
		}
	}
	return c.decay.LevelNear(e)
}

// decayLines emits the lines of one stored decay, numbering them from
// line, and returns the next free line id.
func (r *run) decayLines(d *ensdf.Dataset, st *decayState, line int) int {
	nr := d.Normalization
	if nr == nil {
		return line
	}
	pn := parentNUCID(d.DSID())
	c := &lineContext{
		decay:     d,
		parentID:  ensdf.ExternalID(pn) + st.ms,
		daughter:  ensdf.ExternalID(d.NUCID()) + st.destMS,
		branching: nr.BR.Or(1),
		states:    r.reg.Adopted(d.NUCID()),
	}
	if pr := d.Parent; pr != nil && pr.E.Valid {
		if ad := r.reg.Adopted(pn); ad != nil {
			c.feeding = ad.LevelNear(pr.E.Value)
		}
	}

	key := c.parentID + "|" + ensdf.ExternalID(d.NUCID())
	if st.ms != "" && r.storedIsomers[key] {
		r.report.skip(ReasonIsomerLinesStored)
		return line
	}

	var gammas []*ensdf.Gamma
	var captures []*ensdf.EC
	var prev *ensdf.Level
	for _, rec := range d.Records {
		switch v := rec.(type) {
		case *ensdf.Level:
			prev = v
			continue
		case *ensdf.Gamma:
			gammas = append(gammas, v)
		case *ensdf.EC:
			captures = append(captures, v)
		}
		if em, ok := rec.(ensdf.Emission); ok {
			line = r.emissionLine(c, em, prev, line)
		}
	}
	line = r.secondary(c, gammas, captures, line)
	if st.ms != "" {
		r.storedIsomers[key] = true
	}
	return line
}

// emissionLine emits one gamma, beta, alpha or capture line. Lines with a
// zero energy or a zero or unknown intensity are dropped.
func (r *run) emissionLine(c *lineContext, em ensdf.Emission, prev *ensdf.Level, line int) int {
	typ := lineType(em)
	e, prob := em.Energy(), em.Intensity()
	if _, ok := em.(*ensdf.Alpha); ok && prob.Valid {
		prob = ensdf.Known(prob.Value * c.branching)
	}

	var initialP, initialD, final any
	if g, ok := em.(*ensdf.Gamma); ok {
		if prev != nil && prev.E.Valid {
			from := c.stateNear(prev.E.Value)
			fromE := prev.E.Value
			if from != nil {
				fromE = from.E.Value
			}
			initialD = levelState(from)
			if g.E.Valid {
				final = levelState(c.stateNear(fromE - g.E.Value))
			}
		}
		initialP = levelState(c.feeding)
	}

	if !e.Valid || e.Value == 0 || !prob.Valid || prob.Value == 0 || math.IsNaN(prob.Value) {
		return line
	}
	r.emit(types.LinesTable,
		types.Col("nuclideId", c.parentID),
		types.Col("lineType", typ),
		types.Col("idLine", line),
		types.Col("daughterNuclideId", c.daughter),
		types.Col("initialIdStateP", initialP),
		types.Col("initialIdStateD", initialD),
		types.Col("finalIdState", final),
		types.Col("energy", e.Value),
		types.Col("uncEnergy", uncertainty(em.EnergyUnc())),
		types.Col("emissionProb", prob.Value),
		types.Col("uncEmissionProb", uncertainty(em.IntensityUnc())),
		types.Col("designation", nil),
		types.Col("source", text(c.decay.Origin)),
	)
	r.report.Lines++
	return line + 1
}
