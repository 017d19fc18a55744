package reconcile

import (
	"math"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
)

// Energy tolerances. The level emitting a gamma is matched tightly, in keV,
// against levels of the same decay; cascade destinations are matched by
// energy ratio within the tracer's tolerance, and a level fed directly by
// a beta or capture branch within directTolerance keV of the target
// short-circuits the search.
const (
	levelTolerance  = 0.0002
	destTolerance   = 0.005
	directTolerance = 0.01
)

// transition is one step of a path into a target level.
type transition struct {
	from, to float64
	// intensity is the fraction of the source level's gamma intensity
	// that this transition carries.
	intensity float64
	// prob is the probability per decay that the path reaches the target
	// through this transition.
	prob   float64
	direct bool
}

// tracer finds the transitions of one decay that lead into a level.
type tracer struct {
	decay   *ensdf.Dataset
	tol     float64
	visited map[float64]bool
	found   []transition
}

func newTracer(d *ensdf.Dataset, tol float64) *tracer {
	return &tracer{decay: d, tol: tol, visited: make(map[float64]bool)}
}

// branching returns the probability per decay of reaching the level at
// energy e, summed over direct feeding and gamma cascades from above.
func (t *tracer) branching(e float64) float64 {
	t.toLevel(e, 1, 1)
	sum := 0.0
	for _, tr := range t.found {
		sum += tr.prob
	}
	return sum
}

// totalIntensity sums the intensities of the gammas leaving the level at
// energy e, matched within levelTolerance.
func (t *tracer) totalIntensity(e float64) float64 {
	var prev *ensdf.Level
	total := 0.0
	for _, rec := range t.decay.Records {
		switch r := rec.(type) {
		case *ensdf.Level:
			prev = r
		case *ensdf.Gamma:
			if prev == nil || !prev.E.Valid || !r.E.Valid {
				continue
			}
			if math.Abs(prev.E.Value-e) < levelTolerance && r.RI.Valid {
				total += r.RI.Value
			}
		}
	}
	return total
}

// toLevel walks the cascade into the level at energy e. weight is the
// product of transition fractions on the path so far and depth the
// search depth, 1 at the target. Each level is searched once.
func (t *tracer) toLevel(e, weight float64, depth int) {
	if t.visited[e] {
		return
	}
	t.visited[e] = true

	var prev *ensdf.Level
	var feeding ensdf.Emission
	lastDirect := math.NaN()
	for _, rec := range t.decay.Records {
		switch r := rec.(type) {
		case *ensdf.Level:
			prev, feeding = r, nil
		case *ensdf.Beta, *ensdf.EC:
			feeding = r.(ensdf.Emission)
		case *ensdf.Gamma:
			if prev == nil || !prev.E.Valid || !r.E.Valid || prev.E.Value < e {
				continue
			}
			from := prev.E.Value
			to := from - r.E.Value

			if depth == 1 && math.Abs(from-e) < directTolerance &&
				feeding != nil && feeding.Intensity().Valid && from != lastDirect {
				t.found = append(t.found, transition{
					from: from, to: to, intensity: 1,
					prob:   feeding.Intensity().Value / 100,
					direct: true,
				})
				lastDirect = from
			}

			if from <= e || math.Abs(e/to-1) >= t.tol || !r.RI.Valid {
				continue
			}
			total := t.totalIntensity(from)
			if total == 0 {
				continue
			}
			frac := r.RI.Value / total
			if feeding != nil && feeding.Intensity().Valid && feeding.Intensity().Value > 0 {
				t.found = append(t.found, transition{
					from: from, to: to, intensity: frac,
					prob: feeding.Intensity().Value / 100 * weight * frac,
				})
			}
			t.toLevel(from, frac*weight, depth+1)
		}
	}
}
