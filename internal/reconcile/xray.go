package reconcile

import (
	"math"
	"strings"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
	"github.com/mesh-intelligence/nuclibre/internal/refdata"
	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// xray is a derived characteristic X-ray line.
type xray struct {
	name      string
	energy    float64
	intensity float64
}

// shellTotals returns the summed relative intensities of the K and L lines
// of a shell, as fractions of 100.
func shellTotals(sh *refdata.Shell) (k, l float64) {
	for _, ln := range sh.Lines {
		switch {
		case strings.HasPrefix(ln.Name, "K"):
			k += float64(ln.RelInt)
		case strings.HasPrefix(ln.Name, "L"):
			l += float64(ln.RelInt)
		}
	}
	return k / 100, l / 100
}

// distribute spreads K and L vacancy intensities over the lines of a shell
// in proportion to their relative intensities.
func distribute(sh *refdata.Shell, k, l float64) []xray {
	totalK, totalL := shellTotals(sh)
	out := make([]xray, len(sh.Lines))
	for i, ln := range sh.Lines {
		x := xray{name: ln.Name, energy: ln.Energy}
		switch {
		case strings.HasPrefix(ln.Name, "K"):
			x.intensity = k * float64(ln.RelInt) / totalK / 100
		case strings.HasPrefix(ln.Name, "L"):
			x.intensity = l * float64(ln.RelInt) / totalL / 100
		}
		out[i] = x
	}
	return out
}

// captureXRays derives the X-rays following electron capture from the K
// and L capture fractions of each branch.
func captureXRays(sh *refdata.Shell, captures []*ensdf.EC) []xray {
	var k, l float64
	for _, c := range captures {
		ie := c.IE.Or(0) + c.IB.Or(0)
		k += c.CK.Or(0) * ie
		l += c.CL.Or(0) * ie
	}
	return distribute(sh, sh.Wk*k, sh.Wl*l)
}

// conversionXRays derives the X-rays following internal conversion. Each
// K vacancy also produces nKL L vacancies.
func conversionXRays(sh *refdata.Shell, gammas []*ensdf.Gamma) []xray {
	var k, l float64
	for _, g := range gammas {
		ri := g.RI.Or(0)
		kc := g.KC.Or(0)
		k += kc * ri
		l += (kc*sh.NKL + g.LC.Or(0)) * ri
	}
	return distribute(sh, sh.Wk*k, sh.Wl*l)
}

// secondary emits the annihilation line and the X-rays of one decay.
func (r *run) secondary(c *lineContext, gammas []*ensdf.Gamma, captures []*ensdf.EC, line int) int {
	if len(captures) > 0 {
		cumIB := 0.0
		for _, ec := range captures {
			cumIB += ec.IB.Or(0)
		}
		if p := roundSig(2*cumIB, 4, roundUp); cumIB != 0 && !math.IsNaN(p) {
			r.emit(types.LinesTable,
				types.Col("nuclideId", c.parentID),
				types.Col("lineType", LineGamma),
				types.Col("idLine", line),
				types.Col("daughterNuclideId", c.daughter),
				types.Col("initialIdStateP", nil),
				types.Col("initialIdStateD", nil),
				types.Col("finalIdState", nil),
				types.Col("energy", ensdf.AnnihilationEnergy),
				types.Col("uncEnergy", nil),
				types.Col("emissionProb", p),
				types.Col("uncEmissionProb", nil),
				types.Col("designation", annihilation),
				types.Col("source", text(c.decay.Origin)),
			)
			r.report.Annihilations++
			line++
		}
	}
	if len(gammas) == 0 && len(captures) == 0 {
		return line
	}

	z, ok := refdata.Z(ensdf.ElementSymbol(c.decay.NUCID()))
	sh := r.ref.Shells.For(z)
	if !ok || sh == nil || len(sh.Lines) == 0 {
		r.report.skip(ReasonNoShellData)
		return line
	}
	var xs []xray
	if len(gammas) > 0 {
		xs = conversionXRays(sh, gammas)
	}
	if len(captures) > 0 {
		ec := captureXRays(sh, captures)
		if xs == nil {
			xs = ec
		} else {
			for i := range xs {
				xs[i].intensity += ec[i].intensity
			}
		}
	}
	for _, x := range xs {
		if x.intensity <= 0 {
			continue
		}
		r.emit(types.LinesTable,
			types.Col("nuclideId", c.parentID),
			types.Col("lineType", LineXRay),
			types.Col("idLine", line),
			types.Col("daughterNuclideId", c.daughter),
			types.Col("energy", x.energy),
			types.Col("emissionProb", nullable(roundSig(x.intensity, 4, roundUp))),
			types.Col("designation", x.name),
			types.Col("source", text(c.decay.Origin)),
		)
		r.report.XRays++
		line++
	}
	return line
}
