package reconcile

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
)

// Half-life ratio windows. A new isomer reuses an existing symbol only when
// the half-lives agree to 0.05%; a destination lookup accepts 5%.
const (
	assignTolerance = 0.0005
	lookupTolerance = 0.05
)

// groundHalfLife returns the ground-state half-life of an adopted dataset.
func groundHalfLife(ad *ensdf.Dataset) (ensdf.HalfLife, bool) {
	if ad == nil {
		return ensdf.HalfLife{}, false
	}
	gs := ad.GroundState()
	if gs == nil {
		return ensdf.HalfLife{}, false
	}
	return gs.T, true
}

func ratio(a, b ensdf.HalfLife) float64 {
	sa, oka := a.Seconds()
	sb, okb := b.Seconds()
	if !oka || !okb {
		return math.NaN()
	}
	return sa / sb
}

func within(r, tol float64) bool {
	return r > 1-tol && r < 1+tol
}

// dsidIsomerHalfLife reads the half-life a decay DSID gives in
// parentheses and returns it when it differs from the parent's ground
// state, which marks a decay from a metastable state.
func dsidIsomerHalfLife(dsid string, parent *ensdf.NuclideDataset) (ensdf.HalfLife, bool) {
	hl, ok := ensdf.DSIDHalfLife(dsid)
	if !ok {
		return ensdf.HalfLife{}, false
	}
	gs, ok := groundHalfLife(parent.Adopted)
	if !ok {
		return hl, true
	}
	if gs.Stable && !hl.Stable {
		return hl, true
	}
	if within(ratio(hl, gs), lookupTolerance) {
		return ensdf.HalfLife{}, false
	}
	return hl, true
}

// sortedSymbols returns the isomer symbols of a nuclide in a stable order.
func sortedSymbols(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for ms := range m {
		out = append(out, ms)
	}
	sort.Strings(out)
	return out
}

// symbolFor returns the isomer symbol for a half-life: an existing one
// when the half-life matches, otherwise the next free "m<N>".
func (r *run) symbolFor(id string, hl ensdf.HalfLife) string {
	m := r.isomers[id]
	if m == nil {
		return "m"
	}
	s, _ := hl.Seconds()
	max := 1
	for _, ms := range sortedSymbols(m) {
		if within(m[ms]/s, assignTolerance) {
			return ms
		}
		if n, err := strconv.Atoi(ms[len(ms)-1:]); err == nil && n > max {
			max = n
		}
	}
	return "m" + strconv.Itoa(max+1)
}

// storedSymbol returns the symbol of a stored isomer with a matching
// half-life, or "".
func (r *run) storedSymbol(id string, hl ensdf.HalfLife) string {
	m := r.isomers[id]
	s, ok := hl.Seconds()
	if m == nil || !ok {
		return ""
	}
	for _, ms := range sortedSymbols(m) {
		if within(m[ms]/s, lookupTolerance) {
			return ms
		}
	}
	return ""
}

func (r *run) hasIsomer(id, ms string) bool {
	_, ok := r.isomers[id][ms]
	return ok
}

// isMetastable reports whether a level of nuclide n is an isomer: it
// carries a metastable symbol, or its half-life differs from the ground
// state's.
func isMetastable(l *ensdf.Level, n *ensdf.NuclideDataset) bool {
	if l == nil {
		return false
	}
	if l.MS != "" {
		return true
	}
	if !l.T.Defined() || n == nil {
		return false
	}
	gs, ok := groundHalfLife(n.Adopted)
	if !ok {
		return false
	}
	if gs.Stable != l.T.Stable {
		return true
	}
	if gs.Stable {
		return false
	}
	r := ratio(gs, l.T)
	if math.IsNaN(r) {
		return false
	}
	return !within(r, lookupTolerance)
}

// decayingSymbol determines whether a decay starts from a metastable state
// of its parent and returns the state's symbol, storing the isomer the
// first time it is seen. Ground states are never isomers.
func (r *run) decayingSymbol(isIT bool, pr *ensdf.Parent, level *ensdf.Level, dsid, parentNUCID string, parent *ensdf.NuclideDataset) string {
	ms := ""
	if pr.E.Valid && level != nil {
		ms = strings.ToLower(level.MS)
	}
	ground := level != nil && level.E.Valid && level.E.Value == 0

	hl, ok := dsidIsomerHalfLife(dsid, parent)
	if isIT {
		if level != nil && positive(level.T) {
			hl, ok = level.T, true
		}
		if !ok && pr.T.Defined() {
			hl, ok = pr.T, true
		}
	}
	id := ensdf.ExternalID(parentNUCID)
	if ok {
		if ground {
			ms = ""
		} else {
			ms = r.symbolFor(id, hl)
		}
	}
	if ms == "" || r.hasIsomer(id, ms) {
		return ms
	}
	if ground {
		return ""
	}

	var isoHL ensdf.HalfLife
	var adopted *ensdf.Level
	if pr.E.Valid && parent.Adopted != nil {
		adopted = parent.Adopted.LevelNear(pr.E.Value)
	}
	switch {
	case level != nil && positive(level.T):
		isoHL = level.T
	case adopted != nil && positive(adopted.T):
		isoHL = adopted.T
	case ok:
		isoHL = hl
	}
	r.storeIsomer(id, ms, isoHL, parent)
	if level != nil {
		level.MS = ms
	}
	return ms
}
