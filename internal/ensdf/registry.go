package ensdf

import (
	"sort"
	"strings"
)

// NuclideDataset collects every dataset filed under one nuclide id.
type NuclideDataset struct {
	NUCID     string
	Adopted   *Dataset
	Decays    []*Dataset
	Reactions []*Dataset
	// Line is the source line that first referenced the nuclide.
	Line int
}

// set files a dataset during an initial parse. A later adopted dataset
// overwrites an earlier one.
func (n *NuclideDataset) set(d *Dataset) {
	switch d.Kind {
	case Adopted:
		n.Adopted = d
	case DecayData:
		n.Decays = append(n.Decays, d)
	default:
		n.Reactions = append(n.Reactions, d)
	}
}

// Registry maps nuclide ids such as "137CS" to their datasets.
type Registry struct {
	byID map[string]*NuclideDataset
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*NuclideDataset)}
}

// Get returns the datasets of a nuclide, or nil when none were read.
func (r *Registry) Get(nucid string) *NuclideDataset {
	return r.byID[nucid]
}

// Adopted returns the adopted dataset of a nuclide, or nil.
func (r *Registry) Adopted(nucid string) *Dataset {
	if n := r.byID[nucid]; n != nil {
		return n.Adopted
	}
	return nil
}

// Len returns the number of nuclides.
func (r *Registry) Len() int {
	return len(r.byID)
}

func (r *Registry) entry(nucid string, line int) *NuclideDataset {
	n, ok := r.byID[nucid]
	if !ok {
		n = &NuclideDataset{NUCID: nucid, Line: line}
		r.byID[nucid] = n
	}
	return n
}

// Nuclides returns all nuclides ordered by id length, then by id ignoring
// case, so "3H" sorts before "14C" and "14C" before "14N".
func (r *Registry) Nuclides() []*NuclideDataset {
	out := make([]*NuclideDataset, 0, len(r.byID))
	for _, n := range r.byID {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].NUCID, out[j].NUCID
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		la, lb := strings.ToLower(a), strings.ToLower(b)
		if la != lb {
			return la < lb
		}
		return a < b
	})
	return out
}
