package reconcile

import "sort"

// SkipReason names the missing prerequisite that kept an entity out of the
// output. The empty reason means stored.
type SkipReason string

const (
	ReasonNoAdopted         SkipReason = "no adopted dataset"
	ReasonDeferred          SkipReason = "ground-state half-life unknown"
	ReasonCombinedDecay     SkipReason = "combined decay dataset"
	ReasonNoParent          SkipReason = "no parent record"
	ReasonNoNormalization   SkipReason = "no normalization record"
	ReasonComplexDSID       SkipReason = "complex dataset id"
	ReasonFission           SkipReason = "spontaneous fission"
	ReasonParentUnknown     SkipReason = "parent nuclide unknown"
	ReasonDecayingLevel     SkipReason = "beta-minus decaying level unknown"
	ReasonIsomerLinesStored SkipReason = "isomer lines already stored"
	ReasonNoShellData       SkipReason = "no shell data"
)

// Outcome is the result of storing one nuclide or decay.
type Outcome struct {
	Reason SkipReason
}

// Stored returns the outcome of an entity that reached the sink.
func Stored() Outcome { return Outcome{} }

// Skipped returns the outcome of an entity left out for reason.
func Skipped(reason SkipReason) Outcome { return Outcome{Reason: reason} }

// IsStored reports whether the entity was stored.
func (o Outcome) IsStored() bool { return o.Reason == "" }

func (o Outcome) String() string {
	if o.IsStored() {
		return "stored"
	}
	return "skipped: " + string(o.Reason)
}

// Report summarizes one store run.
type Report struct {
	Nuclides      int
	Isomers       int
	States        int
	Decays        int
	Lines         int
	XRays         int
	Annihilations int
	// Resolved counts deferred nuclides whose half-life was later found in
	// a parent record.
	Resolved int
	Skipped  map[SkipReason]int
	// Unresolved lists the deferred nuclides still pending at the end of
	// the run, in the order they were deferred.
	Unresolved []string
}

func newReport() *Report {
	return &Report{Skipped: make(map[SkipReason]int)}
}

func (r *Report) skip(reason SkipReason) {
	r.Skipped[reason]++
}

// Reasons returns the skip reasons seen, sorted.
func (r *Report) Reasons() []SkipReason {
	out := make([]SkipReason, 0, len(r.Skipped))
	for k := range r.Skipped {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
