package ensdf

import (
	"strings"
)

// PatchAction describes how a patch dataset was merged.
type PatchAction int

const (
	PatchAppended PatchAction = iota
	PatchReplaced
	PatchOverwritten
)

func (a PatchAction) String() string {
	switch a {
	case PatchReplaced:
		return "replaced"
	case PatchOverwritten:
		return "overwritten"
	}
	return "appended"
}

// PatchResult reports the outcome of merging one patch dataset.
type PatchResult struct {
	Action PatchAction
	// Replaced is the DSID of the dataset that was removed, if any.
	Replaced string
	// SecondRemoved is the DSID of a further matching decay removed after
	// the replacement.
	SecondRemoved string
}

// replace merges a patch dataset. Adopted datasets overwrite, reactions
// append, decays replace the first existing decay whose DSID matches.
func (n *NuclideDataset) replace(d *Dataset) PatchResult {
	switch d.Kind {
	case Adopted:
		n.Adopted = d
		return PatchResult{Action: PatchOverwritten}
	case ReactionData:
		n.Reactions = append(n.Reactions, d)
		return PatchResult{Action: PatchAppended}
	}

	dsid := d.DSID()
	if strings.Contains(dsid, "EC DECAY") {
		i := n.matchDecay(dsid)
		if i < 0 {
			i = n.matchDecay(strings.Replace(dsid, "EC DECAY", "B+ DECAY", 1))
		}
		var res PatchResult
		if i >= 0 {
			res = PatchResult{Action: PatchReplaced, Replaced: n.removeDecay(i)}
		}
		n.Decays = append(n.Decays, d)
		return res
	}

	var res PatchResult
	if i := n.matchDecay(dsid); i >= 0 {
		res = PatchResult{Action: PatchReplaced, Replaced: n.removeDecay(i)}
	}
	n.Decays = append(n.Decays, d)
	if res.Action == PatchReplaced {
		if i := n.matchDecay(dsid); i >= 0 && i != len(n.Decays)-1 {
			res.SecondRemoved = n.removeDecay(i)
		}
	}
	return res
}

func (n *NuclideDataset) matchDecay(dsid string) int {
	for i, d := range n.Decays {
		if sameDecay(dsid, d.DSID()) {
			return i
		}
	}
	return -1
}

func (n *NuclideDataset) removeDecay(i int) string {
	dsid := n.Decays[i].DSID()
	n.Decays = append(n.Decays[:i], n.Decays[i+1:]...)
	return dsid
}

// sameDecay reports whether a patch DSID names an existing decay: either
// the existing DSID is a prefix of the patch, or both agree on their first
// three tokens and carry half-lives within 10% of each other.
func sameDecay(patch, existing string) bool {
	if strings.HasPrefix(patch, existing) {
		return true
	}
	if !strings.Contains(existing, "(") || !strings.Contains(existing, ")") {
		return false
	}
	pt, et := strings.Fields(patch), strings.Fields(existing)
	if len(pt) < 3 || len(et) < 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if pt[i] != et[i] {
			return false
		}
	}
	eh, ok := DSIDHalfLife(existing)
	if !ok {
		return false
	}
	ph, ok := DSIDHalfLife(patch)
	if !ok {
		return false
	}
	es, eok := eh.Seconds()
	ps, pok := ph.Seconds()
	if !eok || !pok || ps == 0 {
		return false
	}
	r := es / ps
	return r > 0.9 && r < 1.1
}

// DSIDHalfLife extracts the parenthesized half-life of a decay DSID such
// as "60CO B- DECAY (10.467 M)". The value is the first token from the
// fourth on that starts with a digit, and the unit is the token after it.
func DSIDHalfLife(dsid string) (HalfLife, bool) {
	tok := strings.Fields(dsid)
	if len(tok) <= 4 || !strings.Contains(dsid, "(") || !strings.Contains(dsid, ")") {
		return HalfLife{}, false
	}
	for j := 3; j < len(tok)-1; j++ {
		num := strings.ReplaceAll(tok[j], "(", "")
		if num == "" || !isDigit(num[0]) {
			continue
		}
		unit := strings.ReplaceAll(tok[j+1], ")", "")
		hl, err := ParseHalfLife(num + " " + unit)
		if err != nil || !hl.Defined() {
			return HalfLife{}, false
		}
		return hl, true
	}
	return HalfLife{}, false
}
