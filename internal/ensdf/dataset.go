package ensdf

import "strings"

// DatasetKind classifies a dataset by its identification text.
type DatasetKind int

const (
	Adopted DatasetKind = iota
	DecayData
	ReactionData
)

func (k DatasetKind) String() string {
	switch k {
	case Adopted:
		return "adopted"
	case DecayData:
		return "decay"
	case ReactionData:
		return "reaction"
	}
	return "unknown"
}

// Classify returns the dataset kind for a DSID.
func Classify(dsid string) DatasetKind {
	switch {
	case dsid == "ADOPTED LEVELS, GAMMAS", strings.HasPrefix(dsid, "ADOPTED LEVELS"):
		return Adopted
	case strings.Contains(dsid, "DECAY"):
		return DecayData
	}
	return ReactionData
}

// Dataset is one evaluation of a nuclide: the adopted level scheme, a
// single decay, or a single reaction.
type Dataset struct {
	Kind   DatasetKind
	ID     *Identification
	Origin string
	// Line is the source line of the identification record.
	Line int

	History                 *History
	Normalization           *Normalization
	ProductionNormalization *ProductionNormalization
	QValue                  *QValue
	Parent                  *Parent

	// Records holds levels, emissions, cross-references, delayed particles
	// and references in card order.
	Records  []Record
	Comments []*Comment

	nextIndex int
}

// NewDataset creates an empty dataset for an identification record.
func NewDataset(id *Identification, origin string) *Dataset {
	return &Dataset{
		Kind:   Classify(id.DSID),
		ID:     id,
		Origin: origin,
		Line:   id.Line(),
	}
}

// DSID returns the dataset identification text.
func (d *Dataset) DSID() string {
	return d.ID.DSID
}

// Key is the registry key of the dataset. Decay datasets are filed under
// their parent nuclide, the first token of the DSID; the others under the
// identification NUCID.
func (d *Dataset) Key() string {
	if d.Kind == DecayData {
		if tok := strings.Fields(d.ID.DSID); len(tok) > 0 {
			return tok[0]
		}
	}
	return d.ID.NUCID
}

// NUCID is the nuclide the dataset's levels belong to. For a decay that is
// the daughter.
func (d *Dataset) NUCID() string {
	return d.ID.NUCID
}

func (d *Dataset) String() string {
	return d.ID.NUCID + " " + d.ID.DSID
}

// addResult tells the parser what happened to a record.
type addResult int

const (
	added addResult = iota
	replacedNormalization
)

// add files a parsed record. Adopted datasets number their levels in card
// order. A later normalization record replaces the earlier one; a parent
// record replaces the current one only while the current one is incomplete.
func (d *Dataset) add(r Record) addResult {
	switch rec := r.(type) {
	case *History:
		d.History = rec
	case *Comment:
		d.Comments = append(d.Comments, rec)
	case *Identification:
		d.ID = rec
	case *Parent:
		if d.Parent == nil || !d.Parent.complete() {
			d.Parent = rec
		}
	case *ProductionNormalization:
		d.ProductionNormalization = rec
	case *Normalization:
		prev := d.Normalization
		d.Normalization = rec
		if prev != nil {
			return replacedNormalization
		}
	case *QValue:
		d.QValue = rec
	case *Level:
		if d.Kind == Adopted {
			rec.Index = d.nextIndex
			d.nextIndex++
		}
		d.Records = append(d.Records, rec)
	default:
		d.Records = append(d.Records, r)
	}
	return added
}

// continueLast merges a continuation card into the last record when it is
// of the same kind.
func (d *Dataset) continueLast(kind Kind, content string) bool {
	if len(d.Records) == 0 {
		return false
	}
	last := d.Records[len(d.Records)-1]
	if last.Kind() != kind {
		return false
	}
	return continueWith(last, content)
}

// continueComment appends the text of a continuation card to the last
// comment.
func (d *Dataset) continueComment(content string) bool {
	if len(d.Comments) == 0 {
		return false
	}
	return continueWith(d.Comments[len(d.Comments)-1], content)
}

// Levels returns the level records in card order.
func (d *Dataset) Levels() []*Level {
	var out []*Level
	for _, r := range d.Records {
		if l, ok := r.(*Level); ok {
			out = append(out, l)
		}
	}
	return out
}

// GroundState returns the first level at 0 keV with a defined half-life.
func (d *Dataset) GroundState() *Level {
	for _, l := range d.Levels() {
		if l.E.Valid && l.E.Value == 0 && l.T.Defined() {
			return l
		}
	}
	return nil
}

// LevelNear returns the level closest in energy to e, provided it lies
// within 1 keV.
func (d *Dataset) LevelNear(e float64) *Level {
	var best *Level
	bestDist := 1.0
	for _, l := range d.Levels() {
		if !l.E.Valid {
			continue
		}
		dist := l.E.Value - e
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best, bestDist = l, dist
		}
	}
	return best
}

// SetGroundState gives the dataset a ground-state half-life learned
// elsewhere, typically from a parent record of a decay. An existing 0 keV
// level takes the half-life; otherwise a synthetic level is inserted ahead
// of all records with index 0 and the other levels move up by one.
func (d *Dataset) SetGroundState(t HalfLife) *Level {
	for _, l := range d.Levels() {
		if l.E.Valid && l.E.Value == 0 {
			l.T = t
			return l
		}
	}
	gs := &Level{NUCID: d.NUCID(), E: Known(0), T: t, Index: -1}
	if d.Kind == Adopted {
		for _, l := range d.Levels() {
			l.Index++
		}
		gs.Index = 0
		d.nextIndex++
	}
	d.Records = append([]Record{gs}, d.Records...)
	return gs
}
