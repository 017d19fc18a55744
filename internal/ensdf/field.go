// Package ensdf parses the Evaluated Nuclear Structure Data File format.
//
// ENSDF is a fixed-column text format: every card is 80 characters wide and
// cards are grouped into datasets, each introduced by an identification
// record and closed by a blank line. This package decodes columns into
// typed values, builds records and datasets, and keeps the per-nuclide
// registry that the reconciliation engine reads from.
package ensdf

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RecordWidth is the width of one ENSDF card.
const RecordWidth = 80

// ErrMalformedField is wrapped by every FieldError.
var ErrMalformedField = errors.New("malformed field")

// FieldError reports a column range whose text could not be decoded.
type FieldError struct {
	Start, End int
	Text       string
	Err        error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("columns %d-%d %q: %v", e.Start, e.End, e.Text, e.Err)
}

func (e *FieldError) Unwrap() []error {
	return []error{ErrMalformedField, e.Err}
}

// Number is a decoded numeric column. Valid is false when the column was
// blank or held one of the non-numeric sentinels. Scale is the number of
// decimal places the source text carried, exponent included, so that
// uncertainties can be scaled to the precision of the value.
type Number struct {
	Value float64
	Valid bool
	Scale int
}

// Known returns a valid Number with no recorded precision.
func Known(v float64) Number {
	return Number{Value: v, Valid: true}
}

// Or returns the value, or def when the number is unknown.
func (n Number) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// column returns the raw text of the 1-based inclusive range. Short content
// reads as blank.
func column(content string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if start > len(content) {
		return ""
	}
	if end > len(content) {
		end = len(content)
	}
	return content[start-1 : end]
}

// field returns the trimmed text of a column range.
func field(content string, start, end int) string {
	return strings.TrimSpace(column(content, start, end))
}

// ParseNumber decodes a numeric ENSDF field. Sentinels that carry no usable
// value decode as an unknown Number with a nil error.
func ParseNumber(text string) (Number, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Number{}, nil
	}
	s = strings.NewReplacer("(", "", ")", "").Replace(s)
	switch {
	case s == "WEAK":
		return Known(0), nil
	case strings.HasPrefix(s, "SP+"), strings.HasPrefix(s, "SN+"):
		return Number{}, nil
	case len(s) > 2 && s[len(s)-2] == '+' && !isDigit(s[len(s)-1]):
		return Number{}, nil
	case len(s) > 2 && s[1] == '+':
		return Number{}, nil
	case len(s) == 1 && !isDigit(s[0]):
		return Number{}, nil
	}
	s = strings.TrimSuffix(s, "AP")
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, err
	}
	return Number{Value: v, Valid: true, Scale: decimalScale(s)}, nil
}

// decimalScale returns the decimal scale of a numeric literal the way a
// decimal type would report it: digits after the point minus the exponent.
func decimalScale(s string) int {
	mantissa, exp := s, 0
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissa = s[:i]
		if e, err := strconv.Atoi(s[i+1:]); err == nil {
			exp = e
		}
	}
	scale := 0
	if i := strings.IndexByte(mantissa, '.'); i >= 0 {
		scale = len(mantissa) - i - 1
	}
	return scale - exp
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Qualifier is a non-numeric uncertainty marker.
type Qualifier string

const (
	QualifierNone Qualifier = ""
	LessThan      Qualifier = "LT"
	GreaterThan   Qualifier = "GT"
	LessEqual     Qualifier = "LE"
	GreaterEqual  Qualifier = "GE"
	Approximate   Qualifier = "AP"
	Calculated    Qualifier = "CA"
	Systematics   Qualifier = "SY"
)

var qualifiers = map[string]Qualifier{
	"LT": LessThan,
	"GT": GreaterThan,
	"LE": LessEqual,
	"GE": GreaterEqual,
	"AP": Approximate,
	"CA": Calculated,
	"SY": Systematics,
}

// Uncertainty is a decoded uncertainty column. Valid is set only for a
// symmetric numeric uncertainty.
type Uncertainty struct {
	Value      float64
	Valid      bool
	Qualifier  Qualifier
	Asymmetric bool
	Text       string
}

// ParseUncertainty decodes ENSDF uncertainty text relative to the decimal
// scale of the value it qualifies: "5" against 1.23 is 0.05.
func ParseUncertainty(text string, base Number) (Uncertainty, error) {
	return parseUncertainty(text, base.Scale, 1)
}

// ParseHalfLifeUncertainty decodes an uncertainty of a half-life. The result
// is expressed in seconds.
func ParseHalfLifeUncertainty(text string, hl HalfLife) (Uncertainty, error) {
	return parseUncertainty(text, hl.Scale, unitSeconds[hl.Unit])
}

func parseUncertainty(text string, scale int, mul float64) (Uncertainty, error) {
	s := strings.TrimSpace(text)
	u := Uncertainty{Text: s}
	if s == "" {
		return u, nil
	}
	if strings.ContainsAny(s, "+-") {
		u.Asymmetric = true
		return u, nil
	}
	if q, ok := qualifiers[s]; ok {
		u.Qualifier = q
		return u, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return u, err
	}
	u.Value = v * math.Pow10(-scale) * mul
	u.Valid = true
	return u, nil
}

// unitSeconds maps ENSDF half-life units to seconds.
var unitSeconds = map[string]float64{
	"S":  1,
	"M":  60,
	"H":  3600,
	"D":  86400,
	"Y":  31556926,
	"MS": 1e-3,
	"US": 1e-6,
	"NS": 1e-9,
	"PS": 1e-12,
	"FS": 1e-15,
	"AS": 1e-18,
}

// HalfLife is a decoded half-life column.
type HalfLife struct {
	Value  float64
	Unit   string
	Scale  int
	Stable bool
	Known  bool
}

// ParseHalfLife decodes "<value> <unit>" or "STABLE". Level widths given in
// energy units and limits such as ">1 Y" decode as unknown.
func ParseHalfLife(text string) (HalfLife, error) {
	s := strings.TrimSpace(text)
	if strings.EqualFold(s, "STABLE") {
		return HalfLife{Stable: true}, nil
	}
	tok := strings.Fields(s)
	if len(tok) != 2 {
		return HalfLife{}, nil
	}
	unit := strings.ToUpper(tok[1])
	if _, ok := unitSeconds[unit]; !ok {
		return HalfLife{}, nil
	}
	num := strings.NewReplacer("(", "", ")", "").Replace(tok[0])
	if num == "" || !(isDigit(num[0]) || num[0] == '.') {
		return HalfLife{}, nil
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return HalfLife{}, err
	}
	return HalfLife{Value: v, Unit: unit, Scale: decimalScale(num), Known: true}, nil
}

// Seconds returns the half-life in seconds. Unknown and stable half-lives
// report ok=false.
func (h HalfLife) Seconds() (float64, bool) {
	if !h.Known || h.Stable {
		return 0, false
	}
	return h.Value * unitSeconds[h.Unit], true
}

// Defined reports whether the half-life carries information, either a
// value or the stable flag.
func (h HalfLife) Defined() bool {
	return h.Known || h.Stable
}

func (h HalfLife) String() string {
	switch {
	case h.Stable:
		return "stable"
	case !h.Known:
		return "unknown"
	}
	return strconv.FormatFloat(h.Value, 'g', -1, 64) + " " + h.Unit
}

// decoder reads typed fields out of one card, collecting decode errors
// instead of failing the record.
type decoder struct {
	content string
	errs    []error
}

func (d *decoder) text(start, end int) string {
	return field(d.content, start, end)
}

func (d *decoder) fail(start, end int, text string, err error) {
	d.errs = append(d.errs, &FieldError{Start: start, End: end, Text: text, Err: err})
}

func (d *decoder) num(start, end int) Number {
	raw := d.text(start, end)
	n, err := ParseNumber(raw)
	if err != nil {
		d.fail(start, end, raw, err)
	}
	return n
}

func (d *decoder) unc(start, end int, base Number) Uncertainty {
	raw := d.text(start, end)
	u, err := ParseUncertainty(raw, base)
	if err != nil {
		d.fail(start, end, raw, err)
	}
	return u
}

func (d *decoder) halfLife(start, end int) HalfLife {
	raw := d.text(start, end)
	h, err := ParseHalfLife(raw)
	if err != nil {
		d.fail(start, end, raw, err)
	}
	return h
}

func (d *decoder) halfLifeUnc(start, end int, hl HalfLife) Uncertainty {
	raw := d.text(start, end)
	if !hl.Known {
		return Uncertainty{Text: raw}
	}
	u, err := ParseHalfLifeUncertainty(raw, hl)
	if err != nil {
		d.fail(start, end, raw, err)
	}
	return u
}

func (d *decoder) err() error {
	return errors.Join(d.errs...)
}
