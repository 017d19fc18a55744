package refdata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
)

// massHeaderLines is the number of preamble lines of an AME mass table.
const massHeaderLines = 36

// Q-value constants. Masses are in micro-u.
const (
	electronMass = 548.58
	uToKeV       = 931.494028 * 1e-3
)

// Mass is an atomic mass excess over A in micro-u, as tabulated in the
// last-but-one column of the AME table.
type Mass struct {
	MicroU float64
	Unc    float64
}

// Masses maps a NUCID-style key such as "137CS" to its atomic mass.
type Masses map[string]Mass

// LoadMasses reads an AME-format mass table. Data starts on line 37; a
// non-blank first column shifts the remaining columns by one. Estimated
// values marked with '#' are accepted.
func LoadMasses(r io.Reader) (Masses, error) {
	m := make(Masses)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if n <= massHeaderLines || strings.TrimSpace(line) == "" {
			continue
		}
		key, mass, err := parseMassLine(line)
		if err != nil {
			return nil, fmt.Errorf("mass table line %d: %w", n, err)
		}
		m[key] = mass
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading mass table: %w", err)
	}
	return m, nil
}

func parseMassLine(line string) (string, Mass, error) {
	tok := strings.Fields(line)
	ai := 3
	if !unicode.IsSpace(rune(line[0])) {
		ai++
	}
	if len(tok) < ai+4 {
		return "", Mass{}, fmt.Errorf("%d columns", len(tok))
	}
	clean := func(s string) string { return strings.ReplaceAll(s, "#", "") }
	v, err := strconv.ParseFloat(clean(tok[len(tok)-2]), 64)
	if err != nil {
		return "", Mass{}, err
	}
	u, err := strconv.ParseFloat(clean(tok[len(tok)-1]), 64)
	if err != nil {
		u = 0
	}
	return tok[ai] + strings.ToUpper(tok[ai+1]), Mass{MicroU: v, Unc: u}, nil
}

// daughterKey returns the key of the Z-1 isobar of a nuclide.
func daughterKey(nucid string) (string, bool) {
	z, ok := Z(ensdf.ElementSymbol(nucid))
	if !ok {
		return "", false
	}
	a, ok := ensdf.MassNumber(nucid)
	if !ok {
		return "", false
	}
	sym, ok := Element(z - 1)
	if !ok {
		return "", false
	}
	return strconv.Itoa(a) + sym, true
}

func (m Masses) difference(nucid string) (float64, bool) {
	mother, ok := m[nucid]
	if !ok {
		return 0, false
	}
	dk, ok := daughterKey(nucid)
	if !ok {
		return 0, false
	}
	daughter, ok := m[dk]
	if !ok {
		return 0, false
	}
	return mother.MicroU - daughter.MicroU, true
}

// QPlus returns the beta-plus Q-value of a nuclide in keV. Missing masses
// yield 0.
func (m Masses) QPlus(nucid string) float64 {
	d, ok := m.difference(nucid)
	if !ok {
		return 0
	}
	return (d - 2*electronMass) * uToKeV
}

// QEC returns the electron-capture Q-value of a nuclide in keV. Missing
// masses yield 0.
func (m Masses) QEC(nucid string) float64 {
	d, ok := m.difference(nucid)
	if !ok {
		return 0
	}
	return d * uToKeV
}
