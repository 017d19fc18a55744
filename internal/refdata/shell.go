package refdata

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxZ bounds the shell table. Larger atomic numbers use the last entry.
const MaxZ = 119

// XRayLine is one characteristic X-ray line of an element.
type XRayLine struct {
	Name   string
	Energy float64
	// RelInt is the intensity relative to the other lines of the same shell.
	RelInt int
}

// Shell holds the atomic shell data of one element.
type Shell struct {
	Z       int
	Element string
	Lines   []XRayLine
	// Wk and Wl are the K and L fluorescence yields, NKL the number of L
	// vacancies per K vacancy.
	Wk, Wl, NKL float64
}

// Shells is indexed by Z.
type Shells []Shell

// NewShells returns an empty table covering Z 0 to MaxZ.
func NewShells() Shells {
	s := make(Shells, MaxZ+1)
	for z := range s {
		s[z].Z = z
	}
	return s
}

// For returns the shell data of atomic number z, clamped to the table.
func (s Shells) For(z int) *Shell {
	if len(s) == 0 || z < 0 {
		return nil
	}
	if z >= len(s) {
		z = len(s) - 1
	}
	return &s[z]
}

// LoadYields reads a fluorescence yield table: whitespace separated
// columns Z, element, Wk, four unused columns, nKL and Wl ("-" when not
// tabulated). Values may carry a parenthesized uncertainty. Lines starting
// with '#' are comments.
func (s Shells) LoadYields(r io.Reader) error {
	return scanTable(r, "yield table", func(tok []string) error {
		if len(tok) < 9 {
			return fmt.Errorf("%d columns", len(tok))
		}
		z, err := s.index(tok[0])
		if err != nil {
			return err
		}
		wk, err := valueBeforeUnc(tok[2])
		if err != nil {
			return fmt.Errorf("Wk: %w", err)
		}
		nkl, err := valueBeforeUnc(tok[7])
		if err != nil {
			return fmt.Errorf("nKL: %w", err)
		}
		var wl float64
		if tok[8] != "-" {
			if wl, err = valueBeforeUnc(tok[8]); err != nil {
				return fmt.Errorf("Wl: %w", err)
			}
		}
		sh := &s[z]
		sh.Element, sh.Wk, sh.Wl, sh.NKL = tok[1], wk, wl, nkl
		return nil
	})
}

// LoadLines reads an X-ray line table: Z (optionally marked with '*' or
// '%'), element, line name, energy in keV and relative intensity.
func (s Shells) LoadLines(r io.Reader) error {
	return scanTable(r, "x-ray table", func(tok []string) error {
		if len(tok) < 5 {
			return fmt.Errorf("%d columns", len(tok))
		}
		z, err := s.index(strings.NewReplacer("*", "", "%", "").Replace(tok[0]))
		if err != nil {
			return err
		}
		e, err := strconv.ParseFloat(tok[3], 64)
		if err != nil {
			return fmt.Errorf("energy: %w", err)
		}
		ri, err := strconv.Atoi(tok[4])
		if err != nil {
			return fmt.Errorf("relative intensity: %w", err)
		}
		sh := &s[z]
		sh.Element = tok[1]
		sh.Lines = append(sh.Lines, XRayLine{Name: tok[2], Energy: e, RelInt: ri})
		return nil
	})
}

func (s Shells) index(text string) (int, error) {
	z, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("atomic number: %w", err)
	}
	if z < 0 || z >= len(s) {
		return 0, fmt.Errorf("atomic number %d out of range", z)
	}
	return z, nil
}

func scanTable(r io.Reader, what string, row func([]string) error) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		if err := row(strings.Fields(line)); err != nil {
			return fmt.Errorf("%s line %d: %w", what, n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", what, err)
	}
	return nil
}

// valueBeforeUnc parses "0.913(3)" as 0.913.
func valueBeforeUnc(s string) (float64, error) {
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	return strconv.ParseFloat(s, 64)
}
