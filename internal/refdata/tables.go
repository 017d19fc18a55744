package refdata

import (
	"fmt"
	"io"
	"os"
)

// Tables bundles the reference data of one run. It is read-only once
// loaded.
type Tables struct {
	Masses Masses
	Shells Shells
}

// Empty returns tables with no masses and no shell data. Derived Q-values
// and X-rays are then omitted.
func Empty() *Tables {
	return &Tables{Masses: Masses{}, Shells: NewShells()}
}

// Paths names the reference files. Empty paths are skipped.
type Paths struct {
	Masses string
	Yields string
	XRays  string
}

// Load reads the reference files named in p.
func Load(p Paths) (*Tables, error) {
	t := Empty()
	if p.Masses != "" {
		f, err := os.Open(p.Masses)
		if err != nil {
			return nil, fmt.Errorf("opening mass table: %w", err)
		}
		m, err := LoadMasses(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		t.Masses = m
	}
	if err := loadFile(p.Yields, t.Shells.LoadYields); err != nil {
		return nil, err
	}
	if err := loadFile(p.XRays, t.Shells.LoadLines); err != nil {
		return nil, err
	}
	return t, nil
}

func loadFile(path string, load func(io.Reader) error) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return load(f)
}
