// Tests for isomer detection and symbol assignment.
package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
)

func hl(v float64, unit string) ensdf.HalfLife {
	return ensdf.HalfLife{Value: v, Unit: unit, Known: true}
}

func adoptedWith(gs ensdf.HalfLife) *ensdf.NuclideDataset {
	return &ensdf.NuclideDataset{
		NUCID: "99TC",
		Adopted: &ensdf.Dataset{
			Kind:    ensdf.Adopted,
			Records: []ensdf.Record{&ensdf.Level{E: ensdf.Known(0), T: gs}},
		},
	}
}

func TestIsMetastable(t *testing.T) {
	stable := ensdf.HalfLife{Stable: true}
	tests := []struct {
		name  string
		gs    ensdf.HalfLife
		level *ensdf.Level
		want  bool
	}{
		{"symbol set", hl(30, "S"), &ensdf.Level{MS: "M"}, true},
		{"same half-life", hl(30, "S"), &ensdf.Level{T: hl(30.5, "S")}, false},
		{"different half-life", hl(30, "S"), &ensdf.Level{T: hl(100, "S")}, true},
		{"unknown half-life", hl(30, "S"), &ensdf.Level{}, false},
		{"both stable", stable, &ensdf.Level{T: stable}, false},
		{"stable ground", stable, &ensdf.Level{T: hl(10, "S")}, true},
		{"nil level", hl(30, "S"), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isMetastable(tt.level, adoptedWith(tt.gs)))
		})
	}
}

func TestSymbolFor(t *testing.T) {
	r := newRun(context.Background(), New(ensdf.NewRegistry()), &memSink{})
	assert.Equal(t, "m", r.symbolFor("Tc-99", hl(6, "H")))

	r.isomers["Tc-99"] = map[string]float64{"m": 6 * 3600}
	assert.Equal(t, "m", r.symbolFor("Tc-99", hl(6, "H")), "matching half-life reuses the symbol")
	assert.Equal(t, "m2", r.symbolFor("Tc-99", hl(2, "S")))

	r.isomers["Tc-99"]["m2"] = 2
	assert.Equal(t, "m3", r.symbolFor("Tc-99", hl(5, "US")))
}

func TestStoredSymbol(t *testing.T) {
	r := newRun(context.Background(), New(ensdf.NewRegistry()), &memSink{})
	assert.Empty(t, r.storedSymbol("Ba-137", hl(2.552, "M")))

	r.isomers["Ba-137"] = map[string]float64{"m": 153.12}
	assert.Equal(t, "m", r.storedSymbol("Ba-137", hl(2.6, "M")), "within the lookup window")
	assert.Empty(t, r.storedSymbol("Ba-137", hl(3, "M")))
	assert.Empty(t, r.storedSymbol("Ba-137", ensdf.HalfLife{Stable: true}))
}

func TestDSIDIsomerHalfLife(t *testing.T) {
	co := adoptedWith(hl(5.2714, "Y"))

	got, ok := dsidIsomerHalfLife("60CO IT DECAY (10.467 M)", co)
	assert.True(t, ok)
	assert.Equal(t, "M", got.Unit)

	_, ok = dsidIsomerHalfLife("60CO B- DECAY (5.2714 Y)", co)
	assert.False(t, ok, "ground-state half-life")

	_, ok = dsidIsomerHalfLife("60CO B- DECAY", co)
	assert.False(t, ok)
}
