package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvent_GetAndNames(t *testing.T) {
	e := NewEvent(StatesTable, Col("nuclideId", "Cs-137"), Col("idState", 0), Col("halflife", nil))
	v, ok := e.Get("nuclideId")
	assert.True(t, ok)
	assert.Equal(t, "Cs-137", v)
	_, ok = e.Get("energy")
	assert.False(t, ok)
	assert.Equal(t, []string{"nuclideId", "idState", "halflife"}, e.Names())
	assert.Len(t, e.Present(), 2)
}

func TestIsNull(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, true},
		{math.NaN(), true},
		{"NULL", true},
		{"null", true},
		{"NaN", true},
		{"", false},
		{0, false},
		{0.0, false},
		{"Cs-137", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNull(tt.v), "%v", tt.v)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "85.1", Format(85.1))
	assert.Equal(t, "3", Format(3))
	assert.Equal(t, "1e-08", Format(1e-8))
	assert.Equal(t, "G", Format("G"))
	assert.Equal(t, "", Format(nil))
	assert.True(t, IsNumeric(2.5))
	assert.False(t, IsNumeric("2.5"))
}

func TestColumnsCoverTables(t *testing.T) {
	for _, name := range StandardTableNames {
		assert.True(t, KnownTable(name), name)
		assert.NotEmpty(t, Columns[name], name)
	}
	assert.False(t, KnownTable("widgets"))
	assert.Contains(t, Columns[NuclidesTable], "uncSp")
}
