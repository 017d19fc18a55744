package types

// Output table names.
const (
	DecaysTable   = "decays"
	NuclidesTable = "nuclides"
	StatesTable   = "states"
	LinesTable    = "libLines"
)

// StandardTableNames lists all output tables in creation order.
var StandardTableNames = []string{
	DecaysTable,
	NuclidesTable,
	StatesTable,
	LinesTable,
}

// Columns lists the columns of each output table in schema order.
var Columns = map[string][]string{
	DecaysTable: {
		"parentNuclideId", "daughterNuclideId", "decayType", "qValue", "uncQValue",
		"branching", "uncBranching", "source",
	},
	NuclidesTable: {
		"nuclideId", "z", "a", "isomer", "halflife", "uncHalflife", "isStable",
		"qMinus", "uncQMinus", "sn", "uncSn", "sp", "uncSp", "qAlpha", "uncQAlpha",
		"qPlus", "uncQPlus", "qEc", "uncQEc", "source",
	},
	StatesTable: {
		"nuclideId", "idState", "energy", "uncEnergy", "spinParity", "halflife",
		"uncHalflife", "isomer", "source",
	},
	LinesTable: {
		"nuclideId", "lineType", "idLine", "daughterNuclideId", "initialIdStateP",
		"initialIdStateD", "finalIdState", "energy", "uncEnergy", "emissionProb",
		"uncEmissionProb", "designation", "source",
	},
}

// KnownTable reports whether name is one of the output tables.
func KnownTable(name string) bool {
	_, ok := Columns[name]
	return ok
}
