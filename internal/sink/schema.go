package sink

import (
	"strings"
	"unicode"

	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// SQLite DDL. Column names follow the event columns.
const (
	createDecays = `CREATE TABLE decays (
    parentNuclideId VARCHAR(9),
    daughterNuclideId VARCHAR(9),
    decayType VARCHAR(3),
    qValue FLOAT,
    uncQValue FLOAT,
    branching FLOAT,
    uncBranching FLOAT,
    source TEXT,
    PRIMARY KEY (parentNuclideId, daughterNuclideId, decayType)
);`

	createNuclides = `CREATE TABLE nuclides (
    nuclideId VARCHAR(9),
    z INTEGER,
    a INTEGER,
    isomer VARCHAR(3),
    halflife FLOAT,
    uncHalflife FLOAT,
    isStable TINYINT(1),
    qMinus FLOAT,
    uncQMinus FLOAT,
    sn FLOAT,
    uncSn FLOAT,
    sp FLOAT,
    uncSp FLOAT,
    qAlpha FLOAT,
    uncQAlpha FLOAT,
    qPlus FLOAT,
    uncQPlus FLOAT,
    qEc FLOAT,
    uncQEc FLOAT,
    source TEXT,
    PRIMARY KEY (nuclideId)
);`

	createStates = `CREATE TABLE states (
    nuclideId VARCHAR(9),
    idState SMALLINT,
    energy FLOAT,
    uncEnergy FLOAT,
    spinParity TEXT,
    halflife FLOAT,
    uncHalflife FLOAT,
    isomer VARCHAR(3),
    source TEXT,
    PRIMARY KEY (nuclideId, idState)
);`

	createLines = `CREATE TABLE libLines (
    nuclideId VARCHAR(9),
    lineType CHAR(1),
    idLine SMALLINT,
    daughterNuclideId VARCHAR(9),
    initialIdStateP SMALLINT,
    initialIdStateD SMALLINT,
    finalIdState SMALLINT,
    energy FLOAT,
    uncEnergy FLOAT,
    emissionProb FLOAT,
    uncEmissionProb FLOAT,
    designation TEXT,
    source TEXT,
    PRIMARY KEY (nuclideId, daughterNuclideId, lineType, idLine)
);`
)

// sqliteDDL lists the CREATE TABLE statements in creation order.
var sqliteDDL = []string{
	createDecays,
	createNuclides,
	createStates,
	createLines,
}

// Postgres DDL. Table and column names are snake case.
const (
	createPGDecay = `CREATE TABLE IF NOT EXISTS decay (
    parent_nuclide_id VARCHAR,
    daughter_nuclide_id VARCHAR,
    decay_type VARCHAR,
    q_value FLOAT,
    unc_q_value FLOAT,
    branching FLOAT,
    unc_branching FLOAT,
    source VARCHAR,
    PRIMARY KEY (parent_nuclide_id, daughter_nuclide_id, decay_type)
);`

	createPGNuclide = `CREATE TABLE IF NOT EXISTS nuclide (
    nuclide_id VARCHAR,
    z INTEGER,
    a INTEGER,
    isomer VARCHAR,
    half_life FLOAT,
    unc_half_life FLOAT,
    is_stable SMALLINT,
    category VARCHAR,
    q_minus FLOAT,
    unc_q_minus FLOAT,
    sn FLOAT,
    unc_sn FLOAT,
    sp FLOAT,
    unc_sp FLOAT,
    q_alpha FLOAT,
    unc_q_alpha FLOAT,
    q_plus FLOAT,
    unc_q_plus FLOAT,
    q_ec FLOAT,
    unc_q_ec FLOAT,
    source VARCHAR,
    PRIMARY KEY (nuclide_id)
);`

	createPGState = `CREATE TABLE IF NOT EXISTS state (
    nuclide_id VARCHAR,
    id_state INTEGER,
    energy FLOAT,
    unc_energy FLOAT,
    spin_parity VARCHAR,
    half_life FLOAT,
    unc_half_life FLOAT,
    isomer VARCHAR,
    source VARCHAR,
    PRIMARY KEY (nuclide_id, id_state)
);`

	createPGLine = `CREATE TABLE IF NOT EXISTS line (
    nuclide_id VARCHAR,
    line_type VARCHAR,
    id_line INTEGER,
    daughter_nuclide_id VARCHAR,
    initial_id_state_p INTEGER,
    initial_id_state_d INTEGER,
    final_id_state INTEGER,
    energy FLOAT,
    unc_energy FLOAT,
    emission_prob FLOAT,
    unc_emission_prob FLOAT,
    designation VARCHAR,
    source VARCHAR,
    PRIMARY KEY (nuclide_id, daughter_nuclide_id, line_type, id_line)
);`
)

// pgTables maps output tables to their Postgres names.
var pgTables = map[string]string{
	types.DecaysTable:   "decay",
	types.NuclidesTable: "nuclide",
	types.StatesTable:   "state",
	types.LinesTable:    "line",
}

// pgDDL maps Postgres table names to their DDL.
var pgDDL = map[string]string{
	"decay":   createPGDecay,
	"nuclide": createPGNuclide,
	"state":   createPGState,
	"line":    createPGLine,
}

// pgTableOrder fixes the order tables are created in.
var pgTableOrder = []string{"decay", "nuclide", "state", "line"}

// pgSuppressDuplicates names the tables whose inserts ignore primary key
// conflicts. The same decay can be reached from more than one dataset.
var pgSuppressDuplicates = map[string]bool{"decay": true}

// pgColumnOverrides covers names that snake casing alone gets wrong.
var pgColumnOverrides = map[string]string{
	"halflife":    "half_life",
	"uncHalflife": "unc_half_life",
}

// pgColumn converts an event column name to its Postgres name:
// "initialIdStateP" becomes "initial_id_state_p".
func pgColumn(name string) string {
	if s, ok := pgColumnOverrides[name]; ok {
		return s
	}
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// quoteLiteral renders a string as a SQL literal.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
