// Package refdata holds the immutable reference tables the reconciliation
// engine reads: element symbols, atomic masses, fluorescence yields and
// X-ray line tables.
package refdata

import "strings"

// symbols is indexed by Z. Symbols are upper case as they appear in NUCIDs.
var symbols = [...]string{
	"",
	"H", "HE", "LI", "BE", "B", "C", "N", "O", "F", "NE",
	"NA", "MG", "AL", "SI", "P", "S", "CL", "AR", "K", "CA",
	"SC", "TI", "V", "CR", "MN", "FE", "CO", "NI", "CU", "ZN",
	"GA", "GE", "AS", "SE", "BR", "KR", "RB", "SR", "Y", "ZR",
	"NB", "MO", "TC", "RU", "RH", "PD", "AG", "CD", "IN", "SN",
	"SB", "TE", "I", "XE", "CS", "BA", "LA", "CE", "PR", "ND",
	"PM", "SM", "EU", "GD", "TB", "DY", "HO", "ER", "TM", "YB",
	"LU", "HF", "TA", "W", "RE", "OS", "IR", "PT", "AU", "HG",
	"TL", "PB", "BI", "PO", "AT", "RN", "FR", "RA", "AC", "TH",
	"PA", "U", "NP", "PU", "AM", "CM", "BK", "CF", "ES", "FM",
	"MD", "NO", "LR", "RF", "DB", "SG", "BH", "HS", "MT", "DS",
	"RG", "CN", "NH", "UUQ",
}

var atomicNumbers = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for z, s := range symbols {
		if s != "" {
			m[s] = z
		}
	}
	return m
}()

// Z returns the atomic number of an element symbol in any case.
func Z(symbol string) (int, bool) {
	z, ok := atomicNumbers[strings.ToUpper(strings.TrimSpace(symbol))]
	return z, ok
}

// Element returns the upper-case symbol of atomic number z.
func Element(z int) (string, bool) {
	if z <= 0 || z >= len(symbols) {
		return "", false
	}
	return symbols[z], true
}
