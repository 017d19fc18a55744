package ensdf

import (
	"strconv"
	"strings"
	"unicode"
)

// ElementSymbol returns the letters of a NUCID, "CS" for "137CS".
func ElementSymbol(nucid string) string {
	var b strings.Builder
	for _, r := range nucid {
		if !unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// MassNumber returns the digits of a NUCID as an integer, 137 for "137CS".
func MassNumber(nucid string) (int, bool) {
	var b strings.Builder
	for _, r := range nucid {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	a, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return a, true
}

// ExternalID converts a NUCID to the output convention: "137CS" becomes
// "Cs-137". A NUCID without letters yields just the mass number.
func ExternalID(nucid string) string {
	a, ok := MassNumber(nucid)
	el := strings.ToLower(ElementSymbol(nucid))
	if el == "" {
		if !ok {
			return ""
		}
		return strconv.Itoa(a)
	}
	el = strings.ToUpper(el[:1]) + el[1:]
	if !ok {
		return el
	}
	return el + "-" + strconv.Itoa(a)
}

// NUCIDFromExternal converts "Cs-137" (or "cs-137", optionally followed by
// an isomer suffix which is dropped) back to "137CS". Ids already in NUCID
// form are upper-cased and returned.
func NUCIDFromExternal(id string) string {
	el, a, ok := strings.Cut(strings.TrimSpace(id), "-")
	if !ok {
		return strings.ToUpper(strings.TrimSpace(id))
	}
	digits := strings.TrimRightFunc(a, func(r rune) bool { return !unicode.IsDigit(r) })
	return digits + strings.ToUpper(el)
}
