package ensdf

import (
	"strings"
)

// cardLine builds one 80-column line with the NUCID in columns 1-5 and each
// text placed at its 1-based starting column.
func cardLine(nucid string, at map[int]string) string {
	b := []byte(strings.Repeat(" ", RecordWidth))
	copy(b, nucid)
	for col, s := range at {
		copy(b[col-1:], s)
	}
	return string(b)
}

// deck joins cards into an input stream.
func deck(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func ident(nucid, dsid string) string {
	return cardLine(nucid, map[int]string{10: dsid})
}

func level(nucid, e, j, t, dt, ms string) string {
	return cardLine(nucid, map[int]string{8: "L", 10: e, 22: j, 40: t, 50: dt, 78: ms})
}

func gamma(nucid, e, de, ri, dri string) string {
	return cardLine(nucid, map[int]string{8: "G", 10: e, 20: de, 22: ri, 30: dri})
}

func norm(nucid, nr, br string) string {
	return cardLine(nucid, map[int]string{8: "N", 10: nr, 32: br})
}

func parent(nucid, e, t, qp string) string {
	return cardLine(nucid, map[int]string{8: "P", 10: e, 40: t, 65: qp})
}

func beta(nucid, e, ib string) string {
	return cardLine(nucid, map[int]string{8: "B", 10: e, 22: ib})
}

func ec(nucid, e, ib, ie string) string {
	return cardLine(nucid, map[int]string{8: "E", 10: e, 22: ib, 32: ie})
}

// cont builds a continuation card of the given record code.
func cont(nucid string, code byte, text string) string {
	return cardLine(nucid, map[int]string{6: "2", 8: string(code), 10: text})
}

// cs137 is a minimal adopted dataset for 137CS followed by its beta decay
// to 137BA.
var cs137 = deck(
	ident("137CS", "ADOPTED LEVELS"),
	level("137CS", "0.0", "7/2+", "30.08 Y", "9", ""),
	"",
	ident("137BA", "ADOPTED LEVELS, GAMMAS"),
	level("137BA", "0.0", "3/2+", "STABLE", "", ""),
	level("137BA", "661.659", "11/2-", "2.552 M", "1", "M"),
	gamma("137BA", "661.657", "3", "100", ""),
	"",
	ident("137BA", "137CS B- DECAY (30.08 Y)"),
	parent("137CS", "0.0", "30.08 Y", "1175.63"),
	norm("137BA", "1.0", "1.0"),
	level("137BA", "0.0", "3/2+", "STABLE", "", ""),
	beta("137BA", "1175.63", "5.6"),
	level("137BA", "661.659", "11/2-", "2.552 M", "1", "M"),
	beta("137BA", "513.97", "94.4"),
	gamma("137BA", "661.657", "3", "85.1", "2"),
	"",
)
