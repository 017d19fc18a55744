package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nuclibre/internal/ensdf"
)

// card builds one 80-column line with the NUCID in columns 1-5 and each
// text placed at its 1-based starting column.
func card(nucid string, at map[int]string) string {
	b := []byte(strings.Repeat(" ", ensdf.RecordWidth))
	copy(b, nucid)
	for col, s := range at {
		copy(b[col-1:], s)
	}
	return string(b)
}

func deck(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

var cs137Adopted = deck(
	card("137CS", map[int]string{10: "ADOPTED LEVELS"}),
	card("137CS", map[int]string{8: "L", 10: "0.0", 22: "7/2+", 40: "30.08 Y"}),
	"",
	card("137BA", map[int]string{10: "ADOPTED LEVELS, GAMMAS"}),
	card("137BA", map[int]string{8: "L", 10: "0.0", 22: "3/2+", 40: "STABLE"}),
	card("137BA", map[int]string{8: "L", 10: "661.659", 22: "11/2-", 40: "2.552 M", 78: "M"}),
	card("137BA", map[int]string{8: "G", 10: "661.657", 22: "100"}),
	"",
)

// cs137Decay renders the Cs-137 beta decay with the given gamma intensity.
func cs137Decay(gammaRI string) string {
	return deck(
		card("137BA", map[int]string{10: "137CS B- DECAY (30.08 Y)"}),
		card("137CS", map[int]string{8: "P", 10: "0.0", 40: "30.08 Y"}),
		card("137BA", map[int]string{8: "N", 10: "1.0", 32: "1.0"}),
		card("137BA", map[int]string{8: "L", 10: "0.0", 22: "3/2+", 40: "STABLE"}),
		card("137BA", map[int]string{8: "B", 10: "1175.63", 22: "5.6"}),
		card("137BA", map[int]string{8: "L", 10: "661.659", 22: "11/2-", 40: "2.552 M", 78: "M"}),
		card("137BA", map[int]string{8: "B", 10: "513.97", 22: "94.4"}),
		card("137BA", map[int]string{8: "G", 10: "661.657", 22: gammaRI}),
		"",
	)
}

// writeFile writes body to name under dir and returns the path.
func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

// writeENSDF writes the Cs-137 deck to a temp file.
func writeENSDF(t *testing.T) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "ensdf.txt", cs137Adopted+cs137Decay("85.1"))
}

// execute runs a fresh root command with args and an isolated config
// directory unless args name one. It returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("NUCLIBRE_CONFIG_DIR", t.TempDir())
	t.Setenv("NUCLIBRE_OUTPUT_DIR", "")
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}
