// Tests for the JSONL sink and its atomic writes.
package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	require.NoError(t, sc.Err())
	return out
}

func TestJSONL_WritesOnClose(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONL(dir)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, nuclideEvent("Cs-137", 1.5)))
	require.NoError(t, s.Insert(ctx, nuclideEvent("Ba-137", math.NaN())))

	path := filepath.Join(dir, "nuclides.jsonl")
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing is written before Close")

	require.NoError(t, s.Close())
	want := []string{
		`{"nuclideId":"Cs-137","z":55,"halflife":1.5,"isStable":0,"source":"ENSDF"}`,
		`{"nuclideId":"Ba-137","z":55,"halflife":null,"isStable":0,"source":"ENSDF"}`,
	}
	if diff := cmp.Diff(want, readLines(t, path)); diff != "" {
		t.Errorf("nuclides.jsonl mismatch (-want +got):\n%s", diff)
	}

	_, err = os.Stat(filepath.Join(dir, "decays.jsonl"))
	assert.True(t, os.IsNotExist(err), "tables without rows get no file")

	tmp, err := filepath.Glob(filepath.Join(dir, ".jsonl-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, tmp)
}

func TestWriteJSONL_ReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("old\nold\nold\n"), 0o644))
	require.NoError(t, writeJSONL(path, []json.RawMessage{json.RawMessage(`{"idState":0}`)}))
	assert.Equal(t, []string{`{"idState":0}`}, readLines(t, path))
}

func TestWriteJSONL_MissingDirectory(t *testing.T) {
	err := writeJSONL(filepath.Join(t.TempDir(), "missing", "x.jsonl"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating temp file")
}
