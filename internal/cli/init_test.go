// Tests for the init command.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

func TestInit_WritesDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")
	out, _, err := execute(t, "init", "--config-dir", dir)
	require.NoError(t, err)
	path := filepath.Join(dir, configFileExt)
	assert.Contains(t, out, "wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, types.SinkSQLite, cfg.Sink)
	assert.Equal(t, defaultPatchSource, cfg.PatchSource)
	assert.Empty(t, cfg.Publish.Bucket)
}

func TestInit_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, configFileExt, "sink: csv\n")

	out, _, err := execute(t, "init", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "config already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sink: csv\n", string(data))
}

func TestInit_UsesEnvDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NUCLIBRE_CONFIG_DIR", dir)
	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"init"})
	require.NoError(t, root.Execute())
	assert.FileExists(t, filepath.Join(dir, configFileExt))
}
