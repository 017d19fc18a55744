// Tests for config.yaml loading and flag binding.
package cli

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nuclibre/internal/publish"
	"github.com/mesh-intelligence/nuclibre/internal/refdata"
	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

func TestLoadConfig_Missing(t *testing.T) {
	v, err := loadConfig(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	rc := resolve(v)
	assert.Equal(t, types.SinkSQLite, rc.Sink.Sink)
	assert.Equal(t, defaultPatchSource, rc.PatchSource)
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileExt, "sink: [csv\n")
	_, err := loadConfig(dir)
	require.Error(t, err)
}

func TestResolve_AllKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileExt, `ensdf_file: /data/ensdf.txt
patch_dir: /data/patches
patch_source: STUK
sink: postgres
postgres_dsn: postgres://localhost/nuclib
reference:
  masses: /ref/mass.mas20
  yields: /ref/Table1.txt
  xrays: /ref/Table2.txt
metrics_file: /var/lib/node_exporter/nuclibre.prom
publish:
  bucket: libs
  prefix: nightly/
  region: eu-north-1
  endpoint: http://localhost:9000
  path_style: true
`)
	v, err := loadConfig(dir)
	require.NoError(t, err)

	want := runConfig{
		ENSDFFile:   "/data/ensdf.txt",
		PatchDir:    "/data/patches",
		PatchSource: "STUK",
		Sink:        types.Config{Sink: types.SinkPostgres, PostgresDSN: "postgres://localhost/nuclib"},
		Reference: refdata.Paths{
			Masses: "/ref/mass.mas20",
			Yields: "/ref/Table1.txt",
			XRays:  "/ref/Table2.txt",
		},
		MetricsFile: "/var/lib/node_exporter/nuclibre.prom",
		Publish: publish.Config{
			Bucket:    "libs",
			Prefix:    "nightly/",
			Region:    "eu-north-1",
			Endpoint:  "http://localhost:9000",
			PathStyle: true,
		},
	}
	if diff := cmp.Diff(want, resolve(v)); diff != "" {
		t.Errorf("resolve mismatch (-want +got):\n%s", diff)
	}
}

func TestBindFlags(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, configFileExt, "sink: csv\noutput: /from/config\n")
	v, err := loadConfig(dir)
	require.NoError(t, err)

	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	fs.String("sink", defaultSink, "")
	fs.String("output", "", "")
	require.NoError(t, fs.Parse([]string{"--output", "/from/flag"}))
	require.NoError(t, bindFlags(v, fs, map[string]string{"sink": cfgKeySink, "output": cfgKeyOutput}))

	rc := resolve(v)
	assert.Equal(t, types.SinkCSV, rc.Sink.Sink, "unset flag keeps the config value")
	assert.Equal(t, "/from/flag", rc.Sink.Output)

	err = bindFlags(v, fs, map[string]string{"nope": cfgKeySink})
	require.Error(t, err)
}

func TestWriteConfigIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", configFileExt)
	written, err := writeConfigIfMissing(path)
	require.NoError(t, err)
	assert.True(t, written)

	v, err := loadConfig(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, types.SinkSQLite, resolve(v).Sink.Sink)

	written, err = writeConfigIfMissing(path)
	require.NoError(t, err)
	assert.False(t, written)
}
