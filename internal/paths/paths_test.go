// Tests for configuration and output path resolution.
package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

func TestDefaultConfigDir_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}

	t.Run("uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/nuclibre", got)
	})

	t.Run("falls back to ~/.config when XDG unset", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".config", "nuclibre"), got)
	})

	t.Run("home lookup failure", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		orig := platformDir.homeDir
		platformDir.homeDir = func() (string, error) { return "", errors.New("no home") }
		t.Cleanup(func() { platformDir.homeDir = orig })

		_, err := DefaultConfigDir()
		assert.Error(t, err)
	})
}

func TestResolveConfigDir(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		envVal  string
		wantSub string
	}{
		{"flag wins over env", "/explicit/config", "/env/config", "/explicit/config"},
		{"env wins when flag empty", "", "/env/config", "/env/config"},
		{"platform default when both empty", "", "", "nuclibre"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantSub)
		})
	}
}

func TestResolveConfigDir_AbsolutePath(t *testing.T) {
	t.Setenv(EnvConfigDir, "relative/env")
	got, err := ResolveConfigDir("")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
}

func TestDefaultOutputName(t *testing.T) {
	assert.Equal(t, "nuclib.db", DefaultOutputName(types.SinkSQLite))
	assert.Equal(t, "nuclib-csv", DefaultOutputName(types.SinkCSV))
	assert.Equal(t, "nuclib-pgscript", DefaultOutputName(types.SinkPGScript))
}

func TestResolveOutput(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name     string
		flag     string
		config   string
		envVal   string
		sink     string
		want     string
	}{
		{"flag wins over all", "/flag/out.db", "/config/out.db", "/env", types.SinkSQLite, "/flag/out.db"},
		{"config wins over env", "", "/config/csv", "/env", types.SinkCSV, "/config/csv"},
		{"env directory with default name", "", "", "/env", types.SinkSQLite, "/env/nuclib.db"},
		{"working directory default", "", "", "", types.SinkJSONL, filepath.Join(cwd, "nuclib-jsonl")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvOutputDir, tt.envVal)
			got, err := ResolveOutput(tt.flag, tt.config, tt.sink)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
