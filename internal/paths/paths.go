// Package paths resolves the configuration directory and the default
// output location of a run.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mesh-intelligence/nuclibre/pkg/types"
)

// appName names the per-user configuration directory.
const appName = "nuclibre"

// Environment variable names for overrides.
const (
	EnvConfigDir = "NUCLIBRE_CONFIG_DIR"
	EnvOutputDir = "NUCLIBRE_OUTPUT_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/nuclibre (fallback ~/.config/nuclibre)
// macOS:   ~/Library/Application Support/nuclibre
// Windows: %APPDATA%/nuclibre
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > NUCLIBRE_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// DefaultOutputName is the file or directory name a sink writes to when
// no output is given: a database file for SQLite, a directory otherwise.
func DefaultOutputName(sink string) string {
	if sink == types.SinkSQLite {
		return "nuclib.db"
	}
	return "nuclib-" + sink
}

// ResolveOutput returns the output path of a sink following the
// precedence chain: flag > config.yaml value > NUCLIBRE_OUTPUT_DIR env
// joined with the default name > the default name in the working
// directory.
func ResolveOutput(flag, configValue, sink string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	name := DefaultOutputName(sink)
	if env := os.Getenv(EnvOutputDir); env != "" {
		return filepath.Abs(filepath.Join(env, name))
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, name), nil
}
