// Tests for the root command: exit codes, logging and version.
package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"user", userError("bad flag %s", "x"), exitUserError},
		{"system", sysError("disk full"), exitSysError},
		{"wrapped system", errors.Join(errors.New("ctx"), sysError("boom")), exitSysError},
		{"plain", errors.New("unknown command"), exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestExitErr_Unwrap(t *testing.T) {
	base := errors.New("base")
	err := sysError("wrapped: %w", base)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "wrapped: base", err.Error())
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nuclibre v"+Version)
	assert.Contains(t, out, "module: "+modulePath)
}

func TestLogger_RunID(t *testing.T) {
	ensdfFile := writeENSDF(t)
	_, logs, err := execute(t, "run", "--test-run", "--ensdf-file", ensdfFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(logs), "\n")
	require.NotEmpty(t, lines)
	var runID string
	for _, l := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &entry), l)
		id, _ := entry["run_id"].(string)
		require.NotEmpty(t, id)
		if runID == "" {
			runID = id
		}
		assert.Equal(t, runID, id, "one run id per run")
	}
	parsed, err := uuid.Parse(runID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestLogger_Levels(t *testing.T) {
	ensdfFile := writeENSDF(t)

	_, logs, err := execute(t, "run", "--test-run", "--silent", "--ensdf-file", ensdfFile)
	require.NoError(t, err)
	assert.Empty(t, logs, "silent drops info entries")

	_, logs, err = execute(t, "run", "--test-run", "--log-format", "console", "--ensdf-file", ensdfFile)
	require.NoError(t, err)
	assert.Contains(t, logs, "INFO")
	assert.NotContains(t, logs, `"level"`)
}

func TestLogger_UnknownFormat(t *testing.T) {
	_, _, err := execute(t, "version", "--log-format", "xml")
	require.Error(t, err)
	assert.Equal(t, exitUserError, exitCode(err))
}
