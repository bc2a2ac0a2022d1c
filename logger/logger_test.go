package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{name: "JSON output mode", jsonOutput: true},
		{name: "Console output mode", jsonOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			var buf bytes.Buffer
			require.NoError(t, InitializeWithWriter(&buf, tt.jsonOutput, VerbosityInfo))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
		})
	}
}

func TestJSONOutputIsStructured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(&buf, true, VerbosityInfo))

	Infow("Loaded aliases", FieldFile, "/tmp/aliases", FieldCount, 3)
	Cleanup()

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "Loaded aliases", record["msg"])
	assert.Equal(t, "/tmp/aliases", record["file"])
	assert.EqualValues(t, 3, record["count"])
}

func TestVerbosityFiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(&buf, false, VerbosityUser))

	Infow("hidden at default verbosity")
	Debugw("hidden too")
	Warnw("shown warning")
	Errorw("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown warning")
	assert.Contains(t, out, "shown error")
}

func TestComponentLoggerNamesEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(&buf, false, VerbosityDebug))

	log := ComponentLogger("history.watcher")
	log.Debugw("Tailing file", FieldPath, "/home/u/.zsh_history")

	out := buf.String()
	assert.Contains(t, out, "history.watcher")
	assert.Contains(t, out, "path=/home/u/.zsh_history")
}

func TestChildLoggerCarriesContext(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitializeWithWriter(&buf, false, VerbosityInfo))

	child := ChildLogger(ComponentLogger("store"), FieldBackend, "sqlite")
	child.Infow("Saved")

	assert.Contains(t, buf.String(), "Saved")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	named := ComponentLogger("x")
	assert.Same(t, named, OrNop(named))
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{5, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Debug (-vv)", LevelName(2))
	assert.True(t, strings.HasPrefix(LevelName(3), "Trace"))
}

func TestCleanupWithNopLogger(t *testing.T) {
	Logger = nil
	assert.NotPanics(t, Cleanup)
	assert.NotPanics(t, func() { Infow("no logger") })
}
