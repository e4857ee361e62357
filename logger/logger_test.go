package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
	}{
		{name: "JSON output mode", jsonOutput: true, verbosity: VerbosityInfo},
		{name: "Console output mode", jsonOutput: false, verbosity: VerbosityUser},
		{name: "Console debug mode", jsonOutput: false, verbosity: VerbosityDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() { SetLogger(nil) })

			err := Initialize(tt.jsonOutput, tt.verbosity)
			require.NoError(t, err)
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.True(t, Logger.Desugar().Core().Enabled(VerbosityToLevel(tt.verbosity)))
		})
	}
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
		name      string
	}{
		{-1, zapcore.WarnLevel, "User"},
		{VerbosityUser, zapcore.WarnLevel, "User"},
		{VerbosityInfo, zapcore.InfoLevel, "Info (-v)"},
		{VerbosityDebug, zapcore.DebugLevel, "Debug (-vv)"},
		{VerbosityTrace, zapcore.DebugLevel, "Trace (-vvv)"},
		{7, zapcore.DebugLevel, "Trace (-vvv)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
		assert.Equal(t, tt.name, LevelName(tt.verbosity), "verbosity %d", tt.verbosity)
	}

	assert.False(t, ShouldLogTrace(VerbosityDebug))
	assert.True(t, ShouldLogTrace(VerbosityTrace))
}

func newObservedLogger(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core).Sugar())
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

func TestComponentLogger(t *testing.T) {
	logs := newObservedLogger(t)

	log := ComponentLogger("hierarchy")
	log.Debugw("Type created", FieldLabel, "Human")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "hierarchy", entries[0].LoggerName)
	assert.Equal(t, "Human", entries[0].ContextMap()[FieldLabel])
}

func TestLoggerFromContext(t *testing.T) {
	logs := newObservedLogger(t)

	ctx := WithComponent(context.Background(), "import")
	ctx = WithKnowledgeBase(ctx, "family")
	LoggerFromContext(ctx).Infow("Imported")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "import", fields[FieldComponent])
	assert.Equal(t, "family", fields[FieldKB])
}

func TestLoggerFromContext_NoFields(t *testing.T) {
	newObservedLogger(t)

	assert.Same(t, Logger, LoggerFromContext(context.Background()))
	assert.Empty(t, FieldsFromContext(context.Background()))
}

func TestLoggingFunctions(t *testing.T) {
	logs := newObservedLogger(t)

	Debugw("debug", FieldCount, 1)
	Infow("info", FieldCount, 2)
	Warnw("warn", FieldCount, 3)
	Errorw("error", FieldCount, 4)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)

	child := ChildLogger(Logger, FieldHierarchy, "concept-types")
	child.Infow("child")
	assert.Equal(t, "concept-types", logs.All()[4].ContextMap()[FieldHierarchy])
}

func TestCleanup(t *testing.T) {
	SetLogger(nil)
	assert.NotPanics(t, Cleanup)
}
