package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogObserver_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	obs := NewLogObserver(zap.New(core))

	obs.OnCallComplete(CallEvent{Task: TaskFlow, Provider: ProviderGemini, Model: "gemini-2.5-flash", Structured: true, ReplyChars: 120, Latency: time.Second, Attempts: 1})
	obs.OnCallComplete(CallEvent{Task: TaskAnnual, Provider: ProviderOllama, Attempts: 3, ErrorCode: "TIMEOUT"})

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "llm", entries[0].LoggerName)
	assert.Equal(t, "flow", entries[0].ContextMap()["task"])
	assert.Equal(t, true, entries[0].ContextMap()["structured"])
	assert.EqualValues(t, 120, entries[0].ContextMap()["reply_chars"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "TIMEOUT", entries[1].ContextMap()["error_code"])
	assert.EqualValues(t, 3, entries[1].ContextMap()["attempts"])
}

func TestNewLogObserver_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewLogObserver(nil).OnCallComplete(CallEvent{ErrorCode: "UNKNOWN"})
	})
}
