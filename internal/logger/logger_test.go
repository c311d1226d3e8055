package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"", "dev", "prod", "production"} {
		log, err := New(mode, "")
		require.NoError(t, err, mode)
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	}
}

func TestNew_Level(t *testing.T) {
	log, err := New("dev", "debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("verbose", "")
	assert.ErrorContains(t, err, "invalid log mode")

	_, err = New("dev", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestSync_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() { Sync(nil) })
}
