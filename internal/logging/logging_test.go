package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		enabled bool
	}{
		{"debug", zap.DebugLevel, true},
		{"", zap.InfoLevel, true},
		{"WARN", zap.WarnLevel, true},
		{"error", zap.ErrorLevel, true},
		{"off", zap.FatalLevel, false},
	}
	for _, tt := range tests {
		lvl, enabled, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, lvl, tt.in)
		assert.Equal(t, tt.enabled, enabled, tt.in)
	}

	_, _, err := ParseLevel("loud")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestNew(t *testing.T) {
	log, err := New("warn", true)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))

	nop, err := New("off", false)
	require.NoError(t, err)
	assert.False(t, nop.Core().Enabled(zap.ErrorLevel))

	_, err = New("loud", false)
	assert.Error(t, err)
}
