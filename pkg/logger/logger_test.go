package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"DEBUG":   DEBUG,
		" warn ":  WARN,
		"warning": WARN,
		"error":   ERROR,
		"fatal":   FATAL,
		"info":    INFO,
		"":        INFO,
		"verbose": INFO,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestLogLevelZapMapping(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, DEBUG.zapLevel())
	assert.Equal(t, zapcore.InfoLevel, INFO.zapLevel())
	assert.Equal(t, zapcore.WarnLevel, WARN.zapLevel())
	assert.Equal(t, zapcore.ErrorLevel, ERROR.zapLevel())
	assert.Equal(t, zapcore.FatalLevel, FATAL.zapLevel())
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	log := NewNop().Named("test").With("k", "v")
	log.Debug("debug %d", 1)
	log.Info("info %s", "x")
	log.Warnw("warn", "key", 1)
	log.Errorw("error", "key", 2)
	assert.NotNil(t, log.Zap())
}
