// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	assert.NotNil(t, New().sl)
}

func TestLogger_With(t *testing.T) {
	l := New().With(slog.String("component", "test"))

	assert.NotNil(t, l)
	assert.NotNil(t, l.sl)
}

func TestLogger_nilSafe(t *testing.T) {
	var l *Logger

	assert.NotPanics(t, func() {
		l.Info("nil logger")
		l.Infof("nil logger %d", 1)
		l = l.With("key", "value")
	})
	assert.NotNil(t, l)
}

func TestLevel_SetByName(t *testing.T) {
	defer Level.Set(slog.LevelInfo)

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"notice":  levelNotice,
		"warning": slog.LevelWarn,
		"err":     slog.LevelError,
	}

	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			Level.SetByName(name)
			assert.True(t, Level.Enabled(want))
		})
	}
}

func TestLogger_Mute(t *testing.T) {
	defer Level.Set(slog.LevelInfo)
	Level.Set(slog.LevelInfo)

	l := New()
	l.Mute()
	assert.True(t, l.muted.Load())
	l.Unmute()
	assert.False(t, l.muted.Load())
}
