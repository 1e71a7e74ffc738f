package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l *ConsoleLogger)
		label string
		msg   string
	}{
		{
			name:  "info",
			log:   func(l *ConsoleLogger) { l.Info("hello world") },
			label: "INFO",
			msg:   "hello world",
		},
		{
			name:  "warn",
			log:   func(l *ConsoleLogger) { l.Warn("warning message") },
			label: "WARN",
			msg:   "warning message",
		},
		{
			name:  "error",
			log:   func(l *ConsoleLogger) { l.Error("error occurred") },
			label: "ERRO",
			msg:   "error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewConsoleLoggerTo(&buf, false))

			output := buf.String()
			assert.Contains(t, output, tt.label)
			assert.Contains(t, output, tt.msg)
		})
	}
}

func TestConsoleLogger_Debug_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, true)

	logger.Debug("debug info")
	assert.Contains(t, buf.String(), "debug info")
}

func TestConsoleLogger_Debug_NotVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)

	logger.Debug("debug info")
	assert.Empty(t, buf.String())
}

func TestConsoleLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false)

	logger.Info("evaluated", StringField("predicate", "equals"))
	assert.Contains(t, buf.String(), "predicate=equals")
}

func TestConsoleLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(&buf, false).
		WithFields(StringField("suite", "smoke"))

	logger.Info("loaded")
	assert.Contains(t, buf.String(), "suite=smoke")
	assert.Contains(t, buf.String(), "loaded")
}

func TestConsoleLogger_Close(t *testing.T) {
	assert.NoError(t, NewConsoleLoggerTo(&bytes.Buffer{}, false).Close())
}
