package pkg

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogLevel(t *testing.T) {
	original := GetLogLevel()
	defer SetLogLevel(original)

	tests := []struct {
		name  string
		level slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLogLevel(tt.level)
			if got := GetLogLevel(); got != tt.level {
				t.Errorf("GetLogLevel() = %v, want %v", got, tt.level)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, nil)
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}

	logger.Info("test message")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("log output missing message: %s", buf.String())
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, nil)
	if logger == nil {
		t.Fatal("NewJSONLogger returned nil")
	}

	logger.Info("test message")
	output := buf.String()
	if !strings.Contains(output, `"msg":"test message"`) {
		t.Errorf("JSON log output missing message: %s", output)
	}
}

func TestLogWithComponent(t *testing.T) {
	var buf bytes.Buffer
	original := DefaultLogger
	originalLevel := GetLogLevel()
	defer func() {
		DefaultLogger = original
		SetLogLevel(originalLevel)
	}()

	SetLogLevel(slog.LevelDebug)
	SetLogger(NewLogger(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	LogDebug(ComponentSlave, "debug message", "key", "value")
	output := buf.String()
	if !strings.Contains(output, "component=slave") {
		t.Errorf("log output missing component: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("log output missing attribute: %s", output)
	}

	buf.Reset()
	LogWarn(ComponentSim, "warn message")
	if !strings.Contains(buf.String(), "component=sim") {
		t.Errorf("log output missing component: %s", buf.String())
	}
}
