package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewStepLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     LogLevel
		iteration int
		message   string
		expected  string
	}{
		{
			name:      "first iteration",
			level:     LevelInfo,
			iteration: 1,
			message:   "populating",
			expected:  "iteration #001: populating",
		},
		{
			name:      "setup phase",
			level:     LevelDebug,
			iteration: -1,
			message:   "creating schema",
			expected:  "setup: creating schema",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			logger := NewStepLoggerTo(&out, tc.level, true, tc.iteration)
			if logger == nil {
				t.Fatal("Expected logger to be created")
			}

			logger.Info(tc.message)

			lastMsg := logger.GetLastMessage()
			if lastMsg == nil {
				t.Fatal("Expected stored message")
			}
			if lastMsg.Message != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, lastMsg.Message)
			}
			if !strings.Contains(out.String(), tc.expected) {
				t.Errorf("Expected output to contain %q, got %q", tc.expected, out.String())
			}
		})
	}
}

func TestStepLogger_ForIteration(t *testing.T) {
	var out bytes.Buffer
	base := NewStepLoggerTo(&out, LevelWarn, true, -1).(*StepLogger)

	next := base.ForIteration(12)
	next.Warn("slow step %s", "Caching")

	if got := next.GetLastMessage().Message; got != "iteration #012: slow step Caching" {
		t.Errorf("unexpected message %q", got)
	}
	if next.GetLevel() != LevelWarn {
		t.Errorf("Expected level to be inherited, got %v", next.GetLevel())
	}
}

func TestStepLogger_Clone(t *testing.T) {
	var out bytes.Buffer
	original := NewStepLoggerTo(&out, LevelDebug, true, 3)
	cloned := original.Clone()

	original.SetLevel(LevelError)
	if cloned.GetLevel() != LevelDebug {
		t.Errorf("Expected clone level to be independent, got %v", cloned.GetLevel())
	}

	cloned.Debug("x")
	if original.GetLastMessage() != nil {
		t.Errorf("Expected clone to keep its own last message")
	}
}
