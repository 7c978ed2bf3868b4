package logger

import (
	"fmt"
	"io"
	"os"
)

// StepLogger prefixes every message with the benchmark iteration it belongs to.
// Iteration -1 denotes the setup and teardown phases of a run.
type StepLogger struct {
	*PlaneLogger
	iteration int
}

func NewStepLogger(level LogLevel, storeLastMessage bool, iteration int) Logger {
	return NewStepLoggerTo(os.Stdout, level, storeLastMessage, iteration)
}

func NewStepLoggerTo(out io.Writer, level LogLevel, storeLastMessage bool, iteration int) Logger {
	planeLogger, ok := NewPlaneLoggerTo(out, level, storeLastMessage).(*PlaneLogger)
	if !ok {
		return nil
	}

	return &StepLogger{PlaneLogger: planeLogger, iteration: iteration}
}

func (l *StepLogger) Log(level LogLevel, message string, args ...interface{}) {
	msg := message
	if len(args) > 0 {
		msg = fmt.Sprintf(message, args...)
	}

	if l.iteration == -1 {
		msg = fmt.Sprintf("setup: %s", msg)
	} else {
		msg = fmt.Sprintf("iteration #%03d: %s", l.iteration, msg)
	}
	l.PlaneLogger.Log(level, msg)
}

// Error logs an error message
func (l *StepLogger) Error(format string, args ...interface{}) {
	l.Log(LevelError, format, args...)
}

// Warn logs a warning message
func (l *StepLogger) Warn(format string, args ...interface{}) {
	l.Log(LevelWarn, format, args...)
}

// Info logs an informational message
func (l *StepLogger) Info(format string, args ...interface{}) {
	l.Log(LevelInfo, format, args...)
}

// Debug logs a debug message
func (l *StepLogger) Debug(format string, args ...interface{}) {
	l.Log(LevelDebug, format, args...)
}

// Trace logs a trace message
func (l *StepLogger) Trace(format string, args ...interface{}) {
	l.Log(LevelTrace, format, args...)
}

func (l *StepLogger) Clone() Logger {
	return NewStepLoggerTo(l.out, l.GetLevel(), l.storeLastMsg, l.iteration)
}

// ForIteration returns a logger with the same settings bound to another iteration
func (l *StepLogger) ForIteration(iteration int) Logger {
	return NewStepLoggerTo(l.out, l.GetLevel(), l.storeLastMsg, iteration)
}
