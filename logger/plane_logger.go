package logger

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int32

const (
	// LevelError represents error level messages
	LevelError LogLevel = 0
	// LevelWarn represents warning level messages
	LevelWarn LogLevel = 1
	// LevelInfo represents informational messages
	LevelInfo LogLevel = 2
	// LevelDebug represents debug messages
	LevelDebug LogLevel = 3
	// LevelTrace represents trace messages, e.g. every SQL statement sent to the store
	LevelTrace LogLevel = 4
)

// String converts a LogLevel to a string representation
func (l LogLevel) String() string {
	switch l {
	case LevelError:
		return "ERR"
	case LevelWarn:
		return "WRN"
	case LevelInfo:
		return "INF"
	case LevelDebug:
		return "DBG"
	case LevelTrace:
		return "TRA"
	default:
		return "???"
	}
}

// LevelFromVerbosity maps the number of -v flags to a log level, quiet mode wins
func LevelFromVerbosity(verbosity int, quiet bool) LogLevel {
	if quiet {
		return LevelError
	}

	var level = LevelWarn + LogLevel(verbosity)
	if level > LevelTrace {
		level = LevelTrace
	}

	return level
}

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorError = "\033[31m"
	colorWarn  = "\033[33m"
	colorInfo  = "\033[37m"
	colorDebug = "\033[34m"
	colorTrace = "\033[35m"
)

// PlaneLogger is a leveled line logger with optional color support
type PlaneLogger struct {
	out          io.Writer                  // destination of the log lines
	level        atomic.Int32               // log level
	useColors    bool                       // whether to use colors in output
	storeLastMsg bool                       // whether to store the last message
	lastMsg      atomic.Pointer[LogMessage] // last message printed
}

// LogMessage stores information about a log message
type LogMessage struct {
	Level   LogLevel
	Message string
	Time    time.Time
}

// NewPlaneLogger creates a new logger printing to stdout with the specified log level
func NewPlaneLogger(level LogLevel, storeLastMessage bool) Logger {
	return NewPlaneLoggerTo(os.Stdout, level, storeLastMessage)
}

// NewPlaneLoggerTo creates a new logger printing to the given writer.
// Colors are used only when the writer is a terminal.
func NewPlaneLoggerTo(out io.Writer, level LogLevel, storeLastMessage bool) Logger {
	var l = &PlaneLogger{
		out:          out,
		useColors:    isTerminal(out),
		storeLastMsg: storeLastMessage,
	}
	l.level.Store(int32(level))

	return l
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// GetLevel returns the current log level
func (l *PlaneLogger) GetLevel() LogLevel {
	return LogLevel(l.level.Load())
}

// SetLevel sets the log level
func (l *PlaneLogger) SetLevel(level LogLevel) {
	l.level.Store(int32(level))
}

// levelToColor returns the ANSI color code for the given log level
func (l *PlaneLogger) levelToColor(level LogLevel) string {
	if !l.useColors {
		return ""
	}

	switch level {
	case LevelError:
		return colorError
	case LevelWarn:
		return colorWarn
	case LevelInfo:
		return colorInfo
	case LevelDebug:
		return colorDebug
	case LevelTrace:
		return colorTrace
	default:
		return ""
	}
}

func (l *PlaneLogger) print(level LogLevel, message string) {
	if l.GetLevel() < level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000000")
	prefix := fmt.Sprintf("%s  %s:", timestamp, level.String())

	color := l.levelToColor(level)
	resetColor := ""
	if color != "" {
		resetColor = colorReset
	}

	fmt.Fprintf(l.out, "%s%s %s%s\n", color, prefix, message, resetColor)

	if l.storeLastMsg {
		l.lastMsg.Store(&LogMessage{
			Level:   level,
			Message: message,
			Time:    time.Now(),
		})
	}
}

// Log implements the logger.Logger interface
func (l *PlaneLogger) Log(level LogLevel, message string, args ...interface{}) {
	if len(args) > 0 {
		message = fmt.Sprintf(message, args...)
	}
	l.print(level, message)
}

// Error logs an error message
func (l *PlaneLogger) Error(format string, args ...interface{}) {
	l.Log(LevelError, format, args...)
}

// Warn logs a warning message
func (l *PlaneLogger) Warn(format string, args ...interface{}) {
	l.Log(LevelWarn, format, args...)
}

// Info logs an informational message
func (l *PlaneLogger) Info(format string, args ...interface{}) {
	l.Log(LevelInfo, format, args...)
}

// Debug logs a debug message
func (l *PlaneLogger) Debug(format string, args ...interface{}) {
	l.Log(LevelDebug, format, args...)
}

// Trace logs a trace message
func (l *PlaneLogger) Trace(format string, args ...interface{}) {
	l.Log(LevelTrace, format, args...)
}

// GetLastMessage returns the last logged message if storage is enabled
func (l *PlaneLogger) GetLastMessage() *LogMessage {
	if !l.storeLastMsg {
		return nil
	}

	return l.lastMsg.Load()
}

func (l *PlaneLogger) Clone() Logger {
	return NewPlaneLoggerTo(l.out, l.GetLevel(), l.storeLastMsg)
}
