package logger

// Logger is the logging contract shared by the harness, the storage gateway
// adapters and the benchmark steps
type Logger interface {
	Log(level LogLevel, message string, args ...interface{})
	Error(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Trace(format string, args ...interface{})
	GetLevel() LogLevel
	SetLevel(level LogLevel)
	GetLastMessage() *LogMessage
	Clone() Logger
}
