package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/acronis/perfkit/dbopt-bench/db"
	"github.com/acronis/perfkit/dbopt-bench/logger"
)

// storeSuffixes are the files SQLite keeps next to a database in WAL mode
var storeSuffixes = []string{"", "-wal", "-shm", "-journal"}

// newStorePath returns a fresh database file name in dir
func newStorePath(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("dbopt-bench-%s.db", uuid.New().String()))
}

// removeStore deletes the database file and its journal files, missing files are ignored
func removeStore(path string) error {
	if path == "" {
		return nil
	}

	var errs []error
	for _, suffix := range storeSuffixes {
		if err := os.Remove(path + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// openStore opens the backing store, loggers are attached depending on the log level
func openStore(opts *BenchOpts, path string, l logger.Logger) (db.Database, error) {
	var logOperationTime bool
	var queryLogger, readRowsLogger, explainLogger db.Logger

	if l.GetLevel() >= logger.LevelDebug {
		queryLogger = newDBLogger(l.Clone(), logger.LevelDebug)
		logOperationTime = true
	}

	if l.GetLevel() >= logger.LevelTrace {
		readRowsLogger = newDBLogger(l.Clone(), logger.LevelTrace)
	}

	if opts.Explain {
		explainLogger = newDBLogger(l.Clone(), l.GetLevel())
	}

	return db.Open(db.Config{
		ConnString:        fmt.Sprintf("%s://%s", opts.Driver, path),
		MaxOpenConns:      1,
		LogOperationsTime: logOperationTime,

		QueryLogger:    queryLogger,
		ReadRowsLogger: readRowsLogger,
		ExplainLogger:  explainLogger,
	})
}

type dbLogger struct {
	l     logger.Logger
	level logger.LogLevel
}

func (l *dbLogger) Log(format string, args ...interface{}) {
	l.l.Log(l.level, format, args...)
}

func newDBLogger(l logger.Logger, level logger.LogLevel) *dbLogger {
	return &dbLogger{
		l:     l,
		level: level,
	}
}
