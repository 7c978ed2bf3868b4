package sql

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/atomic"

	"github.com/acronis/perfkit/dbopt-bench/db"
)

/*
This file contains the wrappers decorating database/sql primitives with:
- query logging: every statement and transaction boundary goes to the query logger
- row result logging: the content of returned rows (limited to maxRowsToPrint rows)
- performance measurements: time spent in begin, exec, query and commit
*/

const maxRowsToPrint = 10

func logRow(logger db.Logger, logTime bool, since time.Time, dest ...interface{}) {
	if logger == nil {
		return
	}

	var values = db.DumpValues(dest...)
	if logTime {
		logger.Log("Row: %s -- read duration: %v", values, time.Since(since))
	} else {
		logger.Log("Row: %s", values)
	}
}

func logQuery(logger db.Logger, logTime bool, since time.Time, query string, args ...interface{}) {
	if logger == nil {
		return
	}

	switch {
	case logTime && len(args) > 0:
		logger.Log("%s -- %s, duration: %v", query, db.DumpValues(args...), time.Since(since))
	case logTime:
		logger.Log("%s -- duration: %v", query, time.Since(since))
	case len(args) > 0:
		logger.Log("%s -- %s", query, db.DumpValues(args...))
	default:
		logger.Log("%s", query)
	}
}

func logTxOperation(logger db.Logger, logTime bool, since time.Time, operation string) {
	if logger == nil {
		return
	}

	if logTime {
		logger.Log("%s -- duration: %v", operation, time.Since(since))
	} else {
		logger.Log("%s", operation)
	}
}

// wrappedRow is a struct for storing and logging DB *sql.Row results
type wrappedRow struct {
	row   *sql.Row
	query string

	logTime        bool
	readRowsLogger db.Logger
}

// Scan copies the columns of the row into dest, engine errors come back as *db.StorageError
func (r *wrappedRow) Scan(dest ...interface{}) error {
	var since = time.Now()
	var err = r.row.Scan(dest...)
	if err != nil {
		return db.NewStorageError("scan", r.query, err)
	}

	logRow(r.readRowsLogger, r.logTime, since, dest...)

	return nil
}

// wrappedRows is a struct for storing and logging DB *sql.Rows results
type wrappedRows struct {
	rows *sql.Rows

	logTime        bool
	readRowsLogger db.Logger
	printed        int
}

func (r *wrappedRows) Columns() ([]string, error) {
	return r.rows.Columns()
}

func (r *wrappedRows) ColumnTypes() ([]*sql.ColumnType, error) {
	return r.rows.ColumnTypes()
}

func (r *wrappedRows) Next() bool {
	return r.rows.Next()
}

func (r *wrappedRows) Err() error {
	return r.rows.Err()
}

// Scan copies the columns in the current row into the values pointed at by dest.
// Logs the scanned values if readRowsLogger is configured, up to maxRowsToPrint rows.
func (r *wrappedRows) Scan(dest ...interface{}) error {
	var since = time.Now()
	var err = r.rows.Scan(dest...)

	if r.readRowsLogger == nil || err != nil {
		return err
	}

	if r.printed < maxRowsToPrint {
		logRow(r.readRowsLogger, r.logTime, since, dest...)
	} else if r.printed == maxRowsToPrint {
		r.readRowsLogger.Log("... truncated ...")
	}
	r.printed++

	return nil
}

func (r *wrappedRows) Close() error {
	return r.rows.Close()
}

// accountTime adds elapsed time since the given time to the atomic counter
func accountTime(t *atomic.Int64, since time.Time) {
	if t == nil {
		return
	}
	t.Add(time.Since(since).Nanoseconds())
}

// wrappedQuerier implements the querier interface with additional functionality:
// - measuring time of queries
// - logging of queries
type wrappedQuerier struct {
	q querier

	execTime  *atomic.Int64 // Execution time counter
	queryTime *atomic.Int64 // Query time counter

	logTime     bool
	queryLogger db.Logger
}

func (wq wrappedQuerier) execContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer accountTime(wq.execTime, time.Now())

	if wq.queryLogger != nil {
		defer func(since time.Time) {
			logQuery(wq.queryLogger, wq.logTime, since, query, args...)
		}(time.Now())
	}

	return wq.q.execContext(ctx, query, args...)
}

func (wq wrappedQuerier) queryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer accountTime(wq.queryTime, time.Now())

	if wq.queryLogger != nil {
		defer func(since time.Time) {
			logQuery(wq.queryLogger, wq.logTime, since, query, args...)
		}(time.Now())
	}

	return wq.q.queryRowContext(ctx, query, args...)
}

func (wq wrappedQuerier) queryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer accountTime(wq.queryTime, time.Now())

	if wq.queryLogger != nil {
		defer func(since time.Time) {
			logQuery(wq.queryLogger, wq.logTime, since, query, args...)
		}(time.Now())
	}

	return wq.q.queryContext(ctx, query, args...)
}

// wrappedTransaction implements the transaction interface with timing and logging
type wrappedTransaction struct {
	tx transaction

	execTime   *atomic.Int64 // Execution time counter
	queryTime  *atomic.Int64 // Query time counter
	commitTime *atomic.Int64 // Commit time counter

	logTime     bool
	queryLogger db.Logger
}

func (wtx wrappedTransaction) execContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer accountTime(wtx.execTime, time.Now())

	if wtx.queryLogger != nil {
		defer func(since time.Time) {
			logQuery(wtx.queryLogger, wtx.logTime, since, query, args...)
		}(time.Now())
	}

	return wtx.tx.execContext(ctx, query, args...)
}

func (wtx wrappedTransaction) queryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer accountTime(wtx.queryTime, time.Now())

	if wtx.queryLogger != nil {
		defer func(since time.Time) {
			logQuery(wtx.queryLogger, wtx.logTime, since, query, args...)
		}(time.Now())
	}

	return wtx.tx.queryRowContext(ctx, query, args...)
}

func (wtx wrappedTransaction) queryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer accountTime(wtx.queryTime, time.Now())

	if wtx.queryLogger != nil {
		defer func(since time.Time) {
			logQuery(wtx.queryLogger, wtx.logTime, since, query, args...)
		}(time.Now())
	}

	return wtx.tx.queryContext(ctx, query, args...)
}

func (wtx wrappedTransaction) commit() error {
	defer accountTime(wtx.commitTime, time.Now())

	if wtx.queryLogger != nil {
		defer func(since time.Time) {
			logTxOperation(wtx.queryLogger, wtx.logTime, since, "COMMIT")
		}(time.Now())
	}

	return wtx.tx.commit()
}

func (wtx wrappedTransaction) rollback() error {
	defer accountTime(wtx.commitTime, time.Now())

	if wtx.queryLogger != nil {
		defer func(since time.Time) {
			logTxOperation(wtx.queryLogger, wtx.logTime, since, "ROLLBACK")
		}(time.Now())
	}

	return wtx.tx.rollback()
}

// wrappedTransactor implements the transactor interface with timing and logging
type wrappedTransactor struct {
	t transactor

	beginTime  *atomic.Int64 // Transaction begin time counter
	execTime   *atomic.Int64 // Execution time counter
	queryTime  *atomic.Int64 // Query time counter
	commitTime *atomic.Int64 // Commit time counter

	logTime     bool
	queryLogger db.Logger
}

func (wt wrappedTransactor) begin(ctx context.Context) (transaction, error) {
	defer accountTime(wt.beginTime, time.Now())

	if wt.queryLogger != nil {
		defer func(since time.Time) {
			logTxOperation(wt.queryLogger, wt.logTime, since, "BEGIN")
		}(time.Now())
	}

	var t, err = wt.t.begin(ctx)
	if err != nil {
		return t, err
	}

	return wrappedTransaction{
		tx:          t,
		execTime:    wt.execTime,
		queryTime:   wt.queryTime,
		commitTime:  wt.commitTime,
		logTime:     wt.logTime,
		queryLogger: wt.queryLogger,
	}, nil
}
