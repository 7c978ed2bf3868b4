package sql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/url"

	"github.com/acronis/perfkit/dbopt-bench/db"
)

/*
 * DB connection management
 */

type querier interface {
	execContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	queryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	queryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type accessor interface {
	querier

	ping(ctx context.Context) error
	stats() sql.DBStats
	close() error
}

type transaction interface {
	querier

	commit() error
	rollback() error
}

type transactor interface {
	begin(ctx context.Context) (transaction, error)
}

// inTx runs fn inside a transaction, commits when fn returns nil and rolls back otherwise
func inTx(ctx context.Context, t transactor, d dialect, fn func(q querier, d dialect) error) error {
	tx, err := t.begin(ctx)
	if err != nil {
		return db.NewStorageError("begin", "", err)
	}

	if err = fn(tx, d); err != nil {
		if !errors.Is(err, driver.ErrBadConn) && d.canRollback(err) {
			if rErr := tx.rollback(); rErr != nil && !errors.Is(rErr, sql.ErrTxDone) {
				return fmt.Errorf("during rollback tx with error %w, error occurred %v", err, rErr)
			}
		}
		return err
	}

	if err = tx.commit(); err != nil {
		return db.NewStorageError("commit", "", err)
	}

	return nil
}

type sqlGateway struct {
	ctx     context.Context
	rw      querier
	dialect dialect

	InsideTX bool
	logTime  bool

	queryLogger    db.Logger
	readRowsLogger db.Logger
	explainLogger  db.Logger
}

type sqlSession struct {
	sqlGateway
	t transactor
}

// Transact runs fn in a single transaction, nothing is retried
func (s *sqlSession) Transact(fn func(tx db.DatabaseAccessor) error) error {
	return inTx(s.ctx, s.t, s.dialect, func(q querier, dl dialect) error {
		gw := s.sqlGateway
		gw.rw = q
		gw.dialect = dl
		gw.InsideTX = true

		return fn(&gw)
	})
}

// sqlDatabase is a wrapper for DB connection
type sqlDatabase struct {
	rw      accessor
	t       transactor
	dialect dialect
	path    string

	// maintenance counts the time of schema operations issued outside of sessions
	maintenance *db.Context

	logTime        bool
	queryLogger    db.Logger
	readRowsLogger db.Logger
	explainLogger  db.Logger
}

// Ping pings the DB
func (d *sqlDatabase) Ping(ctx context.Context) error {
	var err = d.rw.ping(ctx)
	if err != nil && d.queryLogger != nil {
		d.queryLogger.Log("ping failed: %v", err)
	}

	return db.NewStorageError("ping", "", err)
}

func (d *sqlDatabase) DialectName() db.DialectName {
	return d.dialect.name()
}

func (d *sqlDatabase) Path() string {
	return d.path
}

func (d *sqlDatabase) maintenanceQuerier() querier {
	return wrappedQuerier{
		q:           d.rw,
		execTime:    d.maintenance.ExecTime,
		queryTime:   d.maintenance.QueryTime,
		logTime:     d.logTime,
		queryLogger: d.queryLogger,
	}
}

func (d *sqlDatabase) maintenanceTransactor() transactor {
	return wrappedTransactor{
		t:           d.t,
		beginTime:   d.maintenance.BeginTime,
		execTime:    d.maintenance.ExecTime,
		queryTime:   d.maintenance.QueryTime,
		commitTime:  d.maintenance.CommitTime,
		logTime:     d.logTime,
		queryLogger: d.queryLogger,
	}
}

func (d *sqlDatabase) TableExists(tableName string) (bool, error) {
	return tableExists(d.maintenance.Ctx, d.maintenanceQuerier(), tableName)
}

func (d *sqlDatabase) DropTable(tableName string) error {
	return inTx(d.maintenance.Ctx, d.maintenanceTransactor(), d.dialect, func(q querier, dia dialect) error {
		return dropTable(d.maintenance.Ctx, q, tableName)
	})
}

func (d *sqlDatabase) IndexExists(indexName string, tableName string) (bool, error) {
	return indexExists(d.maintenance.Ctx, d.maintenanceQuerier(), indexName, tableName)
}

func (d *sqlDatabase) CreateIndex(indexName string, tableName string, columns []string) error {
	return inTx(d.maintenance.Ctx, d.maintenanceTransactor(), d.dialect, func(q querier, dia dialect) error {
		return createIndex(d.maintenance.Ctx, q, indexName, tableName, columns)
	})
}

func (d *sqlDatabase) DropIndex(indexName string, tableName string) error {
	return inTx(d.maintenance.Ctx, d.maintenanceTransactor(), d.dialect, func(q querier, dia dialect) error {
		return dropIndex(d.maintenance.Ctx, q, indexName, tableName)
	})
}

func (d *sqlDatabase) CountRows(tableName string) (int64, error) {
	return countRows(d.maintenance.Ctx, d.maintenanceQuerier(), tableName)
}

func (d *sqlDatabase) Context(ctx context.Context) *db.Context {
	return db.NewContext(ctx)
}

func (d *sqlDatabase) Session(c *db.Context) db.Session {
	return &sqlSession{
		sqlGateway: sqlGateway{
			ctx: c.Ctx,
			rw: wrappedQuerier{
				q:           d.rw,
				execTime:    c.ExecTime,
				queryTime:   c.QueryTime,
				logTime:     d.logTime,
				queryLogger: d.queryLogger,
			},
			dialect:        d.dialect,
			InsideTX:       false,
			logTime:        d.logTime,
			queryLogger:    d.queryLogger,
			readRowsLogger: d.readRowsLogger,
			explainLogger:  d.explainLogger,
		},
		t: wrappedTransactor{
			t:           d.t,
			beginTime:   c.BeginTime,
			execTime:    c.ExecTime,
			queryTime:   c.QueryTime,
			commitTime:  c.CommitTime,
			logTime:     d.logTime,
			queryLogger: d.queryLogger,
		},
	}
}

func (d *sqlDatabase) Stats() *db.Stats {
	sqlStats := d.rw.stats()
	return &db.Stats{OpenConnections: sqlStats.OpenConnections, Idle: sqlStats.Idle, InUse: sqlStats.InUse}
}

func (d *sqlDatabase) Close() error {
	var err = d.rw.close()
	if err != nil {
		return db.NewStorageError("close", "", err)
	}

	return d.dialect.close()
}

type dialect interface {
	name() db.DialectName
	canRollback(err error) bool
	explain(query string) string
	close() error
}

func sanitizeConn(cs string) string {
	sanitized := cs
	u, _ := url.Parse(cs)
	if u != nil && u.User != nil {
		u.User = nil
		sanitized = u.String()
	}
	return sanitized
}
