package sql

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gocraft/dbr/v2"

	"github.com/acronis/perfkit/dbopt-bench/db"
)

func init() {
	if err := db.Register("sqlite+dbr", &dbrConnector{}); err != nil {
		panic(err)
	}
}

// dbrEventReceiver forwards dbr events (commit, rollback, their failures) to the query logger
type dbrEventReceiver struct {
	logger db.Logger
}

func formatKvs(kvs map[string]string) string {
	var keys = make([]string, 0, len(kvs))
	for k := range kvs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs = make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, kvs[k]))
	}

	return strings.Join(pairs, " ")
}

func (r *dbrEventReceiver) Event(eventName string) {
	if r.logger != nil {
		r.logger.Log("-- dbr: %s", eventName)
	}
}

func (r *dbrEventReceiver) EventKv(eventName string, kvs map[string]string) {
	if r.logger != nil {
		r.logger.Log("-- dbr: %s %s", eventName, formatKvs(kvs))
	}
}

func (r *dbrEventReceiver) EventErr(eventName string, err error) error {
	if r.logger != nil {
		r.logger.Log("-- dbr: %s: %v", eventName, err)
	}
	return err
}

func (r *dbrEventReceiver) EventErrKv(eventName string, err error, kvs map[string]string) error {
	if r.logger != nil {
		r.logger.Log("-- dbr: %s: %v %s", eventName, err, formatKvs(kvs))
	}
	return err
}

func (r *dbrEventReceiver) Timing(eventName string, nanoseconds int64) {
	if r.logger != nil {
		r.logger.Log("-- dbr: %s took %v", eventName, time.Duration(nanoseconds))
	}
}

func (r *dbrEventReceiver) TimingKv(eventName string, nanoseconds int64, kvs map[string]string) {
	if r.logger != nil {
		r.logger.Log("-- dbr: %s took %v %s", eventName, time.Duration(nanoseconds), formatKvs(kvs))
	}
}

// dbrConnector reaches the same SQLite engine through a dbr session
type dbrConnector struct{}

func (c *dbrConnector) ConnectionPool(cfg db.Config) (db.Database, error) {
	path, dia, err := sqlitePath(cfg.ConnString)
	if err != nil {
		return nil, err
	}

	var rwc *dbr.Connection
	if rwc, err = dbr.Open("sqlite3", path, &dbrEventReceiver{logger: cfg.QueryLogger}); err != nil {
		return nil, db.NewStorageError("open", "", fmt.Errorf("cannot connect to dbr sql db at %v: %w", sanitizeConn(cfg.ConnString), err))
	}

	var maxConn = maxOpenConns(cfg, dia)
	rwc.SetMaxOpenConns(maxConn)
	rwc.SetMaxIdleConns(maxConn)

	if err = rwc.Ping(); err != nil {
		_ = rwc.Close()
		return nil, db.NewStorageError("open", "", fmt.Errorf("failed ping dbr sql db at %v: %w", sanitizeConn(cfg.ConnString), err))
	}

	if _, err = rwc.Exec(sqlitePragmas); err != nil {
		_ = rwc.Close()
		return nil, db.NewStorageError("open", sqlitePragmas, fmt.Errorf("failed to set sqlite options: %w", err))
	}

	var q = &dbrQuerier{rwc.NewSession(nil)}

	return newSQLDatabase(cfg, q, q, dia, path), nil
}

func (c *dbrConnector) DialectName(scheme string) (db.DialectName, error) {
	if scheme != "sqlite+dbr" {
		return "", fmt.Errorf("'%s' is unsupported dialect", scheme)
	}

	return db.SQLITE, nil
}

type dbrQuerier struct {
	be *dbr.Session
}
type dbrTransaction struct {
	be *dbr.Tx
}

func (d *dbrQuerier) ping(ctx context.Context) error {
	return d.be.PingContext(ctx)
}
func (d *dbrQuerier) stats() sql.DBStats {
	return d.be.Stats()
}
func (d *dbrQuerier) close() error {
	return d.be.Close()
}
func (d *dbrQuerier) execContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return d.be.ExecContext(ctx, query, args...)
}
func (d *dbrQuerier) queryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return d.be.QueryRowContext(ctx, query, args...)
}
func (d *dbrQuerier) queryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return d.be.QueryContext(ctx, query, args...)
}
func (d *dbrQuerier) begin(ctx context.Context) (transaction, error) {
	be, err := d.be.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &dbrTransaction{be}, nil
}

func (t *dbrTransaction) execContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return t.be.ExecContext(ctx, query, args...)
}
func (t *dbrTransaction) queryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return t.be.QueryRowContext(ctx, query, args...)
}
func (t *dbrTransaction) queryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return t.be.QueryContext(ctx, query, args...)
}
func (t *dbrTransaction) commit() error {
	return t.be.Commit()
}
func (t *dbrTransaction) rollback() error {
	return t.be.Rollback()
}
