package sql

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/acronis/perfkit/dbopt-bench/db"
)

func init() {
	if err := db.Register("sqlite", &sqliteConnector{}); err != nil {
		panic(err)
	}
}

// sqlitePragmas are applied to every new database
const sqlitePragmas = `PRAGMA page_size = 4096;
		PRAGMA cache_size = -20000;
		PRAGMA journal_mode=WAL;
		PRAGMA wal_autocheckpoint = 5000;
		PRAGMA wal_checkpoint(RESTART);
		PRAGMA synchronous = NORMAL;`

type sqliteDialect struct {
	memmode bool
}

func (d *sqliteDialect) name() db.DialectName {
	return db.SQLITE
}

func (d *sqliteDialect) canRollback(err error) bool {
	return true
}

func (d *sqliteDialect) explain(query string) string {
	return "EXPLAIN QUERY PLAN " + query
}

func (d *sqliteDialect) close() error {
	return nil
}

// sqlitePath extracts the database file from the connection string and checks it.
// File databases need an absolute path, in-memory ones are always limited to a single connection.
func sqlitePath(cs string) (string, *sqliteDialect, error) {
	_, path, err := db.ParseScheme(cs)
	if err != nil {
		return "", nil, fmt.Errorf("db: cannot parse sqlite db path, err: %v", err)
	}

	if path == "" {
		return "", nil, fmt.Errorf("db: empty sqlite file path")
	}

	var dia = &sqliteDialect{}
	if strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		dia.memmode = true
	} else if !filepath.IsAbs(path) {
		return "", nil, fmt.Errorf("db: filepath '%v' is not absolute", sanitizeConn(cs))
	}

	return path, dia, nil
}

func maxOpenConns(cfg db.Config, dia *sqliteDialect) int {
	if dia.memmode || cfg.MaxOpenConns < 1 {
		return 1
	}

	return cfg.MaxOpenConns
}

// newSQLDatabase fills the parts of sqlDatabase that do not depend on the way the engine is reached
func newSQLDatabase(cfg db.Config, rw accessor, t transactor, dia *sqliteDialect, path string) *sqlDatabase {
	var dbPath = path
	if dia.memmode {
		dbPath = ""
	}

	return &sqlDatabase{
		rw:             rw,
		t:              t,
		dialect:        dia,
		path:           dbPath,
		maintenance:    db.NewContext(context.Background()),
		logTime:        cfg.LogOperationsTime,
		queryLogger:    cfg.QueryLogger,
		readRowsLogger: cfg.ReadRowsLogger,
		explainLogger:  cfg.ExplainLogger,
	}
}

type sqliteConnector struct{}

func (c *sqliteConnector) ConnectionPool(cfg db.Config) (db.Database, error) {
	path, dia, err := sqlitePath(cfg.ConnString)
	if err != nil {
		return nil, err
	}

	var rwc *sql.DB
	if rwc, err = sql.Open("sqlite3", path); err != nil {
		return nil, db.NewStorageError("open", "", fmt.Errorf("cannot open sqlite db at %v: %w", sanitizeConn(cfg.ConnString), err))
	}

	var maxConn = maxOpenConns(cfg, dia)
	rwc.SetMaxOpenConns(maxConn)
	rwc.SetMaxIdleConns(maxConn)

	if err = rwc.Ping(); err != nil {
		_ = rwc.Close()
		return nil, db.NewStorageError("open", "", fmt.Errorf("failed ping sqlite db at %v: %w", sanitizeConn(cfg.ConnString), err))
	}

	if _, err = rwc.Exec(sqlitePragmas); err != nil {
		_ = rwc.Close()
		return nil, db.NewStorageError("open", sqlitePragmas, fmt.Errorf("failed to set sqlite options: %w", err))
	}

	var q = &sqlQuerier{rwc}

	return newSQLDatabase(cfg, q, q, dia, path), nil
}

func (c *sqliteConnector) DialectName(scheme string) (db.DialectName, error) {
	return db.SQLITE, nil
}
