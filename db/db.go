package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
)

type DialectName string

// Supported dialect
const (
	SQLITE DialectName = "sqlite" // SQLITE is the SQLite driver name
)

// Connector is an interface for registering database connectors without knowing the specific connector implementations.
// It provides methods to create connection pools and determine the dialect name for a given database scheme.
//
// Connectors register themselves from init():
//
//	func init() {
//	    if err := db.Register("sqlite", &sqliteConnector{}); err != nil {
//	        panic(err)
//	    }
//	}
//
// and the application imports the adapter package for its side effect:
//
//	import _ "github.com/acronis/perfkit/dbopt-bench/db/sql" // sql drivers
type Connector interface {
	// ConnectionPool creates a new database connection pool using the provided configuration
	ConnectionPool(cfg Config) (Database, error)

	// DialectName returns the database dialect name for a given connection scheme
	DialectName(scheme string) (DialectName, error)
}

var (
	// dbRegistry stores registered database connectors mapped by their schema names
	dbRegistry   = make(map[string]Connector)
	registryLock = sync.Mutex{}
)

// Register registers a database connector for a given schema.
// Returns an error if the schema is already registered.
func Register(schema string, conn Connector) error {
	registryLock.Lock()
	defer registryLock.Unlock()

	if _, ok := dbRegistry[schema]; ok {
		return fmt.Errorf("schema %s already exists", schema)
	}

	dbRegistry[schema] = conn

	return nil
}

// Config is a struct for database configuration settings
type Config struct {
	// ConnString is the database connection string/URL:
	// - SQLite: sqlite:///abs/path/to/file.db or sqlite://:memory:
	// - SQLite through dbr: sqlite+dbr:///abs/path/to/file.db
	ConnString string

	// MaxOpenConns controls the maximum number of open connections to the database.
	// The benchmark is strictly sequential so one connection is enough, in-memory
	// SQLite databases are always limited to one connection since every
	// connection would see its own private database.
	MaxOpenConns int

	// QueryLogger logs all SQL queries before execution
	QueryLogger Logger

	// ReadRowsLogger logs the data returned from queries
	ReadRowsLogger Logger

	// ExplainLogger receives query plans produced by Explain()
	ExplainLogger Logger

	// LogOperationsTime adds the duration to every logged query
	LogOperationsTime bool
}

// Open opens a database connection using the provided configuration.
// The scheme of the connection string selects the registered connector:
//
//	cfg := db.Config{ConnString: "sqlite:///tmp/bench.db"}
//	dbo, err := db.Open(cfg)
//	if err != nil {
//	    return err
//	}
//	defer dbo.Close()
func Open(cfg Config) (Database, error) {
	var scheme, _, err = ParseScheme(cfg.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s to scheme: %v", cfg.ConnString, err)
	}

	registryLock.Lock()
	var conn, ok = dbRegistry[scheme]
	registryLock.Unlock()

	if !ok {
		return nil, fmt.Errorf("scheme %s doesn't exist in registry", scheme)
	}

	return conn.ConnectionPool(cfg)
}

// GetDialectName returns the database dialect name for a given connection string
// without establishing a connection.
func GetDialectName(cs string) (DialectName, error) {
	var scheme, _, err = ParseScheme(cs)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s to scheme: %v", cs, err)
	}

	registryLock.Lock()
	var conn, ok = dbRegistry[scheme]
	registryLock.Unlock()

	if !ok {
		return "", fmt.Errorf("scheme %s doesn't exist in registry", scheme)
	}

	return conn.DialectName(scheme)
}

// Logger is an interface for logging database operations.
type Logger interface {
	Log(format string, args ...interface{})
}

// Result is an interface for database query results
type Result interface {
	// LastInsertId returns the ID generated for an AUTO_INCREMENT column by the last INSERT operation
	LastInsertId() (int64, error)

	// RowsAffected returns the number of rows affected by an INSERT, UPDATE, or DELETE operation
	RowsAffected() (int64, error)
}

// DatabaseAccessor provides core database access operations. It is implemented
// both by a standalone session and by the transaction handed to Session.Transact.
type DatabaseAccessor interface {
	// Exec executes a statement that doesn't return rows
	Exec(query string, args ...interface{}) (Result, error)

	// QueryRow executes a query that returns a single row
	QueryRow(query string, args ...interface{}) Row

	// Fetch executes a query and materializes the whole result set
	Fetch(query string, args ...interface{}) (*ResultSet, error)

	// BulkInsert inserts rows with parameterized multi-value INSERT statements.
	// Every row must match columnNames.
	BulkInsert(tableName string, rows [][]interface{}, columnNames []string) error

	// Explain logs the query plan of the given query to the ExplainLogger
	Explain(query string, args ...interface{}) error
}

// Session represents a database session that can execute operations either in a transaction
// or as standalone operations.
type Session interface {
	DatabaseAccessor

	// Transact executes the provided function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// Otherwise, the transaction is committed. Nothing is retried.
	Transact(func(tx DatabaseAccessor) error) error
}

// databaseMigrator provides schema inspection and manipulation
type databaseMigrator interface {
	// TableExists checks whether a table exists
	TableExists(tableName string) (bool, error)

	// DropTable drops a table if it exists
	DropTable(tableName string) error

	// IndexExists checks whether an index exists on the given table
	IndexExists(indexName string, tableName string) (bool, error)

	// CreateIndex creates an index if it does not exist yet
	CreateIndex(indexName string, tableName string, columns []string) error

	// DropIndex drops an index if it exists
	DropIndex(indexName string, tableName string) error

	// CountRows returns the number of rows in a table
	CountRows(tableName string) (int64, error)
}

// Stats is a struct for storing database statistics
type Stats struct {
	OpenConnections int // The number of established connections both in use and idle.
	InUse           int // The number of connections currently in use.
	Idle            int // The number of idle connections.
}

// Context is a struct for storing database context and timing metrics.
// All times are stored as nanoseconds.
type Context struct {
	Ctx context.Context

	BeginTime  *atomic.Int64
	ExecTime   *atomic.Int64
	QueryTime  *atomic.Int64
	CommitTime *atomic.Int64
}

// NewContext creates a new Context with zeroed timers
func NewContext(ctx context.Context) *Context {
	return &Context{
		Ctx:        ctx,
		BeginTime:  atomic.NewInt64(0),
		ExecTime:   atomic.NewInt64(0),
		QueryTime:  atomic.NewInt64(0),
		CommitTime: atomic.NewInt64(0),
	}
}

// DBTime returns the total time spent inside the database
func (c *Context) DBTime() time.Duration {
	return time.Duration(c.BeginTime.Load() + c.ExecTime.Load() + c.QueryTime.Load() + c.CommitTime.Load())
}

// String returns the timing breakdown of the context
func (c *Context) String() string {
	return fmt.Sprintf("db time: %v (begin: %v, exec: %v, query: %v, commit: %v)",
		c.DBTime(),
		time.Duration(c.BeginTime.Load()),
		time.Duration(c.ExecTime.Load()),
		time.Duration(c.QueryTime.Load()),
		time.Duration(c.CommitTime.Load()))
}

// Database is the storage gateway: a connection to the external relational engine
type Database interface {
	// Ping verifies the database connection is still alive
	Ping(ctx context.Context) error

	// DialectName returns the database dialect name
	DialectName() DialectName

	// Path returns the backing file of the database, empty for in-memory stores
	Path() string

	databaseMigrator

	// Context creates a new database context with timing metrics
	Context(ctx context.Context) *Context

	// Session creates a new database session with the given context
	Session(ctx *Context) Session

	// Stats returns current database connection statistics
	Stats() *Stats

	// Close closes the database connection
	Close() error
}
