package sql

import (
	"context"
	"fmt"
	"strings"

	"github.com/acronis/perfkit/dbopt-bench/db"
)

func queryCount(ctx context.Context, q querier, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := q.queryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, db.NewStorageError("query", query, err)
	}

	return n, nil
}

// tableExists checks if a table exists
func tableExists(ctx context.Context, q querier, name string) (bool, error) {
	if err := db.ValidateIdentifier(name); err != nil {
		return false, err
	}

	if name == "sqlite_master" {
		return true, nil
	}

	n, err := queryCount(ctx, q, `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?;`, name)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// dropTable drops a table if it exists
func dropTable(ctx context.Context, q querier, name string) error {
	if err := db.ValidateIdentifier(name); err != nil {
		return err
	}

	var query = fmt.Sprintf("DROP TABLE IF EXISTS %s;", name)
	if _, err := q.execContext(ctx, query); err != nil {
		return db.NewStorageError("exec", query, err)
	}

	return nil
}

// indexExists checks if an index exists on the given table
func indexExists(ctx context.Context, q querier, indexName string, tableName string) (bool, error) {
	if err := db.ValidateIdentifiers(indexName, tableName); err != nil {
		return false, err
	}

	n, err := queryCount(ctx, q,
		`SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = ? AND tbl_name = ?;`,
		indexName, tableName)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// createIndex creates an index if it doesn't exist yet
func createIndex(ctx context.Context, q querier, indexName string, tableName string, columns []string) error {
	if err := db.ValidateIdentifiers(indexName, tableName); err != nil {
		return err
	}

	if len(columns) == 0 {
		return fmt.Errorf("index %s on %s has no columns", indexName, tableName)
	}

	if err := db.ValidateIdentifiers(columns...); err != nil {
		return err
	}

	var query = fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s);", indexName, tableName, strings.Join(columns, ", "))
	if _, err := q.execContext(ctx, query); err != nil {
		return db.NewStorageError("exec", query, err)
	}

	return nil
}

// dropIndex drops an index if it exists, SQLite index names are global so the table only gets validated
func dropIndex(ctx context.Context, q querier, indexName string, tableName string) error {
	if err := db.ValidateIdentifiers(indexName, tableName); err != nil {
		return err
	}

	var query = fmt.Sprintf("DROP INDEX IF EXISTS %s;", indexName)
	if _, err := q.execContext(ctx, query); err != nil {
		return db.NewStorageError("exec", query, err)
	}

	return nil
}

// countRows returns the number of rows of a table
func countRows(ctx context.Context, q querier, tableName string) (int64, error) {
	if err := db.ValidateIdentifier(tableName); err != nil {
		return 0, err
	}

	return queryCount(ctx, q, fmt.Sprintf("SELECT COUNT(*) FROM %s;", tableName))
}
