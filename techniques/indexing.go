// Package techniques implements the optimization techniques measured by the benchmark.
// Every technique works on the employees table through the storage gateway, identifiers
// are validated before they reach a statement and values are always bound.
package techniques

import (
	"fmt"
)

// IndexManager is the part of db.Database used for index maintenance
type IndexManager interface {
	CreateIndex(indexName string, tableName string, columns []string) error
	DropIndex(indexName string, tableName string) error
}

// CreateIndex creates indexName on table(column) if it does not exist yet
func CreateIndex(m IndexManager, table string, indexName string, column string) error {
	if err := m.CreateIndex(indexName, table, []string{column}); err != nil {
		return fmt.Errorf("cannot create index %s on %s: %w", indexName, table, err)
	}

	return nil
}

// DropIndex drops indexName if it exists
func DropIndex(m IndexManager, table string, indexName string) error {
	if err := m.DropIndex(indexName, table); err != nil {
		return fmt.Errorf("cannot drop index %s on %s: %w", indexName, table, err)
	}

	return nil
}
