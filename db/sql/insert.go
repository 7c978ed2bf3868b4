package sql

import (
	"fmt"

	"github.com/gocraft/dbr/v2"
	dbrdialect "github.com/gocraft/dbr/v2/dialect"

	"github.com/acronis/perfkit/dbopt-bench/db"
)

// maxInsertArgs keeps a single INSERT below SQLITE_MAX_VARIABLE_NUMBER
const maxInsertArgs = 32000

// bulkInsertSQL builds a parameterized multi-row INSERT, identifiers are validated
// and quoted by the dbr SQLite3 dialect, values become bound parameters
func bulkInsertSQL(tableName string, rows [][]interface{}, columnNames []string) (string, []interface{}, error) {
	if len(rows) == 0 {
		return "", nil, nil
	}

	if err := db.ValidateIdentifier(tableName); err != nil {
		return "", nil, err
	}

	if len(columnNames) == 0 {
		return "", nil, fmt.Errorf("no columns given for insert into %s", tableName)
	}

	if err := db.ValidateIdentifiers(columnNames...); err != nil {
		return "", nil, err
	}

	for i, row := range rows {
		if len(row) != len(columnNames) {
			return "", nil, fmt.Errorf("row %d length %d doesn't match column names length %d", i, len(row), len(columnNames))
		}
	}

	stmt := dbr.InsertInto(tableName).Columns(columnNames...)
	for _, row := range rows {
		stmt = stmt.Values(row...)
	}

	var buf = dbr.NewBuffer()
	if err := stmt.Build(dbrdialect.SQLite3, buf); err != nil {
		return "", nil, fmt.Errorf("failed to build query: %w", err)
	}

	return buf.String(), buf.Value(), nil
}

// BulkInsert inserts rows in as few statements as the engine parameter limit allows
func (g *sqlGateway) BulkInsert(tableName string, rows [][]interface{}, columnNames []string) error {
	if len(rows) == 0 {
		return nil
	}

	var chunk = len(rows)
	if len(columnNames) > 0 && chunk*len(columnNames) > maxInsertArgs {
		chunk = maxInsertArgs / len(columnNames)
	}

	for start := 0; start < len(rows); start += chunk {
		var end = start + chunk
		if end > len(rows) {
			end = len(rows)
		}

		query, args, err := bulkInsertSQL(tableName, rows[start:end], columnNames)
		if err != nil {
			return err
		}

		if _, err = g.rw.execContext(g.ctx, query, args...); err != nil {
			return db.NewStorageError("insert", query, err)
		}
	}

	return nil
}
