package dataset

import (
	"fmt"
	"strings"

	"github.com/acronis/perfkit/dbopt-bench/db"
)

// Column names of the employees table
const (
	ColumnEmployeeID     = "employee_id"
	ColumnEmployeeName   = "employee_name"
	ColumnDepartmentID   = "department_id"
	ColumnDepartmentName = "department_name"
	ColumnProjectID      = "project_id"
	ColumnProjectName    = "project_name"
)

// TableColumn describes a single column of a benchmark table
type TableColumn struct {
	Name string
	Type string // SQLite column type with constraints, e.g. "INTEGER PRIMARY KEY"
}

// Table represents a table used by the benchmark
type Table struct {
	TableName     string
	Columns       []TableColumn
	InsertColumns []string // columns filled by the generator, the rest is assigned by the engine
}

// CreateQuery returns the CREATE TABLE IF NOT EXISTS statement of the table
func (t *Table) CreateQuery() (string, error) {
	if err := db.ValidateIdentifier(t.TableName); err != nil {
		return "", err
	}

	if len(t.Columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", t.TableName)
	}

	var defs = make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if err := db.ValidateIdentifier(c.Name); err != nil {
			return "", err
		}
		defs = append(defs, fmt.Sprintf("%s %s", c.Name, c.Type))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.TableName, strings.Join(defs, ",\n\t")), nil
}

// ColumnNames returns the names of all columns in declaration order
func (t *Table) ColumnNames() []string {
	var names = make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}

	return names
}

// EmployeesTable is the denormalized table every technique works on
var EmployeesTable = Table{
	TableName: "employees",
	Columns: []TableColumn{
		{Name: ColumnEmployeeID, Type: "INTEGER PRIMARY KEY"},
		{Name: ColumnEmployeeName, Type: "TEXT"},
		{Name: ColumnDepartmentID, Type: "INTEGER"},
		{Name: ColumnDepartmentName, Type: "TEXT"},
		{Name: ColumnProjectID, Type: "INTEGER"},
		{Name: ColumnProjectName, Type: "TEXT"},
	},
	InsertColumns: []string{
		ColumnEmployeeName,
		ColumnDepartmentID,
		ColumnDepartmentName,
		ColumnProjectID,
		ColumnProjectName,
	},
}
