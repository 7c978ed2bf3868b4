package techniques

import (
	"fmt"
	"strings"

	"github.com/acronis/perfkit/dbopt-bench/dataset"
	"github.com/acronis/perfkit/dbopt-bench/db"
)

// DepartmentTable holds the unique (department_id, department_name) pairs
var DepartmentTable = dataset.Table{
	TableName: "department",
	Columns: []dataset.TableColumn{
		{Name: dataset.ColumnDepartmentID, Type: "INTEGER PRIMARY KEY"},
		{Name: dataset.ColumnDepartmentName, Type: "TEXT"},
	},
}

// ProjectTable holds the unique (project_id, project_name) pairs
var ProjectTable = dataset.Table{
	TableName: "project",
	Columns: []dataset.TableColumn{
		{Name: dataset.ColumnProjectID, Type: "INTEGER PRIMARY KEY"},
		{Name: dataset.ColumnProjectName, Type: "TEXT"},
	},
}

// EmployeesNormalizedTable is the employees table in second normal form
var EmployeesNormalizedTable = dataset.Table{
	TableName: "employees_normalized",
	Columns: []dataset.TableColumn{
		{Name: dataset.ColumnEmployeeID, Type: "INTEGER PRIMARY KEY"},
		{Name: dataset.ColumnEmployeeName, Type: "TEXT"},
		{Name: dataset.ColumnDepartmentID, Type: "INTEGER REFERENCES department(department_id)"},
	},
}

// EmployeesFullyNormalizedTable is the employees table in third normal form
var EmployeesFullyNormalizedTable = dataset.Table{
	TableName: "employees_fully_normalized",
	Columns: []dataset.TableColumn{
		{Name: dataset.ColumnEmployeeID, Type: "INTEGER PRIMARY KEY"},
		{Name: dataset.ColumnEmployeeName, Type: "TEXT"},
		{Name: dataset.ColumnDepartmentID, Type: "INTEGER REFERENCES department(department_id)"},
		{Name: dataset.ColumnProjectID, Type: "INTEGER REFERENCES project(project_id)"},
	},
}

// NormalizedTables lists every table created by the normalization steps
var NormalizedTables = []*dataset.Table{&DepartmentTable, &EmployeesNormalizedTable, &ProjectTable, &EmployeesFullyNormalizedTable}

// insertIfAbsentQuery copies the columns of target from source, rows colliding on the primary key are skipped
func insertIfAbsentQuery(target *dataset.Table, source string, distinct bool) (string, error) {
	if err := db.ValidateIdentifiers(target.TableName, source); err != nil {
		return "", err
	}

	var columns = target.ColumnNames()
	if err := db.ValidateIdentifiers(columns...); err != nil {
		return "", err
	}

	var selectClause = "SELECT"
	if distinct {
		selectClause = "SELECT DISTINCT"
	}

	var list = strings.Join(columns, ", ")

	return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) %s %s FROM %s", target.TableName, list, selectClause, list, source), nil
}

// extract creates target if needed and fills it from source, the table always exists before the insert runs
func extract(tx db.DatabaseAccessor, target *dataset.Table, source string, distinct bool) error {
	createQuery, err := target.CreateQuery()
	if err != nil {
		return err
	}

	insertQuery, err := insertIfAbsentQuery(target, source, distinct)
	if err != nil {
		return err
	}

	if _, err = tx.Exec(createQuery); err != nil {
		return fmt.Errorf("cannot create %s: %w", target.TableName, err)
	}

	if _, err = tx.Exec(insertQuery); err != nil {
		return fmt.Errorf("cannot populate %s: %w", target.TableName, err)
	}

	return nil
}

// NormalizeTo2NF extracts departments out of the employees table in one transaction.
// Rows are inserted if absent, so rows of previous iterations accumulate.
func NormalizeTo2NF(s db.Session) error {
	var source = dataset.EmployeesTable.TableName

	return s.Transact(func(tx db.DatabaseAccessor) error {
		if err := extract(tx, &DepartmentTable, source, true); err != nil {
			return err
		}

		return extract(tx, &EmployeesNormalizedTable, source, false)
	})
}

// NormalizeTo3NF additionally extracts projects. Project columns are read from the
// employees table since employees_normalized doesn't carry them.
func NormalizeTo3NF(s db.Session) error {
	var source = dataset.EmployeesTable.TableName

	return s.Transact(func(tx db.DatabaseAccessor) error {
		if err := extract(tx, &ProjectTable, source, true); err != nil {
			return err
		}

		return extract(tx, &EmployeesFullyNormalizedTable, source, false)
	})
}
