// Package dataset creates the employees table and fills it with synthetic rows.
package dataset

import (
	"fmt"

	"github.com/acronis/perfkit/dbopt-bench/benchmark"
	"github.com/acronis/perfkit/dbopt-bench/db"
)

// Departments and Projects are the category pools, the id of an entry is its position + 1
var (
	Departments = []string{"HR", "Finance", "IT", "Marketing", "Sales"}
	Projects    = []string{"ProjectA", "ProjectB", "ProjectC", "ProjectD", "ProjectE"}
)

// NameLength is the length of generated employee names
const NameLength = 10

// BatchSize is the number of rows sent in one multi-row INSERT
const BatchSize = 100

// Employee is one generated row of the employees table
type Employee struct {
	Name           string
	DepartmentID   int
	DepartmentName string
	ProjectID      int
	ProjectName    string
}

func (e Employee) values() []interface{} {
	return []interface{}{e.Name, e.DepartmentID, e.DepartmentName, e.ProjectID, e.ProjectName}
}

// NewEmployee draws a random employee, names are resolved from the ids
func NewEmployee(rw *benchmark.RandomizerWorker) Employee {
	var departmentID = rw.IntRange(1, len(Departments))
	var projectID = rw.IntRange(1, len(Projects))

	return Employee{
		Name:           rw.Letters(NameLength),
		DepartmentID:   departmentID,
		DepartmentName: Departments[departmentID-1],
		ProjectID:      projectID,
		ProjectName:    Projects[projectID-1],
	}
}

// EnsureSchema creates the employees table if it doesn't exist
func EnsureSchema(s db.DatabaseAccessor) error {
	query, err := EmployeesTable.CreateQuery()
	if err != nil {
		return err
	}

	if _, err = s.Exec(query); err != nil {
		return fmt.Errorf("cannot create table %s: %w", EmployeesTable.TableName, err)
	}

	return nil
}

// Populate inserts count generated employees in a single transaction, all or nothing
func Populate(s db.Session, count int, rw *benchmark.RandomizerWorker) error {
	if count < 0 {
		return fmt.Errorf("cannot populate %d rows", count)
	}

	if count == 0 {
		return nil
	}

	return s.Transact(func(tx db.DatabaseAccessor) error {
		var batch = make([][]interface{}, 0, BatchSize)
		for i := 0; i < count; i++ {
			batch = append(batch, NewEmployee(rw).values())

			if len(batch) == BatchSize || i == count-1 {
				if err := tx.BulkInsert(EmployeesTable.TableName, batch, EmployeesTable.InsertColumns); err != nil {
					return fmt.Errorf("cannot populate %s: %w", EmployeesTable.TableName, err)
				}
				batch = batch[:0]
			}
		}

		return nil
	})
}

// Clear deletes all employees and commits
func Clear(s db.Session) error {
	return s.Transact(func(tx db.DatabaseAccessor) error {
		if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", EmployeesTable.TableName)); err != nil {
			return fmt.Errorf("cannot clear %s: %w", EmployeesTable.TableName, err)
		}

		return nil
	})
}

// Count returns the number of rows in a table
func Count(s db.DatabaseAccessor, tableName string) (int64, error) {
	if err := db.ValidateIdentifier(tableName); err != nil {
		return 0, err
	}

	var n int64
	if err := s.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)).Scan(&n); err != nil {
		return 0, fmt.Errorf("cannot count rows of %s: %w", tableName, err)
	}

	return n, nil
}
