package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/acronis/perfkit/dbopt-bench/benchmark"
	"github.com/acronis/perfkit/dbopt-bench/db"
	_ "github.com/acronis/perfkit/dbopt-bench/db/sql"
)

func openTestDB(t *testing.T) (db.Database, db.Session) {
	t.Helper()

	dbo, err := db.Open(db.Config{ConnString: "sqlite://" + filepath.Join(t.TempDir(), "dataset.db"), MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbo.Close() })

	var s = dbo.Session(dbo.Context(context.Background()))
	require.NoError(t, EnsureSchema(s))

	return dbo, s
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	dbo, s := openTestDB(t)

	require.NoError(t, EnsureSchema(s))

	exists, err := dbo.TableExists(EmployeesTable.TableName)
	require.NoError(t, err)
	require.True(t, exists)

	rs, err := s.Fetch("SELECT * FROM employees")
	require.NoError(t, err)
	require.Equal(t, EmployeesTable.ColumnNames(), rs.Columns)
}

func TestCreateQueryRejectsBadIdentifiers(t *testing.T) {
	var table = Table{TableName: "employees; DROP TABLE x", Columns: EmployeesTable.Columns}
	_, err := table.CreateQuery()
	require.ErrorIs(t, err, db.ErrInvalidIdentifier)

	table = Table{TableName: "employees", Columns: []TableColumn{{Name: "name TEXT); --", Type: "TEXT"}}}
	_, err = table.CreateQuery()
	require.ErrorIs(t, err, db.ErrInvalidIdentifier)

	table = Table{TableName: "employees"}
	_, err = table.CreateQuery()
	require.Error(t, err)
}

func TestNewEmployee(t *testing.T) {
	var rw = benchmark.NewRandomizer(7, 1).Main()

	for i := 0; i < 500; i++ {
		var e = NewEmployee(rw)
		require.Len(t, e.Name, NameLength)
		require.GreaterOrEqual(t, e.DepartmentID, 1)
		require.LessOrEqual(t, e.DepartmentID, len(Departments))
		require.Equal(t, Departments[e.DepartmentID-1], e.DepartmentName)
		require.GreaterOrEqual(t, e.ProjectID, 1)
		require.LessOrEqual(t, e.ProjectID, len(Projects))
		require.Equal(t, Projects[e.ProjectID-1], e.ProjectName)
	}
}

func TestPopulateAndClear(t *testing.T) {
	_, s := openTestDB(t)
	var rw = benchmark.NewRandomizer(1, 1).Main()

	require.NoError(t, Populate(s, 250, rw))

	n, err := Count(s, EmployeesTable.TableName)
	require.NoError(t, err)
	require.Equal(t, int64(250), n)

	// names stay functionally determined by ids
	rs, err := s.Fetch("SELECT DISTINCT department_id, department_name FROM employees ORDER BY department_id")
	require.NoError(t, err)
	for _, row := range rs.Rows {
		require.Equal(t, Departments[row[0].(int64)-1], row[1])
	}

	require.NoError(t, Populate(s, 10, rw))
	n, err = Count(s, EmployeesTable.TableName)
	require.NoError(t, err)
	require.Equal(t, int64(260), n)

	require.NoError(t, Clear(s))
	n, err = Count(s, EmployeesTable.TableName)
	require.NoError(t, err)
	require.Equal(t, int64(0), n)

	require.Error(t, Populate(s, -1, rw))

	_, err = Count(s, "employees WHERE 1=1")
	require.ErrorIs(t, err, db.ErrInvalidIdentifier)
}

func TestPopulateIsAllOrNothing(t *testing.T) {
	dbo, s := openTestDB(t)
	var rw = benchmark.NewRandomizer(1, 1).Main()

	// the second batch violates the constraint after the first one succeeded
	require.NoError(t, dbo.DropTable(EmployeesTable.TableName))
	_, err := s.Exec(`CREATE TABLE employees (
		employee_id INTEGER PRIMARY KEY CHECK (employee_id <= 120),
		employee_name TEXT, department_id INTEGER, department_name TEXT, project_id INTEGER, project_name TEXT)`)
	require.NoError(t, err)

	err = Populate(s, 150, rw)
	require.Error(t, err)
	require.True(t, db.IsStorageError(err))

	n, err := Count(s, EmployeesTable.TableName)
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
}

func TestPopulateCountProperty(t *testing.T) {
	_, s := openTestDB(t)
	var rw = benchmark.NewRandomizer(3, 1).Main()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("populate(n) then count returns n, clear returns 0", prop.ForAll(
		func(n int) bool {
			if err := Populate(s, n, rw); err != nil {
				t.Log(err)
				return false
			}

			count, err := Count(s, EmployeesTable.TableName)
			if err != nil || count != int64(n) {
				t.Log(fmt.Sprintf("expected %d rows, got %d (%v)", n, count, err))
				return false
			}

			if err = Clear(s); err != nil {
				return false
			}

			count, err = Count(s, EmployeesTable.TableName)
			return err == nil && count == 0
		},
		gen.IntRange(0, 450),
	))

	properties.TestingRun(t)
}
