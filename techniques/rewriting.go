package techniques

import (
	"strings"

	"github.com/acronis/perfkit/dbopt-bench/dataset"
	"github.com/acronis/perfkit/dbopt-bench/db"
)

// CostBasedIndex is the index created by the cost-based optimizer
const CostBasedIndex = "idx_employee_name"

// HeuristicColumns replaces the star projection in HeuristicRewrite
const HeuristicColumns = dataset.ColumnEmployeeName + ", " + dataset.ColumnDepartmentName

// CostBased stands in for a cost-based optimizer: it always creates the index on
// employee_name and then runs the query
func CostBased(m IndexManager, s db.DatabaseAccessor, query string) (*db.ResultSet, error) {
	if err := CreateIndex(m, dataset.EmployeesTable.TableName, CostBasedIndex, dataset.ColumnEmployeeName); err != nil {
		return nil, err
	}

	return s.Fetch(query)
}

// HeuristicRewrite replaces every "*" of query with the explicit column list.
// It is purely textual, a "*" used as multiplication gets rewritten as well.
func HeuristicRewrite(query string) string {
	return strings.ReplaceAll(query, "*", HeuristicColumns)
}

// Heuristic runs the rewritten query
func Heuristic(s db.DatabaseAccessor, query string) (*db.ResultSet, error) {
	return s.Fetch(HeuristicRewrite(query))
}
