package engine

import (
	"os"
	"path/filepath"

	"github.com/acronis/perfkit/dbopt-bench/benchmark"
	"github.com/acronis/perfkit/dbopt-bench/dataset"
)

// DefaultQuery is the sample query run after every technique
const DefaultQuery = "SELECT * FROM employees WHERE employee_name = 'John Doe'"

// BenchOpts is a structure to store the dbopt-bench specific options
type BenchOpts struct {
	Iterations int    `short:"n" long:"iterations" description:"number of populate-measure-clear iterations" required:"false" default:"100"`
	Rows       int    `short:"r" long:"rows" description:"number of employees generated per iteration" required:"false" default:"100000"`
	DBPath     string `long:"db-path" description:"absolute path of the backing store, a new file in the temp dir by default; the file must not exist and is removed at the end" required:"false"`
	Driver     string `long:"driver" description:"storage gateway used to reach SQLite" choice:"sqlite" choice:"sqlite+dbr" default:"sqlite"`
	Query      string `short:"q" long:"query" description:"sample query executed after every technique" required:"false" default:"SELECT * FROM employees WHERE employee_name = 'John Doe'"`

	ThirdNormalForm      bool `long:"third-normal-form" description:"also measure normalization to the third normal form" required:"false"`
	VerticalPartitioning bool `long:"vertical-partitioning" description:"also measure vertical partitioning" required:"false"`
	RefreshPartitions    bool `long:"refresh-partitions" description:"drop the partitions after every iteration so they are rebuilt from fresh data" required:"false"`
	ResetIndexes         bool `long:"reset-indexes" description:"drop the benchmark indexes after every iteration so index creation is measured every time" required:"false"`
	Explain              bool `long:"explain" description:"log the query plan of the sample query after every step" required:"false"`
	List                 bool `short:"a" long:"list" description:"list the benchmark steps and exit" required:"false"`
}

// Validate rejects options that can't be run, nothing has been created at this point
func (o *BenchOpts) Validate() error {
	if o.Iterations < 0 {
		return benchmark.NewConfigurationError("iterations", "must not be negative, got %d", o.Iterations)
	}

	if o.Rows < 0 {
		return benchmark.NewConfigurationError("rows", "must not be negative, got %d", o.Rows)
	}

	if o.Query == "" {
		return benchmark.NewConfigurationError("query", "must not be empty")
	}

	if o.DBPath != "" {
		if !filepath.IsAbs(o.DBPath) {
			return benchmark.NewConfigurationError("db-path", "'%s' is not an absolute path", o.DBPath)
		}

		if _, err := os.Stat(o.DBPath); err == nil {
			return benchmark.NewConfigurationError("db-path", "'%s' already exists", o.DBPath)
		}
	}

	return nil
}

// partitionValues are the department ids each getting a horizontal partition
var partitionValues = []string{"1", "2", "3", "4", "5"}

// verticalGroups are the column groups of the vertical partitioning step
var verticalGroups = [][]string{
	{dataset.ColumnEmployeeID, dataset.ColumnEmployeeName},
	{dataset.ColumnEmployeeID, dataset.ColumnDepartmentID, dataset.ColumnDepartmentName},
	{dataset.ColumnEmployeeID, dataset.ColumnProjectID, dataset.ColumnProjectName},
}
