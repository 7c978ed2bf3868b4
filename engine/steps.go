package engine

import (
	"fmt"

	"github.com/acronis/perfkit/dbopt-bench/dataset"
	"github.com/acronis/perfkit/dbopt-bench/techniques"
)

// stepFunc applies a technique and runs the follow-up query, it is timed as a whole
type stepFunc func(r *Runner, query string) error

// StepDesc describes a measured benchmark step
type StepDesc struct {
	Name        string // name used by --list
	Label       string // label of the report line
	Description string

	// Enabled reports whether the step is part of the run, nil means always
	Enabled func(opts *BenchOpts) bool

	// Rewrite returns the query the step actually sends, used by --explain
	Rewrite func(query string) string

	Run stepFunc
}

func (s *StepDesc) isEnabled(opts *BenchOpts) bool {
	return s.Enabled == nil || s.Enabled(opts)
}

func (s *StepDesc) effectiveQuery(query string) string {
	if s.Rewrite == nil {
		return query
	}

	return s.Rewrite(query)
}

// fetchSample runs the sample query and materializes its result
func fetchSample(r *Runner, query string) error {
	rs, err := r.session.Fetch(query)
	if err != nil {
		return err
	}
	r.logger.Trace("sample query returned %d rows", rs.Len())

	return nil
}

var stepIndexing = StepDesc{
	Name:        "indexing",
	Label:       "Indexing",
	Description: "create the index on employee_name if absent, then run the sample query",
	Run: func(r *Runner, query string) error {
		if err := techniques.CreateIndex(r.dbo, dataset.EmployeesTable.TableName, techniques.CostBasedIndex, dataset.ColumnEmployeeName); err != nil {
			return err
		}

		return fetchSample(r, query)
	},
}

var stepNormalization2NF = StepDesc{
	Name:        "normalization-2nf",
	Label:       "Normalization to 2NF",
	Description: "extract departments into their own table, then run the sample query",
	Run: func(r *Runner, query string) error {
		if err := techniques.NormalizeTo2NF(r.session); err != nil {
			return err
		}

		return fetchSample(r, query)
	},
}

var stepNormalization3NF = StepDesc{
	Name:        "normalization-3nf",
	Label:       "Normalization to 3NF",
	Description: "extract projects into their own table, then run the sample query (--third-normal-form)",
	Enabled:     func(opts *BenchOpts) bool { return opts.ThirdNormalForm },
	Run: func(r *Runner, query string) error {
		if err := techniques.NormalizeTo3NF(r.session); err != nil {
			return err
		}

		return fetchSample(r, query)
	},
}

var stepHorizontalPartitioning = StepDesc{
	Name:        "horizontal-partitioning",
	Label:       "Horizontal Partitioning",
	Description: fmt.Sprintf("snapshot employees into one table per department id %v, then run the sample query", partitionValues),
	Run: func(r *Runner, query string) error {
		if err := techniques.HorizontalPartition(r.session, dataset.EmployeesTable.TableName, dataset.ColumnDepartmentID, partitionValues); err != nil {
			return err
		}

		return fetchSample(r, query)
	},
}

var stepVerticalPartitioning = StepDesc{
	Name:        "vertical-partitioning",
	Label:       "Vertical Partitioning",
	Description: "snapshot employee, department and project columns into separate tables, then run the sample query (--vertical-partitioning)",
	Enabled:     func(opts *BenchOpts) bool { return opts.VerticalPartitioning },
	Run: func(r *Runner, query string) error {
		if err := techniques.VerticalPartition(r.session, dataset.EmployeesTable.TableName, verticalGroups); err != nil {
			return err
		}

		return fetchSample(r, query)
	},
}

var stepCaching = StepDesc{
	Name:        "caching",
	Label:       "Caching",
	Description: "run the sample query only if its result is not cached yet",
	Run: func(r *Runner, query string) error {
		if _, ok := r.cache.Get(query); ok {
			r.logger.Trace("cache hit")
			return nil
		}

		rs, err := r.session.Fetch(query)
		if err != nil {
			return err
		}
		r.cache.Put(query, rs)

		return nil
	},
}

var stepCostBased = StepDesc{
	Name:        "cost-based",
	Label:       "Cost-based Query Optimization",
	Description: "create the supporting index on employee_name, then run the sample query",
	Run: func(r *Runner, query string) error {
		_, err := techniques.CostBased(r.dbo, r.session, query)
		return err
	},
}

var stepHeuristic = StepDesc{
	Name:        "heuristic",
	Label:       "Heuristic Query Optimization",
	Description: "replace the star projection of the sample query by an explicit column list and run it",
	Rewrite:     techniques.HeuristicRewrite,
	Run: func(r *Runner, query string) error {
		_, err := techniques.Heuristic(r.session, query)
		return err
	},
}

// allSteps is the fixed order in which the techniques are measured
var allSteps = []*StepDesc{
	&stepIndexing,
	&stepNormalization2NF,
	&stepNormalization3NF,
	&stepHorizontalPartitioning,
	&stepVerticalPartitioning,
	&stepCaching,
	&stepCostBased,
	&stepHeuristic,
}

// GetSteps returns the steps in measurement order
func GetSteps() []*StepDesc {
	return allSteps
}

// enabledSteps returns the steps selected by opts, order is kept
func enabledSteps(opts *BenchOpts) []*StepDesc {
	var steps []*StepDesc
	for _, s := range allSteps {
		if s.isEnabled(opts) {
			steps = append(steps, s)
		}
	}

	return steps
}
