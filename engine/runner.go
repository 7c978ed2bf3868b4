package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acronis/perfkit/dbopt-bench/benchmark"
	"github.com/acronis/perfkit/dbopt-bench/dataset"
	"github.com/acronis/perfkit/dbopt-bench/db"
	"github.com/acronis/perfkit/dbopt-bench/logger"
	cache "github.com/acronis/perfkit/dbopt-bench/results-cache"
	"github.com/acronis/perfkit/dbopt-bench/techniques"
)

// State is a state of the benchmark loop
type State int

// Benchmark loop states, a run goes Idle -> SchemaReady -> (Populated -> Measured -> Cleared)* -> Closed
const (
	Idle State = iota
	SchemaReady
	Populated
	Measured
	Cleared
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case SchemaReady:
		return "SchemaReady"
	case Populated:
		return "Populated"
	case Measured:
		return "Measured"
	case Cleared:
		return "Cleared"
	case Closed:
		return "Closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrIllegalTransition is returned when a loop operation is called out of order
var ErrIllegalTransition = errors.New("illegal state transition")

// transitions lists the states reachable from every state, Close is allowed in any state
var transitions = map[State][]State{
	Idle:        {SchemaReady},
	SchemaReady: {Populated},
	Populated:   {Measured},
	Measured:    {Cleared},
	Cleared:     {Populated},
}

// Runner drives the benchmark iterations against one backing store
type Runner struct {
	opts     *BenchOpts
	dbo      db.Database
	ctx      *db.Context
	session  db.Session
	rw       *benchmark.RandomizerWorker
	cache    *cache.ResultCache
	reporter *Reporter
	steps    []*StepDesc

	baseLogger logger.Logger
	logger     logger.Logger

	state     State
	iteration int
	storePath string // removed on Close when not empty
}

// NewRunner creates a runner in the Idle state. The result cache lives as long as the runner.
// storePath is the file removed on Close, empty keeps the store in place.
func NewRunner(dbo db.Database, opts *BenchOpts, rw *benchmark.RandomizerWorker, reporter *Reporter, l logger.Logger, storePath string) *Runner {
	var ctx = dbo.Context(context.Background())

	return &Runner{
		opts:       opts,
		dbo:        dbo,
		ctx:        ctx,
		session:    dbo.Session(ctx),
		rw:         rw,
		cache:      cache.NewResultCache(),
		reporter:   reporter,
		steps:      enabledSteps(opts),
		baseLogger: l,
		logger:     l,
		state:      Idle,
		storePath:  storePath,
	}
}

// iterationLogger binds the logger to an iteration if it supports that
func (r *Runner) iterationLogger(iteration int) logger.Logger {
	if sl, ok := r.baseLogger.(interface {
		ForIteration(iteration int) logger.Logger
	}); ok {
		return sl.ForIteration(iteration)
	}

	return r.baseLogger
}

// State returns the current state of the loop
func (r *Runner) State() State {
	return r.state
}

// Iteration returns the number of the current iteration, 0 before the first one
func (r *Runner) Iteration() int {
	return r.iteration
}

// Cache returns the result cache of the run
func (r *Runner) Cache() *cache.ResultCache {
	return r.cache
}

// check verifies that the operation leading to state to may run now
func (r *Runner) check(to State) error {
	if r.state == Closed {
		return fmt.Errorf("%w: runner is closed", ErrIllegalTransition)
	}

	for _, s := range transitions[r.state] {
		if s == to {
			return nil
		}
	}

	return fmt.Errorf("%w from %s to %s", ErrIllegalTransition, r.state, to)
}

func (r *Runner) transition(to State) {
	r.logger.Trace("state %s -> %s", r.state, to)
	r.state = to
}

// Setup creates the employees table
func (r *Runner) Setup() error {
	if err := r.check(SchemaReady); err != nil {
		return err
	}

	if err := dataset.EnsureSchema(r.session); err != nil {
		return err
	}

	r.transition(SchemaReady)

	return nil
}

// Populate starts the next iteration and fills the employees table
func (r *Runner) Populate() error {
	if err := r.check(Populated); err != nil {
		return err
	}

	r.iteration++
	r.logger = r.iterationLogger(r.iteration)
	r.reporter.Iteration(r.iteration)

	r.logger.Info("populating %d rows", r.opts.Rows)
	if err := dataset.Populate(r.session, r.opts.Rows, r.rw); err != nil {
		return err
	}

	r.transition(Populated)

	return nil
}

// Measure applies every enabled technique in order and reports its elapsed time
func (r *Runner) Measure() error {
	if err := r.check(Measured); err != nil {
		return err
	}

	for _, step := range r.steps {
		var start = time.Now()
		if err := step.Run(r, r.opts.Query); err != nil {
			return fmt.Errorf("%s: %w", step.Label, err)
		}
		r.reporter.Step(step.Label, time.Since(start))

		if r.opts.Explain {
			if err := r.session.Explain(step.effectiveQuery(r.opts.Query)); err != nil {
				return fmt.Errorf("%s: %w", step.Label, err)
			}
		}
	}

	r.logger.Debug("%s", r.ctx)

	r.transition(Measured)

	return nil
}

// Clear empties the employees table, partitions and indexes are dropped only when asked to
func (r *Runner) Clear() error {
	if err := r.check(Cleared); err != nil {
		return err
	}

	var table = dataset.EmployeesTable.TableName

	if r.opts.ResetIndexes {
		if err := techniques.DropIndex(r.dbo, table, techniques.CostBasedIndex); err != nil {
			return err
		}
	}

	if r.opts.RefreshPartitions {
		if err := techniques.DropHorizontalPartitions(r.dbo, table, partitionValues); err != nil {
			return err
		}

		if err := techniques.DropVerticalPartitions(r.dbo, table, len(verticalGroups)); err != nil {
			return err
		}
	}

	if err := dataset.Clear(r.session); err != nil {
		return err
	}

	r.transition(Cleared)

	return nil
}

// Run executes the configured number of iterations, the first failure aborts the run
func (r *Runner) Run() error {
	if err := r.Setup(); err != nil {
		return err
	}

	for i := 0; i < r.opts.Iterations; i++ {
		if err := r.Populate(); err != nil {
			return err
		}

		if err := r.Measure(); err != nil {
			return err
		}

		if err := r.Clear(); err != nil {
			return err
		}
	}

	return nil
}

// Close drops the result cache, closes the database and removes the backing store.
// It can be called in any state, closing twice is a no-op.
func (r *Runner) Close() error {
	if r.state == Closed {
		return nil
	}

	r.logger = r.iterationLogger(-1)
	r.logger.Debug("closing after %d iteration(s), %d cached result(s), %d cache hit(s)", r.iteration, r.cache.Len(), r.cache.Hits())

	r.transition(Closed)
	r.cache = nil

	var errs []error
	if err := r.dbo.Close(); err != nil {
		errs = append(errs, err)
	}

	if err := removeStore(r.storePath); err != nil {
		errs = append(errs, fmt.Errorf("cannot remove backing store: %w", err))
	}

	return errors.Join(errs...)
}
