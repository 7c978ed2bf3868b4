// Package engine runs the database optimization benchmark: it populates the employees
// table, applies every technique in a fixed order and reports how long each one took.
package engine

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/acronis/perfkit/dbopt-bench/benchmark"
	"github.com/acronis/perfkit/dbopt-bench/logger"
)

// Version is a version of the dbopt-bench
var Version = "1-main-dev"

var header = strings.Repeat("=", 100) + "\n"

// app keeps what the benchmark hooks share
type app struct {
	b         *benchmark.Benchmark
	opts      *BenchOpts
	runner    *Runner
	storePath string
}

// newApp wires the benchmark hooks, the report goes to out and diagnostics to errOut
func newApp(out io.Writer, errOut io.Writer) *app {
	var a = &app{b: benchmark.NewBenchmark()}
	var b = a.b

	b.Out = out
	b.Err = errOut
	b.Cli.SetApplicationName("dbopt-bench")
	b.SetUsage("[OPTIONS]")

	b.AddOpts = func() benchmark.TestOpts {
		a.opts = &BenchOpts{}
		return a.opts
	}

	b.Init = a.init
	b.Main = a.main
	b.Finish = a.finish
	b.PreExit = a.preExit

	return a
}

func (a *app) init() error {
	var b = a.b

	if a.opts.List {
		return nil
	}

	if err := a.opts.Validate(); err != nil {
		return err
	}

	b.Logger.Info("dbopt-bench version v%s", Version)

	a.storePath = a.opts.DBPath
	if a.storePath == "" {
		a.storePath = newStorePath(os.TempDir())
	}

	var stepLogger = logger.NewStepLoggerTo(b.Err, b.Logger.GetLevel(), false, -1)

	dbo, err := openStore(a.opts, a.storePath, stepLogger)
	if err != nil {
		_ = removeStore(a.storePath)
		return err
	}
	b.Logger.Debug("backing store: %s", a.storePath)

	a.runner = NewRunner(dbo, a.opts, b.Randomizer.Main(), NewReporter(b.Out, b.Scores), stepLogger, a.storePath)

	return nil
}

func (a *app) main() error {
	if a.opts.List {
		listSteps(a.b.Out)
		return nil
	}

	return a.runner.Run()
}

func (a *app) finish() error {
	if a.runner == nil {
		return nil
	}

	if !a.b.CommonOpts.Quiet {
		if err := a.runner.reporter.Summary(); err != nil {
			return err
		}
	}

	return a.runner.Close()
}

// preExit releases the backing store, also when the run failed
func (a *app) preExit() {
	if a.runner == nil {
		return
	}

	if err := a.runner.Close(); err != nil {
		a.b.Logger.Error("%v", err)
	}
}

func listSteps(out io.Writer) {
	_, _ = fmt.Fprint(out, header)
	for _, s := range GetSteps() {
		var optional = ""
		if s.Enabled != nil {
			optional = " [opt-in]"
		}
		_, _ = fmt.Fprintf(out, "  %-24s : %s%s\n", s.Name, s.Description, optional)
	}
	_, _ = fmt.Fprint(out, header)
}

// Main is the main function of the dbopt-bench
func Main() {
	newApp(os.Stdout, os.Stderr).b.Run()
}
