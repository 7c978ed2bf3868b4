package benchmark

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/acronis/perfkit/dbopt-bench/logger"
)

// TestOpts represents all user specified flags
type TestOpts interface{}

// osExit is replaced in tests
var osExit = os.Exit

// Benchmark is used for running sequential benchmarks
// AddOpts is called before the command line is parsed and returns the benchmark specific options
// Init is called once after the options are parsed and should validate them and prepare resources
// Main runs the benchmark body
// Finish is called once after Main and should report results
// PreExit is always called right before the process exits, also on failure, and should release resources
type Benchmark struct {
	AddOpts func() TestOpts
	Init    func() error
	Main    func() error
	Finish  func() error
	PreExit func()

	CommonOpts      CommonOpts
	Cli             CLI
	TestOpts        TestOpts
	OptsInitialized bool
	Logger          logger.Logger

	// Out receives the benchmark report, Exit messages go to Err
	Out io.Writer
	Err io.Writer

	CliArgs []string

	Randomizer *Randomizer
	Scores     *Scores
}

// NewBenchmark creates a new Benchmark instance with default values
func NewBenchmark() *Benchmark {
	b := Benchmark{
		AddOpts: func() TestOpts {
			var testOpts TestOpts

			return &testOpts
		},
		Init: func() error {
			return nil
		},
		Main: func() error {
			return nil
		},
		Finish: func() error {
			return nil
		},
		PreExit: func() {
		},
		OptsInitialized: false,
		Out:             os.Stdout,
		Err:             os.Stderr,
		Scores:          NewScores(),
	}

	b.Logger = logger.NewPlaneLogger(logger.LevelWarn, false)
	b.Cli.Init(os.Args[0], &b.CommonOpts)

	return &b
}

// InitOpts parses args (without the program name), sets up the logger and the randomizer
func (b *Benchmark) InitOpts(args []string) error {
	if b.OptsInitialized {
		return nil
	}

	b.TestOpts = b.AddOpts()
	if b.TestOpts != nil {
		if err := b.Cli.AddFlagGroup("Benchmark options", "options of this benchmark", b.TestOpts); err != nil {
			return err
		}
	}

	values, err := b.Cli.Parse(args)
	if err != nil {
		return err
	}

	b.CliArgs = values
	b.OptsInitialized = true

	b.Logger = logger.NewPlaneLoggerTo(b.Err, logger.LevelFromVerbosity(len(b.CommonOpts.Verbose), b.CommonOpts.Quiet), false)
	b.Randomizer = NewRandomizer(b.CommonOpts.RandSeed, 1)

	return nil
}

// SetUsage sets usage information
func (b *Benchmark) SetUsage(usage string) {
	b.Cli.SetUsage(usage)
}

// Printf writes a report line to Out
func (b *Benchmark) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(b.Out, format, args...)
}

// Execute parses args and runs Init, Main and Finish, stopping at the first error
func (b *Benchmark) Execute(args []string) error {
	if err := b.InitOpts(args); err != nil {
		return err
	}

	b.Logger.Debug("benchmark initialization")
	if err := b.Init(); err != nil {
		return err
	}

	if err := b.Main(); err != nil {
		return err
	}

	return b.Finish()
}

// Run runs the benchmark with the process arguments and terminates the process through Exit
func (b *Benchmark) Run() {
	var err = b.Execute(os.Args[1:])
	switch {
	case err == nil, errors.Is(err, ErrHelp):
		b.Exit()
	default:
		b.Exit(err)
	}
}

// Exit calls os.Exit() and sets 127 exit code if there is a message (+ args) passed, otherwise just exit with 0 (successfull exit)
// An error can be passed instead of a format string.
func (b *Benchmark) Exit(fmtAndArgs ...interface{}) {
	if len(fmtAndArgs) == 0 {
		b.PreExit()
		osExit(0)
		return
	}

	var msg string
	switch first := fmtAndArgs[0].(type) {
	case error:
		msg = first.Error()
	case string:
		if len(fmtAndArgs) > 1 {
			msg = fmt.Sprintf(first, fmtAndArgs[1:]...)
		} else {
			msg = first
		}
	default:
		msg = "First argument must be a format string or an error."
	}

	_, _ = fmt.Fprintln(b.Err, msg)
	b.PreExit()
	osExit(127)
}
