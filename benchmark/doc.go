// Package benchmark is a library to create sequential benchmarks.
//
// It includes a CLI wrapper for go-flags library, common options for every benchmark,
// the benchmark life cycle with its exit handling, seeded random generators and score collection.
//
// The CLI wrapper provides functionalities to initialize the CLI with the application name and common options,
// set the application name, add flag groups, set usage, set description, and parse the CLI arguments.
//
// Example:
//
//	cli := &CLI{}
//	cli.Init("My Application", &CommonOpts{})
//	cli.SetApplicationName("New Application Name")
//	cli.AddFlagGroup("Group Name", "Group Description", &MyOpts{})
//	cli.SetUsage("Usage Information")
//	args, err := cli.Parse(os.Args[1:])
//
// The common options include verbose, quiet, and randseed.
//
// Example:
//
//	commonOpts := &CommonOpts{
//	    Verbose:  []bool{true, true},
//	    Quiet:    false,
//	    RandSeed: 123456789,
//	}
//
// A benchmark is driven through its hooks:
//
//	b := benchmark.NewBenchmark()
//	b.AddOpts = func() benchmark.TestOpts { return &myOpts }
//	b.Init = func() error { return validate(myOpts) }
//	b.Main = func() error { return runIterations(b) }
//	b.PreExit = func() { cleanup() }
//	b.Run()
//
// Scores collect per metric samples and print an avg/min/max/geomean summary:
//
//	b.Scores.Add("Indexing", 0.0123)
//	b.Scores.Print(os.Stdout, "sec")
package benchmark
