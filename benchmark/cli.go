package benchmark

import (
	"errors"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// CommonOpts represents common flags for every benchmark
type CommonOpts struct {
	Verbose  []bool `short:"v" long:"verbose" description:"Show verbose debug information (-v - info, -vv - debug, -vvv - trace with SQL statements)"`
	Quiet    bool   `short:"Q" long:"quiet" description:"be quiet and print as less information as possible"`
	RandSeed int64  `short:"s" long:"randseed" description:"Seed used for random number generation, 0 picks a new seed every run" required:"false" default:"1"`
}

// ErrHelp is returned by Parse when the help message has been requested and printed
var ErrHelp = errors.New("help requested")

// CLI is a wrapper for go-flags library
type CLI struct {
	parser     *flags.Parser
	commonOpts *CommonOpts
}

// Init initializes CLI with given application name and commonOptsPointer.
func (cli *CLI) Init(applicationName string, commonOptsPointer *CommonOpts) {
	cli.parser = flags.NewNamedParser(applicationName, flags.HelpFlag|flags.PassDoubleDash)
	cli.commonOpts = commonOptsPointer
}

// SetApplicationName sets application name.
func (cli *CLI) SetApplicationName(name string) {
	cli.parser.Name = name
}

// AddFlagGroup adds flags in struct flagsPtr(should be pointer!) to given group.
func (cli *CLI) AddFlagGroup(groupName, groupDescription string, flagsPtr interface{}) error {
	if _, err := cli.parser.AddGroup(groupName, groupDescription, flagsPtr); err != nil {
		return fmt.Errorf("cannot add flag group '%s': %w", groupName, err)
	}

	return nil
}

// SetUsage sets usage.
func (cli *CLI) SetUsage(usage string) {
	cli.parser.Usage = usage
}

// SetDescription sets description.
func (cli *CLI) SetDescription(description string) {
	cli.parser.Usage = cli.parser.Usage + "\n" + description
}

// Parse parses args (without the program name) and returns the positional leftovers.
// A help request yields ErrHelp, any other problem a *ConfigurationError.
func (cli *CLI) Parse(args []string) ([]string, error) {
	if cli.parser.Group.Find("Common options") == nil {
		if _, err := cli.parser.AddGroup("Common options", "CommonOptions represents common flags for every benchmark", cli.commonOpts); err != nil {
			return nil, fmt.Errorf("cannot add common options: %w", err)
		}
	}

	values, err := cli.parser.ParseArgs(args)
	if err != nil {
		var flagsError *flags.Error
		if errors.As(err, &flagsError) && errors.Is(flagsError.Type, flags.ErrHelp) {
			fmt.Println(flagsError.Message)
			return nil, ErrHelp
		}

		return nil, &ConfigurationError{Reason: err.Error()}
	}

	if err = cli.checkCommonOpts(); err != nil {
		return nil, err
	}

	return values, nil
}

// checkCommonOpts checks common options.
func (cli *CLI) checkCommonOpts() error {
	if cli.commonOpts.Quiet && len(cli.commonOpts.Verbose) > 0 {
		return &ConfigurationError{Option: "quiet", Reason: fmt.Sprintf("cannot be combined with %d -v flag(s)", len(cli.commonOpts.Verbose))}
	}

	return nil
}
