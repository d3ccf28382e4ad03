// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/retroenv/branchalign/internal/align"
	"github.com/retroenv/branchalign/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || (len(args) == 0 && opts.Input == "" && opts.Batch == "") {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	if opts.Batch == "" && len(args) > 0 {
		opts.Input = args[0]
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: branchalign [options] <file to analyze>\n\n")
	if e.flags != nil {
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to analyze, please pass the file to analyze as last argument", arg),
			}
		}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.CPU = strings.TrimSpace(opts.CPU)
	if opts.CPU == "" {
		return fmt.Errorf("missing CPU name, for example %s", align.SupportedCPU)
	}
	if opts.Debug && opts.Quiet {
		return &UsageError{msg: "the debug and quiet options can not be combined"}
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input listing or machine code file")
	flags.StringVar(&opts.Output, "o", "", "name of the output report file, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "process a batch of given path and file mask and automatically .txt report file naming, for example *.s")
	flags.StringVar(&opts.CPU, "cpu", align.SupportedCPU, "CPU name to analyze the alignment for")
	flags.BoolVar(&opts.Binary, "binary", false, "read input file as raw little endian AArch64 machine code")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.Verbose, "v", false, "show the operand that prevents padding of an instruction")
}
