// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input  string `flag:"i" usage:"input listing or machine code file"`
	Output string `flag:"o" usage:"output report file (default: stdout)"`
	Batch  string `flag:"batch" usage:"batch process files matching pattern (e.g. *.s)"`
}

// Flags contains behavior options.
type Flags struct {
	CPU     string `flag:"cpu" usage:"CPU name to analyze for" default:"thunderx2t99"`
	Binary  bool   `flag:"binary" usage:"treat input as raw little endian AArch64 machine code"`
	Debug   bool   `flag:"debug" usage:"enable debug logging"`
	Quiet   bool   `flag:"q" usage:"quiet mode"`
	Verbose bool   `flag:"v" usage:"show the reason that prevents padding"`
}

// Program options of the analyzer.
type Program struct {
	Parameters
	Flags
}
