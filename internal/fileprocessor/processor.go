// Package fileprocessor handles file loading and processing operations
package fileprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/retroenv/branchalign/internal/config"
	"github.com/retroenv/branchalign/internal/decoder"
	"github.com/retroenv/branchalign/internal/listing"
	"github.com/retroenv/branchalign/internal/options"
	"github.com/retroenv/branchalign/internal/report"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

const (
	reportExtension = ".txt"
	reportSuffix    = ".align" + reportExtension
)

// ErrOutputIsInput is returned when the report would overwrite the input file.
var ErrOutputIsInput = errors.New("output file is the input file")

// ProcessFile handles the complete file processing workflow
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	if opts.Output != "" && filepath.Clean(opts.Output) == filepath.Clean(opts.Input) {
		return fmt.Errorf("%w: %s", ErrOutputIsInput, opts.Input)
	}

	entries, err := loadEntries(opts)
	if err != nil {
		return fmt.Errorf("loading input: %w", err)
	}

	aligner := config.CreateAligner(logger, opts.CPU)
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("analyzing: %w", err)
		}
		entries[i].Decision = aligner.Analyze(entries[i].Instruction)
	}

	writer, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer func() {
		if closer, ok := writer.(io.Closer); ok && writer != os.Stdout {
			_ = closer.Close()
		}
	}()

	reportOptions := report.Options{
		CPU:     opts.CPU,
		Verbose: opts.Verbose,
	}
	if err := report.Write(writer, entries, reportOptions); err != nil {
		return err
	}

	summary := report.Summarize(entries)
	logger.Info("Analysis complete",
		log.String("file", opts.Input),
		log.Int("instructions", summary.Instructions),
		log.Int("sensitive", summary.Sensitive),
		log.Int("paddable", summary.Paddable))
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename generates output filename for a given input file.
// Inputs that already use the report extension get a distinct suffix.
func GenerateOutputFilename(inputFile string) string {
	ext := filepath.Ext(inputFile)
	base := inputFile[:len(inputFile)-len(ext)]
	if ext == reportExtension {
		return base + reportSuffix
	}
	return base + reportExtension
}

func loadEntries(opts options.Program) ([]report.Entry, error) {
	file, err := os.Open(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", opts.Input, err)
	}
	defer func() { _ = file.Close() }()

	if opts.Binary {
		return loadMachineCode(file)
	}
	return loadListing(file)
}

func loadListing(reader io.Reader) ([]report.Entry, error) {
	lines, err := listing.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing listing: %w", err)
	}

	entries := make([]report.Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, report.Entry{
			Location:    strconv.Itoa(line.Number),
			Text:        line.Text,
			Instruction: line.Instruction,
		})
	}
	return entries, nil
}

func loadMachineCode(reader io.Reader) ([]report.Entry, error) {
	code, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading machine code: %w", err)
	}

	decoded, err := decoder.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("decoding machine code: %w", err)
	}

	entries := make([]report.Entry, 0, len(decoded))
	for _, d := range decoded {
		entries = append(entries, report.Entry{
			Location:    fmt.Sprintf("0x%04x", d.Offset),
			Text:        d.Text,
			Instruction: d.Instruction,
		})
	}
	return entries, nil
}

func createWriter(opts options.Program) (io.Writer, error) {
	if opts.Output == "" {
		return os.Stdout, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, fmt.Errorf("creating output file %s: %w", opts.Output, err)
	}
	return file, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}

	if len(commit) > 7 {
		commit = commit[:7]
	}
	logger.Info("branchalign", log.String("version", buildinfo.Version(version, commit, "")))

	if date != "" && !strings.Contains(date, "unknown") {
		logger.Info("Build", log.String("date", date))
	}
}
