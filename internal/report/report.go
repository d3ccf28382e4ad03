// Package report renders alignment decisions as a table.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/retroenv/branchalign/internal/align"
	"github.com/retroenv/branchalign/internal/instruction"
)

// Entry is a single analyzed instruction.
type Entry struct {
	Location    string // line number or code offset
	Text        string // source text, the instruction string is used if empty
	Instruction instruction.Instruction
	Decision    align.Decision
}

// Summary contains the totals of a report.
type Summary struct {
	Instructions int
	Sensitive    int
	Paddable     int

	// SensitiveBlocked counts alignment sensitive instructions that can not be padded.
	SensitiveBlocked int
}

// Options of the report.
type Options struct {
	CPU     string
	Verbose bool // add a column with the first operand that prevents padding
}

// Summarize returns the totals for the entries.
func Summarize(entries []Entry) Summary {
	summary := Summary{Instructions: len(entries)}
	for _, entry := range entries {
		if entry.Decision.MaxNoOps > 0 {
			summary.Paddable++
		}
		if entry.Decision.Sensitive {
			summary.Sensitive++
			if entry.Decision.MaxNoOps == 0 {
				summary.SensitiveBlocked++
			}
		}
	}
	return summary
}

// Write renders the entries as a table followed by the summary.
func Write(writer io.Writer, entries []Entry, options Options) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("cpu: %s", options.CPU))

	header := table.Row{"location", "instruction", "sensitive", "max nops"}
	if options.Verbose {
		header = append(header, "reason")
	}
	t.AppendHeader(header)

	for _, entry := range entries {
		text := entry.Text
		if text == "" {
			text = entry.Instruction.String()
		}

		row := table.Row{
			entry.Location,
			text,
			yesNo(entry.Decision.Sensitive),
			strconv.Itoa(entry.Decision.MaxNoOps),
		}
		if options.Verbose {
			row = append(row, reason(entry.Decision))
		}
		t.AppendRow(row)
	}

	summary := Summarize(entries)
	t.AppendFooter(table.Row{
		"total",
		strconv.Itoa(summary.Instructions),
		strconv.Itoa(summary.Sensitive),
		strconv.Itoa(summary.Paddable),
	})

	if _, err := fmt.Fprintln(writer, t.Render()); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// reason returns the first reason that prevents padding.
func reason(decision align.Decision) string {
	if decision.MaxNoOps > 0 {
		return ""
	}
	if decision.Vetoed {
		return "opcode is never padded"
	}
	for _, verdict := range decision.Verdicts {
		if !verdict.Safe {
			return fmt.Sprintf("operand %d: %s", verdict.Index, verdict.Reason)
		}
	}
	return ""
}
