// Package listing parses textual instruction listings into instructions.
//
// A listing contains one instruction per line in the form
//
//	OPCODE operand, operand, ...
//
// Operands are register names (x0, w1, sp), integer immediates (#16),
// floating point immediates (#1.5), nested instructions (<fixup_aarch64_movw>),
// the invalid operand (?) or symbolic expressions (loop+4, -1, :lo12:var).
// Comments start with ; or // and run to the end of the line.
package listing

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/retroenv/branchalign/internal/instruction"
	"github.com/retroenv/branchalign/internal/opcode"
)

// ErrSyntax is returned for malformed listing lines.
var ErrSyntax = errors.New("syntax error")

// Line is a parsed listing line that contains an instruction.
type Line struct {
	Number      int // 1 based line number in the listing
	Text        string
	Instruction instruction.Instruction
}

// Parse reads a listing and returns all lines that contain an instruction.
func Parse(reader io.Reader) ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(reader)

	for number := 1; scanner.Scan(); number++ {
		text := scanner.Text()
		inst, ok, err := ParseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", number, err)
		}
		if !ok {
			continue
		}

		lines = append(lines, Line{
			Number:      number,
			Text:        strings.TrimSpace(stripComment(text)),
			Instruction: inst,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}
	return lines, nil
}

// ParseLine parses a single listing line. It returns false if the line
// does not contain an instruction.
func ParseLine(text string) (instruction.Instruction, bool, error) {
	text = strings.TrimSpace(stripComment(text))
	if text == "" {
		return instruction.Instruction{}, false, nil
	}

	inst, err := parseInstruction(text)
	if err != nil {
		return instruction.Instruction{}, false, err
	}
	return inst, true, nil
}

func stripComment(text string) string {
	if i := strings.Index(text, ";"); i >= 0 {
		text = text[:i]
	}
	if i := strings.Index(text, "//"); i >= 0 {
		text = text[:i]
	}
	return text
}

func parseInstruction(text string) (instruction.Instruction, error) {
	mnemonic, rest, _ := strings.Cut(text, " ")
	if tab := strings.IndexByte(mnemonic, '\t'); tab >= 0 {
		rest = mnemonic[tab+1:] + " " + rest
		mnemonic = mnemonic[:tab]
	}

	op, err := opcode.Parse(mnemonic)
	if err != nil {
		return instruction.Instruction{}, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return instruction.New(op), nil
	}

	fields, err := splitOperands(rest)
	if err != nil {
		return instruction.Instruction{}, err
	}

	operands := make([]instruction.Operand, 0, len(fields))
	for _, field := range fields {
		operand, err := parseOperand(field)
		if err != nil {
			return instruction.Instruction{}, err
		}
		operands = append(operands, operand)
	}
	return instruction.New(op, operands...), nil
}

// splitOperands splits the operand list at commas that are not part
// of a nested instruction.
func splitOperands(text string) ([]string, error) {
	var fields []string
	depth := 0
	start := 0

	for i := range len(text) {
		switch text[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced '>' in '%s'", ErrSyntax, text)
			}
		case ',':
			if depth == 0 {
				fields = append(fields, text[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced '<' in '%s'", ErrSyntax, text)
	}
	return append(fields, text[start:]), nil
}

func parseOperand(text string) (instruction.Operand, error) {
	text = strings.TrimSpace(text)

	switch {
	case text == "":
		return instruction.Operand{}, fmt.Errorf("%w: empty operand", ErrSyntax)

	case text == "?":
		return instruction.Operand{}, nil

	case strings.HasPrefix(text, "<"):
		if !strings.HasSuffix(text, ">") {
			return instruction.Operand{}, fmt.Errorf("%w: nested instruction '%s' is not terminated", ErrSyntax, text)
		}
		inner := strings.TrimSpace(text[1 : len(text)-1])
		if inner == "" {
			return instruction.Operand{}, fmt.Errorf("%w: empty nested instruction", ErrSyntax)
		}
		nested, err := parseInstruction(inner)
		if err != nil {
			return instruction.Operand{}, err
		}
		return instruction.InstOperand(&nested), nil

	case strings.HasPrefix(text, "#"):
		return parseImmediate(text[1:])

	case instruction.IsRegisterName(text):
		reg, _ := instruction.ParseRegister(text)
		return instruction.RegOperand(reg), nil

	default:
		expr, err := parseExpr(text)
		if err != nil {
			return instruction.Operand{}, err
		}
		return instruction.ExprOperand(expr), nil
	}
}

func parseImmediate(text string) (instruction.Operand, error) {
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return instruction.ImmOperand(i), nil
	}
	if !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "-0x") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return instruction.FPImmOperand(f), nil
		}
	}
	return instruction.Operand{}, fmt.Errorf("%w: invalid immediate '#%s'", ErrSyntax, text)
}
