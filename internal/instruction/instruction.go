// Package instruction contains fundamental types for AArch64 instructions and their operands
// as they are seen by the code emission stage, before all fixups are resolved.
package instruction

import (
	"strings"

	"github.com/retroenv/branchalign/internal/opcode"
)

// Instruction represents an opcode with an ordered list of operands.
// An instruction is not modified after creation.
type Instruction struct {
	opcode   opcode.Opcode
	operands []Operand
}

// New returns a new instruction. The operands slice is copied.
func New(op opcode.Opcode, operands ...Operand) Instruction {
	inst := Instruction{opcode: op}
	if len(operands) > 0 {
		inst.operands = make([]Operand, len(operands))
		copy(inst.operands, operands)
	}
	return inst
}

// Opcode returns the opcode of the instruction.
func (i Instruction) Opcode() opcode.Opcode {
	return i.opcode
}

// NumOperands returns the number of operands.
func (i Instruction) NumOperands() int {
	return len(i.operands)
}

// Operand returns the operand at the given index.
func (i Instruction) Operand(index int) Operand {
	return i.operands[index]
}

// Operands returns a copy of the operands.
func (i Instruction) Operands() []Operand {
	if len(i.operands) == 0 {
		return nil
	}
	operands := make([]Operand, len(i.operands))
	copy(operands, i.operands)
	return operands
}

// String returns the instruction in listing syntax.
func (i Instruction) String() string {
	if len(i.operands) == 0 {
		return i.opcode.String()
	}

	var sb strings.Builder
	sb.WriteString(i.opcode.String())
	sb.WriteByte(' ')
	for j, operand := range i.operands {
		if j > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(operand.String())
	}
	return sb.String()
}
