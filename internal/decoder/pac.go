package decoder

import (
	"fmt"
	"strings"

	"github.com/retroenv/branchalign/internal/instruction"
	"github.com/retroenv/branchalign/internal/opcode"
)

// pacBranch is a fixed encoding of a pointer authenticated branch.
type pacBranch struct {
	mask      uint32
	value     uint32
	opcode    opcode.Opcode
	registers int // 0: none, 1: Rn, 2: Rn and the Rm modifier
}

const (
	maskNoRegister  = 0xffffffff
	maskRn          = 0xfffffc1f
	maskRnRm        = 0xfffffc00
	registerNumBits = 0x1f
)

var pacBranches = []pacBranch{
	{maskNoRegister, 0xd65f0bff, opcode.RETAA, 0},
	{maskNoRegister, 0xd65f0fff, opcode.RETAB, 0},
	{maskRn, 0xd61f081f, opcode.BRAAZ, 1},
	{maskRn, 0xd61f0c1f, opcode.BRABZ, 1},
	{maskRn, 0xd63f081f, opcode.BLRAAZ, 1},
	{maskRn, 0xd63f0c1f, opcode.BLRABZ, 1},
	{maskRnRm, 0xd71f0800, opcode.BRAA, 2},
	{maskRnRm, 0xd71f0c00, opcode.BRAB, 2},
	{maskRnRm, 0xd73f0800, opcode.BLRAA, 2},
	{maskRnRm, 0xd73f0c00, opcode.BLRAB, 2},
}

func matchPACBranch(word uint32) (pacBranch, bool) {
	for _, form := range pacBranches {
		if word&form.mask == form.value {
			return form, true
		}
	}
	return pacBranch{}, false
}

// lower returns the disassembly text and the instruction of the word.
func (b pacBranch) lower(word uint32) (string, instruction.Instruction) {
	var registers []string
	if b.registers > 0 {
		rn := int(word>>5) & registerNumBits
		registers = append(registers, registerName(rn, "xzr"))
	}
	if b.registers > 1 {
		rm := int(word) & registerNumBits
		registers = append(registers, registerName(rm, "sp"))
	}

	operands := make([]instruction.Operand, 0, len(registers))
	for _, reg := range registers {
		operands = append(operands, registerOperand(reg))
	}

	text := b.opcode.Name()
	if len(registers) > 0 {
		text += " " + strings.ToUpper(strings.Join(registers, ", "))
	}
	return text, instruction.New(b.opcode, operands...)
}

// registerName returns the name of a 64 bit register, number 31 is named by
// the instruction form.
func registerName(number int, name31 string) string {
	if number == registerNumBits {
		return name31
	}
	return fmt.Sprintf("x%d", number)
}
