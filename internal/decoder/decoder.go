// Package decoder lowers raw AArch64 machine code into instructions that the
// alignment heuristics can inspect.
//
// arm64asm does not know the pointer authenticated branches, their fixed
// encodings are matched before the word is passed to it.
package decoder

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/retroenv/branchalign/internal/instruction"
	"github.com/retroenv/branchalign/internal/opcode"
	"golang.org/x/arch/arm64/arm64asm"
)

// instructionSize is the size of an AArch64 instruction in bytes.
const instructionSize = 4

// ErrTruncated is returned when the code does not end on an instruction boundary.
var ErrTruncated = errors.New("code is not a multiple of the instruction size")

// Decoded is a decoded machine code instruction.
type Decoded struct {
	Offset      int
	Word        uint32
	Text        string // disassembly of the word
	Instruction instruction.Instruction
}

// simpleOpcodes maps mnemonics that do not need operand inspection to select the opcode.
var simpleOpcodes = map[arm64asm.Op]opcode.Opcode{
	arm64asm.BL:   opcode.BL,
	arm64asm.BLR:  opcode.BLR,
	arm64asm.BR:   opcode.BR,
	arm64asm.RET:  opcode.RET,
	arm64asm.SVC:  opcode.SVC,
	arm64asm.HVC:  opcode.HVC,
	arm64asm.BRK:  opcode.BRK,
	arm64asm.ERET: opcode.ERET,
	arm64asm.NOP:  opcode.NOP,
	arm64asm.ADRP: opcode.ADRP,
	arm64asm.ADR:  opcode.ADR,
	arm64asm.ADD:  opcode.ADD,
	arm64asm.SUB:  opcode.SUB,
	arm64asm.AND:  opcode.AND,
	arm64asm.ORR:  opcode.ORR,
	arm64asm.CMP:  opcode.CMP,
	arm64asm.MOV:  opcode.MOV,
	arm64asm.MOVZ: opcode.MOVZ,
	arm64asm.MOVK: opcode.MOVK,
	arm64asm.FMOV: opcode.FMOV,
	arm64asm.LDR:  opcode.LDR,
	arm64asm.STR:  opcode.STR,
	arm64asm.LDP:  opcode.LDP,
	arm64asm.STP:  opcode.STP,
}

// Decode decodes little endian AArch64 machine code. Words that can not be
// decoded or that use a mnemonic without an opcode mapping are returned
// as instructions with the invalid opcode.
func Decode(code []byte) ([]Decoded, error) {
	if len(code)%instructionSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(code))
	}

	result := make([]Decoded, 0, len(code)/instructionSize)
	for offset := 0; offset < len(code); offset += instructionSize {
		word := code[offset : offset+instructionSize]
		result = append(result, DecodeWord(offset, binary.LittleEndian.Uint32(word)))
	}
	return result, nil
}

// DecodeWord decodes a single instruction word.
func DecodeWord(offset int, word uint32) Decoded {
	decoded := Decoded{
		Offset: offset,
		Word:   word,
	}

	if form, ok := matchPACBranch(word); ok {
		decoded.Text, decoded.Instruction = form.lower(word)
		return decoded
	}

	var buf [instructionSize]byte
	binary.LittleEndian.PutUint32(buf[:], word)
	inst, err := arm64asm.Decode(buf[:])
	if err != nil {
		decoded.Text = fmt.Sprintf(".word 0x%08x", word)
		decoded.Instruction = instruction.New(opcode.Invalid)
		return decoded
	}

	decoded.Text = inst.String()
	decoded.Instruction = Lower(inst)
	return decoded
}

// Lower converts a decoded arm64asm instruction to an instruction.
func Lower(inst arm64asm.Inst) instruction.Instruction {
	var operands []instruction.Operand
	for _, arg := range inst.Args {
		if arg == nil {
			break
		}
		operands = append(operands, lowerArg(arg)...)
	}
	return instruction.New(selectOpcode(inst), operands...)
}

func selectOpcode(inst arm64asm.Inst) opcode.Opcode {
	if op, ok := simpleOpcodes[inst.Op]; ok {
		return op
	}

	wide := is64BitRegister(inst.Args[0])
	switch inst.Op {
	case arm64asm.B:
		if _, ok := inst.Args[0].(arm64asm.Cond); ok {
			return opcode.Bcc
		}
		return opcode.B
	case arm64asm.CBZ:
		return pick(wide, opcode.CBZX, opcode.CBZW)
	case arm64asm.CBNZ:
		return pick(wide, opcode.CBNZX, opcode.CBNZW)
	case arm64asm.TBZ:
		return pick(wide, opcode.TBZX, opcode.TBZW)
	case arm64asm.TBNZ:
		return pick(wide, opcode.TBNZX, opcode.TBNZW)
	case arm64asm.CCMP:
		if _, ok := inst.Args[1].(arm64asm.Reg); ok {
			return pick(wide, opcode.CCMPXr, opcode.CCMPWr)
		}
		return pick(wide, opcode.CCMPXi, opcode.CCMPWi)
	default:
		return opcode.Invalid
	}
}

func pick(wide bool, x, w opcode.Opcode) opcode.Opcode {
	if wide {
		return x
	}
	return w
}

func is64BitRegister(arg arm64asm.Arg) bool {
	reg, ok := arg.(arm64asm.Reg)
	return ok && reg >= arm64asm.X0 && reg <= arm64asm.XZR
}

// lowerArg converts an argument to operands. Memory arguments expand to
// their base and index registers and an offset immediate.
func lowerArg(arg arm64asm.Arg) []instruction.Operand {
	switch a := arg.(type) {
	case arm64asm.Reg:
		return []instruction.Operand{registerOperand(a.String())}
	case arm64asm.RegSP:
		return []instruction.Operand{registerOperand(a.String())}
	case arm64asm.Imm:
		return []instruction.Operand{instruction.ImmOperand(int64(a.Imm))}
	case arm64asm.Imm64:
		return []instruction.Operand{instruction.ImmOperand(int64(a.Imm))}
	case arm64asm.PCRel:
		return []instruction.Operand{instruction.ImmOperand(int64(a))}
	case arm64asm.Cond:
		return []instruction.Operand{instruction.ImmOperand(int64(a.Value))}
	case arm64asm.ImmShift:
		return []instruction.Operand{instruction.ImmOperand(shiftedImmediate(a.String()))}
	case arm64asm.Imm_fp:
		value, err := strconv.ParseFloat(strings.TrimPrefix(a.String(), "#"), 64)
		if err != nil {
			return []instruction.Operand{{}}
		}
		return []instruction.Operand{instruction.FPImmOperand(value)}
	case arm64asm.MemImmediate:
		return []instruction.Operand{registerOperand(a.Base.String()), memoryOffset(a)}
	case arm64asm.MemExtend:
		return []instruction.Operand{registerOperand(a.Base.String()), registerOperand(a.Index.String())}
	default:
		return []instruction.Operand{{}}
	}
}

// shiftedImmediate returns the value of an immediate in the "#0x1, LSL #12"
// form. MSL shifts in ones.
func shiftedImmediate(text string) int64 {
	immText, shiftText, shifted := strings.Cut(text, ", ")
	imm, err := strconv.ParseInt(strings.TrimPrefix(immText, "#"), 0, 64)
	if err != nil || !shifted {
		return imm
	}

	kind, amountText, _ := strings.Cut(shiftText, " #")
	amount, err := strconv.Atoi(amountText)
	if err != nil {
		return imm
	}
	imm <<= amount
	if kind == "MSL" {
		imm |= 1<<amount - 1
	}
	return imm
}

// memoryOffset returns the offset of a memory argument, which is an
// immediate or a post index register.
func memoryOffset(mem arm64asm.MemImmediate) instruction.Operand {
	text := mem.String()
	if mem.Mode == arm64asm.AddrPostReg {
		_, reg, _ := strings.Cut(text, "], ")
		return registerOperand(reg)
	}

	_, offset, found := strings.Cut(text, "#")
	if !found {
		return instruction.ImmOperand(0)
	}
	offset = strings.TrimSuffix(offset, "]!")
	offset = strings.TrimSuffix(offset, "]")
	value, err := strconv.ParseInt(offset, 10, 64)
	if err != nil {
		return instruction.Operand{}
	}
	return instruction.ImmOperand(value)
}

// registerOperand returns a register operand or the invalid operand
// for names that are not plain register names, like vector arrangements.
func registerOperand(name string) instruction.Operand {
	reg, err := instruction.ParseRegister(name)
	if err != nil {
		return instruction.Operand{}
	}
	return instruction.RegOperand(reg)
}
