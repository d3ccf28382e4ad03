// Package opcode contains the closed AArch64 opcode enumeration used by the
// alignment heuristics, including the relocation fixup placeholders that can
// appear in instructions before fixups are resolved.
package opcode

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknown is returned when an opcode name can not be found.
var ErrUnknown = errors.New("unknown opcode")

// Opcode identifies the operation of an instruction.
// The zero value is Invalid.
type Opcode uint16

// Control flow, compare and system opcodes.
const (
	Invalid Opcode = iota
	B
	Bcc
	BR
	BRAA
	BRAAZ
	BRAB
	BRABZ
	BL
	BLR
	BLRAA
	BLRAAZ
	BLRAB
	BLRABZ
	CBZW
	CBZX
	CBNZW
	CBNZX
	CCMPWr
	CCMPXr
	CCMPWi
	CCMPXi
	GFCMP
	GICMP
	TBZW
	TBZX
	TBNZW
	TBNZX
	RET
	RETAA
	RETAB
	SVC
	HVC
	BRK
	ERET
	NOP
	ADRP
	ADR

	// data processing and memory access
	ADD
	SUB
	AND
	ORR
	CMP
	MOV
	MOVZ
	MOVK
	FMOV
	LDR
	STR
	LDP
	STP

	// relocation fixup placeholders
	FixupAddImm12
	FixupLdrPCRelImm19
	FixupLdStImm12Scale1
	FixupLdStImm12Scale2
	FixupLdStImm12Scale4
	FixupLdStImm12Scale8
	FixupLdStImm12Scale16
	FixupMovW
	FixupPCRelAdrImm21
	FixupPCRelAdrpImm21
	FixupPCRelBranch14
	FixupPCRelBranch19
	FixupPCRelBranch26
	FixupPCRelCall26
	FixupTLSDescCall

	count
)

// Valid returns whether the opcode is a member of the enumeration.
func (o Opcode) Valid() bool {
	return o > Invalid && o < count
}

// Name returns the label of the opcode or an empty string for
// values outside of the enumeration.
func (o Opcode) Name() string {
	if !o.Valid() {
		return ""
	}
	return names[o]
}

// String implements fmt.Stringer.
func (o Opcode) String() string {
	if !o.Valid() {
		return "<unknown>"
	}
	return names[o]
}

// DebugName returns the target qualified name, for example AArch64::B.
func (o Opcode) DebugName() string {
	if !o.Valid() {
		return "<unknown>"
	}
	return "AArch64::" + names[o]
}

// Parse returns the opcode for the given label. The lookup ignores case.
func Parse(name string) (Opcode, error) {
	op, ok := byName[strings.ToLower(name)]
	if !ok {
		return Invalid, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return op, nil
}

// All returns all valid opcodes in enumeration order.
func All() []Opcode {
	ops := make([]Opcode, 0, count-1)
	for op := Invalid + 1; op < count; op++ {
		ops = append(ops, op)
	}
	return ops
}
