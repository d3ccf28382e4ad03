// Package align decides which AArch64 instructions benefit from special
// alignment on the ThunderX2T99 and how many NOP instructions can be placed
// before an instruction without changing the program semantics.
package align

import (
	"github.com/retroenv/branchalign/internal/opcode"
	"github.com/retroenv/retrogolib/set"
)

// SupportedCPU is the only CPU name that has alignment sensitive instructions.
const SupportedCPU = "thunderx2t99"

// alignmentSensitive contains the branch, compare, test, return and
// supervisor call opcodes that should not straddle a fetch boundary.
var alignmentSensitive = newOpcodeSet(
	opcode.B, opcode.Bcc,
	opcode.BR, opcode.BRAA, opcode.BRAAZ, opcode.BRAB, opcode.BRABZ,
	opcode.BL, opcode.BLR, opcode.BLRAA, opcode.BLRAAZ, opcode.BLRAB, opcode.BLRABZ,
	opcode.CBZW, opcode.CBZX, opcode.CBNZW, opcode.CBNZX,
	opcode.CCMPWr, opcode.CCMPXr,
	opcode.GFCMP, opcode.GICMP,
	opcode.TBZW, opcode.TBZX, opcode.TBNZW, opcode.TBNZX,
	opcode.RET, opcode.RETAA, opcode.RETAB,
	opcode.SVC,
)

// fixups contains the relocation placeholders whose final encoding is unknown.
var fixups = newOpcodeSet(
	opcode.FixupAddImm12,
	opcode.FixupLdrPCRelImm19,
	opcode.FixupLdStImm12Scale1,
	opcode.FixupLdStImm12Scale2,
	opcode.FixupLdStImm12Scale4,
	opcode.FixupLdStImm12Scale8,
	opcode.FixupLdStImm12Scale16,
	opcode.FixupMovW,
	opcode.FixupPCRelAdrImm21,
	opcode.FixupPCRelAdrpImm21,
	opcode.FixupPCRelBranch14,
	opcode.FixupPCRelBranch19,
	opcode.FixupPCRelBranch26,
	opcode.FixupPCRelCall26,
	opcode.FixupTLSDescCall,
)

// branchTargets contains the opcodes whose immediate or register operand
// is the target of a direct or indirect jump.
var branchTargets = newOpcodeSet(
	opcode.B, opcode.Bcc,
	opcode.BL, opcode.BLR, opcode.BR,
	opcode.BLRAA, opcode.BLRAAZ, opcode.BLRAB, opcode.BLRABZ,
)

func newOpcodeSet(ops ...opcode.Opcode) set.Set[opcode.Opcode] {
	s := set.New[opcode.Opcode]()
	for _, op := range ops {
		s.Add(op)
	}
	return s
}

// NeedsSpecialAlignment returns whether the opcode benefits from special
// alignment on the given CPU. The CPU name match is case sensitive.
func NeedsSpecialAlignment(cpu string, op opcode.Opcode) bool {
	if cpu != SupportedCPU {
		return false
	}
	return alignmentSensitive.Contains(op)
}

// SensitiveOpcodes returns the alignment sensitive opcodes of the supported CPU
// in enumeration order.
func SensitiveOpcodes() []opcode.Opcode {
	var ops []opcode.Opcode
	for _, op := range opcode.All() {
		if alignmentSensitive.Contains(op) {
			ops = append(ops, op)
		}
	}
	return ops
}

func isFixup(op opcode.Opcode) bool {
	return fixups.Contains(op)
}

// isBranchTarget returns whether an immediate or register operand of the
// opcode denotes a jump target.
func isBranchTarget(op opcode.Opcode) bool {
	return branchTargets.Contains(op)
}
