package align

import (
	"testing"

	"github.com/retroenv/branchalign/internal/instruction"
	"github.com/retroenv/branchalign/internal/opcode"
	"github.com/retroenv/retrogolib/assert"
)

func TestLoopIndexForNoOps(t *testing.T) {
	fixup := instruction.New(opcode.FixupPCRelBranch26)
	plain := instruction.New(opcode.MOVZ, instruction.RegOperand("x1"), instruction.ImmOperand(1))

	tests := []struct {
		name     string
		inst     instruction.Instruction
		expected int
	}{
		{"fixup without operands", instruction.New(opcode.FixupAddImm12), 0},
		{"fixup with safe operands", instruction.New(opcode.FixupMovW, instruction.ExprOperand(instruction.Const(1))), 0},
		{"nop", instruction.New(opcode.NOP), 0},
		{"adrp", instruction.New(opcode.ADRP, instruction.RegOperand("x0"), instruction.ImmOperand(4096)), 0},
		{"invalid opcode", instruction.New(opcode.Invalid), 0},
		{"out of range opcode", instruction.New(opcode.Opcode(0xffff)), 0},

		{"ret", instruction.New(opcode.RET), MaxNoOps},
		{"svc without operands", instruction.New(opcode.SVC), MaxNoOps},
		{"bl without operands", instruction.New(opcode.BL), MaxNoOps},

		{"branch with immediate", instruction.New(opcode.B, instruction.ImmOperand(16)), 0},
		{"conditional branch with immediate", instruction.New(opcode.Bcc, instruction.ImmOperand(0), instruction.ImmOperand(8)), 0},
		{"branch register", instruction.New(opcode.BR, instruction.RegOperand("x16")), 0},
		{"branch and link register", instruction.New(opcode.BLR, instruction.RegOperand("x8")), 0},
		{"authenticated branch and link register", instruction.New(opcode.BLRAAZ, instruction.RegOperand("x8")), 0},
		{"authenticated branch register", instruction.New(opcode.BRAA, instruction.RegOperand("x8"), instruction.RegOperand("x9")), MaxNoOps},

		{"branch with constant expression", instruction.New(opcode.B, instruction.ExprOperand(instruction.Const(8))), MaxNoOps},
		{"branch with binary expression", instruction.New(opcode.B, instruction.ExprOperand(instruction.Binary("+", instruction.Sym("loop"), instruction.Const(4)))), MaxNoOps},
		{"branch with symbol", instruction.New(opcode.B, instruction.ExprOperand(instruction.Sym("loop"))), 0},
		{"add with target expression", instruction.New(opcode.ADD, instruction.RegOperand("x0"), instruction.RegOperand("x0"), instruction.ExprOperand(instruction.Target("lo12", instruction.Sym("v")))), 0},
		{"nil expression", instruction.New(opcode.ADD, instruction.ExprOperand(nil)), 0},
		{"constant expression", instruction.New(opcode.MOVZ, instruction.ExprOperand(instruction.Const(42))), MaxNoOps},
		{"unary expression", instruction.New(opcode.MOVZ, instruction.RegOperand("x0"), instruction.ExprOperand(instruction.Unary("-", instruction.Sym("s")))), MaxNoOps},

		{"compare and branch with register and immediate", instruction.New(opcode.CBZX, instruction.RegOperand("x0"), instruction.ImmOperand(12)), MaxNoOps},
		{"register compare", instruction.New(opcode.CCMPXr, instruction.RegOperand("x0"), instruction.RegOperand("x1"), instruction.ImmOperand(0), instruction.ImmOperand(1)), MaxNoOps},

		{"nested fixup", instruction.New(opcode.BL, instruction.InstOperand(&fixup)), 0},
		{"nested plain instruction", instruction.New(opcode.BL, instruction.InstOperand(&plain)), MaxNoOps},
		{"nested nil instruction", instruction.New(opcode.ADD, instruction.InstOperand(nil)), MaxNoOps},

		{"fp immediate", instruction.New(opcode.FMOV, instruction.RegOperand("d0"), instruction.FPImmOperand(1.5)), 0},
		{"fp immediate after safe operands", instruction.New(opcode.ADD, instruction.RegOperand("x0"), instruction.ImmOperand(1), instruction.FPImmOperand(0)), 0},
		{"invalid operand", instruction.New(opcode.ADD, instruction.RegOperand("x0"), instruction.Operand{}), 0},
		{"all safe", instruction.New(opcode.ADD, instruction.RegOperand("x0"), instruction.RegOperand("x1"), instruction.ImmOperand(4)), MaxNoOps},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LoopIndexForNoOps(tt.inst))
			// repeated calls are stable
			assert.Equal(t, tt.expected, LoopIndexForNoOps(tt.inst))
		})
	}
}

func TestLoopIndexForNoOps_VetoIgnoresOperands(t *testing.T) {
	operands := []instruction.Operand{
		instruction.ExprOperand(instruction.Const(1)),
		instruction.RegOperand("x0"),
		instruction.ImmOperand(3),
	}

	for _, op := range opcode.All() {
		if !isFixup(op) && op != opcode.NOP && op != opcode.ADRP {
			continue
		}
		assert.Equal(t, 0, LoopIndexForNoOps(instruction.New(op)), "opcode %s", op.Name())
		assert.Equal(t, 0, LoopIndexForNoOps(instruction.New(op, operands...)), "opcode %s", op.Name())
	}
}

func TestLoopIndexForNoOps_ZeroOperands(t *testing.T) {
	for _, op := range opcode.All() {
		expected := MaxNoOps
		if Vetoed(op) {
			expected = 0
		}
		assert.Equal(t, expected, LoopIndexForNoOps(instruction.New(op)), "opcode %s", op.Name())
	}
}

func TestLoopIndexForNoOps_FPImmediateAlwaysUnsafe(t *testing.T) {
	for _, op := range opcode.All() {
		inst := instruction.New(op, instruction.ExprOperand(instruction.Const(0)), instruction.FPImmOperand(0.5))
		assert.Equal(t, 0, LoopIndexForNoOps(inst), "opcode %s", op.Name())
	}
}

func TestLoopIndexForNoOps_MatchesOperandVerdicts(t *testing.T) {
	operands := []instruction.Operand{
		{},
		instruction.RegOperand("x3"),
		instruction.ImmOperand(7),
		instruction.FPImmOperand(2),
		instruction.ExprOperand(instruction.Sym("f")),
		instruction.ExprOperand(instruction.Binary("-", instruction.Sym("a"), instruction.Sym("b"))),
	}

	for _, op := range opcode.All() {
		for _, first := range operands {
			for _, second := range operands {
				inst := instruction.New(op, first, second)

				allSafe := true
				for _, verdict := range CheckOperands(inst) {
					allSafe = allSafe && verdict.Safe
				}
				expected := 0
				if allSafe && !Vetoed(op) {
					expected = MaxNoOps
				}
				assert.Equal(t, expected, LoopIndexForNoOps(inst), "instruction %s", inst.String())
			}
		}
	}
}

func TestCheckOperands(t *testing.T) {
	inst := instruction.New(opcode.BR,
		instruction.RegOperand("x1"),
		instruction.ExprOperand(instruction.Const(1)),
		instruction.FPImmOperand(1),
		instruction.ImmOperand(2),
		instruction.Operand{},
	)

	verdicts := CheckOperands(inst)
	assert.Len(t, verdicts, 5)

	expected := []OperandVerdict{
		{Index: 0, Kind: instruction.KindRegister, Safe: false, Reason: ReasonBranchRegister},
		{Index: 1, Kind: instruction.KindExpr, Safe: true, Reason: ReasonSafe},
		{Index: 2, Kind: instruction.KindFPImmediate, Safe: false, Reason: ReasonFPImmediate},
		{Index: 3, Kind: instruction.KindImmediate, Safe: false, Reason: ReasonBranchImmediate},
		{Index: 4, Kind: instruction.KindInvalid, Safe: false, Reason: ReasonInvalidOperand},
	}
	assert.Equal(t, expected, verdicts)
}

func TestNewNopInstruction(t *testing.T) {
	nop := NewNopInstruction()
	assert.Equal(t, opcode.NOP, nop.Opcode())
	assert.Equal(t, 0, nop.NumOperands())

	// every call returns a fresh value
	other := NewNopInstruction()
	assert.Equal(t, nop.String(), other.String())
	assert.Equal(t, 0, LoopIndexForNoOps(nop))
}
