package align

import (
	"github.com/retroenv/branchalign/internal/instruction"
	"github.com/retroenv/branchalign/internal/opcode"
)

// MaxNoOps is the maximum number of NOP instructions that can be inserted
// before an instruction that is safe to pad.
const MaxNoOps = 15

// Reasons for operand verdicts.
const (
	ReasonSafe            = "safe"
	ReasonUnresolvedExpr  = "expression is not binary, unary or constant"
	ReasonNilExpr         = "expression is missing"
	ReasonNestedFixup     = "nested instruction is a fixup"
	ReasonBranchImmediate = "immediate is a branch target"
	ReasonBranchRegister  = "register is a branch target"
	ReasonFPImmediate     = "floating point immediate"
	ReasonInvalidOperand  = "invalid operand"
)

// OperandVerdict is the padding safety verdict for a single operand.
type OperandVerdict struct {
	Index  int
	Kind   instruction.Kind
	Safe   bool
	Reason string
}

// LoopIndexForNoOps returns the number of NOP instructions that can be
// inserted before the instruction. The result is either 0 or MaxNoOps.
// Fixups, NOP, ADRP and opcodes outside of the enumeration are never padded,
// instructions without operands always can be. Otherwise all operands have to
// be safe, the scan stops at the first operand that is not.
func LoopIndexForNoOps(inst instruction.Instruction) int {
	op := inst.Opcode()
	if vetoed(op) {
		return 0
	}

	for i := range inst.NumOperands() {
		if safe, _ := checkOperand(op, inst.Operand(i)); !safe {
			return 0
		}
	}
	return MaxNoOps
}

// CheckOperands returns the verdict for every operand of the instruction
// without stopping at the first unsafe operand. The verdicts of an opcode that
// is never padded are returned as well, callers have to check Vetoed.
func CheckOperands(inst instruction.Instruction) []OperandVerdict {
	op := inst.Opcode()
	verdicts := make([]OperandVerdict, 0, inst.NumOperands())
	for i := range inst.NumOperands() {
		operand := inst.Operand(i)
		safe, reason := checkOperand(op, operand)
		verdicts = append(verdicts, OperandVerdict{
			Index:  i,
			Kind:   operand.Kind(),
			Safe:   safe,
			Reason: reason,
		})
	}
	return verdicts
}

// Vetoed returns whether instructions with the given opcode are never padded,
// independent of their operands.
func Vetoed(op opcode.Opcode) bool {
	return vetoed(op)
}

func vetoed(op opcode.Opcode) bool {
	return !op.Valid() || isFixup(op) || op == opcode.NOP || op == opcode.ADRP
}

// checkOperand returns whether the operand of an instruction with the given
// opcode allows padding before the instruction.
func checkOperand(op opcode.Opcode, operand instruction.Operand) (bool, string) {
	switch operand.Kind() {
	case instruction.KindExpr:
		expr := operand.Expr()
		if expr == nil {
			return false, ReasonNilExpr
		}
		switch expr.Kind() {
		case instruction.BinaryExpr, instruction.ConstantExpr, instruction.UnaryExpr:
			return true, ReasonSafe
		default:
			return false, ReasonUnresolvedExpr
		}

	case instruction.KindInst:
		nested := operand.Inst()
		if nested != nil && isFixup(nested.Opcode()) {
			return false, ReasonNestedFixup
		}
		return true, ReasonSafe

	case instruction.KindImmediate:
		if isBranchTarget(op) {
			return false, ReasonBranchImmediate
		}
		return true, ReasonSafe

	case instruction.KindFPImmediate:
		return false, ReasonFPImmediate

	case instruction.KindRegister:
		if isBranchTarget(op) {
			return false, ReasonBranchRegister
		}
		return true, ReasonSafe

	default:
		return false, ReasonInvalidOperand
	}
}

// NewNopInstruction returns a new NOP instruction without operands.
func NewNopInstruction() instruction.Instruction {
	return instruction.New(opcode.NOP)
}
