package instruction

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the kind of an operand.
type Kind int

// Operand kinds. The zero value marks an invalid or absent operand.
const (
	KindInvalid Kind = iota
	KindRegister
	KindImmediate
	KindFPImmediate
	KindExpr
	KindInst
)

var kindNames = map[Kind]string{
	KindInvalid:     "invalid",
	KindRegister:    "register",
	KindImmediate:   "immediate",
	KindFPImmediate: "fp immediate",
	KindExpr:        "expression",
	KindInst:        "instruction",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Operand is a tagged union over the operand kinds of an instruction.
type Operand struct {
	kind  Kind
	reg   Register
	imm   int64
	fpImm float64
	expr  *Expr
	inst  *Instruction
}

// RegOperand returns a register operand.
func RegOperand(reg Register) Operand {
	return Operand{kind: KindRegister, reg: reg}
}

// ImmOperand returns an integer immediate operand.
func ImmOperand(value int64) Operand {
	return Operand{kind: KindImmediate, imm: value}
}

// FPImmOperand returns a floating point immediate operand.
func FPImmOperand(value float64) Operand {
	return Operand{kind: KindFPImmediate, fpImm: value}
}

// ExprOperand returns an expression operand.
func ExprOperand(expr *Expr) Operand {
	return Operand{kind: KindExpr, expr: expr}
}

// InstOperand returns an operand that references a nested instruction.
func InstOperand(inst *Instruction) Operand {
	return Operand{kind: KindInst, inst: inst}
}

// Kind returns the operand kind.
func (o Operand) Kind() Kind { return o.kind }

// IsValid returns whether the operand is not the invalid operand.
func (o Operand) IsValid() bool { return o.kind != KindInvalid }

// IsReg returns whether the operand is a register.
func (o Operand) IsReg() bool { return o.kind == KindRegister }

// IsImm returns whether the operand is an integer immediate.
func (o Operand) IsImm() bool { return o.kind == KindImmediate }

// IsFPImm returns whether the operand is a floating point immediate.
func (o Operand) IsFPImm() bool { return o.kind == KindFPImmediate }

// IsExpr returns whether the operand is an expression.
func (o Operand) IsExpr() bool { return o.kind == KindExpr }

// IsInst returns whether the operand is a nested instruction.
func (o Operand) IsInst() bool { return o.kind == KindInst }

// Reg returns the register of a register operand.
func (o Operand) Reg() Register { return o.reg }

// Imm returns the value of an integer immediate operand.
func (o Operand) Imm() int64 { return o.imm }

// FPImm returns the value of a floating point immediate operand.
func (o Operand) FPImm() float64 { return o.fpImm }

// Expr returns the expression of an expression operand, it can be nil.
func (o Operand) Expr() *Expr { return o.expr }

// Inst returns the nested instruction of an instruction operand, it can be nil.
func (o Operand) Inst() *Instruction { return o.inst }

func (o Operand) String() string {
	switch o.kind {
	case KindRegister:
		return string(o.reg)
	case KindImmediate:
		return "#" + strconv.FormatInt(o.imm, 10)
	case KindFPImmediate:
		s := strconv.FormatFloat(o.fpImm, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return "#" + s
	case KindExpr:
		return o.expr.String()
	case KindInst:
		if o.inst == nil {
			return "<>"
		}
		return "<" + o.inst.String() + ">"
	default:
		return "?"
	}
}
