package instruction

import (
	"fmt"
	"strconv"
)

// ExprKind is the shape of a symbolic expression.
type ExprKind int

// Expression kinds.
const (
	BinaryExpr ExprKind = iota
	ConstantExpr
	SymbolRefExpr
	UnaryExpr
	TargetExpr
)

var exprKindNames = map[ExprKind]string{
	BinaryExpr:    "binary",
	ConstantExpr:  "constant",
	SymbolRefExpr: "symbol",
	UnaryExpr:     "unary",
	TargetExpr:    "target",
}

func (k ExprKind) String() string {
	if name, ok := exprKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ExprKind(%d)", int(k))
}

// Expr is a symbolic operand value that is not yet resolved to an encoding.
type Expr struct {
	kind   ExprKind
	value  int64  // constant
	symbol string // symbol reference or target variant name
	op     string // unary and binary operator
	lhs    *Expr  // binary left side, unary and target operand
	rhs    *Expr  // binary right side
}

// Const returns a constant integer expression.
func Const(value int64) *Expr {
	return &Expr{kind: ConstantExpr, value: value}
}

// Sym returns a symbol reference expression.
func Sym(name string) *Expr {
	return &Expr{kind: SymbolRefExpr, symbol: name}
}

// Unary returns a unary expression like -x.
func Unary(op string, operand *Expr) *Expr {
	return &Expr{kind: UnaryExpr, op: op, lhs: operand}
}

// Binary returns a binary expression like a+b.
func Binary(op string, lhs, rhs *Expr) *Expr {
	return &Expr{kind: BinaryExpr, op: op, lhs: lhs, rhs: rhs}
}

// Target returns a target specific expression, for example the :lo12: variant of a symbol.
func Target(variant string, operand *Expr) *Expr {
	return &Expr{kind: TargetExpr, symbol: variant, lhs: operand}
}

// Kind returns the expression kind.
func (e *Expr) Kind() ExprKind {
	return e.kind
}

// Value returns the value of a constant expression.
func (e *Expr) Value() int64 {
	return e.value
}

// Symbol returns the symbol name of a symbol reference.
func (e *Expr) Symbol() string {
	return e.symbol
}

func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}

	switch e.kind {
	case ConstantExpr:
		return strconv.FormatInt(e.value, 10)
	case SymbolRefExpr:
		return e.symbol
	case UnaryExpr:
		return e.op + e.lhs.operandString(unaryPrecedence)
	case BinaryExpr:
		prec := e.precedence()
		// operators are left associative
		return e.lhs.operandString(prec-1) + e.op + e.rhs.operandString(prec)
	case TargetExpr:
		return ":" + e.symbol + ":" + e.lhs.operandString(unaryPrecedence)
	default:
		return "<invalid>"
	}
}

// operandString returns the expression as operand of an operator, binary
// expressions that bind no tighter than parent are wrapped in parentheses.
func (e *Expr) operandString(parent int) string {
	if e != nil && e.kind == BinaryExpr && e.precedence() <= parent {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// unaryPrecedence binds tighter than any binary operator.
const unaryPrecedence = 3

// precedence returns the binding strength of a binary operator.
func (e *Expr) precedence() int {
	if e.op == "*" {
		return 2
	}
	return 1
}
