package listing

import (
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/branchalign/internal/instruction"
	"github.com/retroenv/branchalign/internal/opcode"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		input    string
		opcode   opcode.Opcode
		kinds    []instruction.Kind
		expected string
	}{
		{"ret", opcode.RET, nil, "RET"},
		{"  NOP   ; padding", opcode.NOP, nil, "NOP"},
		{"B #16", opcode.B, []instruction.Kind{instruction.KindImmediate}, "B #16"},
		{"b\t#0x10", opcode.B, []instruction.Kind{instruction.KindImmediate}, "B #16"},
		{"BLR x8 // call", opcode.BLR, []instruction.Kind{instruction.KindRegister}, "BLR x8"},
		{"CBZW W0, .Ltmp1+4", opcode.CBZW, []instruction.Kind{instruction.KindRegister, instruction.KindExpr}, "CBZW w0, .Ltmp1+4"},
		{"FMOV d0, #1.5", opcode.FMOV, []instruction.Kind{instruction.KindRegister, instruction.KindFPImmediate}, "FMOV d0, #1.5"},
		{"FMOV s1, #2e3", opcode.FMOV, []instruction.Kind{instruction.KindRegister, instruction.KindFPImmediate}, "FMOV s1, #2000.0"},
		{"MOVZ x0, -1", opcode.MOVZ, []instruction.Kind{instruction.KindRegister, instruction.KindExpr}, "MOVZ x0, -1"},
		{"ADD x0, x0, :lo12:var", opcode.ADD, []instruction.Kind{instruction.KindRegister, instruction.KindRegister, instruction.KindExpr}, "ADD x0, x0, :lo12:var"},
		{"BL <fixup_aarch64_pcrel_call26>", opcode.BL, []instruction.Kind{instruction.KindInst}, "BL <fixup_aarch64_pcrel_call26>"},
		{"ADD x1, <MOVZ x0, #1>, ?", opcode.ADD, []instruction.Kind{instruction.KindRegister, instruction.KindInst, instruction.KindInvalid}, "ADD x1, <MOVZ x0, #1>, ?"},
		{"G_ICMP x0, 2*(a-b)", opcode.GICMP, []instruction.Kind{instruction.KindRegister, instruction.KindExpr}, "G_ICMP x0, 2*(a-b)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			inst, ok, err := ParseLine(tt.input)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.opcode, inst.Opcode())
			assert.Equal(t, len(tt.kinds), inst.NumOperands())
			for i, kind := range tt.kinds {
				assert.Equal(t, kind, inst.Operand(i).Kind())
			}
			assert.Equal(t, tt.expected, inst.String())
		})
	}
}

func TestParseLine_Expressions(t *testing.T) {
	tests := []struct {
		input string
		kind  instruction.ExprKind
	}{
		{"B 42", instruction.ConstantExpr},
		{"B 0x2a", instruction.ConstantExpr},
		{"B loop", instruction.SymbolRefExpr},
		{"B loop-8", instruction.BinaryExpr},
		{"B ~mask", instruction.UnaryExpr},
		{"B (loop)", instruction.SymbolRefExpr},
		{"B :got:sym", instruction.TargetExpr},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			inst, ok, err := ParseLine(tt.input)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.kind, inst.Operand(0).Expr().Kind())
		})
	}
}

func TestParseLine_ExpressionReparse(t *testing.T) {
	inputs := []string{
		"B 2*(a-b)",
		"B a-(b-c)",
		"B (a-b)-c",
		"B -(a+1)*4",
		"B :lo12:(sym+8)",
		"B ~(mask*2)+1",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			inst, ok, err := ParseLine(input)
			assert.NoError(t, err)
			assert.True(t, ok)

			again, ok, err := ParseLine(inst.String())
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, inst.String(), again.String())
			assert.Equal(t, inst.Operand(0).Expr().Kind(), again.Operand(0).Expr().Kind())
		})
	}
}

func TestParseLine_Empty(t *testing.T) {
	for _, input := range []string{"", "   ", "; comment", "// comment"} {
		_, ok, err := ParseLine(input)
		assert.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestParseLine_Errors(t *testing.T) {
	inputs := []string{
		"JMP x0",
		"B #",
		"B #0xzz",
		"ADD x0,",
		"ADD x0, <MOVZ x0",
		"ADD x0, MOVZ>",
		"ADD <>",
		"B loop+",
		"B (loop",
		"B a b",
		"B :lo12 sym",
		"B @sym",
		"BL <bogus>",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, _, err := ParseLine(input)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax))
		})
	}
}

func TestParse(t *testing.T) {
	input := `; sample listing
loop:
ADD x0, x0, #1
CBNZX x0, loop

RET
`
	_, err := Parse(strings.NewReader(input))
	assert.Error(t, err)
	assert.ErrorContains(t, err, "line 2")

	input = strings.Replace(input, "loop:\n", "", 1)
	lines, err := Parse(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Len(t, lines, 3)

	assert.Equal(t, 2, lines[0].Number)
	assert.Equal(t, "ADD x0, x0, #1", lines[0].Text)
	assert.Equal(t, opcode.CBNZX, lines[1].Instruction.Opcode())
	assert.Equal(t, 5, lines[2].Number)
	assert.Equal(t, opcode.RET, lines[2].Instruction.Opcode())
}
