package opcode

import "strings"

var names = [count]string{
	Invalid: "",
	B:       "B",
	Bcc:     "Bcc",
	BR:      "BR",
	BRAA:    "BRAA",
	BRAAZ:   "BRAAZ",
	BRAB:    "BRAB",
	BRABZ:   "BRABZ",
	BL:      "BL",
	BLR:     "BLR",
	BLRAA:   "BLRAA",
	BLRAAZ:  "BLRAAZ",
	BLRAB:   "BLRAB",
	BLRABZ:  "BLRABZ",
	CBZW:    "CBZW",
	CBZX:    "CBZX",
	CBNZW:   "CBNZW",
	CBNZX:   "CBNZX",
	CCMPWr:  "CCMPWr",
	CCMPXr:  "CCMPXr",
	CCMPWi:  "CCMPWi",
	CCMPXi:  "CCMPXi",
	GFCMP:   "G_FCMP",
	GICMP:   "G_ICMP",
	TBZW:    "TBZW",
	TBZX:    "TBZX",
	TBNZW:   "TBNZW",
	TBNZX:   "TBNZX",
	RET:     "RET",
	RETAA:   "RETAA",
	RETAB:   "RETAB",
	SVC:     "SVC",
	HVC:     "HVC",
	BRK:     "BRK",
	ERET:    "ERET",
	NOP:     "NOP",
	ADRP:    "ADRP",
	ADR:     "ADR",

	ADD:  "ADD",
	SUB:  "SUB",
	AND:  "AND",
	ORR:  "ORR",
	CMP:  "CMP",
	MOV:  "MOV",
	MOVZ: "MOVZ",
	MOVK: "MOVK",
	FMOV: "FMOV",
	LDR:  "LDR",
	STR:  "STR",
	LDP:  "LDP",
	STP:  "STP",

	FixupAddImm12:         "fixup_aarch64_add_imm12",
	FixupLdrPCRelImm19:    "fixup_aarch64_ldr_pcrel_imm19",
	FixupLdStImm12Scale1:  "fixup_aarch64_ldst_imm12_scale1",
	FixupLdStImm12Scale2:  "fixup_aarch64_ldst_imm12_scale2",
	FixupLdStImm12Scale4:  "fixup_aarch64_ldst_imm12_scale4",
	FixupLdStImm12Scale8:  "fixup_aarch64_ldst_imm12_scale8",
	FixupLdStImm12Scale16: "fixup_aarch64_ldst_imm12_scale16",
	FixupMovW:             "fixup_aarch64_movw",
	FixupPCRelAdrImm21:    "fixup_aarch64_pcrel_adr_imm21",
	FixupPCRelAdrpImm21:   "fixup_aarch64_pcrel_adrp_imm21",
	FixupPCRelBranch14:    "fixup_aarch64_pcrel_branch14",
	FixupPCRelBranch19:    "fixup_aarch64_pcrel_branch19",
	FixupPCRelBranch26:    "fixup_aarch64_pcrel_branch26",
	FixupPCRelCall26:      "fixup_aarch64_pcrel_call26",
	FixupTLSDescCall:      "fixup_aarch64_tlsdesc_call",
}

// byName maps lower case labels to opcodes.
var byName = func() map[string]Opcode {
	m := make(map[string]Opcode, count)
	for op := Invalid + 1; op < count; op++ {
		m[strings.ToLower(names[op])] = op
	}
	return m
}()
