package instruction

import (
	"fmt"
	"strconv"
	"strings"
)

// Register is a canonical lower case AArch64 register name like x0, w30 or sp.
type Register string

// register name prefixes that are followed by a number in the range 0-31,
// the general purpose ones only allow 0-30.
var numberedRegisterPrefixes = map[byte]int{
	'w': 30,
	'x': 30,
	'b': 31,
	'h': 31,
	's': 31,
	'd': 31,
	'q': 31,
	'v': 31,
}

var specialRegisters = map[string]struct{}{
	"sp":  {},
	"wsp": {},
	"xzr": {},
	"wzr": {},
	"fp":  {},
	"lr":  {},
}

// ParseRegister parses a register name, the name is case insensitive.
func ParseRegister(name string) (Register, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if _, ok := specialRegisters[s]; ok {
		return Register(s), nil
	}
	if len(s) < 2 {
		return "", fmt.Errorf("invalid register '%s'", name)
	}

	highest, ok := numberedRegisterPrefixes[s[0]]
	if !ok {
		return "", fmt.Errorf("invalid register '%s'", name)
	}
	number, err := strconv.Atoi(s[1:])
	if err != nil || number < 0 || number > highest || strconv.Itoa(number) != s[1:] {
		return "", fmt.Errorf("invalid register '%s'", name)
	}
	return Register(s), nil
}

// IsRegisterName returns whether the given string is a valid register name.
func IsRegisterName(name string) bool {
	_, err := ParseRegister(name)
	return err == nil
}

// Is32Bit returns whether the register is a 32-bit general purpose register.
func (r Register) Is32Bit() bool {
	return len(r) > 0 && r[0] == 'w'
}
