package vm

import (
	"fmt"
	"strings"
)

// Instruction is one parsed VM command. Which fields are meaningful depends
// on Op:
//
//	push/pop          Segment, Index
//	label/goto/if-goto Name
//	function/call     Name, Index (nVars / nArgs)
//	set               Register, Index (value)
type Instruction struct {
	Op       Opcode
	Segment  Segment
	Register Register
	Name     string
	Index    int

	// Line is the 1-based source line. Ordinal is the position of the
	// instruction within the whole translation session; the translator
	// assigns it.
	Line    int
	Ordinal int
}

// String renders the instruction back into VM source form.
func (in Instruction) String() string {
	switch in.Op {
	case OpPush, OpPop:
		return fmt.Sprintf("%s %s %d", in.Op, in.Segment, in.Index)
	case OpLabel, OpGoto, OpIfGoto:
		return fmt.Sprintf("%s %s", in.Op, in.Name)
	case OpFunction, OpCall:
		return fmt.Sprintf("%s %s %d", in.Op, in.Name, in.Index)
	case OpSet:
		return fmt.Sprintf("%s %s %d", in.Op, in.Register, in.Index)
	}
	return in.Op.String()
}

// IsSymbol reports whether s is usable as an assembler symbol: letters,
// digits, '_', '.', '$' and ':' not starting with a digit.
func IsSymbol(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r == '_', r == '.', r == '$', r == ':':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func stripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i]
	}
	return line
}
