package vm

import "fmt"

// Opcode identifies a VM instruction. The set is closed: every switch over
// Opcode in this module handles all of them.
type Opcode int

const (
	OpInvalid Opcode = iota

	// Memory access
	OpPush // push segment index
	OpPop  // pop segment index

	// Arithmetic / logic
	OpAdd
	OpSub
	OpAnd
	OpOr
	OpNeg
	OpNot

	// Relational
	OpEq
	OpLt
	OpGt

	// Program flow
	OpLabel  // label L
	OpGoto   // goto L
	OpIfGoto // if-goto L

	// Functions
	OpFunction // function f nVars
	OpCall     // call f nArgs
	OpReturn

	// Runtime helpers
	OpEnd // halt loop
	OpSet // set register value

	opCount
)

var opcodeNames = [...]string{
	OpInvalid:  "invalid",
	OpPush:     "push",
	OpPop:      "pop",
	OpAdd:      "add",
	OpSub:      "sub",
	OpAnd:      "and",
	OpOr:       "or",
	OpNeg:      "neg",
	OpNot:      "not",
	OpEq:       "eq",
	OpLt:       "lt",
	OpGt:       "gt",
	OpLabel:    "label",
	OpGoto:     "goto",
	OpIfGoto:   "if-goto",
	OpFunction: "function",
	OpCall:     "call",
	OpReturn:   "return",
	OpEnd:      "end",
	OpSet:      "set",
}

// operand counts, indexed by Opcode
var opcodeArity = [...]int{
	OpPush:     2,
	OpPop:      2,
	OpLabel:    1,
	OpGoto:     1,
	OpIfGoto:   1,
	OpFunction: 2,
	OpCall:     2,
	OpSet:      2,
}

var opcodesByName map[string]Opcode

func init() {
	opcodesByName = make(map[string]Opcode, opCount)
	for op := OpPush; op < opCount; op++ {
		opcodesByName[opcodeNames[op]] = op
	}
}

// LookupOpcode maps a mnemonic to its Opcode.
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodesByName[name]
	return op, ok
}

func (op Opcode) String() string {
	if op < 0 || op >= opCount {
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
	return opcodeNames[op]
}

// Arity is the number of operands the opcode takes.
func (op Opcode) Arity() int {
	if op <= OpInvalid || op >= opCount || int(op) >= len(opcodeArity) {
		return 0
	}
	return opcodeArity[op]
}

// IsBinary reports whether op pops two operands and pushes one result.
func (op Opcode) IsBinary() bool {
	switch op {
	case OpAdd, OpSub, OpAnd, OpOr:
		return true
	}
	return false
}

// IsUnary reports whether op rewrites the top of the stack in place.
func (op Opcode) IsUnary() bool {
	return op == OpNeg || op == OpNot
}

// IsRelational reports whether op is one of eq, lt, gt.
func (op Opcode) IsRelational() bool {
	return op == OpEq || op == OpLt || op == OpGt
}
