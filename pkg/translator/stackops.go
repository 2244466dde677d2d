package translator

import (
	"fmt"
	"strings"

	"hackvm/pkg/vm"
)

// pushD stores D at *SP and increments SP.
func (t *moduleTranslator) pushD() {
	b := t.b
	b.at("SP")
	b.c("A", "M", "")
	b.c("M", "D", "")
	b.at("SP")
	b.c("M", "M+1", "")
}

// popD decrements SP and loads the new top into D.
func (t *moduleTranslator) popD() {
	b := t.b
	b.at("SP")
	b.c("AM", "M-1", "")
	b.c("D", "M", "")
}

func (t *moduleTranslator) push(seg vm.Segment, index int) {
	t.loadValue(seg, index)
	t.pushD()
}

func (t *moduleTranslator) pop(seg vm.Segment, index int) {
	t.storeTop(seg, index)
}

// binaryComp computes left ⊕ right with left in M and right in D.
var binaryComp = map[vm.Opcode]string{
	vm.OpAdd: "D+M",
	vm.OpSub: "M-D",
	vm.OpAnd: "D&M",
	vm.OpOr:  "D|M",
}

// binary pops the right operand into D, then combines it with the left
// operand in place, which leaves SP one lower.
func (t *moduleTranslator) binary(op vm.Opcode) {
	b := t.b
	t.popD()
	b.c("A", "A-1", "")
	b.c("M", binaryComp[op], "")
}

func (t *moduleTranslator) unary(op vm.Opcode) {
	b := t.b
	b.at("SP")
	b.c("A", "M-1", "")
	if op == vm.OpNeg {
		b.c("M", "-M", "")
	} else {
		b.c("M", "!M", "")
	}
}

// relationalJump is the condition on left-right that selects the true branch.
func (t *moduleTranslator) relationalJump(op vm.Opcode) string {
	switch op {
	case vm.OpEq:
		if t.opts.Relational == RelationalLegacy {
			return "JGT"
		}
		return "JEQ"
	case vm.OpLt:
		return "JLT"
	case vm.OpGt:
		return "JGT"
	}
	panic(fmt.Sprintf("translator: %s is not relational", op))
}

// compare replaces the two top operands with -1 when left op right holds and
// 0 otherwise. The branch labels carry the instruction's session ordinal.
func (t *moduleTranslator) compare(op vm.Opcode, ordinal int) {
	b := t.b
	name := strings.ToUpper(op.String())
	isTrue := fmt.Sprintf("%s_TRUE_%d", name, ordinal)
	end := fmt.Sprintf("%s_END_%d", name, ordinal)

	t.popD()
	b.c("A", "A-1", "")
	b.c("D", "M-D", "")
	b.at(isTrue)
	b.c("", "D", t.relationalJump(op))

	b.at("SP")
	b.c("A", "M-1", "")
	b.c("M", "0", "")
	b.at(end)
	b.c("", "0", "JMP")

	b.label(isTrue)
	b.at("SP")
	b.c("A", "M-1", "")
	b.c("M", "-1", "")
	b.label(end)
}

func (t *moduleTranslator) label(name string) {
	t.b.label(name)
}

func (t *moduleTranslator) gotoLabel(name string) {
	t.b.at(name)
	t.b.c("", "0", "JMP")
}

// ifGoto pops the condition and jumps when it is non-zero.
func (t *moduleTranslator) ifGoto(name string) {
	t.popD()
	t.b.at(name)
	t.b.c("", "D", "JNE")
}

// end parks the machine in a self-jump loop.
func (t *moduleTranslator) end(ordinal int) {
	halt := fmt.Sprintf("HALT_%d", ordinal)
	t.b.label(halt)
	t.b.at(halt)
	t.b.c("", "0", "JMP")
}

var registerSymbols = map[vm.Register]string{
	vm.RegSP:       "SP",
	vm.RegLocal:    "LCL",
	vm.RegArgument: "ARG",
	vm.RegThis:     "THIS",
	vm.RegThat:     "THAT",
}

// set writes a literal into one of the pointer registers.
func (t *moduleTranslator) set(reg vm.Register, value int) {
	b := t.b
	b.loadD(value)
	b.at(registerSymbols[reg])
	b.c("M", "D", "")
}
