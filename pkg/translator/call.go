package translator

import "fmt"

// returnLabel is unique per call site: the callee name alone would collide
// when a function is called from two places.
func returnLabel(function string, ordinal int) string {
	return fmt.Sprintf("%s$ret.%d", function, ordinal)
}

// function emits the entry label and nVars zero-initialised locals.
func (t *moduleTranslator) function(name string, nVars int) {
	b := t.b
	b.label(name)
	for i := 0; i < nVars; i++ {
		b.at("SP")
		b.c("A", "M", "")
		b.c("M", "0", "")
		b.at("SP")
		b.c("M", "M+1", "")
	}
}

// call builds the frame (return address, LCL, ARG, THIS, THAT), repoints ARG
// at the nArgs values already on the stack, sets LCL = SP and jumps.
func (t *moduleTranslator) call(name string, nArgs, ordinal int) {
	b := t.b
	ret := returnLabel(name, ordinal)

	b.at(ret)
	b.c("D", "A", "")
	t.pushD()
	for _, reg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		b.at(reg)
		b.c("D", "M", "")
		t.pushD()
	}

	// ARG = SP - (5 + nArgs)
	b.loadD(frameSize + nArgs)
	b.at("SP")
	b.c("D", "M-D", "")
	b.at("ARG")
	b.c("M", "D", "")

	// LCL = SP
	b.at("SP")
	b.c("D", "M", "")
	b.at("LCL")
	b.c("M", "D", "")

	b.at(name)
	b.c("", "0", "JMP")
	b.label(ret)
}

// ret tears the frame down. FRAME (R14) is read but never modified while
// THAT, THIS, ARG and LCL are restored from it.
func (t *moduleTranslator) ret() {
	b := t.b

	// FRAME = LCL
	b.at("LCL")
	b.c("D", "M", "")
	b.at(regFrame)
	b.c("M", "D", "")

	// RET = *(FRAME-5)
	b.atInt(frameSize)
	b.c("A", "D-A", "")
	b.c("D", "M", "")
	b.at(regRet)
	b.c("M", "D", "")

	// *ARG = pop()
	t.popD()
	b.at("ARG")
	b.c("A", "M", "")
	b.c("M", "D", "")

	// SP = ARG+1
	b.at("ARG")
	b.c("D", "M+1", "")
	b.at("SP")
	b.c("M", "D", "")

	// THAT, THIS, ARG, LCL = *(FRAME-1) .. *(FRAME-4)
	b.at(regFrame)
	b.c("A", "M-1", "")
	b.c("D", "M", "")
	b.at("THAT")
	b.c("M", "D", "")
	for i, reg := range []string{"THIS", "ARG", "LCL"} {
		b.atInt(i + 2)
		b.c("D", "A", "")
		b.at(regFrame)
		b.c("A", "M-D", "")
		b.c("D", "M", "")
		b.at(reg)
		b.c("M", "D", "")
	}

	b.at(regRet)
	b.c("A", "M", "")
	b.c("", "0", "JMP")
}
