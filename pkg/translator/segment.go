package translator

import (
	"fmt"
	"strconv"

	"hackvm/pkg/vm"
)

// Fixed RAM layout of the target machine.
const (
	TempBase   = 5
	StaticBase = 16

	// scratch registers used by pop and return
	regAddr  = "R13"
	regFrame = "R14"
	regRet   = "R15"

	// frame words between the caller's arguments and the callee's locals
	frameSize = 5
)

// baseRegister names the pointer register behind an indirect segment.
func baseRegister(seg vm.Segment) string {
	switch seg {
	case vm.SegLocal:
		return "LCL"
	case vm.SegArgument:
		return "ARG"
	case vm.SegThis:
		return "THIS"
	case vm.SegThat:
		return "THAT"
	}
	return ""
}

// pointerCell selects THIS for index 0 and THAT for anything else. Indices
// other than 0 and 1 are not checked.
func pointerCell(index int) string {
	if index == 0 {
		return "THIS"
	}
	return "THAT"
}

// directSymbol is the A-instruction operand addressing a direct-fixed
// segment cell (temp, pointer, static).
func (t *moduleTranslator) directSymbol(seg vm.Segment, index int) string {
	switch seg {
	case vm.SegTemp:
		return ramAddress(TempBase + index)
	case vm.SegPointer:
		return pointerCell(index)
	case vm.SegStatic:
		if t.opts.Statics == StaticsPerModule {
			return fmt.Sprintf("%s.%d", t.module, uint16(index))
		}
		return ramAddress(StaticBase + index)
	}
	return ""
}

// ramAddress renders addr the way the machine decodes it: the low 15 bits.
func ramAddress(addr int) string {
	return strconv.Itoa(addr & 0x7FFF)
}

// loadValue leaves the value of (seg, index) in D.
func (t *moduleTranslator) loadValue(seg vm.Segment, index int) {
	b := t.b
	switch {
	case seg == vm.SegConstant:
		b.loadD(index)
	case seg.Indirect():
		b.loadD(index)
		b.at(baseRegister(seg))
		b.c("A", "D+M", "")
		b.c("D", "M", "")
	default:
		b.at(t.directSymbol(seg, index))
		b.c("D", "M", "")
	}
}

// storeTop pops the stack into (seg, index). Indirect segments park the
// target address in R13 before the pop.
func (t *moduleTranslator) storeTop(seg vm.Segment, index int) {
	b := t.b
	if seg.Indirect() {
		b.loadD(index)
		b.at(baseRegister(seg))
		b.c("D", "D+M", "")
		b.at(regAddr)
		b.c("M", "D", "")
		t.popD()
		b.at(regAddr)
		b.c("A", "M", "")
		b.c("M", "D", "")
		return
	}
	t.popD()
	b.at(t.directSymbol(seg, index))
	b.c("M", "D", "")
}
