// Package translator turns VM instructions into Hack assembly.
//
// Pipeline: VM source → vm.Parse → Session.TranslateModule (per module) →
// Link (sys, main, then the rest) → assembly text for pkg/asm.
package translator

import (
	"fmt"

	"hackvm/pkg/vm"
)

// moduleTranslator emits the code for one module into b. The counter is
// borrowed from the session.
type moduleTranslator struct {
	module  string
	opts    Options
	counter *LabelCounter
	b       *Builder
}

func (t *moduleTranslator) translate(in vm.Instruction) error {
	if t.opts.Comments {
		t.b.comment("%s", in)
	}

	switch in.Op {
	case vm.OpPush:
		t.push(in.Segment, in.Index)
	case vm.OpPop:
		t.pop(in.Segment, in.Index)
	case vm.OpAdd, vm.OpSub, vm.OpAnd, vm.OpOr:
		t.binary(in.Op)
	case vm.OpNeg, vm.OpNot:
		t.unary(in.Op)
	case vm.OpEq, vm.OpLt, vm.OpGt:
		t.compare(in.Op, in.Ordinal)
	case vm.OpLabel:
		t.label(in.Name)
	case vm.OpGoto:
		t.gotoLabel(in.Name)
	case vm.OpIfGoto:
		t.ifGoto(in.Name)
	case vm.OpFunction:
		t.function(in.Name, in.Index)
	case vm.OpCall:
		t.call(in.Name, in.Index, in.Ordinal)
	case vm.OpReturn:
		t.ret()
	case vm.OpEnd:
		t.end(in.Ordinal)
	case vm.OpSet:
		t.set(in.Register, in.Index)
	default:
		return &vm.SyntaxError{Line: in.Line, Text: in.String(), Err: fmt.Errorf("%w %v", vm.ErrUnknownOpcode, in.Op)}
	}
	return nil
}

// translateAll stamps each instruction with the next session ordinal and
// emits it.
func (t *moduleTranslator) translateAll(prog []vm.Instruction) error {
	if err := t.checkStaticPrefix(prog); err != nil {
		return err
	}
	if t.opts.Comments {
		t.b.comment("%s", t.module)
	}
	for _, in := range prog {
		in.Ordinal = t.counter.Next()
		if err := t.translate(in); err != nil {
			return err
		}
	}
	return nil
}

// checkStaticPrefix rejects per-module statics whose <module>.<i> symbol the
// assembler could not accept.
func (t *moduleTranslator) checkStaticPrefix(prog []vm.Instruction) error {
	if t.opts.Statics != StaticsPerModule || vm.IsSymbol(t.module) {
		return nil
	}
	for _, in := range prog {
		if (in.Op == vm.OpPush || in.Op == vm.OpPop) && in.Segment == vm.SegStatic {
			return &vm.SyntaxError{Line: in.Line, Text: in.String(), Err: fmt.Errorf("%w: %q", ErrBadModuleName, t.module)}
		}
	}
	return nil
}
