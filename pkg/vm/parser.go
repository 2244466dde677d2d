package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse splits src into instructions, one per line. Blank lines and "//"
// comments are skipped. The first malformed line aborts parsing with a
// *SyntaxError.
func Parse(src string) ([]Instruction, error) {
	var out []Instruction
	for i, raw := range strings.Split(src, "\n") {
		in, ok, err := ParseLine(raw, i+1)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, in)
		}
	}
	return out, nil
}

// ParseLine parses a single source line. ok is false for blank and
// comment-only lines.
func ParseLine(raw string, lineNo int) (in Instruction, ok bool, err error) {
	fields := strings.Fields(stripComment(raw))
	if len(fields) == 0 {
		return Instruction{}, false, nil
	}

	fail := func(e error) (Instruction, bool, error) {
		return Instruction{}, false, &SyntaxError{Line: lineNo, Text: strings.TrimSpace(raw), Err: e}
	}

	op, known := LookupOpcode(fields[0])
	if !known {
		return fail(fmt.Errorf("%w %q", ErrUnknownOpcode, fields[0]))
	}
	args := fields[1:]
	if len(args) != op.Arity() {
		return fail(fmt.Errorf("%w: %s expects %d, got %d", ErrOperandCount, op, op.Arity(), len(args)))
	}

	in = Instruction{Op: op, Line: lineNo}

	switch op {
	case OpPush, OpPop:
		seg, ok := LookupSegment(args[0])
		if !ok {
			return fail(fmt.Errorf("%w: unknown segment %q", ErrBadOperand, args[0]))
		}
		if op == OpPop && seg == SegConstant {
			return fail(fmt.Errorf("%w: cannot pop into constant", ErrBadOperand))
		}
		n, err := parseInt(args[1])
		if err != nil {
			return fail(err)
		}
		in.Segment = seg
		in.Index = n

	case OpLabel, OpGoto, OpIfGoto:
		if !IsSymbol(args[0]) {
			return fail(fmt.Errorf("%w: bad label %q", ErrBadOperand, args[0]))
		}
		in.Name = args[0]

	case OpFunction, OpCall:
		if !IsSymbol(args[0]) {
			return fail(fmt.Errorf("%w: bad function name %q", ErrBadOperand, args[0]))
		}
		n, err := parseInt(args[1])
		if err != nil {
			return fail(err)
		}
		in.Name = args[0]
		in.Index = n

	case OpSet:
		reg, ok := LookupRegister(args[0])
		if !ok {
			return fail(fmt.Errorf("%w: unknown register %q", ErrBadOperand, args[0]))
		}
		n, err := parseInt(args[1])
		if err != nil {
			return fail(err)
		}
		in.Register = reg
		in.Index = n

	case OpAdd, OpSub, OpAnd, OpOr, OpNeg, OpNot,
		OpEq, OpLt, OpGt, OpReturn, OpEnd:
		// no operands

	case OpInvalid:
		return fail(ErrUnknownOpcode)
	}

	return in, true, nil
}

// parseInt accepts any decimal integer. Range checks are left to the
// target machine, which has none.
func parseInt(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: not an integer %q", ErrBadOperand, tok)
	}
	return n, nil
}
