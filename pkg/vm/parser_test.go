package vm

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line   string
		want   Instruction
		wantOk bool
	}{
		{"", Instruction{}, false},
		{"   \t ", Instruction{}, false},
		{"// a comment", Instruction{}, false},
		{"push constant 7", Instruction{Op: OpPush, Segment: SegConstant, Index: 7, Line: 1}, true},
		{"  pop local 2   // trailing", Instruction{Op: OpPop, Segment: SegLocal, Index: 2, Line: 1}, true},
		{"push pointer 1", Instruction{Op: OpPush, Segment: SegPointer, Index: 1, Line: 1}, true},
		{"add", Instruction{Op: OpAdd, Line: 1}, true},
		{"not", Instruction{Op: OpNot, Line: 1}, true},
		{"gt", Instruction{Op: OpGt, Line: 1}, true},
		{"label LOOP_START", Instruction{Op: OpLabel, Name: "LOOP_START", Line: 1}, true},
		{"if-goto Main.end$1", Instruction{Op: OpIfGoto, Name: "Main.end$1", Line: 1}, true},
		{"function mult 2", Instruction{Op: OpFunction, Name: "mult", Index: 2, Line: 1}, true},
		{"call mult 2", Instruction{Op: OpCall, Name: "mult", Index: 2, Line: 1}, true},
		{"return", Instruction{Op: OpReturn, Line: 1}, true},
		{"end", Instruction{Op: OpEnd, Line: 1}, true},
		{"set sp 256", Instruction{Op: OpSet, Register: RegSP, Index: 256, Line: 1}, true},
	}
	for _, tc := range tests {
		got, ok, err := ParseLine(tc.line, 1)
		if err != nil {
			t.Errorf("ParseLine(%q) error: %v", tc.line, err)
			continue
		}
		if ok != tc.wantOk {
			t.Errorf("ParseLine(%q) ok = %v; want %v", tc.line, ok, tc.wantOk)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseLine(%q) = %+v; want %+v", tc.line, got, tc.want)
		}
	}
}

func TestParseLineErrors(t *testing.T) {
	tests := map[string]error{
		"jump somewhere":     ErrUnknownOpcode,
		"PUSH constant 1":    ErrUnknownOpcode,
		"push constant":      ErrOperandCount,
		"add 1":              ErrOperandCount,
		"return now":         ErrOperandCount,
		"call f":             ErrOperandCount,
		"push heap 1":        ErrBadOperand,
		"pop constant 3":     ErrBadOperand,
		"push local x":       ErrBadOperand,
		"label 1abc":         ErrBadOperand,
		"goto a-b":           ErrBadOperand,
		"function main many": ErrBadOperand,
		"set pc 0":           ErrBadOperand,
	}
	for line, want := range tests {
		_, _, err := ParseLine(line, 9)
		if !errors.Is(err, want) {
			t.Errorf("ParseLine(%q) error = %v; want %v", line, err, want)
			continue
		}
		var se *SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("ParseLine(%q) error %T is not a *SyntaxError", line, err)
			continue
		}
		if se.Line != 9 {
			t.Errorf("ParseLine(%q) reported line %d; want 9", line, se.Line)
		}
	}
}

func TestParse(t *testing.T) {
	src := `// adds two numbers
push constant 7

push constant 5
add
`
	got, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []Instruction{
		{Op: OpPush, Segment: SegConstant, Index: 7, Line: 2},
		{Op: OpPush, Segment: SegConstant, Index: 5, Line: 4},
		{Op: OpAdd, Line: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse = %+v; want %+v", got, want)
	}
}

func TestParseStopsAtFirstError(t *testing.T) {
	_, err := Parse("push constant 1\nfrobnicate\npush constant 2\n")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if se.Line != 2 || se.Text != "frobnicate" {
		t.Errorf("got line %d text %q; want line 2 text \"frobnicate\"", se.Line, se.Text)
	}
}

func TestInstructionString(t *testing.T) {
	for _, line := range []string{
		"push argument 3",
		"pop temp 6",
		"sub",
		"if-goto END",
		"call Math.multiply 2",
		"set that 3010",
		"end",
	} {
		in, _, err := ParseLine(line, 1)
		if err != nil {
			t.Fatalf("ParseLine(%q): %v", line, err)
		}
		if got := in.String(); got != line {
			t.Errorf("String() = %q; want %q", got, line)
		}
	}
}

func TestOpcodeTables(t *testing.T) {
	for op := OpPush; op < opCount; op++ {
		got, ok := LookupOpcode(op.String())
		if !ok || got != op {
			t.Errorf("LookupOpcode(%q) = %v, %v; want %v", op.String(), got, ok, op)
		}
	}
	if _, ok := LookupOpcode("invalid"); ok {
		t.Error("LookupOpcode(\"invalid\") should fail")
	}
	if !OpSub.IsBinary() || OpNeg.IsBinary() || !OpNot.IsUnary() || !OpEq.IsRelational() {
		t.Error("opcode class predicates disagree with the instruction set")
	}
	if !SegThat.Indirect() || SegTemp.Indirect() || SegStatic.Indirect() {
		t.Error("Segment.Indirect disagrees with the addressing rules")
	}
}
