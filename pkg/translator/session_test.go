package translator

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"hackvm/pkg/asm"
	"hackvm/pkg/vm"
)

func TestOrderModules(t *testing.T) {
	in := []Module{
		{Name: "zeta"},
		{Name: MainModule},
		{Name: "alpha"},
		{Name: SysModule},
		{Name: "math"},
	}
	got, err := OrderModules(in)
	if err != nil {
		t.Fatalf("OrderModules: %v", err)
	}
	var names []string
	for _, m := range got {
		names = append(names, m.Name)
	}
	want := []string{"sys", "main", "alpha", "math", "zeta"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v; want %v", names, want)
	}

	// same set, different input order, same result
	rev := make([]Module, len(in))
	for i, m := range in {
		rev[len(in)-1-i] = m
	}
	again, _ := OrderModules(rev)
	if !reflect.DeepEqual(got, again) {
		t.Errorf("order depends on input order: %v vs %v", got, again)
	}
}

func TestLinkMissingModules(t *testing.T) {
	tests := map[string][]Module{
		"no main": {{Name: "sys", Source: "end"}, {Name: "lib", Source: "add"}},
		"no sys":  {{Name: "main", Source: "end"}},
		"empty":   nil,
	}
	for name, mods := range tests {
		prog, err := Link(mods, Options{})
		if !errors.Is(err, ErrMissingModule) {
			t.Errorf("%s: err = %v; want ErrMissingModule", name, err)
		}
		if prog != nil {
			t.Errorf("%s: got a program despite the error", name)
		}
	}
}

func TestLinkMissingMainBeforeTranslation(t *testing.T) {
	// the malformed module would fail translation, but the session check
	// comes first
	_, err := Link([]Module{{Name: "sys", Source: "bogus"}}, Options{})
	if !errors.Is(err, ErrMissingModule) {
		t.Fatalf("err = %v; want ErrMissingModule", err)
	}
}

func TestLinkDuplicateModule(t *testing.T) {
	_, err := Link([]Module{{Name: "sys"}, {Name: "main"}, {Name: "main"}}, Options{})
	if !errors.Is(err, ErrDuplicateModule) {
		t.Fatalf("err = %v; want ErrDuplicateModule", err)
	}
}

func TestLinkModuleError(t *testing.T) {
	mods := []Module{
		{Name: "sys", Source: "call main 0\nend"},
		{Name: "main", Source: "function main 0\npush constant 1\nreturn"},
		{Name: "lib", Source: "push constant 1\n\npush constant 2\nmul\n"},
	}
	prog, err := Link(mods, Options{})
	if prog != nil {
		t.Fatal("expected no program")
	}
	var me *ModuleError
	if !errors.As(err, &me) || me.Module != "lib" {
		t.Fatalf("err = %v; want *ModuleError for lib", err)
	}
	var se *vm.SyntaxError
	if !errors.As(err, &se) || se.Line != 4 {
		t.Fatalf("err = %v; want *vm.SyntaxError on line 4", err)
	}
	if !errors.Is(err, vm.ErrUnknownOpcode) {
		t.Errorf("err = %v; want ErrUnknownOpcode", err)
	}
	if !strings.Contains(err.Error(), "lib") || !strings.Contains(err.Error(), "line 4") {
		t.Errorf("error text %q lacks module or line", err)
	}
}

func TestLinkOrderAndConcatenation(t *testing.T) {
	mods := []Module{
		{Name: "util", Source: "function util.id 0\npush argument 0\nreturn"},
		{Name: "main", Source: "function main 0\npush constant 1\nreturn"},
		{Name: "sys", Source: "set sp 256\ncall main 0\nend"},
	}
	prog, err := Link(mods, Options{})
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if got := prog.ModuleNames(); !reflect.DeepEqual(got, []string{"sys", "main", "util"}) {
		t.Errorf("module order = %v", got)
	}

	var concat []Line
	for _, m := range prog.Modules {
		concat = append(concat, m.Lines...)
	}
	if !reflect.DeepEqual(prog.Lines(), concat) {
		t.Error("Lines() is not the module concatenation")
	}
	// bootstrap first: the program starts with sys's set sp 256
	if !strings.HasPrefix(prog.String(), "@256\nD=A\n@SP\nM=D\n") {
		t.Errorf("program does not start with sys:\n%s", prog.String()[:40])
	}
}

func TestCounterSharedAcrossModules(t *testing.T) {
	mods := []Module{
		{Name: "sys", Source: "push constant 1\npush constant 1\neq\nend"},
		{Name: "main", Source: "push constant 1\npush constant 2\neq"},
		{Name: "other", Source: "push constant 3\npush constant 4\neq"},
	}
	s := NewSession(Options{})
	prog, err := s.Link(mods)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	want := []string{
		"EQ_TRUE_3", "EQ_END_3", "HALT_4",
		"EQ_TRUE_7", "EQ_END_7",
		"EQ_TRUE_10", "EQ_END_10",
	}
	if got := prog.Labels(); !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v; want %v", got, want)
	}
	if next := s.Counter().Peek(); next != 11 {
		t.Errorf("counter after session = %d; want 11", next)
	}
}

func TestSeededCounter(t *testing.T) {
	s := NewSessionWithCounter(Options{}, NewLabelCounter(500))
	out, err := s.TranslateModule("m", "lt\ncall f 0")
	if err != nil {
		t.Fatal(err)
	}
	text := renderLines(out.Lines)
	for _, want := range []string{"(LT_TRUE_500)", "(LT_END_500)", "(f$ret.501)"} {
		if !strings.Contains(text, want) {
			t.Errorf("output lacks %s", want)
		}
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	mods := []Module{
		{Name: "sys", Source: "call main 0\nend"},
		{Name: "main", Source: "function main 0\npush constant 1\npush constant 2\nlt\nreturn"},
	}
	a, err := Link(mods, Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Link(mods, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("two sessions over the same input differ:\n%s", diff(a.String(), b.String()))
	}
}

func TestCallSitesGetDistinctReturnLabels(t *testing.T) {
	mods := []Module{
		{Name: "sys", Source: "set sp 256\ncall main 0\nend"},
		{Name: "main", Source: `function main 0
push constant 1
call helper.twice 1
push constant 2
call helper.twice 1
add
push constant 3
push constant 4
gt
pop temp 0
return`},
		{Name: "helper", Source: `function helper.twice 0
push argument 0
push argument 0
add
push argument 0
push constant 0
eq
pop temp 1
return`},
	}
	prog, err := Link(mods, Options{})
	if err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	var rets []string
	for _, l := range prog.Labels() {
		if seen[l] {
			t.Errorf("label %s emitted twice", l)
		}
		seen[l] = true
		if strings.HasPrefix(l, "helper.twice$ret.") {
			rets = append(rets, l)
		}
	}
	if len(rets) != 2 || rets[0] == rets[1] {
		t.Errorf("return labels for helper.twice = %v; want two distinct", rets)
	}

	// the assembler rejects duplicate labels, so this must assemble
	if _, _, err := asm.Assemble(prog.String()); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
}

func TestLabelCounter(t *testing.T) {
	c := NewLabelCounter(1)
	if c.Next() != 1 || c.Next() != 2 || c.Peek() != 3 {
		t.Fatal("counter does not advance by one")
	}
	if first := c.Reserve(10); first != 3 || c.Peek() != 13 {
		t.Errorf("Reserve(10) = %d, next %d; want 3, 13", first, c.Peek())
	}
}

func TestPerModuleStaticsNeedSymbolNames(t *testing.T) {
	base := []Module{
		{Name: "sys", Source: "call main 0\nend"},
		{Name: "main", Source: "function main 0\npush constant 0\nreturn"},
	}
	for _, name := range []string{"my-lib", "1util"} {
		mods := append(base, Module{Name: name, Source: "function lib.get 0\n\npush static 0\nreturn"})

		_, err := Link(mods, Options{Statics: StaticsPerModule})
		if !errors.Is(err, ErrBadModuleName) {
			t.Errorf("%s: err = %v; want ErrBadModuleName", name, err)
			continue
		}
		var me *ModuleError
		var se *vm.SyntaxError
		if !errors.As(err, &me) || me.Module != name || !errors.As(err, &se) || se.Line != 3 {
			t.Errorf("%s: err = %v; want module %s line 3", name, err, name)
		}

		// global statics never use the name
		prog, err := Link(mods, Options{})
		if err != nil {
			t.Fatalf("%s: global statics: %v", name, err)
		}
		if _, _, err := asm.Assemble(prog.String()); err != nil {
			t.Errorf("%s: global statics do not assemble: %v", name, err)
		}
	}

	// no statics, no symbol needed
	mods := append(base, Module{Name: "my-lib", Source: "function lib.id 0\npush argument 0\nreturn"})
	if _, err := Link(mods, Options{Statics: StaticsPerModule}); err != nil {
		t.Errorf("module without statics: %v", err)
	}
}

func TestDuplicateLabels(t *testing.T) {
	tests := []struct {
		name   string
		mods   []Module
		module string
		line   int
	}{
		{
			name: "across modules",
			mods: []Module{
				{Name: "sys", Source: "label LOOP\ngoto LOOP"},
				{Name: "main"},
				{Name: "util", Source: "function util.f 0\nlabel LOOP\nreturn"},
			},
			module: "util",
			line:   2,
		},
		{
			name: "function defined twice",
			mods: []Module{
				{Name: "sys", Source: "end"},
				{Name: "main", Source: "function main 0\nreturn\n\nfunction main 1\nreturn"},
			},
			module: "main",
			line:   4,
		},
		{
			name: "label named like a function",
			mods: []Module{
				{Name: "sys", Source: "end"},
				{Name: "main", Source: "function main 0\nreturn"},
				{Name: "zz", Source: "label main"},
			},
			module: "zz",
			line:   1,
		},
	}
	for _, tc := range tests {
		_, err := Link(tc.mods, Options{})
		if !errors.Is(err, ErrDuplicateLabel) {
			t.Errorf("%s: err = %v; want ErrDuplicateLabel", tc.name, err)
			continue
		}
		var me *ModuleError
		var se *vm.SyntaxError
		if !errors.As(err, &me) || me.Module != tc.module || !errors.As(err, &se) || se.Line != tc.line {
			t.Errorf("%s: err = %v; want module %s line %d", tc.name, err, tc.module, tc.line)
		}
	}

	// each session has its own namespace
	mods := []Module{{Name: "sys", Source: "label LOOP\nend"}, {Name: "main"}}
	for i := 0; i < 2; i++ {
		if _, err := Link(mods, Options{}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}
