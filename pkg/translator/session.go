package translator

import (
	"fmt"
	"sort"
	"strings"

	"hackvm/pkg/vm"
)

// Module names that every program must provide. sys is emitted first so its
// bootstrap code sits at address 0.
const (
	SysModule  = "sys"
	MainModule = "main"
)

// Module is one VM source unit, named after its file without extension.
type Module struct {
	Name   string
	Source string
}

// ModuleOutput is the assembly translated from one module.
type ModuleOutput struct {
	Name  string
	Lines []Line
}

// Session owns the label counter shared by every module it translates.
// Separate sessions never share ordinals.
type Session struct {
	opts    Options
	counter *LabelCounter

	// labels and function names defined so far, with where they came from
	labels map[string]labelSite
}

type labelSite struct {
	module string
	line   int
}

// NewSession starts a session whose first ordinal is 1.
func NewSession(opts Options) *Session {
	return NewSessionWithCounter(opts, NewLabelCounter(1))
}

// NewSessionWithCounter starts a session on an existing counter.
func NewSessionWithCounter(opts Options, counter *LabelCounter) *Session {
	return &Session{opts: opts, counter: counter, labels: map[string]labelSite{}}
}

// Counter exposes the session's label counter.
func (s *Session) Counter() *LabelCounter {
	return s.counter
}

// TranslateModule parses and translates one module. On failure nothing of
// the module is returned and the error is a *ModuleError.
func (s *Session) TranslateModule(name, src string) (ModuleOutput, error) {
	prog, err := vm.Parse(src)
	if err != nil {
		return ModuleOutput{}, &ModuleError{Module: name, Err: err}
	}
	return s.TranslateInstructions(name, prog)
}

// TranslateInstructions translates already parsed instructions. Labels and
// function names share one namespace across the session, so redefining one
// is an error.
func (s *Session) TranslateInstructions(name string, prog []vm.Instruction) (ModuleOutput, error) {
	defined, err := s.checkLabels(name, prog)
	if err != nil {
		return ModuleOutput{}, &ModuleError{Module: name, Err: err}
	}

	t := &moduleTranslator{
		module:  name,
		opts:    s.opts,
		counter: s.counter,
		b:       &Builder{},
	}
	if err := t.translateAll(prog); err != nil {
		return ModuleOutput{}, &ModuleError{Module: name, Err: err}
	}
	for label, site := range defined {
		s.labels[label] = site
	}
	return ModuleOutput{Name: name, Lines: t.b.Lines()}, nil
}

// checkLabels returns the labels prog defines, or an error for the first one
// already defined earlier in the module or the session.
func (s *Session) checkLabels(module string, prog []vm.Instruction) (map[string]labelSite, error) {
	defined := map[string]labelSite{}
	for _, in := range prog {
		if in.Op != vm.OpLabel && in.Op != vm.OpFunction {
			continue
		}
		prev, ok := s.labels[in.Name]
		if !ok {
			prev, ok = defined[in.Name]
		}
		if ok {
			return nil, &vm.SyntaxError{
				Line: in.Line,
				Text: in.String(),
				Err:  fmt.Errorf("%w %s, first defined in %s line %d", ErrDuplicateLabel, in.Name, prev.module, prev.line),
			}
		}
		defined[in.Name] = labelSite{module: module, line: in.Line}
	}
	return defined, nil
}

// Link checks that sys and main are present, orders the modules and
// translates them in that order on the session counter. Any failure yields
// no program.
func (s *Session) Link(modules []Module) (*Program, error) {
	ordered, err := OrderModules(modules)
	if err != nil {
		return nil, err
	}

	prog := &Program{}
	for _, m := range ordered {
		out, err := s.TranslateModule(m.Name, m.Source)
		if err != nil {
			return nil, err
		}
		prog.Modules = append(prog.Modules, out)
	}
	return prog, nil
}

// Link translates modules in a fresh session.
func Link(modules []Module, opts Options) (*Program, error) {
	return NewSession(opts).Link(modules)
}

// OrderModules returns sys, main and then the remaining modules sorted by
// name. It fails if sys or main is missing or a name repeats.
func OrderModules(modules []Module) ([]Module, error) {
	byName := make(map[string]Module, len(modules))
	for _, m := range modules {
		if _, dup := byName[m.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateModule, m.Name)
		}
		byName[m.Name] = m
	}
	for _, required := range []string{SysModule, MainModule} {
		if _, ok := byName[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingModule, required)
		}
	}

	rest := make([]string, 0, len(modules))
	for name := range byName {
		if name != SysModule && name != MainModule {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)

	ordered := []Module{byName[SysModule], byName[MainModule]}
	for _, name := range rest {
		ordered = append(ordered, byName[name])
	}
	return ordered, nil
}

// Program is the linked assembly handed to the assembler.
type Program struct {
	Modules []ModuleOutput
}

// Lines concatenates every module's lines in link order.
func (p *Program) Lines() []Line {
	var out []Line
	for _, m := range p.Modules {
		out = append(out, m.Lines...)
	}
	return out
}

// String renders the program as assembly source.
func (p *Program) String() string {
	return renderLines(p.Lines())
}

// Labels lists every (SYMBOL) pseudo-instruction in program order.
func (p *Program) Labels() []string {
	var out []string
	for _, l := range p.Lines() {
		if l.Kind == LabelLine {
			out = append(out, strings.TrimSuffix(strings.TrimPrefix(l.Text, "("), ")"))
		}
	}
	return out
}

// ModuleNames lists the modules in link order.
func (p *Program) ModuleNames() []string {
	names := make([]string, len(p.Modules))
	for i, m := range p.Modules {
		names[i] = m.Name
	}
	return names
}
