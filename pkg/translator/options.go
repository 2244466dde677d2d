package translator

import "fmt"

// RelationalMode selects the jump condition used for eq.
type RelationalMode int

const (
	// RelationalStrict branches eq on JEQ, lt on JLT and gt on JGT.
	RelationalStrict RelationalMode = iota
	// RelationalLegacy is the older code generation, where eq branches on
	// JGT exactly like gt does.
	RelationalLegacy
)

func (m RelationalMode) String() string {
	switch m {
	case RelationalStrict:
		return "strict"
	case RelationalLegacy:
		return "legacy"
	}
	return fmt.Sprintf("RelationalMode(%d)", int(m))
}

// ParseRelationalMode accepts "strict" or "legacy".
func ParseRelationalMode(s string) (RelationalMode, error) {
	switch s {
	case "strict", "":
		return RelationalStrict, nil
	case "legacy":
		return RelationalLegacy, nil
	}
	return 0, fmt.Errorf("unknown relational mode %q (want strict or legacy)", s)
}

// StaticsMode selects how the static segment is laid out.
type StaticsMode int

const (
	// StaticsGlobal maps static i to RAM[16+i] in every module, so modules
	// that use the same index share the cell.
	StaticsGlobal StaticsMode = iota
	// StaticsPerModule maps static i to the symbol <module>.<i>, leaving the
	// assembler to allocate one cell per module and index.
	StaticsPerModule
)

func (m StaticsMode) String() string {
	switch m {
	case StaticsGlobal:
		return "global"
	case StaticsPerModule:
		return "module"
	}
	return fmt.Sprintf("StaticsMode(%d)", int(m))
}

// ParseStaticsMode accepts "global" or "module".
func ParseStaticsMode(s string) (StaticsMode, error) {
	switch s {
	case "global", "":
		return StaticsGlobal, nil
	case "module":
		return StaticsPerModule, nil
	}
	return 0, fmt.Errorf("unknown statics mode %q (want global or module)", s)
}

// Options tune code generation. The zero value is the default.
type Options struct {
	Relational RelationalMode
	Statics    StaticsMode

	// Comments emits the module name and each VM instruction as assembly
	// comments ahead of the generated code.
	Comments bool
}
