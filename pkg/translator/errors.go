package translator

import (
	"errors"
	"fmt"
)

var (
	ErrMissingModule   = errors.New("missing required module")
	ErrDuplicateModule = errors.New("duplicate module")
	ErrDuplicateLabel  = errors.New("duplicate label")
	ErrBadModuleName   = errors.New("module name is not a valid symbol")
)

// ModuleError reports the module whose translation failed. Err is usually a
// *vm.SyntaxError carrying the line.
type ModuleError struct {
	Module string
	Err    error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %s: %v", e.Module, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}
