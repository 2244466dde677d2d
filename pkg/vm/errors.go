package vm

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrOperandCount  = errors.New("wrong operand count")
	ErrBadOperand    = errors.New("invalid operand")
)

// SyntaxError locates a malformed instruction in its source.
type SyntaxError struct {
	Line int
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
