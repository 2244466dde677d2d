package vm

import "fmt"

// Segment is one of the eight VM address spaces.
type Segment int

const (
	SegNone Segment = iota
	SegConstant
	SegLocal
	SegArgument
	SegThis
	SegThat
	SegTemp
	SegPointer
	SegStatic

	segCount
)

var segmentNames = [...]string{
	SegNone:     "none",
	SegConstant: "constant",
	SegLocal:    "local",
	SegArgument: "argument",
	SegThis:     "this",
	SegThat:     "that",
	SegTemp:     "temp",
	SegPointer:  "pointer",
	SegStatic:   "static",
}

var segmentsByName = map[string]Segment{
	"constant": SegConstant,
	"local":    SegLocal,
	"argument": SegArgument,
	"this":     SegThis,
	"that":     SegThat,
	"temp":     SegTemp,
	"pointer":  SegPointer,
	"static":   SegStatic,
}

// LookupSegment maps a segment keyword to its Segment.
func LookupSegment(name string) (Segment, bool) {
	s, ok := segmentsByName[name]
	return s, ok
}

func (s Segment) String() string {
	if s < 0 || s >= segCount {
		return fmt.Sprintf("Segment(%d)", int(s))
	}
	return segmentNames[s]
}

// Indirect reports whether the segment is addressed through a base-pointer
// register (LCL, ARG, THIS, THAT).
func (s Segment) Indirect() bool {
	switch s {
	case SegLocal, SegArgument, SegThis, SegThat:
		return true
	}
	return false
}

// Register names a pointer register that the set instruction can write.
type Register int

const (
	RegNone Register = iota
	RegSP
	RegLocal
	RegArgument
	RegThis
	RegThat
)

var registersByName = map[string]Register{
	"sp":       RegSP,
	"local":    RegLocal,
	"argument": RegArgument,
	"this":     RegThis,
	"that":     RegThat,
}

var registerNames = [...]string{
	RegNone:     "none",
	RegSP:       "sp",
	RegLocal:    "local",
	RegArgument: "argument",
	RegThis:     "this",
	RegThat:     "that",
}

// LookupRegister maps a set-instruction register keyword to its Register.
func LookupRegister(name string) (Register, bool) {
	r, ok := registersByName[name]
	return r, ok
}

func (r Register) String() string {
	if r < 0 || int(r) >= len(registerNames) {
		return fmt.Sprintf("Register(%d)", int(r))
	}
	return registerNames[r]
}
