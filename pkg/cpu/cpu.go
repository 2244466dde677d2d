package cpu

import (
	"errors"
	"fmt"
)

// Memory map of the Hack platform.
const (
	AddrSP   uint16 = 0
	AddrLCL  uint16 = 1
	AddrARG  uint16 = 2
	AddrTHIS uint16 = 3
	AddrTHAT uint16 = 4

	StackBase  uint16 = 256
	ScreenBase uint16 = 16384
	KBD        uint16 = 24576

	ROMSize = 32768
	RAMSize = 32768
)

var (
	ErrHalted          = errors.New("cpu halted")
	ErrCycleLimit      = errors.New("cycle limit reached")
	ErrProgramTooLarge = errors.New("program too large for ROM")
)

// Instruction field masks.
const (
	cBit    uint16 = 0x8000
	aBit    uint16 = 0x1000
	destA   uint16 = 0b100
	destD   uint16 = 0b010
	destM   uint16 = 0b001
	jumpLT  uint16 = 0b100
	jumpEQ  uint16 = 0b010
	jumpGT  uint16 = 0b001
	jumpAll uint16 = 0b111
)

// CPU is a Hack machine: A and D registers, a program counter, instruction
// ROM and data RAM with the screen and keyboard mapped in.
type CPU struct {
	A  uint16
	D  uint16
	PC uint16

	ROM [ROMSize]uint16
	RAM [RAMSize]uint16

	// Halted is set when the program runs off the end of ROM or enters a
	// self-jump loop (@X at address X followed by 0;JMP).
	Halted bool
	Cycles uint64

	programLen int
}

func NewCPU() *CPU {
	return &CPU{}
}

// Load copies words into ROM starting at address 0 and resets the machine.
func (c *CPU) Load(words []uint16) error {
	if len(words) > ROMSize {
		return fmt.Errorf("%w: %d words", ErrProgramTooLarge, len(words))
	}
	c.ROM = [ROMSize]uint16{}
	copy(c.ROM[:], words)
	c.programLen = len(words)
	c.Reset()
	return nil
}

// Reset clears registers and the halt flag. RAM is left alone.
func (c *CPU) Reset() {
	c.A, c.D, c.PC = 0, 0, 0
	c.Halted = false
	c.Cycles = 0
}

// Bootstrap points SP at the stack base, the state a sys module would
// otherwise establish with "set sp 256".
func (c *CPU) Bootstrap() {
	c.RAM[AddrSP] = StackBase
}

func (c *CPU) read(addr uint16) uint16 {
	return c.RAM[addr&(RAMSize-1)]
}

func (c *CPU) write(addr, val uint16) {
	c.RAM[addr&(RAMSize-1)] = val
}

// ReadMem returns the RAM word at addr.
func (c *CPU) ReadMem(addr uint16) uint16 {
	return c.read(addr)
}

// WriteMem stores val at addr.
func (c *CPU) WriteMem(addr, val uint16) {
	c.write(addr, val)
}

// SetKey publishes the currently pressed key code (0 for none).
func (c *CPU) SetKey(code uint16) {
	c.write(KBD, code)
}

// ALU computes the Hack ALU function selected by the six control bits
// zx nx zy ny f no (most significant first).
func ALU(x, y, ctrl uint16) uint16 {
	if ctrl&0b100000 != 0 {
		x = 0
	}
	if ctrl&0b010000 != 0 {
		x = ^x
	}
	if ctrl&0b001000 != 0 {
		y = 0
	}
	if ctrl&0b000100 != 0 {
		y = ^y
	}
	var out uint16
	if ctrl&0b000010 != 0 {
		out = x + y
	} else {
		out = x & y
	}
	if ctrl&0b000001 != 0 {
		out = ^out
	}
	return out
}

func jumps(out, cond uint16) bool {
	v := int16(out)
	switch {
	case v < 0:
		return cond&jumpLT != 0
	case v == 0:
		return cond&jumpEQ != 0
	default:
		return cond&jumpGT != 0
	}
}

// Step executes one instruction.
func (c *CPU) Step() error {
	if c.Halted {
		return ErrHalted
	}
	if int(c.PC) >= c.programLen {
		c.Halted = true
		return nil
	}

	instr := c.ROM[c.PC]
	c.Cycles++

	if instr&cBit == 0 {
		c.A = instr
		c.PC++
		return nil
	}

	y := c.A
	if instr&aBit != 0 {
		y = c.read(c.A)
	}
	out := ALU(c.D, y, (instr>>6)&0x3F)

	dest := (instr >> 3) & 0b111
	cond := instr & 0b111
	target := c.A

	// M is addressed by A as it was before this instruction
	if dest&destM != 0 {
		c.write(target, out)
	}
	if dest&destA != 0 {
		c.A = out
	}
	if dest&destD != 0 {
		c.D = out
	}

	if cond != 0 && jumps(out, cond) {
		if cond == jumpAll && c.isHaltLoop(target) {
			c.Halted = true
		}
		c.PC = target
		return nil
	}
	c.PC++
	return nil
}

// isHaltLoop reports whether jumping to target from PC re-enters the
// preceding "@target" forever.
func (c *CPU) isHaltLoop(target uint16) bool {
	return c.PC > 0 && target == c.PC-1 && c.ROM[target] == target
}

// Run steps until the machine halts. A maxCycles of zero means no limit.
func (c *CPU) Run(maxCycles uint64) error {
	for !c.Halted {
		if maxCycles > 0 && c.Cycles >= maxCycles {
			return fmt.Errorf("%w after %d cycles at PC=%d", ErrCycleLimit, c.Cycles, c.PC)
		}
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// SP returns the stack pointer register.
func (c *CPU) SP() uint16 {
	return c.RAM[AddrSP]
}

// StackValues returns the words between the stack base and SP, bottom first.
func (c *CPU) StackValues() []int16 {
	sp := c.SP()
	if sp <= StackBase {
		return nil
	}
	out := make([]int16, 0, sp-StackBase)
	for addr := StackBase; addr < sp; addr++ {
		out = append(out, int16(c.read(addr)))
	}
	return out
}

// StackTop returns the word just below SP.
func (c *CPU) StackTop() (int16, bool) {
	sp := c.SP()
	if sp <= StackBase {
		return 0, false
	}
	return int16(c.read(sp - 1)), true
}

func (c *CPU) String() string {
	return fmt.Sprintf("PC=%d A=%d D=%d SP=%d LCL=%d ARG=%d THIS=%d THAT=%d",
		c.PC, c.A, int16(c.D), c.RAM[AddrSP], c.RAM[AddrLCL], c.RAM[AddrARG], c.RAM[AddrTHIS], c.RAM[AddrTHAT])
}
