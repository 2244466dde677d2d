package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// compTable maps a comp mnemonic to the a-bit and c1..c6 (7 bits).
var compTable = map[string]uint16{
	"0":   0b0101010,
	"1":   0b0111111,
	"-1":  0b0111010,
	"D":   0b0001100,
	"A":   0b0110000,
	"!D":  0b0001101,
	"!A":  0b0110001,
	"-D":  0b0001111,
	"-A":  0b0110011,
	"D+1": 0b0011111,
	"A+1": 0b0110111,
	"D-1": 0b0001110,
	"A-1": 0b0110010,
	"D+A": 0b0000010,
	"A+D": 0b0000010,
	"D-A": 0b0010011,
	"A-D": 0b0000111,
	"D&A": 0b0000000,
	"A&D": 0b0000000,
	"D|A": 0b0010101,
	"A|D": 0b0010101,
	"M":   0b1110000,
	"!M":  0b1110001,
	"-M":  0b1110011,
	"M+1": 0b1110111,
	"M-1": 0b1110010,
	"D+M": 0b1000010,
	"M+D": 0b1000010,
	"D-M": 0b1010011,
	"M-D": 0b1000111,
	"D&M": 0b1000000,
	"M&D": 0b1000000,
	"D|M": 0b1010101,
	"M|D": 0b1010101,
}

var destTable = map[string]uint16{
	"":    0b000,
	"M":   0b001,
	"D":   0b010,
	"MD":  0b011,
	"DM":  0b011,
	"A":   0b100,
	"AM":  0b101,
	"MA":  0b101,
	"AD":  0b110,
	"DA":  0b110,
	"AMD": 0b111,
	"ADM": 0b111,
}

var jumpTable = map[string]uint16{
	"":    0b000,
	"JGT": 0b001,
	"JEQ": 0b010,
	"JGE": 0b011,
	"JLT": 0b100,
	"JNE": 0b101,
	"JLE": 0b110,
	"JMP": 0b111,
}

// predefined symbols of the Hack platform
var predefined = map[string]uint16{
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"SCREEN": 16384,
	"KBD":    24576,
}

func init() {
	for i := 0; i < 16; i++ {
		predefined["R"+strconv.Itoa(i)] = uint16(i)
	}
}

const (
	// VariableBase is the first RAM cell handed to a new variable symbol.
	VariableBase = 16
	// MaxAddress is the largest value an A-instruction can load.
	MaxAddress = 0x7FFF
	// ROMSize is the number of instruction words the machine can hold.
	ROMSize = 32768
)

type lineKind int

const (
	kindNone lineKind = iota
	kindA
	kindC
	kindLabel
)

type parsedLine struct {
	lineNo int
	kind   lineKind
	value  string // A-instruction operand or label name
	dest   string
	comp   string
	jump   string
}

// Assembler translates Hack assembly into 16-bit words. Labels are bound in
// pass 1, variables get RAM cells from 16 upwards in pass 2.
type Assembler struct {
	symbols map[string]uint16
	nextVar uint16
}

func NewAssembler() *Assembler {
	symbols := make(map[string]uint16, len(predefined))
	for k, v := range predefined {
		symbols[k] = v
	}
	return &Assembler{
		symbols: symbols,
		nextVar: VariableBase,
	}
}

// Assemble runs a fresh assembler over code. The map relates each ROM
// address to its source line.
func Assemble(code string) ([]uint16, map[uint16]int, error) {
	return NewAssembler().Assemble(code)
}

func (a *Assembler) Assemble(code string) ([]uint16, map[uint16]int, error) {
	lines := strings.Split(code, "\n")

	parsed := make([]parsedLine, 0, len(lines))
	for i, raw := range lines {
		p, err := parseLine(raw, i+1)
		if err != nil {
			return nil, nil, err
		}
		if p.kind != kindNone {
			parsed = append(parsed, p)
		}
	}

	if err := a.pass1(parsed); err != nil {
		return nil, nil, err
	}
	return a.pass2(parsed)
}

// Symbol reports the address bound to name after assembly.
func (a *Assembler) Symbol(name string) (uint16, bool) {
	v, ok := a.symbols[name]
	return v, ok
}

func (a *Assembler) pass1(lines []parsedLine) error {
	var pc uint32
	for _, p := range lines {
		if p.kind != kindLabel {
			pc++
			continue
		}
		if pc > MaxAddress {
			return fmt.Errorf("label '%s' on line %d points past the end of ROM", p.value, p.lineNo)
		}
		if _, exists := a.symbols[p.value]; exists {
			return fmt.Errorf("duplicate label '%s' on line %d", p.value, p.lineNo)
		}
		a.symbols[p.value] = uint16(pc)
	}
	if pc > ROMSize {
		return fmt.Errorf("program too large: %d instructions", pc)
	}
	return nil
}

func (a *Assembler) pass2(lines []parsedLine) ([]uint16, map[uint16]int, error) {
	program := make([]uint16, 0, len(lines))
	sourceMap := make(map[uint16]int)

	for _, p := range lines {
		switch p.kind {
		case kindLabel:
			continue

		case kindA:
			addr, err := a.resolve(p.value, p.lineNo)
			if err != nil {
				return nil, nil, err
			}
			sourceMap[uint16(len(program))] = p.lineNo
			program = append(program, addr)

		case kindC:
			comp, ok := compTable[p.comp]
			if !ok {
				return nil, nil, fmt.Errorf("invalid comp '%s' on line %d", p.comp, p.lineNo)
			}
			dest, ok := destTable[p.dest]
			if !ok {
				return nil, nil, fmt.Errorf("invalid dest '%s' on line %d", p.dest, p.lineNo)
			}
			jump, ok := jumpTable[p.jump]
			if !ok {
				return nil, nil, fmt.Errorf("invalid jump '%s' on line %d", p.jump, p.lineNo)
			}
			sourceMap[uint16(len(program))] = p.lineNo
			program = append(program, EncodeC(comp, dest, jump))
		}
	}

	return program, sourceMap, nil
}

// resolve turns an A-instruction operand into a 15-bit value, allocating a
// variable for unseen symbols.
func (a *Assembler) resolve(token string, lineNo int) (uint16, error) {
	if isDigits(token) {
		value, err := strconv.ParseUint(token, 10, 32)
		if err != nil || value > MaxAddress {
			return 0, fmt.Errorf("constant out of range on line %d: %s", lineNo, token)
		}
		return uint16(value), nil
	}
	if !isSymbol(token) {
		return 0, fmt.Errorf("invalid symbol '%s' on line %d", token, lineNo)
	}
	if addr, ok := a.symbols[token]; ok {
		return addr, nil
	}
	if a.nextVar > MaxAddress {
		return 0, fmt.Errorf("out of variable space at '%s' on line %d", token, lineNo)
	}
	addr := a.nextVar
	a.symbols[token] = addr
	a.nextVar++
	return addr, nil
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := stripComments(raw)
	line = strings.Join(strings.Fields(line), "")
	if line == "" {
		return p, nil
	}

	switch {
	case line[0] == '@':
		p.kind = kindA
		p.value = line[1:]
		if p.value == "" {
			return p, fmt.Errorf("missing address on line %d", lineNo)
		}

	case line[0] == '(':
		if !strings.HasSuffix(line, ")") {
			return p, fmt.Errorf("unterminated label on line %d", lineNo)
		}
		p.kind = kindLabel
		p.value = line[1 : len(line)-1]
		if !isSymbol(p.value) {
			return p, fmt.Errorf("invalid label '%s' on line %d", p.value, lineNo)
		}

	default:
		p.kind = kindC
		rest := line
		if eq := strings.IndexByte(rest, '='); eq >= 0 {
			p.dest = rest[:eq]
			rest = rest[eq+1:]
			if p.dest == "" {
				return p, fmt.Errorf("empty dest on line %d", lineNo)
			}
		}
		if semi := strings.IndexByte(rest, ';'); semi >= 0 {
			p.jump = rest[semi+1:]
			rest = rest[:semi]
			if p.jump == "" {
				return p, fmt.Errorf("empty jump on line %d", lineNo)
			}
		}
		p.comp = rest
		if p.comp == "" {
			return p, fmt.Errorf("missing comp on line %d", lineNo)
		}
	}

	return p, nil
}

func stripComments(line string) string {
	if cut := strings.Index(line, "//"); cut >= 0 {
		return line[:cut]
	}
	return line
}

// EncodeC packs a C-instruction: 111 a c1..c6 d1 d2 d3 j1 j2 j3.
func EncodeC(comp, dest, jump uint16) uint16 {
	return 0b111<<13 | comp<<6 | dest<<3 | jump
}

// Binary renders each word as sixteen '0'/'1' characters.
func Binary(words []uint16) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = fmt.Sprintf("%016b", w)
	}
	return out
}

// FormatHack renders words in the .hack text format, one word per line.
func FormatHack(words []uint16) string {
	var sb strings.Builder
	for _, s := range Binary(words) {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseHack reads the .hack text format back into words.
func ParseHack(text string) ([]uint16, error) {
	var out []uint16
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if len(line) != 16 {
			return nil, fmt.Errorf("line %d: expected 16 bits, got %d", i+1, len(line))
		}
		w, err := strconv.ParseUint(line, 2, 16)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", i+1, err)
		}
		out = append(out, uint16(w))
	}
	return out, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isSymbol accepts letters, digits, '_', '.', '$' and ':' not starting with
// a digit.
func isSymbol(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r == '_', r == '.', r == '$', r == ':':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
