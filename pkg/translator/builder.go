package translator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LineKind classifies an emitted assembly line.
type LineKind int

const (
	AInstruction LineKind = iota // @value
	CInstruction                 // dest=comp;jump
	LabelLine                    // (SYMBOL)
	CommentLine                  // // text
)

// Line is one emitted assembly record.
type Line struct {
	Kind LineKind
	Text string
}

func (l Line) String() string {
	return l.Text
}

// Builder is an append-only sequence of assembly lines. Nothing reads back or
// rewrites what was already emitted.
type Builder struct {
	lines []Line
}

func (b *Builder) at(symbol string) {
	b.lines = append(b.lines, Line{Kind: AInstruction, Text: "@" + symbol})
}

func (b *Builder) atInt(n int) {
	b.at(strconv.Itoa(n))
}

// loadD leaves n, truncated to a 16-bit word, in D. An A-instruction only
// carries 15 bits, so negative values load their magnitude and negate it.
func (b *Builder) loadD(n int) {
	v := int16(n)
	switch {
	case v >= 0:
		b.atInt(int(v))
		b.c("D", "A", "")
	case v == math.MinInt16:
		b.atInt(math.MaxInt16)
		b.c("D", "A", "")
		b.c("D", "D+1", "")
	default:
		b.atInt(int(-v))
		b.c("D", "-A", "")
	}
}

// c emits a compute instruction; dest and jump may be empty.
func (b *Builder) c(dest, comp, jump string) {
	var sb strings.Builder
	if dest != "" {
		sb.WriteString(dest)
		sb.WriteByte('=')
	}
	sb.WriteString(comp)
	if jump != "" {
		sb.WriteByte(';')
		sb.WriteString(jump)
	}
	b.lines = append(b.lines, Line{Kind: CInstruction, Text: sb.String()})
}

func (b *Builder) label(symbol string) {
	b.lines = append(b.lines, Line{Kind: LabelLine, Text: "(" + symbol + ")"})
}

func (b *Builder) comment(format string, args ...any) {
	b.lines = append(b.lines, Line{Kind: CommentLine, Text: "// " + fmt.Sprintf(format, args...)})
}

// Len is the number of lines emitted so far.
func (b *Builder) Len() int {
	return len(b.lines)
}

// Lines returns a copy of the emitted lines.
func (b *Builder) Lines() []Line {
	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

// String renders the lines one per row, newline terminated.
func (b *Builder) String() string {
	return renderLines(b.lines)
}

func renderLines(lines []Line) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}
