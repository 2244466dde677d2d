package main

import (
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"hackvm/pkg/asm"
	"hackvm/pkg/config"
	"hackvm/pkg/cpu"
	"hackvm/pkg/translator"
	"hackvm/pkg/utils"
)

const (
	stepsPerFrame = 20000
	overlayHeight = 32
)

// Hack keyboard codes for keys that have no printable character.
var specialKeys = map[ebiten.Key]uint16{
	ebiten.KeyEnter:     128,
	ebiten.KeyBackspace: 129,
	ebiten.KeyLeft:      130,
	ebiten.KeyUp:        131,
	ebiten.KeyRight:     132,
	ebiten.KeyDown:      133,
	ebiten.KeyHome:      134,
	ebiten.KeyEnd:       135,
	ebiten.KeyPageUp:    136,
	ebiten.KeyPageDown:  137,
	ebiten.KeyInsert:    138,
	ebiten.KeyDelete:    139,
	ebiten.KeyEscape:    140,
}

var overlayFace = text.NewGoXFace(basicfont.Face7x13)

type Game struct {
	vm        *cpu.CPU
	screenImg *ebiten.Image // reused 512×256 canvas
	held      uint16
	chars     []rune
	err       error
}

// pollKey returns the Hack code of the key currently held, or 0.
func (g *Game) pollKey() uint16 {
	for k, code := range specialKeys {
		if ebiten.IsKeyPressed(k) {
			return code
		}
	}
	g.chars = ebiten.AppendInputChars(g.chars[:0])
	if n := len(g.chars); n > 0 {
		g.held = uint16(g.chars[n-1])
	}
	if len(inpututil.AppendPressedKeys(nil)) == 0 {
		g.held = 0
	}
	return g.held
}

func (g *Game) Update() error {
	g.vm.SetKey(g.pollKey())

	for i := 0; i < stepsPerFrame && !g.vm.Halted; i++ {
		if err := g.vm.Step(); err != nil {
			g.err = err
			break
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.screenImg == nil {
		g.screenImg = ebiten.NewImage(cpu.ScreenWidth, cpu.ScreenHeight)
	}
	g.screenImg.WritePixels(g.vm.GetFramebufferRGBA())
	screen.DrawImage(g.screenImg, nil)

	status := g.vm.String()
	if g.vm.Halted {
		status += " [halted]"
	}
	if g.err != nil {
		status += " " + g.err.Error()
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(4, cpu.ScreenHeight+4)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, status, overlayFace, op)

	op = &text.DrawOptions{}
	op.GeoM.Translate(4, cpu.ScreenHeight+18)
	op.ColorScale.ScaleWithColor(color.Gray{Y: 0xA0})
	text.Draw(screen, fmt.Sprintf("cycles=%d stack=%v", g.vm.Cycles, tail(g.vm.StackValues(), 8)), overlayFace, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return cpu.ScreenWidth, cpu.ScreenHeight + overlayHeight
}

// tail returns at most the last n values.
func tail(vals []int16, n int) []int16 {
	if len(vals) > n {
		return vals[len(vals)-n:]
	}
	return vals
}

// newMachine translates and assembles the modules at paths and loads the
// result on a bootstrapped CPU.
func newMachine(paths []string, opts translator.Options) (*cpu.CPU, error) {
	mods, err := utils.LoadModules(paths...)
	if err != nil {
		return nil, err
	}
	prog, err := translator.Link(mods, opts)
	if err != nil {
		return nil, err
	}
	words, _, err := asm.Assemble(prog.String())
	if err != nil {
		return nil, err
	}
	vm := cpu.NewCPU()
	if err := vm.Load(words); err != nil {
		return nil, err
	}
	vm.Bootstrap()
	return vm, nil
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <file.vm|dir>...", os.Args[0])
	}

	cfg := config.Load()
	opts, err := cfg.Options()
	if err != nil {
		log.Fatal(err)
	}

	vm, err := newMachine(os.Args[1:], opts)
	if err != nil {
		log.Fatalf("Failed to build program: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cpu.ScreenWidth*cfg.Scale, (cpu.ScreenHeight+overlayHeight)*cfg.Scale)
	ebiten.SetWindowTitle("Hack VM Desktop")

	game := &Game{vm: vm}
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
