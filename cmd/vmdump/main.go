package main

import (
	"fmt"
	"os"

	"hackvm/pkg/asm"
	"hackvm/pkg/config"
	"hackvm/pkg/translator"
	"hackvm/pkg/utils"
	"hackvm/pkg/vm"
)

var testModules = []translator.Module{
	{Name: translator.SysModule, Source: "set sp 256\ncall main 0\nend\n"},
	{Name: translator.MainModule, Source: `function main 0
push constant 7
push constant 5
add
return
`},
}

// vmdump prints every stage of the pipeline: the parsed instructions and
// assembly of each module, then the linked program and its machine code.
func main() {
	mods := testModules
	if len(os.Args) > 1 {
		var err error
		mods, err = utils.LoadModules(os.Args[1:]...)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
	}

	opts, err := config.Load().Options()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	ordered, err := translator.OrderModules(mods)
	if err != nil {
		fmt.Fprintln(os.Stderr, "module error:", err)
		os.Exit(1)
	}

	// Per module, sharing one session so labels match the linked output
	session := translator.NewSession(opts)
	for _, m := range ordered {
		prog, err := vm.Parse(m.Source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse error in %s: %v\n", m.Name, err)
			os.Exit(1)
		}

		fmt.Printf("Module %s: instructions (%d)\n", m.Name, len(prog))
		for _, in := range prog {
			fmt.Printf("  %4d  %s\n", in.Line, in)
		}
		fmt.Println()

		out, err := session.TranslateInstructions(m.Name, prog)
		if err != nil {
			fmt.Fprintln(os.Stderr, "translate error:", err)
			os.Exit(1)
		}
		fmt.Printf("Module %s: assembly (%d lines)\n", m.Name, len(out.Lines))
		for _, l := range out.Lines {
			fmt.Println(" ", l)
		}
		fmt.Println()
	}

	// Link
	linked, err := translator.Link(mods, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "link error:", err)
		os.Exit(1)
	}
	fmt.Printf("Linked Program (%s)\n", linked.ModuleNames())
	fmt.Print(linked)
	fmt.Println()

	// Assemble
	words, srcMap, err := asm.Assemble(linked.String())
	if err != nil {
		fmt.Fprintln(os.Stderr, "assemble error:", err)
		os.Exit(1)
	}
	fmt.Printf("Machine Code (%d words)\n", len(words))
	for i, b := range asm.Binary(words) {
		fmt.Printf("  %5d  %s  ; line %d\n", i, b, srcMap[uint16(i)])
	}
}
