//go:build !js

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"hackvm/pkg/asm"
	"hackvm/pkg/config"
	"hackvm/pkg/cpu"
	"hackvm/pkg/translator"
	"hackvm/pkg/utils"
)

func main() {
	cfg := config.Load()

	outPath := flag.String("out", "", "output assembly file path (default: derived from the first input)")
	hackOut := flag.Bool("hack", false, "also assemble the output into a .hack file")
	runProgram := flag.Bool("run", false, "run the translated program on the emulator")
	maxCycles := flag.Int("max-cycles", cfg.MaxCycles, "emulator cycle budget for -run (0 for no limit)")
	screenshot := flag.String("screenshot", "", "with -run, save the screen to this PNG file")
	relational := flag.String("relational", cfg.Relational, "eq/lt/gt jump conditions: strict or legacy")
	statics := flag.String("statics", cfg.Statics, "static segment layout: global or module")
	comments := flag.Bool("comments", cfg.Comments, "annotate the output with the VM source")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <file.vm|dir>...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	sid, _ := uuid.NewRandom()
	log.SetPrefix("[" + sid.String()[:8] + "] ")
	log.SetFlags(0)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "nothing to do: provide .vm files or directories to translate")
		flag.Usage()
		os.Exit(2)
	}

	cfg.Relational, cfg.Statics, cfg.Comments = *relational, *statics, *comments
	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	prog, err := translateFiles(flag.Args(), opts)
	if err != nil {
		log.Fatalf("translation failed: %v", err)
	}

	output := *outPath
	if output == "" {
		output = defaultOutputPath(flag.Arg(0), ".asm")
	}
	assembly := prog.String()
	if err := os.WriteFile(output, []byte(assembly), 0o644); err != nil {
		log.Fatalf("failed to write %q: %v", output, err)
	}
	log.Printf("translated %s (%d lines) -> %s", strings.Join(prog.ModuleNames(), ", "), len(prog.Lines()), output)

	if !*hackOut && !*runProgram {
		return
	}

	words, _, err := asm.Assemble(assembly)
	if err != nil {
		log.Fatalf("assembly failed: %v", err)
	}
	if *hackOut {
		hackPath := strings.TrimSuffix(output, filepath.Ext(output)) + ".hack"
		if err := os.WriteFile(hackPath, []byte(asm.FormatHack(words)), 0o644); err != nil {
			log.Fatalf("failed to write %q: %v", hackPath, err)
		}
		log.Printf("assembled %d words -> %s", len(words), hackPath)
	}

	if *runProgram {
		vm, err := runWords(words, uint64(*maxCycles))
		if err != nil {
			log.Fatalf("run failed: %v", err)
		}
		fmt.Printf("run complete: cycles=%d %s\nstack: %v\n", vm.Cycles, vm, vm.StackValues())
		if *screenshot != "" {
			if err := vm.SaveScreenshot(*screenshot); err != nil {
				log.Fatalf("screenshot failed: %v", err)
			}
		}
	}
}

// translateFiles loads the modules named by paths and links them into one
// program.
func translateFiles(paths []string, opts translator.Options) (*translator.Program, error) {
	mods, err := utils.LoadModules(paths...)
	if err != nil {
		return nil, err
	}
	return translator.Link(mods, opts)
}

// defaultOutputPath names the output after the input: foo.vm becomes foo.asm
// and a directory dir becomes dir/dir.asm.
func defaultOutputPath(in, ext string) string {
	if info, err := os.Stat(in); err == nil && info.IsDir() {
		clean := filepath.Clean(in)
		return filepath.Join(clean, filepath.Base(clean)+ext)
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + ext
}

// runWords loads a program on a fresh machine and runs it to the halt loop.
// The stack pointer is preset, so a sys module without "set sp" still works.
func runWords(words []uint16, maxCycles uint64) (*cpu.CPU, error) {
	vm := cpu.NewCPU()
	if err := vm.Load(words); err != nil {
		return nil, err
	}
	vm.Bootstrap()
	if err := vm.Run(maxCycles); err != nil && !errors.Is(err, cpu.ErrHalted) {
		return vm, err
	}
	return vm, nil
}
