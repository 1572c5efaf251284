// Command latchvm runs a compiled bytecode program to completion (or to a
// bounded step count) and reports its terminal status as a process exit
// code.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/latchvm/latchvm/engine"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const maxProgramBytes = 65536

func main() {
	log.SetFlags(0)

	filename := flag.String("f", "", "bytecode file to run")
	verbose := flag.Bool("v", false, "debug logging; with -steps, also print each instruction before it executes")
	steps := flag.Uint64("steps", 0, "stop after this many steps (0 = run to completion)")
	jsonDump := flag.Bool("json", false, "print final state as JSON on exit")
	flag.Parse()

	if *filename == "" {
		log.Fatal("usage: latchvm -f <bytecode-file> [-v] [-steps N] [-json]")
	}

	program, err := os.ReadFile(*filename)
	if err != nil {
		log.Fatalf("latchvm: %v", err)
	}
	if len(program) > maxProgramBytes {
		log.Fatalf("latchvm: program is %d bytes, exceeds the %d byte limit", len(program), maxProgramBytes)
	}

	if *verbose {
		logger, _ := zap.NewDevelopment()
		engine.SetLogger(logger)
	}

	eng := engine.New()
	if err := eng.Load(program); err != nil {
		log.Fatalf("latchvm: %v", err)
	}

	if *verbose {
		fmt.Fprintf(os.Stderr, "latchvm: engine %s loaded, %d bytes, interactive=%v\n",
			eng.ID(), len(program), term.IsTerminal(int(os.Stdin.Fd())))
	}

	var runErr error
	if *steps > 0 {
		runErr = runBounded(eng, program, *steps, *verbose)
	} else {
		runErr = eng.Run(context.Background())
	}

	if *jsonDump {
		dump := eng.DumpState()
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(dump); err != nil {
			log.Fatalf("latchvm: encoding state: %v", err)
		}
	}

	os.Exit(exitCode(runErr))
}

// runBounded steps the engine at most n times, reporting errStepBudgetExceeded
// if the program is still live when the budget runs out. This is a
// driver-level bound, not something Step or Run know about (SPEC_FULL.md
// §5): the engine itself never sees a step count.
func runBounded(eng *engine.Engine, program []byte, n uint64, verbose bool) error {
	for i := uint64(0); i < n; i++ {
		if verbose {
			text, _, err := engine.Disassemble(program, eng.PC())
			if err == nil {
				fmt.Fprintf(os.Stderr, "latchvm: %s\n", text)
			}
		}
		status := eng.Step()
		if status.Halted() {
			return nil
		}
		if !status.OK() {
			return status
		}
	}
	return errStepBudgetExceeded
}

var errStepBudgetExceeded = errors.New("step budget exceeded with program still running")

// exitCode maps a Run/runBounded result to a process exit code, per
// spec.md §6: 0 on OK, the status's stable numeric code otherwise.
// errStepBudgetExceeded has no engine Code of its own since it is a
// driver-level condition, so it gets a fixed out-of-band exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, errStepBudgetExceeded) {
		return 124
	}
	var status engine.VmStatus
	if errors.As(err, &status) {
		return int(status.Code())
	}
	return 1
}
