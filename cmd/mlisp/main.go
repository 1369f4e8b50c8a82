// Package main is mlisp's CLI entry point (spec.md §6): no argument
// starts the line-editing REPL on standard input; a single file-path
// argument reads and evaluates every top-level form in that file,
// exiting non-zero if any form errored. Grounded on the teacher's
// cmd/main.go (flat main wiring a root binding, the prelude, and either
// a repl goroutine or a batch run), simplified to this repo's
// interp.Interp as the one object that already bundles the evaluator,
// expander, and module loader the teacher's main() wires by hand.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mlisp-lang/mlisp/diag"
	"github.com/mlisp-lang/mlisp/interp"
	"github.com/mlisp-lang/mlisp/modload"
	"github.com/mlisp-lang/mlisp/repl"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	i := interp.New(modload.DefaultSearchPaths, logger)

	if len(args) == 0 {
		repl.Run(i, os.Stdout, os.Stderr)
		return 0
	}

	return runFile(i, args[0])
}

func runFile(i *interp.Interp, path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mlisp: %v\n", err)
		return 1
	}
	defer f.Close()

	_, err = i.EvalAll(f, path)
	if err == nil {
		return 0
	}
	if derr, ok := err.(*diag.Error); ok {
		diag.Render(os.Stderr, derr, nil)
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	return 1
}
