// Package interp orchestrates reader -> ast -> macro -> eval -> modload
// for one top-level form at a time, the shared pipeline both the file
// driver and the REPL drive (spec.md §6's two external interfaces).
// Grounded on the teacher's cmd/main.go repl loop (read -> parse ->
// compile -> run, one iteration per top-level form) and its
// sxeval.ExecuteError handling, simplified to this repo's eval/macro
// API and routed through diag.Classify for every error instead of the
// teacher's own ad hoc `;p`/`;c`/`;e` prefix printing.
package interp

import (
	"io"
	"log/slog"

	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/builtins"
	"github.com/mlisp-lang/mlisp/diag"
	"github.com/mlisp-lang/mlisp/eval"
	"github.com/mlisp-lang/mlisp/macro"
	"github.com/mlisp-lang/mlisp/modload"
	"github.com/mlisp-lang/mlisp/reader"
	"github.com/mlisp-lang/mlisp/rt"
	"github.com/mlisp-lang/mlisp/sx"
)

// DefaultMacroLimit bounds macro expansion recursion (spec.md §4.5);
// chosen generously since legitimate macros rarely nest this deep and a
// runaway self-referential macro should still fail, not hang.
const DefaultMacroLimit = 512

// Interp wires one Evaluator/Expander/Loader triple together over a
// shared global environment, the unit of state the REPL and file driver
// each own one of.
type Interp struct {
	Env    *rt.Environment
	Eval   *eval.Evaluator
	Expand *macro.Expander
	Loader *modload.Loader
	Logger *slog.Logger
}

// New builds an Interp with a fresh prelude environment (every
// builtins.Install primitive already bound) and a module loader
// searching paths (modload.DefaultSearchPaths if empty).
func New(paths []string, logger *slog.Logger) *Interp {
	if logger == nil {
		logger = slog.Default()
	}
	env := builtins.NewPrelude()
	ev := eval.New(nil, nil)
	mx := macro.New(ev, DefaultMacroLimit)
	ld := modload.New(ev, mx, paths, logger)
	ev.Loader = ld.Load
	ev.Expand = mx.ExpandSexpr
	bindClearModuleCache(env, ld)

	return &Interp{Env: env, Eval: ev, Expand: mx, Loader: ld, Logger: logger}
}

// bindClearModuleCache wires modload.Loader.Clear into the language
// surface as the `clear-module-cache` primitive SPEC_FULL.md §3 names
// (spec.md §9: the module cache is "cleared only by an explicit
// primitive", without naming one). It lives here rather than in
// builtins because it closes over this Interp's own *modload.Loader —
// builtins holds no reference to a Loader, and eval special-cases
// `env`/`macroexpand` by name inside computeCall precisely because eval
// cannot import modload (dependency order: eval -> modload, not the
// reverse); binding a primitive from the wiring layer that already
// depends on both packages avoids that cycle entirely.
func bindClearModuleCache(env *rt.Environment, ld *modload.Loader) {
	env.Bind("clear-module-cache", &rt.Primitive{
		Name: "clear-module-cache",
		Fn: func(args []sx.Value) (sx.Value, error) {
			if len(args) != 0 {
				return nil, builtins.ArityError{Name: "clear-module-cache", Min: 0, Max: 0, Got: len(args)}
			}
			ld.Clear()
			return sx.Nil(), nil
		},
	})
}

// EvalOne reads, builds, expands, and computes a single top-level form
// from rd against env (which need not be i.Env — the REPL reuses one
// Interp across an evolving top-level environment, while a module load
// uses a fresh child environment). It returns (nil, reader.EndOfStream)
// at end of input, exactly like rd.Read().
func (i *Interp) EvalOne(rd *reader.Reader, env *rt.Environment) (sx.Value, error) {
	begin := rd.Position()
	obj, err := rd.Read()
	if err != nil {
		return nil, err
	}

	expr, err := ast.Build(obj)
	if err != nil {
		return nil, diag.Classify(err, begin)
	}
	expr, err = i.Expand.Expand(expr, env)
	if err != nil {
		return nil, diag.Classify(err, begin)
	}
	val, err := i.Eval.Compute(expr, env)
	if err != nil {
		return nil, diag.Classify(err, begin)
	}
	return val, nil
}

// EvalAll evaluates every top-level form from r in order against i.Env,
// stopping at the first error (spec.md §6: the file driver "exits 0 on
// success, non-zero if any form errored").
func (i *Interp) EvalAll(r io.Reader, name string) ([]sx.Value, error) {
	rd := reader.New(r, name)
	var results []sx.Value
	for {
		val, err := i.EvalOne(rd, i.Env)
		if err == reader.EndOfStream {
			return results, nil
		}
		if err != nil {
			return results, err
		}
		results = append(results, val)
	}
}
