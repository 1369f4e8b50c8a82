// Package eval is the tree-walking evaluator: Compute maps an
// (ast.Expression, *rt.Environment) pair to a Value, mutating the
// environment in place for the handful of forms spec.md §4.6 allows to
// extend it (DefExpr, ModuleDef, top-level Import). Passing the
// environment back out as a second return value, as the spec's
// functional (Expression, Environment) → (Value, Environment) signature
// literally reads, would be redundant in Go: *rt.Environment is already
// a reference type, so every mutation a binding form makes is visible to
// the caller's own pointer without needing to thread a new one through.
//
// eval never imports reader, ast's macro-recognizing sibling package
// macro, or modload, to keep the dependency order reader → ast → eval →
// macro → modload from folding back on itself (DESIGN.md). Instead it
// takes two optional hooks: Loader, for resolving `import`/`load-module`
// against the file-backed module cache, and Expand, for the
// `macroexpand`/`macroexpand-1` debugging primitives. Both are wired in
// by the higher-level interp package once all of reader/ast/macro/
// modload exist.
package eval

import (
	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/rt"
	"github.com/mlisp-lang/mlisp/sx"
)

// Loader resolves a module by name, either against modload's cache (an
// already-loaded module) or by reading NAME.mlisp from the search path
// and evaluating it (spec.md §4.7's "Load from file"). caller is the
// environment of the import/load-module site, passed through so a loaded
// file's own imports can chain.
type Loader func(name string, caller *rt.Environment) (*rt.Module, error)

// MacroExpandFunc runs the macro package's AST-to-AST expansion over a
// quoted S-expression, for the `macroexpand`/`macroexpand-1` primitives
// (spec.md §4.6). onestep selects a single expansion step over the
// fixpoint.
type MacroExpandFunc func(env *rt.Environment, s sx.Value, onestep bool) (sx.Value, error)

// Evaluator holds the evaluator's two injected hooks. The zero value is
// usable for code with no import/load-module/macroexpand calls (most
// unit tests), since both hooks are only consulted when a form actually
// needs them.
type Evaluator struct {
	Loader Loader
	Expand MacroExpandFunc
}

// New builds an Evaluator wired to the given hooks.
func New(loader Loader, expand MacroExpandFunc) *Evaluator {
	return &Evaluator{Loader: loader, Expand: expand}
}

// ErrNoExpander is returned by macroexpand/macroexpand-1 when no
// MacroExpandFunc has been wired in.
type ErrNoExpander struct{}

func (ErrNoExpander) Error() string { return "macroexpand: no macro expander configured" }

// ErrNoLoader is returned by import/load-module when no Loader has been
// wired in.
type ErrNoLoader struct{ Name string }

func (e ErrNoLoader) Error() string {
	return "cannot load module " + e.Name + ": no module loader configured"
}

// Compute evaluates expr in env, per spec.md §4.6's per-node rules.
func (ev *Evaluator) Compute(expr ast.Expression, env *rt.Environment) (sx.Value, error) {
	switch e := expr.(type) {
	case ast.Literal:
		return ev.computeLiteral(e, env)
	case ast.Var:
		return env.Lookup(e.Name)
	case *ast.If:
		return ev.computeIf(e, env)
	case *ast.And:
		return ev.computeAnd(e, env)
	case *ast.Or:
		return ev.computeOr(e, env)
	case *ast.Apply:
		return ev.computeApply(e, env)
	case *ast.Call:
		return ev.computeCall(e, env)
	case *ast.Lambda:
		return ev.evalLambda(e, env)
	case *ast.Let:
		return ev.computeLet(e, env)
	case *ast.DefExpr:
		return ev.computeDef(e, env)
	case *ast.MacroDef:
		macro := &rt.Macro{Name: e.Name, Params: e.Params, Body: e.Body, Env: env}
		env.Bind(e.Name, macro)
		return macro, nil
	case *ast.ModuleDef:
		return ev.computeModule(e, env)
	case *ast.Import:
		return ev.computeImport(e, env)
	case *ast.LoadModule:
		return ev.computeLoadModule(e, env)
	default:
		panic("eval: unhandled ast.Expression type")
	}
}

func (ev *Evaluator) computeLiteral(lit ast.Literal, env *rt.Environment) (sx.Value, error) {
	switch v := lit.Value.(type) {
	case sx.Quote:
		return v.Wrapped, nil
	case sx.Quasiquote:
		return ev.expandQuasiquote(v.Wrapped, env, 1)
	case sx.Unquote:
		return nil, TypeError{Expected: "quasiquote context for unquote"}
	case sx.UnquoteSplicing:
		return nil, TypeError{Expected: "quasiquote context for unquote-splicing"}
	default:
		return v, nil
	}
}

func (ev *Evaluator) computeIf(e *ast.If, env *rt.Environment) (sx.Value, error) {
	cond, err := ev.Compute(e.Cond, env)
	if err != nil {
		return nil, err
	}
	b, ok := sx.GetBoolean(cond)
	if !ok {
		return nil, IllegalIfExpression{Text: cond.String()}
	}
	if bool(b) {
		return ev.Compute(e.Then, env)
	}
	if e.Else == nil {
		return sx.Undefined{}, nil
	}
	return ev.Compute(e.Else, env)
}

func (ev *Evaluator) computeAnd(e *ast.And, env *rt.Environment) (sx.Value, error) {
	v1, err := ev.Compute(e.E1, env)
	if err != nil {
		return nil, err
	}
	v2, err := ev.Compute(e.E2, env)
	if err != nil {
		return nil, err
	}
	b1, ok1 := sx.GetBoolean(v1)
	b2, ok2 := sx.GetBoolean(v2)
	if !ok1 || !ok2 {
		return nil, TypeError{Expected: "(and bool bool)"}
	}
	return sx.Boolean(bool(b1) && bool(b2)), nil
}

func (ev *Evaluator) computeOr(e *ast.Or, env *rt.Environment) (sx.Value, error) {
	v1, err := ev.Compute(e.E1, env)
	if err != nil {
		return nil, err
	}
	v2, err := ev.Compute(e.E2, env)
	if err != nil {
		return nil, err
	}
	b1, ok1 := sx.GetBoolean(v1)
	b2, ok2 := sx.GetBoolean(v2)
	if !ok1 || !ok2 {
		return nil, TypeError{Expected: "(or bool bool)"}
	}
	return sx.Boolean(bool(b1) || bool(b2)), nil
}

func (ev *Evaluator) computeApply(e *ast.Apply, env *rt.Environment) (sx.Value, error) {
	fn, err := ev.Compute(e.Fn, env)
	if err != nil {
		return nil, err
	}
	argList, err := ev.Compute(e.Args, env)
	if err != nil {
		return nil, err
	}
	args, err := sx.ToSlice(argList)
	if err != nil {
		return nil, TypeError{Expected: "proper argument list"}
	}
	return ev.dispatch(fn, args)
}

func (ev *Evaluator) computeCall(e *ast.Call, env *rt.Environment) (sx.Value, error) {
	if v, ok := e.Fn.(ast.Var); ok {
		switch v.Name {
		case "env":
			if len(e.Args) == 0 {
				return env.Bindings(), nil
			}
		case "macroexpand", "macroexpand-1":
			if len(e.Args) == 1 {
				return ev.computeMacroexpand(v.Name == "macroexpand-1", e.Args[0], env)
			}
		}
	}
	fn, err := ev.Compute(e.Fn, env)
	if err != nil {
		return nil, err
	}
	args := make([]sx.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := ev.Compute(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return ev.dispatch(fn, args)
}

func (ev *Evaluator) computeMacroexpand(onestep bool, argExpr ast.Expression, env *rt.Environment) (sx.Value, error) {
	lit, ok := argExpr.(ast.Literal)
	if !ok {
		return nil, TypeError{Expected: "(macroexpand (quote form))"}
	}
	quote, ok := lit.Value.(sx.Quote)
	if !ok {
		return nil, TypeError{Expected: "(macroexpand (quote form))"}
	}
	if ev.Expand == nil {
		return nil, ErrNoExpander{}
	}
	expanded, err := ev.Expand(env, quote.Wrapped, onestep)
	if err != nil {
		return nil, err
	}
	return sx.Quote{Wrapped: expanded}, nil
}

func (ev *Evaluator) dispatch(fn sx.Value, args []sx.Value) (sx.Value, error) {
	switch f := fn.(type) {
	case *rt.Primitive:
		return f.Call(args)
	case *rt.Closure:
		return ev.applyClosure(f, args)
	default:
		return nil, ApplyError{Value: fn}
	}
}
