// Package macro implements the AST-to-AST macro expansion pass of
// spec.md §4.5: a recursive descent over an Expression tree that
// replaces every `Call(Var f, args)` whose f names a bound Macro with
// the result of running that macro's body against its (unevaluated)
// argument forms. It depends on eval to actually run a macro's body —
// the reason quasiquote expansion (§4.5's other sub-algorithm) lives in
// eval rather than here, since putting it here would need eval to
// depend on macro right back.
package macro

import (
	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/eval"
	"github.com/mlisp-lang/mlisp/rt"
	"github.com/mlisp-lang/mlisp/sx"
)

// DefaultRecursionLimit bounds how many times a single call site's
// expansion may itself turn out to be another macro call before
// MacroRecursionLimit fires (spec.md §4.5 step 8).
const DefaultRecursionLimit = 100

// Expander holds the Evaluator macro bodies run against and the
// recursion limit.
type Expander struct {
	Eval  *eval.Evaluator
	Limit int
}

// New builds an Expander with the given recursion limit. limit <= 0
// selects DefaultRecursionLimit.
func New(ev *eval.Evaluator, limit int) *Expander {
	if limit <= 0 {
		limit = DefaultRecursionLimit
	}
	return &Expander{Eval: ev, Limit: limit}
}

// Expand runs the full recursive descent over expr, expanding every
// macro call it finds (spec.md §4.5).
func (mx *Expander) Expand(expr ast.Expression, env *rt.Environment) (ast.Expression, error) {
	return mx.expand(expr, env)
}

// ExpandSexpr implements eval.MacroExpandFunc: it builds s into an
// Expression, expands it (one step, or to a fixpoint), and unbuilds the
// result back to an S-expression — the shape the `macroexpand`/
// `macroexpand-1` primitives need (spec.md §4.6).
func (mx *Expander) ExpandSexpr(env *rt.Environment, s sx.Value, onestep bool) (sx.Value, error) {
	expr, err := ast.Build(s)
	if err != nil {
		return nil, err
	}
	var expanded ast.Expression
	if onestep {
		expanded, err = mx.expandOneStep(expr, env)
	} else {
		expanded, err = mx.expand(expr, env)
	}
	if err != nil {
		return nil, err
	}
	return ast.Unbuild(expanded)
}

func (mx *Expander) expand(expr ast.Expression, env *rt.Environment) (ast.Expression, error) {
	switch e := expr.(type) {
	case ast.Literal, ast.Var:
		return expr, nil

	case *ast.If:
		cond, err := mx.expand(e.Cond, env)
		if err != nil {
			return nil, err
		}
		then, err := mx.expand(e.Then, env)
		if err != nil {
			return nil, err
		}
		var els ast.Expression
		if e.Else != nil {
			els, err = mx.expand(e.Else, env)
			if err != nil {
				return nil, err
			}
		}
		return &ast.If{Cond: cond, Then: then, Else: els}, nil

	case *ast.And:
		e1, e2, err := mx.expandPair(e.E1, e.E2, env)
		if err != nil {
			return nil, err
		}
		return &ast.And{E1: e1, E2: e2}, nil

	case *ast.Or:
		e1, e2, err := mx.expandPair(e.E1, e.E2, env)
		if err != nil {
			return nil, err
		}
		return &ast.Or{E1: e1, E2: e2}, nil

	case *ast.Apply:
		fn, args, err := mx.expandPair(e.Fn, e.Args, env)
		if err != nil {
			return nil, err
		}
		return &ast.Apply{Fn: fn, Args: args}, nil

	case *ast.Call:
		return mx.expandCall(e, env)

	case *ast.Lambda:
		body, err := mx.expand(e.Body, env)
		if err != nil {
			return nil, err
		}
		return &ast.Lambda{Name: e.Name, Params: e.Params, Body: body}, nil

	case *ast.Let:
		return mx.expandLet(e, env)

	case *ast.DefExpr:
		def, err := mx.expandDef(e.Def, env)
		if err != nil {
			return nil, err
		}
		return &ast.DefExpr{Def: def}, nil

	case *ast.ModuleDef:
		body := make([]ast.Expression, len(e.Body))
		for i, sub := range e.Body {
			expanded, err := mx.expand(sub, env)
			if err != nil {
				return nil, err
			}
			body[i] = expanded
		}
		return &ast.ModuleDef{Name: e.Name, Exports: e.Exports, Body: body}, nil

	case *ast.Import, *ast.MacroDef, *ast.LoadModule:
		// Not expanded — these define or reference rules, they don't
		// invoke them (spec.md §4.5).
		return expr, nil

	default:
		return expr, nil
	}
}

func (mx *Expander) expandPair(a, b ast.Expression, env *rt.Environment) (ast.Expression, ast.Expression, error) {
	ea, err := mx.expand(a, env)
	if err != nil {
		return nil, nil, err
	}
	eb, err := mx.expand(b, env)
	if err != nil {
		return nil, nil, err
	}
	return ea, eb, nil
}

func (mx *Expander) expandCall(call *ast.Call, env *rt.Environment) (ast.Expression, error) {
	if headCall, name, m, ok := mx.macroCallHead(call, env); ok {
		return mx.expandMacroCall(headCall, name, m, env)
	}
	fn, err := mx.expand(call.Fn, env)
	if err != nil {
		return nil, err
	}
	args := make([]ast.Expression, len(call.Args))
	for i, a := range call.Args {
		expanded, err := mx.expand(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = expanded
	}
	return &ast.Call{Fn: fn, Args: args}, nil
}

func (mx *Expander) expandLet(l *ast.Let, env *rt.Environment) (ast.Expression, error) {
	bindings := make([]ast.LetBinding, len(l.Bindings))
	for i, b := range l.Bindings {
		expanded, err := mx.expand(b.Expr, env)
		if err != nil {
			return nil, err
		}
		bindings[i] = ast.LetBinding{Name: b.Name, Expr: expanded}
	}
	body, err := mx.expand(l.Body, env)
	if err != nil {
		return nil, err
	}
	return &ast.Let{Kind: l.Kind, Bindings: bindings, Body: body}, nil
}

func (mx *Expander) expandDef(def ast.Definition, env *rt.Environment) (ast.Definition, error) {
	switch d := def.(type) {
	case ast.SetVar:
		expr, err := mx.expand(d.Expr, env)
		if err != nil {
			return nil, err
		}
		return ast.SetVar{Name: d.Name, Expr: expr}, nil
	case ast.DefineFunction:
		body, err := mx.expand(d.Body, env)
		if err != nil {
			return nil, err
		}
		return ast.DefineFunction{Name: d.Name, Params: d.Params, Body: body}, nil
	case ast.DefineMacro:
		body, err := mx.expand(d.Body, env)
		if err != nil {
			return nil, err
		}
		return ast.DefineMacro{Name: d.Name, Params: d.Params, Body: body}, nil
	case ast.BareExpr:
		expr, err := mx.expand(d.Expr, env)
		if err != nil {
			return nil, err
		}
		return ast.BareExpr{Expr: expr}, nil
	default:
		return def, nil
	}
}

// macroCallHead reports whether expr is a Call whose head Var names a
// Macro bound in env, returning the matched Call and macro together.
func (mx *Expander) macroCallHead(expr ast.Expression, env *rt.Environment) (*ast.Call, string, *rt.Macro, bool) {
	call, ok := expr.(*ast.Call)
	if !ok {
		return nil, "", nil, false
	}
	v, ok := call.Fn.(ast.Var)
	if !ok {
		return nil, "", nil, false
	}
	val, err := env.Lookup(v.Name)
	if err != nil {
		return nil, "", nil, false
	}
	m, ok := val.(*rt.Macro)
	if !ok {
		return nil, "", nil, false
	}
	return call, v.Name, m, true
}

// expandMacroCall runs spec.md §4.5's numbered steps 1-8: invoke the
// macro, re-Build the result, and if the result is itself headed by
// another macro call, loop (depth-bounded) instead of descending yet.
// Once the head stabilizes to something other than a macro call, the
// ordinary recursive descent takes over for the rest of the tree.
func (mx *Expander) expandMacroCall(call *ast.Call, name string, m *rt.Macro, env *rt.Environment) (ast.Expression, error) {
	depth := 0
	curName, curMacro, curArgs := name, m, call.Args
	for {
		if depth >= mx.Limit {
			return nil, MacroRecursionLimit{Name: curName}
		}
		depth++
		expr, err := mx.runMacroBody(curMacro, curName, curArgs)
		if err != nil {
			return nil, err
		}
		if nextCall, nextName, nextMacro, ok := mx.macroCallHead(expr, env); ok {
			curName, curMacro, curArgs = nextName, nextMacro, nextCall.Args
			continue
		}
		return mx.expand(expr, env)
	}
}

func (mx *Expander) expandOneStep(expr ast.Expression, env *rt.Environment) (ast.Expression, error) {
	call, name, m, ok := mx.macroCallHead(expr, env)
	if !ok {
		return expr, nil
	}
	return mx.runMacroBody(m, name, call.Args)
}

// runMacroBody implements spec.md §4.5 steps 1-7 for a single call: bind
// each parameter to its argument's *unevaluated* S-expression form in a
// child of the macro's defining environment, evaluate the body there,
// unwrap a single Quote if present, and re-Build the result.
func (mx *Expander) runMacroBody(m *rt.Macro, name string, args []ast.Expression) (ast.Expression, error) {
	if len(args) != len(m.Params) {
		return nil, ArityError{Name: name, Expected: len(m.Params), Got: len(args)}
	}
	callEnv := rt.Extend(m.Env)
	for i, p := range m.Params {
		argSexpr, err := ast.Unbuild(args[i])
		if err != nil {
			return nil, err
		}
		callEnv.Bind(p, argSexpr)
	}
	body, ok := m.Body.(ast.Expression)
	if !ok {
		panic("macro: macro body is not an ast.Expression")
	}
	result, err := mx.Eval.Compute(body, callEnv)
	if err != nil {
		return nil, err
	}
	if quote, ok := result.(sx.Quote); ok {
		result = quote.Wrapped
	}
	return ast.Build(result)
}
