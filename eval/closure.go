package eval

import (
	"sort"

	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/rt"
	"github.com/mlisp-lang/mlisp/sx"
)

// evalLambda builds the Closure value for a Lambda node, choosing Legacy
// or Optimized capture per the free-variable analysis below (spec.md
// §4.6). A Lambda produced by the `defun` rewrite (DefineFunction, in
// computeDef) arrives here with its own name pre-bound to an empty cell
// in env, so a recursive self-reference is captured the same way as any
// other free variable — see DESIGN.md for why this departs from the
// letter of spec.md's "not the function's own name" exclusion: excluding
// the name from the free-variable set entirely, rather than special-
// casing it, would leave an Optimized-capture closure with no way to
// call itself.
func (ev *Evaluator) evalLambda(l *ast.Lambda, env *rt.Environment) (*rt.Closure, error) {
	free := freeVars(l.Params, l.Body)
	if len(free) == 0 {
		return &rt.Closure{Name: l.Name, Params: l.Params, Body: l.Body, Env: env}, nil
	}
	captured := make([]rt.CapturedCell, 0, len(free))
	for _, name := range free {
		_, cell := env.LookupCell(name)
		if cell == nil {
			// name is a forward reference: free in the body but not yet
			// bound anywhere in env's chain (e.g. an internal define a
			// let* body hasn't reached yet). Anchoring Parent to env.Root()
			// would only ever find a binding this name later acquires at
			// the root, not one it acquires at an intermediate scope, so
			// Optimized capture can't represent this closure correctly —
			// fall back to Legacy, which keeps the live env chain and sees
			// the binding wherever it lands.
			return &rt.Closure{Name: l.Name, Params: l.Params, Body: l.Body, Env: env}, nil
		}
		captured = append(captured, rt.CapturedCell{Name: name, Cell: cell})
	}
	return &rt.Closure{
		Name:      l.Name,
		Params:    l.Params,
		Body:      l.Body,
		Optimized: true,
		Parent:    env.Root(),
		Captured:  captured,
	}, nil
}

// applyClosure binds args to c's parameters in a fresh call frame and
// evaluates the body there (spec.md §4.6 "Closure invocation").
func (ev *Evaluator) applyClosure(c *rt.Closure, args []sx.Value) (sx.Value, error) {
	if len(args) != len(c.Params) {
		return nil, MissingArgument{Params: c.Params}
	}
	frame := c.NewFrame()
	for i, p := range c.Params {
		frame.Bind(p, args[i])
	}
	body, ok := c.Body.(ast.Expression)
	if !ok {
		panic("eval: closure body is not an ast.Expression")
	}
	return ev.Compute(body, frame)
}

// freeVars returns the sorted, de-duplicated set of names body references
// that are neither a parameter nor bound by a nested let/lambda/define —
// the descent rules mirror the macro expander's own traversal (spec.md
// §4.5 "Other nodes"), since both need to visit every sub-expression of
// every node kind.
func freeVars(params []string, body ast.Expression) []string {
	bound := make(map[string]bool, len(params))
	for _, p := range params {
		bound[p] = true
	}
	free := make(map[string]bool)
	walkFree(body, bound, free)

	names := make([]string, 0, len(free))
	for name := range free {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cloneBound(bound map[string]bool) map[string]bool {
	out := make(map[string]bool, len(bound)+4)
	for k := range bound {
		out[k] = true
	}
	return out
}

func walkFree(expr ast.Expression, bound, free map[string]bool) {
	switch e := expr.(type) {
	case ast.Literal:
		// no references
	case ast.Var:
		if !bound[e.Name] {
			free[e.Name] = true
		}
	case *ast.If:
		walkFree(e.Cond, bound, free)
		walkFree(e.Then, bound, free)
		if e.Else != nil {
			walkFree(e.Else, bound, free)
		}
	case *ast.And:
		walkFree(e.E1, bound, free)
		walkFree(e.E2, bound, free)
	case *ast.Or:
		walkFree(e.E1, bound, free)
		walkFree(e.E2, bound, free)
	case *ast.Apply:
		walkFree(e.Fn, bound, free)
		walkFree(e.Args, bound, free)
	case *ast.Call:
		walkFree(e.Fn, bound, free)
		for _, a := range e.Args {
			walkFree(a, bound, free)
		}
	case *ast.Lambda:
		inner := cloneBound(bound)
		for _, p := range e.Params {
			inner[p] = true
		}
		walkFree(e.Body, inner, free)
	case *ast.Let:
		walkFreeLet(e, bound, free)
	case *ast.DefExpr:
		walkFreeDef(e.Def, bound, free)
	case *ast.ModuleDef:
		inner := cloneBound(bound)
		for _, sub := range e.Body {
			walkFree(sub, inner, free)
		}
	case *ast.MacroDef:
		inner := cloneBound(bound)
		for _, p := range e.Params {
			inner[p] = true
		}
		walkFree(e.Body, inner, free)
	case *ast.LoadModule:
		walkFree(e.NameExpr, bound, free)
	case *ast.Import:
		// references a module name, not a variable
	}
}

func walkFreeLet(l *ast.Let, bound, free map[string]bool) {
	switch l.Kind {
	case ast.Recursive:
		inner := cloneBound(bound)
		for _, b := range l.Bindings {
			inner[b.Name] = true
		}
		for _, b := range l.Bindings {
			walkFree(b.Expr, inner, free)
		}
		walkFree(l.Body, inner, free)
	case ast.Sequential:
		cur := cloneBound(bound)
		for _, b := range l.Bindings {
			walkFree(b.Expr, cur, free)
			cur[b.Name] = true
		}
		walkFree(l.Body, cur, free)
	default: // Parallel
		for _, b := range l.Bindings {
			walkFree(b.Expr, bound, free)
		}
		inner := cloneBound(bound)
		for _, b := range l.Bindings {
			inner[b.Name] = true
		}
		walkFree(l.Body, inner, free)
	}
}

func walkFreeDef(def ast.Definition, bound, free map[string]bool) {
	switch d := def.(type) {
	case ast.SetVar:
		walkFree(d.Expr, bound, free)
	case ast.DefineFunction:
		inner := cloneBound(bound)
		for _, p := range d.Params {
			inner[p] = true
		}
		inner[d.Name] = true
		walkFree(d.Body, inner, free)
	case ast.DefineMacro:
		inner := cloneBound(bound)
		for _, p := range d.Params {
			inner[p] = true
		}
		inner[d.Name] = true
		walkFree(d.Body, inner, free)
	case ast.BareExpr:
		walkFree(d.Expr, bound, free)
	}
}
