package eval

import (
	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/rt"
	"github.com/mlisp-lang/mlisp/sx"
)

// computeDef implements the four Definition kinds DefExpr wraps
// (spec.md §4.6 "Definitions"); SetVar, DefineFunction and DefineMacro
// bind a name in env, while BareExpr only evaluates its expression.
func (ev *Evaluator) computeDef(e *ast.DefExpr, env *rt.Environment) (sx.Value, error) {
	switch def := e.Def.(type) {
	case ast.SetVar:
		v, err := ev.Compute(def.Expr, env)
		if err != nil {
			return nil, err
		}
		if env.IsBoundLocal(def.Name) {
			_, cell := env.LookupCell(def.Name)
			cell.Set(v)
		} else {
			env.Bind(def.Name, v)
		}
		return v, nil

	case ast.DefineFunction:
		// Pre-bind an empty cell for the function's own name before
		// building the Lambda, the same two-phase scheme letrec uses, so
		// that a recursive call inside the body resolves through the
		// ordinary free-variable analysis instead of needing a special
		// case for self-reference (see evalLambda).
		cell := rt.NewCell()
		env.BindCell(def.Name, cell)
		closure, err := ev.evalLambda(&ast.Lambda{Name: def.Name, Params: def.Params, Body: def.Body}, env)
		if err != nil {
			return nil, err
		}
		cell.Set(closure)
		return closure, nil

	case ast.DefineMacro:
		macro := &rt.Macro{Name: def.Name, Params: def.Params, Body: def.Body, Env: env}
		env.Bind(def.Name, macro)
		return macro, nil

	case ast.BareExpr:
		return ev.Compute(def.Expr, env)

	default:
		panic("eval: unhandled ast.Definition type")
	}
}
