package eval

import (
	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/rt"
	"github.com/mlisp-lang/mlisp/sx"
)

// computeLet implements the three let variants exactly as spec.md §4.6
// describes them; the difference between variants is entirely in which
// environment each binding's right-hand side is evaluated against.
func (ev *Evaluator) computeLet(l *ast.Let, env *rt.Environment) (sx.Value, error) {
	switch l.Kind {
	case ast.Sequential:
		return ev.computeLetStar(l, env)
	case ast.Recursive:
		return ev.computeLetrec(l, env)
	default:
		return ev.computeLetParallel(l, env)
	}
}

func (ev *Evaluator) computeLetParallel(l *ast.Let, env *rt.Environment) (sx.Value, error) {
	vals := make([]sx.Value, len(l.Bindings))
	for i, b := range l.Bindings {
		v, err := ev.Compute(b.Expr, env)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	child := rt.Extend(env)
	for i, b := range l.Bindings {
		child.Bind(b.Name, vals[i])
	}
	return ev.Compute(l.Body, child)
}

func (ev *Evaluator) computeLetStar(l *ast.Let, env *rt.Environment) (sx.Value, error) {
	child := rt.Extend(env)
	for _, b := range l.Bindings {
		v, err := ev.Compute(b.Expr, child)
		if err != nil {
			return nil, err
		}
		child.Bind(b.Name, v)
	}
	return ev.Compute(l.Body, child)
}

func (ev *Evaluator) computeLetrec(l *ast.Let, env *rt.Environment) (sx.Value, error) {
	child := rt.Extend(env)
	cells := make([]*rt.Cell, len(l.Bindings))
	for i, b := range l.Bindings {
		cell := rt.NewCell()
		child.BindCell(b.Name, cell)
		cells[i] = cell
	}
	for i, b := range l.Bindings {
		v, err := ev.Compute(b.Expr, child)
		if err != nil {
			return nil, err
		}
		cells[i].Set(v)
	}
	return ev.Compute(l.Body, child)
}
