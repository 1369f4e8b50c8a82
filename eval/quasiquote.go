package eval

import (
	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/rt"
	"github.com/mlisp-lang/mlisp/sx"
)

// expandQuasiquote is the depth-tracked value-level sub-algorithm of
// spec.md §4.5. It lives in eval rather than the macro package because
// both Unquote and UnquoteSplicing need to *evaluate* their inner form
// against env — something only the evaluator can do. Were it in macro,
// eval would have to import macro to reach it, while macro already
// imports eval to run macro bodies: the two imports would form a cycle.
func (ev *Evaluator) expandQuasiquote(val sx.Value, env *rt.Environment, depth int) (sx.Value, error) {
	switch v := val.(type) {
	case sx.Unquote:
		if depth == 1 {
			return ev.evalQuoted(v.Wrapped, env)
		}
		// depth > 1: preserved structurally, inner form expanded at the
		// same depth (spec.md §4.5) — a single enclosing quasiquote fully
		// shields its unquotes; only another nested quasiquote around
		// this one would raise the depth further.
		inner, err := ev.expandQuasiquote(v.Wrapped, env, depth)
		if err != nil {
			return nil, err
		}
		return sx.Unquote{Wrapped: inner}, nil

	case sx.UnquoteSplicing:
		if depth == 1 {
			// A bare ,@x not inside an enclosing list position (the usual
			// case is handled by expandQuasiquotePair below) can't splice
			// anywhere; treat it as a plain substitution of the evaluated
			// form, same as depth-1 unquote.
			return ev.evalQuoted(v.Wrapped, env)
		}
		inner, err := ev.expandQuasiquote(v.Wrapped, env, depth)
		if err != nil {
			return nil, err
		}
		return sx.UnquoteSplicing{Wrapped: inner}, nil

	case sx.Quasiquote:
		inner, err := ev.expandQuasiquote(v.Wrapped, env, depth+1)
		if err != nil {
			return nil, err
		}
		return sx.Quasiquote{Wrapped: inner}, nil

	case *sx.Pair:
		return ev.expandQuasiquotePair(v, env, depth)

	default:
		return val, nil
	}
}

// evalQuoted builds form (taken from inside a quasiquote) back into an
// Expression and evaluates it against env — the inverse step `unquote`
// needs, mirroring the macro expander's own S-expression round-trip.
func (ev *Evaluator) evalQuoted(form sx.Value, env *rt.Environment) (sx.Value, error) {
	expr, err := ast.Build(form)
	if err != nil {
		return nil, err
	}
	return ev.Compute(expr, env)
}

// expandQuasiquotePair maps expansion element-wise across a list,
// splicing UnquoteSplicing results into the enclosing sequence at depth 1
// instead of inserting them as a single element (spec.md §4.5).
func (ev *Evaluator) expandQuasiquotePair(pair *sx.Pair, env *rt.Environment, depth int) (sx.Value, error) {
	if pair == nil {
		return sx.Nil(), nil
	}
	var lb sx.ListBuilder
	for node := pair; node != nil; {
		elem := node.Car()
		spliced := false
		if depth == 1 {
			if us, ok := elem.(sx.UnquoteSplicing); ok {
				val, err := ev.evalQuoted(us.Wrapped, env)
				if err != nil {
					return nil, err
				}
				items, err := sx.ToSlice(val)
				if err != nil {
					return nil, TypeError{Expected: "(unquote-splicing proper-list)"}
				}
				for _, item := range items {
					lb.Add(item)
				}
				spliced = true
			}
		}
		if !spliced {
			expanded, err := ev.expandQuasiquote(elem, env, depth)
			if err != nil {
				return nil, err
			}
			lb.Add(expanded)
		}

		cdr := node.Cdr()
		if next, ok := cdr.(*sx.Pair); ok {
			node = next
			continue
		}
		if sx.IsNil(cdr) {
			break
		}
		tail, err := ev.expandQuasiquote(cdr, env, depth)
		if err != nil {
			return nil, err
		}
		if last := lb.Last(); last != nil {
			last.SetCdr(tail)
		}
		break
	}
	return lb.List(), nil
}
