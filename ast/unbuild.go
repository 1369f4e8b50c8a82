package ast

import "github.com/mlisp-lang/mlisp/sx"

// Unbuild is the inverse of Build: it turns an Expression back into its
// S-expression form, needed by the macro expander (spec.md §4.5 step 3)
// to hand a macro's *unevaluated* argument expressions to the macro body
// as data. A Let produced by Build's internal multi-expression-body
// rewrite (spec.md §4.4's `sequence`) unbuilds back to an explicit
// nested `let`/`let*` form rather than the original flat body syntax —
// a different-looking but equivalent S-expression, which is all step 3
// requires (the result only needs to re-Build to an equivalent
// Expression, not to look byte-identical to what the user originally
// wrote).
func Unbuild(expr Expression) (sx.Value, error) {
	switch e := expr.(type) {
	case Literal:
		return e.Value, nil
	case Var:
		return sx.Symbol(e.Name), nil
	case *If:
		return unbuildIf(e)
	case *And:
		return unbuildBinary(sx.SymbolAnd, e.E1, e.E2)
	case *Or:
		return unbuildBinary(sx.SymbolOr, e.E1, e.E2)
	case *Apply:
		fn, err := Unbuild(e.Fn)
		if err != nil {
			return nil, err
		}
		args, err := Unbuild(e.Args)
		if err != nil {
			return nil, err
		}
		return sx.MakeList(sx.SymbolApply, fn, args), nil
	case *Call:
		return unbuildCall(e)
	case *Lambda:
		return unbuildLambda(e)
	case *Let:
		return unbuildLet(e)
	case *DefExpr:
		return unbuildDef(e.Def)
	case *ModuleDef:
		return unbuildModule(e)
	case *Import:
		return unbuildImport(e)
	case *MacroDef:
		return unbuildMacroDef(e.Name, e.Params, e.Body)
	case *LoadModule:
		nameVal, err := Unbuild(e.NameExpr)
		if err != nil {
			return nil, err
		}
		return sx.MakeList(sx.Symbol("load-module"), nameVal), nil
	default:
		return nil, PoorlyFormedExpression{Text: "unbuildable expression"}
	}
}

func unbuildIf(e *If) (sx.Value, error) {
	cond, err := Unbuild(e.Cond)
	if err != nil {
		return nil, err
	}
	then, err := Unbuild(e.Then)
	if err != nil {
		return nil, err
	}
	if e.Else == nil {
		// Only a catch-all-less cond builds a nil Else, and (if c t) does
		// not re-Build, so this unbuilds as a one-clause cond.
		return sx.MakeList(sx.SymbolCond, sx.MakeList(cond, then)), nil
	}
	els, err := Unbuild(e.Else)
	if err != nil {
		return nil, err
	}
	return sx.MakeList(sx.SymbolIf, cond, then, els), nil
}

func unbuildBinary(head sx.Symbol, e1, e2 Expression) (sx.Value, error) {
	a, err := Unbuild(e1)
	if err != nil {
		return nil, err
	}
	b, err := Unbuild(e2)
	if err != nil {
		return nil, err
	}
	return sx.MakeList(head, a, b), nil
}

func unbuildCall(e *Call) (sx.Value, error) {
	fn, err := Unbuild(e.Fn)
	if err != nil {
		return nil, err
	}
	vals := make([]sx.Value, 0, len(e.Args)+1)
	vals = append(vals, fn)
	for _, a := range e.Args {
		v, err := Unbuild(a)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return sx.MakeList(vals...), nil
}

func unbuildLambda(e *Lambda) (sx.Value, error) {
	body, err := Unbuild(e.Body)
	if err != nil {
		return nil, err
	}
	return sx.MakeList(sx.SymbolLambda, symList(e.Params), body), nil
}

func unbuildLet(e *Let) (sx.Value, error) {
	kw := sx.SymbolLet
	switch e.Kind {
	case Sequential:
		kw = sx.SymbolLetStar
	case Recursive:
		kw = sx.SymbolLetrec
	}
	bindingVals := make([]sx.Value, len(e.Bindings))
	for i, b := range e.Bindings {
		v, err := Unbuild(b.Expr)
		if err != nil {
			return nil, err
		}
		bindingVals[i] = sx.MakeList(sx.Symbol(b.Name), v)
	}
	body, err := Unbuild(e.Body)
	if err != nil {
		return nil, err
	}
	return sx.MakeList(kw, sx.MakeList(bindingVals...), body), nil
}

func unbuildDef(def Definition) (sx.Value, error) {
	switch d := def.(type) {
	case SetVar:
		v, err := Unbuild(d.Expr)
		if err != nil {
			return nil, err
		}
		return sx.MakeList(sx.SymbolDefine, sx.Symbol(d.Name), v), nil
	case DefineFunction:
		body, err := Unbuild(d.Body)
		if err != nil {
			return nil, err
		}
		return sx.MakeList(sx.SymbolDefun, sx.Symbol(d.Name), symList(d.Params), body), nil
	case DefineMacro:
		return unbuildMacroDef(d.Name, d.Params, d.Body)
	case BareExpr:
		return Unbuild(d.Expr)
	default:
		return nil, PoorlyFormedExpression{Text: "unbuildable definition"}
	}
}

func unbuildMacroDef(name string, params []string, body Expression) (sx.Value, error) {
	bodyVal, err := Unbuild(body)
	if err != nil {
		return nil, err
	}
	return sx.MakeList(sx.SymbolDefmacro, sx.Symbol(name), symList(params), bodyVal), nil
}

func unbuildModule(e *ModuleDef) (sx.Value, error) {
	vals := make([]sx.Value, 0, len(e.Body)+3)
	vals = append(vals, sx.SymbolModule, sx.Symbol(e.Name), symList(e.Exports))
	for _, sub := range e.Body {
		v, err := Unbuild(sub)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return sx.MakeList(vals...), nil
}

func unbuildImport(e *Import) (sx.Value, error) {
	switch s := e.Spec.(type) {
	case ImportAll:
		return sx.MakeList(sx.SymbolImport, sx.Symbol(s.Module)), nil
	case ImportSelective:
		vals := make([]sx.Value, 0, len(s.Names)+2)
		vals = append(vals, sx.SymbolImport, sx.Symbol(s.Module))
		for _, n := range s.Names {
			vals = append(vals, sx.Symbol(n))
		}
		return sx.MakeList(vals...), nil
	case ImportAs:
		return sx.MakeList(sx.SymbolImport, sx.Symbol(s.Module), keywordAs, sx.Symbol(s.Alias)), nil
	default:
		return nil, PoorlyFormedExpression{Text: "unbuildable import spec"}
	}
}

func symList(names []string) *sx.Pair {
	vals := make([]sx.Value, len(names))
	for i, n := range names {
		vals[i] = sx.Symbol(n)
	}
	return sx.MakeList(vals...)
}
