package ast

import (
	"github.com/mlisp-lang/mlisp/sx"
)

// Build is the special-form recognizer (spec.md §4.4): a pure function
// from one reader-produced sx.Value to an Expression tree. It is
// grounded on the head-symbol dispatch table spec.md §4.4 lays out;
// the table itself replaces anything the teacher's sxeval package does
// here, since the teacher has no AST-builder stage at all (its parser
// goes straight from sx.Object to a compiled Expr via Parse/Improve).
func Build(obj sx.Value) (Expression, error) {
	switch v := obj.(type) {
	case sx.Quote:
		return Literal{Value: v}, nil
	case sx.Quasiquote:
		return Literal{Value: v}, nil
	case sx.Symbol:
		return Var{Name: string(v)}, nil
	case sx.Integer, sx.Boolean, sx.String:
		return Literal{Value: v}, nil
	case *sx.Pair:
		return buildPair(v)
	default:
		return Literal{Value: obj}, nil
	}
}

func buildPair(pair *sx.Pair) (Expression, error) {
	if pair == nil {
		return nil, PoorlyFormedExpression{Text: "()"}
	}
	elems, err := sx.ToSlice(pair)
	if err != nil {
		return nil, PoorlyFormedExpression{Text: pair.String()}
	}
	if len(elems) == 0 {
		return nil, PoorlyFormedExpression{Text: "()"}
	}
	if head, ok := sx.GetSymbol(elems[0]); ok {
		switch head {
		case sx.SymbolIf:
			return buildIf(elems)
		case sx.SymbolCond:
			return buildCond(elems[1:])
		case sx.SymbolAnd:
			return buildBinaryLogic(elems, func(a, b Expression) Expression { return &And{E1: a, E2: b} })
		case sx.SymbolOr:
			return buildBinaryLogic(elems, func(a, b Expression) Expression { return &Or{E1: a, E2: b} })
		case sx.SymbolQuote:
			return buildQuote(elems)
		case sx.SymbolDefine:
			return buildDefine(elems)
		case sx.SymbolDefun:
			return buildDefun(elems)
		case sx.SymbolDefmacro:
			return buildDefmacro(elems)
		case sx.SymbolLambda:
			return buildLambda(elems)
		case sx.SymbolApply:
			return buildApply(elems)
		case sx.SymbolLet:
			return buildLet(Parallel, elems)
		case sx.SymbolLetStar:
			return buildLet(Sequential, elems)
		case sx.SymbolLetrec:
			return buildLet(Recursive, elems)
		case sx.SymbolModule:
			return buildModule(elems)
		case sx.SymbolImport:
			return buildImport(elems)
		}
	}
	return buildCall(elems)
}

func buildIf(elems []sx.Value) (Expression, error) {
	if len(elems) != 4 {
		return nil, TypeError{Expected: "(if c t f)"}
	}
	cond, err := Build(elems[1])
	if err != nil {
		return nil, err
	}
	then, err := Build(elems[2])
	if err != nil {
		return nil, err
	}
	els, err := Build(elems[3])
	if err != nil {
		return nil, err
	}
	return &If{Cond: cond, Then: then, Else: els}, nil
}

// buildCond right-folds `(cond (c1 r1) … (cn rn))` into nested If, per
// spec.md §4.4's table. The last clause may be `(else r)`, which
// becomes the innermost branch's Else directly instead of another
// condition test.
func buildCond(clauses []sx.Value) (Expression, error) {
	if len(clauses) == 0 {
		return nil, TypeError{Expected: "(cond (c r)…)"}
	}
	var result Expression
	for i := len(clauses) - 1; i >= 0; i-- {
		clauseElems, err := sx.ToSlice(clauses[i])
		if err != nil || len(clauseElems) != 2 {
			return nil, TypeError{Expected: "(cond (c r)…)"}
		}
		if sym, ok := sx.GetSymbol(clauseElems[0]); ok && sym == sx.SymbolElse {
			if i != len(clauses)-1 {
				return nil, TypeError{Expected: "else only as last cond clause"}
			}
			result, err = Build(clauseElems[1])
			if err != nil {
				return nil, err
			}
			continue
		}
		cond, err := Build(clauseElems[0])
		if err != nil {
			return nil, err
		}
		then, err := Build(clauseElems[1])
		if err != nil {
			return nil, err
		}
		result = &If{Cond: cond, Then: then, Else: result}
	}
	return result, nil
}

func buildBinaryLogic(elems []sx.Value, make func(a, b Expression) Expression) (Expression, error) {
	if len(elems) != 3 {
		return nil, TypeError{Expected: "(op x y)"}
	}
	a, err := Build(elems[1])
	if err != nil {
		return nil, err
	}
	b, err := Build(elems[2])
	if err != nil {
		return nil, err
	}
	return make(a, b), nil
}

func buildQuote(elems []sx.Value) (Expression, error) {
	if len(elems) != 2 {
		return nil, TypeError{Expected: "(quote e)"}
	}
	return Literal{Value: sx.Quote{Wrapped: elems[1]}}, nil
}

func buildDefine(elems []sx.Value) (Expression, error) {
	if len(elems) != 3 {
		return nil, TypeError{Expected: "(define sym e)"}
	}
	name, ok := sx.GetSymbol(elems[1])
	if !ok {
		return nil, TypeError{Expected: "(define sym e)"}
	}
	val, err := Build(elems[2])
	if err != nil {
		return nil, err
	}
	return &DefExpr{Def: SetVar{Name: string(name), Expr: val}}, nil
}

func buildDefun(elems []sx.Value) (Expression, error) {
	if len(elems) < 3 {
		return nil, TypeError{Expected: "(defun name (params) body)"}
	}
	name, ok := sx.GetSymbol(elems[1])
	if !ok {
		return nil, TypeError{Expected: "(defun name (params) body)"}
	}
	params, err := buildParamList(elems[2])
	if err != nil {
		return nil, err
	}
	body, err := buildSequencedBody(elems[3:])
	if err != nil {
		return nil, err
	}
	return &DefExpr{Def: DefineFunction{Name: string(name), Params: params, Body: body}}, nil
}

func buildDefmacro(elems []sx.Value) (Expression, error) {
	if len(elems) < 3 {
		return nil, TypeError{Expected: "(defmacro name (params) body)"}
	}
	name, ok := sx.GetSymbol(elems[1])
	if !ok {
		return nil, TypeError{Expected: "(defmacro name (params) body)"}
	}
	params, err := buildParamList(elems[2])
	if err != nil {
		return nil, err
	}
	body, err := buildSequencedBody(elems[3:])
	if err != nil {
		return nil, err
	}
	return &DefExpr{Def: DefineMacro{Name: string(name), Params: params, Body: body}}, nil
}

func buildLambda(elems []sx.Value) (Expression, error) {
	if len(elems) < 2 {
		return nil, TypeError{Expected: "(lambda (params) body)"}
	}
	params, err := buildParamList(elems[1])
	if err != nil {
		return nil, err
	}
	body, err := buildSequencedBody(elems[2:])
	if err != nil {
		return nil, err
	}
	return &Lambda{Params: params, Body: body}, nil
}

func buildApply(elems []sx.Value) (Expression, error) {
	if len(elems) != 3 {
		return nil, TypeError{Expected: "(apply f args)"}
	}
	fn, err := Build(elems[1])
	if err != nil {
		return nil, err
	}
	args, err := Build(elems[2])
	if err != nil {
		return nil, err
	}
	return &Apply{Fn: fn, Args: args}, nil
}

func buildLet(kind LetKind, elems []sx.Value) (Expression, error) {
	if len(elems) < 3 {
		return nil, TypeError{Expected: "(let bindings body)"}
	}
	bindingElems, err := sx.ToSlice(elems[1])
	if err != nil {
		return nil, TypeError{Expected: "(let bindings body)"}
	}
	seen := make(map[string]bool, len(bindingElems))
	bindings := make([]LetBinding, 0, len(bindingElems))
	for _, be := range bindingElems {
		pair, err := sx.ToSlice(be)
		if err != nil || len(pair) != 2 {
			return nil, TypeError{Expected: "(let bindings body)"}
		}
		name, ok := sx.GetSymbol(pair[0])
		if !ok {
			return nil, TypeError{Expected: "(let bindings body)"}
		}
		if seen[string(name)] {
			return nil, UniqueError{Name: string(name)}
		}
		seen[string(name)] = true
		val, err := Build(pair[1])
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, LetBinding{Name: string(name), Expr: val})
	}
	body, err := buildSequencedBody(elems[2:])
	if err != nil {
		return nil, err
	}
	return &Let{Kind: kind, Bindings: bindings, Body: body}, nil
}

func buildModule(elems []sx.Value) (Expression, error) {
	if len(elems) < 3 {
		return nil, TypeError{Expected: "(module name (exports…) body…)"}
	}
	name, ok := sx.GetSymbol(elems[1])
	if !ok {
		return nil, TypeError{Expected: "(module name (exports…) body…)"}
	}
	exportElems, err := sx.ToSlice(elems[2])
	if err != nil {
		return nil, TypeError{Expected: "(module name (exports…) body…)"}
	}
	exports := make([]string, 0, len(exportElems))
	for _, e := range exportElems {
		sym, ok := sx.GetSymbol(e)
		if !ok {
			return nil, TypeError{Expected: "(module name (exports…) body…)"}
		}
		exports = append(exports, string(sym))
	}
	body := make([]Expression, 0, len(elems)-3)
	for _, e := range elems[3:] {
		expr, err := Build(e)
		if err != nil {
			return nil, err
		}
		body = append(body, expr)
	}
	return &ModuleDef{Name: string(name), Exports: exports, Body: body}, nil
}

const keywordAs = sx.Symbol(":as")

func buildImport(elems []sx.Value) (Expression, error) {
	if len(elems) < 2 {
		return nil, TypeError{Expected: "(import name [:as alias | sym…])"}
	}
	name, ok := sx.GetSymbol(elems[1])
	if !ok {
		return nil, TypeError{Expected: "(import name [:as alias | sym…])"}
	}
	rest := elems[2:]
	if len(rest) == 0 {
		return &Import{Spec: ImportAll{Module: string(name)}}, nil
	}
	if sym, ok := sx.GetSymbol(rest[0]); ok && sym == keywordAs {
		if len(rest) != 2 {
			return nil, TypeError{Expected: "(import name :as alias)"}
		}
		alias, ok := sx.GetSymbol(rest[1])
		if !ok {
			return nil, TypeError{Expected: "(import name :as alias)"}
		}
		return &Import{Spec: ImportAs{Module: string(name), Alias: string(alias)}}, nil
	}
	names := make([]string, 0, len(rest))
	for _, e := range rest {
		sym, ok := sx.GetSymbol(e)
		if !ok {
			return nil, TypeError{Expected: "(import name sym…)"}
		}
		names = append(names, string(sym))
	}
	return &Import{Spec: ImportSelective{Module: string(name), Names: names}}, nil
}

func buildCall(elems []sx.Value) (Expression, error) {
	fn, err := Build(elems[0])
	if err != nil {
		return nil, err
	}
	args := make([]Expression, 0, len(elems)-1)
	for _, e := range elems[1:] {
		arg, err := Build(e)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &Call{Fn: fn, Args: args}, nil
}

func buildParamList(obj sx.Value) ([]string, error) {
	elems, err := sx.ToSlice(obj)
	if err != nil {
		return nil, TypeError{Expected: "(params…)"}
	}
	seen := make(map[string]bool, len(elems))
	params := make([]string, 0, len(elems))
	for _, e := range elems {
		sym, ok := sx.GetSymbol(e)
		if !ok {
			return nil, TypeError{Expected: "(params…)"}
		}
		if seen[string(sym)] {
			return nil, UniqueError{Name: string(sym)}
		}
		seen[string(sym)] = true
		params = append(params, string(sym))
	}
	return params, nil
}

// buildSequencedBody implements spec.md §4.4's multi-expression-body
// rewrite: `(e1 e2 … ek)` becomes `Let(Parallel, [("_", e1)],
// sequence(e2…ek))`, except that a body expression which is itself an
// internal `(define name e)` or `(defun name (params) body)` is lifted
// into a Sequential-style binding of its own name rather than "_", so
// the binding is visible to the rest of the body (required for mixed
// define/expression bodies at module level, per spec.md §4.4).
func buildSequencedBody(rawElems []sx.Value) (Expression, error) {
	if len(rawElems) == 0 {
		return nil, PoorlyFormedExpression{Text: "empty body"}
	}
	exprs := make([]Expression, 0, len(rawElems))
	for _, e := range rawElems {
		expr, err := Build(e)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return sequence(exprs), nil
}

func sequence(exprs []Expression) Expression {
	if len(exprs) == 1 {
		return exprs[0]
	}
	first, rest := exprs[0], sequence(exprs[1:])
	if def, ok := first.(*DefExpr); ok {
		if name, valExpr, ok := liftableBinding(def.Def); ok {
			return &Let{Kind: Sequential, Bindings: []LetBinding{{Name: name, Expr: valExpr}}, Body: rest}
		}
	}
	return &Let{Kind: Parallel, Bindings: []LetBinding{{Name: "_", Expr: first}}, Body: rest}
}

// liftableBinding reports the (name, value-expression) a definition
// contributes to its enclosing sequence, for the define/defun cases —
// defmacro bodies are not evaluated values the same way, so they fall
// back to an ordinary "_" binding (their DefExpr still runs for its
// environment-mutating side effect, just without exposing a name here).
func liftableBinding(def Definition) (string, Expression, bool) {
	switch d := def.(type) {
	case SetVar:
		return d.Name, d.Expr, true
	case DefineFunction:
		return d.Name, &Lambda{Name: d.Name, Params: d.Params, Body: d.Body}, true
	default:
		return "", nil, false
	}
}
