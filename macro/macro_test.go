package macro_test

import (
	"strings"
	"testing"

	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/eval"
	"github.com/mlisp-lang/mlisp/macro"
	"github.com/mlisp-lang/mlisp/reader"
	"github.com/mlisp-lang/mlisp/rt"
	"github.com/mlisp-lang/mlisp/sx"
)

func readSrc(t *testing.T, src string) sx.Value {
	t.Helper()
	rd := reader.New(strings.NewReader(src), "test")
	val, err := rd.Read()
	if err != nil {
		t.Fatalf("reading %q: %v", src, err)
	}
	return val
}

func buildSrc(t *testing.T, src string) ast.Expression {
	t.Helper()
	expr, err := ast.Build(readSrc(t, src))
	if err != nil {
		t.Fatalf("building %q: %v", src, err)
	}
	return expr
}

func newEnvWithList() (*rt.Environment, *eval.Evaluator) {
	env := rt.CreateRoot()
	env.Bind("list", &rt.Primitive{Name: "list", Fn: func(args []sx.Value) (sx.Value, error) {
		return sx.MakeList(args...), nil
	}})
	return env, eval.New(nil, nil)
}

func defineMacro(t *testing.T, ev *eval.Evaluator, env *rt.Environment, src string) {
	t.Helper()
	expr := buildSrc(t, src)
	if _, err := ev.Compute(expr, env); err != nil {
		t.Fatalf("defining macro %q: %v", src, err)
	}
}

func TestExpandSimpleMacroCall(t *testing.T) {
	env, ev := newEnvWithList()
	defineMacro(t, ev, env, "(defmacro twice (x) (list (quote +) x x))")

	mx := macro.New(ev, 0)
	call := buildSrc(t, "(twice 5)")
	expanded, err := mx.Expand(call, env)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	c, ok := expanded.(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", expanded)
	}
	fn, ok := c.Fn.(ast.Var)
	if !ok || fn.Name != "+" {
		t.Fatalf("expected head +, got %#v", c.Fn)
	}
	if len(c.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(c.Args))
	}
	for _, a := range c.Args {
		lit, ok := a.(ast.Literal)
		if !ok || lit.Value.(sx.Integer) != 5 {
			t.Errorf("expected literal 5, got %#v", a)
		}
	}
}

func TestExpandDescendsIntoNonMacroNodes(t *testing.T) {
	env, ev := newEnvWithList()
	defineMacro(t, ev, env, "(defmacro twice (x) (list (quote +) x x))")
	mx := macro.New(ev, 0)

	expr := buildSrc(t, "(if #t (twice 1) 0)")
	expanded, err := mx.Expand(expr, env)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	ifExpr := expanded.(*ast.If)
	call, ok := ifExpr.Then.(*ast.Call)
	if !ok {
		t.Fatalf("expected the then-branch macro call to be expanded, got %T", ifExpr.Then)
	}
	if fn, ok := call.Fn.(ast.Var); !ok || fn.Name != "+" {
		t.Fatalf("expected expanded call head +, got %#v", call.Fn)
	}
}

func TestExpandArityMismatch(t *testing.T) {
	env, ev := newEnvWithList()
	defineMacro(t, ev, env, "(defmacro twice (x) (list (quote +) x x))")
	mx := macro.New(ev, 0)

	call := buildSrc(t, "(twice 1 2)")
	_, err := mx.Expand(call, env)
	if _, ok := err.(macro.ArityError); !ok {
		t.Fatalf("expected macro.ArityError, got %v (%T)", err, err)
	}
}

func TestExpandDoesNotDescendIntoImportOrMacroDef(t *testing.T) {
	env, ev := newEnvWithList()
	defineMacro(t, ev, env, "(defmacro noop (x) x)")
	mx := macro.New(ev, 0)

	expr := buildSrc(t, "(import m)")
	expanded, err := mx.Expand(expr, env)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if expanded != expr {
		t.Fatalf("expected import node to pass through unchanged")
	}

	md := &ast.MacroDef{Name: "m", Params: []string{"x"}, Body: buildSrc(t, "(noop x)")}
	expandedMD, err := mx.Expand(md, env)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if expandedMD != md {
		t.Fatalf("expected macro definition node to pass through unchanged")
	}
}

func TestExpandSexprOneStepVsFixpoint(t *testing.T) {
	env, ev := newEnvWithList()
	// wrapper expands to a call to inner; inner expands to a quoted literal.
	defineMacro(t, ev, env, "(defmacro inner (x) (list (quote quote) x))")
	defineMacro(t, ev, env, "(defmacro wrapper (x) (list (quote inner) x))")
	mx := macro.New(ev, 0)

	obj := readSrc(t, "(wrapper 9)")

	oneStep, err := mx.ExpandSexpr(env, obj, true)
	if err != nil {
		t.Fatalf("one-step expand: %v", err)
	}
	oneStepPair, ok := oneStep.(*sx.Pair)
	if !ok {
		t.Fatalf("expected a pair from one-step expansion, got %T", oneStep)
	}
	head, _ := sx.GetSymbol(oneStepPair.Car())
	if head != "inner" {
		t.Fatalf("expected one-step expansion to stop at (inner 9), got %v", oneStep)
	}

	fixpoint, err := mx.ExpandSexpr(env, obj, false)
	if err != nil {
		t.Fatalf("fixpoint expand: %v", err)
	}
	if q, ok := fixpoint.(sx.Quote); !ok || !q.Wrapped.IsEqual(sx.Integer(9)) {
		t.Fatalf("expected fixpoint expansion to reduce to '9, got %v", fixpoint)
	}
}

func TestExpandRecursionLimit(t *testing.T) {
	env, ev := newEnvWithList()
	defineMacro(t, ev, env, "(defmacro loopy (x) (list (quote loopy) x))")
	mx := macro.New(ev, 3)

	call := buildSrc(t, "(loopy 1)")
	_, err := mx.Expand(call, env)
	if _, ok := err.(macro.MacroRecursionLimit); !ok {
		t.Fatalf("expected macro.MacroRecursionLimit, got %v (%T)", err, err)
	}
}
