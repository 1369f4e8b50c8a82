package eval_test

import (
	"strings"
	"testing"

	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/eval"
	"github.com/mlisp-lang/mlisp/reader"
	"github.com/mlisp-lang/mlisp/rt"
	"github.com/mlisp-lang/mlisp/sx"
)

func computeSrc(t *testing.T, ev *eval.Evaluator, env *rt.Environment, src string) sx.Value {
	t.Helper()
	obj, err := reader.New(strings.NewReader(src), "<test>").Read()
	if err != nil {
		t.Fatalf("reading %q: %v", src, err)
	}
	expr, err := ast.Build(obj)
	if err != nil {
		t.Fatalf("building %q: %v", src, err)
	}
	val, err := ev.Compute(expr, env)
	if err != nil {
		t.Fatalf("computing %q: %v", src, err)
	}
	return val
}

func newRootEnv() *rt.Environment { return rt.CreateRoot() }

func bindListPrimitive(env *rt.Environment) {
	env.Bind("list", &rt.Primitive{Name: "list", Fn: func(args []sx.Value) (sx.Value, error) {
		return sx.MakeList(args...), nil
	}})
}

func TestComputeLiteralAndIf(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()

	got := computeSrc(t, ev, env, "(if #t 1 2)")
	if got.(sx.Integer) != 1 {
		t.Errorf("expected 1, got %v", got)
	}
	got = computeSrc(t, ev, env, "(if #f 1 2)")
	if got.(sx.Integer) != 2 {
		t.Errorf("expected 2, got %v", got)
	}
}

func TestIfRequiresBoolean(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	obj, _ := reader.New(strings.NewReader("(if 1 2 3)"), "<test>").Read()
	expr, _ := ast.Build(obj)
	_, err := ev.Compute(expr, env)
	if _, ok := err.(eval.IllegalIfExpression); !ok {
		t.Fatalf("expected IllegalIfExpression, got %v (%T)", err, err)
	}
}

func TestAndOrStrictness(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	if got := computeSrc(t, ev, env, "(and #t #f)"); got != sx.False {
		t.Errorf("expected #f, got %v", got)
	}
	if got := computeSrc(t, ev, env, "(or #f #t)"); got != sx.True {
		t.Errorf("expected #t, got %v", got)
	}
}

func TestDefineAndLookup(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	computeSrc(t, ev, env, "(define x 41)")
	v, err := env.Lookup("x")
	if err != nil {
		t.Fatalf("lookup x: %v", err)
	}
	if v.(sx.Integer) != 41 {
		t.Errorf("expected 41, got %v", v)
	}
}

func TestDefunRecursion(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	env.Bind("zero?", &rt.Primitive{Name: "zero?", Fn: func(args []sx.Value) (sx.Value, error) {
		return sx.Boolean(args[0].(sx.Integer) == 0), nil
	}})
	env.Bind("-", &rt.Primitive{Name: "-", Fn: func(args []sx.Value) (sx.Value, error) {
		return args[0].(sx.Integer) - args[1].(sx.Integer), nil
	}})
	env.Bind("+", &rt.Primitive{Name: "+", Fn: func(args []sx.Value) (sx.Value, error) {
		return args[0].(sx.Integer) + args[1].(sx.Integer), nil
	}})

	computeSrc(t, ev, env, "(defun count-down (n) (if (zero? n) 0 (+ 1 (count-down (- n 1)))))")
	got := computeSrc(t, ev, env, "(count-down 5)")
	if got.(sx.Integer) != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestLambdaLegacyVsOptimizedCapture(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	env.Bind("+", &rt.Primitive{Name: "+", Fn: func(args []sx.Value) (sx.Value, error) {
		return args[0].(sx.Integer) + args[1].(sx.Integer), nil
	}})
	computeSrc(t, ev, env, "(define k 10)")

	noFree := computeSrc(t, ev, env, "(lambda (x) x)").(*rt.Closure)
	if noFree.Optimized {
		t.Errorf("expected Legacy capture for a closure with no free variables")
	}

	withFree := computeSrc(t, ev, env, "(lambda (x) (+ x k))").(*rt.Closure)
	if !withFree.Optimized {
		t.Errorf("expected Optimized capture for a closure referencing k")
	}
	found := false
	for _, c := range withFree.Captured {
		if c.Name == "k" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected k among captured cells, got %#v", withFree.Captured)
	}
}

func TestLetVariants(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()

	if got := computeSrc(t, ev, env, "(let ((x 1) (y 2)) x)"); got.(sx.Integer) != 1 {
		t.Errorf("let: expected 1, got %v", got)
	}
	if got := computeSrc(t, ev, env, "(let* ((x 1) (y (let ((z x)) z))) y)"); got.(sx.Integer) != 1 {
		t.Errorf("let*: expected 1, got %v", got)
	}
}

func TestLetrecUnspecifiedBeforeAssignment(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	obj, _ := reader.New(strings.NewReader("(letrec ((a a)) a)"), "<test>").Read()
	expr, _ := ast.Build(obj)
	_, err := ev.Compute(expr, env)
	if _, ok := err.(rt.UnspecifiedError); !ok {
		t.Fatalf("expected rt.UnspecifiedError, got %v (%T)", err, err)
	}
}

func TestApplyAndCallEnvPrimitive(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	computeSrc(t, ev, env, "(define x 7)")
	bindings := computeSrc(t, ev, env, "(env)")
	pair, ok := bindings.(*sx.Pair)
	if !ok {
		t.Fatalf("expected (env) to return a pair-based alist, got %T", bindings)
	}
	found := false
	for elem := range pair.Values() {
		entry := elem.(*sx.Pair)
		if entry.Car().(sx.Symbol) == "x" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected x among (env) bindings")
	}
}

func TestApplyDispatchesToClosure(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	env.Bind("+", &rt.Primitive{Name: "+", Fn: func(args []sx.Value) (sx.Value, error) {
		return args[0].(sx.Integer) + args[1].(sx.Integer), nil
	}})
	bindListPrimitive(env)
	computeSrc(t, ev, env, "(define add1 (lambda (x) (+ x 1)))")
	got := computeSrc(t, ev, env, "(apply add1 (list 41))")
	if got.(sx.Integer) != 42 {
		t.Fatalf("expected 42, got %v", got)
	}
}

func TestApplyRejectsNonCallable(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	obj, _ := reader.New(strings.NewReader("(1 2)"), "<test>").Read()
	expr, _ := ast.Build(obj)
	_, err := ev.Compute(expr, env)
	if _, ok := err.(eval.ApplyError); !ok {
		t.Fatalf("expected eval.ApplyError, got %v (%T)", err, err)
	}
}

func TestQuasiquoteUnquoteAndSplicing(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	bindListPrimitive(env)
	computeSrc(t, ev, env, "(define x 2)")
	computeSrc(t, ev, env, "(define xs (list 3 4))")

	got := computeSrc(t, ev, env, "`(1 ,x ,@xs 5)")
	want := sx.MakeList(sx.Integer(1), sx.Integer(2), sx.Integer(3), sx.Integer(4), sx.Integer(5))
	if !got.IsEqual(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestQuasiquoteNestedDepth(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	// The inner unquote is shielded by the nested quasiquote: at depth 2
	// it is preserved structurally rather than evaluated.
	got := computeSrc(t, ev, env, "`(a `(b ,(+ 1 2)))")
	pair := got.(*sx.Pair)
	inner := pair.Tail().Car().(sx.Quasiquote)
	innerList := inner.Wrapped.(*sx.Pair)
	second := innerList.Tail().Car()
	if _, ok := second.(sx.Unquote); !ok {
		t.Fatalf("expected the depth-2 unquote to survive structurally, got %T", second)
	}
}

func TestUnquoteOutsideQuasiquoteIsAnError(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	obj, _ := reader.New(strings.NewReader(",x"), "<test>").Read()
	expr, _ := ast.Build(obj)
	_, err := ev.Compute(expr, env)
	if _, ok := err.(eval.TypeError); !ok {
		t.Fatalf("expected eval.TypeError, got %v (%T)", err, err)
	}
}

func TestModuleDefinitionAndImportAll(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	computeSrc(t, ev, env, "(module m (a b) (define a 1) (define b 2) (define c 3))")
	computeSrc(t, ev, env, "(import m)")

	a, err := env.Lookup("a")
	if err != nil || a.(sx.Integer) != 1 {
		t.Fatalf("expected imported a=1, got %v, %v", a, err)
	}
	if _, err := env.Lookup("c"); err == nil {
		t.Fatalf("expected c to stay unexported/unbound in the caller")
	}
}

func TestModuleExportNotFound(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	obj, _ := reader.New(strings.NewReader("(module m (missing) (define a 1))"), "<test>").Read()
	expr, _ := ast.Build(obj)
	_, err := ev.Compute(expr, env)
	if _, ok := err.(eval.ExportNotFound); !ok {
		t.Fatalf("expected eval.ExportNotFound, got %v (%T)", err, err)
	}
}

func TestImportSelective(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	computeSrc(t, ev, env, "(module m (a b) (define a 1) (define b 2))")
	computeSrc(t, ev, env, "(import m a)")
	if _, err := env.Lookup("a"); err != nil {
		t.Fatalf("expected a bound: %v", err)
	}
	if _, err := env.Lookup("b"); err == nil {
		t.Fatalf("expected b to stay unbound after a selective import")
	}
}

func TestImportAsNamespaces(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	computeSrc(t, ev, env, "(module m (a) (define a 1))")
	computeSrc(t, ev, env, "(import m :as ns)")
	if _, err := env.Lookup("ns.a"); err != nil {
		t.Fatalf("expected ns.a bound: %v", err)
	}
	if v, err := env.Lookup("ns"); err != nil {
		t.Fatalf("expected ns itself bound to the module value: %v", err)
	} else if _, ok := v.(*rt.Module); !ok {
		t.Fatalf("expected ns to hold the module value, got %T", v)
	}
}

func TestImportNotAModule(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	computeSrc(t, ev, env, "(define m 1)")
	obj, _ := reader.New(strings.NewReader("(import m)"), "<test>").Read()
	expr, _ := ast.Build(obj)
	_, err := ev.Compute(expr, env)
	if _, ok := err.(eval.NotAModule); !ok {
		t.Fatalf("expected eval.NotAModule, got %v (%T)", err, err)
	}
}

func TestLoadModuleWithoutLoaderConfigured(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	obj, _ := reader.New(strings.NewReader(`(import undefined-module)`), "<test>").Read()
	expr, _ := ast.Build(obj)
	_, err := ev.Compute(expr, env)
	if _, ok := err.(eval.ErrNoLoader); !ok {
		t.Fatalf("expected eval.ErrNoLoader, got %v (%T)", err, err)
	}
}

func TestMacroexpandWithoutExpanderConfigured(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	obj, _ := reader.New(strings.NewReader(`(macroexpand '(f 1))`), "<test>").Read()
	expr, _ := ast.Build(obj)
	_, err := ev.Compute(expr, env)
	if _, ok := err.(eval.ErrNoExpander); !ok {
		t.Fatalf("expected eval.ErrNoExpander, got %v (%T)", err, err)
	}
}

func TestMacroexpandDelegatesToHook(t *testing.T) {
	calledOneStep := false
	ev := eval.New(nil, func(env *rt.Environment, s sx.Value, onestep bool) (sx.Value, error) {
		calledOneStep = onestep
		return s, nil
	})
	env := newRootEnv()
	obj, _ := reader.New(strings.NewReader(`(macroexpand-1 '(f 1))`), "<test>").Read()
	expr, _ := ast.Build(obj)
	got, err := ev.Compute(expr, env)
	if err != nil {
		t.Fatalf("macroexpand-1: %v", err)
	}
	if !calledOneStep {
		t.Errorf("expected macroexpand-1 to request a single step")
	}
	if _, ok := got.(sx.Quote); !ok {
		t.Errorf("expected a Quote-wrapped result, got %T", got)
	}
}

func TestArityMismatch(t *testing.T) {
	ev := eval.New(nil, nil)
	env := newRootEnv()
	computeSrc(t, ev, env, "(define f (lambda (x y) x))")
	obj, _ := reader.New(strings.NewReader("(f 1)"), "<test>").Read()
	expr, _ := ast.Build(obj)
	_, err := ev.Compute(expr, env)
	if _, ok := err.(eval.MissingArgument); !ok {
		t.Fatalf("expected eval.MissingArgument, got %v (%T)", err, err)
	}
}
