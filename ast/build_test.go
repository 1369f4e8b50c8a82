package ast_test

import (
	"strings"
	"testing"

	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/reader"
	"github.com/mlisp-lang/mlisp/sx"
)

func read(t *testing.T, src string) sx.Value {
	t.Helper()
	val, err := reader.New(strings.NewReader(src), "<test>").Read()
	if err != nil {
		t.Fatalf("reading %q: %v", src, err)
	}
	return val
}

func build(t *testing.T, src string) ast.Expression {
	t.Helper()
	expr, err := ast.Build(read(t, src))
	if err != nil {
		t.Fatalf("building %q: %v", src, err)
	}
	return expr
}

func TestBuildIf(t *testing.T) {
	expr := build(t, "(if #t 1 2)")
	ifExpr, ok := expr.(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", expr)
	}
	if ifExpr.Else == nil {
		t.Fatalf("expected non-nil Else")
	}
}

func TestBuildIfWrongShape(t *testing.T) {
	if _, err := ast.Build(read(t, "(if #t 1)")); err == nil {
		t.Fatalf("expected an error for malformed if")
	}
}

func TestBuildCondFoldsIntoNestedIf(t *testing.T) {
	expr := build(t, "(cond (#f 1) (#t 2) (else 3))")
	outer, ok := expr.(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", expr)
	}
	inner, ok := outer.Else.(*ast.If)
	if !ok {
		t.Fatalf("expected nested *ast.If as Else, got %T", outer.Else)
	}
	if _, ok := inner.Else.(ast.Literal); !ok {
		t.Fatalf("expected the else clause to fold to a bare literal, got %T", inner.Else)
	}
}

func TestBuildCondWithoutElse(t *testing.T) {
	expr := build(t, "(cond (#f 1) (#t 2))")
	outer := expr.(*ast.If)
	inner := outer.Else.(*ast.If)
	if inner.Else != nil {
		t.Fatalf("expected nil Else when no catch-all clause is given")
	}
}

func TestBuildAndOrRequireTwoOperands(t *testing.T) {
	if _, err := ast.Build(read(t, "(and #t)")); err == nil {
		t.Fatalf("expected error for (and #t)")
	}
	expr := build(t, "(and #t #f)")
	if _, ok := expr.(*ast.And); !ok {
		t.Fatalf("expected *ast.And, got %T", expr)
	}
}

func TestBuildLambdaDuplicateParams(t *testing.T) {
	_, err := ast.Build(read(t, "(lambda (x x) x)"))
	if _, ok := err.(ast.UniqueError); !ok {
		t.Fatalf("expected ast.UniqueError, got %v (%T)", err, err)
	}
}

func TestBuildLambdaSequencedBody(t *testing.T) {
	expr := build(t, "(lambda (x) (define y 1) (+ x y))")
	lam := expr.(*ast.Lambda)
	let, ok := lam.Body.(*ast.Let)
	if !ok {
		t.Fatalf("expected sequenced body to start with a Let, got %T", lam.Body)
	}
	if let.Kind != ast.Sequential {
		t.Errorf("expected internal define to lift into a Sequential binding, got kind %v", let.Kind)
	}
	if let.Bindings[0].Name != "y" {
		t.Errorf("expected lifted binding named y, got %q", let.Bindings[0].Name)
	}
}

func TestBuildLetKinds(t *testing.T) {
	cases := map[string]ast.LetKind{
		"(let ((x 1)) x)":    ast.Parallel,
		"(let* ((x 1)) x)":   ast.Sequential,
		"(letrec ((x 1)) x)": ast.Recursive,
	}
	for src, want := range cases {
		expr := build(t, src)
		let, ok := expr.(*ast.Let)
		if !ok {
			t.Fatalf("%q: expected *ast.Let, got %T", src, expr)
		}
		if let.Kind != want {
			t.Errorf("%q: expected kind %v, got %v", src, want, let.Kind)
		}
	}
}

func TestBuildLetDuplicateBinding(t *testing.T) {
	_, err := ast.Build(read(t, "(let ((x 1) (x 2)) x)"))
	if _, ok := err.(ast.UniqueError); !ok {
		t.Fatalf("expected ast.UniqueError, got %v (%T)", err, err)
	}
}

func TestBuildImportVariants(t *testing.T) {
	all := build(t, "(import foo)").(*ast.Import)
	if _, ok := all.Spec.(ast.ImportAll); !ok {
		t.Fatalf("expected ImportAll, got %T", all.Spec)
	}

	as := build(t, "(import foo :as bar)").(*ast.Import)
	asSpec, ok := as.Spec.(ast.ImportAs)
	if !ok || asSpec.Alias != "bar" {
		t.Fatalf("expected ImportAs{Alias: bar}, got %#v", as.Spec)
	}

	selective := build(t, "(import foo a b)").(*ast.Import)
	selSpec, ok := selective.Spec.(ast.ImportSelective)
	if !ok || len(selSpec.Names) != 2 {
		t.Fatalf("expected ImportSelective with 2 names, got %#v", selective.Spec)
	}
}

func TestBuildModule(t *testing.T) {
	expr := build(t, "(module m (a b) (define a 1) (define b 2))")
	mod, ok := expr.(*ast.ModuleDef)
	if !ok {
		t.Fatalf("expected *ast.ModuleDef, got %T", expr)
	}
	if mod.Name != "m" || len(mod.Exports) != 2 || len(mod.Body) != 2 {
		t.Fatalf("unexpected module shape: %#v", mod)
	}
}

func TestBuildEmptyListIsPoorlyFormed(t *testing.T) {
	_, err := ast.Build(read(t, "()"))
	if _, ok := err.(ast.PoorlyFormedExpression); !ok {
		t.Fatalf("expected ast.PoorlyFormedExpression, got %v (%T)", err, err)
	}
}

func TestBuildCallFallthrough(t *testing.T) {
	expr := build(t, "(f 1 2 3)")
	call, ok := expr.(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", expr)
	}
	if len(call.Args) != 3 {
		t.Errorf("expected 3 args, got %d", len(call.Args))
	}
}

func TestBuildQuoteReaderShorthand(t *testing.T) {
	expr := build(t, "'x")
	lit, ok := expr.(ast.Literal)
	if !ok {
		t.Fatalf("expected ast.Literal, got %T", expr)
	}
	if _, ok := lit.Value.(sx.Quote); !ok {
		t.Fatalf("expected sx.Quote wrapper, got %T", lit.Value)
	}
}
