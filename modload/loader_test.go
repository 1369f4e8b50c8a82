package modload_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mlisp-lang/mlisp/eval"
	"github.com/mlisp-lang/mlisp/macro"
	"github.com/mlisp-lang/mlisp/modload"
	"github.com/mlisp-lang/mlisp/rt"
)

func newFixtureDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}
	return dir
}

func newLoader(t *testing.T, dir string) (*modload.Loader, *rt.Environment) {
	t.Helper()
	ev := eval.New(nil, nil)
	mx := macro.New(ev, 0)
	ld := modload.New(ev, mx, []string{dir}, nil)
	ev.Loader = ld.Load
	ev.Expand = mx.ExpandSexpr
	return ld, rt.CreateRoot()
}

func TestLoadCachesAndReturnsIdenticalModule(t *testing.T) {
	dir := newFixtureDir(t, map[string]string{
		"greet.mlisp": "(module greet (hello) (define hello 1))",
	})
	ld, env := newLoader(t, dir)

	m1, err := ld.Load("greet", env)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	m2, err := ld.Load("greet", env)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if m1 != m2 {
		t.Fatalf("expected cache hit to return the identical module object")
	}
}

func TestLoadNotFound(t *testing.T) {
	dir := newFixtureDir(t, map[string]string{})
	ld, env := newLoader(t, dir)

	_, err := ld.Load("nope", env)
	mle, ok := err.(modload.ModuleLoadError)
	if !ok {
		t.Fatalf("expected modload.ModuleLoadError, got %v (%T)", err, err)
	}
	if mle.Reason != "not found" {
		t.Fatalf("expected reason %q, got %q", "not found", mle.Reason)
	}
}

func TestLoadCircularDependency(t *testing.T) {
	dir := newFixtureDir(t, map[string]string{
		"a.mlisp": "(import b)\n(module a (va) (define va 1))",
		"b.mlisp": "(import a)\n(module b (vb) (define vb 2))",
	})
	ld, env := newLoader(t, dir)

	_, err := ld.Load("a", env)
	if _, ok := err.(modload.ModuleLoadError); !ok {
		t.Fatalf("expected modload.ModuleLoadError for circular dependency, got %v (%T)", err, err)
	}
}

func TestLoadStrayTopLevelDefineNotExported(t *testing.T) {
	dir := newFixtureDir(t, map[string]string{
		"mixed.mlisp": "(define stray 99)\n(module mixed (visible) (define visible 1))",
	})
	ld, env := newLoader(t, dir)

	module, err := ld.Load("mixed", env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := module.LookupExport("stray"); ok {
		t.Fatalf("expected stray top-level define to not be exported")
	}
	if _, ok := module.LookupExport("visible"); !ok {
		t.Fatalf("expected visible to be exported")
	}
}

func TestClearCacheForcesReload(t *testing.T) {
	dir := newFixtureDir(t, map[string]string{
		"greet.mlisp": "(module greet (hello) (define hello 1))",
	})
	ld, env := newLoader(t, dir)

	m1, err := ld.Load("greet", env)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	ld.Clear()
	m2, err := ld.Load("greet", env)
	if err != nil {
		t.Fatalf("reload after clear: %v", err)
	}
	if m1 == m2 {
		t.Fatalf("expected a fresh module object after Clear")
	}
}
