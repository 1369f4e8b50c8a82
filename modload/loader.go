// Package modload implements spec.md §4.7's "load from file" half of the
// module subsystem and §9's module-cache lifecycle: search paths, a
// process-wide cache keyed by module name, and currently-loading cycle
// detection. It wires reader -> ast -> macro -> eval together for one
// source file the way interp does for one top-level form, and its
// Load method is handed to eval.Evaluator as the Loader hook (eval
// itself never imports modload, keeping the dependency order reader ->
// ast -> eval -> macro -> modload from folding back on itself).
package modload

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/eval"
	"github.com/mlisp-lang/mlisp/macro"
	"github.com/mlisp-lang/mlisp/reader"
	"github.com/mlisp-lang/mlisp/rt"
)

// DefaultSearchPaths is the search order spec.md §4.7 names: the
// current working directory, then a ./modules/ subdirectory.
var DefaultSearchPaths = []string{".", "modules"}

// cacheEntry is spec.md §9's "(value, internal-env, source-path,
// load-timestamp)" tuple.
type cacheEntry struct {
	value      *rt.Module
	env        *rt.Environment
	sourcePath string
	loadedAt   time.Time
}

// Loader is the process-wide module cache plus currently-loading stack.
// It is safe for concurrent use (guarded by mu), though spec.md §9 notes
// the single-threaded execution model already serializes every mutator.
type Loader struct {
	Eval    *eval.Evaluator
	Expand  *macro.Expander
	Paths   []string
	Logger  *slog.Logger

	mu      sync.Mutex
	cache   map[string]*cacheEntry
	loading []string
}

// New builds a Loader over the given search paths (DefaultSearchPaths
// if nil/empty). ev and mx are the already-constructed Evaluator and
// Expander the caller wires every other form through; Load reuses them
// so a loaded file's own macros and module defs behave identically to
// top-level REPL/file input (spec.md §4.7 describes loading a file as
// "parse/expand/evaluate each form sequentially").
func New(ev *eval.Evaluator, mx *macro.Expander, paths []string, logger *slog.Logger) *Loader {
	if len(paths) == 0 {
		paths = DefaultSearchPaths
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		Eval:   ev,
		Expand: mx,
		Paths:  paths,
		Logger: logger,
		cache:  make(map[string]*cacheEntry),
	}
}

// Load implements eval.Loader: spec.md §4.7's seven-step load protocol.
func (l *Loader) Load(name string, caller *rt.Environment) (*rt.Module, error) {
	if err := l.enter(name); err != nil {
		return nil, err
	}
	if entry, ok := l.cached(name); ok {
		l.leave(name)
		return entry.value, nil
	}

	path, err := l.resolve(name)
	if err != nil {
		l.leave(name)
		return nil, ModuleLoadError{Name: name, Reason: "not found"}
	}

	module, moduleEnv, err := l.loadFile(name, path, caller)
	l.leave(name)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[name] = &cacheEntry{value: module, env: moduleEnv, sourcePath: path, loadedAt: time.Now()}
	l.mu.Unlock()
	l.Logger.Debug("module loaded", "name", name, "path", path)
	return module, nil
}

// Clear empties the module cache, backing the `clear-module-cache`
// primitive (SPEC_FULL.md §3 — spec.md §9 requires the cache be
// "cleared only by an explicit primitive" but never names one).
func (l *Loader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*cacheEntry)
}

func (l *Loader) enter(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if slices.Contains(l.loading, name) {
		chain := strings.Join(append(append([]string{}, l.loading...), name), "→")
		return ModuleLoadError{Name: name, Reason: fmt.Sprintf("Circular dependency: %s", chain)}
	}
	l.loading = append(l.loading, name)
	return nil
}

func (l *Loader) leave(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.loading) - 1; i >= 0; i-- {
		if l.loading[i] == name {
			l.loading = append(l.loading[:i], l.loading[i+1:]...)
			return
		}
	}
}

func (l *Loader) cached(name string) (*cacheEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.cache[name]
	return entry, ok
}

// resolve tries each search path in order for NAME.mlisp.
func (l *Loader) resolve(name string) (string, error) {
	fileName := name + ".mlisp"
	for _, dir := range l.Paths {
		candidate := filepath.Join(dir, fileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", os.ErrNotExist
}

// loadFile opens path and evaluates every top-level form in it,
// sequentially, against a fresh environment derived from caller (spec.md
// §4.7 step 5). Every cleanup obligation — closing the file, popping
// currently_loading — fires on every exit path; popping currently_loading
// is the caller's job (Load calls leave unconditionally), so loadFile
// only has to guarantee the file handle closes.
func (l *Loader) loadFile(name, path string, caller *rt.Environment) (*rt.Module, *rt.Environment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, ModuleLoadError{Name: name, Reason: err.Error()}
	}
	defer f.Close()

	moduleEnv := rt.ExtendNamed(caller, name)
	rd := reader.New(f, path)
	for {
		obj, err := rd.Read()
		if err == reader.EndOfStream {
			break
		}
		if err != nil {
			return nil, nil, ModuleLoadError{Name: name, Reason: err.Error()}
		}

		expr, err := ast.Build(obj)
		if err != nil {
			return nil, nil, ModuleLoadError{Name: name, Reason: err.Error()}
		}
		expr, err = l.Expand.Expand(expr, moduleEnv)
		if err != nil {
			return nil, nil, ModuleLoadError{Name: name, Reason: err.Error()}
		}
		if _, err := l.Eval.Compute(expr, moduleEnv); err != nil {
			return nil, nil, ModuleLoadError{Name: name, Reason: err.Error()}
		}
	}

	val, err := moduleEnv.Lookup(name)
	if err != nil {
		return nil, nil, ModuleLoadError{Name: name, Reason: fmt.Sprintf("%s.mlisp does not define a module named %s", name, name)}
	}
	module, ok := val.(*rt.Module)
	if !ok {
		return nil, nil, ModuleLoadError{Name: name, Reason: fmt.Sprintf("%s is not a module", name)}
	}
	return module, moduleEnv, nil
}
