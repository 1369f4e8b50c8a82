package eval

import (
	"log/slog"

	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/rt"
	"github.com/mlisp-lang/mlisp/sx"
)

// computeModule implements `(module name (exports…) body…)` per spec.md
// §4.7's numbered steps, binding the finished Module in env only; it is
// not entered into modload's module cache. The placeholder/rebind dance lets a
// function defined earlier in the body call one defined later, and lets
// the module itself be referenced recursively (e.g. `(import self)`-
// style self-reference) from within its own body.
func (ev *Evaluator) computeModule(m *ast.ModuleDef, env *rt.Environment) (sx.Value, error) {
	moduleEnv := rt.ExtendNamed(env, m.Name)
	moduleEnv.Bind(m.Name, &rt.Module{Name: m.Name, Env: moduleEnv})

	for _, sub := range m.Body {
		if _, err := ev.Compute(sub, moduleEnv); err != nil {
			return nil, err
		}
		if !isModuleBodyForm(sub) {
			slog.Warn("non-definition expression in module body", "module", m.Name)
		}
	}

	for _, name := range m.Exports {
		if !moduleEnv.IsBoundLocal(name) {
			return nil, ExportNotFound{Module: m.Name, Name: name}
		}
	}

	module := &rt.Module{Name: m.Name, Env: moduleEnv, Exports: m.Exports}
	moduleEnv.Bind(m.Name, module)
	env.Bind(m.Name, module)
	return module, nil
}

// isModuleBodyForm reports whether sub is one of the forms spec.md §4.7
// permits without warning inside a module body.
func isModuleBodyForm(sub ast.Expression) bool {
	switch sub.(type) {
	case *ast.DefExpr, *ast.ModuleDef, *ast.Import, *ast.LoadModule, *ast.MacroDef, *ast.If, *ast.Let:
		return true
	default:
		return false
	}
}

// computeImport implements `(import spec)`'s three variants (spec.md §4.7).
func (ev *Evaluator) computeImport(imp *ast.Import, env *rt.Environment) (sx.Value, error) {
	name := importModuleName(imp.Spec)
	module, err := ev.resolveModule(name, env)
	if err != nil {
		return nil, err
	}

	switch spec := imp.Spec.(type) {
	case ast.ImportAll:
		for _, exported := range module.Exports {
			v, _ := module.LookupExport(exported)
			env.Bind(exported, v)
		}
	case ast.ImportSelective:
		for _, requested := range spec.Names {
			v, ok := module.LookupExport(requested)
			if !ok {
				return nil, ExportNotFound{Module: name, Name: requested}
			}
			env.Bind(requested, v)
		}
	case ast.ImportAs:
		env.Bind(spec.Alias, module)
		for _, exported := range module.Exports {
			v, _ := module.LookupExport(exported)
			env.Bind(spec.Alias+"."+exported, v)
		}
	}
	return module, nil
}

func importModuleName(spec ast.ImportSpec) string {
	switch s := spec.(type) {
	case ast.ImportAll:
		return s.Module
	case ast.ImportSelective:
		return s.Module
	case ast.ImportAs:
		return s.Module
	default:
		return ""
	}
}

// resolveModule looks up name as an already-bound Module value (an
// inline `(module name …)` evaluated earlier in the same form sequence);
// if nothing is bound under that name it falls back to the injected
// Loader, which resolves NAME.mlisp from the search path (spec.md §4.7
// describes lookup-in-caller-env and file loading as separate
// operations, but `(import name)` must reach both — see DESIGN.md).
func (ev *Evaluator) resolveModule(name string, env *rt.Environment) (*rt.Module, error) {
	v, err := env.Lookup(name)
	if err == nil {
		module, ok := v.(*rt.Module)
		if !ok {
			return nil, NotAModule{Name: name}
		}
		return module, nil
	}
	if _, notFound := err.(rt.NotFoundError); !notFound {
		return nil, err
	}
	if ev.Loader == nil {
		return nil, ErrNoLoader{Name: name}
	}
	return ev.Loader(name, env)
}

// computeLoadModule implements the `(load-module name-expr)` node
// (spec.md §4.7), loading the named module through the Loader hook.
// `import` does not go through it; see resolveModule.
func (ev *Evaluator) computeLoadModule(lm *ast.LoadModule, env *rt.Environment) (sx.Value, error) {
	nameVal, err := ev.Compute(lm.NameExpr, env)
	if err != nil {
		return nil, err
	}
	var name string
	switch v := nameVal.(type) {
	case sx.String:
		name = v.GetValue()
	case sx.Symbol:
		name = v.Name()
	default:
		return nil, TypeError{Expected: "(load-module string-or-symbol)"}
	}
	if ev.Loader == nil {
		return nil, ErrNoLoader{Name: name}
	}
	return ev.Loader(name, env)
}
