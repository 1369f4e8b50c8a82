package rt

import (
	"fmt"
	"io"
	"strings"

	"github.com/mlisp-lang/mlisp/sx"
)

// CapturedCell names one (name, cell) pair an Optimized-capture closure
// carries, rather than a reference to its whole defining environment
// (spec.md §4.6).
type CapturedCell struct {
	Name string
	Cell *Cell
}

// Closure is a function value: parameter names, a body expression, and
// a captured environment (spec.md §3). The body is typed as any to keep
// rt independent of ast; eval stores an ast.Expression there and
// type-asserts it back when the closure is applied.
type Closure struct {
	Name   string
	Params []string
	Body   any // ast.Expression, set by eval; kept untyped to avoid an rt->ast import

	// Legacy capture: Env is the entire parent environment, used when the
	// free-variable analysis found no free variables to narrow down.
	Env *Environment

	// Optimized capture: used when free variables were found. Parent is
	// the root of the environment the analysis ran against; Captured lists exactly
	// the (name, cell) pairs the body actually references freely.
	Optimized bool
	Parent    *Environment
	Captured  []CapturedCell
}

func (c *Closure) IsNil() bool  { return c == nil }
func (c *Closure) IsAtom() bool { return true }
func (c *Closure) IsEqual(other sx.Value) bool { return c == other }

func (c *Closure) String() string {
	var sb strings.Builder
	_, _ = c.Print(&sb)
	return sb.String()
}

// Print writes `#<NAME:(p1 p2)>`, per spec.md §4.1's printer table. An
// anonymous closure prints its params without a preceding name.
func (c *Closure) Print(w io.Writer) (int, error) {
	name := c.Name
	if name == "" {
		name = "lambda"
	}
	return fmt.Fprintf(w, "#<%s:(%s)>", name, strings.Join(c.Params, " "))
}

// NewFrame builds the child environment a call to c should evaluate its
// body in, already populated with the captured bindings but not yet
// with the arguments (eval's applyClosure binds those).
func (c *Closure) NewFrame() *Environment {
	if c.Optimized {
		frame := ExtendNamed(c.Parent, c.Name)
		for _, cc := range c.Captured {
			frame.BindCell(cc.Name, cc.Cell)
		}
		return frame
	}
	return ExtendNamed(c.Env, c.Name)
}

// Macro is a user-defined macro: like a Closure but invoked at expansion
// time with unevaluated argument forms, and never itself a runtime call
// target (spec.md §3, §4.5).
type Macro struct {
	Name   string
	Params []string
	Body   any // ast.Expression
	Env    *Environment
}

func (m *Macro) IsNil() bool              { return m == nil }
func (m *Macro) IsAtom() bool             { return true }
func (m *Macro) IsEqual(other sx.Value) bool { return m == other }
func (m *Macro) String() string           { return fmt.Sprintf("#<macro:%s:(%s)>", m.Name, strings.Join(m.Params, " ")) }

// Module is the value produced by a `(module NAME …)` form: its own
// name, an internal environment holding every binding the module body
// created, and the subset of names the module form's export clause
// actually verified and listed (spec.md §3, §4.7).
type Module struct {
	Name    string
	Env     *Environment
	Exports []string
}

func (m *Module) IsNil() bool              { return m == nil }
func (m *Module) IsAtom() bool             { return true }
func (m *Module) IsEqual(other sx.Value) bool { return m == other }
func (m *Module) String() string           { return fmt.Sprintf("#<module:%s>", m.Name) }

// LookupExport resolves name among the module's exported bindings only —
// `import` may only see what the module form actually exported
// (SPEC_FULL.md §5's Open Question decision on file-level defines).
func (m *Module) LookupExport(name string) (sx.Value, bool) {
	for _, exported := range m.Exports {
		if exported == name {
			v, err := m.Env.Lookup(name)
			if err != nil {
				return nil, false
			}
			return v, true
		}
	}
	return nil, false
}

// PrimitiveFunc is the native Go function a Primitive wraps: an argument
// vector in, a single value (or an error) out (spec.md §3).
type PrimitiveFunc func(args []sx.Value) (sx.Value, error)

// Primitive is a named, opaque built-in procedure (spec.md §1 marks the
// concrete library out of scope; the Value variant that holds one is
// in scope since Call/Apply must dispatch to it uniformly with Closure).
type Primitive struct {
	Name string
	Fn   PrimitiveFunc
}

func (p *Primitive) IsNil() bool              { return p == nil }
func (p *Primitive) IsAtom() bool             { return true }
func (p *Primitive) IsEqual(other sx.Value) bool { return p == other }
func (p *Primitive) String() string           { return fmt.Sprintf("#<primitive:%s>", p.Name) }

// Call invokes the primitive directly.
func (p *Primitive) Call(args []sx.Value) (sx.Value, error) { return p.Fn(args) }
