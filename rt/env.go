// Package rt holds the runtime pieces of the value model that must refer
// to an Environment — Closure, Macro, Module, Primitive — together with
// Environment itself. They live in one package because sx stays pure
// data: an Environment stores sx.Value in its cells, and a Closure's
// captured environment is an *rt.Environment, so splitting Environment
// away from sx while Closure also lived in sx would require sx to import
// rt and rt to import sx at once. This mirrors the teacher's own split
// of sx (pure data) from sxpf/sxeval (Object variants bundled with the
// Environment/Binding they close over).
package rt

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/mlisp-lang/mlisp/sx"
)

// Cell is a shared, mutable indirection slot: the storage unit of an
// environment binding (spec.md §3, §9 GLOSSARY). A cell is never rebound
// by identity, only its contents are swapped — this is what lets letrec
// install empty cells before their right-hand sides are evaluated, and
// what lets a closure observe a later mutation of a free variable.
type Cell struct {
	value sx.Value
	set   bool
}

// NewCell returns an empty cell (holds no value yet).
func NewCell() *Cell { return &Cell{} }

// NewCellWith returns a cell already holding v.
func NewCellWith(v sx.Value) *Cell { return &Cell{value: v, set: true} }

// Get returns the cell's current value. ok is false if the cell was
// created but never assigned (spec.md's "Unspecified").
func (c *Cell) Get() (sx.Value, bool) { return c.value, c.set }

// Set assigns v to the cell, making subsequent Get calls observe it —
// this is the one mutation point every sharer of the cell sees.
func (c *Cell) Set(v sx.Value) { c.value, c.set = v, true }

// Environment is a name→cell mapping with an optional parent link,
// forming the chain spec.md §4.2 describes. Lookup walks head-to-root;
// bind inserts or overwrites only at the receiver's own level.
type Environment struct {
	name   string
	parent *Environment
	cells  map[string]*Cell
}

// CreateRoot returns a new environment with no parent.
func CreateRoot() *Environment {
	return &Environment{name: "root", cells: make(map[string]*Cell, 64)}
}

// Extend returns a new, empty child environment of parent.
func Extend(parent *Environment) *Environment {
	return &Environment{parent: parent, cells: make(map[string]*Cell, 8)}
}

// ExtendNamed is Extend but sets a debug name, used for closure call
// frames and module environments so diagnostics and the REPL can label
// them.
func ExtendNamed(parent *Environment, name string) *Environment {
	env := Extend(parent)
	env.name = name
	return env
}

// Parent returns the environment's parent, or nil for the root.
func (env *Environment) Parent() *Environment { return env.parent }

// Root walks to the top of the parent chain. Optimized-capture closures
// anchor on the root rather than their immediate defining environment,
// so that retaining a closure doesn't retain every intermediate let/
// lambda frame between its creation point and the root (spec.md §4.6,
// §9's "reduces retention").
func (env *Environment) Root() *Environment {
	e := env
	for e.parent != nil {
		e = e.parent
	}
	return e
}

// Bind inserts a fresh cell holding v at env, overwriting any existing
// local binding of name (spec.md §4.2 `bind`).
func (env *Environment) Bind(name string, v sx.Value) {
	env.cells[name] = NewCellWith(v)
}

// BindCell installs an existing cell at env under name — used by letrec
// so that a later assignment to the cell is observed by bindings
// created before the assignment happened (spec.md §4.2 `bind_cell`).
func (env *Environment) BindCell(name string, cell *Cell) {
	env.cells[name] = cell
}

// NotFoundError reports that no binding for Name exists anywhere in the
// chain that was searched.
type NotFoundError struct{ Name string }

func (e NotFoundError) Error() string { return fmt.Sprintf("not bound: %s", e.Name) }

// UnspecifiedError reports that Name is bound but its cell has never
// been assigned — the letrec "forward reference observed too early"
// case (spec.md §3 invariants, §4.6 letrec).
type UnspecifiedError struct{ Name string }

func (e UnspecifiedError) Error() string { return fmt.Sprintf("unspecified: %s", e.Name) }

// Lookup walks the parent chain head-to-root and returns the first
// binding found. It fails with NotFoundError if name is bound nowhere,
// or UnspecifiedError if the cell it found has never been assigned.
func (env *Environment) Lookup(name string) (sx.Value, error) {
	for e := env; e != nil; e = e.parent {
		if cell, ok := e.cells[name]; ok {
			v, set := cell.Get()
			if !set {
				return nil, UnspecifiedError{Name: name}
			}
			return v, nil
		}
	}
	return nil, NotFoundError{Name: name}
}

// LookupCell walks the parent chain and returns the cell bound to name,
// if any, without dereferencing it. Used by SetVar to reach an existing
// binding's cell and by closure capture to collect the cells a body
// references freely.
func (env *Environment) LookupCell(name string) (*Environment, *Cell) {
	for e := env; e != nil; e = e.parent {
		if cell, ok := e.cells[name]; ok {
			return e, cell
		}
	}
	return nil, nil
}

// IsBoundLocal reports whether name has a binding at this exact level
// (not walking to the parent) — SetVar consults this to decide between
// mutating an existing cell and creating a new one (spec.md §4.6 SetVar).
func (env *Environment) IsBoundLocal(name string) bool {
	_, ok := env.cells[name]
	return ok
}

// IterLocalBindings iterates the names bound at this exact level, for
// REPL tab completion (spec.md §4.2 `iter_local_bindings`).
func (env *Environment) IterLocalBindings() iter.Seq[string] {
	return func(yield func(string) bool) {
		for name := range env.cells {
			if !yield(name) {
				return
			}
		}
	}
}

// Bindings returns every (name . value) pair visible from env, walking
// to the root, as an association list — grounds the `(env)` debugging
// primitive (SPEC_FULL.md §3) on the teacher's sxeval.AllBindings.
func (env *Environment) Bindings() *sx.Pair {
	seen := make(map[string]bool)
	var lb sx.ListBuilder
	for e := env; e != nil; e = e.parent {
		for name, cell := range e.cells {
			if seen[name] {
				continue
			}
			seen[name] = true
			v, ok := cell.Get()
			if !ok {
				continue
			}
			lb.Add(sx.Cons(sx.Symbol(name), v))
		}
	}
	return lb.List()
}

func (env *Environment) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#<env:%s/%d>", env.debugName(), len(env.cells))
	return sb.String()
}

func (env *Environment) debugName() string {
	if env.name != "" {
		return env.name
	}
	return "anon"
}

// Print writes the environment's textual form, matching the teacher's
// mappedBinding.Print shape (#<binding:NAME/SIZE>), renamed to env.
func (env *Environment) Print(w io.Writer) (int, error) {
	return io.WriteString(w, env.String())
}
