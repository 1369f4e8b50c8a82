// Package ast turns reader output (sx.Value trees) into a typed
// Expression tree, recognizing mlisp's special forms by head symbol
// (spec.md §4.4). The node set mirrors the teacher's sxeval.Expr
// variant family, minus the Compile/tail-call machinery spec.md's
// Non-goals explicitly exclude (no bytecode, no TCO).
package ast

import "github.com/mlisp-lang/mlisp/sx"

// Expression is any node of the AST. It carries no behavior itself —
// eval.Compute type-switches on the concrete variant, the same way the
// teacher's Expr.Compute does per-type, but without requiring every
// node to implement Compute/Compile/Print as the teacher's Expr
// interface does (spec.md's Expression is plain data; Non-goals rule
// out the teacher's bytecode compiler, so there is nothing here for a
// Compile method to do).
type Expression interface {
	isExpression()
}

// Literal wraps a plain Value (including Quote/Quasiquote wrappers,
// whose further handling belongs to the evaluator — see spec.md §4.6).
type Literal struct{ Value sx.Value }

// Var is a name reference, resolved by environment lookup at Compute time.
type Var struct{ Name string }

// If is the three-branch conditional. Else may be nil when a cond chain
// has no catch-all clause (see buildCond).
type If struct{ Cond, Then, Else Expression }

// And is the strict (non-short-circuiting) logical and (spec.md §4.6).
type And struct{ E1, E2 Expression }

// Or is the strict (non-short-circuiting) logical or.
type Or struct{ E1, E2 Expression }

// Apply calls Fn with the list value Args evaluates to (spec.md §4.4 apply).
type Apply struct{ Fn, Args Expression }

// Call evaluates Fn and each argument expression, then dispatches.
type Call struct {
	Fn   Expression
	Args []Expression
}

// Lambda builds a Closure value at Compute time; Name is a debug label,
// empty for an anonymous lambda.
type Lambda struct {
	Name   string
	Params []string
	Body   Expression
}

// LetKind distinguishes let / let* / letrec (spec.md §4.4).
type LetKind int

const (
	Parallel LetKind = iota
	Sequential
	Recursive
)

func (k LetKind) String() string {
	switch k {
	case Parallel:
		return "let"
	case Sequential:
		return "let*"
	case Recursive:
		return "letrec"
	default:
		return "let?"
	}
}

// LetBinding is one (name, value-expression) pair of a Let form.
type LetBinding struct {
	Name string
	Expr Expression
}

// Let covers let/let*/letrec (spec.md §4.4, §4.6).
type Let struct {
	Kind     LetKind
	Bindings []LetBinding
	Body     Expression
}

// Definition is the sum type DefExpr wraps (spec.md §3).
type Definition interface{ isDefinition() }

// SetVar is `(define name expr)` — binds or mutates name at the current
// level (spec.md §4.6's SetVar).
type SetVar struct {
	Name string
	Expr Expression
}

// DefineFunction is `(defun name (params) body)`.
type DefineFunction struct {
	Name   string
	Params []string
	Body   Expression
}

// DefineMacro is `(defmacro name (params) body)`.
type DefineMacro struct {
	Name   string
	Params []string
	Body   Expression
}

// BareExpr is a top-level expression with no binding effect.
type BareExpr struct{ Expr Expression }

func (SetVar) isDefinition()         {}
func (DefineFunction) isDefinition() {}
func (DefineMacro) isDefinition()    {}
func (BareExpr) isDefinition()       {}

// DefExpr evaluates a Definition, possibly extending the environment
// (spec.md §4.6: only DefExpr, ModuleDef, and top-level Import may
// produce a modified environment).
type DefExpr struct{ Def Definition }

// ModuleDef is `(module name (exports…) body…)` (spec.md §4.7).
type ModuleDef struct {
	Name    string
	Exports []string
	Body    []Expression
}

// ImportSpec is the sum type Import wraps (spec.md §3).
type ImportSpec interface{ isImportSpec() }

// ImportAll is `(import name)`.
type ImportAll struct{ Module string }

// ImportSelective is `(import name sym…)`.
type ImportSelective struct {
	Module string
	Names  []string
}

// ImportAs is `(import name :as alias)`.
type ImportAs struct {
	Module string
	Alias  string
}

func (ImportAll) isImportSpec()       {}
func (ImportSelective) isImportSpec() {}
func (ImportAs) isImportSpec()        {}

// Import evaluates an ImportSpec, extending the environment at top level.
type Import struct{ Spec ImportSpec }

// MacroDef is a defmacro already unpacked to the macro system's own
// shape. Build does not produce it: a `defmacro` form, including one in
// a freshly macro-expanded form, builds to a DefExpr wrapping DefineMacro.
type MacroDef struct {
	Name   string
	Params []string
	Body   Expression
}

// LoadModule is `(load-module name-expr)`, loading the named module
// through the evaluator's Loader hook (spec.md §4.7). Build does not
// produce it: a `(load-module …)` list builds as an ordinary Call, and
// `import` reaches the Loader directly rather than through this node.
type LoadModule struct{ NameExpr Expression }

func (Literal) isExpression()    {}
func (Var) isExpression()        {}
func (*If) isExpression()        {}
func (*And) isExpression()       {}
func (*Or) isExpression()        {}
func (*Apply) isExpression()     {}
func (*Call) isExpression()      {}
func (*Lambda) isExpression()    {}
func (*Let) isExpression()       {}
func (*DefExpr) isExpression()   {}
func (*ModuleDef) isExpression() {}
func (*Import) isExpression()    {}
func (*MacroDef) isExpression()  {}
func (*LoadModule) isExpression() {}
