package eval

import (
	"fmt"
	"strings"

	"github.com/mlisp-lang/mlisp/sx"
)

// IllegalIfExpression signals that an `if`'s condition did not evaluate to
// a Boolean (spec.md §4.6, E104).
type IllegalIfExpression struct{ Text string }

func (e IllegalIfExpression) Error() string {
	return fmt.Sprintf("illegal if expression: condition %s is not a boolean", e.Text)
}

// TypeError signals an operand of the wrong type to and/or, a non-proper
// argument list to apply, or an unquote outside quasiquote context
// (spec.md §4.6, E002 — eval's runtime cousin of ast.TypeError).
type TypeError struct{ Expected string }

func (e TypeError) Error() string { return fmt.Sprintf("type error: expected %s", e.Expected) }

// ApplyError signals a Call/Apply dispatch on a value that is neither a
// Primitive nor a Closure (spec.md §4.6, E004).
type ApplyError struct{ Value sx.Value }

func (e ApplyError) Error() string { return fmt.Sprintf("cannot apply: %s", e.Value) }

// MissingArgument signals an argument-count mismatch at closure invocation
// (spec.md §4.6, E202).
type MissingArgument struct{ Params []string }

func (e MissingArgument) Error() string {
	return fmt.Sprintf("missing argument(s): (%s)", strings.Join(e.Params, " "))
}

// NotAModule signals that `import` named a binding that isn't a Module
// value (spec.md §4.7, E204).
type NotAModule struct{ Name string }

func (e NotAModule) Error() string { return fmt.Sprintf("not a module: %s", e.Name) }

// ExportNotFound signals a requested export, or an export clause name,
// that the module never bound (spec.md §4.7, E205).
type ExportNotFound struct{ Module, Name string }

func (e ExportNotFound) Error() string {
	return fmt.Sprintf("module %s does not export %s", e.Module, e.Name)
}
