// Package sx provides the universal tagged value used throughout mlisp:
// the reader produces sx.Value trees, the AST builder consumes them, and
// quoted data at runtime is represented by the same types.
package sx

import (
	"fmt"
	"io"
)

// Value is the type every mlisp datum implements: atoms, pairs, and the
// quote-wrapper forms produced by the reader.
type Value interface {
	fmt.Stringer

	// IsNil reports whether the concrete value is the nil/empty list.
	IsNil() bool

	// IsAtom reports whether the value is not further decomposable.
	IsAtom() bool

	// IsEqual compares two values for deep (structural) equality.
	IsEqual(Value) bool
}

// IsNil reports whether obj is nil or the nil value.
func IsNil(obj Value) bool { return obj == nil || obj.IsNil() }

// Printable is implemented by values whose textual form should be
// streamed rather than built via String().
type Printable interface {
	Print(io.Writer) (int, error)
}

// Print writes the textual representation of obj to w.
func Print(w io.Writer, obj Value) (int, error) {
	if pr, ok := obj.(Printable); ok {
		return pr.Print(w)
	}
	if IsNil(obj) {
		return Nil().Print(w)
	}
	return io.WriteString(w, obj.String())
}
