// Package builtins supplies the primitive library spec.md §1 deliberately
// keeps out of core scope ("primitives appear only as opaque named
// functions taking an argument vector and returning a value"): concrete
// arithmetic, comparison, boolean, list, and string operations bound into
// a root rt.Environment. Grounded on the teacher's sxbuiltins package
// (number.go, numcmp.go, boolean.go, list.go, equiv.go, strings.go), each
// adapted from the teacher's sxeval.Builtin{MinArity,MaxArity,Fn1,Fn2,Fn}
// stack-machine shape to this repo's simpler rt.Primitive{Name, Fn
// PrimitiveFunc} shape (see DESIGN.md for why no Fn2 fast path was added).
package builtins

import (
	"fmt"

	"github.com/mlisp-lang/mlisp/sx"
)

// ArityError reports a primitive called with the wrong number of
// arguments, mirroring the teacher's CheckArgs-produced errors in
// sxbuiltins/errors.go. diag.Classify has no case for it, so it
// classifies as KindUnknown, not as the KindMissingArgument that
// eval.MissingArgument gets for a closure call.
type ArityError struct {
	Name     string
	Min, Max int
	Got      int
}

func (e ArityError) Error() string {
	switch {
	case e.Max < 0:
		return fmt.Sprintf("%s: expects at least %d argument(s), got %d", e.Name, e.Min, e.Got)
	case e.Min == e.Max:
		return fmt.Sprintf("%s: expects %d argument(s), got %d", e.Name, e.Min, e.Got)
	default:
		return fmt.Sprintf("%s: expects %d to %d arguments, got %d", e.Name, e.Min, e.Max, e.Got)
	}
}

// checkArity enforces min <= len(args) <= max; max < 0 means unbounded.
func checkArity(name string, args []sx.Value, min, max int) error {
	n := len(args)
	if n < min || (max >= 0 && n > max) {
		return ArityError{Name: name, Min: min, Max: max, Got: n}
	}
	return nil
}

// TypeError reports an argument of the wrong kind, mirroring the
// teacher's sxbuiltins.GetNumber/GetPair "not a X" errors.
type TypeError struct {
	Name string
	Arg  int
	Want string
	Got  sx.Value
}

func (e TypeError) Error() string {
	return fmt.Sprintf("%s: argument %d must be %s, got %s", e.Name, e.Arg, e.Want, e.Got)
}
