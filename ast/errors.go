package ast

import "fmt"

// UniqueError signals a duplicate parameter name in a lambda/defun/
// defmacro parameter list (spec.md §4.4).
type UniqueError struct{ Name string }

func (e UniqueError) Error() string { return fmt.Sprintf("duplicate parameter name: %s", e.Name) }

// TypeError signals a special form used with the wrong shape, reported
// with the expected shape text (spec.md §4.4).
type TypeError struct{ Expected string }

func (e TypeError) Error() string { return fmt.Sprintf("expected %s", e.Expected) }

// PoorlyFormedExpression signals an empty list or other structurally
// invalid input the builder cannot make sense of (spec.md §4.4).
type PoorlyFormedExpression struct{ Text string }

func (e PoorlyFormedExpression) Error() string {
	return fmt.Sprintf("poorly formed expression: %s", e.Text)
}
