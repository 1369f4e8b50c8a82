package sx

import (
	"io"
	"strings"
)

// The reader macros ' ` , ,@ produce these wrapper values (spec.md §4.3);
// the AST builder and macro expander recognize them structurally rather
// than by matching a leading symbol, the way the teacher's sxpf reader
// wraps its own quote forms.

// Quote is the value produced by reading 'expr.
type Quote struct{ Wrapped Value }

func (q Quote) IsNil() bool              { return false }
func (q Quote) IsAtom() bool             { return false }
func (q Quote) IsEqual(other Value) bool { o, ok := other.(Quote); return ok && q.Wrapped.IsEqual(o.Wrapped) }
func (q Quote) String() string           { return wrapperString("'", q.Wrapped) }
func (q Quote) Print(w io.Writer) (int, error) { return printWrapper(w, "'", q.Wrapped) }

// Quasiquote is the value produced by reading `expr.
type Quasiquote struct{ Wrapped Value }

func (q Quasiquote) IsNil() bool  { return false }
func (q Quasiquote) IsAtom() bool { return false }
func (q Quasiquote) IsEqual(other Value) bool {
	o, ok := other.(Quasiquote)
	return ok && q.Wrapped.IsEqual(o.Wrapped)
}
func (q Quasiquote) String() string               { return wrapperString("`", q.Wrapped) }
func (q Quasiquote) Print(w io.Writer) (int, error) { return printWrapper(w, "`", q.Wrapped) }

// Unquote is the value produced by reading ,expr, valid only within a
// Quasiquote (enforced by the evaluator at expansion time, not the reader).
type Unquote struct{ Wrapped Value }

func (u Unquote) IsNil() bool  { return false }
func (u Unquote) IsAtom() bool { return false }
func (u Unquote) IsEqual(other Value) bool {
	o, ok := other.(Unquote)
	return ok && u.Wrapped.IsEqual(o.Wrapped)
}
func (u Unquote) String() string               { return wrapperString(",", u.Wrapped) }
func (u Unquote) Print(w io.Writer) (int, error) { return printWrapper(w, ",", u.Wrapped) }

// UnquoteSplicing is the value produced by reading ,@expr.
type UnquoteSplicing struct{ Wrapped Value }

func (u UnquoteSplicing) IsNil() bool  { return false }
func (u UnquoteSplicing) IsAtom() bool { return false }
func (u UnquoteSplicing) IsEqual(other Value) bool {
	o, ok := other.(UnquoteSplicing)
	return ok && u.Wrapped.IsEqual(o.Wrapped)
}
func (u UnquoteSplicing) String() string               { return wrapperString(",@", u.Wrapped) }
func (u UnquoteSplicing) Print(w io.Writer) (int, error) { return printWrapper(w, ",@", u.Wrapped) }

func wrapperString(prefix string, wrapped Value) string {
	var sb strings.Builder
	_, _ = printWrapper(&sb, prefix, wrapped)
	return sb.String()
}

func printWrapper(w io.Writer, prefix string, wrapped Value) (int, error) {
	total, err := io.WriteString(w, prefix)
	if err != nil {
		return total, err
	}
	n, err := Print(w, wrapped)
	return total + n, err
}
