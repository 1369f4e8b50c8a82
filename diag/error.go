package diag

import (
	"fmt"

	"github.com/mlisp-lang/mlisp/ast"
	"github.com/mlisp-lang/mlisp/eval"
	"github.com/mlisp-lang/mlisp/macro"
	"github.com/mlisp-lang/mlisp/modload"
	"github.com/mlisp-lang/mlisp/reader"
	"github.com/mlisp-lang/mlisp/rt"
)

// Error is the diagnostic spec.md §7 describes: a Kind/Code pair, the
// underlying message, optional help text, and the source position the
// Reader attached (or, for an error raised during evaluation, the
// position of the top-level form being processed).
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Help    string
	Pos     reader.Position
	Cause   error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s [%s] %s", e.Pos, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s", e.Pos, e.Message)
}

// Unwrap lets errors.As/errors.Is reach the original cause, the way
// the teacher's sxeval.ExecuteError composes with its wrapped error.
func (e *Error) Unwrap() error { return e.Cause }

// Classify maps any error this module's packages can produce to its
// taxonomy Kind and canonical code, attaching pos (spec.md §7: "errors
// raised during evaluation inherit the position of the top-level form
// being processed"). A reader.Error already carries its own Begin
// position, which takes precedence over pos since it is more precise.
func Classify(err error, pos reader.Position) *Error {
	if err == nil {
		return nil
	}
	if rerr, ok := err.(reader.Error); ok {
		classified := Classify(rerr.Cause, rerr.Begin)
		classified.Message = rerr.Cause.Error()
		return classified
	}

	kind, ok := classifyCause(err)
	if !ok {
		kind = KindUnknown
	}
	return &Error{
		Kind:    kind,
		Code:    kind.Code(),
		Message: err.Error(),
		Help:    kind.Help(),
		Pos:     pos,
		Cause:   err,
	}
}

func classifyCause(err error) (Kind, bool) {
	switch err.(type) {
	case ast.UniqueError:
		return KindUnique, true
	case ast.TypeError:
		return KindTypeError, true
	case ast.PoorlyFormedExpression:
		return KindPoorlyFormedExpression, true
	case eval.TypeError:
		return KindTypeError, true
	case eval.ApplyError:
		return KindApplyError, true
	case reader.UnexpectedCharacter:
		return KindUnexpectedCharacter, true
	case reader.InvalidBooleanLiteral:
		return KindInvalidBooleanLiteral, true
	case eval.IllegalIfExpression:
		return KindIllegalIfExpression, true
	case rt.NotFoundError:
		return KindNotFound, true
	case rt.UnspecifiedError:
		return KindUnspecified, true
	case eval.MissingArgument:
		return KindMissingArgument, true
	case eval.NotAModule:
		return KindNotAModule, true
	case eval.ExportNotFound:
		return KindExportNotFound, true
	case modload.ModuleLoadError:
		return KindModuleLoadError, true
	case macro.ArityError:
		// spec.md §4.5 step 2 names this a NotFound-shaped message.
		return KindNotFound, true
	case macro.MacroRecursionLimit:
		return KindUnknown, true
	default:
		return KindUnknown, false
	}
}
