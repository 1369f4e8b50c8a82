// Package diag implements spec.md §7's error taxonomy: a Kind/Code pair
// for every error the reader, builder, macro expander, evaluator, and
// module loader can raise, a static help-text table keyed by Kind, and a
// Render function that prints a source excerpt with a caret under the
// offending column — modeled on sambeau-basil's ParsleyError (Class,
// Code, Message, Hints) and its PrettyString renderer, simplified to
// match spec.md §7's plainer "kind, message, help" shape (no templating,
// no JSON marshaling, no fuzzy-match hints: those are ParsleyError
// features this spec never asks for).
package diag

// Kind names one of spec.md §7's error-taxonomy entries.
type Kind string

const (
	KindUnique                     Kind = "UniqueError"
	KindTypeError                  Kind = "TypeError"
	KindPoorlyFormedExpression     Kind = "PoorlyFormedExpression"
	KindApplyError                 Kind = "ApplyError"
	KindUnexpectedCharacter        Kind = "UnexpectedCharacter"
	KindInvalidBooleanLiteral      Kind = "InvalidBooleanLiteral"
	KindInvalidDefineExpression    Kind = "InvalidDefineExpression"
	KindRecordFieldNameMustBeSymbol Kind = "RecordFieldNameMustBeSymbol"
	KindIllegalIfExpression        Kind = "IllegalIfExpression"
	KindNotFound                   Kind = "NotFound"
	KindUnspecified                Kind = "Unspecified"
	KindMissingArgument            Kind = "MissingArgument"
	KindNonDefinitionInStdlib      Kind = "NonDefinitionInStdlib"
	KindNotAModule                 Kind = "NotAModule"
	KindExportNotFound             Kind = "ExportNotFound"
	KindModuleLoadError            Kind = "ModuleLoadError"
	// KindUnknown covers an error value Classify doesn't recognize — it
	// still renders, just without a canonical code or help text.
	KindUnknown Kind = "Unknown"
)

// codes maps each Kind to spec.md §7's canonical E0xx/E1xx/E2xx code.
var codes = map[Kind]string{
	KindUnique:                      "E001",
	KindTypeError:                   "E002",
	KindPoorlyFormedExpression:      "E003",
	KindApplyError:                  "E004",
	KindUnexpectedCharacter:         "E100",
	KindInvalidBooleanLiteral:       "E101",
	KindInvalidDefineExpression:     "E102",
	KindRecordFieldNameMustBeSymbol: "E103",
	KindIllegalIfExpression:         "E104",
	KindNotFound:                    "E200",
	KindUnspecified:                 "E201",
	KindMissingArgument:             "E202",
	KindNonDefinitionInStdlib:       "E203",
	KindNotAModule:                  "E204",
	KindExportNotFound:              "E205",
	KindModuleLoadError:             "E206",
}

// help is the static table of hint text keyed by Kind (spec.md §7: "an
// optional help string from a static table keyed by kind").
var help = map[Kind]string{
	KindUnique:                      "parameter names in a lambda/defun/defmacro list must be distinct",
	KindTypeError:                   "check the special form's expected shape",
	KindPoorlyFormedExpression:      "an empty list or malformed structure can't be built into an expression",
	KindApplyError:                  "only closures and primitives can be called",
	KindUnexpectedCharacter:         "this character does not start any recognized token",
	KindInvalidBooleanLiteral:       "boolean literals are #t or #f",
	KindInvalidDefineExpression:     "define takes a name and a value, or a function name, params, and body",
	KindRecordFieldNameMustBeSymbol: "record field names must be symbols",
	KindIllegalIfExpression:         "an if's condition must evaluate to a boolean",
	KindNotFound:                    "check for a typo, or a missing import/define",
	KindUnspecified:                 "this name is bound but has not been assigned a value yet",
	KindMissingArgument:             "check the argument count against the parameter list",
	KindNonDefinitionInStdlib:       "non-definition expressions at this level produce a warning, not a value",
	KindNotAModule:                  "the name resolves to something other than a module",
	KindExportNotFound:              "check the module's export list for this name",
	KindModuleLoadError:             "check the search path and for a circular import",
}

// Code returns k's canonical code, or "" if k is unrecognized.
func (k Kind) Code() string { return codes[k] }

// Help returns k's static help text, or "" if none is recorded.
func (k Kind) Help() string { return help[k] }
