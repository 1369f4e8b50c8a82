package diag_test

import (
	"strings"
	"testing"

	"github.com/mlisp-lang/mlisp/diag"
	"github.com/mlisp-lang/mlisp/eval"
	"github.com/mlisp-lang/mlisp/reader"
	"github.com/mlisp-lang/mlisp/rt"
)

func TestClassifyKnownKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind diag.Kind
		code string
	}{
		{rt.NotFoundError{Name: "x"}, diag.KindNotFound, "E200"},
		{rt.UnspecifiedError{Name: "x"}, diag.KindUnspecified, "E201"},
		{eval.MissingArgument{Params: []string{"a", "b"}}, diag.KindMissingArgument, "E202"},
		{eval.NotAModule{Name: "m"}, diag.KindNotAModule, "E204"},
		{eval.ExportNotFound{Module: "m", Name: "x"}, diag.KindExportNotFound, "E205"},
		{eval.IllegalIfExpression{Text: "3"}, diag.KindIllegalIfExpression, "E104"},
		{eval.TypeError{Expected: "boolean"}, diag.KindTypeError, "E002"},
	}
	for _, c := range cases {
		got := diag.Classify(c.err, reader.Position{Name: "t", Line: 1, Col: 1})
		if got.Kind != c.kind {
			t.Errorf("%v: expected kind %s, got %s", c.err, c.kind, got.Kind)
		}
		if got.Code != c.code {
			t.Errorf("%v: expected code %s, got %s", c.err, c.code, got.Code)
		}
		if got.Help == "" {
			t.Errorf("%v: expected non-empty help text", c.err)
		}
	}
}

func TestClassifyUnwindsReaderPosition(t *testing.T) {
	rerr := reader.Error{
		Cause: reader.UnexpectedCharacter{Ch: '$'},
		Begin: reader.Position{Name: "f.mlisp", Line: 4, Col: 7},
	}
	got := diag.Classify(rerr, reader.Position{Name: "caller", Line: 1, Col: 1})
	if got.Kind != diag.KindUnexpectedCharacter {
		t.Fatalf("expected KindUnexpectedCharacter, got %s", got.Kind)
	}
	if got.Pos.Line != 4 || got.Pos.Col != 7 {
		t.Fatalf("expected the reader's own Begin position to win, got %v", got.Pos)
	}
}

func TestClassifyUnknownFallsBack(t *testing.T) {
	got := diag.Classify(errUnrelated{}, reader.Position{Name: "t", Line: 1, Col: 1})
	if got.Kind != diag.KindUnknown {
		t.Fatalf("expected KindUnknown, got %s", got.Kind)
	}
	if got.Code != "" {
		t.Fatalf("expected no canonical code for an unrecognized error, got %q", got.Code)
	}
}

type errUnrelated struct{}

func (errUnrelated) Error() string { return "unrelated" }

func TestRenderIncludesExcerptAndCaret(t *testing.T) {
	err := diag.Classify(rt.NotFoundError{Name: "frobnicate"}, reader.Position{Name: "f.mlisp", Line: 2, Col: 5})
	var sb strings.Builder
	diag.Render(&sb, err, []string{"(define x 1)", "(frobnicate x)"})
	out := sb.String()
	if !strings.Contains(out, "E200") {
		t.Errorf("expected rendered output to contain the code E200, got %q", out)
	}
	if !strings.Contains(out, "(frobnicate x)") {
		t.Errorf("expected rendered output to contain the source excerpt, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("expected rendered output to contain a caret, got %q", out)
	}
}
