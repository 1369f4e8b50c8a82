package repl

import (
	"strings"
	"testing"

	"github.com/mlisp-lang/mlisp/interp"
	"github.com/mlisp-lang/mlisp/sx"
)

func TestEvalFormPrintsResult(t *testing.T) {
	i := interp.New(nil, nil)
	var out, errOut strings.Builder
	evalForm(i, "(+ 3 5)", &out, &errOut)
	if got := out.String(); got != "8\n" {
		t.Errorf("expected %q, got %q", "8\n", got)
	}
	if errOut.Len() != 0 {
		t.Errorf("expected no error output, got %q", errOut.String())
	}
}

func TestEvalFormRendersDiagnosticOnError(t *testing.T) {
	i := interp.New(nil, nil)
	var out, errOut strings.Builder
	evalForm(i, "(undefined-name)", &out, &errOut)
	if out.Len() != 0 {
		t.Errorf("expected no normal output, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "E200") {
		t.Errorf("expected rendered diagnostic to contain E200, got %q", errOut.String())
	}
}

func TestCompletionsMatchesPrefix(t *testing.T) {
	i := interp.New(nil, nil)
	i.Env.Bind("factorial-helper", sx.Integer(1))
	got := completions(i, "(fact")
	found := false
	for _, c := range got {
		if c == "factorial-helper" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected factorial-helper among completions, got %v", got)
	}
}

func TestCompletionsEmptyAfterTrailingSpace(t *testing.T) {
	i := interp.New(nil, nil)
	got := completions(i, "(+ ")
	if len(got) != 0 {
		t.Errorf("expected no completions right after a space, got %v", got)
	}
}
