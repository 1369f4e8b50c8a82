package diag

import (
	"fmt"
	"io"
	"strings"
)

// Render writes err as a multi-line diagnostic: the offending source
// line, a caret under the column, then the kind, message, and help text
// — the shape spec.md §7 describes ("a formatted diagnostic ... with
// the offending line excerpt, a caret indicating the column, the kind,
// the message, and the help text"), styled after sambeau-basil's
// ParsleyError.PrettyString (location line, message, hint lines).
// Terminal color is out of scope per spec.md §1, so Render writes plain
// text only. source is the file's lines, 0-indexed by (err.Pos.Line-1);
// a nil or out-of-range source is tolerated and simply omits the
// excerpt.
func Render(w io.Writer, err *Error, source []string) {
	fmt.Fprintf(w, "%s", err.Pos)
	if err.Code != "" {
		fmt.Fprintf(w, " [%s]", err.Code)
	}
	fmt.Fprintf(w, " %s: %s\n", err.Kind, err.Message)

	if line, ok := sourceLine(source, err.Pos.Line); ok {
		fmt.Fprintf(w, "  %s\n", line)
		fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", caretOffset(err.Pos.Col)))
	}

	if err.Help != "" {
		fmt.Fprintf(w, "  help: %s\n", err.Help)
	}
}

func sourceLine(source []string, line int) (string, bool) {
	idx := line - 1
	if idx < 0 || idx >= len(source) {
		return "", false
	}
	return source[idx], true
}

func caretOffset(col int) int {
	if col <= 1 {
		return 0
	}
	return col - 1
}
