// Package repl implements spec.md §6's REPL line discipline: a
// github.com/peterh/liner-backed prompt loop with persisted history,
// tab completion over the names currently visible at top level, and
// ";;"-terminated multi-line input. Grounded on sambeau-basil's
// pkg/parsley/repl/repl.go — the one example repo in the pack that
// already builds a liner-based REPL — reworked around this spec's own
// continuation rule (an explicit ";;" terminator rather than
// brace/bracket balance counting) and its own Ctrl-D message
// ("Goodbye!", spec.md §6, not "\nGoodbye!").
package repl

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/peterh/liner"

	"github.com/mlisp-lang/mlisp/diag"
	"github.com/mlisp-lang/mlisp/interp"
	"github.com/mlisp-lang/mlisp/reader"
)

// HistoryFile is spec.md §6's persisted REPL state.
const HistoryFile = "./.mlisp-repl-history"

const (
	prompt             = "mlisp> "
	continuationPrompt = "  ...> "
)

// Run starts the REPL, reading from a liner-wrapped stdin and writing
// results/diagnostics to out/errOut. It returns once the user signals
// end of input (Ctrl-D).
func Run(i *interp.Interp, out, errOut io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		return completions(i, partial)
	})

	if f, err := os.Open(HistoryFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(HistoryFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	var buf strings.Builder
	for {
		p := prompt
		if buf.Len() > 0 {
			p = continuationPrompt
		}
		input, err := line.Prompt(p)
		if err != nil {
			if err == liner.ErrPromptAborted {
				buf.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			fmt.Fprintf(errOut, "input error: %v\n", err)
			continue
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(input)

		if !strings.HasSuffix(strings.TrimRight(buf.String(), " \t"), ";;") {
			continue
		}

		form := strings.TrimSuffix(strings.TrimRight(buf.String(), " \t\n"), ";;")
		buf.Reset()
		if strings.TrimSpace(form) == "" {
			continue
		}
		line.AppendHistory(form)

		evalForm(i, form, out, errOut)
	}
}

// evalForm runs every top-level expression in form (a single ";;"
// terminated chunk may itself hold several forms) against i.Env,
// printing each result or diagnostic in turn — mirroring the per-form
// granularity interp.EvalAll uses for a whole file.
func evalForm(i *interp.Interp, form string, out, errOut io.Writer) {
	rd := reader.New(strings.NewReader(form), "<repl>")
	for {
		val, err := i.EvalOne(rd, i.Env)
		if err == reader.EndOfStream {
			return
		}
		if err != nil {
			printError(i, err, errOut)
			return
		}
		fmt.Fprintln(out, val)
	}
}

func printError(i *interp.Interp, err error, errOut io.Writer) {
	derr, ok := err.(*diag.Error)
	if !ok {
		fmt.Fprintln(errOut, err)
		return
	}
	if i.Logger != nil {
		i.Logger.Debug("repl error", slog.String("kind", string(derr.Kind)))
	}
	diag.Render(errOut, derr, nil)
}

// completions enumerates the names visible in i.Env whose prefix
// matches the last whitespace-delimited word of partial, with any
// leading "(" or quote characters stripped — spec.md §6:
// "tab completion and hint popups enumerate names visible in the
// current top-level environment." It offers nothing when that word is
// empty, as right after a space.
func completions(i *interp.Interp, partial string) []string {
	fields := strings.Fields(partial)
	prefix := ""
	if len(fields) > 0 && !strings.HasSuffix(partial, " ") {
		prefix = strings.TrimLeft(fields[len(fields)-1], "('`,@")
	}
	if prefix == "" {
		return nil
	}

	var names []string
	for env := i.Env; env != nil; env = env.Parent() {
		for name := range env.IterLocalBindings() {
			if strings.HasPrefix(name, prefix) {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
