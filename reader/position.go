// Package reader turns a character stream into sx.Value trees: one
// top-level form per Read call, with source-position tracking for
// diagnostics (spec.md §4.3). Grounded throughout on the teacher's
// sxreader package.
package reader

import "fmt"

// Position locates a point in a named input stream by line and column,
// both 1-based for display.
type Position struct {
	Name string
	Line int
	Col  int
}

func (p Position) String() string {
	name := p.Name
	if name == "" {
		name = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", name, p.Line, p.Col)
}
