package modload

import "fmt"

// ModuleLoadError is spec.md §4.7/§7's E206: the file-based loader
// could not resolve, read, or evaluate NAME into a module. Reason is
// one of the literal messages §4.7 names ("not found", a circular-
// dependency path) or an underlying evaluation error's own message.
type ModuleLoadError struct {
	Name   string
	Reason string
}

func (e ModuleLoadError) Error() string {
	return fmt.Sprintf("module %s: %s", e.Name, e.Reason)
}
