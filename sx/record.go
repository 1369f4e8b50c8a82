package sx

import (
	"fmt"
	"io"
	"strings"
)

// RecordField is one named slot of a Record.
type RecordField struct {
	Name  string
	Value Value
}

// Record is a named, ordered collection of fields. Records are produced
// by the `record` primitive (outside this spec's scope, per spec.md §1)
// but the Value variant and its printer belong to the core data model
// (spec.md §3, §4.1).
type Record struct {
	Name   string
	Fields []RecordField
}

// MakeRecord builds a Record value.
func MakeRecord(name string, fields []RecordField) *Record {
	return &Record{Name: name, Fields: fields}
}

func (r *Record) IsNil() bool  { return r == nil }
func (r *Record) IsAtom() bool { return true }

func (r *Record) IsEqual(other Value) bool {
	if r == other {
		return true
	}
	o, ok := other.(*Record)
	if !ok || r.IsNil() != o.IsNil() {
		return false
	}
	if r.IsNil() {
		return true
	}
	if r.Name != o.Name || len(r.Fields) != len(o.Fields) {
		return false
	}
	for i, f := range r.Fields {
		of := o.Fields[i]
		if f.Name != of.Name || !f.Value.IsEqual(of.Value) {
			return false
		}
	}
	return true
}

func (r *Record) String() string {
	var sb strings.Builder
	_, _ = r.Print(&sb)
	return sb.String()
}

// Print writes `#<record:NAME(field:type=value ...)>`.
func (r *Record) Print(w io.Writer) (int, error) {
	if r == nil {
		return io.WriteString(w, "#<record:nil>")
	}
	var sb strings.Builder
	sb.WriteString("#<record:")
	sb.WriteString(r.Name)
	sb.WriteString("(")
	for i, f := range r.Fields {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s:%s=%s", f.Name, typeName(f.Value), f.Value.String())
	}
	sb.WriteString(")>")
	return io.WriteString(w, sb.String())
}

func typeName(v Value) string {
	switch v.(type) {
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	case String:
		return "string"
	case Symbol:
		return "symbol"
	case *Pair:
		return "list"
	case *Record:
		return "record"
	default:
		return "value"
	}
}
