package sx

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Pair is a cons cell: a car and a cdr. The nil *Pair represents the
// empty list.
type Pair struct {
	car Value
	cdr Value
}

// Nil returns the empty list.
func Nil() *Pair { return (*Pair)(nil) }

// Cons builds a new pair with the given car and cdr.
func Cons(car, cdr Value) *Pair { return &Pair{car: car, cdr: cdr} }

// Cons prepends a value in front of pair, returning the new list.
func (pair *Pair) Cons(car Value) *Pair { return &Pair{car: car, cdr: pair} }

// MakeList builds a proper list from the given values.
func MakeList(vals ...Value) *Pair {
	var lb ListBuilder
	for _, v := range vals {
		lb.Add(v)
	}
	return lb.List()
}

func (pair *Pair) IsNil() bool  { return pair == nil }
func (pair *Pair) IsAtom() bool { return pair == nil }

func (pair *Pair) IsEqual(other Value) bool {
	if pair == other {
		return true
	}
	if pair.IsNil() {
		return IsNil(other)
	}
	otherPair, ok := other.(*Pair)
	if !ok {
		return false
	}
	node, otherNode := pair, otherPair
	for node != nil && otherNode != nil {
		if !node.car.IsEqual(otherNode.car) {
			return false
		}
		cdr, otherCdr := node.cdr, otherNode.cdr
		if IsNil(cdr) {
			return IsNil(otherCdr)
		}
		next, isPair := GetPair(cdr)
		if !isPair {
			return cdr.IsEqual(otherCdr)
		}
		otherNext, isPair := GetPair(otherCdr)
		if !isPair {
			return false
		}
		node, otherNode = next, otherNext
	}
	return node == otherNode
}

func (pair *Pair) String() string {
	var sb strings.Builder
	_, _ = pair.Print(&sb)
	return sb.String()
}

// Print writes the parenthesized, space-separated textual form of the
// list to w, using dot notation for an improper tail.
func (pair *Pair) Print(w io.Writer) (int, error) {
	if pair == nil {
		return io.WriteString(w, "()")
	}
	total, err := io.WriteString(w, "(")
	if err != nil {
		return total, err
	}
	for node := pair; ; {
		if node != pair {
			n, err := io.WriteString(w, " ")
			total += n
			if err != nil {
				return total, err
			}
		}
		n, err := Print(w, node.car)
		total += n
		if err != nil {
			return total, err
		}

		cdr := node.cdr
		if IsNil(cdr) {
			break
		}
		if next, ok := cdr.(*Pair); ok {
			node = next
			continue
		}
		n, err = io.WriteString(w, " . ")
		total += n
		if err != nil {
			return total, err
		}
		n, err = Print(w, cdr)
		total += n
		if err != nil {
			return total, err
		}
		break
	}
	n, err := io.WriteString(w, ")")
	total += n
	return total, err
}

// Car returns the first element, or Nil() for the empty list.
func (pair *Pair) Car() Value {
	if pair == nil {
		return Nil()
	}
	return pair.car
}

// Cdr returns the rest of the list, or Nil() for the empty list.
func (pair *Pair) Cdr() Value {
	if pair == nil {
		return Nil()
	}
	return pair.cdr
}

// SetCar mutates the car of pair in place. The reader never calls it.
func (pair *Pair) SetCar(v Value) {
	if pair != nil {
		pair.car = v
	}
}

// SetCdr mutates the cdr of pair in place.
func (pair *Pair) SetCdr(v Value) {
	if pair != nil {
		pair.cdr = v
	}
}

// Tail returns the cdr as a *Pair if it is one, else nil.
func (pair *Pair) Tail() *Pair {
	if pair != nil {
		if tail, ok := pair.cdr.(*Pair); ok {
			return tail
		}
	}
	return nil
}

// GetPair returns obj as a *Pair, if it is nil or a pair.
func GetPair(obj Value) (*Pair, bool) {
	if IsNil(obj) {
		return nil, true
	}
	p, ok := obj.(*Pair)
	return p, ok
}

// IsList reports whether obj is a proper list: Nil, or a Pair whose tail
// chain terminates at Nil.
func IsList(obj Value) bool {
	pair, isPair := GetPair(obj)
	if !isPair {
		return false
	}
	if pair == nil {
		return true
	}
	for node := pair; ; {
		next, isPair := GetPair(node.cdr)
		if !isPair {
			return false
		}
		if next == nil {
			return true
		}
		node = next
	}
}

// Length returns the number of elements in a proper list.
func (pair *Pair) Length() int {
	n := 0
	for range pair.Values() {
		n++
	}
	return n
}

// Values iterates over the elements of a proper (or improper, up to the
// first non-pair cdr) list.
func (pair *Pair) Values() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for node := pair; node != nil; node = node.Tail() {
			if !yield(node.car) {
				return
			}
		}
	}
}

// Pairs iterates over each cons cell of the list.
func (pair *Pair) Pairs() iter.Seq[*Pair] {
	return func(yield func(*Pair) bool) {
		for node := pair; node != nil; node = node.Tail() {
			if !yield(node) {
				return
			}
		}
	}
}

// ErrImproper is raised when a proper list was required but the value's
// tail chain does not terminate at Nil.
type ErrImproper struct{ Pair *Pair }

func (err ErrImproper) Error() string { return fmt.Sprintf("improper list: %v", err.Pair) }

// ToSlice converts a proper list to a native slice. It is the inverse of
// MakeList.
func ToSlice(obj Value) ([]Value, error) {
	pair, isPair := GetPair(obj)
	if !isPair {
		return nil, ErrImproper{}
	}
	var out []Value
	for node := pair; node != nil; {
		out = append(out, node.car)
		next, isPair := GetPair(node.cdr)
		if !isPair {
			return nil, ErrImproper{Pair: pair}
		}
		node = next
	}
	return out, nil
}

// MustToSlice is like ToSlice but panics on an improper list. It exists
// for call sites that have already validated list-shape and for which
// an improper argument is an internal invariant
// failure, not a user error — see spec.md §4.1.
func MustToSlice(obj Value) []Value {
	s, err := ToSlice(obj)
	if err != nil {
		panic(err)
	}
	return s
}

// ListBuilder constructs a list incrementally from front to back.
type ListBuilder struct {
	first, last *Pair
}

// Add appends a single value.
func (lb *ListBuilder) Add(v Value) {
	elem := Cons(v, nil)
	if lb.first == nil {
		lb.first, lb.last = elem, elem
		return
	}
	lb.last.cdr = elem
	lb.last = elem
}

// List returns the built list. The builder remains usable afterwards.
func (lb *ListBuilder) List() *Pair { return lb.first }

// Last returns the final pair appended, or nil if none.
func (lb *ListBuilder) Last() *Pair { return lb.last }
