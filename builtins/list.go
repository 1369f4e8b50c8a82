package builtins

import "github.com/mlisp-lang/mlisp/sx"

// Grounded on the teacher's sxbuiltins/list.go (Cons/Car/Cdr/PairP/NullP/
// ListP), adapted from its Fn1/env-stack calling convention to a plain
// argument-vector function. `list` itself is used throughout the
// evaluator's own test suite via an ad hoc binding (eval/eval_test.go's
// bindListPrimitive) — this is the real version that replaces it in the
// assembled prelude.

func getPair(name string, args []sx.Value, i int) (*sx.Pair, error) {
	p, ok := sx.GetPair(args[i])
	if !ok {
		return nil, TypeError{Name: name, Arg: i, Want: "a pair", Got: args[i]}
	}
	return p, nil
}

func cons(args []sx.Value) (sx.Value, error) {
	if err := checkArity("cons", args, 2, 2); err != nil {
		return nil, err
	}
	return sx.Cons(args[0], args[1]), nil
}

func car(args []sx.Value) (sx.Value, error) {
	if err := checkArity("car", args, 1, 1); err != nil {
		return nil, err
	}
	p, err := getPair("car", args, 0)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, TypeError{Name: "car", Arg: 0, Want: "a non-empty pair", Got: args[0]}
	}
	return p.Car(), nil
}

func cdr(args []sx.Value) (sx.Value, error) {
	if err := checkArity("cdr", args, 1, 1); err != nil {
		return nil, err
	}
	p, err := getPair("cdr", args, 0)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, TypeError{Name: "cdr", Arg: 0, Want: "a non-empty pair", Got: args[0]}
	}
	return p.Cdr(), nil
}

func list(args []sx.Value) (sx.Value, error) {
	return sx.MakeList(args...), nil
}

func pairP(args []sx.Value) (sx.Value, error) {
	if err := checkArity("pair?", args, 1, 1); err != nil {
		return nil, err
	}
	p, isPair := sx.GetPair(args[0])
	return sx.Boolean(isPair && p != nil), nil
}

func nullP(args []sx.Value) (sx.Value, error) {
	if err := checkArity("null?", args, 1, 1); err != nil {
		return nil, err
	}
	return sx.Boolean(sx.IsNil(args[0])), nil
}

func listP(args []sx.Value) (sx.Value, error) {
	if err := checkArity("list?", args, 1, 1); err != nil {
		return nil, err
	}
	return sx.Boolean(sx.IsList(args[0])), nil
}

func length(args []sx.Value) (sx.Value, error) {
	if err := checkArity("length", args, 1, 1); err != nil {
		return nil, err
	}
	p, err := getPair("length", args, 0)
	if err != nil {
		return nil, err
	}
	return sx.Integer(p.Length()), nil
}

// appendLists concatenates every argument list, in order; the last
// argument may be any value and becomes the final improper tail,
// matching the teacher's own append semantics in sxbuiltins/list.go.
func appendLists(args []sx.Value) (sx.Value, error) {
	if len(args) == 0 {
		return sx.Nil(), nil
	}
	var lb sx.ListBuilder
	for i := 0; i < len(args)-1; i++ {
		elems, err := sx.ToSlice(args[i])
		if err != nil {
			return nil, TypeError{Name: "append", Arg: i, Want: "a proper list", Got: args[i]}
		}
		for _, e := range elems {
			lb.Add(e)
		}
	}
	last := args[len(args)-1]
	if lb.List() == nil {
		return last, nil
	}
	if lastPair, ok := last.(*sx.Pair); ok {
		if tail := lb.Last(); tail != nil {
			tail.SetCdr(lastPair)
			return lb.List(), nil
		}
	}
	tail := lb.Last()
	tail.SetCdr(last)
	return lb.List(), nil
}

func reverse(args []sx.Value) (sx.Value, error) {
	if err := checkArity("reverse", args, 1, 1); err != nil {
		return nil, err
	}
	elems, err := sx.ToSlice(args[0])
	if err != nil {
		return nil, TypeError{Name: "reverse", Arg: 0, Want: "a proper list", Got: args[0]}
	}
	var lb sx.ListBuilder
	for i := len(elems) - 1; i >= 0; i-- {
		lb.Add(elems[i])
	}
	return lb.List(), nil
}
