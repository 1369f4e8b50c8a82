package builtins

import "github.com/mlisp-lang/mlisp/sx"

// Grounded on the teacher's sxbuiltins/number.go (Add/Sub/Mul/Div/Mod) and
// numcmp.go (Less/LessEqual/Equal/GreaterEqual/Greater): each folds a
// variadic argument vector left-to-right through a binary numeric
// operation, the same associativity the teacher's builtins use. mlisp's
// sole numeric type is sx.Integer (spec.md Non-goals), so there is no
// GetNumber coercion step the teacher's generic-number variant needs.

func getInt(name string, args []sx.Value, i int) (sx.Integer, error) {
	n, ok := sx.GetInteger(args[i])
	if !ok {
		return 0, TypeError{Name: name, Arg: i, Want: "an integer", Got: args[i]}
	}
	return n, nil
}

func add(args []sx.Value) (sx.Value, error) {
	if err := checkArity("+", args, 0, -1); err != nil {
		return nil, err
	}
	var acc sx.Integer
	for i := range args {
		n, err := getInt("+", args, i)
		if err != nil {
			return nil, err
		}
		acc += n
	}
	return acc, nil
}

func sub(args []sx.Value) (sx.Value, error) {
	if err := checkArity("-", args, 1, -1); err != nil {
		return nil, err
	}
	acc, err := getInt("-", args, 0)
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return -acc, nil
	}
	for i := 1; i < len(args); i++ {
		n, err := getInt("-", args, i)
		if err != nil {
			return nil, err
		}
		acc -= n
	}
	return acc, nil
}

func mul(args []sx.Value) (sx.Value, error) {
	if err := checkArity("*", args, 0, -1); err != nil {
		return nil, err
	}
	acc := sx.Integer(1)
	for i := range args {
		n, err := getInt("*", args, i)
		if err != nil {
			return nil, err
		}
		acc *= n
	}
	return acc, nil
}

// DivideByZero reports an integer division or modulo by zero.
type DivideByZero struct{ Name string }

func (e DivideByZero) Error() string { return e.Name + ": division by zero" }

func div(args []sx.Value) (sx.Value, error) {
	if err := checkArity("/", args, 1, -1); err != nil {
		return nil, err
	}
	acc, err := getInt("/", args, 0)
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		if acc == 0 {
			return nil, DivideByZero{Name: "/"}
		}
		return sx.Integer(1) / acc, nil
	}
	for i := 1; i < len(args); i++ {
		n, err := getInt("/", args, i)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, DivideByZero{Name: "/"}
		}
		acc /= n
	}
	return acc, nil
}

func mod(args []sx.Value) (sx.Value, error) {
	if err := checkArity("mod", args, 2, 2); err != nil {
		return nil, err
	}
	a, err := getInt("mod", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := getInt("mod", args, 1)
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, DivideByZero{Name: "mod"}
	}
	return a % b, nil
}

func numberP(args []sx.Value) (sx.Value, error) {
	if err := checkArity("number?", args, 1, 1); err != nil {
		return nil, err
	}
	_, ok := sx.GetInteger(args[0])
	return sx.Boolean(ok), nil
}

func zeroP(args []sx.Value) (sx.Value, error) {
	if err := checkArity("zero?", args, 1, 1); err != nil {
		return nil, err
	}
	n, err := getInt("zero?", args, 0)
	if err != nil {
		return nil, err
	}
	return sx.Boolean(n == 0), nil
}

// cmpChain applies cmp pairwise across adjacent arguments, the way the
// teacher's cmpBuiltin folds sx.NumCmp across args[i-1], args[i].
func cmpChain(name string, args []sx.Value, cmp func(a, b sx.Integer) bool) (sx.Value, error) {
	if err := checkArity(name, args, 1, -1); err != nil {
		return nil, err
	}
	prev, err := getInt(name, args, 0)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(args); i++ {
		n, err := getInt(name, args, i)
		if err != nil {
			return nil, err
		}
		if !cmp(prev, n) {
			return sx.False, nil
		}
		prev = n
	}
	return sx.True, nil
}

func less(args []sx.Value) (sx.Value, error) {
	return cmpChain("<", args, func(a, b sx.Integer) bool { return a < b })
}

func lessEqual(args []sx.Value) (sx.Value, error) {
	return cmpChain("<=", args, func(a, b sx.Integer) bool { return a <= b })
}

func numEqual(args []sx.Value) (sx.Value, error) {
	return cmpChain("=", args, func(a, b sx.Integer) bool { return a == b })
}

func greaterEqual(args []sx.Value) (sx.Value, error) {
	return cmpChain(">=", args, func(a, b sx.Integer) bool { return a >= b })
}

func greater(args []sx.Value) (sx.Value, error) {
	return cmpChain(">", args, func(a, b sx.Integer) bool { return a > b })
}
