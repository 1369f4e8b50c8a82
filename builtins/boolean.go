package builtins

import "github.com/mlisp-lang/mlisp/sx"

// Grounded on the teacher's sxbuiltins/boolean.go (Boolean/Not) and
// equiv.go (eq?/equal?-style structural comparison, here built directly
// on sx.Value.IsEqual rather than the teacher's own recursive walk,
// since every sx.Value already implements structural IsEqual).

func not(args []sx.Value) (sx.Value, error) {
	if err := checkArity("not", args, 1, 1); err != nil {
		return nil, err
	}
	return sx.Boolean(!sx.IsTrue(args[0])), nil
}

func booleanP(args []sx.Value) (sx.Value, error) {
	if err := checkArity("boolean?", args, 1, 1); err != nil {
		return nil, err
	}
	_, ok := sx.GetBoolean(args[0])
	return sx.Boolean(ok), nil
}

func equalP(args []sx.Value) (sx.Value, error) {
	if err := checkArity("equal?", args, 2, 2); err != nil {
		return nil, err
	}
	return sx.Boolean(args[0].IsEqual(args[1])), nil
}

func symbolP(args []sx.Value) (sx.Value, error) {
	if err := checkArity("symbol?", args, 1, 1); err != nil {
		return nil, err
	}
	_, ok := sx.GetSymbol(args[0])
	return sx.Boolean(ok), nil
}
