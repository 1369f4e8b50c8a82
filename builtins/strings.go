package builtins

import (
	"strings"

	"github.com/mlisp-lang/mlisp/sx"
)

// Grounded on the teacher's sxbuiltins/strings.go (ToString/Concat),
// adapted to this repo's variadic Fn shape.

func getString(name string, args []sx.Value, i int) (sx.String, error) {
	s, ok := sx.GetString(args[i])
	if !ok {
		return sx.String{}, TypeError{Name: name, Arg: i, Want: "a string", Got: args[i]}
	}
	return s, nil
}

func stringP(args []sx.Value) (sx.Value, error) {
	if err := checkArity("string?", args, 1, 1); err != nil {
		return nil, err
	}
	_, ok := sx.GetString(args[0])
	return sx.Boolean(ok), nil
}

func toString(args []sx.Value) (sx.Value, error) {
	if err := checkArity("->string", args, 1, 1); err != nil {
		return nil, err
	}
	if s, ok := sx.GetString(args[0]); ok {
		return s, nil
	}
	return sx.MakeString(args[0].String()), nil
}

func stringAppend(args []sx.Value) (sx.Value, error) {
	if len(args) == 0 {
		return sx.MakeString(""), nil
	}
	var sb strings.Builder
	for i := range args {
		s, err := getString("string-append", args, i)
		if err != nil {
			return nil, err
		}
		sb.WriteString(s.GetValue())
	}
	return sx.MakeString(sb.String()), nil
}

func stringLength(args []sx.Value) (sx.Value, error) {
	if err := checkArity("string-length", args, 1, 1); err != nil {
		return nil, err
	}
	s, err := getString("string-length", args, 0)
	if err != nil {
		return nil, err
	}
	return sx.Integer(len([]rune(s.GetValue()))), nil
}
