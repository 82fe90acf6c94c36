package runtime

import (
	"github.com/sergev/mini/lang"
	"github.com/sergev/mini/parser"
)

func installPrimitives(ev *lang.Evaluator) {
	define := func(name string, fn lang.Primitive) {
		ev.DefineBuiltin(&lang.Builtin{Name: name, Variadic: true, Fn: fn})
	}

	define("sum", primSum)
	define("product", primProduct)
}

func primSum(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return fold("sum", parser.OpAdd, 0, args)
}

func primProduct(ev *lang.Evaluator, args []lang.Value) (lang.Value, error) {
	return fold("product", parser.OpMul, 1, args)
}

func fold(name string, op parser.Operator, acc int64, args []lang.Value) (lang.Value, error) {
	for _, arg := range args {
		if arg.Type != lang.TypeInt {
			return lang.Value{}, &lang.TypeError{Op: name, Want: lang.TypeInt, Got: arg}
		}
		var err error
		acc, err = lang.Arith(op, acc, arg.Int(), parser.Position{})
		if err != nil {
			return lang.Value{}, err
		}
	}
	return lang.IntValue(acc), nil
}
