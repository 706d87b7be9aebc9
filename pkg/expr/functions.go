package expr

import (
	"math"
	"slices"
)

type function struct {
	arity int
	f1    func(float64) float64
	f2    func(float64, float64) float64
}

func unary(f func(float64) float64) function           { return function{arity: 1, f1: f} }
func binary(f func(float64, float64) float64) function { return function{arity: 2, f2: f} }

var functions = map[string]function{
	"sin":   unary(math.Sin),
	"cos":   unary(math.Cos),
	"tan":   unary(math.Tan),
	"asin":  unary(math.Asin),
	"acos":  unary(math.Acos),
	"atan":  unary(math.Atan),
	"sinh":  unary(math.Sinh),
	"cosh":  unary(math.Cosh),
	"tanh":  unary(math.Tanh),
	"exp":   unary(math.Exp),
	"log":   unary(math.Log),
	"log2":  unary(math.Log2),
	"log10": unary(math.Log10),
	"sqrt":  unary(math.Sqrt),
	"abs":   unary(math.Abs),
	"floor": unary(math.Floor),
	"ceil":  unary(math.Ceil),
	"round": unary(math.Round),
	"atan2": binary(math.Atan2),
	"pow":   binary(math.Pow),
	"min":   binary(math.Min),
	"max":   binary(math.Max),
	"hypot": binary(math.Hypot),
	"mod":   binary(math.Mod),
}

// Functions returns the names of the built-in functions in sorted order.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Constants returns the names of the built-in constants in sorted order.
func Constants() []string {
	names := make([]string, 0, len(constants))
	for name := range constants {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
