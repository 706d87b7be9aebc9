package field

import "fmt"

// Transform is a named function over a coordinate vector with a declared arity.
// The zero value is invalid; build transforms with [Func1], [Func2], [Func3],
// [FuncN] or [Project].
type Transform struct {
	name  string
	arity int
	eval  func(args []float64) float64
}

// Func1 wraps a single-argument function.
func Func1(name string, fn func(x float64) float64) Transform {
	if fn == nil {
		return Transform{name: name, arity: 1}
	}
	return Transform{name: name, arity: 1, eval: func(a []float64) float64 { return fn(a[0]) }}
}

// Func2 wraps a two-argument function.
func Func2(name string, fn func(x, y float64) float64) Transform {
	if fn == nil {
		return Transform{name: name, arity: 2}
	}
	return Transform{name: name, arity: 2, eval: func(a []float64) float64 { return fn(a[0], a[1]) }}
}

// Func3 wraps a three-argument function.
func Func3(name string, fn func(x, y, z float64) float64) Transform {
	if fn == nil {
		return Transform{name: name, arity: 3}
	}
	return Transform{name: name, arity: 3, eval: func(a []float64) float64 { return fn(a[0], a[1], a[2]) }}
}

// FuncN wraps a function reading a vector of the given arity.
// fn must not retain or modify args.
func FuncN(name string, arity int, fn func(args []float64) float64) Transform {
	return Transform{name: name, arity: arity, eval: fn}
}

// Project returns the transform of the given arity that yields coordinate dim
// unchanged. It is the identity stage for dimension dim. The result is
// invalid if dim is not in [0, arity).
func Project(arity, dim int) Transform {
	if dim < 0 || dim >= arity {
		return Transform{name: fmt.Sprintf("x%d", dim), arity: arity}
	}
	return FuncN(fmt.Sprintf("x%d", dim), arity, func(a []float64) float64 { return a[dim] })
}

// Name returns the transform's display name.
func (t Transform) Name() string {
	if t.name == "" {
		return "anonymous"
	}
	return t.name
}

// Arity returns the number of coordinates the transform reads.
func (t Transform) Arity() int { return t.arity }

// Valid reports whether the transform has a function and a positive arity.
func (t Transform) Valid() bool { return t.eval != nil && t.arity > 0 }

// Apply evaluates the transform. len(args) must equal Arity.
func (t Transform) Apply(args []float64) float64 { return t.eval(args) }

func (t Transform) String() string {
	return fmt.Sprintf("%s/%d", t.Name(), t.arity)
}
