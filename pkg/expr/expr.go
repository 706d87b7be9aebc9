// Package expr compiles arithmetic expressions into field transforms.
//
// Expressions use Go syntax restricted to float arithmetic:
//
//	250*x
//	cos(x) + 0.5*sin(t*y)
//	pow(x, 2) - offset
//
// Identifiers resolve in this order: declared variables (the transform's
// arguments, in declaration order), the constants pi, e and tau, then free
// parameters looked up through an [Env] each time the transform runs. A
// parameter unknown to the Env at compile time is an error.
package expr

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"strconv"
	"strings"

	fverrors "github.com/matzehuels/fieldviz/pkg/errors"
	"github.com/matzehuels/fieldviz/pkg/field"
)

// Env resolves free parameters at evaluation time.
type Env interface {
	Lookup(name string) (float64, bool)
}

// Params is a fixed parameter table.
type Params map[string]float64

// Lookup implements Env.
func (p Params) Lookup(name string) (float64, bool) {
	v, ok := p[name]
	return v, ok
}

// EnvFunc adapts a function to Env.
type EnvFunc func(name string) (float64, bool)

// Lookup implements Env.
func (f EnvFunc) Lookup(name string) (float64, bool) { return f(name) }

var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
}

type node func(args []float64) float64

// Compile parses src and returns a transform reading len(vars) arguments.
// The transform is named after the trimmed source text.
func Compile(src string, vars []string, env Env) (field.Transform, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return field.Transform{}, fverrors.New(fverrors.ErrCodeInvalidExpression, "expression is empty")
	}
	if len(vars) == 0 {
		return field.Transform{}, fverrors.New(fverrors.ErrCodeInvalidExpression, "%q: no variables declared", src)
	}

	c := compiler{src: src, vars: make(map[string]int, len(vars)), env: env}
	for i, v := range vars {
		if !token.IsIdentifier(v) {
			return field.Transform{}, fverrors.New(fverrors.ErrCodeInvalidExpression, "invalid variable name %q", v)
		}
		if _, dup := c.vars[v]; dup {
			return field.Transform{}, fverrors.New(fverrors.ErrCodeInvalidExpression, "variable %q declared twice", v)
		}
		if _, isConst := constants[v]; isConst {
			return field.Transform{}, fverrors.New(fverrors.ErrCodeInvalidExpression, "variable %q shadows a constant", v)
		}
		c.vars[v] = i
	}

	tree, err := parser.ParseExpr(src)
	if err != nil {
		return field.Transform{}, fverrors.Wrap(fverrors.ErrCodeInvalidExpression, err, "parse %q", src)
	}
	root, err := c.compile(tree)
	if err != nil {
		return field.Transform{}, err
	}
	return field.FuncN(src, len(vars), root), nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string, vars []string, env Env) field.Transform {
	t, err := Compile(src, vars, env)
	if err != nil {
		panic(err)
	}
	return t
}

type compiler struct {
	src  string
	vars map[string]int
	env  Env
}

func (c *compiler) errorf(format string, args ...any) error {
	return fverrors.New(fverrors.ErrCodeInvalidExpression, "%q: %s", c.src, fmt.Sprintf(format, args...))
}

func (c *compiler) compile(e ast.Expr) (node, error) {
	switch e := e.(type) {
	case *ast.BasicLit:
		return c.literal(e)
	case *ast.Ident:
		return c.ident(e.Name)
	case *ast.ParenExpr:
		return c.compile(e.X)
	case *ast.UnaryExpr:
		return c.unary(e)
	case *ast.BinaryExpr:
		return c.binary(e)
	case *ast.CallExpr:
		return c.call(e)
	}
	return nil, c.errorf("unsupported syntax %T", e)
}

func (c *compiler) literal(lit *ast.BasicLit) (node, error) {
	if lit.Kind != token.INT && lit.Kind != token.FLOAT {
		return nil, c.errorf("unsupported literal %s", lit.Value)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(lit.Value, "_", ""), 64)
	if err != nil {
		return nil, c.errorf("bad number %s", lit.Value)
	}
	return func([]float64) float64 { return v }, nil
}

func (c *compiler) ident(name string) (node, error) {
	if i, ok := c.vars[name]; ok {
		return func(a []float64) float64 { return a[i] }, nil
	}
	if v, ok := constants[name]; ok {
		return func([]float64) float64 { return v }, nil
	}
	if c.env != nil {
		if _, ok := c.env.Lookup(name); ok {
			env := c.env
			return func([]float64) float64 {
				v, _ := env.Lookup(name)
				return v
			}, nil
		}
	}
	return nil, c.errorf("unknown identifier %s", name)
}

func (c *compiler) unary(e *ast.UnaryExpr) (node, error) {
	x, err := c.compile(e.X)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.ADD:
		return x, nil
	case token.SUB:
		return func(a []float64) float64 { return -x(a) }, nil
	}
	return nil, c.errorf("unsupported operator %s", e.Op)
}

func (c *compiler) binary(e *ast.BinaryExpr) (node, error) {
	if e.Op == token.XOR {
		return nil, c.errorf("^ is not exponentiation, use pow(x, y)")
	}
	x, err := c.compile(e.X)
	if err != nil {
		return nil, err
	}
	y, err := c.compile(e.Y)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case token.ADD:
		return func(a []float64) float64 { return x(a) + y(a) }, nil
	case token.SUB:
		return func(a []float64) float64 { return x(a) - y(a) }, nil
	case token.MUL:
		return func(a []float64) float64 { return x(a) * y(a) }, nil
	case token.QUO:
		return func(a []float64) float64 { return x(a) / y(a) }, nil
	case token.REM:
		return func(a []float64) float64 { return math.Mod(x(a), y(a)) }, nil
	}
	return nil, c.errorf("unsupported operator %s", e.Op)
}

func (c *compiler) call(e *ast.CallExpr) (node, error) {
	id, ok := e.Fun.(*ast.Ident)
	if !ok {
		return nil, c.errorf("unsupported call target")
	}
	fn, ok := functions[id.Name]
	if !ok {
		return nil, c.errorf("unknown function %s", id.Name)
	}
	if e.Ellipsis.IsValid() {
		return nil, c.errorf("variadic call to %s", id.Name)
	}
	if len(e.Args) != fn.arity {
		return nil, c.errorf("%s takes %d argument(s), got %d", id.Name, fn.arity, len(e.Args))
	}

	args := make([]node, len(e.Args))
	for i, arg := range e.Args {
		n, err := c.compile(arg)
		if err != nil {
			return nil, err
		}
		args[i] = n
	}

	switch fn.arity {
	case 1:
		f, x := fn.f1, args[0]
		return func(a []float64) float64 { return f(x(a)) }, nil
	default:
		f, x, y := fn.f2, args[0], args[1]
		return func(a []float64) float64 { return f(x(a), y(a)) }, nil
	}
}
