package field

import (
	"math"

	fverrors "github.com/matzehuels/fieldviz/pkg/errors"
)

// Field holds one transform chain per dimension and the coordinates produced
// by the most recent materialization.
type Field struct {
	chains  [][]Transform
	anchors []float64
	coords  []float64
}

// New creates a field with one dimension per transform. Each dimension's
// chain starts with its corresponding transform.
//
// All transforms must share one arity and that arity must equal
// len(transforms). Otherwise New returns a CONFIGURATION error and no field.
func New(transforms []Transform) (*Field, error) {
	n := len(transforms)
	if n == 0 {
		return nil, fverrors.ConfigurationError("field needs at least one dimension")
	}
	for i, t := range transforms {
		if !t.Valid() {
			return nil, fverrors.ConfigurationError("transform %d (%s) has no function", i, t.Name())
		}
	}

	arity := transforms[0].Arity()
	for i, t := range transforms[1:] {
		if t.Arity() != arity {
			return nil, fverrors.ConfigurationError(
				"transform %d (%s) has arity %d, transform 0 (%s) has arity %d",
				i+1, t.Name(), t.Arity(), transforms[0].Name(), arity)
		}
	}
	if arity != n {
		return nil, fverrors.ConfigurationError("transforms have arity %d, want %d (one per dimension)", arity, n)
	}

	chains := make([][]Transform, n)
	for i, t := range transforms {
		chains[i] = []Transform{t}
	}
	return &Field{
		chains:  chains,
		anchors: make([]float64, n),
	}, nil
}

// DimensionCount returns the number of dimensions declared at construction.
func (f *Field) DimensionCount() int { return len(f.chains) }

// Chain returns a copy of the transform chain for dim in application order,
// or nil if dim is out of range.
func (f *Field) Chain(dim int) []Transform {
	if !f.validDim(dim) {
		return nil
	}
	out := make([]Transform, len(f.chains[dim]))
	copy(out, f.chains[dim])
	return out
}

// AppendTransform appends t to the end of the chain for dim and returns f so
// calls can be chained. t must declare an arity equal to the dimension count.
// On error the field is left unchanged.
func (f *Field) AppendTransform(dim int, t Transform) (*Field, error) {
	if !f.validDim(dim) {
		return f, fverrors.ConfigurationError("dimension %d out of range [0, %d)", dim, len(f.chains))
	}
	if !t.Valid() {
		return f, fverrors.ConfigurationError("transform %s has no function", t.Name())
	}
	if t.Arity() != len(f.chains) {
		return f, fverrors.ConfigurationError("transform %s has arity %d, want %d", t.Name(), t.Arity(), len(f.chains))
	}
	f.chains[dim] = append(f.chains[dim], t)
	return f, nil
}

// MustAppend is like AppendTransform but panics on error.
// It is intended for fields declared in code with known-good transforms.
func (f *Field) MustAppend(dim int, t Transform) *Field {
	if _, err := f.AppendTransform(dim, t); err != nil {
		panic(err)
	}
	return f
}

// SetAnchor fixes the value supplied for dim when another dimension is
// materialized.
func (f *Field) SetAnchor(dim int, v float64) error {
	if !f.validDim(dim) {
		return fverrors.ConfigurationError("dimension %d out of range [0, %d)", dim, len(f.chains))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fverrors.ConfigurationError("anchor for dimension %d must be finite, got %v", dim, v)
	}
	f.anchors[dim] = v
	return nil
}

// Anchors returns a copy of the anchor values.
func (f *Field) Anchors() []float64 {
	out := make([]float64, len(f.anchors))
	copy(out, f.anchors)
	return out
}

// Materialize samples numPoints linearly spaced values from initial to final,
// applies the chain for dim to every sample in append order, stores the result
// as the field's coordinates and returns it.
//
// numPoints must be at least 2 and both bounds must be finite; otherwise a
// DOMAIN error is returned and the stored coordinates are left as they were.
func (f *Field) Materialize(dim int, initial, final float64, numPoints int) ([]float64, error) {
	if !f.validDim(dim) {
		return nil, fverrors.DomainError("dimension %d out of range [0, %d)", dim, len(f.chains))
	}
	pts, err := Linspace(initial, final, numPoints)
	if err != nil {
		return nil, err
	}

	args := make([]float64, len(f.chains))
	for _, t := range f.chains[dim] {
		for i, v := range pts {
			copy(args, f.anchors)
			args[dim] = v
			pts[i] = t.Apply(args)
		}
	}

	f.coords = pts
	return pts, nil
}

// Coordinates returns the sequence produced by the last Materialize call,
// or nil if the field has not been materialized.
func (f *Field) Coordinates() []float64 { return f.coords }

func (f *Field) validDim(dim int) bool {
	return dim >= 0 && dim < len(f.chains)
}

// Linspace returns n evenly spaced values from initial to final inclusive.
// Sample i is initial + i*step with step = (final-initial)/(n-1); the last
// sample is exactly final.
func Linspace(initial, final float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fverrors.DomainError("numPoints must be at least 2, got %d", n)
	}
	if !finite(initial) || !finite(final) {
		return nil, fverrors.DomainError("range bounds must be finite, got [%v, %v]", initial, final)
	}
	step := (final - initial) / float64(n-1)
	if !finite(step) {
		return nil, fverrors.DomainError("step size overflows for range [%v, %v]", initial, final)
	}

	pts := make([]float64, n)
	for i := range pts {
		pts[i] = initial + float64(i)*step
	}
	pts[n-1] = final
	return pts, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
