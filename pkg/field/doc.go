// Package field models coordinate transformation fields.
//
// # Overview
//
// A [Field] declares a fixed number of dimensions. Each dimension owns an
// ordered chain of [Transform] values. Materializing a dimension samples a
// linearly spaced range and pushes every sample through that dimension's
// chain, stage by stage, producing the positions a renderer draws.
//
// # Basic Usage
//
// Build a one-dimensional field, append a second stage and materialize it:
//
//	f, err := field.New([]field.Transform{field.Func1("cos", math.Cos)})
//	if err != nil {
//	    return err
//	}
//	f.AppendTransform(0, field.Func1("scale", func(x float64) float64 { return 250 * x }))
//	coords, err := f.Materialize(0, -10, 10, 18)
//
// # Arity
//
// Every transform declares an arity, the number of coordinates it reads.
// All transforms in a field must declare an arity equal to the field's
// dimension count, both at construction and when appended. Violations are
// reported as CONFIGURATION errors from package errors and leave the field
// untouched.
//
// # Anchors
//
// Only one dimension is materialized at a time, yet an N-dimensional
// transform reads N coordinates. The slot of the dimension being sampled
// carries the value being transformed; every other slot carries that
// dimension's anchor, a fixed value set with [Field.SetAnchor] (zero by
// default). A one-dimensional field therefore behaves as a plain chain of
// single-argument functions.
//
// # Concurrency
//
// A Field is owned by a single caller. Its methods are not safe for
// concurrent use.
package field
