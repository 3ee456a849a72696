// Package simdops provides generic numeric kernels for float32 and float64
// types, so a single codebase supports both precision levels without
// duplication.
//
// Two implementations are exposed: a SIMD-accelerated set backed by
// github.com/tphakala/simd (AVX2/SSE dispatch happens inside that library)
// and a portable scalar set. Callers pick via For/Scalar; the resampler's
// EnableSIMD switch maps directly onto that choice.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/floats"
)

// Float is the type constraint for supported floating-point types.
type Float interface {
	float32 | float64
}

// Ops provides the numeric kernels for type F. Function pointers allow
// type-safe generic code while delegating to optimized type-specific
// implementations.
type Ops[F Float] struct {
	// Dot computes the dot product of two equal-length slices.
	// Lengths are not checked; callers validate shapes first.
	Dot func(a, b []F) F

	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s.
	Scale func(dst, a []F, s F)
}

// Pre-instantiated operations for each float type and implementation.
// Package-level variables avoid repeated allocation.
var (
	simd32 = Ops[float32]{
		Dot:   f32.DotProductUnsafe,
		Sum:   f32.Sum,
		Scale: f32.Scale,
	}
	simd64 = Ops[float64]{
		Dot:   f64.DotProductUnsafe,
		Sum:   f64.Sum,
		Scale: f64.Scale,
	}
	scalar32 = Ops[float32]{
		Dot:   dotScalar32,
		Sum:   sumScalar32,
		Scale: scaleScalar32,
	}
	scalar64 = Ops[float64]{
		Dot:   floats.Dot,
		Sum:   floats.Sum,
		Scale: scaleScalar64,
	}
)

// For returns the SIMD-backed Ops instance for type F.
// The type switch happens at instantiation time, not in hot paths.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		return any(&simd32).(*Ops[F])
	default:
		return any(&simd64).(*Ops[F])
	}
}

// Scalar returns the portable pure-Go Ops instance for type F. The float64
// kernels delegate to gonum/floats; float32 has no gonum counterpart and
// uses plain loops.
func Scalar[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		return any(&scalar32).(*Ops[F])
	default:
		return any(&scalar64).(*Ops[F])
	}
}

func dotScalar32(a, b []float32) float32 {
	var acc float32
	for i := range a {
		acc += a[i] * b[i]
	}
	return acc
}

func sumScalar32(a []float32) float32 {
	var acc float32
	for _, v := range a {
		acc += v
	}
	return acc
}

func scaleScalar32(dst, a []float32, s float32) {
	for i := range a {
		dst[i] = a[i] * s
	}
}

func scaleScalar64(dst, a []float64, s float64) {
	for i := range a {
		dst[i] = a[i] * s
	}
}
