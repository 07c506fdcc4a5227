// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear implements the math kernel used throughout the
// scene engine: vectors, row-major dense matrices and quaternions.
//
// Matrices are stored row-major: M[i] is row i and M[i][j] is the
// entry at row i, column j. Vectors are treated as columns, so a
// transform is applied as v' = M·v, with (M·v)[i] = Σⱼ M[i][j]·v[j].
package linear

import (
	math32 "github.com/chewxy/math32"
)

// V3 is a 3-component vector of float32.
type V3 [3]float32

// Add sets v to contain l + r.
func (v *V3) Add(l, r *V3) {
	for i := range v {
		v[i] = l[i] + r[i]
	}
}

// Sub sets v to contain l - r.
func (v *V3) Sub(l, r *V3) {
	for i := range v {
		v[i] = l[i] - r[i]
	}
}

// Scale sets v to contain s ⋅ w.
func (v *V3) Scale(s float32, w *V3) {
	for i := range v {
		v[i] = s * w[i]
	}
}

// Dot returns v ⋅ w.
func (v *V3) Dot(w *V3) (d float32) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}

// Len returns the length of v.
func (v *V3) Len() float32 { return math32.Sqrt(v.Dot(v)) }

// Norm sets v to contain w normalized.
// It is undefined behavior if w has zero length.
func (v *V3) Norm(w *V3) { v.Scale(1/w.Len(), w) }

// Cross sets v to contain l × r.
func (v *V3) Cross(l, r *V3) {
	*v = V3{
		l[1]*r[2] - l[2]*r[1],
		l[2]*r[0] - l[0]*r[2],
		l[0]*r[1] - l[1]*r[0],
	}
}

// Neg sets v to contain -w.
func (v *V3) Neg(w *V3) {
	for i := range v {
		v[i] = -w[i]
	}
}

// Lerp sets v to the linear interpolation of l and r at t.
func (v *V3) Lerp(l, r *V3, t float32) {
	for i := range v {
		v[i] = l[i] + (r[i]-l[i])*t
	}
}

// Mul sets v to contain m ⋅ w (m applied as a linear map to w).
func (v *V3) Mul(m *M3, w *V3) {
	var r V3
	for i := range r {
		for j := range w {
			r[i] += m[i][j] * w[j]
		}
	}
	*v = r
}

// V4 is a 4-component vector of float32.
type V4 [4]float32

// Add sets v to contain l + r.
func (v *V4) Add(l, r *V4) {
	for i := range v {
		v[i] = l[i] + r[i]
	}
}

// Sub sets v to contain l - r.
func (v *V4) Sub(l, r *V4) {
	for i := range v {
		v[i] = l[i] - r[i]
	}
}

// Scale sets v to contain s ⋅ w.
func (v *V4) Scale(s float32, w *V4) {
	for i := range v {
		v[i] = s * w[i]
	}
}

// Dot returns v ⋅ w.
func (v *V4) Dot(w *V4) (d float32) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}

// Len returns the length of v.
func (v *V4) Len() float32 { return math32.Sqrt(v.Dot(v)) }

// Norm sets v to contain w normalized.
func (v *V4) Norm(w *V4) { v.Scale(1/w.Len(), w) }

// Mul sets v to contain m ⋅ w (m applied as a linear map to w).
func (v *V4) Mul(m *M4, w *V4) {
	var r V4
	for i := range r {
		for j := range w {
			r[i] += m[i][j] * w[j]
		}
	}
	*v = r
}

// XYZ returns the first three components of v.
func (v *V4) XYZ() V3 { return V3{v[0], v[1], v[2]} }

// RotateVec3 sets v to w rotated by angle radians around the
// unit axis ax, using Rodrigues' rotation formula:
//
//	v = w·cosθ + (ax×w)·sinθ + ax·(ax⋅w)·(1-cosθ)
//
// ax must already be normalized.
func RotateVec3(v *V3, w, ax *V3, angle float32) {
	s, c := math32.Sin(angle), math32.Cos(angle)
	var cross, scaled, term, axTerm V3
	cross.Cross(ax, w)
	cross.Scale(s, &cross)
	scaled.Scale(c, w)
	term.Add(&scaled, &cross)
	axTerm.Scale(ax.Dot(w)*(1-c), ax)
	v.Add(&term, &axTerm)
}
