// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	math32 "github.com/chewxy/math32"
)

// Q is a quaternion of float32. V holds the vector part (x, y, z)
// and R holds the scalar part (w).
type Q struct {
	V V3
	R float32
}

// QI returns the identity quaternion.
func QI() Q { return Q{R: 1} }

// Mul sets q to contain l ⋅ r.
func (q *Q) Mul(l, r *Q) {
	var v, w V3
	v.Scale(r.R, &l.V)
	w.Scale(l.R, &r.V)
	v.Add(&v, &w)
	w.Cross(&l.V, &r.V)
	d := l.V.Dot(&r.V)
	q.V.Add(&v, &w)
	q.R = l.R*r.R - d
}

// Len returns the length of q.
func (q *Q) Len() float32 {
	return math32.Sqrt(q.V.Dot(&q.V) + q.R*q.R)
}

// Norm sets q to contain p normalized.
func (q *Q) Norm(p *Q) {
	l := 1 / p.Len()
	q.V.Scale(l, &p.V)
	q.R = p.R * l
}

// Conjugate sets q to contain the conjugate of p.
func (q *Q) Conjugate(p *Q) {
	q.V.Neg(&p.V)
	q.R = p.R
}

// Rotate sets q to the unit quaternion representing a rotation of
// angle radians around axis (need not be unit length; it is
// normalized first): q.V = axis·sin(angle/2), q.R = cos(angle/2).
func (q *Q) Rotate(angle float32, axis *V3) {
	var a V3
	a.Norm(axis)
	half := angle / 2
	q.V.Scale(math32.Sin(half), &a)
	q.R = math32.Cos(half)
}

// slerpEpsilon bounds how close the shortest-arc angle between two
// quaternions can be to zero before Slerp falls back to Lerp: below
// this threshold sin(θ) loses enough precision that dividing by it
// amplifies rounding error, not because sin(θ) could exceed 1.
const slerpEpsilon = 0.0005

// Slerp sets q to the spherical linear interpolation of a and b
// at t ∈ [0, 1]. If the angle between a and b is obtuse (dot < 0),
// b is negated so that interpolation takes the shorter arc. When
// a and b are nearly coincident, Slerp falls back to a normalized
// linear interpolation to avoid dividing by a near-zero sin(θ).
func (q *Q) Slerp(a, b *Q, t float32) {
	bv, br := b.V, b.R
	d := a.V.Dot(&bv) + a.R*br
	if d < 0 {
		d = -d
		bv.Scale(-1, &bv)
		br = -br
	}
	if 1-d <= slerpEpsilon {
		q.V.Lerp(&a.V, &bv, t)
		q.R = a.R + (br-a.R)*t
		q.Norm(q)
		return
	}
	theta := math32.Acos(d)
	s := math32.Sin(theta)
	sa := math32.Sin((1 - t) * theta) / s
	sb := math32.Sin(t*theta) / s
	var av, bvS V3
	av.Scale(sa, &a.V)
	bvS.Scale(sb, &bv)
	q.V.Add(&av, &bvS)
	q.R = a.R*sa + br*sb
}
