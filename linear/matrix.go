// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	math32 "github.com/chewxy/math32"
)

// M3 is a row-major 3x3 matrix of float32.
type M3 [3]V3

// I makes m an identity matrix.
func (m *M3) I() { *m = M3{{1}, {0, 1}, {0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M3) Mul(l, r *M3) {
	var p M3
	for i := range p {
		for j := range p[i] {
			for k := range p {
				p[i][j] += l[i][k] * r[k][j]
			}
		}
	}
	*m = p
}

// Transpose sets m to contain the transpose of n.
func (m *M3) Transpose(n *M3) {
	var p M3
	for i := range p {
		for j := range p[i] {
			p[i][j] = n[j][i]
		}
	}
	*m = p
}

// Invert sets m to contain the inverse of n.
// It panics if n is singular.
func (m *M3) Invert(n *M3) {
	rows := make([][]float32, 3)
	for i := range rows {
		rows[i] = append([]float32(nil), n[i][:]...)
	}
	inv, ok := invertSquare(rows, 3)
	if !ok {
		panic("linear: M3.Invert: singular matrix")
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = inv[i][j]
		}
	}
}

// M4 is a row-major 4x4 matrix of float32.
type M4 [4]V4

// I makes m an identity matrix.
func (m *M4) I() { *m = M4{{1}, {0, 1}, {0, 0, 1}, {0, 0, 0, 1}} }

// Mul sets m to contain l ⋅ r.
func (m *M4) Mul(l, r *M4) {
	var p M4
	for i := range p {
		for j := range p[i] {
			for k := range p {
				p[i][j] += l[i][k] * r[k][j]
			}
		}
	}
	*m = p
}

// Transpose sets m to contain the transpose of n.
func (m *M4) Transpose(n *M4) {
	var p M4
	for i := range p {
		for j := range p[i] {
			p[i][j] = n[j][i]
		}
	}
	*m = p
}

// Invert sets m to contain the inverse of n.
// It panics if n is singular.
func (m *M4) Invert(n *M4) {
	rows := make([][]float32, 4)
	for i := range rows {
		rows[i] = append([]float32(nil), n[i][:]...)
	}
	inv, ok := invertSquare(rows, 4)
	if !ok {
		panic("linear: M4.Invert: singular matrix")
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m[i][j] = inv[i][j]
		}
	}
}

// MulV3 transforms v as a point (w=1) by m, applying perspective
// divide, and returns the result.
func (m *M4) MulV3(v *V3) V3 {
	h := V4{v[0], v[1], v[2], 1}
	var r V4
	r.Mul(m, &h)
	if r[3] != 0 && r[3] != 1 {
		inv := 1 / r[3]
		return V3{r[0] * inv, r[1] * inv, r[2] * inv}
	}
	return V3{r[0], r[1], r[2]}
}

// invertSquare computes the inverse of an n×n matrix given as a
// slice of row slices, via Gauss-Jordan elimination with partial
// pivoting. It is independent of any particular matrix size, so
// M3.Invert and M4.Invert share it instead of hand-written
// cofactor expansions.
func invertSquare(a [][]float32, n int) ([][]float32, bool) {
	aug := make([][]float32, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float32, 2*n)
		copy(aug[i], a[i])
		aug[i][n+i] = 1
	}
	for col := 0; col < n; col++ {
		piv := col
		best := math32.Abs(aug[col][col])
		for r := col + 1; r < n; r++ {
			if v := math32.Abs(aug[r][col]); v > best {
				piv, best = r, v
			}
		}
		if best < 1e-12 {
			return nil, false
		}
		aug[col], aug[piv] = aug[piv], aug[col]
		inv := 1 / aug[col][col]
		for j := 0; j < 2*n; j++ {
			aug[col][j] *= inv
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := aug[r][col]
			if f == 0 {
				continue
			}
			for j := 0; j < 2*n; j++ {
				aug[r][j] -= f * aug[col][j]
			}
		}
	}
	out := make([][]float32, n)
	for i := 0; i < n; i++ {
		out[i] = aug[i][n:]
	}
	return out, true
}

// Perspective sets m to a perspective projection matrix with the
// given vertical field of view (radians), aspect ratio (width/height),
// and near/far clip distances, mapping depth to [0, 1] (near maps
// to 0, far maps to 1).
//
// The single, documented sign flip that accounts for an explicit
// GPU API's clip-space Y axis pointing down (rather than up, as
// OpenGL's convention assumes) happens here and nowhere else in
// the math kernel: m[1][1] is negated after the standard derivation.
func (m *M4) Perspective(fovy, aspect, near, far float32) {
	f := 1 / math32.Tan(fovy/2)
	*m = M4{}
	m[0][0] = f / aspect
	m[1][1] = f
	m[2][2] = far / (near - far)
	m[2][3] = near * far / (near - far)
	m[3][2] = -1

	m[1][1] *= -1
}

// LookAt sets m to a view matrix placing the camera at eye,
// looking toward center, with the given up direction.
func (m *M4) LookAt(eye, center, up *V3) {
	var fwd, right, u V3
	fwd.Sub(center, eye)
	fwd.Norm(&fwd)
	right.Cross(&fwd, up)
	right.Norm(&right)
	u.Cross(&right, &fwd)

	*m = M4{}
	m[0][0], m[0][1], m[0][2] = right[0], right[1], right[2]
	m[1][0], m[1][1], m[1][2] = u[0], u[1], u[2]
	m[2][0], m[2][1], m[2][2] = -fwd[0], -fwd[1], -fwd[2]
	m[3][3] = 1
	m[0][3] = -right.Dot(eye)
	m[1][3] = -u.Dot(eye)
	m[2][3] = fwd.Dot(eye)
}

// FromQuat sets m to the rotation matrix equivalent to q, using the
// standard unit-quaternion expansion with q.V as (x, y, z) and q.R as w.
func (m *M4) FromQuat(q *Q) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	x2, y2, z2 := x+x, y+y, z+z
	xx, yy, zz := x*x2, y*y2, z*z2
	xy, xz, yz := x*y2, x*z2, y*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	*m = M4{}
	m[0][0] = 1 - (yy + zz)
	m[0][1] = xy - wz
	m[0][2] = xz + wy
	m[1][0] = xy + wz
	m[1][1] = 1 - (xx + zz)
	m[1][2] = yz - wx
	m[2][0] = xz - wy
	m[2][1] = yz + wx
	m[2][2] = 1 - (xx + yy)
	m[3][3] = 1
}

// rodrigues returns the 3x3 rotation matrix for angle radians
// around axis (need not be unit length; it is normalized first),
// via R = I + sinθ·K + (1−cosθ)·K², K being axis's cross-product
// matrix.
func rodrigues(angle float32, axis *V3) M3 {
	var a V3
	a.Norm(axis)
	s, c := math32.Sin(angle), math32.Cos(angle)
	t := 1 - c
	x, y, z := a[0], a[1], a[2]
	return M3{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c},
	}
}

// Rotate sets m to the 3x3 rotation matrix for angle radians
// around axis, built directly from the axis-angle pair via
// Rodrigues' formula (see RotateVec3).
func (m *M3) Rotate(angle float32, axis *V3) { *m = rodrigues(angle, axis) }

// Rotate sets m to the 4x4 rotation matrix for angle radians
// around axis, embedding Rodrigues' 3x3 form in the upper-left
// block of an otherwise identity matrix.
func (m *M4) Rotate(angle float32, axis *V3) {
	r := rodrigues(angle, axis)
	*m = M4{}
	for i := 0; i < 3; i++ {
		copy(m[i][:3], r[i][:])
	}
	m[3][3] = 1
}

// RotateQ sets m to the 3x3 rotation matrix equivalent to q, the
// upper-left block of M4.FromQuat.
func (m *M3) RotateQ(q *Q) {
	var m4 M4
	m4.FromQuat(q)
	for i := 0; i < 3; i++ {
		copy(m[i][:], m4[i][:3])
	}
}

// RotateQ sets m to the rotation matrix equivalent to q.
func (m *M4) RotateQ(q *Q) { m.FromQuat(q) }
