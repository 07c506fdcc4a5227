// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"testing"

	math32 "github.com/chewxy/math32"
)

func TestV3(t *testing.T) {
	v := V3{1, 2, 4}
	w := V3{0, -1, 2}

	var u V3
	u.Add(&v, &w)
	if u != (V3{1, 1, 6}) {
		t.Fatalf("V3.Add\nhave %v\nwant [1 1 6]", u)
	}
	u.Sub(&v, &w)
	if u != (V3{1, 3, 2}) {
		t.Fatalf("V3.Sub\nhave %v\nwant [1 3 2]", u)
	}
	u.Scale(-1, &v)
	if u != (V3{-1, -2, -4}) {
		t.Fatalf("V3.Scale\nhave %v\nwant [-1 -2 -4]", u)
	}
	if d := v.Dot(&w); d != 6 {
		t.Fatalf("V3.Dot\nhave %v\nwant 6", d)
	}
	if l := v.Len(); l != math32.Sqrt(21) {
		t.Fatalf("V3.Len\nhave %v\nwant %v", l, math32.Sqrt(21))
	}

	down := V3{0, 0, -2}
	right := V3{0, 4, 0}
	var ndown, nright V3
	ndown.Norm(&down)
	nright.Norm(&right)
	if ndown != (V3{0, 0, -1}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 0 -1]", ndown)
	}
	if nright != (V3{0, 1, 0}) {
		t.Fatalf("V3.Norm\nhave %v\nwant [0 1 0]", nright)
	}
	var c V3
	c.Cross(&ndown, &nright)
	if c != (V3{1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [1 0 0]", c)
	}
	c.Cross(&nright, &ndown)
	if c != (V3{-1, 0, 0}) {
		t.Fatalf("V3.Cross\nhave %v\nwant [-1 0 0]", c)
	}
}

func TestM4Identity(t *testing.T) {
	var m M4
	m.I()
	v := V3{3, -2, 7}
	r := m.MulV3(&v)
	if r != v {
		t.Fatalf("M4.MulV3 (identity)\nhave %v\nwant %v", r, v)
	}
}

func TestM4Invert(t *testing.T) {
	var t4, inv, prod, ident M4
	t4.I()
	t4[0][3], t4[1][3], t4[2][3] = 5, -3, 2
	inv.Invert(&t4)
	prod.Mul(&t4, &inv)
	ident.I()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if diff := prod[i][j] - ident[i][j]; diff > 1e-4 || diff < -1e-4 {
				t.Fatalf("M4.Invert: T⋅T⁻¹ != I\nhave %v\nwant %v", prod, ident)
			}
		}
	}
}

func TestM4Perspective(t *testing.T) {
	var p M4
	p.Perspective(math32.Pi/2, 1, 0.1, 100)
	if p[1][1] >= 0 {
		t.Fatalf("M4.Perspective: expected m[1][1] to be negated, got %v", p[1][1])
	}
}

func TestM4LookAt(t *testing.T) {
	var v M4
	eye := V3{0, 0, 5}
	center := V3{0, 0, 0}
	up := V3{0, 1, 0}
	v.LookAt(&eye, &center, &up)
	origin := v.MulV3(&eye)
	if origin.Len() > 1e-4 {
		t.Fatalf("M4.LookAt: eye should map to the view-space origin, got %v", origin)
	}
}

func TestQSlerpEndpoints(t *testing.T) {
	a := QI()
	var axis V3
	axis.Norm(&V3{0, 1, 0})
	b := Q{}
	half := math32.Pi / 4
	b.V.Scale(math32.Sin(half), &axis)
	b.R = math32.Cos(half)

	var r Q
	r.Slerp(&a, &b, 0)
	if d := r.V.Dot(&a.V) + r.R*a.R; d < 0.999 {
		t.Fatalf("Q.Slerp(t=0) should equal a, dot=%v", d)
	}
	r.Slerp(&a, &b, 1)
	if d := r.V.Dot(&b.V) + r.R*b.R; d < 0.999 {
		t.Fatalf("Q.Slerp(t=1) should equal b, dot=%v", d)
	}
}

func TestQSlerpShortestPath(t *testing.T) {
	a := QI()
	b := Q{R: -1} // equivalent rotation to a, but negated (long way around)
	var r Q
	r.Slerp(&a, &b, 0.5)
	if l := r.Len(); l < 0.999 || l > 1.001 {
		t.Fatalf("Q.Slerp result should be normalized, len=%v", l)
	}
}

func TestRotateVec3(t *testing.T) {
	var axis V3
	axis.Norm(&V3{0, 0, 1})
	v := V3{1, 0, 0}
	var r V3
	RotateVec3(&r, &v, &axis, math32.Pi/2)
	want := V3{0, 1, 0}
	for i := range r {
		if diff := r[i] - want[i]; diff > 1e-4 || diff < -1e-4 {
			t.Fatalf("RotateVec3\nhave %v\nwant %v", r, want)
		}
	}
}
