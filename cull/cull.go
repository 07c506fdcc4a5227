// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package cull culls mesh instances against a camera's view frustum
// using a separating-axis test over each instance's object-space
// bounding box, so the render loop only walks instances that can
// possibly contribute a pixel.
package cull

import (
	"s72engine/internal/bitvec"
	"s72engine/linear"
	"s72engine/mesh"
)

// Mode selects whether FilterMesh actually culls or passes every
// instance through unfiltered.
type Mode int

// Cull modes.
const (
	None Mode = iota
	Frustum
)

// Frustum holds a camera's view-space frustum extents: the near
// plane's half-width and half-height, and the (negative, since view
// space looks down -Z) depths of the near and far planes.
type Frustum struct {
	NearRight, NearTop  float32
	NearPlane, FarPlane float32
}

// Build derives a Frustum from a camera's vertical FOV (radians),
// aspect ratio and near/far planes.
func Build(vfov, aspect, near, far float32) Frustum {
	nearTop := near * tan(vfov/2)
	nearRight := aspect * nearTop
	return Frustum{
		NearRight: nearRight,
		NearTop:   nearTop,
		NearPlane: -near,
		FarPlane:  -far,
	}
}

// obb is an oriented box built from an AABB transformed by
// model-view: its center plus three normalized axes and their half
// lengths (extents) along each.
type obb struct {
	center  linear.V3
	axes    [3]linear.V3
	extents linear.V3
}

func buildOBB(box *mesh.AABB, modelView *linear.M4) obb {
	c000 := linear.V3{box.Min[0], box.Min[1], box.Min[2]}
	cX := linear.V3{box.Max[0], box.Min[1], box.Min[2]}
	cY := linear.V3{box.Min[0], box.Max[1], box.Min[2]}
	cZ := linear.V3{box.Min[0], box.Min[1], box.Max[2]}

	o := modelView.MulV3(&c000)
	px := modelView.MulV3(&cX)
	py := modelView.MulV3(&cY)
	pz := modelView.MulV3(&cZ)

	var ex, ey, ez linear.V3
	ex.Sub(&px, &o)
	ey.Sub(&py, &o)
	ez.Sub(&pz, &o)

	var b obb
	lx, ly, lz := ex.Len(), ey.Len(), ez.Len()
	b.axes[0].Scale(1/lx, &ex)
	b.axes[1].Scale(1/ly, &ey)
	b.axes[2].Scale(1/lz, &ez)
	b.extents = linear.V3{lx / 2, ly / 2, lz / 2}

	var half linear.V3
	half.Add(&ex, &ey)
	half.Add(&half, &ez)
	half.Scale(0.5, &half)
	b.center.Add(&o, &half)
	return b
}

// radius returns half the length of the OBB's projection onto axis
// (need not be normalized; only its direction is used by the caller's
// subsequent tau comparison, so this treats axis as-is).
func (b *obb) radius(axis *linear.V3) float32 {
	var r float32
	for i := range b.axes {
		r += absf(axis.Dot(&b.axes[i])) * b.extents[i]
	}
	return r
}

// separated reports whether axis (a cross-product or normal vector in
// view space) separates the OBB from the frustum. A near-zero axis,
// the cross product of two near-parallel vectors, carries no
// information and is skipped rather than risk a false separation from
// floating-point noise.
//
// For every axis but Z, the frustum's projection onto axis is not a
// fixed interval: it is bounded by a tau interval derived from the
// near plane's half-extents, linearly scaled towards the far plane
// when the bound straddles zero. This mirrors how a point's visible
// range along a side-plane normal widens with depth in a perspective
// frustum.
func (b *obb) separated(f *Frustum, axis *linear.V3) bool {
	if axis.Len() < 1e-4 {
		return false
	}
	moc := axis.Dot(&b.center)
	r := b.radius(axis)
	lo, hi := moc-r, moc+r

	mx, my, mz := absf(axis[0]), absf(axis[1]), axis[2]
	p := f.NearRight*mx + f.NearTop*my
	tau0 := f.NearPlane*mz - p
	tau1 := f.NearPlane*mz + p
	if tau0 < 0 {
		tau0 *= f.FarPlane / f.NearPlane
	}
	if tau1 > 0 {
		tau1 *= f.FarPlane / f.NearPlane
	}
	return lo > tau1 || hi < tau0
}

// visibleAgainst runs the separating-axis test between the OBB and
// the frustum across all six axis categories: the view-space Z axis
// (tested directly against the near/far depths, since it is not a
// side-plane normal and has no tau form); the OBB's own three axes;
// the four frustum side-plane normals; the OBB axes crossed with the
// view-space right and up axes; and the OBB axes crossed with the
// frustum's four near-plane edge directions. Finding any one
// separating axis proves the instance invisible; surviving all of
// them proves it visible.
func visibleAgainst(b *obb, f *Frustum) bool {
	zAxis := linear.V3{0, 0, 1}
	zRadius := b.radius(&zAxis)
	if b.center[2]+zRadius < f.FarPlane || b.center[2]-zRadius > f.NearPlane {
		return false
	}

	for i := range b.axes {
		if b.separated(f, &b.axes[i]) {
			return false
		}
	}

	normals := []linear.V3{
		{f.NearPlane, 0, f.NearRight},   // left
		{-f.NearPlane, 0, f.NearRight},  // right
		{0, f.NearPlane, f.NearTop},     // bottom
		{0, -f.NearPlane, f.NearTop},    // top
	}
	for _, n := range normals {
		if b.separated(f, &n) {
			return false
		}
	}

	right := linear.V3{1, 0, 0}
	up := linear.V3{0, 1, 0}
	edges := []linear.V3{
		{-f.NearRight, 0, f.NearPlane}, // left
		{f.NearRight, 0, f.NearPlane},  // right
		{0, f.NearTop, f.NearPlane},    // top
		{0, -f.NearTop, f.NearPlane},   // bottom
	}
	for i := range b.axes {
		var cr, cu linear.V3
		cr.Cross(&right, &b.axes[i])
		if b.separated(f, &cr) {
			return false
		}
		cu.Cross(&up, &b.axes[i])
		if b.separated(f, &cu) {
			return false
		}
		for _, e := range edges {
			var ce linear.V3
			ce.Cross(&e, &b.axes[i])
			if b.separated(f, &ce) {
				return false
			}
		}
	}
	return true
}

// FilterMesh fills m.Visible with the indices of m.Instances that
// survive culling against view (camera space) under mode. When mode
// is None, Visible aliases every instance index without running the
// SAT test.
func FilterMesh(m *mesh.Mesh, view *linear.M4, f Frustum, mode Mode) {
	if mode == None {
		m.Visible = m.Visible[:0]
		for i := range m.Instances {
			m.Visible = append(m.Visible, i)
		}
		return
	}

	var bits bitvec.V[uint64]
	bits.Grow(1 + len(m.Instances)/64)
	for i, inst := range m.Instances {
		var modelView linear.M4
		modelView.Mul(view, &inst)
		b := buildOBB(&m.Box, &modelView)
		if visibleAgainst(&b, &f) {
			bits.Set(i)
		}
	}

	m.Visible = m.Visible[:0]
	for i, set := range bits.All() {
		if i >= len(m.Instances) {
			break
		}
		if set {
			m.Visible = append(m.Visible, i)
		}
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
