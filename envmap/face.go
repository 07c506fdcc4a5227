// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package envmap

import (
	math32 "github.com/chewxy/math32"

	"s72engine/linear"
)

// faceAxes holds the fixed (s, t, r) frame of a cube face: s maps to
// the rightward in-face axis, t to the upward in-face axis, r points
// from the cube's center toward the face. Baker and runtime sampler
// must agree on this table exactly, or pre-integrated lighting will
// sample the wrong texel.
type faceAxes struct{ S, T, R linear.V3 }

var axesByFace = [faceCount]faceAxes{
	Right: {S: linear.V3{0, 0, -1}, T: linear.V3{0, -1, 0}, R: linear.V3{1, 0, 0}},
	Left:  {S: linear.V3{0, 0, 1}, T: linear.V3{0, -1, 0}, R: linear.V3{-1, 0, 0}},
	Front: {S: linear.V3{1, 0, 0}, T: linear.V3{0, 0, 1}, R: linear.V3{0, 1, 0}},
	Back:  {S: linear.V3{1, 0, 0}, T: linear.V3{0, 0, -1}, R: linear.V3{0, -1, 0}},
	Up:    {S: linear.V3{1, 0, 0}, T: linear.V3{0, -1, 0}, R: linear.V3{0, 0, 1}},
	Down:  {S: linear.V3{-1, 0, 0}, T: linear.V3{0, -1, 0}, R: linear.V3{0, 0, -1}},
}

// Direction returns the world-space direction a texel (u, v) of a
// size×size face maps to: N = normalize(r + s·(2(u+0.5)/size − 1) +
// t·(2(v+0.5)/size − 1)).
func Direction(f Face, u, v, size int) linear.V3 {
	a := axesByFace[f]
	su := 2*(float32(u)+0.5)/float32(size) - 1
	tv := 2*(float32(v)+0.5)/float32(size) - 1

	var sTerm, tTerm, sum linear.V3
	sTerm.Scale(su, &a.S)
	tTerm.Scale(tv, &a.T)
	sum.Add(&a.R, &sTerm)
	sum.Add(&sum, &tTerm)
	sum.Norm(&sum)
	return sum
}

// Project selects the face, (u, v) texel a direction maps to by its
// dominant absolute axis, and returns the sampled radiance from cm.
func Project(cm *CubeMap, dir linear.V3) linear.V3 {
	f, u, v := ProjectCoord(dir, cm.Size)
	return cm.At(f, u, v)
}

// ProjectCoord is the coordinate half of Project, split out so tests
// can check the inverse of Direction without needing a populated
// cube map.
func ProjectCoord(dir linear.V3, size int) (f Face, u, v int) {
	ax, ay, az := math32.Abs(dir[0]), math32.Abs(dir[1]), math32.Abs(dir[2])

	var sc, tc, rc float32
	switch {
	case ax >= ay && ax >= az:
		if dir[0] >= 0 {
			sc, tc, rc, f = -dir[2], -dir[1], dir[0], Right
		} else {
			sc, tc, rc, f = dir[2], -dir[1], dir[0], Left
		}
	case ay >= az:
		if dir[1] >= 0 {
			sc, tc, rc, f = dir[0], dir[2], dir[1], Front
		} else {
			sc, tc, rc, f = dir[0], -dir[2], dir[1], Back
		}
	default:
		if dir[2] >= 0 {
			sc, tc, rc, f = dir[0], -dir[1], dir[2], Up
		} else {
			sc, tc, rc, f = -dir[0], -dir[1], dir[2], Down
		}
	}

	arc := math32.Abs(rc)
	u = clampIdx(int(math32.Floor(0.5*(sc/arc+1)*float32(size))), size)
	v = clampIdx(int(math32.Floor(0.5*(tc/arc+1)*float32(size))), size)
	return
}

func clampIdx(i, size int) int {
	if i < 0 {
		return 0
	}
	if i > size-1 {
		return size - 1
	}
	return i
}
