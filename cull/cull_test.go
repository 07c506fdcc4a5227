// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package cull

import (
	"testing"

	"github.com/stretchr/testify/require"

	"s72engine/linear"
	"s72engine/mesh"
)

func TestFilterMeshCullsBehindCamera(t *testing.T) {
	f := Build(1.0, 1.0, 0.1, 100)

	var view linear.M4
	view.I()

	m := &mesh.Mesh{
		Box: mesh.AABB{Min: linear.V3{-1, -1, -1}, Max: linear.V3{1, 1, 1}},
	}
	var inFront, behind linear.M4
	inFront.I()
	inFront[2][3] = -10 // in front of the camera, within the frustum
	behind.I()
	behind[2][3] = 10 // behind the camera
	m.Instances = []linear.M4{inFront, behind}

	FilterMesh(m, &view, f, Frustum)
	require.Contains(t, m.Visible, 0)
	require.NotContains(t, m.Visible, 1)
}

func TestFilterMeshCullsLateralOffset(t *testing.T) {
	// Narrow FOV so the frustum's lateral extent at z=-10 is well
	// under the 10-unit offset applied below: only the side-plane
	// (and not the Z) axis can catch this instance.
	f := Build(0.2, 1.0, 0.1, 100)

	var view linear.M4
	view.I()

	m := &mesh.Mesh{
		Box: mesh.AABB{Min: linear.V3{-1, -1, -1}, Max: linear.V3{1, 1, 1}},
	}
	var centered, offset linear.M4
	centered.I()
	centered[2][3] = -10
	offset.I()
	offset[0][3] = 10 // well outside the frustum's lateral bounds at this depth
	offset[2][3] = -10
	m.Instances = []linear.M4{centered, offset}

	FilterMesh(m, &view, f, Frustum)
	require.Contains(t, m.Visible, 0)
	require.NotContains(t, m.Visible, 1)
}

func TestFilterMeshNoneModeKeepsAll(t *testing.T) {
	f := Build(1.0, 1.0, 0.1, 100)
	var view linear.M4
	view.I()
	m := &mesh.Mesh{Instances: make([]linear.M4, 3)}
	FilterMesh(m, &view, f, None)
	require.Len(t, m.Visible, 3)
}
