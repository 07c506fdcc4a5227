// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package shadow renders a depth-only shadow map for each spotlight
// in a scene, one square image per light. The maps are rendered every
// frame, but runtime's main pass does not bind or sample them, so
// fragments are not tested against occluders.
package shadow

import (
	"s72engine/driver"
	"s72engine/linear"
	"s72engine/mesh"
	"s72engine/scene"
)

// Map is a single spotlight's depth target plus the light-space
// matrices that project a point into it.
type Map struct {
	Image  driver.Image
	View   driver.ImageView
	Pass   driver.RenderPass
	FB     driver.Framebuf
	Res    int
	Proj   linear.M4
	ViewM  linear.M4
}

// Build allocates one Map per shadow-casting spotlight in lights.
func Build(gpu driver.GPU, lights []*scene.Light) ([]*Map, error) {
	var maps []*Map
	for _, l := range lights {
		if l.Kind != scene.Spot || !l.Shadow {
			continue
		}
		m, err := buildOne(gpu, l)
		if err != nil {
			return nil, err
		}
		maps = append(maps, m)
	}
	return maps, nil
}

func buildOne(gpu driver.GPU, l *scene.Light) (*Map, error) {
	res := l.Res
	if res < 1 {
		res = 512
	}

	img, err := gpu.NewImage(driver.D32f, driver.Dim3D{Width: res, Height: res, Depth: 1}, 1, 1, 1, driver.URenderTarget|driver.UShaderSample)
	if err != nil {
		return nil, err
	}
	view, err := img.NewView(driver.IView2D, 0, 1, 0, 1)
	if err != nil {
		return nil, err
	}
	pass, err := gpu.NewRenderPass(
		[]driver.Attachment{{Format: driver.D32f, Samples: 1, Load: [2]driver.LoadOp{driver.LClear}, Store: [2]driver.StoreOp{driver.SStore}}},
		[]driver.Subpass{{DS: 0}},
	)
	if err != nil {
		return nil, err
	}
	fb, err := pass.NewFB([]driver.ImageView{view}, res, res, 1)
	if err != nil {
		return nil, err
	}

	m := &Map{Image: img, View: view, Pass: pass, FB: fb, Res: res}
	m.Update(l)
	return m, nil
}

// Update recomputes the light's view/projection from its current
// world pose. far is the light's reach (Limit for sphere/spot; a
// generous default for a sun, which has no Limit of its own).
func (m *Map) Update(l *scene.Light) {
	far := l.Limit
	if far <= 0 {
		far = 1000
	}
	center := l.Position
	var fwd linear.V3
	fwd.Add(&center, &l.Forward)
	up := linear.V3{0, 1, 0}
	m.ViewM.LookAt(&l.Position, &fwd, &up)

	fov := l.Fov
	if fov <= 0 {
		fov = 1.2
	}
	m.Proj.Perspective(fov, 1, maxf(l.Radius, 0.05), far)
}

// VisibleMeshes returns the meshes whose Visible list is non-empty,
// the subset the caller should issue depth-only draws for.
func VisibleMeshes(meshes []*mesh.Mesh) []*mesh.Mesh {
	var out []*mesh.Mesh
	for _, m := range meshes {
		if len(m.Visible) > 0 {
			out = append(out, m)
		}
	}
	return out
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
