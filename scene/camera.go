// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"s72engine/linear"
	"s72engine/node"
	"s72engine/parse"
)

// Camera is a single CAMERA node's perspective parameters plus its
// resolved world pose, refreshed every frame from the scene graph
// (or, for the synthetic User/Debug cameras, from free-fly input
// instead of a document node).
type Camera struct {
	Name              string
	VFov, Aspect      float32
	Near, Far         float32
	Node              node.Node // node.Nil for User/Debug
	Position          linear.V3
	Forward, Up       linear.V3
}

func loadCamera(n *parse.Node) *Camera {
	persp := n.Field("perspective")
	c := &Camera{
		Name:   n.Field("name").String(),
		Aspect: 16.0 / 9.0,
		Near:   0.1,
	}
	if persp != nil {
		if v := persp.Field("vfov"); v != nil {
			c.VFov = float32(v.Number())
		}
		if v := persp.Field("aspect"); v != nil {
			c.Aspect = float32(v.Number())
		}
		if v := persp.Field("near"); v != nil {
			c.Near = float32(v.Number())
		}
		if v := persp.Field("far"); v != nil {
			c.Far = float32(v.Number())
		}
	}
	c.Up = linear.V3{0, 1, 0}
	c.Forward = linear.V3{0, 0, -1}
	return c
}

// View returns the camera's view matrix for its current pose.
func (c *Camera) View() linear.M4 {
	var centerV linear.V3
	centerV.Add(&c.Position, &c.Forward)
	var m linear.M4
	m.LookAt(&c.Position, &centerV, &c.Up)
	return m
}

// Proj returns the camera's projection matrix. far <= 0 is replaced
// by a finite far plane at Near*1e5.
func (c *Camera) Proj() linear.M4 {
	var m linear.M4
	far := c.Far
	if far <= 0 {
		far = c.Near * 1e5
	}
	m.Perspective(c.VFov, c.Aspect, c.Near, far)
	return m
}
