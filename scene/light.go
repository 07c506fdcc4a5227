// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"s72engine/linear"
	"s72engine/node"
	"s72engine/parse"
)

// LightKind is the tag of a LIGHT node's light model.
type LightKind int

// Light kinds.
const (
	Sun LightKind = iota
	Sphere
	Spot
)

// Light is a single LIGHT node: its kind decides which parameters
// are meaningful, mirroring Material's closed-sum dispatch.
type Light struct {
	Kind LightKind
	Tint linear.V3

	Angle    float32 // sun: angular diameter, radians
	Strength float32 // sun: irradiance; sphere/spot: radiant power

	Radius float32 // sphere, spot
	Limit  float32 // sphere, spot: max reach

	Fov   float32 // spot
	Blend float32 // spot: edge falloff fraction

	Shadow bool
	Res    int // shadow map resolution, if Shadow

	Node node.Node

	Position linear.V3
	Forward  linear.V3
}

func loadLight(n *parse.Node) *Light {
	l := &Light{Tint: linear.V3{1, 1, 1}, Strength: 1}
	if tint := n.Field("tint"); tint != nil {
		for i := 0; i < 3 && i < len(tint.Arr); i++ {
			l.Tint[i] = float32(tint.Index(i).Number())
		}
	}

	switch {
	case n.Field("sun") != nil:
		sun := n.Field("sun")
		l.Kind = Sun
		l.Angle = numOr(sun.Field("angle"), 0)
		l.Strength = numOr(sun.Field("strength"), 1)
	case n.Field("sphere") != nil:
		sp := n.Field("sphere")
		l.Kind = Sphere
		l.Radius = numOr(sp.Field("radius"), 0)
		l.Strength = numOr(sp.Field("power"), 1)
		l.Limit = numOr(sp.Field("limit"), 0)
	case n.Field("spot") != nil:
		sp := n.Field("spot")
		l.Kind = Spot
		l.Radius = numOr(sp.Field("radius"), 0)
		l.Strength = numOr(sp.Field("power"), 1)
		l.Limit = numOr(sp.Field("limit"), 0)
		l.Fov = numOr(sp.Field("fov"), 1)
		l.Blend = numOr(sp.Field("blend"), 0)
	}

	if sh := n.Field("shadow"); sh != nil {
		l.Shadow = true
		l.Res = int(sh.Number())
	}
	l.Forward = linear.V3{0, 0, -1}
	return l
}

func numOr(n *parse.Node, def float32) float32 {
	if n == nil {
		return def
	}
	return float32(n.Number())
}
