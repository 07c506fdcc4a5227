// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"s72engine/linear"
)

// sceneNode is the node.Interface implementation backing every NODE
// of a scene graph. Its local transform is recomputed from
// translation/rotation/scale on every call, with any active anim
// drivers overriding the corresponding channel before composition,
// since the animation time base changes every frame and drivers are
// read-only once parsed.
type sceneNode struct {
	translation linear.V3
	rotation    linear.Q
	scale       linear.V3

	driverT *AnimDriver
	driverR *AnimDriver
	driverS *AnimDriver

	// time points at the owning Graph's current animation time, so
	// every node samples the same tick without needing a back-
	// pointer to the Graph itself.
	time *float32

	local linear.M4
}

func newSceneNode(t *float32) *sceneNode {
	sn := &sceneNode{time: t}
	sn.scale = linear.V3{1, 1, 1}
	sn.rotation = linear.QI()
	return sn
}

// Changed always reports true: every node's local transform may
// depend on the current animation time, which advances every
// frame, so the graph is fully recomputed on every walk rather than
// tracking per-node dirtiness: the graph is fully recomputed on
// every walk.
func (n *sceneNode) Changed() bool { return true }

// Local composes S · R · T, sampling any active drivers for the
// channel they override first.
func (n *sceneNode) Local() *linear.M4 {
	t, r, s := n.translation, n.rotation, n.scale
	now := float32(0)
	if n.time != nil {
		now = *n.time
	}
	if n.driverT != nil {
		t = n.driverT.SampleV3(now)
	}
	if n.driverR != nil {
		r = n.driverR.SampleQ(now)
	}
	if n.driverS != nil {
		s = n.driverS.SampleV3(now)
	}

	var S, R, T, RT linear.M4
	S.I()
	S[0][0], S[1][1], S[2][2] = s[0], s[1], s[2]
	R.FromQuat(&r)
	T.I()
	T[0][3], T[1][3], T[2][3] = t[0], t[1], t[2]

	RT.Mul(&R, &T)
	n.local.Mul(&S, &RT)
	return &n.local
}
