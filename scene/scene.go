// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package scene turns a parsed s72 document into a live scene graph:
// a DAG of transform nodes built on node.Graph's node-arena, a mesh
// store with per-mesh instance lists rebuilt every frame, a material
// registry partitioning meshes by shader variant, and the
// camera/light/driver tables the render loop walks.
package scene

import (
	"fmt"

	"s72engine/linear"
	"s72engine/material"
	"s72engine/mesh"
	"s72engine/node"
	"s72engine/parse"
)

// meshInstance binds a mesh-store slot to the graph node whose world
// matrix supplies one of its instances, refreshed every frame.
type meshInstance struct {
	meshIdx int
	gnode   node.Node
}

// Graph is a fully resolved scene: nodes, meshes, materials, cameras,
// lights and drivers, ready to be stepped and rendered.
type Graph struct {
	g node.Graph

	nodesByDoc  map[int]*sceneNode
	gnodeByDoc  map[int]node.Node
	meshDocToIdx map[int]int
	matDocToIdx  map[int]int

	Meshes    []*mesh.Mesh
	Materials *material.Registry
	Cameras   []*Camera
	Lights    []*Light
	drivers   []*AnimDriver

	instances []meshInstance

	animTime float32
}

// New returns an empty graph, kept for callers that build one up
// without a document (e.g. headless synthetic scenes in tests).
func New() *Graph {
	g := &Graph{
		nodesByDoc: make(map[int]*sceneNode),
		gnodeByDoc: make(map[int]node.Node),
		Materials:  material.NewRegistry(),
	}
	var identity linear.M4
	identity.I()
	g.g.SetWorld(identity)
	return g
}

// Build parses a full s72 document into a Graph. dir is the
// document's directory, used to resolve relative texture/mesh paths.
func Build(dir string, doc *parse.Node) (*Graph, error) {
	if doc.Kind != parse.KArray || len(doc.Arr) == 0 || doc.Index(0).String() != "s72-v1" {
		return nil, fmt.Errorf("scene: not an s72-v1 document")
	}

	g := New()

	sceneDocIdx := -1
	for i := 1; i < len(doc.Arr); i++ {
		if doc.Index(i).Field("type").String() == "SCENE" {
			sceneDocIdx = i
			break
		}
	}
	if sceneDocIdx < 0 {
		return nil, fmt.Errorf("scene: no SCENE element")
	}

	roots := doc.Index(sceneDocIdx).Field("roots")
	for i := 0; i < len(roots.Arr); i++ {
		idx := int(roots.Index(i).Number())
		if err := g.buildNode(dir, doc, idx, node.Nil); err != nil {
			return nil, err
		}
	}

	for i := 1; i < len(doc.Arr); i++ {
		el := doc.Index(i)
		if el.Field("type").String() != "DRIVER" {
			continue
		}
		d, err := loadDriver(el)
		if err != nil {
			return nil, err
		}
		g.drivers = append(g.drivers, d)
		sn, ok := g.nodesByDoc[d.TargetDocIdx]
		if !ok {
			continue
		}
		switch d.Channel {
		case ChanTranslation:
			sn.driverT = d
		case ChanRotation:
			sn.driverR = d
		case ChanScale:
			sn.driverS = d
		}
	}

	return g, nil
}

// buildNode recursively resolves docIdx (a NODE element) and its
// children, inserting one node.Graph entry per NODE and registering
// any MESH/CAMERA/LIGHT it references.
func (g *Graph) buildNode(dir string, doc *parse.Node, docIdx int, parent node.Node) error {
	el := doc.Index(docIdx)
	if el.Field("type").String() != "NODE" {
		return fmt.Errorf("scene: element %d is not a NODE", docIdx)
	}

	sn := newSceneNode(&g.animTime)
	if tr := el.Field("translation"); tr != nil {
		for i := 0; i < 3 && i < len(tr.Arr); i++ {
			sn.translation[i] = float32(tr.Index(i).Number())
		}
	}
	if sc := el.Field("scale"); sc != nil {
		for i := 0; i < 3 && i < len(sc.Arr); i++ {
			sn.scale[i] = float32(sc.Index(i).Number())
		}
	} else {
		sn.scale = linear.V3{1, 1, 1}
	}
	if rot := el.Field("rotation"); rot != nil && len(rot.Arr) == 4 {
		sn.rotation = linear.Q{
			V: linear.V3{
				float32(rot.Index(0).Number()),
				float32(rot.Index(1).Number()),
				float32(rot.Index(2).Number()),
			},
			R: float32(rot.Index(3).Number()),
		}
	} else {
		sn.rotation = linear.QI()
	}

	gn := g.g.Insert(sn, parent)
	g.nodesByDoc[docIdx] = sn
	g.gnodeByDoc[docIdx] = gn

	if mr := el.Field("mesh"); mr != nil {
		meshDocIdx := int(mr.Number())
		meshIdx, err := g.loadMeshOnce(dir, doc, meshDocIdx)
		if err != nil {
			return err
		}
		g.instances = append(g.instances, meshInstance{meshIdx: meshIdx, gnode: gn})
	}
	if cr := el.Field("camera"); cr != nil {
		camDocIdx := int(cr.Number())
		cam := loadCamera(doc.Index(camDocIdx))
		cam.Node = gn
		g.Cameras = append(g.Cameras, cam)
	}
	if lr := el.Field("light"); lr != nil {
		lightDocIdx := int(lr.Number())
		l := loadLight(doc.Index(lightDocIdx))
		l.Node = gn
		g.Lights = append(g.Lights, l)
	}

	children := el.Field("children")
	for i := 0; i < len(children.Arr); i++ {
		childIdx := int(children.Index(i).Number())
		if err := g.buildNode(dir, doc, childIdx, gn); err != nil {
			return err
		}
	}
	return nil
}

// loadMeshOnce loads the MESH element at meshDocIdx the first time
// it is referenced and reuses the same store slot for every later
// NODE that references it, so repeated references become instances
// of one mesh rather than duplicate loads.
func (g *Graph) loadMeshOnce(dir string, doc *parse.Node, meshDocIdx int) (int, error) {
	if g.meshDocToIdx == nil {
		g.meshDocToIdx = make(map[int]int)
	}
	if idx, ok := g.meshDocToIdx[meshDocIdx]; ok {
		return idx, nil
	}
	el := doc.Index(meshDocIdx)
	m, err := mesh.Load(dir, el)
	if err != nil {
		return -1, fmt.Errorf("scene: mesh %d: %w", meshDocIdx, err)
	}
	idx := len(g.Meshes)
	g.Meshes = append(g.Meshes, m)
	g.meshDocToIdx[meshDocIdx] = idx

	if mr := el.Field("material"); mr != nil {
		matDocIdx := int(mr.Number())
		matIdx, err := g.loadMaterialOnce(dir, doc, matDocIdx)
		if err != nil {
			return -1, err
		}
		m.Material = matIdx
		g.Materials.AssignMesh(matIdx, idx)
	} else {
		m.Material = -1
	}
	return idx, nil
}

func (g *Graph) loadMaterialOnce(dir string, doc *parse.Node, matDocIdx int) (int, error) {
	if g.matDocToIdx == nil {
		g.matDocToIdx = make(map[int]int)
	}
	if idx, ok := g.matDocToIdx[matDocIdx]; ok {
		return idx, nil
	}
	idx, err := g.Materials.Load(dir, doc.Index(matDocIdx))
	if err != nil {
		return -1, err
	}
	g.matDocToIdx[matDocIdx] = idx
	return idx, nil
}

// SetTime advances the animation clock to t seconds, used both by
// the interactive wall-clock loop and by headless event-script
// playback (the time base is a property of the graph, not of
// whichever camera happens to be rendering, so switching to the
// Debug camera never perturbs animation).
func (g *Graph) SetTime(t float32) { g.animTime = t }

// Step re-walks the whole graph with world reset to identity,
// recomputing every node's world matrix and repopulating each mesh's
// instance list from the refreshed transforms. node.Graph.Update
// normally tracks per-node Changed() state for incremental walks,
// but every sceneNode here reports Changed() unconditionally (its
// output depends on the animation clock, which moves every frame),
// so the walk always recomputes the whole tree: the dirty-tracking
// optimization degenerates to a full rebuild by construction,
// matching a per-frame re-walk.
func (g *Graph) Step() {
	for _, m := range g.Meshes {
		m.Instances = m.Instances[:0]
	}
	g.g.Refresh()
	for _, inst := range g.instances {
		w := g.g.World(inst.gnode)
		g.Meshes[inst.meshIdx].Instances = append(g.Meshes[inst.meshIdx].Instances, *w)
	}
	for _, c := range g.Cameras {
		if c.Node == node.Nil {
			continue
		}
		w := g.g.World(c.Node)
		c.Position = linear.V3{w[0][3], w[1][3], w[2][3]}
		c.Forward = linear.V3{-w[0][2], -w[1][2], -w[2][2]}
		c.Up = linear.V3{w[0][1], w[1][1], w[2][1]}
	}
	for _, l := range g.Lights {
		if l.Node == node.Nil {
			continue
		}
		w := g.g.World(l.Node)
		l.Position = linear.V3{w[0][3], w[1][3], w[2][3]}
		l.Forward = linear.V3{-w[0][2], -w[1][2], -w[2][2]}
	}
}
