// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package runtime wires the scene graph, frustum culler, shadow
// maps and material registry into the per-frame update/render path
// described by the render loop, and drives its three execution
// modes: interactive (wsi), headless event-script playback, and
// performance measurement. It owns every GPU resource the render
// loop allocates once (targets, pipelines, descriptor tables) plus
// the per-mesh scratch buffers used to transform vertices into NDC
// space on the CPU before each draw, since driver/sw's rasterizer
// has no vertex shader stage of its own.
package runtime

import (
	"encoding/binary"
	"fmt"
	"math"

	"s72engine/cull"
	"s72engine/driver"
	_ "s72engine/driver/sw"
	"s72engine/linear"
	"s72engine/material"
	"s72engine/mesh"
	"s72engine/node"
	"s72engine/parse"
	"s72engine/scene"
	"s72engine/shadow"
)

// Engine owns the GPU resources and per-frame state needed to
// render a loaded scene.Graph.
type Engine struct {
	drv   driver.Driver
	GPU   driver.GPU
	Graph *scene.Graph

	Width, Height int
	Culling       cull.Mode

	color     driver.Image
	colorView driver.ImageView
	depth     driver.Image
	depthView driver.ImageView
	pass      driver.RenderPass
	fb        driver.Framebuf

	pipelines      [material.PBR + 1]driver.Pipeline
	tintHeap       driver.DescHeap
	tintTable      driver.DescTable
	tintBuf        driver.Buffer
	defaultTintIdx int

	shadowLights    []*scene.Light
	shadowMaps      []*shadow.Map
	shadowPipelines []driver.Pipeline

	scratch    map[*mesh.Mesh]driver.Buffer
	idxScratch map[*mesh.Mesh]driver.Buffer

	UserCam, DebugCam *scene.Camera
}

// Open opens the named driver (e.g. "software"), parses and builds
// doc into a scene graph, and allocates every GPU resource the
// render loop reuses frame to frame.
func Open(driverName, dir string, doc *parse.Node, width, height int, culling cull.Mode) (*Engine, error) {
	drv, gpu, err := driver.OpenNamed(driverName)
	if err != nil {
		return nil, err
	}

	g, err := scene.Build(dir, doc)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		drv: drv, GPU: gpu, Graph: g,
		Width: width, Height: height, Culling: culling,
		scratch:    make(map[*mesh.Mesh]driver.Buffer),
		idxScratch: make(map[*mesh.Mesh]driver.Buffer),
	}
	e.addSyntheticCameras()

	if err := e.buildTargets(); err != nil {
		return nil, err
	}
	if err := e.buildPipelines(); err != nil {
		return nil, err
	}

	for _, l := range g.Lights {
		if l.Kind == scene.Spot && l.Shadow {
			e.shadowLights = append(e.shadowLights, l)
		}
	}
	e.shadowMaps, err = shadow.Build(gpu, e.shadowLights)
	if err != nil {
		return nil, err
	}
	if err := e.buildShadowPipelines(); err != nil {
		return nil, err
	}

	return e, nil
}

// Close releases the driver, making its GPU unusable.
func (e *Engine) Close() { e.drv.Close() }

// addSyntheticCameras appends the User and Debug free-fly cameras
// the CLI's --camera flag can select; scene.Graph.Step skips
// refreshing the pose of any Camera whose Node is node.Nil, so
// their Position/Forward/Up stay exactly as set here until a caller
// moves them explicitly (e.g. interactive free-fly input).
func (e *Engine) addSyntheticCameras() {
	aspect := float32(e.Width) / float32(e.Height)
	mk := func(name string) *scene.Camera {
		return &scene.Camera{
			Name: name, VFov: 1, Aspect: aspect, Near: 0.1, Far: 1000,
			Node:     node.Nil,
			Position: linear.V3{0, 0, 5},
			Forward:  linear.V3{0, 0, -1},
			Up:       linear.V3{0, 1, 0},
		}
	}
	e.UserCam = mk("User")
	e.DebugCam = mk("Debug")
	e.Graph.Cameras = append(e.Graph.Cameras, e.UserCam, e.DebugCam)
}

// CameraByName returns the named camera (document camera, User or
// Debug), or an error if none matches.
func (e *Engine) CameraByName(name string) (*scene.Camera, error) {
	for _, c := range e.Graph.Cameras {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("runtime: no camera named %q", name)
}

// buildTargets allocates the color (RGBA8un) and depth (D32f) main
// pass targets, their render pass and framebuffer.
func (e *Engine) buildTargets() error {
	color, err := e.GPU.NewImage(driver.RGBA8un, driver.Dim3D{Width: e.Width, Height: e.Height, Depth: 1}, 1, 1, 1, driver.URenderTarget|driver.UShaderSample)
	if err != nil {
		return fmt.Errorf("runtime: color target: %w", err)
	}
	colorView, err := color.NewView(driver.IView2D, 0, 1, 0, 1)
	if err != nil {
		return err
	}
	depth, err := e.GPU.NewImage(driver.D32f, driver.Dim3D{Width: e.Width, Height: e.Height, Depth: 1}, 1, 1, 1, driver.URenderTarget)
	if err != nil {
		return fmt.Errorf("runtime: depth target: %w", err)
	}
	depthView, err := depth.NewView(driver.IView2D, 0, 1, 0, 1)
	if err != nil {
		return err
	}
	pass, err := e.GPU.NewRenderPass(
		[]driver.Attachment{
			{Format: driver.RGBA8un, Samples: 1, Load: [2]driver.LoadOp{driver.LClear}, Store: [2]driver.StoreOp{driver.SStore}},
			{Format: driver.D32f, Samples: 1, Load: [2]driver.LoadOp{driver.LClear}, Store: [2]driver.StoreOp{driver.SStore}},
		},
		[]driver.Subpass{{Color: []int{0}, DS: 1}},
	)
	if err != nil {
		return err
	}
	fb, err := pass.NewFB([]driver.ImageView{colorView, depthView}, e.Width, e.Height, 1)
	if err != nil {
		return err
	}
	e.color, e.colorView = color, colorView
	e.depth, e.depthView = depth, depthView
	e.pass, e.fb = pass, fb
	return nil
}

// buildPipelines creates one graphics pipeline per material
// variant, all sharing the main color/depth pass, plus the
// per-material constant-color descriptor table driver/sw's
// constantTint convention reads as a flat-shading fallback in the
// absence of a real fragment shader.
func (e *Engine) buildPipelines() error {
	code, err := e.GPU.NewShaderCode([]byte("s72engine/flat"))
	if err != nil {
		return err
	}
	vert := driver.ShaderFunc{Code: code, Name: "vertex"}
	frag := driver.ShaderFunc{Code: code, Name: "fragment"}

	heap, err := e.GPU.NewDescHeap([]driver.Descriptor{{Type: driver.DConstant, Stages: driver.SFragment, Nr: 0, Len: 1}})
	if err != nil {
		return err
	}
	// One extra slot past the registry's own materials holds a flat
	// white tint, bound for MESH elements with no "material" key
	// (§6 lists material as optional) so they still shade instead of
	// vanishing from the main pass.
	nMat := len(e.Graph.Materials.Materials)
	e.defaultTintIdx = nMat
	total := nMat + 1
	if err := heap.New(total); err != nil {
		return err
	}
	buf, err := e.GPU.NewBuffer(int64(total)*16, true, driver.UShaderConst)
	if err != nil {
		return err
	}
	for i, m := range e.Graph.Materials.Materials {
		off := int64(i) * 16
		putColor(buf.Bytes()[off:off+16], materialTint(m))
		heap.SetBuffer(i, 0, 0, []driver.Buffer{buf}, []int64{off}, []int64{16})
	}
	defOff := int64(e.defaultTintIdx) * 16
	putColor(buf.Bytes()[defOff:defOff+16], [4]float32{1, 1, 1, 1})
	heap.SetBuffer(e.defaultTintIdx, 0, 0, []driver.Buffer{buf}, []int64{defOff}, []int64{16})
	table, err := e.GPU.NewDescTable([]driver.DescHeap{heap})
	if err != nil {
		return err
	}
	e.tintHeap, e.tintTable, e.tintBuf = heap, table, buf

	raster := driver.RasterState{Cull: driver.CNone, Fill: driver.FFill}
	ds := driver.DSState{DepthTest: true, DepthWrite: true, DepthCmp: driver.CLess}
	blend := driver.BlendState{Color: []driver.ColorBlend{{WriteMask: driver.CAll}}}

	for v := material.Simple; v <= material.PBR; v++ {
		state := &driver.GraphState{
			VertFunc: vert, FragFunc: frag, Desc: table,
			Topology: driver.TTriangle, Raster: raster, Samples: 1,
			DS: ds, Blend: blend, Pass: e.pass, Subpass: 0,
		}
		pl, err := e.GPU.NewPipeline(state)
		if err != nil {
			return fmt.Errorf("runtime: pipeline for variant %s: %w", v, err)
		}
		e.pipelines[v] = pl
	}
	return nil
}

// buildShadowPipelines creates one depth-only pipeline per shadow
// map, since GraphState.Pass/Subpass bind a pipeline to a specific
// render pass and each Map in shadow.Build owns its own pass.
func (e *Engine) buildShadowPipelines() error {
	if len(e.shadowMaps) == 0 {
		return nil
	}
	code, err := e.GPU.NewShaderCode([]byte("s72engine/depth"))
	if err != nil {
		return err
	}
	vert := driver.ShaderFunc{Code: code, Name: "vertex"}
	e.shadowPipelines = make([]driver.Pipeline, len(e.shadowMaps))
	for i, sm := range e.shadowMaps {
		state := &driver.GraphState{
			VertFunc: vert,
			Topology: driver.TTriangle,
			Raster:   driver.RasterState{Cull: driver.CNone, Fill: driver.FFill},
			Samples:  1,
			DS:       driver.DSState{DepthTest: true, DepthWrite: true, DepthCmp: driver.CLess},
			Pass:     sm.Pass,
			Subpass:  0,
		}
		pl, err := e.GPU.NewPipeline(state)
		if err != nil {
			return err
		}
		e.shadowPipelines[i] = pl
	}
	return nil
}

// materialTint picks the flat RGBA color driver/sw's fixed-function
// rasterizer shades a material's fragments with: the albedo's (or,
// for Environment/Mirror, a neutral white) top-left texel, since the
// backend has no shader to actually sample a texture per-fragment.
func materialTint(m *material.Material) [4]float32 {
	tex := m.Albedo
	if tex == nil {
		return [4]float32{1, 1, 1, 1}
	}
	if len(tex.Pix) < 4 {
		return [4]float32{1, 1, 1, 1}
	}
	return [4]float32{
		float32(tex.Pix[0]) / 255,
		float32(tex.Pix[1]) / 255,
		float32(tex.Pix[2]) / 255,
		float32(tex.Pix[3]) / 255,
	}
}

func putColor(dst []byte, c [4]float32) {
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(c[i]))
	}
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func writeFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// scratchFor returns the per-mesh host-visible buffer used to hold
// one instance's worth of CPU-transformed vertex data, allocating
// it (sized to the mesh's full interleaved buffer) on first use.
func (e *Engine) scratchFor(m *mesh.Mesh) (driver.Buffer, error) {
	if b, ok := e.scratch[m]; ok {
		return b, nil
	}
	b, err := e.GPU.NewBuffer(int64(len(m.Data)), true, driver.UVertexData)
	if err != nil {
		return nil, err
	}
	e.scratch[m] = b
	return b, nil
}

func (e *Engine) indexBufFor(m *mesh.Mesh) (driver.Buffer, error) {
	if m.Indices == nil {
		return nil, nil
	}
	if b, ok := e.idxScratch[m]; ok {
		return b, nil
	}
	b, err := e.GPU.NewBuffer(int64(len(m.Indices)), true, driver.UIndexData)
	if err != nil {
		return nil, err
	}
	copy(b.Bytes(), m.Indices)
	e.idxScratch[m] = b
	return b, nil
}

// transformPositions restores m's original (model-space) vertex
// data into data and overwrites only the position lane of each
// vertex with its mvp-transformed NDC coordinates, the CPU stand-in
// for a vertex shader that driver/sw's drawInstance requires
// (position must already be in NDC space before a draw).
func transformPositions(data []byte, m *mesh.Mesh, mvp *linear.M4) {
	copy(data, m.Data)
	off := m.Attrs[mesh.Position].Offset
	for i := 0; i < m.Count; i++ {
		base := i*m.Stride + off
		var p linear.V3
		for c := 0; c < 3; c++ {
			p[c] = readFloat32(data[base+c*4:])
		}
		ndc := mvp.MulV3(&p)
		for c := 0; c < 3; c++ {
			writeFloat32(data[base+c*4:], ndc[c])
		}
	}
}

// drawMesh records one draw per visible instance of m, CPU-transforming
// its positions into NDC space with viewProj*world immediately before
// each draw.
func (e *Engine) drawMesh(cb driver.CmdBuffer, m *mesh.Mesh, viewProj *linear.M4) error {
	if len(m.Visible) == 0 {
		return nil
	}
	buf, err := e.scratchFor(m)
	if err != nil {
		return err
	}
	inputs := m.VertexInputs()
	cb.SetVertexInput(inputs)

	bufs := make([]driver.Buffer, len(inputs))
	offs := make([]int64, len(inputs))
	for i, in := range inputs {
		bufs[i] = buf
		offs[i] = int64(m.Attrs[in.Nr].Offset)
	}

	idxBuf, err := e.indexBufFor(m)
	if err != nil {
		return err
	}
	if idxBuf != nil {
		cb.SetIndexBuf(m.IndexFmt, idxBuf, 0)
	}

	for _, instIdx := range m.Visible {
		world := m.Instances[instIdx]
		var mvp linear.M4
		mvp.Mul(viewProj, &world)
		transformPositions(buf.Bytes(), m, &mvp)

		cb.SetVertexBuf(0, bufs, offs)
		if idxBuf != nil {
			cb.DrawIndexed(m.IdxCount, 1, 0, 0, 0)
		} else {
			cb.Draw(m.Count, 1, 0, 0)
		}
	}
	return nil
}

// renderShadows records one depth-only pass per shadow-casting
// light, culling nothing (every instance is a potential occluder
// regardless of camera visibility) and leaving mesh.Visible
// populated so the caller can re-cull it against the actual camera
// right after.
func (e *Engine) renderShadows(cb driver.CmdBuffer) {
	for i, sm := range e.shadowMaps {
		sm.Update(e.shadowLights[i])
		var viewProj linear.M4
		viewProj.Mul(&sm.Proj, &sm.ViewM)

		cb.BeginPass(sm.Pass, sm.FB, []driver.ClearValue{{Depth: 1}})
		cb.SetViewport([]driver.Viewport{{Width: float32(sm.Res), Height: float32(sm.Res), Zfar: 1}})
		cb.SetScissor([]driver.Scissor{{Width: sm.Res, Height: sm.Res}})
		cb.SetPipeline(e.shadowPipelines[i])
		for _, m := range e.Graph.Meshes {
			cull.FilterMesh(m, &sm.ViewM, cull.Frustum{}, cull.None)
			_ = e.drawMesh(cb, m, &viewProj)
		}
		cb.EndPass()
	}
}

// RenderFrame re-walks the scene graph, renders every shadow map,
// culls and shades the main color pass as seen by cam, and returns
// the resulting image as tightly packed RGBA8 pixels.
func (e *Engine) RenderFrame(cam *scene.Camera) ([]byte, error) {
	e.Graph.Step()

	view := cam.View()
	proj := cam.Proj()
	var viewProj linear.M4
	viewProj.Mul(&proj, &view)
	frustum := cull.Build(cam.VFov, cam.Aspect, cam.Near, cam.Far)

	cb, err := e.GPU.NewCmdBuffer()
	if err != nil {
		return nil, err
	}
	if err := cb.Begin(); err != nil {
		return nil, err
	}

	e.renderShadows(cb)

	cb.BeginPass(e.pass, e.fb, []driver.ClearValue{{Color: [4]float32{0, 0, 0, 1}}, {Depth: 1}})
	cb.SetViewport([]driver.Viewport{{Width: float32(e.Width), Height: float32(e.Height), Zfar: 1}})
	cb.SetScissor([]driver.Scissor{{Width: e.Width, Height: e.Height}})

	for matIdx, m := range e.Graph.Materials.Materials {
		cb.SetPipeline(e.pipelines[m.Variant])
		cb.SetDescTableGraph(e.tintTable, 0, []int{matIdx})
		for _, meshIdx := range e.Graph.Materials.MeshesFor(matIdx) {
			msh := e.Graph.Meshes[meshIdx]
			cull.FilterMesh(msh, &view, frustum, e.Culling)
			if err := e.drawMesh(cb, msh, &viewProj); err != nil {
				return nil, err
			}
		}
	}

	// MESH elements with no "material" key belong to no registry
	// partition; shade them with the default Simple pipeline and the
	// white fallback tint rather than leaving them unshaded.
	cb.SetPipeline(e.pipelines[material.Simple])
	cb.SetDescTableGraph(e.tintTable, 0, []int{e.defaultTintIdx})
	for _, msh := range e.Graph.Meshes {
		if msh.Material != -1 {
			continue
		}
		cull.FilterMesh(msh, &view, frustum, e.Culling)
		if err := e.drawMesh(cb, msh, &viewProj); err != nil {
			return nil, err
		}
	}
	cb.EndPass()

	stage, err := e.GPU.NewBuffer(int64(e.Width*e.Height*4), true, driver.UGeneric)
	if err != nil {
		return nil, err
	}
	cb.BeginBlit(false)
	cb.CopyImgToBuf(&driver.BufImgCopy{
		Buf:    stage,
		Img:    e.color,
		Stride: [2]int64{int64(e.Width), int64(e.Height)},
		Size:   driver.Dim3D{Width: e.Width, Height: e.Height, Depth: 1},
	})
	cb.EndBlit()

	if err := cb.End(); err != nil {
		return nil, err
	}
	ch := make(chan error, 1)
	e.GPU.Commit([]driver.CmdBuffer{cb}, ch)
	if err := <-ch; err != nil {
		return nil, err
	}

	out := make([]byte, len(stage.Bytes()))
	copy(out, stage.Bytes())
	return out, nil
}
