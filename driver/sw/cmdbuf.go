package sw

import (
	"encoding/binary"
	"errors"
	"math"

	"s72engine/driver"
)

// vertexInput binds a single interleaved attribute stream.
type vertexInput struct {
	format driver.VertexFmt
	stride int
	buf    *buffer
	off    int64
}

type cmdBuffer struct {
	gpu *GPU

	recording bool
	recordErr error

	pass    *renderPass
	fb      *framebuf
	subpass int

	pl       *pipeline
	viewport driver.Viewport
	scissor  driver.Scissor

	vin   [16]vertexInput
	vinN  int
	idx   *buffer
	idxFmt driver.IndexFmt
	idxOff int64

	descTab   *descTable
	heapCopy  []int
}

func (c *cmdBuffer) Destroy() {}

func (c *cmdBuffer) Begin() error {
	*c = cmdBuffer{gpu: c.gpu, recording: true}
	return nil
}

func (c *cmdBuffer) BeginPass(pass driver.RenderPass, fb driver.Framebuf, clear []driver.ClearValue) {
	rp, ok := pass.(*renderPass)
	if !ok {
		c.recordErr = errors.New("sw: foreign RenderPass")
		return
	}
	f, ok := fb.(*framebuf)
	if !ok {
		c.recordErr = errors.New("sw: foreign Framebuf")
		return
	}
	c.pass = rp
	c.fb = f
	c.subpass = 0
	for i, att := range rp.att {
		if i >= len(f.views) {
			break
		}
		if att.Load[0] != driver.LClear && att.Load[1] != driver.LClear {
			continue
		}
		if i >= len(clear) {
			continue
		}
		clearView(f.views[i], clear[i], att)
	}
}

func (c *cmdBuffer) NextSubpass() { c.subpass++ }
func (c *cmdBuffer) EndPass()     { c.pass, c.fb = nil, nil }

func (c *cmdBuffer) BeginWork(wait bool) {}
func (c *cmdBuffer) EndWork()            {}
func (c *cmdBuffer) BeginBlit(wait bool) {}
func (c *cmdBuffer) EndBlit()            {}

func (c *cmdBuffer) SetPipeline(pl driver.Pipeline) {
	p, ok := pl.(*pipeline)
	if !ok {
		c.recordErr = errors.New("sw: foreign Pipeline")
		return
	}
	c.pl = p
}

func (c *cmdBuffer) SetViewport(vp []driver.Viewport) {
	if len(vp) > 0 {
		c.viewport = vp[0]
	}
}

func (c *cmdBuffer) SetScissor(sciss []driver.Scissor) {
	if len(sciss) > 0 {
		c.scissor = sciss[0]
	}
}

func (c *cmdBuffer) SetBlendColor(r, g, b, a float32) {}
func (c *cmdBuffer) SetStencilRef(value uint32)       {}

func (c *cmdBuffer) SetVertexInput(input []driver.VertexIn) {
	c.vinN = len(input)
	for i, in := range input {
		if i >= len(c.vin) {
			break
		}
		c.vin[i].format = in.Format
		c.vin[i].stride = in.Stride
	}
}

func (c *cmdBuffer) SetVertexBuf(start int, buf []driver.Buffer, off []int64) {
	for i := range buf {
		idx := start + i
		if idx >= len(c.vin) {
			continue
		}
		b, ok := buf[i].(*buffer)
		if !ok {
			c.recordErr = errors.New("sw: foreign Buffer")
			return
		}
		c.vin[idx].buf = b
		c.vin[idx].off = off[i]
	}
}

func (c *cmdBuffer) SetIndexBuf(format driver.IndexFmt, buf driver.Buffer, off int64) {
	b, ok := buf.(*buffer)
	if !ok {
		c.recordErr = errors.New("sw: foreign Buffer")
		return
	}
	c.idx = b
	c.idxFmt = format
	c.idxOff = off
}

func (c *cmdBuffer) SetDescTableGraph(table driver.DescTable, start int, heapCopy []int) {
	t, ok := table.(*descTable)
	if !ok {
		c.recordErr = errors.New("sw: foreign DescTable")
		return
	}
	c.descTab = t
	c.heapCopy = heapCopy
}

func (c *cmdBuffer) SetDescTableComp(table driver.DescTable, start int, heapCopy []int) {
	c.SetDescTableGraph(table, start, heapCopy)
}

func (c *cmdBuffer) Draw(vertCount, instCount, baseVert, baseInst int) {
	for i := 0; i < instCount; i++ {
		c.drawInstance(nil, vertCount, baseVert, baseInst+i)
	}
}

func (c *cmdBuffer) DrawIndexed(idxCount, instCount, baseIdx, vertOff, baseInst int) {
	idx := c.readIndices(baseIdx, idxCount)
	for i := 0; i < instCount; i++ {
		c.drawInstance(idx, idxCount, vertOff, baseInst+i)
	}
}

func (c *cmdBuffer) readIndices(baseIdx, count int) []int {
	out := make([]int, count)
	sz := int(c.idxFmt)
	base := c.idxOff + int64(baseIdx*sz)
	data := c.idx.Bytes()
	for i := 0; i < count; i++ {
		off := base + int64(i*sz)
		switch c.idxFmt {
		case driver.Index16:
			out[i] = int(binary.LittleEndian.Uint16(data[off:]))
		default:
			out[i] = int(binary.LittleEndian.Uint32(data[off:]))
		}
	}
	return out
}

// drawInstance rasterizes a single instance's triangles.
// It assumes position (binding 0) already holds NDC coordinates
// (x, y in [-1, 1], z in [0, 1]); no vertex transform is applied here.
func (c *cmdBuffer) drawInstance(idx []int, count, base, instance int) {
	if c.fb == nil || c.pass == nil || c.pl == nil || c.vinN == 0 {
		return
	}
	sub := driver.Subpass{DS: -1}
	if c.subpass < len(c.pass.sub) {
		sub = c.pass.sub[c.subpass]
	}
	var colorImg, depthImg *image
	var colorLyr, colorLvl, depthLyr, depthLvl int
	if len(sub.Color) > 0 && sub.Color[0] < len(c.fb.views) {
		v := c.fb.views[sub.Color[0]]
		colorImg, colorLyr, colorLvl = v.img, v.layer, v.level
	}
	if sub.DS >= 0 && sub.DS < len(c.fb.views) {
		v := c.fb.views[sub.DS]
		depthImg, depthLyr, depthLvl = v.img, v.layer, v.level
	}
	tint := c.constantTint(instance)

	fetch := func(n int) (pos [3]float32, col [4]float32, ok bool) {
		v := n
		if idx != nil {
			if n >= len(idx) {
				return
			}
			v = idx[n]
		}
		v += base
		p, hasPos := c.readVec(0, v)
		if !hasPos {
			return
		}
		col = tint
		if cc, hasCol := c.readVec(4, v); hasCol {
			col = cc
		}
		return [3]float32{p[0], p[1], p[2]}, col, true
	}

	for t := 0; t+2 < count; t += 3 {
		p0, c0, ok0 := fetch(t)
		p1, c1, ok1 := fetch(t + 1)
		p2, c2, ok2 := fetch(t + 2)
		if !ok0 || !ok1 || !ok2 {
			continue
		}
		rasterTriangle(colorImg, colorLyr, colorLvl, depthImg, depthLyr, depthLvl, c.viewport, c.scissor, p0, p1, p2, c0, c1, c2)
	}
}

// readVec reads a float vector (up to 4 components) for vertex v
// from the binding registered at the given semantic index.
func (c *cmdBuffer) readVec(binding, v int) (out [4]float32, ok bool) {
	if binding >= c.vinN {
		return
	}
	in := c.vin[binding]
	if in.buf == nil {
		return
	}
	n := vertexFmtComponents(in.format)
	if n == 0 {
		return
	}
	data := in.buf.Bytes()
	off := in.off + int64(v*in.stride)
	if off < 0 || int(off)+n*4 > len(data) {
		return
	}
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(data[int(off)+i*4:])
		out[i] = math.Float32frombits(bits)
	}
	ok = true
	return
}

func vertexFmtComponents(f driver.VertexFmt) int {
	switch f {
	case driver.Float32:
		return 1
	case driver.Float32x2:
		return 2
	case driver.Float32x3:
		return 3
	case driver.Float32x4:
		return 4
	default:
		return 0
	}
}

// constantTint reads a flat RGBA color from descriptor slot 0
// (the convention the material package uses for its per-material
// constant buffer) for the given heap copy, defaulting to white.
func (c *cmdBuffer) constantTint(instance int) [4]float32 {
	tint := [4]float32{1, 1, 1, 1}
	if c.descTab == nil || len(c.descTab.heaps) == 0 {
		return tint
	}
	h := c.descTab.heaps[0]
	cpy := 0
	if instance < len(c.heapCopy) {
		cpy = c.heapCopy[instance]
	} else if len(c.heapCopy) > 0 {
		cpy = c.heapCopy[0]
	}
	if cpy >= len(h.buffers) || len(h.buffers[cpy]) == 0 {
		return tint
	}
	bufs := h.buffers[cpy][0]
	if len(bufs) == 0 {
		return tint
	}
	b, ok := bufs[0].(*buffer)
	if !ok {
		return tint
	}
	off := int64(0)
	if len(h.bufOff[cpy][0]) > 0 {
		off = h.bufOff[cpy][0][0]
	}
	data := b.Bytes()
	if int(off)+16 > len(data) {
		return tint
	}
	for i := 0; i < 4; i++ {
		bits := binary.LittleEndian.Uint32(data[int(off)+i*4:])
		tint[i] = math.Float32frombits(bits)
	}
	return tint
}

func (c *cmdBuffer) Dispatch(grpCountX, grpCountY, grpCountZ int) {}

func (c *cmdBuffer) CopyBuffer(param *driver.BufferCopy) {
	from, ok1 := param.From.(*buffer)
	to, ok2 := param.To.(*buffer)
	if !ok1 || !ok2 {
		c.recordErr = errors.New("sw: foreign Buffer")
		return
	}
	copy(to.data[param.ToOff:param.ToOff+param.Size], from.data[param.FromOff:param.FromOff+param.Size])
}

func (c *cmdBuffer) CopyImage(param *driver.ImageCopy) {
	from, ok1 := param.From.(*image)
	to, ok2 := param.To.(*image)
	if !ok1 || !ok2 {
		c.recordErr = errors.New("sw: foreign Image")
		return
	}
	copy(to.pix[param.ToLayer][param.ToLevel], from.pix[param.FromLayer][param.FromLevel])
}

func (c *cmdBuffer) CopyBufToImg(param *driver.BufImgCopy) {
	buf, ok1 := param.Buf.(*buffer)
	img, ok2 := param.Img.(*image)
	if !ok1 || !ok2 {
		c.recordErr = errors.New("sw: foreign resource")
		return
	}
	dst := img.pix[param.Layer][param.Level]
	src := buf.Bytes()[param.BufOff:]
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst, src[:n])
}

func (c *cmdBuffer) CopyImgToBuf(param *driver.BufImgCopy) {
	buf, ok1 := param.Buf.(*buffer)
	img, ok2 := param.Img.(*image)
	if !ok1 || !ok2 {
		c.recordErr = errors.New("sw: foreign resource")
		return
	}
	src := img.pix[param.Layer][param.Level]
	dst := buf.Bytes()[param.BufOff:]
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	copy(dst, src[:n])
}

func (c *cmdBuffer) Fill(buf driver.Buffer, off int64, value byte, size int64) {
	b, ok := buf.(*buffer)
	if !ok {
		c.recordErr = errors.New("sw: foreign Buffer")
		return
	}
	region := b.data[off : off+size]
	for i := range region {
		region[i] = value
	}
}

func (c *cmdBuffer) Barrier(b []driver.Barrier)         {}
func (c *cmdBuffer) Transition(t []driver.Transition)   {}

func (c *cmdBuffer) End() error {
	c.recording = false
	return c.recordErr
}

func (c *cmdBuffer) Reset() error {
	*c = cmdBuffer{gpu: c.gpu}
	return nil
}

func clearView(v *imageView, cv driver.ClearValue, att driver.Attachment) {
	img := v.img
	for l := v.level; l < v.level+v.nLvl; l++ {
		for layer := v.layer; layer < v.layer+v.nLyr; layer++ {
			data := img.pix[layer][l]
			if att.Format.IsDepth() {
				clearDepth(img.format, data, cv.Depth)
			} else {
				clearColor(data, cv.Color)
			}
		}
	}
}

func clearColor(data []byte, c [4]float32) {
	r := byte(clamp01(c[0]) * 255)
	g := byte(clamp01(c[1]) * 255)
	b := byte(clamp01(c[2]) * 255)
	a := byte(clamp01(c[3]) * 255)
	for i := 0; i+3 < len(data); i += 4 {
		data[i] = r
		data[i+1] = g
		data[i+2] = b
		data[i+3] = a
	}
}

func clearDepth(pf driver.PixelFmt, data []byte, d float32) {
	switch pf {
	case driver.D32f:
		bits := math.Float32bits(d)
		for i := 0; i+3 < len(data); i += 4 {
			binary.LittleEndian.PutUint32(data[i:], bits)
		}
	default:
		v := uint16(clamp01(d) * 65535)
		for i := 0; i+1 < len(data); i += 2 {
			binary.LittleEndian.PutUint16(data[i:], v)
		}
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
