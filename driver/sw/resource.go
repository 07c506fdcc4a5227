package sw

import (
	"errors"

	"s72engine/driver"
)

type buffer struct {
	data []byte
}

func (b *buffer) Destroy()        { b.data = nil }
func (b *buffer) Visible() bool   { return true }
func (b *buffer) Bytes() []byte   { return b.data }
func (b *buffer) Cap() int64      { return int64(len(b.data)) }

type image struct {
	format driver.PixelFmt
	dim    driver.Dim3D
	layers int
	levels int
	// pix holds, per layer then per level, the raw pixel
	// bytes for that level's full extent.
	pix [][][]byte
}

func newImage(pf driver.PixelFmt, size driver.Dim3D, layers, levels int) *image {
	if layers < 1 {
		layers = 1
	}
	if levels < 1 {
		levels = 1
	}
	img := &image{format: pf, dim: size, layers: layers, levels: levels}
	img.pix = make([][][]byte, layers)
	psize := pf.Size()
	if psize < 1 {
		psize = 4
	}
	for l := 0; l < layers; l++ {
		img.pix[l] = make([][]byte, levels)
		w, h := size.Width, size.Height
		for m := 0; m < levels; m++ {
			if w < 1 {
				w = 1
			}
			if h < 1 {
				h = 1
			}
			img.pix[l][m] = make([]byte, w*h*psize)
			w /= 2
			h /= 2
		}
	}
	return img
}

func (im *image) Destroy() { im.pix = nil }

func (im *image) NewView(typ driver.ViewType, layer, layers, level, levels int) (driver.ImageView, error) {
	if layer < 0 || layer+layers > im.layers || level < 0 || level+levels > im.levels {
		return nil, errors.New("sw: image view out of range")
	}
	return &imageView{im, layer, layers, level, levels}, nil
}

// levelSize returns the dimensions of a given mip level.
func (im *image) levelSize(level int) (int, int) {
	w, h := im.dim.Width, im.dim.Height
	for i := 0; i < level; i++ {
		w /= 2
		h /= 2
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

type imageView struct {
	img          *image
	layer, nLyr  int
	level, nLvl  int
}

func (v *imageView) Destroy() {}

func (v *imageView) Image() *image { return v.img }

type sampler struct {
	spln driver.Sampling
}

func (s *sampler) Destroy() {}

type shaderCode struct {
	data []byte
}

func (s *shaderCode) Destroy() {}

type renderPass struct {
	att []driver.Attachment
	sub []driver.Subpass
}

func (p *renderPass) Destroy() {}

func (p *renderPass) NewFB(iv []driver.ImageView, width, height, layers int) (driver.Framebuf, error) {
	if len(iv) != len(p.att) {
		return nil, errors.New("sw: framebuffer/attachment count mismatch")
	}
	views := make([]*imageView, len(iv))
	for i, v := range iv {
		sv, ok := v.(*imageView)
		if !ok {
			return nil, errors.New("sw: foreign ImageView")
		}
		views[i] = sv
	}
	return &framebuf{views, width, height, layers}, nil
}

type framebuf struct {
	views          []*imageView
	width, height  int
	layers         int
}

func (f *framebuf) Destroy() {}

type descHeap struct {
	desc  []driver.Descriptor
	count int
	// Per heap copy, per descriptor slot, the bound resources.
	buffers  [][][]driver.Buffer
	bufOff   [][][]int64
	bufSize  [][][]int64
	images   [][][]driver.ImageView
	samplers [][][]driver.Sampler
}

func newDescHeap(desc []driver.Descriptor) *descHeap {
	d := make([]driver.Descriptor, len(desc))
	copy(d, desc)
	return &descHeap{desc: d}
}

func (h *descHeap) Destroy() { *h = descHeap{} }

func (h *descHeap) New(n int) error {
	h.count = n
	h.buffers = make([][][]driver.Buffer, n)
	h.bufOff = make([][][]int64, n)
	h.bufSize = make([][][]int64, n)
	h.images = make([][][]driver.ImageView, n)
	h.samplers = make([][][]driver.Sampler, n)
	for i := 0; i < n; i++ {
		h.buffers[i] = make([][]driver.Buffer, len(h.desc))
		h.bufOff[i] = make([][]int64, len(h.desc))
		h.bufSize[i] = make([][]int64, len(h.desc))
		h.images[i] = make([][]driver.ImageView, len(h.desc))
		h.samplers[i] = make([][]driver.Sampler, len(h.desc))
	}
	return nil
}

func (h *descHeap) SetBuffer(cpy, nr, start int, buf []driver.Buffer, off, size []int64) {
	h.buffers[cpy][nr] = buf
	h.bufOff[cpy][nr] = off
	h.bufSize[cpy][nr] = size
}

func (h *descHeap) SetImage(cpy, nr, start int, iv []driver.ImageView) {
	h.images[cpy][nr] = iv
}

func (h *descHeap) SetSampler(cpy, nr, start int, splr []driver.Sampler) {
	h.samplers[cpy][nr] = splr
}

func (h *descHeap) Count() int { return h.count }

type descTable struct {
	heaps []*descHeap
}

func (t *descTable) Destroy() {}

type pipeline struct {
	graph *driver.GraphState
	comp  *driver.CompState
}

func (p *pipeline) Destroy() {}
