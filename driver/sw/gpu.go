package sw

import (
	"errors"

	"s72engine/driver"
)

// GPU implements driver.GPU using host memory only.
type GPU struct {
	drv *swDriver
}

func newGPU(drv *swDriver) *GPU { return &GPU{drv} }

func (g *GPU) Driver() driver.Driver { return g.drv }

// Commit reports on ch the first recording error found in cb, in
// order, or nil if there is none. There is no actual queue: Draw/DrawIndexed already
// rasterize eagerly when recorded, so Commit's only job is to honor
// the GPU.Commit contract that command buffers become reusable
// only once execution "completes".
func (g *GPU) Commit(cb []driver.CmdBuffer, ch chan<- error) {
	var err error
	for _, c := range cb {
		if sc, ok := c.(*cmdBuffer); ok && sc.recordErr != nil {
			err = sc.recordErr
			break
		}
	}
	if ch != nil {
		ch <- err
	}
}

func (g *GPU) NewCmdBuffer() (driver.CmdBuffer, error) {
	return &cmdBuffer{gpu: g}, nil
}

func (g *GPU) NewRenderPass(att []driver.Attachment, sub []driver.Subpass) (driver.RenderPass, error) {
	a := make([]driver.Attachment, len(att))
	copy(a, att)
	s := make([]driver.Subpass, len(sub))
	copy(s, sub)
	return &renderPass{a, s}, nil
}

func (g *GPU) NewShaderCode(data []byte) (driver.ShaderCode, error) {
	d := make([]byte, len(data))
	copy(d, data)
	return &shaderCode{d}, nil
}

func (g *GPU) NewDescHeap(ds []driver.Descriptor) (driver.DescHeap, error) {
	return newDescHeap(ds), nil
}

func (g *GPU) NewDescTable(dh []driver.DescHeap) (driver.DescTable, error) {
	heaps := make([]*descHeap, len(dh))
	for i, h := range dh {
		sh, ok := h.(*descHeap)
		if !ok {
			return nil, errors.New("sw: foreign DescHeap")
		}
		heaps[i] = sh
	}
	return &descTable{heaps}, nil
}

func (g *GPU) NewPipeline(state any) (driver.Pipeline, error) {
	switch s := state.(type) {
	case *driver.GraphState:
		return &pipeline{graph: s}, nil
	case *driver.CompState:
		return &pipeline{comp: s}, nil
	default:
		return nil, errors.New("sw: NewPipeline: unexpected state type")
	}
}

func (g *GPU) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	if size <= 0 {
		return nil, errors.New("sw: NewBuffer: size must be positive")
	}
	return &buffer{make([]byte, size)}, nil
}

func (g *GPU) NewImage(pf driver.PixelFmt, size driver.Dim3D, layers, levels, samples int, usg driver.Usage) (driver.Image, error) {
	if size.Width < 1 || size.Height < 1 {
		return nil, errors.New("sw: NewImage: invalid size")
	}
	return newImage(pf, size, layers, levels), nil
}

func (g *GPU) NewSampler(spln *driver.Sampling) (driver.Sampler, error) {
	return &sampler{*spln}, nil
}

func (g *GPU) Limits() driver.Limits {
	return driver.Limits{
		MaxImage1D:        8192,
		MaxImage2D:        8192,
		MaxImageCube:      8192,
		MaxImage3D:        2048,
		MaxLayers:         2048,
		MaxDescHeaps:      8,
		MaxDBuffer:        64,
		MaxDImage:         64,
		MaxDConstant:      64,
		MaxDTexture:       64,
		MaxDSampler:       64,
		MaxDBufferRange:   1 << 30,
		MaxDConstantRange: 1 << 16,
		MaxColorTargets:   8,
		MaxFBSize:         [2]int{8192, 8192},
		MaxFBLayers:       2048,
		MaxPointSize:      64,
		MaxViewports:      16,
		MaxVertexIn:       16,
		MaxFragmentIn:     16,
		MaxDispatch:       [3]int{65535, 65535, 65535},
	}
}
