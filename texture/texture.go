// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package texture implements the 2-D image resources bound by
// materials: either loaded from a file on disk or synthesized from
// a constant scalar/color value so that the rest of the pipeline
// always samples a texture, never a raw uniform.
package texture

import (
	"fmt"
	"image"
	"image/png"
	"math/bits"
	"os"
)

// Texture is a single RGBA8, host-resident image plus its derived
// mip count. This package only reports how many levels a full chain
// has; no backend in this module uploads textures or generates mip
// chains.
type Texture struct {
	Width, Height int
	// Pix holds interleaved RGBA8 data, Width*Height*4 bytes.
	Pix []byte
}

// MipCount returns ⌊log₂(max(w,h))⌋+1, the number of mip levels a
// full chain for this texture's extent requires.
func (t *Texture) MipCount() int {
	m := t.Width
	if t.Height > m {
		m = t.Height
	}
	if m < 1 {
		return 1
	}
	return bits.Len(uint(m))
}

// FromScalar returns a 1×1 texture holding the given RGBA color,
// components in [0, 1]. Scalar material parameters are normalized
// to textures this way so the sampling path is uniform across every
// variant regardless of whether the source document gave a color
// or a texture reference.
func FromScalar(r, g, b, a float32) *Texture {
	return &Texture{
		Width:  1,
		Height: 1,
		Pix: []byte{
			clampByte(r), clampByte(g), clampByte(b), clampByte(a),
		},
	}
}

func clampByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v * 255)
}

// Load decodes a PNG file from path into an RGBA8 texture.
func Load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", path, err)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				rgba.Set(x, y, img.At(x, y))
			}
		}
	}
	return &Texture{Width: w, Height: h, Pix: rgba.Pix}, nil
}
