// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package envmap implements the offline environment-map
// pre-integrator: it loads an RGBE-encoded cube map, extracts a
// bright-pixel importance list, and runs the Lambertian and GGX
// Monte-Carlo passes (plus the split-sum BRDF table) that feed the
// scene engine's image-based lighting materials.
package envmap

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	math32 "github.com/chewxy/math32"

	"s72engine/linear"
)

// Face identifies one of the six cube map faces. The fixed order
// (matching the on-disk vertical strip and every face-axis table in
// this package) is Right, Left, Front, Back, Up, Down.
type Face int

// The six faces, in on-disk order.
const (
	Right Face = iota
	Left
	Front
	Back
	Up
	Down
	faceCount
)

// CubeMap is a loaded or computed cube map: six square faces of
// linear-space radiance, stored row-major within each face.
type CubeMap struct {
	Size  int
	Faces [faceCount][]linear.V3
}

// NewCubeMap allocates a zeroed cube map of the given face size.
func NewCubeMap(size int) *CubeMap {
	cm := &CubeMap{Size: size}
	for f := range cm.Faces {
		cm.Faces[f] = make([]linear.V3, size*size)
	}
	return cm
}

// At returns the radiance stored at (u, v) on face f.
func (cm *CubeMap) At(f Face, u, v int) linear.V3 {
	return cm.Faces[f][v*cm.Size+u]
}

// Set stores c at (u, v) on face f.
func (cm *CubeMap) Set(f Face, u, v int, c linear.V3) {
	cm.Faces[f][v*cm.Size+u] = c
}

// Load reads a PNG storing six square faces stacked vertically
// (height = 6 × width), RGBE-encoded, and decodes it
// into linear-space radiance.
func Load(path string) (*CubeMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("envmap: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("envmap: %s: %w", path, err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if h != 6*w {
		return nil, fmt.Errorf("envmap: %s: expected height = 6×width, got %dx%d", path, w, h)
	}

	// Copy through NRGBA (unassociated alpha) regardless of the
	// decoder's native representation, since the alpha byte here is
	// the RGBE exponent, not a real coverage value, and must survive
	// untouched by any premultiplication.
	raw := image.NewNRGBA(b)
	draw.Draw(raw, b, img, b.Min, draw.Src)

	cm := NewCubeMap(w)
	for face := 0; face < int(faceCount); face++ {
		rowBase := face * w
		for v := 0; v < w; v++ {
			for u := 0; u < w; u++ {
				x, y := b.Min.X+u, b.Min.Y+rowBase+v
				i := raw.PixOffset(x, y)
				px := raw.Pix[i : i+4 : i+4]
				cm.Set(Face(face), u, v, decodeRGBE(px[0], px[1], px[2], px[3]))
			}
		}
	}
	return cm, nil
}

// Save encodes cm as RGBE and writes it as a vertical six-face PNG
// strip, the inverse of Load.
func (cm *CubeMap) Save(path string) error {
	w := cm.Size
	img := image.NewNRGBA(image.Rect(0, 0, w, 6*w))
	for face := 0; face < int(faceCount); face++ {
		rowBase := face * w
		for v := 0; v < w; v++ {
			for u := 0; u < w; u++ {
				r, g, b, e := encodeRGBE(cm.At(Face(face), u, v))
				i := img.PixOffset(u, rowBase+v)
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, e
			}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("envmap: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("envmap: %s: %w", path, err)
	}
	return nil
}

// decodeRGBE converts a shared-exponent RGBE pixel to linear
// radiance: radiance = (c+0.5)/256 · 2^(e−128) per channel, with the
// all-zero pixel mapping to zero.
func decodeRGBE(r, g, b, e byte) linear.V3 {
	if r == 0 && g == 0 && b == 0 && e == 0 {
		return linear.V3{}
	}
	exp := int(e) - 128
	return linear.V3{
		math32.Ldexp((float32(r)+0.5)/256, exp),
		math32.Ldexp((float32(g)+0.5)/256, exp),
		math32.Ldexp((float32(b)+0.5)/256, exp),
	}
}

// encodeRGBE converts linear radiance c to a shared-exponent RGBE
// pixel: the shared exponent is pulled from frexp(max channel);
// values with max channel ≤ 10⁻³² encode to the zero pixel; an
// exponent beyond the single-byte range clamps to solid white.
func encodeRGBE(c linear.V3) (r, g, b, e byte) {
	d := maxComponent(c)
	if d <= 1e-32 {
		return 0, 0, 0, 0
	}
	mant, exp := math32.Frexp(d)
	if exp > 127 {
		return 0xff, 0xff, 0xff, 0xff
	}
	fac := 255.999 * (mant / d)
	return clampRGBEByte(c[0] * fac), clampRGBEByte(c[1] * fac), clampRGBEByte(c[2] * fac), byte(exp + 128)
}

func clampRGBEByte(v float32) byte {
	i := int32(v)
	if i < 0 {
		i = 0
	}
	if i > 255 {
		i = 255
	}
	return byte(i)
}

func maxComponent(c linear.V3) float32 {
	m := c[0]
	if c[1] > m {
		m = c[1]
	}
	if c[2] > m {
		m = c[2]
	}
	return m
}
