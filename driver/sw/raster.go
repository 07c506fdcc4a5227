package sw

import (
	"encoding/binary"
	"math"

	"s72engine/driver"
)

// rasterTriangle fills a single triangle given in NDC space
// (x, y in [-1, 1], z in [0, 1]) into the color and depth images,
// using simple barycentric interpolation for color and depth.
// Backface culling and perspective-correct attribute interpolation
// are deliberately omitted: this backend exists to produce
// deterministic reference pixels for headless capture, not to
// emulate a GPU's fixed-function pipeline faithfully.
func rasterTriangle(color *image, colorLyr, colorLvl int, depth *image, depthLyr, depthLvl int, vp driver.Viewport, sciss driver.Scissor, p0, p1, p2 [3]float32, c0, c1, c2 [4]float32) {
	if color == nil && depth == nil {
		return
	}
	w, h := 0, 0
	if color != nil {
		w, h = color.levelSize(colorLvl)
	} else {
		w, h = depth.levelSize(depthLvl)
	}
	if vp.Width > 0 {
		w = int(vp.Width)
	}
	if vp.Height > 0 {
		h = int(vp.Height)
	}

	toScreen := func(p [3]float32) (x, y, z float32) {
		x = (p[0]*0.5 + 0.5) * float32(w)
		y = (1 - (p[1]*0.5 + 0.5)) * float32(h)
		z = p[2]
		return
	}
	x0, y0, z0 := toScreen(p0)
	x1, y1, z1 := toScreen(p1)
	x2, y2, z2 := toScreen(p2)

	minX := int(math.Floor(float64(min3(x0, x1, x2))))
	maxX := int(math.Ceil(float64(max3(x0, x1, x2))))
	minY := int(math.Floor(float64(min3(y0, y1, y2))))
	maxY := int(math.Ceil(float64(max3(y0, y1, y2))))

	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > w {
		maxX = w
	}
	if maxY > h {
		maxY = h
	}
	if sciss.Width > 0 {
		if sciss.X > minX {
			minX = sciss.X
		}
		if sciss.Y > minY {
			minY = sciss.Y
		}
		if sciss.X+sciss.Width < maxX {
			maxX = sciss.X + sciss.Width
		}
		if sciss.Y+sciss.Height < maxY {
			maxY = sciss.Y + sciss.Height
		}
	}

	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5
			w0 := edge(x1, y1, x2, y2, px, py)
			w1 := edge(x2, y2, x0, y0, px, py)
			w2 := edge(x0, y0, x1, y1, px, py)
			if area < 0 {
				if w0 > 0 || w1 > 0 || w2 > 0 {
					continue
				}
			} else if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			b0, b1, b2 := w0/area, w1/area, w2/area
			z := b0*z0 + b1*z1 + b2*z2
			if depth != nil {
				if !depthTestAndWrite(depth, depthLyr, depthLvl, x, y, z) {
					continue
				}
			}
			if color != nil {
				r := b0*c0[0] + b1*c1[0] + b2*c2[0]
				g := b0*c0[1] + b1*c1[1] + b2*c2[1]
				bl := b0*c0[2] + b1*c1[2] + b2*c2[2]
				a := b0*c0[3] + b1*c1[3] + b2*c2[3]
				writeColor(color, colorLyr, colorLvl, x, y, r, g, bl, a)
			}
		}
	}
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (px-ax)*(by-ay) - (py-ay)*(bx-ax)
}

func min3(a, b, c float32) float32 {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

func max3(a, b, c float32) float32 {
	if a > b {
		if a > c {
			return a
		}
		return c
	}
	if b > c {
		return b
	}
	return c
}

func depthTestAndWrite(depth *image, layer, level, x, y int, z float32) bool {
	w, _ := depth.levelSize(level)
	psize := depth.format.Size()
	if psize < 1 {
		psize = 4
	}
	off := (y*w + x) * psize
	data := depth.pix[layer][level]
	if off+psize > len(data) {
		return false
	}
	var cur float32
	switch depth.format {
	case driver.D32f:
		cur = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
	default:
		cur = float32(binary.LittleEndian.Uint16(data[off:])) / 65535
	}
	if z >= cur {
		return false
	}
	switch depth.format {
	case driver.D32f:
		binary.LittleEndian.PutUint32(data[off:], math.Float32bits(z))
	default:
		binary.LittleEndian.PutUint16(data[off:], uint16(clamp01(z)*65535))
	}
	return true
}

func writeColor(color *image, layer, level, x, y int, r, g, b, a float32) {
	w, _ := color.levelSize(level)
	psize := color.format.Size()
	if psize < 1 {
		psize = 4
	}
	off := (y*w + x) * psize
	data := color.pix[layer][level]
	if off+4 > len(data) {
		return
	}
	data[off] = byte(clamp01(r) * 255)
	data[off+1] = byte(clamp01(g) * 255)
	data[off+2] = byte(clamp01(b) * 255)
	data[off+3] = byte(clamp01(a) * 255)
}
