// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package envmap

import (
	"sort"

	"s72engine/linear"
)

// brightPixel is a single extracted high-energy texel, tagged with
// its location so the extraction pass can zero the source after
// recording it.
type brightPixel struct {
	weight   float32
	face     Face
	u, v     int
}

// BrightDirection is a pre-integrated point light synthesized from a
// bright cube-map texel: a direction and the radiance it contributes
// once the solid angle it covers has been folded in.
type BrightDirection struct {
	Dir   linear.V3
	Light linear.V3
}

// ExtractBright scans every texel of cm, keeps the top
// min(size²·6, 10000) by max channel as bright directions (weighted
// by the uniform solid-angle approximation 4π/(6·size²)), and zeroes
// each retained texel in cm so the later Monte-Carlo passes do not
// double-count it.
func ExtractBright(cm *CubeMap) []BrightDirection {
	total := cm.Size * cm.Size * int(faceCount)
	keep := total
	if keep > 10000 {
		keep = 10000
	}

	pixels := make([]brightPixel, 0, total)
	for face := Face(0); face < faceCount; face++ {
		for v := 0; v < cm.Size; v++ {
			for u := 0; u < cm.Size; u++ {
				pixels = append(pixels, brightPixel{
					weight: maxComponent(cm.At(face, u, v)),
					face:   face, u: u, v: v,
				})
			}
		}
	}
	sort.Slice(pixels, func(i, j int) bool { return pixels[i].weight > pixels[j].weight })

	solidAngle := float32(4*3.14159265) / float32(6*cm.Size*cm.Size)

	out := make([]BrightDirection, keep)
	for i := 0; i < keep; i++ {
		p := pixels[i]
		dir := Direction(p.face, p.u, p.v, cm.Size)
		light := cm.At(p.face, p.u, p.v)
		light.Scale(solidAngle, &light)
		out[i] = BrightDirection{Dir: dir, Light: light}
		cm.Set(p.face, p.u, p.v, linear.V3{})
	}
	return out
}

// SumBright returns Σ light_i · max(0, d·N_i) over brights, the
// contribution of every pre-extracted bright texel toward the
// incoming direction d. When gated is true (the GGX pass), only
// texels within a narrow cone (cosθ > 0.995) of d contribute, each
// still weighted by the same cosine kernel.
func SumBright(brights []BrightDirection, d linear.V3, gated bool) linear.V3 {
	var sum linear.V3
	for _, bd := range brights {
		cos := bd.Dir.Dot(&d)
		if gated {
			if cos <= 0.995 {
				continue
			}
			var term linear.V3
			term.Scale(clamp01(cos), &bd.Light)
			sum.Add(&sum, &term)
			continue
		}
		if cos <= 0 {
			continue
		}
		var term linear.V3
		term.Scale(cos, &bd.Light)
		sum.Add(&sum, &term)
	}
	return sum
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
