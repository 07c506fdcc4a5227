// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package envmap

import (
	math32 "github.com/chewxy/math32"
	"github.com/alitto/pond/v2"

	"s72engine/linear"
)

// mipCount is the number of roughness tiers the GGX pass emits,
// evenly spaced over [0, 1).
const mipCount = 10

// radicalInverseVdC computes the Van der Corput radical inverse of
// bits in base 2 via bit reversal, the low-discrepancy half of the
// Hammersley sequence.
func radicalInverseVdC(bits uint32) float32 {
	bits = (bits << 16) | (bits >> 16)
	bits = ((bits & 0x55555555) << 1) | ((bits & 0xAAAAAAAA) >> 1)
	bits = ((bits & 0x33333333) << 2) | ((bits & 0xCCCCCCCC) >> 2)
	bits = ((bits & 0x0F0F0F0F) << 4) | ((bits & 0xF0F0F0F0) >> 4)
	bits = ((bits & 0x00FF00FF) << 8) | ((bits & 0xFF00FF00) >> 8)
	return float32(bits) * 2.3283064365386963e-10
}

// hammersley returns the i-th point of the N-point Hammersley
// sequence: (i/N, radicalInverseVdC(i)).
func hammersley(i, n uint32) (float32, float32) {
	return float32(i) / float32(n), radicalInverseVdC(i)
}

// ggxSample draws a GGX half-vector in the local (TX, TY, N) frame
// from a Hammersley point (xi0, xi1) and the tier's roughness.
func ggxSample(xi0, xi1, roughness float32) linear.V3 {
	a := roughness * roughness
	phi := 2 * math32.Pi * xi0
	cosTheta := math32.Sqrt((1 - xi1) / (1 + (a*a-1)*xi1))
	sinTheta := math32.Sqrt(1 - cosTheta*cosTheta)
	return linear.V3{sinTheta * math32.Cos(phi), sinTheta * math32.Sin(phi), cosTheta}
}

// GGX pre-integrates cm into mipCount specular pre-filtered cube
// maps (one per roughness tier, roughness = mip/10) and the
// accompanying split-sum BRDF table. Each tier's six faces fan out
// to one worker apiece, same as Lambertian.
func GGX(cm *CubeMap, nSamples, outSize int) (mips [mipCount]*CubeMap, brdf *BRDFTable) {
	brights := ExtractBright(cm)
	brdf = &BRDFTable{}

	for mip := 0; mip < mipCount; mip++ {
		roughness := float32(mip) / mipCount
		out := NewCubeMap(outSize)

		pool := pond.NewPool(int(faceCount))
		for f := Face(0); f < faceCount; f++ {
			face := f
			pool.Submit(func() {
				ggxFace(cm, out, face, brights, nSamples, roughness)
			})
		}
		pool.StopAndWait()

		mips[mip] = out
		computeBRDFRow(brdf, mip, roughness, nSamples)
	}
	return
}

func ggxFace(cm, out *CubeMap, face Face, brights []BrightDirection, nSamples int, roughness float32) {
	size := out.Size
	for v := 0; v < size; v++ {
		for u := 0; u < size; u++ {
			n := Direction(face, u, v, size)
			tx, ty := tangentFrame(n)
			view := n

			var acc linear.V3
			var totalWeight float32
			for i := uint32(0); i < uint32(nSamples); i++ {
				xi0, xi1 := hammersley(i, uint32(nSamples))
				h := ggxSample(xi0, xi1, roughness)
				sampleDir := toWorld(tx, ty, n, h)
				sampleDir.Norm(&sampleDir)

				l := reflect(view, sampleDir)
				nol := clamp01(n.Dot(&l))
				if nol <= 0 {
					continue
				}
				sample := Project(cm, sampleDir)
				sample.Scale(nol, &sample)
				acc.Add(&acc, &sample)
				totalWeight += nol
			}
			if totalWeight > 0 {
				acc.Scale(1/totalWeight, &acc)
			}
			bright := SumBright(brights, n, true)
			acc.Add(&acc, &bright)
			out.Set(face, u, v, acc)
		}
	}
}

// reflect mirrors view about the half-vector sampleDir
// (L = 2·(V·H)·H − V, with H = sampleDir and V = view), the standard
// specular reflection used to turn a sampled half-vector into a light
// direction.
func reflect(view, sampleDir linear.V3) linear.V3 {
	var l linear.V3
	l.Scale(2*view.Dot(&sampleDir), &sampleDir)
	l.Sub(&l, &view)
	l.Norm(&l)
	return l
}

// BRDFTable is the 10×10 split-sum BRDF look-up table, indexed
// [roughness tier][N·V tier].
type BRDFTable struct {
	A, B [mipCount][mipCount]float32
}

// geometrySchlickGGX is Schlick's approximation to the one-direction
// Smith masking term, G(x) = x / (x·(1−k) + k), k = roughness²/2.
func geometrySchlickGGX(x, roughness float32) float32 {
	k := roughness * roughness / 2
	return x / (x*(1-k) + k)
}

// geometrySmith combines the view and light masking terms.
func geometrySmith(nov, nol, roughness float32) float32 {
	return geometrySchlickGGX(clampf(nov, 0, 1), roughness) * geometrySchlickGGX(clampf(nol, 0, 1), roughness)
}

// computeBRDFRow fills brdf's mip-th row: for each of the 10 N·V
// tiers, Monte-Carlo integrate the split-sum pair (A, B) with the
// same Hammersley sequence and sample count as the matching GGX
// face pass.
func computeBRDFRow(brdf *BRDFTable, mip int, roughness float32, nSamples int) {
	n := linear.V3{0, 0, 1}
	tx, ty := tangentFrame(n)

	for i := 0; i < mipCount; i++ {
		nov := float32(i) / mipCount
		view := linear.V3{math32.Sqrt(1 - nov*nov), 0, nov}

		var a, b float32
		for j := uint32(0); j < uint32(nSamples); j++ {
			xi0, xi1 := hammersley(j, uint32(nSamples))
			h := ggxSample(xi0, xi1, roughness)
			sampleDir := toWorld(tx, ty, n, h)
			sampleDir.Norm(&sampleDir)

			l := reflect(view, sampleDir)
			nol := clampf(l[2], 0, 1)
			noh := clampf(sampleDir[2], 0, 1)
			voh := clampf(view.Dot(&sampleDir), 0, 1)
			if nol <= 0 {
				continue
			}
			g := geometrySmith(nov, nol, roughness)
			gVis := (g * voh) / (noh * maxf(nov, 1e-5))
			fc := math32.Pow(1-voh, 5)
			a += (1 - fc) * gVis
			b += fc * gVis
		}
		brdf.A[mip][i] = a / float32(nSamples)
		brdf.B[mip][i] = b / float32(nSamples)
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
