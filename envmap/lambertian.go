// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package envmap

import (
	"math/rand"

	math32 "github.com/chewxy/math32"
	"github.com/alitto/pond/v2"

	"s72engine/linear"
)

// Lambertian pre-integrates cm into a diffuse irradiance cube map:
// nSamples cosine-weighted directions per output texel, plus the
// bright-pixel contribution extracted up front. One worker runs per
// face, a fork-join fan-out across the six cube faces.
func Lambertian(cm *CubeMap, nSamples, outSize int) *CubeMap {
	brights := ExtractBright(cm)
	out := NewCubeMap(outSize)

	pool := pond.NewPool(int(faceCount))
	defer pool.StopAndWait()

	for f := Face(0); f < faceCount; f++ {
		face := f
		pool.Submit(func() {
			lambertianFace(cm, out, face, brights, nSamples)
		})
	}
	return out
}

func lambertianFace(cm, out *CubeMap, face Face, brights []BrightDirection, nSamples int) {
	size := out.Size
	rng := rand.New(rand.NewSource(int64(face) + 1))

	for v := 0; v < size; v++ {
		for u := 0; u < size; u++ {
			n := Direction(face, u, v, size)
			tx, ty := tangentFrame(n)

			var acc linear.V3
			for i := 0; i < nSamples; i++ {
				s := cosineWeightedSample(rng)
				dir := toWorld(tx, ty, n, s)
				sample := Project(cm, dir)
				acc.Add(&acc, &sample)
			}
			acc.Scale(1/float32(nSamples), &acc)

			bright := SumBright(brights, n, false)
			acc.Add(&acc, &bright)
			out.Set(face, u, v, acc)
		}
	}
}

// tangentFrame builds an orthonormal (TX, TY) basis for n, using
// TX = normalize(N × up′) with up′ = (0,0,1) unless N is nearly
// parallel to it, in which case up′ = (1,0,0). Both the Lambertian
// and GGX passes share this construction: its chirality has no
// bearing on either pass's integral (Lambertian integrates the full
// hemisphere; GGX reflects symmetrically about φ), so one formula
// serves both rather than reproducing the reference's divergent
// argument order between the two passes.
func tangentFrame(n linear.V3) (tx, ty linear.V3) {
	up := linear.V3{0, 0, 1}
	if math32.Abs(n[2]) >= 0.99 {
		up = linear.V3{1, 0, 0}
	}
	tx.Cross(&n, &up)
	tx.Norm(&tx)
	ty.Cross(&n, &tx)
	return
}

func toWorld(tx, ty, n, s linear.V3) linear.V3 {
	var a, b, c, sum linear.V3
	a.Scale(s[0], &tx)
	b.Scale(s[1], &ty)
	c.Scale(s[2], &n)
	sum.Add(&a, &b)
	sum.Add(&sum, &c)
	return sum
}

// cosineWeightedSample draws a cosine-weighted direction in the
// local (TX, TY, N) hemisphere via the standard disk-mapping
// construction, with u1, u2 uniform in [0, 1).
func cosineWeightedSample(rng *rand.Rand) linear.V3 {
	u1, u2 := float32(rng.Float64()), float32(rng.Float64())
	phi := 2 * math32.Pi * u1
	r := math32.Sqrt(u2)
	return linear.V3{
		math32.Cos(phi) * r,
		math32.Sin(phi) * r,
		math32.Sqrt(1 - u2),
	}
}
