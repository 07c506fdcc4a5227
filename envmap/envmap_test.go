// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package envmap

import (
	"testing"

	math32 "github.com/chewxy/math32"
	"github.com/stretchr/testify/require"

	"s72engine/linear"
)

func TestRGBERoundTrip(t *testing.T) {
	cases := []linear.V3{
		{1, 0.5, 0.25},
		{0.001, 0.002, 0.5},
		{1e-9, 1e-9, 1e-9},
		{100, 50, 1},
	}
	for _, c := range cases {
		r, g, b, e := encodeRGBE(c)
		got := decodeRGBE(r, g, b, e)
		for i := 0; i < 3; i++ {
			if c[i] == 0 {
				continue
			}
			// All three channels share one exponent, so the
			// quantization step is set by the largest channel and
			// the error is measured relative to it.
			rel := math32.Abs(got[i]-c[i]) / maxComponent(c)
			require.LessOrEqual(t, rel, float32(1.0/256), "channel %d: have %v want %v", i, got[i], c[i])
		}
	}
}

func TestRGBEZero(t *testing.T) {
	require.Equal(t, linear.V3{}, decodeRGBE(0, 0, 0, 0))
	r, g, b, e := encodeRGBE(linear.V3{0, 0, 0})
	require.Equal(t, [4]byte{0, 0, 0, 0}, [4]byte{r, g, b, e})
}

func TestCubeProjectionInverse(t *testing.T) {
	const size = 64
	dirs := []linear.V3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
		{0.3, 0.7, 0.2}, {-0.5, -0.2, 0.9},
	}
	for _, d := range dirs {
		var n linear.V3
		n.Norm(&d)
		f, u, v := ProjectCoord(n, size)
		back := Direction(f, u, v, size)

		cos := n.Dot(&back)
		if cos > 1 {
			cos = 1
		}
		angle := math32.Acos(cos)
		require.LessOrEqual(t, angle, float32(1.0/size)+1e-3)
	}
}

// TestBRDFSymmetryAtNormalIncidence checks property #9: at N·V = 1
// (view aligned with the shading normal) and roughness 0, the
// Fresnel-weighted term B integrates to ≈0, since every GGX sample
// at zero roughness falls exactly on the normal, making VoH = NoH = 1
// and Fc = (1 − VoH)⁵ = 0 for every sample.
func TestBRDFSymmetryAtNormalIncidence(t *testing.T) {
	n := linear.V3{0, 0, 1}
	view := linear.V3{0, 0, 1} // N·V = 1
	tx, ty := tangentFrame(n)

	const roughness = float32(0)
	const nSamples = 256
	var b float32
	for j := uint32(0); j < nSamples; j++ {
		xi0, xi1 := hammersley(j, nSamples)
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
		g := geometrySmith(1, nol, roughness)
		gVis := (g * voh) / (noh * maxf(1, 1e-5))
		fc := math32.Pow(1-voh, 5)
		b += fc * gVis
	}
	b /= nSamples
	require.InDelta(t, 0, b, 0.01)
}

func TestHammersleyFirstPoint(t *testing.T) {
	x, y := hammersley(0, 4)
	require.Equal(t, float32(0), x)
	require.Equal(t, float32(0), y)
}

func TestExtractBrightZeroesSource(t *testing.T) {
	cm := NewCubeMap(2)
	cm.Set(Up, 0, 0, linear.V3{1, 0, 0})
	brights := ExtractBright(cm)
	require.NotEmpty(t, brights)
	require.Equal(t, linear.V3{}, cm.At(Up, 0, 0))
}

func TestLambertianProducesFiniteOutput(t *testing.T) {
	cm := NewCubeMap(4)
	for f := Face(0); f < faceCount; f++ {
		for i := range cm.Faces[f] {
			cm.Faces[f][i] = linear.V3{0.2, 0.2, 0.2}
		}
	}
	out := Lambertian(cm, 16, 4)
	for f := Face(0); f < faceCount; f++ {
		for _, c := range out.Faces[f] {
			for i := 0; i < 3; i++ {
				require.False(t, math32.IsNaN(c[i]) || math32.IsInf(c[i], 0))
			}
		}
	}
}
