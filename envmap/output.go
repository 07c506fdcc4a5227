// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package envmap

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
)

// stripExt drops path's extension, the common stem every output
// file name in this package is built from.
func stripExt(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

// LambertianPath returns the output path for a Lambertian
// irradiance map baked from src: "<src>_lam.png".
func LambertianPath(src string) string { return stripExt(src) + "_lam.png" }

// MipPath returns the output path for a GGX roughness tier baked
// from src: "<src>_ggx_<mip>.png".
func MipPath(src string, mip int) string {
	return fmt.Sprintf("%s_ggx_%d.png", stripExt(src), mip)
}

// BRDFPath returns the output path for the split-sum BRDF table
// baked from src.
func BRDFPath(src string) string { return stripExt(src) + "_ggx_brdf.png" }

// SaveMips writes each of mips' roughness tiers to its MipPath.
func SaveMips(mips [mipCount]*CubeMap, src string) error {
	for i, m := range mips {
		if err := m.Save(MipPath(src, i)); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the 10×10 BRDF table as an RGB PNG with a zeroed blue
// channel, A in the red channel and B in the green channel.
func (t *BRDFTable) Save(path string) error {
	img := image.NewNRGBA(image.Rect(0, 0, mipCount, mipCount))
	for i := 0; i < mipCount; i++ {
		for j := 0; j < mipCount; j++ {
			off := img.PixOffset(j, i)
			img.Pix[off] = clampRGBEByte(255 * t.A[i][j])
			img.Pix[off+1] = clampRGBEByte(255 * t.B[i][j])
			img.Pix[off+2] = 0
			img.Pix[off+3] = 255
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
