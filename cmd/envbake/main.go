// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Command envbake pre-integrates a cube map into the look-up tables
// the scene engine's Lambertian and PBR materials sample at
// runtime: a Lambertian irradiance cube map, or a roughness-layered
// GGX specular pre-filter plus its split-sum BRDF table.
//
// Like cmd/s72render, the flag parser itself is treated as an
// external collaborator; this is the minimal boundary that decodes
// --src, --mode, --sample and --output into an envmap call.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"s72engine/envmap"
	"s72engine/internal/applog"
)

func main() {
	os.Exit(run())
}

func run() int {
	defer applog.Sync()

	var (
		src     = flag.String("src", "", "path to the input RGBE cube map PNG (required)")
		mode    = flag.String("mode", "", "Lambertian|GGX (required)")
		samples = flag.Int("sample", 1024, "Monte-Carlo sample count per output texel")
		output  = flag.Int("output", 0, "output face size in texels (0 = same as input)")
	)
	flag.Parse()

	if *src == "" {
		applog.Log().Error("--src is required")
		return 1
	}

	cm, err := envmap.Load(*src)
	if err != nil {
		applog.Log().Errorw("loading cube map", "path", *src, "error", err)
		return 1
	}

	outSize := *output
	if outSize <= 0 {
		outSize = cm.Size
	}

	switch strings.ToLower(*mode) {
	case "lambertian":
		out := envmap.Lambertian(cm, *samples, outSize)
		path := envmap.LambertianPath(*src)
		if err := out.Save(path); err != nil {
			applog.Log().Errorw("saving Lambertian map", "path", path, "error", err)
			return 1
		}
		applog.Log().Infow("wrote Lambertian irradiance map", "path", path)

	case "ggx":
		mips, brdf := envmap.GGX(cm, *samples, outSize)
		if err := envmap.SaveMips(mips, *src); err != nil {
			applog.Log().Errorw("saving GGX mips", "error", err)
			return 1
		}
		brdfPath := envmap.BRDFPath(*src)
		if err := brdf.Save(brdfPath); err != nil {
			applog.Log().Errorw("saving BRDF table", "path", brdfPath, "error", err)
			return 1
		}
		applog.Log().Infow("wrote GGX pre-filter and BRDF table", "src", *src)

	default:
		applog.Log().Errorw("unknown --mode", "value", *mode)
		fmt.Fprintln(os.Stderr, "mode must be Lambertian or GGX")
		return 1
	}
	return 0
}
