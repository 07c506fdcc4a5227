// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package material implements the material registry: a closed,
// tagged union over the five descriptor-set layouts the rasterizer
// understands, plus the partition of meshes by the material that
// shades them so the render loop issues one pipeline bind per
// material and then iterates its meshes.
package material

import (
	"fmt"
	"path/filepath"

	"s72engine/parse"
	"s72engine/texture"
)

// Variant is the tag of a Material's descriptor-set layout.
type Variant int

// Material variants.
const (
	Simple Variant = iota
	Environment
	Mirror
	Lambertian
	PBR
)

func (v Variant) String() string {
	switch v {
	case Simple:
		return "Simple"
	case Environment:
		return "Environment"
	case Mirror:
		return "Mirror"
	case Lambertian:
		return "Lambertian"
	case PBR:
		return "PBR"
	default:
		return "invalid"
	}
}

// Material is a single material: its variant tag decides which of
// its texture fields are meaningful. The render loop dispatches on
// Variant, never on a vtable.
type Material struct {
	Name    string
	Variant Variant

	// NormalMap and DisplacementMap are carried by every variant
	// (original_source/S72Materials attaches both to all five; the
	// displacement/height map is unused by driver/sw's flat shading
	// but present so a real rasterizer can bind it for parallax).
	NormalMap       *texture.Texture
	DisplacementMap *texture.Texture

	// Albedo, Roughness, Metalness are scalar-or-texture parameters,
	// always normalized to a texture. Only the
	// variant(s) that use a given field populate it.
	Albedo    *texture.Texture
	Roughness *texture.Texture
	Metalness *texture.Texture

	// EnvIndex names the environment cube map this material samples
	// (Environment, Mirror) or the irradiance/GGX/BRDF stack it
	// samples (Lambertian, PBR). It indexes Registry.Environments.
	// -1 if the variant does not sample an environment.
	EnvIndex int
}

// Registry owns every Material loaded from a scene document and the
// partition of mesh indices by the material that shades them.
type Registry struct {
	Materials    []*Material
	Environments []string // "env-<n>" labels of referenced ENVIRONMENT nodes, indexed by EnvIndex
	byMaterial   map[int][]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byMaterial: make(map[int][]int)}
}

// Load parses a MATERIAL node (src, dir is the scene file's
// directory for resolving texture paths) and appends it to the
// registry, returning its index.
func (r *Registry) Load(dir string, n *parse.Node) (int, error) {
	name := n.Field("name").String()
	m := &Material{Name: name, EnvIndex: -1}

	if nm := n.Field("normalMap"); nm != nil {
		tex, err := loadTextureRef(dir, nm)
		if err != nil {
			return -1, fmt.Errorf("material %q: normalMap: %w", name, err)
		}
		m.NormalMap = tex
	}
	if dm := n.Field("displacementMap"); dm != nil {
		tex, err := loadTextureRef(dir, dm)
		if err != nil {
			return -1, fmt.Errorf("material %q: displacementMap: %w", name, err)
		}
		m.DisplacementMap = tex
	}

	switch {
	case n.Field("pbr") != nil:
		pbr := n.Field("pbr")
		m.Variant = PBR
		alb, err := loadColorOrTexture(dir, pbr.Field("albedo"))
		if err != nil {
			return -1, fmt.Errorf("material %q: albedo: %w", name, err)
		}
		rough, err := loadColorOrTexture(dir, pbr.Field("roughness"))
		if err != nil {
			return -1, fmt.Errorf("material %q: roughness: %w", name, err)
		}
		met, err := loadColorOrTexture(dir, pbr.Field("metalness"))
		if err != nil {
			return -1, fmt.Errorf("material %q: metalness: %w", name, err)
		}
		m.Albedo, m.Roughness, m.Metalness = alb, rough, met
		m.EnvIndex = r.envIndex(n)

	case n.Field("lambertian") != nil:
		lam := n.Field("lambertian")
		m.Variant = Lambertian
		alb, err := loadColorOrTexture(dir, lam.Field("albedo"))
		if err != nil {
			return -1, fmt.Errorf("material %q: albedo: %w", name, err)
		}
		m.Albedo = alb
		m.EnvIndex = r.envIndex(n)

	case n.Field("mirror") != nil:
		m.Variant = Mirror
		m.EnvIndex = r.envIndex(n)

	case n.Field("environment") != nil:
		m.Variant = Environment
		m.EnvIndex = r.envIndex(n)

	default:
		m.Variant = Simple
	}

	idx := len(r.Materials)
	r.Materials = append(r.Materials, m)
	return idx, nil
}

// envIndex records the environment reference a material variant
// carries. The scene document schema names the referenced ENVIRONMENT
// node as a 1-based index in a sibling field; every call appends a new
// "env-<n>" label for that index (no lookup of an earlier entry) and
// returns the label's position in Environments.
func (r *Registry) envIndex(n *parse.Node) int {
	ref := n.Field("environment")
	if ref == nil {
		return -1
	}
	idx := int(ref.Number())
	r.Environments = append(r.Environments, fmt.Sprintf("env-%d", idx))
	return len(r.Environments) - 1
}

// AssignMesh records that mesh index meshIdx is shaded by
// material index matIdx.
func (r *Registry) AssignMesh(matIdx, meshIdx int) {
	r.byMaterial[matIdx] = append(r.byMaterial[matIdx], meshIdx)
}

// MeshesFor returns the mesh indices shaded by material matIdx.
func (r *Registry) MeshesFor(matIdx int) []int {
	return r.byMaterial[matIdx]
}

func loadColorOrTexture(dir string, n *parse.Node) (*texture.Texture, error) {
	if n == nil {
		return texture.FromScalar(1, 1, 1, 1), nil
	}
	if n.Kind == parse.KArray {
		var c [4]float32
		c[3] = 1
		for i := 0; i < len(n.Arr) && i < 4; i++ {
			c[i] = float32(n.Index(i).Number())
		}
		return texture.FromScalar(c[0], c[1], c[2], c[3]), nil
	}
	if n.Kind == parse.KMap {
		return loadTextureRef(dir, n)
	}
	return texture.FromScalar(1, 1, 1, 1), nil
}

func loadTextureRef(dir string, n *parse.Node) (*texture.Texture, error) {
	src := n.Field("src").String()
	if src == "" {
		return nil, fmt.Errorf("missing src")
	}
	return texture.Load(filepath.Join(dir, src))
}
