// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package mesh implements the mesh store: it loads a MESH node's
// binary vertex payload, normalizes its attribute layout, computes
// its AABB, and tracks the per-frame instance/visibility lists that
// the scene graph and frustum culler populate.
package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"s72engine/driver"
	"s72engine/linear"
	"s72engine/parse"
)

// Format identifies the GPU format of a vertex or index attribute.
type Format int

// Vertex/index formats named in the scene document schema.
const (
	FInvalid Format = iota
	FR32G32B32Sfloat
	FR32G32B32A32Sfloat
	FR32G32Sfloat
	FR8G8B8A8Unorm
)

// ErrFormat is returned when a document names an unrecognized
// topology or attribute format string.
var ErrFormat = errors.New("mesh: unknown format")

func formatFromString(s string) (Format, error) {
	switch s {
	case "R32G32B32_SFLOAT":
		return FR32G32B32Sfloat, nil
	case "R32G32B32A32_SFLOAT":
		return FR32G32B32A32Sfloat, nil
	case "R32G32_SFLOAT":
		return FR32G32Sfloat, nil
	case "R8G8B8A8_UNORM":
		return FR8G8B8A8Unorm, nil
	default:
		return FInvalid, fmt.Errorf("%w: %q", ErrFormat, s)
	}
}

// Size returns the size in bytes of a single value in format f.
func (f Format) Size() int {
	switch f {
	case FR32G32B32Sfloat:
		return 12
	case FR32G32B32A32Sfloat:
		return 16
	case FR32G32Sfloat:
		return 8
	case FR8G8B8A8Unorm:
		return 4
	default:
		return 0
	}
}

// VertexFmt maps f to the driver's vertex-input format enum.
func (f Format) VertexFmt() driver.VertexFmt {
	switch f {
	case FR32G32B32Sfloat:
		return driver.Float32x3
	case FR32G32B32A32Sfloat:
		return driver.Float32x4
	case FR32G32Sfloat:
		return driver.Float32x2
	case FR8G8B8A8Unorm:
		return driver.UInt8x4
	default:
		return driver.Float32
	}
}

// Attr identifies which vertex attribute a descriptor names.
type Attr int

// The five attribute slots every Mesh carries, in storage order
// once the mesh store has normalized the layout.
const (
	Position Attr = iota
	Normal
	Tangent
	TexCoord
	Color
	attrCount
)

// AttrDesc describes where and how an attribute is packed in the
// interleaved vertex buffer.
type AttrDesc struct {
	Offset int
	Format Format
	// Present is false for Tangent/TexCoord when the source mesh
	// omitted them prior to synthesis; it is always true afterward.
	Present bool
}

// topologyFromString maps a scene-document topology string to the
// driver's primitive enum. *_WITH_ADJACENCY and PATCH_LIST have no
// equivalent in the abstract driver contract (it only lists point,
// line (strip) and triangle (strip) primitives) and degrade to their
// non-adjacency/non-patch counterpart.
func topologyFromString(s string) driver.Topology {
	switch s {
	case "POINT_LIST":
		return driver.TPoint
	case "LINE_LIST", "LINE_LIST_WITH_ADJACENCY":
		return driver.TLine
	case "LINE_STRIP", "LINE_STRIP_WITH_ADJACENCY":
		return driver.TLnStrip
	case "TRIANGLE_STRIP", "TRIANGLE_STRIP_WITH_ADJACENCY":
		return driver.TTriStrip
	default: // TRIANGLE_LIST, TRIANGLE_FAN, *_WITH_ADJACENCY, PATCH_LIST
		return driver.TTriangle
	}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max linear.V3
}

// Contains reports whether p lies within the box componentwise.
func (a *AABB) Contains(p *linear.V3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < a.Min[i] || p[i] > a.Max[i] {
			return false
		}
	}
	return true
}

// Mesh is a single loaded mesh: its interleaved vertex blob, its
// attribute layout, its optional index buffer, and the per-frame
// instance/visibility lists the scene graph and culler maintain.
type Mesh struct {
	Name     string
	Data     []byte
	Stride   int
	Count    int
	Topology driver.Topology
	Attrs    [attrCount]AttrDesc

	Indices   []byte
	IndexFmt  driver.IndexFmt
	IdxCount  int

	Box AABB

	// Material is the index of this mesh's material in the
	// registry, or -1 if the MESH node named none.
	Material int

	// Instances holds one world matrix per occurrence of this mesh
	// in the scene graph; it is rebuilt every frame.
	Instances []linear.M4
	// Visible holds indices into Instances that passed the active
	// culling mode; it may alias Instances directly when culling
	// is disabled.
	Visible []int
}

// Load reads a MESH node's binary vertex payload (resolved relative
// to dir, the scene file's directory) and returns a normalized Mesh.
func Load(dir string, n *parse.Node) (*Mesh, error) {
	name := n.Field("name").String()
	attrsNode := n.Field("attributes")
	if attrsNode == nil || attrsNode.Kind != parse.KMap {
		return nil, fmt.Errorf("mesh %q: missing attributes", name)
	}

	pos, stride, src, err := readAttr(attrsNode, "POSITION")
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	nrm, nstride, _, err := readAttr(attrsNode, "NORMAL")
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	if nstride != stride {
		return nil, fmt.Errorf("mesh %q: inconsistent stride across attributes", name)
	}
	var tan, tex, col AttrDesc
	var hasTan, hasTex bool
	if a, _, _, err := readAttr(attrsNode, "TANGENT"); err == nil {
		tan, hasTan = a, true
	}
	if a, _, _, err := readAttr(attrsNode, "TEXCOORD"); err == nil {
		tex, hasTex = a, true
	}
	col, cstride, _, err := readAttr(attrsNode, "COLOR")
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	if cstride != stride {
		return nil, fmt.Errorf("mesh %q: inconsistent stride across attributes", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, src))
	if err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}

	count := int(n.Field("count").Number())
	m := &Mesh{
		Name:     name,
		Topology: topologyFromString(n.Field("topology").String()),
		Count:    count,
		Material: -1,
	}
	pos.Present, nrm.Present, col.Present = true, true, true
	m.Attrs[Position], m.Attrs[Normal], m.Attrs[Color] = pos, nrm, col

	if hasTan && hasTex {
		tan.Present, tex.Present = true, true
		m.Attrs[Tangent], m.Attrs[TexCoord] = tan, tex
		m.Stride = stride
		m.Data = data[:count*stride]
	} else {
		m.synthesize(data, count, stride)
	}
	m.computeAABB()

	if idx := n.Field("indices"); idx != nil {
		if err := m.loadIndices(dir, idx); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", name, err)
		}
	}
	if mat := n.Field("material"); mat != nil {
		m.Material = int(mat.Number()) - 1
	}
	return m, nil
}

// loadIndices reads an optional {src, offset, stride, format} index
// buffer, resolved the same way as vertex attribute payloads.
func (m *Mesh) loadIndices(dir string, idx *parse.Node) error {
	src := idx.Field("src").String()
	if src == "" {
		return errors.New("indices missing src")
	}
	data, err := os.ReadFile(filepath.Join(dir, src))
	if err != nil {
		return err
	}
	switch idx.Field("format").String() {
	case "UINT32":
		m.IndexFmt = driver.Index32
	default:
		m.IndexFmt = driver.Index16
	}
	m.Indices = data
	m.IdxCount = len(data) / int(m.IndexFmt)
	return nil
}

// synthesize rebuilds the vertex buffer with a fixed 52-byte stride
// carrying zeroed tangent and texcoord lanes: position and
// normal keep their original layout, a 16-byte zero tangent and an
// 8-byte zero texcoord are inserted after normal, and color is
// relocated after them.
func (m *Mesh) synthesize(data []byte, count, srcStride int) {
	const newStride = 52
	out := make([]byte, count*newStride)
	posOff, nrmOff, colOff := m.Attrs[Position].Offset, m.Attrs[Normal].Offset, m.Attrs[Color].Offset
	posSz, nrmSz, colSz := m.Attrs[Position].Format.Size(), m.Attrs[Normal].Format.Size(), m.Attrs[Color].Format.Size()
	for i := 0; i < count; i++ {
		src := data[i*srcStride : i*srcStride+srcStride]
		dst := out[i*newStride : i*newStride+newStride]
		copy(dst[0:], src[posOff:posOff+posSz])
		copy(dst[12:], src[nrmOff:nrmOff+nrmSz])
		// dst[24:40] (tangent) and dst[40:48] (texcoord) stay zero.
		copy(dst[48:], src[colOff:colOff+colSz])
	}
	m.Stride = newStride
	m.Data = out
	m.Attrs[Position] = AttrDesc{Offset: 0, Format: m.Attrs[Position].Format, Present: true}
	m.Attrs[Normal] = AttrDesc{Offset: 12, Format: m.Attrs[Normal].Format, Present: true}
	m.Attrs[Tangent] = AttrDesc{Offset: 24, Format: FR32G32B32A32Sfloat, Present: true}
	m.Attrs[TexCoord] = AttrDesc{Offset: 40, Format: FR32G32Sfloat, Present: true}
	m.Attrs[Color] = AttrDesc{Offset: 48, Format: m.Attrs[Color].Format, Present: true}
}

// computeAABB streams through the vertex buffer once, reading only
// the position lane, tracking componentwise min/max.
func (m *Mesh) computeAABB() {
	inf := float32(math.Inf(1))
	m.Box = AABB{Min: linear.V3{inf, inf, inf}, Max: linear.V3{-inf, -inf, -inf}}
	off := m.Attrs[Position].Offset
	for i := 0; i < m.Count; i++ {
		base := i*m.Stride + off
		if base+12 > len(m.Data) {
			break
		}
		var p linear.V3
		for c := 0; c < 3; c++ {
			p[c] = readFloat32(m.Data[base+c*4:])
		}
		for c := 0; c < 3; c++ {
			if p[c] < m.Box.Min[c] {
				m.Box.Min[c] = p[c]
			}
			if p[c] > m.Box.Max[c] {
				m.Box.Max[c] = p[c]
			}
		}
	}
}

// VertexInputs returns the driver.VertexIn descriptors needed to
// bind this mesh's interleaved buffer at every attribute slot the
// mesh actually carries, one binding per attribute, per the
// dynamic-vertex-input contract in driver.CmdBuffer.SetVertexInput.
func (m *Mesh) VertexInputs() []driver.VertexIn {
	in := make([]driver.VertexIn, 0, attrCount)
	for i, a := range m.Attrs {
		if !a.Present {
			continue
		}
		in = append(in, driver.VertexIn{Format: a.Format.VertexFmt(), Stride: m.Stride, Nr: i})
	}
	return in
}

func readAttr(attrs *parse.Node, key string) (AttrDesc, int, string, error) {
	a := attrs.Field(key)
	if a == nil {
		return AttrDesc{}, 0, "", fmt.Errorf("missing attribute %q", key)
	}
	f, err := formatFromString(a.Field("format").String())
	if err != nil {
		return AttrDesc{}, 0, "", err
	}
	return AttrDesc{Offset: int(a.Field("offset").Number()), Format: f},
		int(a.Field("stride").Number()), a.Field("src").String(), nil
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
