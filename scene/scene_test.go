// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"s72engine/parse"
)

func writeVerts(t *testing.T, dir, name string) {
	t.Helper()
	const stride = 52
	buf := make([]byte, 3*stride)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), buf, 0o644))
}

func TestBuildNestedTranslation(t *testing.T) {
	dir := t.TempDir()
	writeVerts(t, dir, "v.bin")

	doc := []byte(`["s72-v1",
		{"type": "SCENE", "name": "s", "roots": [2]},
		{"type": "NODE", "name": "parent", "translation": [1, 0, 0], "children": [3]},
		{"type": "NODE", "name": "child", "translation": [0, 1, 0], "mesh": 4},
		{"type": "MESH", "name": "tri", "topology": "TRIANGLE_LIST", "count": 3,
			"attributes": {
				"POSITION": {"src": "v.bin", "offset": 0, "stride": 52, "format": "R32G32B32_SFLOAT"},
				"NORMAL": {"src": "v.bin", "offset": 12, "stride": 52, "format": "R32G32B32_SFLOAT"},
				"COLOR": {"src": "v.bin", "offset": 48, "stride": 52, "format": "R8G8B8A8_UNORM"}
			}}
	]`)
	root, err := parse.Parse(doc)
	require.NoError(t, err)

	g, err := Build(dir, root)
	require.NoError(t, err)
	require.Len(t, g.Meshes, 1)

	g.Step()
	require.Len(t, g.Meshes[0].Instances, 1)
	w := g.Meshes[0].Instances[0]
	require.InDelta(t, 1, w[0][3], 1e-5)
	require.InDelta(t, 1, w[1][3], 1e-5)
	require.InDelta(t, 0, w[2][3], 1e-5)
}

func TestMeshInstancingSharesStoreSlot(t *testing.T) {
	dir := t.TempDir()
	writeVerts(t, dir, "v.bin")

	doc := []byte(`["s72-v1",
		{"type": "SCENE", "name": "s", "roots": [2, 3]},
		{"type": "NODE", "name": "a", "mesh": 4},
		{"type": "NODE", "name": "b", "translation": [5, 0, 0], "mesh": 4},
		{"type": "MESH", "name": "tri", "topology": "TRIANGLE_LIST", "count": 3,
			"attributes": {
				"POSITION": {"src": "v.bin", "offset": 0, "stride": 52, "format": "R32G32B32_SFLOAT"},
				"NORMAL": {"src": "v.bin", "offset": 12, "stride": 52, "format": "R32G32B32_SFLOAT"},
				"COLOR": {"src": "v.bin", "offset": 48, "stride": 52, "format": "R8G8B8A8_UNORM"}
			}}
	]`)
	root, err := parse.Parse(doc)
	require.NoError(t, err)

	g, err := Build(dir, root)
	require.NoError(t, err)
	require.Len(t, g.Meshes, 1)

	g.Step()
	require.Len(t, g.Meshes[0].Instances, 2)
}

func TestDriverOverridesTranslation(t *testing.T) {
	dir := t.TempDir()

	doc := []byte(`["s72-v1",
		{"type": "SCENE", "name": "s", "roots": [2]},
		{"type": "NODE", "name": "n"},
		{"type": "DRIVER", "node": 2, "channel": "translation", "interpolation": "LINEAR",
			"times": [0, 1], "values": [0, 0, 0, 10, 0, 0]}
	]`)
	root, err := parse.Parse(doc)
	require.NoError(t, err)

	g, err := Build(dir, root)
	require.NoError(t, err)

	g.SetTime(0.5)
	g.Step()
	w := g.g.World(g.gnodeByDoc[2])
	require.InDelta(t, 5, w[0][3], 1e-4)
}
