package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/svdag/internal/geom"
)

func writeOBJ(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.obj")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadOBJTriangles(t *testing.T) {
	path := writeOBJ(t, `
# a unit quad in the xz plane
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1 2/2 3/3 4/4
`)
	mesh, err := LoadOBJ(path)
	require.NoError(t, err)

	// The quad triangulates as a fan.
	require.Len(t, mesh.Triangles, 2)
	require.Equal(t, geom.Vec3{X: 0, Y: 0, Z: 0}, mesh.Triangles[0].V0)
	require.Equal(t, geom.Vec3{X: 1, Y: 0, Z: 1}, mesh.Triangles[0].V2)
	require.Equal(t, float32(1), mesh.Triangles[0].UV2.U)

	// Faces before any usemtl use the default material.
	require.Equal(t, uint32(0), mesh.Triangles[0].MaterialIndex)
	require.Equal(t, "default", mesh.Materials[0].Name)
}

func TestLoadOBJNegativeIndices(t *testing.T) {
	path := writeOBJ(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`)
	mesh, err := LoadOBJ(path)
	require.NoError(t, err)
	require.Len(t, mesh.Triangles, 1)
	require.Equal(t, geom.Vec3{X: 0, Y: 1, Z: 0}, mesh.Triangles[0].V2)
}

func TestLoadOBJErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "no triangles", content: "v 0 0 0\n"},
		{name: "short face", content: "v 0 0 0\nv 1 0 0\nf 1 2\n"},
		{name: "index out of range", content: "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n"},
		{name: "bad vertex", content: "v 0 zero 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOBJ(writeOBJ(t, tt.content))
			require.Error(t, err)
		})
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "absent.obj"))
	require.Error(t, err)
}

func TestBuildMeshFloorPlane(t *testing.T) {
	// A floor quad spanning the whole volume at y=0.
	path := writeOBJ(t, `
mtllib floor.mtl
v 0 0 0
v 8 0 0
v 8 0 8
v 0 0 8
usemtl red
f 1 2 3 4
`)
	mtl := filepath.Join(filepath.Dir(path), "floor.mtl")
	require.NoError(t, os.WriteFile(mtl, []byte(`
newmtl red
Kd 1.0 0.0 0.0
`), 0o644))

	mesh, err := LoadOBJ(path)
	require.NoError(t, err)

	b, err := New(8, 4)
	require.NoError(t, err)

	res, err := b.BuildMesh(mesh)
	require.NoError(t, err)

	// The plane must fill the ground layer end to end.
	require.NotZero(t, res.LeafVoxels)
	voxels := map[uint64]bool{}
	collectVoxels(res.Nodes, 1, 0, int(res.MaxDepth), 0, 0, 0, voxels)
	require.True(t, voxels[0], "origin ground voxel missing")

	count := countVoxels(t, res.Nodes, 1, int(res.MaxDepth))
	require.GreaterOrEqual(t, count, 64)

	// The diffuse color quantizes to pure red.
	n := res.Nodes[1]
	for n.ChildMask != 0 {
		var next uint32
		for o := uint8(0); o < 8; o++ {
			if n.ChildMask&(1<<o) != 0 && n.Children[o] != 0 {
				next = n.Children[o]
				break
			}
		}
		if next == 0 {
			break
		}
		n = res.Nodes[next]
	}
	require.Equal(t, uint16(0xF800), n.Material)
}
