package svdag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildWithCustomHeight(t *testing.T) {
	// A step: the x >= 8 half is twice as tall.
	d, err := Build(BuildConfig{
		TreeSize:      16,
		ChunkSize:     4,
		HeightMapSize: 16,
		Height: func(x, _ int) float32 {
			if x >= 8 {
				return 0.4
			}
			return 0.2
		},
	})
	require.NoError(t, err)
	require.Equal(t, uint64(4), d.MaxDepth())
	require.NoError(t, d.Validate())

	voxels := d.VoxelSet()
	require.NotEmpty(t, voxels)

	// Column heights follow the field: clamp(h*15).
	low := uint32(3)  // 0.2 * 15
	high := uint32(6) // 0.4 * 15
	for _, v := range voxels {
		if v.X >= 8 {
			require.LessOrEqual(t, v.Y, high)
		} else {
			require.LessOrEqual(t, v.Y, low)
		}
	}

	// Every column is filled to its top.
	_, ok := voxels[encodeVoxel(0, low, 0)]
	require.True(t, ok)
	_, ok = voxels[encodeVoxel(8, high, 15)]
	require.True(t, ok)
	_, ok = voxels[encodeVoxel(0, low+1, 0)]
	require.False(t, ok)
}

func TestBuildGeneratedTerrainRoundTrips(t *testing.T) {
	d, err := Build(BuildConfig{
		TreeSize:      16,
		ChunkSize:     8,
		HeightMapSize: 32,
		Seed:          7,
	})
	require.NoError(t, err)
	require.NoError(t, d.Validate())
	require.NotZero(t, d.CountVoxels())

	var buf bytes.Buffer
	require.NoError(t, d.Save(&buf))
	loaded, err := Load(&buf)
	require.NoError(t, err)
	require.Equal(t, d.VoxelSet(), loaded.VoxelSet())
}

func TestBuildValidatesConfig(t *testing.T) {
	_, err := Build(BuildConfig{TreeSize: 12, ChunkSize: 4})
	require.ErrorIs(t, err, ErrBuildFailure)

	_, err = Build(BuildConfig{TreeSize: 8, ChunkSize: 16})
	require.ErrorIs(t, err, ErrBuildFailure)
}

func TestBuildMeshFileMissing(t *testing.T) {
	_, err := BuildMeshFile(MeshConfig{TreeSize: 8, ChunkSize: 4, Path: "does-not-exist.obj"})
	require.ErrorIs(t, err, ErrBuildFailure)
}

func TestBuiltTerrainIsEditable(t *testing.T) {
	d, err := Build(BuildConfig{TreeSize: 8, ChunkSize: 4, Seed: 3})
	require.NoError(t, err)

	e := NewEditor(d)
	require.True(t, e.Set(0.9, 0.9, 0.9, 0xF800))
	v, ok := d.VoxelSet()[encodeVoxel(7, 7, 7)]
	require.True(t, ok)
	require.Equal(t, uint16(0xF800), v.Material)
	require.NoError(t, d.Validate())
}
