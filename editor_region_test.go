package svdag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func fullVolume() Box {
	return Box{Max: [3]uint32{7, 7, 7}}
}

func TestRegionAddCollapsesToSolidRoot(t *testing.T) {
	d := testDAG()
	e := NewEditor(d)

	require.True(t, e.ModifyRegion(fullVolume(), true, 0x07E0))

	root := d.nodes[d.root]
	require.Equal(t, uint8(0xFF), root.ChildMask)
	require.Equal(t, uint16(0x07E0), root.Material)
	for o := 0; o < 8; o++ {
		require.Zero(t, root.Children[o])
	}
	require.Equal(t, uint64(512), d.CountVoxels())
	require.NoError(t, d.Validate())
}

func TestRegionRemoveEmptiesVolume(t *testing.T) {
	d := testDAG()
	e := NewEditor(d)

	require.True(t, e.ModifyRegion(fullVolume(), true, 0x07E0))
	require.True(t, e.ModifyRegion(fullVolume(), false, 0))

	require.Equal(t, uint64(0), d.CountVoxels())
	require.Equal(t, uint8(0), d.nodes[d.root].ChildMask)
	require.NoError(t, d.Validate())
}

func TestClearSplitsSolidRoot(t *testing.T) {
	d := testDAG()
	e := NewEditor(d)
	require.True(t, e.ModifyRegion(fullVolume(), true, 0x07E0))

	require.True(t, e.Clear(0.0625, 0.0625, 0.0625))

	require.Equal(t, uint64(511), d.CountVoxels())
	require.NoError(t, d.Validate())

	// The split leaves a path of interior nodes still carrying the solid
	// material, ending in a leaf missing exactly the cleared octant.
	idx := d.root
	for depth := 0; depth < 2; depth++ {
		n := d.nodes[idx]
		require.Equal(t, uint8(0xFF), n.ChildMask)
		require.False(t, n.IsSolid())
		require.Equal(t, uint16(0x07E0), n.Material)
		idx = n.Children[0]
	}
	leaf := d.nodes[idx]
	require.Equal(t, uint8(0b11111110), leaf.ChildMask)
	require.Equal(t, uint16(0x07E0), leaf.Material)

	// Off-path octants remain homogeneous solids.
	sibling := d.nodes[d.nodes[d.root].Children[7]]
	require.True(t, sibling.IsSolid())
	require.Equal(t, uint16(0x07E0), sibling.Material)
}

func TestPaintSolidRootRecolorsWholeVolume(t *testing.T) {
	d := testDAG()
	e := NewEditor(d)
	require.True(t, e.ModifyRegion(fullVolume(), true, 0x07E0))
	countBefore := d.NodeCount()

	require.True(t, e.Paint(0.5, 0.5, 0.5, 0x001F))

	root := d.nodes[d.root]
	require.True(t, root.IsSolid())
	require.Equal(t, uint16(0x001F), root.Material)
	require.Equal(t, uint64(512), d.CountVoxels())

	// The recolor rewrote the owned solid in place: no interior nodes
	// beyond at most one CoW clone appear.
	require.LessOrEqual(t, d.NodeCount(), countBefore+1)
	require.NoError(t, d.Validate())
}

func TestRegionPartialAdd(t *testing.T) {
	d := testDAG()
	e := NewEditor(d)

	// A 2x2x2 corner block.
	require.True(t, e.ModifyRegion(Box{Max: [3]uint32{1, 1, 1}}, true, 0xF800))

	require.Equal(t, uint64(8), d.CountVoxels())
	voxels := d.VoxelSet()
	for _, v := range voxels {
		require.Less(t, v.X, uint32(2))
		require.Less(t, v.Y, uint32(2))
		require.Less(t, v.Z, uint32(2))
		require.Equal(t, uint16(0xF800), v.Material)
	}
	require.NoError(t, d.Validate())
}

func TestRegionPartialRemoveSplitsSolid(t *testing.T) {
	d := testDAG()
	e := NewEditor(d)
	require.True(t, e.ModifyRegion(fullVolume(), true, 0x07E0))

	// Remove the lower half in y.
	require.True(t, e.ModifyRegion(Box{Max: [3]uint32{7, 3, 7}}, false, 0))

	require.Equal(t, uint64(256), d.CountVoxels())
	for _, v := range d.VoxelSet() {
		require.GreaterOrEqual(t, v.Y, uint32(4))
		require.Equal(t, uint16(0x07E0), v.Material)
	}
	require.NoError(t, d.Validate())

	// The split reset the interior's own material.
	require.Equal(t, uint16(0), d.nodes[d.root].Material)
}

func TestRegionClipsToVolume(t *testing.T) {
	d := testDAG()
	e := NewEditor(d)

	// Box reaching past the grid clips instead of failing.
	require.True(t, e.ModifyRegion(Box{Min: [3]uint32{6, 6, 6}, Max: [3]uint32{40, 40, 40}}, true, 0x07E0))
	require.Equal(t, uint64(8), d.CountVoxels())

	// Box entirely beyond the grid is a no-op.
	require.False(t, e.ModifyRegion(Box{Min: [3]uint32{8, 0, 0}, Max: [3]uint32{9, 7, 7}}, true, 0x07E0))
	require.Equal(t, uint64(8), d.CountVoxels())

	// Inverted boxes are rejected.
	require.False(t, e.ModifyRegion(Box{Min: [3]uint32{5, 0, 0}, Max: [3]uint32{1, 7, 7}}, true, 0x07E0))
	require.NoError(t, d.Validate())
}

func TestRegionRemoveDisjointIsNoOp(t *testing.T) {
	d := testDAG()
	e := NewEditor(d)
	require.True(t, e.Set(0.0625, 0.0625, 0.0625, 0xF800))
	e.Commit()

	require.True(t, e.ModifyRegion(Box{Min: [3]uint32{4, 4, 4}, Max: [3]uint32{7, 7, 7}}, false, 0))
	require.Equal(t, uint64(1), d.CountVoxels())
	require.NoError(t, d.Validate())
}

func TestRegionAddOverSharedSubtreePreservesOtherParents(t *testing.T) {
	d := dedupedDAG()
	e := NewEditor(d)

	// Fill the octant that holds grid (0,0,0); the shared interior serves
	// another octant and must keep serving it.
	require.True(t, e.ModifyRegion(Box{Max: [3]uint32{3, 3, 3}}, true, 0x07E0))

	voxels := d.VoxelSet()
	require.Equal(t, uint64(64+1), d.CountVoxels())

	// The voxel reached through the other parent is untouched.
	v, ok := voxels[encodeVoxel(4, 0, 0)]
	require.True(t, ok)
	require.Equal(t, uint16(0xF800), v.Material)
	require.NoError(t, d.Validate())
}
