package svdag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsHandBuiltStates(t *testing.T) {
	require.NoError(t, testDAG().Validate())
	require.NoError(t, dedupedDAG().Validate())
}

func TestValidateCatchesMaskPointerMismatch(t *testing.T) {
	d := testDAG()
	d.nodes[d.root].ChildMask = 0b1 // bit set, pointer zero
	require.Error(t, d.Validate())

	d = testDAG()
	leaf := d.append(Node{ChildMask: 0b1, Refs: 1})
	d.nodes[d.root].Children[3] = leaf // pointer set, bit clear
	require.Error(t, d.Validate())
}

func TestValidateCatchesWrongRefs(t *testing.T) {
	d := dedupedDAG()
	d.nodes[2].Refs = 7 // the shared leaf really has two root paths
	require.Error(t, d.Validate())
}

func TestValidateCatchesCycle(t *testing.T) {
	d := testDAG()
	a := d.append(Node{ChildMask: 0b1, Refs: 1})
	d.nodes[d.root].ChildMask = 0b1
	d.nodes[d.root].Children[0] = a
	d.nodes[a].Children[0] = a // depth-1 node pointing at itself
	require.Error(t, d.Validate())
}

func TestValidateCatchesSolidWithChildren(t *testing.T) {
	d := testDAG()
	n := d.node(d.root)
	n.ChildMask = 0xFF
	n.Children[3] = 1 // solid form must keep slots zeroed
	require.Error(t, d.Validate())
}

func TestVoxelSetExpandsSolid(t *testing.T) {
	d := testDAG()
	e := NewEditor(d)
	require.True(t, e.ModifyRegion(Box{Max: [3]uint32{3, 3, 3}}, true, 0x07E0))

	voxels := d.VoxelSet()
	require.Len(t, voxels, 64)
	require.Equal(t, uint64(64), d.CountVoxels())

	v, ok := voxels[encodeVoxel(3, 3, 3)]
	require.True(t, ok)
	require.Equal(t, uint16(0x07E0), v.Material)

	_, outside := voxels[encodeVoxel(4, 0, 0)]
	require.False(t, outside)
}
