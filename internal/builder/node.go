// Package builder constructs a sparse voxel DAG offline: it voxelizes a
// height field or a triangle mesh into per-chunk pointer-linked octrees,
// deduplicates structurally equal subtrees by hash, merges the chunks under
// one root and linearizes the result into the contiguous node array the
// editor and the file codec operate on.
package builder

// cpuNode is the construction-time representation: pointer-linked and
// mutable until canonicalized. The linearizer bridges it to core.Node.
type cpuNode struct {
	childMask uint8
	refs      uint32
	material  uint16
	hash      uint64 // structural hash, valid once canonicalized
	children  [8]*cpuNode
}

// isSolid reports the canonical homogeneous-solid form: every octant
// present, no child pointers.
func (n *cpuNode) isSolid() bool {
	return n.childMask == 0xFF && n.children[0] == nil
}

// hashCombine is the boost-style hash_combine mix. Identical structure must
// produce identical hashes across chunks, so the mix has no per-run state.
func hashCombine(lhs, rhs uint64) uint64 {
	lhs ^= rhs + 0x9e3779b9 + (lhs << 6) + (lhs >> 2)
	return lhs
}

// hashNode computes the structural hash of a node from its own fields and
// the cached hashes of its (already canonical) children. Absent children
// hash as zero.
func hashNode(n *cpuNode) uint64 {
	h := uint64(n.childMask)
	h = hashCombine(h, uint64(n.material))
	for i := 0; i < 8; i++ {
		var ch uint64
		if n.children[i] != nil {
			ch = n.children[i].hash
		}
		h = hashCombine(h, ch)
	}
	return h
}
