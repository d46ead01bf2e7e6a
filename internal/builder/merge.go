package builder

import "math/bits"

// log2 of a power-of-two size.
func log2(v uint32) int {
	return bits.Len32(v) - 1
}

// mergeSubtrees stitches the per-chunk canonical roots into one tree. Each
// chunk is identified by its Morton code at chunk granularity; the merger
// descends log2(treeSize/chunkSize) levels from a fresh root, creating
// interior nodes as needed, and attaches the chunk root at the bottom.
func mergeSubtrees(subtrees map[uint64]*cpuNode, treeSize, chunkSize uint32) *cpuNode {
	levels := log2(treeSize) - log2(chunkSize)

	if levels == 0 {
		// A single chunk spans the whole volume.
		if root, ok := subtrees[0]; ok {
			return root
		}
		return &cpuNode{}
	}

	root := &cpuNode{}
	for code, subtreeRoot := range subtrees {
		current := root
		for level := 0; level < levels; level++ {
			o := uint8(code>>(3*(levels-level-1))) & 0b111
			current.childMask |= 1 << o

			if level == levels-1 {
				current.children[o] = subtreeRoot
			} else {
				if current.children[o] == nil {
					current.children[o] = &cpuNode{}
				}
				current = current.children[o]
			}
		}
	}
	return root
}
