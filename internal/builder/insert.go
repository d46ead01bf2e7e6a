package builder

import "github.com/scigolib/svdag/internal/morton"

// insertVoxel walks octant by octant from parent (a node at depth) down to
// the leaf level, creating nodes on demand. A node freshly created for the
// descent takes the material of the voxel that caused it; later voxels
// passing through keep the first writer's value.
func insertVoxel(parent *cpuNode, code uint64, depth, maxDepth int, material uint16) {
	o := morton.Octant(code, depth, maxDepth)
	firstVoxel := parent.childMask == 0
	parent.childMask |= 1 << o

	if depth == maxDepth-1 {
		// A chunk root at leaf depth was not created by this walk; its
		// first voxel still names its material.
		if firstVoxel {
			parent.material = material
		}
		return
	}

	if parent.children[o] == nil {
		parent.children[o] = &cpuNode{material: material}
	}
	insertVoxel(parent.children[o], code, depth+1, maxDepth, material)
}
