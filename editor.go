package svdag

import "github.com/scigolib/svdag/internal/core"

// Editor performs copy-on-write mutations over a linearized, refcounted
// DAG. Every edit clones the root-to-leaf path it touches before writing,
// so subtrees owned by other parents are never modified in place. New nodes
// append to the tail of the node array; abandoned nodes stay behind as
// garbage until the next offline re-linearize.
//
// Reference counts are root-path counts. Cloning a shared node moves one
// path from the original to the clone and leaves every descendant's count
// untouched; dropping a subtree walks it and subtracts the lost path from
// each descendant.
//
// All operations are single-threaded; between edits, records below
// NewNodesStart are immutable except for the indices in ModifiedIndices,
// which gives bulk readers a lock-free rhythm.
type Editor struct {
	dag *DAG

	modified      []uint32
	newNodesStart uint64
}

// NewEditor wraps a DAG for editing. The DAG must satisfy the structural
// invariants (a freshly built or loaded one does).
func NewEditor(d *DAG) *Editor {
	return &Editor{
		dag:           d,
		newNodesStart: d.NodeCount(),
	}
}

// DAG returns the edited graph.
func (e *Editor) DAG() *DAG { return e.dag }

// ModifiedIndices returns the indices mutated in place or dereferenced
// since the last commit. The slice is a read-only view owned by the editor.
func (e *Editor) ModifiedIndices() []uint32 { return e.modified }

// NewNodesStart returns the node-array length at the last commit; every
// index at or beyond it is a newly appended node.
func (e *Editor) NewNodesStart() uint64 { return e.newNodesStart }

// Commit clears the modification log and snaps NewNodesStart to the
// current array length. Consumers call it after uploading changes.
func (e *Editor) Commit() {
	e.modified = e.modified[:0]
	e.newNodesStart = e.dag.NodeCount()
}

func (e *Editor) logModified(i uint32) {
	e.modified = append(e.modified, i)
}

// ensureMutable returns an index the caller may write through: the node
// itself when this path is its sole owner, or a fresh clone otherwise. The
// clone takes over the caller's path; the original keeps its other owners.
func (e *Editor) ensureMutable(i uint32) uint32 {
	n := e.dag.node(i)
	if n.Refs > 1 {
		n.Refs--
		e.logModified(i)

		clone := *n
		clone.Refs = 1
		return e.dag.append(clone)
	}
	e.logModified(i)
	return i
}

// deref subtracts one root path from the subtree at i: the node and, through
// each child slot, every descendant lose one count. A node reaching zero is
// garbage; it stays in the array but is no longer reachable.
func (e *Editor) deref(i uint32) {
	if i == core.SentinelIndex {
		return
	}
	n := e.dag.node(i)
	n.Refs--
	e.logModified(i)
	for o := 0; o < 8; o++ {
		if n.Children[o] != 0 {
			e.deref(n.Children[o])
		}
	}
}

// gridPos converts a world position in [0, 1)^3 to grid coordinates.
func (e *Editor) gridPos(x, y, z float32) (gx, gy, gz uint32, ok bool) {
	if x < 0 || x >= 1 || y < 0 || y >= 1 || z < 0 || z >= 1 {
		return 0, 0, 0, false
	}
	size := float32(e.dag.GridSize())
	return uint32(x * size), uint32(y * size), uint32(z * size), true
}

// Set ensures a solid voxel with the given material at the world position.
// It reports false, touching nothing, when the position is out of range.
func (e *Editor) Set(x, y, z float32, material uint16) bool {
	gx, gy, gz, ok := e.gridPos(x, y, z)
	if !ok {
		return false
	}
	e.dag.root = e.modifyPoint(e.dag.root, gx, gy, gz, 0, true, material)
	return true
}

// Clear ensures no voxel at the world position. It reports false, touching
// nothing, when the position is out of range.
func (e *Editor) Clear(x, y, z float32) bool {
	gx, gy, gz, ok := e.gridPos(x, y, z)
	if !ok {
		return false
	}
	e.dag.root = e.modifyPoint(e.dag.root, gx, gy, gz, 0, false, 0)
	return true
}

// modifyPoint descends octant by octant, cloning shared nodes on the way,
// and flips the leaf occupancy bit at the bottom. It returns the index the
// parent slot must hold afterwards.
func (e *Editor) modifyPoint(nodeIndex uint32, gx, gy, gz uint32, depth int, add bool, material uint16) uint32 {
	maxDepth := int(e.dag.maxDepth)
	mutable := e.ensureMutable(nodeIndex)
	shift := uint(maxDepth - depth - 1)
	octant := core.OctantOf(gx, gy, gz, shift)
	bit := uint8(1) << octant

	if depth == maxDepth-1 {
		n := e.dag.node(mutable)
		if add {
			n.ChildMask |= bit
			n.Material = material
		} else {
			n.ChildMask &^= bit
		}
		return mutable
	}

	// A homogeneous solid has no explicit children to descend into; a
	// point edit that reaches one materializes its eight solid octants
	// first, keeping the material on the interior node.
	if e.dag.node(mutable).IsSolid() {
		e.splitSolid(mutable)
	}

	n := e.dag.node(mutable)
	if n.ChildMask&bit == 0 {
		if !add {
			// The voxel is already absent below this node.
			return mutable
		}
		child := e.dag.append(Node{Refs: 1})
		n = e.dag.node(mutable)
		n.Children[octant] = child
		n.ChildMask |= bit
	}

	oldChild := n.Children[octant]
	newChild := e.modifyPoint(oldChild, gx, gy, gz, depth+1, add, material)

	n = e.dag.node(mutable)
	if newChild != oldChild {
		// The recursion cloned the child; its counts moved already.
		n.Children[octant] = newChild
	}

	if !add && e.dag.node(n.Children[octant]).ChildMask == 0 {
		// The subtree below emptied out: unhook it.
		dead := n.Children[octant]
		n.Children[octant] = 0
		n.ChildMask &^= bit
		e.deref(dead)
	}

	return mutable
}

// splitSolid converts a mutable homogeneous-solid node into an interior
// node over eight freshly appended solid children of the same material.
func (e *Editor) splitSolid(i uint32) {
	material := e.dag.node(i).Material
	for o := 0; o < 8; o++ {
		child := e.dag.append(Node{
			ChildMask: core.SolidMask,
			Refs:      1,
			Material:  material,
		})
		e.dag.node(i).Children[o] = child
	}
}

// Paint changes the material of the voxel at the world position, if one
// exists. It never creates or deletes geometry; painting an absent voxel
// is a no-op. It reports false when the position is out of range.
func (e *Editor) Paint(x, y, z float32, material uint16) bool {
	gx, gy, gz, ok := e.gridPos(x, y, z)
	if !ok {
		return false
	}
	e.dag.root = e.paintPoint(e.dag.root, gx, gy, gz, 0, material)
	return true
}

// paintPoint routes to the target voxel without cloning anything until a
// node actually changes, so painting empty space leaves no trace in the
// modification log.
func (e *Editor) paintPoint(nodeIndex uint32, gx, gy, gz uint32, depth int, material uint16) uint32 {
	if nodeIndex == core.SentinelIndex {
		return nodeIndex
	}
	maxDepth := int(e.dag.maxDepth)
	n := e.dag.node(nodeIndex)
	shift := uint(maxDepth - depth - 1)
	octant := core.OctantOf(gx, gy, gz, shift)
	bit := uint8(1) << octant

	if depth == maxDepth-1 {
		if n.ChildMask&bit == 0 {
			return nodeIndex
		}
		mutable := e.ensureMutable(nodeIndex)
		e.dag.node(mutable).Material = material
		return mutable
	}

	// Painting a homogeneous solid recolors the whole subtree at once.
	if n.IsSolid() {
		if n.Material == material {
			return nodeIndex
		}
		mutable := e.ensureMutable(nodeIndex)
		e.dag.node(mutable).Material = material
		return mutable
	}

	if n.ChildMask&bit == 0 {
		return nodeIndex
	}

	oldChild := n.Children[octant]
	newChild := e.paintPoint(oldChild, gx, gy, gz, depth+1, material)
	if newChild == oldChild {
		return nodeIndex
	}

	mutable := e.ensureMutable(nodeIndex)
	e.dag.node(mutable).Children[octant] = newChild
	return mutable
}
