package svdag

import "github.com/scigolib/svdag/internal/core"

// Box is an inclusive axis-aligned box in grid coordinates.
type Box struct {
	Min, Max [3]uint32
}

func boxesIntersect(a, b Box) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

// boxContains reports whether container fully covers content.
func boxContains(container, content Box) bool {
	for i := 0; i < 3; i++ {
		if container.Min[i] > content.Min[i] || container.Max[i] < content.Max[i] {
			return false
		}
	}
	return true
}

// childBox returns the half-size box of the given octant.
func childBox(parent Box, octant uint8) Box {
	var child Box
	for axis := 0; axis < 3; axis++ {
		half := (parent.Max[axis] - parent.Min[axis] + 1) / 2
		mid := parent.Min[axis] + half
		if octant&(1<<axis) != 0 {
			child.Min[axis] = mid
			child.Max[axis] = parent.Max[axis]
		} else {
			child.Min[axis] = parent.Min[axis]
			child.Max[axis] = mid - 1
		}
	}
	return child
}

// ModifyRegion sets (add) or clears every voxel inside the box. The box is
// clipped to the volume; a box entirely outside it is a no-op and reports
// false. Covered subtrees are replaced wholesale: a fully covered subtree
// becomes one homogeneous solid (add) or disappears (remove), without the
// edit ever descending into it.
func (e *Editor) ModifyRegion(box Box, add bool, material uint16) bool {
	limit := e.dag.GridSize() - 1
	for i := 0; i < 3; i++ {
		if box.Min[i] > box.Max[i] || box.Min[i] > limit {
			return false
		}
		if box.Max[i] > limit {
			box.Max[i] = limit
		}
	}

	rootBox := Box{Max: [3]uint32{limit, limit, limit}}
	newRoot := e.modifyRegion(e.dag.root, box, rootBox, 0, add, material)
	if newRoot == core.SentinelIndex {
		// The whole volume was cleared; the root must remain a real node.
		newRoot = e.dag.append(Node{Refs: 1})
	}
	e.dag.root = newRoot
	return true
}

func (e *Editor) modifyRegion(nodeIndex uint32, target, nodeBox Box, depth int, add bool, material uint16) uint32 {
	if !boxesIntersect(target, nodeBox) {
		return nodeIndex
	}

	if boxContains(target, nodeBox) {
		// Full coverage: the old subtree loses this path entirely.
		e.deref(nodeIndex)
		if add {
			return e.createSolidLeaf(material)
		}
		return core.SentinelIndex
	}

	maxDepth := int(e.dag.maxDepth)
	mutable := e.ensureMutable(nodeIndex)

	if depth == maxDepth-1 {
		n := e.dag.node(mutable)
		for octant := uint8(0); octant < 8; octant++ {
			if !boxesIntersect(target, childBox(nodeBox, octant)) {
				continue
			}
			if add {
				n.ChildMask |= 1 << octant
				n.Material = material
			} else {
				n.ChildMask &^= 1 << octant
			}
		}
		return mutable
	}

	// A partially covered homogeneous solid must split before the descent:
	// the material moves to eight solid children and the node becomes a
	// plain interior.
	if e.dag.node(mutable).IsSolid() {
		e.splitSolid(mutable)
		e.dag.node(mutable).Material = 0
	}

	for octant := uint8(0); octant < 8; octant++ {
		cb := childBox(nodeBox, octant)
		if !boxesIntersect(target, cb) {
			continue
		}

		bit := uint8(1) << octant
		n := e.dag.node(mutable)

		var oldChild uint32
		if n.ChildMask&bit == 0 {
			if !add {
				continue
			}
			oldChild = e.dag.append(Node{Refs: 1})
			n = e.dag.node(mutable)
			n.Children[octant] = oldChild
			n.ChildMask |= bit
		} else {
			oldChild = n.Children[octant]
		}

		newChild := e.modifyRegion(oldChild, target, cb, depth+1, add, material)

		n = e.dag.node(mutable)
		if newChild != oldChild {
			n.Children[octant] = newChild
			if newChild == core.SentinelIndex {
				n.ChildMask &^= bit
			}
		}
	}

	return mutable
}

// createSolidLeaf appends the canonical homogeneous-solid node.
func (e *Editor) createSolidLeaf(material uint16) uint32 {
	return e.dag.append(Node{
		ChildMask: core.SolidMask,
		Refs:      1,
		Material:  material,
	})
}
