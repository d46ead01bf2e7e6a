package builder

import "github.com/scigolib/svdag/internal/core"

// linearize emits the canonical tree depth-first into a contiguous array.
// Index 0 is the absent-child sentinel, the root lands at index 1, and
// every shared node is written exactly once: revisits reuse the index
// assigned on first emission.
func linearize(root *cpuNode, maxDepth int) []core.Node {
	nodes := make([]core.Node, 2, 1024)
	nodes[core.RootIndex] = core.Node{
		ChildMask: root.childMask,
		Refs:      root.refs,
		Material:  root.material,
	}

	index := map[*cpuNode]uint32{root: core.RootIndex}
	linearizeRecursive(root, core.RootIndex, &nodes, index)
	return nodes
}

func linearizeRecursive(n *cpuNode, nodeIndex uint32, nodes *[]core.Node, index map[*cpuNode]uint32) {
	for i := 0; i < 8; i++ {
		child := n.children[i]
		if child == nil {
			// Absent octants and homogeneous-solid leaves both keep
			// zeroed child slots.
			continue
		}

		if childIndex, emitted := index[child]; emitted {
			(*nodes)[nodeIndex].Children[i] = childIndex
			continue
		}

		childIndex := uint32(len(*nodes))
		(*nodes)[nodeIndex].Children[i] = childIndex
		*nodes = append(*nodes, core.Node{
			ChildMask: child.childMask,
			Refs:      child.refs,
			Material:  child.material,
		})
		index[child] = childIndex
		linearizeRecursive(child, childIndex, nodes, index)
	}
}
