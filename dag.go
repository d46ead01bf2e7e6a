package svdag

import "github.com/scigolib/svdag/internal/core"

// DAG is a linearized sparse voxel DAG: a dense node array whose index 0 is
// the absent-child sentinel. Nodes are append-only during edits; they are
// never relocated or compacted online, so indices stay stable for bulk
// readers. Saving re-linearizes the reachable graph and drops garbage.
type DAG struct {
	nodes    []Node
	maxDepth uint64
	maxRefs  uint32
	root     uint32
}

// NewDAG returns an empty volume of side 2^maxDepth voxels: a sentinel and
// an empty root.
func NewDAG(maxDepth uint64) *DAG {
	d := &DAG{
		nodes:    make([]Node, 2, 64),
		maxDepth: maxDepth,
		root:     core.RootIndex,
	}
	d.nodes[core.RootIndex].Refs = 1
	return d
}

// Nodes returns the live node array, sentinel included. The slice is a view:
// it is valid until the next edit appends past its capacity.
func (d *DAG) Nodes() []Node { return d.nodes }

// NodeCount returns the current length of the node array.
func (d *DAG) NodeCount() uint64 { return uint64(len(d.nodes)) }

// Root returns the index of the current root node. Edits may move it.
func (d *DAG) Root() uint32 { return d.root }

// MaxDepth returns the tree depth D; the volume is a cube of side 2^D.
func (d *DAG) MaxDepth() uint64 { return d.maxDepth }

// MaxRefs returns the greatest reference count the offline builder
// observed. It is a statistic, not an invariant.
func (d *DAG) MaxRefs() uint32 { return d.maxRefs }

// GridSize returns the volume side length in voxels.
func (d *DAG) GridSize() uint32 { return 1 << d.maxDepth }

// VoxelSize returns the world-space edge length of one voxel; world
// coordinates are normalized to [0, 1).
func (d *DAG) VoxelSize() float32 { return 1 / float32(d.GridSize()) }

func (d *DAG) node(i uint32) *Node { return &d.nodes[i] }

// append adds a node record and returns its index.
func (d *DAG) append(n Node) uint32 {
	idx := uint32(len(d.nodes))
	d.nodes = append(d.nodes, n)
	return idx
}
