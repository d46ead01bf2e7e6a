package svdag

import (
	"fmt"
	"math/bits"

	"github.com/scigolib/svdag/internal/morton"
)

// Validate walks the reachable graph from the root and checks the
// structural invariants:
//
//  1. popcount(childMask) equals the number of non-zero child slots, and
//     each mask bit agrees with its slot (solid nodes excepted: they keep a
//     full mask over zeroed slots).
//  2. Every child index stays inside the node array.
//  3. Reference counts are accurate: each node's refs equal the number of
//     root paths reaching it, i.e. the sum over reachable parents of the
//     parent's refs per naming slot.
//  4. The graph is acyclic.
//
// It returns the first violation found, or nil.
func (d *DAG) Validate() error {
	return d.validate(true)
}

// validate optionally skips the refcount comparison; the loader checks
// structure only and trusts the serialized counts.
func (d *DAG) validate(checkRefs bool) error {
	maxDepth := int(d.maxDepth)
	pathCounts := make(map[uint32]uint32)
	onStack := make(map[uint32]bool)

	var walk func(idx uint32, depth int, paths uint32) error
	walk = func(idx uint32, depth int, paths uint32) error {
		if idx >= uint32(len(d.nodes)) {
			return fmt.Errorf("%w: child index %d beyond node count %d", ErrCorruptReference, idx, len(d.nodes))
		}
		if onStack[idx] {
			return fmt.Errorf("cycle through node %d", idx)
		}
		pathCounts[idx] += paths

		n := d.nodes[idx]
		if depth == maxDepth-1 {
			// Leaf occupancy bitmap; child slots are unused.
			return nil
		}
		if n.IsSolid() {
			for o := 1; o < 8; o++ {
				if n.Children[o] != 0 {
					return fmt.Errorf("solid node %d has child pointer in slot %d", idx, o)
				}
			}
			return nil
		}

		nonZero := 0
		for o := uint8(0); o < 8; o++ {
			set := n.HasChild(o)
			child := n.Children[o]
			if set != (child != 0) {
				return fmt.Errorf("%w: node %d slot %d mask/pointer mismatch", ErrCorruptReference, idx, o)
			}
			if child != 0 {
				nonZero++
			}
		}
		if bits.OnesCount8(n.ChildMask) != nonZero {
			return fmt.Errorf("node %d popcount mismatch", idx)
		}

		onStack[idx] = true
		for o := uint8(0); o < 8; o++ {
			if n.Children[o] != 0 {
				if err := walk(n.Children[o], depth+1, paths); err != nil {
					return err
				}
			}
		}
		onStack[idx] = false
		return nil
	}

	root := d.root
	if root == 0 || root >= uint32(len(d.nodes)) {
		return fmt.Errorf("%w: root index %d invalid", ErrCorruptReference, root)
	}
	if err := walk(root, 0, 1); err != nil {
		return err
	}

	if checkRefs {
		for idx, want := range pathCounts {
			if got := d.nodes[idx].Refs; got != want {
				return fmt.Errorf("node %d refs %d, expected %d root paths", idx, got, want)
			}
		}
	}
	return nil
}

// Voxel is one solid cell of the volume.
type Voxel struct {
	X, Y, Z  uint32
	Material uint16
}

// VoxelSet enumerates every solid voxel reachable from the root, keyed by
// Morton code. Homogeneous solid subtrees expand to all their cells.
func (d *DAG) VoxelSet() map[uint64]Voxel {
	out := make(map[uint64]Voxel)
	d.collectVoxels(d.root, 0, 0, 0, 0, out)
	return out
}

// CountVoxels returns the number of solid voxels without materializing the
// expansion of homogeneous subtrees.
func (d *DAG) CountVoxels() uint64 {
	maxDepth := int(d.maxDepth)
	var walk func(idx uint32, depth int) uint64
	walk = func(idx uint32, depth int) uint64 {
		n := d.nodes[idx]
		if n.IsSolid() && depth < maxDepth-1 {
			side := uint64(1) << (maxDepth - depth)
			return side * side * side
		}
		if depth == maxDepth-1 {
			return uint64(bits.OnesCount8(n.ChildMask))
		}
		var total uint64
		for o := uint8(0); o < 8; o++ {
			if n.HasChild(o) {
				total += walk(n.Children[o], depth+1)
			}
		}
		return total
	}
	return walk(d.root, 0)
}

func (d *DAG) collectVoxels(idx uint32, depth int, x, y, z uint32, out map[uint64]Voxel) {
	maxDepth := int(d.maxDepth)
	n := d.nodes[idx]
	side := uint32(1) << (maxDepth - depth)

	if n.IsSolid() && depth < maxDepth-1 {
		for dx := uint32(0); dx < side; dx++ {
			for dy := uint32(0); dy < side; dy++ {
				for dz := uint32(0); dz < side; dz++ {
					vx, vy, vz := x+dx, y+dy, z+dz
					out[morton.Encode(vx, vy, vz)] = Voxel{X: vx, Y: vy, Z: vz, Material: n.Material}
				}
			}
		}
		return
	}

	if depth == maxDepth-1 {
		for o := uint8(0); o < 8; o++ {
			if n.HasChild(o) {
				vx := x + uint32(o&1)
				vy := y + uint32(o>>1&1)
				vz := z + uint32(o>>2&1)
				out[morton.Encode(vx, vy, vz)] = Voxel{X: vx, Y: vy, Z: vz, Material: n.Material}
			}
		}
		return
	}

	half := side / 2
	for o := uint8(0); o < 8; o++ {
		if n.HasChild(o) {
			d.collectVoxels(n.Children[o], depth+1,
				x+uint32(o&1)*half, y+uint32(o>>1&1)*half, z+uint32(o>>2&1)*half, out)
		}
	}
}
