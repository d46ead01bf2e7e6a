package svdag

import "math"

// PickResult is what a brush-center oracle reports for the current view:
// whether anything was hit and, if so, the world-space position and surface
// normal of the hit. Positions are inside [0, 1)^3 when Hit is true.
type PickResult struct {
	Hit      bool
	Position [3]float32
	Normal   [3]float32
}

// Picker provides brush centers. The engine treats it as an oracle; the
// reference implementation is a GPU picking pass, tests use fixed points.
type Picker interface {
	Pick() PickResult
}

// Brush rasterizes world-space shapes into editor calls. It never touches
// the DAG directly: spheres and paint strokes enumerate voxels one by one,
// boxes delegate to the region primitive so its subtree pruning applies.
type Brush struct {
	editor *Editor
}

// NewBrush binds a brush to an editor.
func NewBrush(editor *Editor) *Brush {
	return &Brush{editor: editor}
}

// Editor returns the editor the brush drives.
func (b *Brush) Editor() *Editor { return b.editor }

// sphereBounds clamps the voxel AABB of a sphere to the grid.
func (b *Brush) sphereBounds(center [3]float32, radius float32) (lo, hi [3]int32) {
	voxelSize := b.editor.dag.VoxelSize()
	limit := int32(b.editor.dag.GridSize()) - 1

	clamp := func(v int32) int32 {
		if v < 0 {
			return 0
		}
		if v > limit {
			return limit
		}
		return v
	}
	for i := 0; i < 3; i++ {
		lo[i] = clamp(int32(math.Floor(float64((center[i] - radius) / voxelSize))))
		hi[i] = clamp(int32(math.Ceil(float64((center[i] + radius) / voxelSize))))
	}
	return lo, hi
}

// forSphereVoxels calls fn with the world-space center of every voxel whose
// center lies within radius of center.
func (b *Brush) forSphereVoxels(center [3]float32, radius float32, fn func(x, y, z float32)) {
	voxelSize := b.editor.dag.VoxelSize()
	lo, hi := b.sphereBounds(center, radius)

	for z := lo[2]; z <= hi[2]; z++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for x := lo[0]; x <= hi[0]; x++ {
				vx := (float32(x) + 0.5) * voxelSize
				vy := (float32(y) + 0.5) * voxelSize
				vz := (float32(z) + 0.5) * voxelSize

				dx := float64(vx - center[0])
				dy := float64(vy - center[1])
				dz := float64(vz - center[2])
				if math.Sqrt(dx*dx+dy*dy+dz*dz) <= float64(radius) {
					fn(vx, vy, vz)
				}
			}
		}
	}
}

// Apply stamps a sphere: every voxel whose center lies within the radius is
// set (adding) or cleared.
func (b *Brush) Apply(center [3]float32, radius float32, adding bool, material uint16) {
	b.forSphereVoxels(center, radius, func(x, y, z float32) {
		if adding {
			b.editor.Set(x, y, z, material)
		} else {
			b.editor.Clear(x, y, z)
		}
	})
}

// ApplyPaint recolors the voxels of a sphere without changing geometry.
func (b *Brush) ApplyPaint(center [3]float32, radius float32, material uint16) {
	b.forSphereVoxels(center, radius, func(x, y, z float32) {
		b.editor.Paint(x, y, z, material)
	})
}

// ApplyBox fills or clears the axis-aligned box between two world-space
// corners, snapped to the voxel grid, in a single region edit.
func (b *Brush) ApplyBox(cornerA, cornerB [3]float32, adding bool, material uint16) {
	voxelSize := b.editor.dag.VoxelSize()
	limit := int32(b.editor.dag.GridSize()) - 1

	var box Box
	for i := 0; i < 3; i++ {
		lo, hi := cornerA[i], cornerB[i]
		if lo > hi {
			lo, hi = hi, lo
		}
		gmin := int32(math.Floor(float64(lo / voxelSize)))
		gmax := int32(math.Floor(float64(hi / voxelSize)))
		if gmax < 0 || gmin > limit {
			return
		}
		if gmin < 0 {
			gmin = 0
		}
		if gmax > limit {
			gmax = limit
		}
		box.Min[i] = uint32(gmin)
		box.Max[i] = uint32(gmax)
	}
	b.editor.ModifyRegion(box, adding, material)
}

// ApplyAt runs a sphere stamp at the oracle's current pick, if any.
func (b *Brush) ApplyAt(p Picker, radius float32, adding bool, material uint16) bool {
	res := p.Pick()
	if !res.Hit {
		return false
	}
	b.Apply(res.Position, radius, adding, material)
	return true
}
