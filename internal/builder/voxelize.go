package builder

import (
	"context"
	"runtime"

	set3 "github.com/TomTonic/Set3"
	"golang.org/x/sync/errgroup"

	"github.com/scigolib/svdag/internal/core"
	"github.com/scigolib/svdag/internal/geom"
	"github.com/scigolib/svdag/internal/morton"
)

// BuildMesh voxelizes a triangle mesh into a DAG. The mesh is normalized to
// the voxel grid, indexed by a BVH, and solidified chunk by chunk with the
// separating-axis triangle/box test. Voxel colors come from barycentric UV
// interpolation against the face material's texture, or its diffuse color.
func (b *Builder) BuildMesh(mesh *Mesh) (*Result, error) {
	if mesh == nil || len(mesh.Triangles) == 0 {
		return nil, ErrEmptyMesh
	}

	tris := normalizeTriangles(mesh.Triangles, b.treeSize)
	bvh := geom.NewBVH(tris)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for chunkX := uint32(0); chunkX < b.treeSize; chunkX += b.chunkSize {
		for chunkZ := uint32(0); chunkZ < b.treeSize; chunkZ += b.chunkSize {
			for chunkY := uint32(0); chunkY < b.treeSize; chunkY += b.chunkSize {
				cx, cy, cz := chunkX, chunkY, chunkZ
				g.Go(func() error {
					b.buildMeshChunk(bvh, mesh.Materials, cx, cy, cz)
					return nil
				})
			}
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return b.assemble(), nil
}

// normalizeTriangles uniformly scales and translates the soup so its longest
// extent spans [0, treeSize-1].
func normalizeTriangles(tris []geom.Triangle, treeSize uint32) []geom.Triangle {
	bounds := tris[0].Bounds()
	for _, t := range tris[1:] {
		tb := t.Bounds()
		bounds.Extend(tb.Min)
		bounds.Extend(tb.Max)
	}

	extent := bounds.Max.Sub(bounds.Min)
	longest := max(extent.X, max(extent.Y, extent.Z))
	if longest == 0 {
		longest = 1
	}
	scale := float32(treeSize-1) / longest

	out := make([]geom.Triangle, len(tris))
	for i, t := range tris {
		out[i] = t
		out[i].V0 = t.V0.Sub(bounds.Min).Scale(scale)
		out[i].V1 = t.V1.Sub(bounds.Min).Scale(scale)
		out[i].V2 = t.V2.Sub(bounds.Min).Scale(scale)
	}
	return out
}

// buildMeshChunk voxelizes every BVH triangle touching the chunk. A Morton
// set keeps each voxel inserted at most once per chunk even when several
// triangles cover it.
func (b *Builder) buildMeshChunk(bvh *geom.BVH, materials []Material, chunkX, chunkY, chunkZ uint32) {
	chunkBox := geom.AABB{
		Min: geom.Vec3{X: float32(chunkX), Y: float32(chunkY), Z: float32(chunkZ)},
		Max: geom.Vec3{
			X: float32(chunkX + b.chunkSize),
			Y: float32(chunkY + b.chunkSize),
			Z: float32(chunkZ + b.chunkSize),
		},
	}
	candidates := bvh.Query(chunkBox)
	if len(candidates) == 0 {
		return
	}

	subtreeRoot := &cpuNode{}
	builtLevels := log2(b.chunkSize)
	currentDepth := b.maxDepth - builtLevels
	subtreeCode := morton.Encode(chunkX/b.chunkSize, chunkY/b.chunkSize, chunkZ/b.chunkSize)

	voxelSet := set3.EmptyWithCapacity[uint64](256)
	halfSize := geom.Vec3{X: 0.5, Y: 0.5, Z: 0.5}

	var inserted uint64
	for _, triIndex := range candidates {
		tri := bvh.Triangle(triIndex)
		lo, hi := voxelRange(tri, chunkX, chunkY, chunkZ, b.chunkSize, b.treeSize)

		for x := lo[0]; x <= hi[0]; x++ {
			for y := lo[1]; y <= hi[1]; y++ {
				for z := lo[2]; z <= hi[2]; z++ {
					center := geom.Vec3{
						X: float32(x) + 0.5,
						Y: float32(y) + 0.5,
						Z: float32(z) + 0.5,
					}
					if !geom.TriBoxOverlap(tri.V0, tri.V1, tri.V2, center, halfSize) {
						continue
					}

					code := morton.Encode(x, y, z)
					if voxelSet.Contains(code) {
						continue
					}
					voxelSet.Add(code)

					material := voxelMaterial(tri, center, materials)
					insertVoxel(subtreeRoot, code, currentDepth, b.maxDepth, material)
					inserted++
				}
			}
		}
	}

	if inserted == 0 {
		return
	}
	b.leafVoxels.Add(inserted)

	local := newCanonCache()
	canonical := local.canonicalize(subtreeRoot, currentDepth, b.maxDepth)

	b.mu.Lock()
	b.subtrees[subtreeCode] = canonical
	b.mu.Unlock()
}

// voxelRange clips the triangle's voxelized AABB to the chunk.
func voxelRange(tri geom.Triangle, chunkX, chunkY, chunkZ, chunkSize, treeSize uint32) (lo, hi [3]uint32) {
	tb := tri.Bounds()

	clip := func(f float32, chunkMin, limit uint32) uint32 {
		if f < float32(chunkMin) {
			return chunkMin
		}
		if f > float32(limit) {
			return limit
		}
		return uint32(f)
	}

	lo[0] = clip(tb.Min.X, chunkX, chunkX+chunkSize-1)
	lo[1] = clip(tb.Min.Y, chunkY, chunkY+chunkSize-1)
	lo[2] = clip(tb.Min.Z, chunkZ, chunkZ+chunkSize-1)
	hi[0] = clip(tb.Max.X, chunkX, chunkX+chunkSize-1)
	hi[1] = clip(tb.Max.Y, chunkY, chunkY+chunkSize-1)
	hi[2] = clip(tb.Max.Z, chunkZ, chunkZ+chunkSize-1)
	return lo, hi
}

// voxelMaterial colors a voxel from the triangle's material: nearest texture
// sample at the barycentric-interpolated UV when a texture exists, the
// quantized diffuse color otherwise.
func voxelMaterial(tri geom.Triangle, center geom.Vec3, materials []Material) uint16 {
	if int(tri.MaterialIndex) >= len(materials) {
		return core.QuantizeRGB565(0.8, 0.8, 0.8)
	}
	mat := materials[tri.MaterialIndex]

	if mat.Texture != nil {
		w := geom.Barycentric(center, tri.V0, tri.V1, tri.V2)
		u := w.X*tri.UV0.U + w.Y*tri.UV1.U + w.Z*tri.UV2.U
		v := w.X*tri.UV0.V + w.Y*tri.UV1.V + w.Z*tri.UV2.V
		return mat.Texture.SampleRGB565(u, v)
	}
	return core.QuantizeRGB565(mat.Diffuse[0], mat.Diffuse[1], mat.Diffuse[2])
}
