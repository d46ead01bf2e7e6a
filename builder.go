package svdag

import (
	"fmt"

	"github.com/scigolib/svdag/internal/builder"
	"github.com/scigolib/svdag/internal/core"
	"github.com/scigolib/svdag/internal/heightmap"
)

// BuildConfig parameterizes a height-map build.
type BuildConfig struct {
	// TreeSize is the volume side in voxels; a power of two >= 2.
	TreeSize uint32

	// ChunkSize is the side of the per-worker build chunks; a power of two
	// <= TreeSize.
	ChunkSize uint32

	// HeightMapSize is the side of the sampled height grid. Defaults to
	// TreeSize when zero.
	HeightMapSize int

	// Seed drives the terrain noise and the material perturbation.
	Seed int64

	// Height optionally replaces the generated terrain: a pure function
	// returning heights in [0, 1] over a HeightMapSize^2 grid.
	Height func(x, z int) float32
}

// funcField adapts a pure height function to the sampler.
type funcField struct {
	size int
	fn   func(x, z int) float32
}

func (f funcField) At(x, z int) float32 { return f.fn(x, z) }
func (f funcField) Size() int           { return f.size }

// Build voxelizes terrain into a new DAG: per-chunk octrees in parallel,
// canonicalization per chunk and globally, merge and linearization.
func Build(cfg BuildConfig) (*DAG, error) {
	b, err := builder.New(cfg.TreeSize, cfg.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailure, err)
	}

	size := cfg.HeightMapSize
	if size == 0 {
		size = int(cfg.TreeSize)
	}

	var field heightmap.Field
	if cfg.Height != nil {
		field = funcField{size: size, fn: cfg.Height}
	} else {
		field = heightmap.NewGenerator(size, cfg.Seed).Generate()
	}

	res, err := b.BuildHeightMap(field, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailure, err)
	}
	return dagFromResult(res), nil
}

// MeshConfig parameterizes a mesh build.
type MeshConfig struct {
	// TreeSize and ChunkSize as in BuildConfig.
	TreeSize  uint32
	ChunkSize uint32

	// Path names a Wavefront OBJ file; its MTL library and textures load
	// relative to it.
	Path string
}

// BuildMeshFile voxelizes a triangle mesh into a new DAG. A missing or
// empty mesh aborts the build; no output is produced.
func BuildMeshFile(cfg MeshConfig) (*DAG, error) {
	b, err := builder.New(cfg.TreeSize, cfg.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailure, err)
	}

	mesh, err := builder.LoadOBJ(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailure, err)
	}

	res, err := b.BuildMesh(mesh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailure, err)
	}
	return dagFromResult(res), nil
}

func dagFromResult(res *builder.Result) *DAG {
	return &DAG{
		nodes:    res.Nodes,
		maxDepth: res.MaxDepth,
		maxRefs:  res.MaxRefs,
		root:     core.RootIndex,
	}
}
