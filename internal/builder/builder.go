package builder

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/scigolib/svdag/internal/core"
	"github.com/scigolib/svdag/internal/heightmap"
	"github.com/scigolib/svdag/internal/morton"
)

// ErrEmptyMesh rejects mesh builds over an empty triangle set.
var ErrEmptyMesh = errors.New("empty triangle set")

// Builder runs the offline construction pipeline. Chunks build in parallel:
// each worker owns its subtree, its voxel set and its dedup cache, and only
// the hand-off of a finished chunk root is serialized.
type Builder struct {
	treeSize  uint32
	chunkSize uint32
	maxDepth  int

	mu       sync.Mutex
	subtrees map[uint64]*cpuNode

	leafVoxels atomic.Uint64
}

// Result is the linearized output of a build.
type Result struct {
	Nodes      []core.Node
	MaxDepth   uint64
	MaxRefs    uint32
	LeafVoxels uint64
}

// New validates the volume geometry and returns a Builder. Both sizes must
// be powers of two with chunkSize <= treeSize.
func New(treeSize, chunkSize uint32) (*Builder, error) {
	if treeSize < 2 || bits.OnesCount32(treeSize) != 1 {
		return nil, fmt.Errorf("tree size %d is not a power of two >= 2", treeSize)
	}
	if treeSize > 1<<21 {
		// Morton codes interleave 21 bits per axis.
		return nil, fmt.Errorf("tree size %d exceeds the addressable volume", treeSize)
	}
	if chunkSize < 2 || bits.OnesCount32(chunkSize) != 1 {
		return nil, fmt.Errorf("chunk size %d is not a power of two >= 2", chunkSize)
	}
	if chunkSize > treeSize {
		return nil, fmt.Errorf("chunk size %d exceeds tree size %d", chunkSize, treeSize)
	}
	return &Builder{
		treeSize:  treeSize,
		chunkSize: chunkSize,
		maxDepth:  log2(treeSize),
		subtrees:  make(map[uint64]*cpuNode),
	}, nil
}

// BuildHeightMap voxelizes a height field into a DAG. Column heights come
// from bilinear samples of the field scaled to the volume; every voxel at or
// below its column height is solid, colored by the altitude LUT.
func (b *Builder) BuildHeightMap(field heightmap.Field, seed int64) (*Result, error) {
	if field == nil {
		return nil, errors.New("nil height field")
	}
	if field.Size() < 2 {
		return nil, fmt.Errorf("height field side %d too small", field.Size())
	}

	lut := mountainLUT(b.treeSize, seed)
	ratio := float32(field.Size()-1) / float32(b.treeSize-1)

	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(runtime.GOMAXPROCS(0))

	for chunkX := uint32(0); chunkX < b.treeSize; chunkX += b.chunkSize {
		for chunkZ := uint32(0); chunkZ < b.treeSize; chunkZ += b.chunkSize {
			for chunkY := uint32(0); chunkY < b.treeSize; chunkY += b.chunkSize {
				cx, cy, cz := chunkX, chunkY, chunkZ
				g.Go(func() error {
					b.buildHeightMapChunk(field, lut, ratio, cx, cy, cz)
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

// buildHeightMapChunk fills one chunk-local subtree and hands its canonical
// root to the merge table.
func (b *Builder) buildHeightMapChunk(field heightmap.Field, lut []uint16, ratio float32, chunkX, chunkY, chunkZ uint32) {
	subtreeRoot := &cpuNode{}
	builtLevels := log2(b.chunkSize)
	currentDepth := b.maxDepth - builtLevels
	subtreeCode := morton.Encode(chunkX/b.chunkSize, chunkY/b.chunkSize, chunkZ/b.chunkSize)

	var inserted uint64
	for voxelX := chunkX; voxelX < chunkX+b.chunkSize; voxelX++ {
		for voxelZ := chunkZ; voxelZ < chunkZ+b.chunkSize; voxelZ++ {
			sample := heightmap.SampleBilinear(field, ratio*float32(voxelX), ratio*float32(voxelZ))
			if sample < 0 {
				sample = 0
			}
			if sample > 1 {
				sample = 1
			}
			columnTop := uint32(sample * float32(b.treeSize-1))

			for voxelY := chunkY; voxelY < chunkY+b.chunkSize; voxelY++ {
				if voxelY > columnTop {
					break
				}
				code := morton.Encode(voxelX, voxelY, voxelZ)
				insertVoxel(subtreeRoot, code, currentDepth, b.maxDepth, lut[voxelY])
				inserted++
			}
		}
	}

	if inserted == 0 {
		return
	}
	b.leafVoxels.Add(inserted)

	// Thread-local dedup; the global pass after the merge rebuilds the
	// refcounts across chunks.
	local := newCanonCache()
	canonical := local.canonicalize(subtreeRoot, currentDepth, b.maxDepth)

	b.mu.Lock()
	b.subtrees[subtreeCode] = canonical
	b.mu.Unlock()
}

// assemble merges the chunk roots, canonicalizes globally and linearizes.
func (b *Builder) assemble() *Result {
	root := mergeSubtrees(b.subtrees, b.treeSize, b.chunkSize)

	global := newCanonCache()
	root = global.canonicalize(root, 0, b.maxDepth)

	return &Result{
		Nodes:      linearize(root, b.maxDepth),
		MaxDepth:   uint64(b.maxDepth),
		MaxRefs:    global.maxRefs,
		LeafVoxels: b.leafVoxels.Load(),
	}
}
