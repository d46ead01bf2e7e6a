// Package main provides the offline SVDAG builder: it voxelizes generated
// terrain or a triangle mesh and writes the linearized DAG to a file.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/scigolib/svdag"
)

func main() {
	treeSize := flag.Uint("size", 512, "Volume side in voxels (power of two)")
	chunkSize := flag.Uint("chunk", 64, "Build chunk side in voxels (power of two)")
	heightMapSize := flag.Uint("heightmap", 1024, "Height-map grid side for terrain builds")
	seed := flag.Int64("seed", 0, "Terrain noise seed")
	meshPath := flag.String("mesh", "", "Wavefront OBJ file; builds from the mesh instead of terrain")
	out := flag.String("o", "world.svdag", "Output file")
	flag.Parse()

	start := time.Now()

	var (
		dag *svdag.DAG
		err error
	)
	if *meshPath != "" {
		dag, err = svdag.BuildMeshFile(svdag.MeshConfig{
			TreeSize:  uint32(*treeSize),
			ChunkSize: uint32(*chunkSize),
			Path:      *meshPath,
		})
	} else {
		dag, err = svdag.Build(svdag.BuildConfig{
			TreeSize:      uint32(*treeSize),
			ChunkSize:     uint32(*chunkSize),
			HeightMapSize: int(*heightMapSize),
			Seed:          *seed,
		})
	}
	if err != nil {
		log.Fatalf("Build failed: %v", err)
	}

	if err := dag.SaveFile(*out); err != nil {
		log.Fatalf("Save failed: %v", err)
	}

	p := message.NewPrinter(language.English)
	p.Printf("SVDAG generation took %.1f seconds\n", time.Since(start).Seconds())
	p.Printf("Volume: %d^3 voxels (depth %d)\n", dag.GridSize(), dag.MaxDepth())
	p.Printf("Solid voxels: %d\n", dag.CountVoxels())
	p.Printf("Total nodes: %d\n", dag.NodeCount())
	p.Printf("Max refs: %d\n", dag.MaxRefs())
	fmt.Printf("Wrote %s\n", *out)
}
