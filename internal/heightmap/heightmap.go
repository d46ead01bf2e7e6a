// Package heightmap generates and samples the 2-D scalar field that drives
// the terrain build path. The generator layers several octaves of simplex
// noise; the result is a square grid of heights normalized to [0, 1].
package heightmap

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Field is any square 2-D scalar field the builder can sample.
type Field interface {
	// At returns the height at grid cell (x, z), normalized to [0, 1].
	At(x, z int) float32
	// Size returns the side length of the grid.
	Size() int
}

// Generator produces height fields from layered simplex noise.
type Generator struct {
	GridSize    int
	Octaves     int
	Persistence float32
	Scale       float32
	Seed        int64
}

// NewGenerator returns a generator with the parameters the terrain builder
// uses by default.
func NewGenerator(gridSize int, seed int64) *Generator {
	return &Generator{
		GridSize:    gridSize,
		Octaves:     8,
		Persistence: 0.5,
		Scale:       0.5,
		Seed:        seed,
	}
}

// Generate evaluates the layered noise over the whole grid.
func (g *Generator) Generate() *Map {
	noise := opensimplex.New(g.Seed)

	// Random plane offset so reseeding shifts the terrain, not just its
	// amplitude.
	rng := rand.New(rand.NewSource(g.Seed))
	offsetX := float32(rng.Float64()*2000 - 1000)
	offsetZ := float32(rng.Float64()*2000 - 1000)

	heights := make([]float32, g.GridSize*g.GridSize)
	for x := 0; x < g.GridSize; x++ {
		for z := 0; z < g.GridSize; z++ {
			nx := float32(x)/float32(g.GridSize) + offsetX
			nz := float32(z)/float32(g.GridSize) + offsetZ
			heights[z*g.GridSize+x] = g.layeredNoise(noise, nx, nz)
		}
	}
	return &Map{heights: heights, size: g.GridSize}
}

// layeredNoise sums octaves with halving amplitude and doubling frequency,
// normalized back to [0, 1].
func (g *Generator) layeredNoise(noise opensimplex.Noise, x, z float32) float32 {
	var total, maxValue float32
	frequency := g.Scale
	amplitude := float32(1)

	for i := 0; i < g.Octaves; i++ {
		sample := float32(noise.Eval2(float64(x*frequency), float64(z*frequency)))
		total += (sample + 1) / 2 * amplitude

		maxValue += amplitude
		amplitude *= g.Persistence
		frequency *= 2
	}
	return total / maxValue
}

// Map is a concrete height field backed by a dense grid.
type Map struct {
	heights []float32
	size    int
}

// NewMap wraps an existing height grid. The slice must hold size*size
// values in z-major order.
func NewMap(heights []float32, size int) *Map {
	return &Map{heights: heights, size: size}
}

// At returns the height at grid cell (x, z).
func (m *Map) At(x, z int) float32 { return m.heights[z*m.size+x] }

// Size returns the side length of the grid.
func (m *Map) Size() int { return m.size }

// SampleBilinear samples the field of f at fractional grid coordinates,
// clamping the upper neighbors at the grid edge.
func SampleBilinear(f Field, x, z float32) float32 {
	size := f.Size()

	x1 := int(x)
	z1 := int(z)
	x2 := x1 + 1
	z2 := z1 + 1
	if x2 >= size {
		x2 = x1
	}
	if z2 >= size {
		z2 = z1
	}

	q11 := f.At(x1, z1)
	q12 := f.At(x1, z2)
	q21 := f.At(x2, z1)
	q22 := f.At(x2, z2)

	xd := x - float32(x1)
	zd := z - float32(z1)

	return q11*(1-xd)*(1-zd) +
		q21*xd*(1-zd) +
		q12*(1-xd)*zd +
		q22*xd*zd
}
