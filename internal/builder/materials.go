package builder

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/scigolib/svdag/internal/core"
)

// Altitude bands of the terrain palette, as fractions of the tree height.
const (
	grassLine = 0.25
	rockLine  = 0.45
	snowLine  = 0.75
)

type rgb struct{ r, g, b float32 }

func mix(a, b rgb, t float32) rgb {
	return rgb{
		a.r + (b.r-a.r)*t,
		a.g + (b.g-a.g)*t,
		a.b + (b.b-a.b)*t,
	}
}

func smoothstep(edge0, edge1, x float32) float32 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// mountainLUT precomputes the altitude-to-color table: forest, alpine
// meadow, rock and snow bands blended by smoothstep, perturbed by two
// octaves of simplex noise so bands do not read as flat stripes.
func mountainLUT(treeSize uint32, seed int64) []uint16 {
	noise := opensimplex.New(seed)

	lut := make([]uint16, treeSize)
	for y := uint32(0); y < treeSize; y++ {
		normalized := float32(y) / float32(treeSize-1)
		lut[y] = mountainColor(noise, normalized)
	}
	return lut
}

func mountainColor(noise opensimplex.Noise, y float32) uint16 {
	noise1 := float32(noise.Eval2(float64(y*10), 0.5)) * 0.1
	noise2 := float32(noise.Eval2(float64(y*20), 0.7)) * 0.05

	var c rgb
	switch {
	case y > snowLine:
		blend := smoothstep(snowLine, 0.9, y)
		c = mix(rgb{0.8, 0.85, 0.95}, rgb{1, 1, 1}, blend)
		c.r += noise1
		c.g += noise1
		c.b += noise1
	case y > rockLine:
		blend := (y - rockLine) / (snowLine - rockLine)
		c = mix(rgb{0.5, 0.4, 0.35}, rgb{0.7, 0.7, 0.75}, blend)
		c.r += noise2
		c.g += noise2
		c.b += noise2
	case y > grassLine:
		blend := (y - grassLine) / (rockLine - grassLine)
		c = mix(rgb{0.3, 0.5, 0.2}, rgb{0.45, 0.38, 0.32}, blend)
		c.r += noise1 * 2
		c.g += noise1 * 2
		c.b += noise1 * 2
	default:
		blend := y / grassLine
		c = mix(rgb{0.1, 0.25, 0.1}, rgb{0.2, 0.35, 0.15}, blend)
		c.r += noise2 * 1.5
		c.g += noise2 * 1.5
		c.b += noise2 * 1.5
	}

	return core.QuantizeRGB565(c.r, c.g, c.b)
}
