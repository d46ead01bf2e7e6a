package geom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTriBoxOverlap(t *testing.T) {
	unit := Vec3{0.5, 0.5, 0.5}
	center := Vec3{}

	tests := []struct {
		name       string
		v0, v1, v2 Vec3
		want       bool
	}{
		{
			name: "triangle through box center",
			v0:   Vec3{-1, 0, 0}, v1: Vec3{1, 0, 0}, v2: Vec3{0, 1, 0},
			want: true,
		},
		{
			name: "triangle fully inside",
			v0:   Vec3{-0.1, -0.1, 0}, v1: Vec3{0.1, -0.1, 0}, v2: Vec3{0, 0.1, 0},
			want: true,
		},
		{
			name: "triangle far outside",
			v0:   Vec3{5, 5, 5}, v1: Vec3{6, 5, 5}, v2: Vec3{5, 6, 5},
			want: false,
		},
		{
			name: "separated along x only",
			v0:   Vec3{2, -1, -1}, v1: Vec3{2, 1, -1}, v2: Vec3{2, 0, 1},
			want: false,
		},
		{
			name: "grazing a face counts as hit",
			v0:   Vec3{0.5, -1, -1}, v1: Vec3{0.5, 1, -1}, v2: Vec3{0.5, 0, 1},
			want: true,
		},
		{
			name: "separated by triangle plane despite AABB overlap",
			v0:   Vec3{1.6, 0, 0}, v1: Vec3{0, 1.6, 0}, v2: Vec3{0, 0, 1.6},
			want: false,
		},
		{
			name: "large triangle enclosing the box in its plane",
			v0:   Vec3{-10, 0, -10}, v1: Vec3{10, 0, -10}, v2: Vec3{0, 0, 10},
			want: true,
		},
		{
			name: "diagonal edge clipped by cross-axis test",
			v0:   Vec3{1.2, 0, 0}, v1: Vec3{0, 1.2, 0}, v2: Vec3{1.2, 1.2, 0},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, TriBoxOverlap(tt.v0, tt.v1, tt.v2, center, unit))
		})
	}
}

func TestTriBoxOverlapOffCenterBox(t *testing.T) {
	// Box [2,3]x[2,3]x[2,3].
	center := Vec3{2.5, 2.5, 2.5}
	half := Vec3{0.5, 0.5, 0.5}

	hit := TriBoxOverlap(Vec3{2, 2, 2.5}, Vec3{3, 2, 2.5}, Vec3{2.5, 3, 2.5}, center, half)
	require.True(t, hit)

	miss := TriBoxOverlap(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0}, center, half)
	require.False(t, miss)
}

func TestBarycentric(t *testing.T) {
	v0 := Vec3{0, 0, 0}
	v1 := Vec3{1, 0, 0}
	v2 := Vec3{0, 1, 0}

	b := Barycentric(v0, v0, v1, v2)
	require.InDelta(t, 1.0, float64(b.X), 1e-6)

	b = Barycentric(v1, v0, v1, v2)
	require.InDelta(t, 1.0, float64(b.Y), 1e-6)

	b = Barycentric(v2, v0, v1, v2)
	require.InDelta(t, 1.0, float64(b.Z), 1e-6)

	// Centroid weights each vertex a third.
	c := Vec3{1.0 / 3.0, 1.0 / 3.0, 0}
	b = Barycentric(c, v0, v1, v2)
	require.InDelta(t, 1.0/3.0, float64(b.X), 1e-5)
	require.InDelta(t, 1.0/3.0, float64(b.Y), 1e-5)
	require.InDelta(t, 1.0/3.0, float64(b.Z), 1e-5)

	// Degenerate triangle falls back to the first vertex.
	b = Barycentric(c, v0, v0, v0)
	require.Equal(t, Vec3{X: 1}, b)
}
