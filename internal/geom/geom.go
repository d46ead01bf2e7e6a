// Package geom provides the small amount of 3-D geometry the voxelizer
// needs: float32 vectors, axis-aligned boxes, triangles with UVs, an exact
// triangle/box separating-axis test and a bounding-volume hierarchy over
// triangle soups.
package geom

import "math"

// Vec3 is a 3-component float32 vector.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z} }

// Scale returns v * s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the dot product of v and w.
func (v Vec3) Dot(w Vec3) float32 { return v.X*w.X + v.Y*w.Y + v.Z*w.Z }

// Cross returns the cross product of v and w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Dist returns the Euclidean distance between v and w.
func (v Vec3) Dist(w Vec3) float32 {
	d := v.Sub(w)
	return float32(math.Sqrt(float64(d.Dot(d))))
}

// Axis returns component i (0=X, 1=Y, 2=Z).
func (v Vec3) Axis(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Min returns the component-wise minimum of v and w.
func (v Vec3) Min(w Vec3) Vec3 {
	return Vec3{min(v.X, w.X), min(v.Y, w.Y), min(v.Z, w.Z)}
}

// Max returns the component-wise maximum of v and w.
func (v Vec3) Max(w Vec3) Vec3 {
	return Vec3{max(v.X, w.X), max(v.Y, w.Y), max(v.Z, w.Z)}
}

// Vec2 is a 2-component float32 vector, used for texture coordinates.
type Vec2 struct {
	U, V float32
}

// AABB is an axis-aligned box spanning [Min, Max].
type AABB struct {
	Min, Max Vec3
}

// Overlaps reports whether the two boxes intersect, faces touching included.
func (a AABB) Overlaps(b AABB) bool {
	return !(a.Max.X < b.Min.X || a.Min.X > b.Max.X ||
		a.Max.Y < b.Min.Y || a.Min.Y > b.Max.Y ||
		a.Max.Z < b.Min.Z || a.Min.Z > b.Max.Z)
}

// Extend grows the box to contain p.
func (a *AABB) Extend(p Vec3) {
	a.Min = a.Min.Min(p)
	a.Max = a.Max.Max(p)
}

// Triangle is an input triangle with per-vertex texture coordinates and a
// material index into the loaded material table.
type Triangle struct {
	V0, V1, V2    Vec3
	UV0, UV1, UV2 Vec2
	MaterialIndex uint32
}

// Bounds returns the triangle's bounding box.
func (t Triangle) Bounds() AABB {
	return AABB{
		Min: t.V0.Min(t.V1).Min(t.V2),
		Max: t.V0.Max(t.V1).Max(t.V2),
	}
}

// Centroid returns the triangle's centroid.
func (t Triangle) Centroid() Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Scale(1.0 / 3.0)
}

// Barycentric returns the barycentric coordinates of p with respect to the
// triangle (v0, v1, v2). Degenerate triangles yield (1, 0, 0).
func Barycentric(p, v0, v1, v2 Vec3) Vec3 {
	e0 := v1.Sub(v0)
	e1 := v2.Sub(v0)
	e2 := p.Sub(v0)

	d00 := e0.Dot(e0)
	d01 := e0.Dot(e1)
	d11 := e1.Dot(e1)
	d20 := e2.Dot(e0)
	d21 := e2.Dot(e1)

	denom := d00*d11 - d01*d01
	if denom == 0 {
		return Vec3{X: 1}
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	return Vec3{X: 1 - v - w, Y: v, Z: w}
}
