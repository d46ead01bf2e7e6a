package geom

// Separating-axis triangle/box overlap after Akenine-Möller. The triangle is
// translated into the box-local frame, then 13 candidate axes are tested:
// the three box axes, nine cross products of box axes with triangle edges,
// and the triangle plane. All arithmetic is float32; a triangle that merely
// grazes a face counts as intersecting.

func planeBoxOverlap(normal, vert, maxbox Vec3) bool {
	var vmin, vmax Vec3
	for q := 0; q < 3; q++ {
		v := vert.Axis(q)
		var lo, hi float32
		if normal.Axis(q) > 0 {
			lo = -maxbox.Axis(q) - v
			hi = maxbox.Axis(q) - v
		} else {
			lo = maxbox.Axis(q) - v
			hi = -maxbox.Axis(q) - v
		}
		switch q {
		case 0:
			vmin.X, vmax.X = lo, hi
		case 1:
			vmin.Y, vmax.Y = lo, hi
		case 2:
			vmin.Z, vmax.Z = lo, hi
		}
	}
	if normal.Dot(vmin) > 0 {
		return false
	}
	return normal.Dot(vmax) >= 0
}

// axisTest projects two triangle vertices onto a cross-product axis and
// compares against the box radius along the same axis.
func axisTest(p0, p1, rad float32) bool {
	lo, hi := p0, p1
	if lo > hi {
		lo, hi = hi, p0
	}
	return !(lo > rad || hi < -rad)
}

// TriBoxOverlap reports whether the triangle (v0, v1, v2) intersects the box
// given by its center and half-size.
func TriBoxOverlap(v0, v1, v2, boxCenter, halfSize Vec3) bool {
	tv0 := v0.Sub(boxCenter)
	tv1 := v1.Sub(boxCenter)
	tv2 := v2.Sub(boxCenter)

	// Box axes: the triangle AABB against the box.
	triMin := tv0.Min(tv1).Min(tv2)
	triMax := tv0.Max(tv1).Max(tv2)
	if triMin.X > halfSize.X || triMax.X < -halfSize.X {
		return false
	}
	if triMin.Y > halfSize.Y || triMax.Y < -halfSize.Y {
		return false
	}
	if triMin.Z > halfSize.Z || triMax.Z < -halfSize.Z {
		return false
	}

	e0 := tv1.Sub(tv0)
	e1 := tv2.Sub(tv1)
	e2 := tv0.Sub(tv2)

	abs := func(f float32) float32 {
		if f < 0 {
			return -f
		}
		return f
	}

	// Nine cross-product axes, three per edge.
	fex, fey, fez := abs(e0.X), abs(e0.Y), abs(e0.Z)
	if !axisTest(e0.Z*tv0.Y-e0.Y*tv0.Z, e0.Z*tv2.Y-e0.Y*tv2.Z, fez*halfSize.Y+fey*halfSize.Z) {
		return false
	}
	if !axisTest(-e0.Z*tv0.X+e0.X*tv0.Z, -e0.Z*tv2.X+e0.X*tv2.Z, fez*halfSize.X+fex*halfSize.Z) {
		return false
	}
	if !axisTest(e0.Y*tv1.X-e0.X*tv1.Y, e0.Y*tv2.X-e0.X*tv2.Y, fey*halfSize.X+fex*halfSize.Y) {
		return false
	}

	fex, fey, fez = abs(e1.X), abs(e1.Y), abs(e1.Z)
	if !axisTest(e1.Z*tv0.Y-e1.Y*tv0.Z, e1.Z*tv2.Y-e1.Y*tv2.Z, fez*halfSize.Y+fey*halfSize.Z) {
		return false
	}
	if !axisTest(-e1.Z*tv0.X+e1.X*tv0.Z, -e1.Z*tv2.X+e1.X*tv2.Z, fez*halfSize.X+fex*halfSize.Z) {
		return false
	}
	if !axisTest(e1.Y*tv0.X-e1.X*tv0.Y, e1.Y*tv1.X-e1.X*tv1.Y, fey*halfSize.X+fex*halfSize.Y) {
		return false
	}

	fex, fey, fez = abs(e2.X), abs(e2.Y), abs(e2.Z)
	if !axisTest(e2.Z*tv0.Y-e2.Y*tv0.Z, e2.Z*tv1.Y-e2.Y*tv1.Z, fez*halfSize.Y+fey*halfSize.Z) {
		return false
	}
	if !axisTest(-e2.Z*tv0.X+e2.X*tv0.Z, -e2.Z*tv1.X+e2.X*tv1.Z, fez*halfSize.X+fex*halfSize.Z) {
		return false
	}
	if !axisTest(e2.Y*tv1.X-e2.X*tv1.Y, e2.Y*tv2.X-e2.X*tv2.Y, fey*halfSize.X+fex*halfSize.Y) {
		return false
	}

	// Triangle plane against the box.
	normal := e0.Cross(e1)
	return planeBoxOverlap(normal, tv0, halfSize)
}
