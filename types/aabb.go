package types

import "math"

// An axis-aligned bounding box. A valid box satisfies Min <= Max for every
// component; zero-volume boxes are legal.
type AABB struct {
	Min Vec3
	Max Vec3
}

// Create an empty (inverted) box that acts as the identity for Union and Extend.
func EmptyAABB() AABB {
	return AABB{
		Min: Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Create the tightest box containing all supplied points.
func AABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = box.Extend(p)
	}
	return box
}

// Grow the box so it contains point p.
func (b AABB) Extend(p Vec3) AABB {
	return AABB{Min: MinVec3(b.Min, p), Max: MaxVec3(b.Max, p)}
}

// Get the box that bounds both b and other.
func (b AABB) Union(other AABB) AABB {
	return AABB{Min: MinVec3(b.Min, other.Min), Max: MaxVec3(b.Max, other.Max)}
}

// Returns true if Min <= Max on every axis. Boxes containing NaNs are invalid.
func (b AABB) IsValid() bool {
	for axis := XAxis; axis <= ZAxis; axis++ {
		if !(b.Min[axis] <= b.Max[axis]) {
			return false
		}
	}
	return true
}

// Get the box extent along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Get the box center.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Get the surface area of the box.
func (b AABB) SurfaceArea() float32 {
	side := b.Size()
	return 2.0 * (side[0]*side[1] + side[1]*side[2] + side[0]*side[2])
}

// Get the axis with the largest extent. Ties are resolved in X, Y, Z order.
func (b AABB) LongestAxis() Axis {
	side := b.Size()
	if side[0] >= side[1] && side[0] >= side[2] {
		return XAxis
	}
	if side[1] >= side[2] {
		return YAxis
	}
	return ZAxis
}

// Clip the box with an axis-aligned plane at dist and return the two halves.
// The split distance is clamped to the box extent.
func (b AABB) Split(axis Axis, dist float32) (left, right AABB) {
	if dist < b.Min[axis] {
		dist = b.Min[axis]
	} else if dist > b.Max[axis] {
		dist = b.Max[axis]
	}
	left, right = b, b
	left.Max[axis] = dist
	right.Min[axis] = dist
	return left, right
}

// Returns true if the boxes overlap, with each box grown by eps.
func (b AABB) Overlaps(other AABB, eps float32) bool {
	for axis := XAxis; axis <= ZAxis; axis++ {
		if b.Min[axis]-eps > other.Max[axis] || other.Min[axis]-eps > b.Max[axis] {
			return false
		}
	}
	return true
}

// Returns true if point p lies inside the box grown by eps.
func (b AABB) Contains(p Vec3, eps float32) bool {
	for axis := XAxis; axis <= ZAxis; axis++ {
		if p[axis] < b.Min[axis]-eps || p[axis] > b.Max[axis]+eps {
			return false
		}
	}
	return true
}

// Intersect a ray with the box using the slab method. The returned interval
// is clamped so that tEnter >= 0; ok is false if the ray misses the box or the
// box lies entirely behind the ray origin.
func (b AABB) IntersectRay(r Ray) (tEnter, tExit float32, ok bool) {
	tEnter = 0
	tExit = math.MaxFloat32
	for axis := XAxis; axis <= ZAxis; axis++ {
		// Parallel rays only need an origin containment test for this slab
		if r.Dir[axis] == 0 {
			if r.Origin[axis] < b.Min[axis] || r.Origin[axis] > b.Max[axis] {
				return 0, 0, false
			}
			continue
		}

		t0 := (b.Min[axis] - r.Origin[axis]) * r.InvDir[axis]
		t1 := (b.Max[axis] - r.Origin[axis]) * r.InvDir[axis]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tEnter {
			tEnter = t0
		}
		if t1 < tExit {
			tExit = t1
		}
		if tEnter > tExit {
			return 0, 0, false
		}
	}

	return tEnter, tExit, true
}
