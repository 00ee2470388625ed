package types

// A plane defined as the set of points p where Normal.Dot(p) == Dist.
type Plane struct {
	Normal Vec3
	Dist   float32
}

// Define the plane passing through three points. The normal follows the
// winding order of the points and is left unnormalized so its length equals
// twice the triangle area.
func PlaneFromPoints(p0, p1, p2 Vec3) Plane {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	return Plane{
		Normal: n,
		Dist:   n.Dot(p0),
	}
}

// Get the signed distance of point p to the plane, scaled by the normal length.
func (p Plane) SignedDistance(point Vec3) float32 {
	return p.Normal.Dot(point) - p.Dist
}

// Intersect a ray with the plane. Returns false if the ray is parallel to it.
func (p Plane) IntersectRay(r Ray) (t float32, ok bool) {
	denom := p.Normal.Dot(r.Dir)
	if denom == 0 {
		return 0, false
	}
	return (p.Dist - p.Normal.Dot(r.Origin)) / denom, true
}
