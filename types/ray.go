package types

// A ray with a precomputed inverse direction. The direction does not need to
// be normalized; hit distances are expressed in multiples of its length.
type Ray struct {
	Origin Vec3
	Dir    Vec3
	InvDir Vec3
}

// Create a new ray.
func NewRay(origin, dir Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		InvDir: Vec3{1.0 / dir[0], 1.0 / dir[1], 1.0 / dir[2]},
	}
}

// Get the point at parametric distance t along the ray.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
