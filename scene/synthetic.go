package scene

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/seanjames777/raytracer/kdtree"
	"github.com/seanjames777/raytracer/types"
)

// The generator names accepted by Generate.
const (
	SoupScene   = "soup"
	GridScene   = "grid"
	SphereScene = "sphere"
)

var ErrUnknownScene = errors.New("scene: unknown synthetic scene")

// Generate a synthetic scene with approximately count triangles.
func Generate(name string, count int, seed int64) ([]kdtree.Triangle, error) {
	if count < 1 {
		return nil, errors.Errorf("scene: triangle count must be positive; got %d", count)
	}

	switch name {
	case SoupScene:
		// Keep the total triangle area roughly constant as count grows
		size := float32(0.5 / math.Cbrt(float64(count)))
		return RandomSoup(count, size, rand.New(rand.NewSource(seed))), nil
	case GridScene:
		return Grid(int(math.Ceil(math.Sqrt(float64(count) / 2)))), nil
	case SphereScene:
		segments := int(math.Ceil(math.Sqrt(float64(count))))
		if segments < 3 {
			segments = 3
		}
		rings := segments/2 + 1
		return Sphere(types.XYZ(0, 0, 0), 1, rings, segments), nil
	}
	return nil, errors.Wrapf(ErrUnknownScene, "%q", name)
}

// Generate count randomly oriented triangles with vertices within triSize of
// a center point uniformly distributed in the unit cube.
func RandomSoup(count int, triSize float32, rng *rand.Rand) []kdtree.Triangle {
	triangles := make([]kdtree.Triangle, count)
	for index := range triangles {
		center := types.XYZ(rng.Float32(), rng.Float32(), rng.Float32())
		tri := &triangles[index]
		for v := range tri.Vertices {
			offset := types.XYZ(rng.Float32()-0.5, rng.Float32()-0.5, rng.Float32()-0.5).Mul(triSize)
			tri.Vertices[v] = center.Add(offset)
		}
		tri.Material = uint32(index % 4)
	}
	return triangles
}

// Tessellate the unit square on the z=0 plane into resolution x resolution
// quads, each split into two triangles.
func Grid(resolution int) []kdtree.Triangle {
	if resolution < 1 {
		resolution = 1
	}

	step := 1.0 / float32(resolution)
	triangles := make([]kdtree.Triangle, 0, 2*resolution*resolution)
	for y := 0; y < resolution; y++ {
		for x := 0; x < resolution; x++ {
			x0, y0 := float32(x)*step, float32(y)*step
			x1, y1 := x0+step, y0+step
			triangles = append(triangles,
				kdtree.Triangle{Vertices: [3]types.Vec3{{x0, y0, 0}, {x1, y0, 0}, {x1, y1, 0}}},
				kdtree.Triangle{Vertices: [3]types.Vec3{{x0, y0, 0}, {x1, y1, 0}, {x0, y1, 0}}},
			)
		}
	}
	return triangles
}

// Tessellate a UV sphere. Quads touching the poles collapse into a single
// triangle and are emitted as zero-area triangles.
func Sphere(center types.Vec3, radius float32, rings, segments int) []kdtree.Triangle {
	point := func(ring, segment int) types.Vec3 {
		theta := math.Pi * float64(ring) / float64(rings)
		phi := 2 * math.Pi * float64(segment%segments) / float64(segments)
		return center.Add(types.XYZ(
			float32(math.Sin(theta)*math.Cos(phi)),
			float32(math.Cos(theta)),
			float32(math.Sin(theta)*math.Sin(phi)),
		).Mul(radius))
	}

	triangles := make([]kdtree.Triangle, 0, 2*rings*segments)
	for ring := 0; ring < rings; ring++ {
		for segment := 0; segment < segments; segment++ {
			p00, p01 := point(ring, segment), point(ring, segment+1)
			p10, p11 := point(ring+1, segment), point(ring+1, segment+1)
			triangles = append(triangles,
				kdtree.Triangle{Vertices: [3]types.Vec3{p00, p10, p11}, Material: uint32(ring)},
				kdtree.Triangle{Vertices: [3]types.Vec3{p00, p11, p01}, Material: uint32(ring)},
			)
		}
	}
	return triangles
}

// Generate a ray starting outside bounds and aimed at a random point inside
// them.
func RandomRay(bounds types.AABB, rng *rand.Rand) types.Ray {
	center := bounds.Center()
	radius := bounds.Size().Len()
	if radius == 0 {
		radius = 1
	}

	// Pick a uniformly distributed direction on the unit sphere
	z := 2*rng.Float32() - 1
	phi := 2 * math.Pi * rng.Float64()
	r := float32(math.Sqrt(float64(1 - z*z)))
	dir := types.XYZ(r*float32(math.Cos(phi)), r*float32(math.Sin(phi)), z)

	origin := center.Add(dir.Mul(radius))
	size := bounds.Size()
	target := bounds.Min.Add(types.XYZ(rng.Float32()*size[0], rng.Float32()*size[1], rng.Float32()*size[2]))
	return types.NewRay(origin, target.Sub(origin).Normalize())
}
