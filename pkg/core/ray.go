package core

// Ray represents a ray with an origin and direction.
// InvDirection caches the reciprocal direction for the AABB slab test;
// components of a zero direction axis are +Inf and handled there explicitly.
type Ray struct {
	Origin       Vec3
	Direction    Vec3
	InvDirection Vec3
}

// NewRay creates a new ray with the inverse direction precomputed
func NewRay(origin, direction Vec3) Ray {
	return Ray{
		Origin:       origin,
		Direction:    direction,
		InvDirection: Vec3{X: 1.0 / direction.X, Y: 1.0 / direction.Y, Z: 1.0 / direction.Z},
	}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
