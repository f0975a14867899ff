package geometry

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

// Quad represents a rectangular surface defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3         // One corner of the quad
	U        core.Vec3         // First edge vector
	V        core.Vec3         // Second edge vector
	Normal   core.Vec3         // Normal vector (computed from U × V)
	Material material.Material // Material of the quad
	D        float64           // Plane equation constant: ax + by + cz = d
	W        core.Vec3         // Cached cross product for barycentric coordinates
	area     float64           // Cached surface area
	bbox     core.AABB         // Cached padded bounding box
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, mat material.Material) *Quad {
	cross := u.Cross(v)
	normal := cross.Normalize()

	// Plane equation constant: d = normal · corner
	d := normal.Dot(corner)

	// w vector for barycentric coordinate calculations
	w := normal.Multiply(1.0 / normal.Dot(cross))

	// Planar shapes produce degenerate-thin boxes, pad to give the slab
	// test something to hit
	bbox := core.NewAABBFromPoints(corner, corner.Add(u), corner.Add(v), corner.Add(u).Add(v)).PadIfNeeded()

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: mat,
		D:        d,
		W:        w,
		area:     cross.Length(),
		bbox:     bbox,
	}
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	denominator := ray.Direction.Dot(q.Normal)

	// Ray parallel to the quad's plane
	if math.Abs(denominator) < 1e-8 {
		return false
	}

	t := (q.D - ray.Origin.Dot(q.Normal)) / denominator
	if t < tMin || t > tMax {
		return false
	}

	// Barycentric coordinates of the plane hit within the quad
	hitPoint := ray.At(t)
	hitVector := hitPoint.Subtract(q.Corner)
	alpha := q.W.Dot(hitVector.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(hitVector))

	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return false
	}

	hit.T = t
	hit.Point = hitPoint
	hit.Material = q.Material
	hit.U = float32(alpha)
	hit.V = float32(beta)
	hit.SetFaceNormal(ray, q.Normal)

	return true
}

// Area returns the surface area of the quad
func (q *Quad) Area() float64 {
	return q.area
}

// BoundingBox returns the axis-aligned bounding box for this quad
func (q *Quad) BoundingBox() core.AABB {
	return q.bbox
}
