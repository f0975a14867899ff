package geometry

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

// Disc represents a flat circular surface defined by center, normal and radius
type Disc struct {
	Center   core.Vec3         // Center of the disc
	Normal   core.Vec3         // Unit normal of the disc plane
	Radius   float64           // Radius of the disc
	Material material.Material // Material of the disc
	frame    core.ONB          // In-plane basis for UV mapping and bounds
	bbox     core.AABB         // Cached padded bounding box
}

// NewDisc creates a new disc from its center, plane normal and radius
func NewDisc(center, normal core.Vec3, radius float64, mat material.Material) *Disc {
	frame := core.NewONB(normal)

	ue := frame.U.Multiply(radius)
	ve := frame.V.Multiply(radius)
	bbox := core.NewAABBFromPoints(
		center.Add(ue).Add(ve),
		center.Add(ue).Subtract(ve),
		center.Subtract(ue).Add(ve),
		center.Subtract(ue).Subtract(ve),
	).PadIfNeeded()

	return &Disc{
		Center:   center,
		Normal:   frame.W,
		Radius:   radius,
		Material: mat,
		frame:    frame,
		bbox:     bbox,
	}
}

// Hit tests if a ray intersects with the disc
func (d *Disc) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	denominator := ray.Direction.Dot(d.Normal)

	// Ray parallel to the disc's plane
	if math.Abs(denominator) < 1e-8 {
		return false
	}

	t := d.Normal.Dot(d.Center.Subtract(ray.Origin)) / denominator
	if t < tMin || t > tMax {
		return false
	}

	hitPoint := ray.At(t)
	offset := hitPoint.Subtract(d.Center)
	if offset.LengthSquared() > d.Radius*d.Radius {
		return false
	}

	hit.T = t
	hit.Point = hitPoint
	hit.Material = d.Material
	hit.U = float32(0.5 + offset.Dot(d.frame.U)/(2*d.Radius))
	hit.V = float32(0.5 + offset.Dot(d.frame.V)/(2*d.Radius))
	hit.SetFaceNormal(ray, d.Normal)

	return true
}

// Area returns the surface area of the disc
func (d *Disc) Area() float64 {
	return math.Pi * d.Radius * d.Radius
}

// BoundingBox returns the axis-aligned bounding box for this disc
func (d *Disc) BoundingBox() core.AABB {
	return d.bbox
}
