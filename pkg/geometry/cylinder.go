package geometry

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

// Cylinder is a finite open-ended cylinder between two center points
type Cylinder struct {
	BaseCenter core.Vec3
	TopCenter  core.Vec3
	Radius     float64
	Material   material.Material

	axis   core.Vec3 // Unit vector from base to top
	height float64
	frame  core.ONB // Basis about the axis anchoring the u coordinate
	bbox   core.AABB
}

// NewCylinder creates a new cylinder
func NewCylinder(baseCenter, topCenter core.Vec3, radius float64, mat material.Material) *Cylinder {
	axisVector := topCenter.Subtract(baseCenter)
	height := axisVector.Length()
	axis := axisVector.Normalize()

	c := &Cylinder{
		BaseCenter: baseCenter,
		TopCenter:  topCenter,
		Radius:     radius,
		Material:   mat,
		axis:       axis,
		height:     height,
		frame:      core.NewONB(axis),
	}
	c.bbox = cylinderBounds(baseCenter, topCenter, axis, radius)
	return c
}

// cylinderBounds returns the box of the axis segment grown per world axis by
// the exact extent of the circular cross-section, radius*sqrt(1-(axis.e)^2)
func cylinderBounds(baseCenter, topCenter, axis core.Vec3, radius float64) core.AABB {
	extent := core.NewVec3(
		radius*math.Sqrt(math.Max(0, 1-axis.X*axis.X)),
		radius*math.Sqrt(math.Max(0, 1-axis.Y*axis.Y)),
		radius*math.Sqrt(math.Max(0, 1-axis.Z*axis.Z)),
	)
	segment := core.NewAABBFromPoints(baseCenter, topCenter)
	return core.NewAABB(segment.Min.Subtract(extent), segment.Max.Add(extent)).PadIfNeeded()
}

// Hit tests if a ray intersects the cylinder's side surface
func (c *Cylinder) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	delta := ray.Origin.Subtract(c.BaseCenter)
	dv := ray.Direction.Dot(c.axis)
	deltaV := delta.Dot(c.axis)

	// Quadratic in t for the distance from the axis reaching Radius
	a := ray.Direction.LengthSquared() - dv*dv
	b := 2.0 * (delta.Dot(ray.Direction) - deltaV*dv)
	cc := delta.LengthSquared() - deltaV*deltaV - c.Radius*c.Radius

	const epsilon = 1e-8
	if math.Abs(a) < epsilon {
		// Ray runs along the axis and never crosses the side surface
		return false
	}

	discriminant := b*b - 4*a*cc
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	// Nearest root within range and height bounds wins
	for _, t := range [2]float64{(-b - sqrtD) / (2 * a), (-b + sqrtD) / (2 * a)} {
		if t < tMin || t > tMax {
			continue
		}
		point := ray.At(t)
		h := point.Subtract(c.BaseCenter).Dot(c.axis)
		if h < 0 || h > c.height {
			continue
		}

		axisPoint := c.BaseCenter.Add(c.axis.Multiply(h))
		outwardNormal := point.Subtract(axisPoint).Normalize()

		hit.T = t
		hit.Point = point
		hit.Material = c.Material
		hit.U, hit.V = c.uv(outwardNormal, h)
		hit.SetFaceNormal(ray, outwardNormal)
		return true
	}
	return false
}

// uv wraps u around the axis and runs v from base to top
func (c *Cylinder) uv(outwardNormal core.Vec3, h float64) (float32, float32) {
	phi := math.Atan2(outwardNormal.Dot(c.frame.V), outwardNormal.Dot(c.frame.U))
	u := (phi + math.Pi) / (2 * math.Pi)
	return float32(u), float32(h / c.height)
}

// BoundingBox returns the axis-aligned bounding box for this cylinder
func (c *Cylinder) BoundingBox() core.AABB {
	return c.bbox
}
