package geometry

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

// Cone is a finite cone or conical frustum, optionally closed by end caps.
// A TopRadius of zero gives a pointed cone.
type Cone struct {
	BaseCenter core.Vec3
	BaseRadius float64
	TopCenter  core.Vec3
	TopRadius  float64
	Capped     bool
	Material   material.Material

	axis     core.Vec3 // Unit vector from base to top
	height   float64
	tanAngle float64   // Slope of the side surface
	apex     core.Vec3 // Tip of the unbounded cone, beyond the top for frustums
	frame    core.ONB  // Basis about the axis anchoring the u coordinate
	bbox     core.AABB
}

// NewCone creates a cone from base to top. The base radius must exceed the
// top radius; equal radii are a cylinder, not a cone.
func NewCone(baseCenter core.Vec3, baseRadius float64, topCenter core.Vec3, topRadius float64, capped bool, mat material.Material) (*Cone, error) {
	if baseRadius <= 0 {
		return nil, core.NewConstructionError(nil, "cone base radius %g is not positive", baseRadius)
	}
	if topRadius < 0 {
		return nil, core.NewConstructionError(nil, "cone top radius %g is negative", topRadius)
	}
	if baseRadius <= topRadius {
		return nil, core.NewConstructionError(nil, "cone base radius %g does not exceed top radius %g", baseRadius, topRadius)
	}

	axisVector := topCenter.Subtract(baseCenter)
	height := axisVector.Length()
	if height <= 0 {
		return nil, core.NewConstructionError(nil, "cone base and top centers coincide")
	}

	axis := axisVector.Normalize()
	tanAngle := (baseRadius - topRadius) / height

	// A frustum's apex sits beyond the top, where the side surface would
	// shrink to radius zero
	apex := topCenter
	if topRadius > 0 {
		apex = topCenter.Add(axis.Multiply(topRadius * height / (baseRadius - topRadius)))
	}

	c := &Cone{
		BaseCenter: baseCenter,
		BaseRadius: baseRadius,
		TopCenter:  topCenter,
		TopRadius:  topRadius,
		Capped:     capped,
		Material:   mat,
		axis:       axis,
		height:     height,
		tanAngle:   tanAngle,
		apex:       apex,
		frame:      core.NewONB(axis),
	}
	c.bbox = cylinderBounds(baseCenter, topCenter, axis, baseRadius)
	return c, nil
}

// Hit tests if a ray intersects the cone's side surface or, when capped, its end discs
func (c *Cone) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	hitAnything := false
	closestSoFar := tMax

	if c.hitBody(ray, tMin, closestSoFar, hit) {
		hitAnything = true
		closestSoFar = hit.T
	}

	if c.Capped {
		if c.hitCap(ray, c.BaseCenter, c.axis.Negate(), c.BaseRadius, tMin, closestSoFar, hit) {
			hitAnything = true
			closestSoFar = hit.T
		}
		// Pointed cones have no top disc to close
		if c.TopRadius > 0 {
			if c.hitCap(ray, c.TopCenter, c.axis, c.TopRadius, tMin, closestSoFar, hit) {
				hitAnything = true
			}
		}
	}

	return hitAnything
}

// hitBody intersects the curved side surface
func (c *Cone) hitBody(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	co := ray.Origin.Subtract(c.apex)
	dv := ray.Direction.Dot(c.axis)
	cov := co.Dot(c.axis)

	// Quadratic in t for the angle against the axis reaching the cone angle
	k := 1 + c.tanAngle*c.tanAngle
	a := ray.Direction.LengthSquared() - k*dv*dv
	b := 2.0 * (ray.Direction.Dot(co) - k*dv*cov)
	cc := co.LengthSquared() - k*cov*cov

	const epsilon = 1e-8
	if math.Abs(a) < epsilon {
		// Ray runs along the surface slope
		return false
	}

	discriminant := b*b - 4*a*cc
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)

	for _, t := range [2]float64{(-b - sqrtD) / (2 * a), (-b + sqrtD) / (2 * a)} {
		if t < tMin || t > tMax {
			continue
		}
		point := ray.At(t)

		h := point.Subtract(c.BaseCenter).Dot(c.axis)
		if h < -epsilon || h > c.height+epsilon {
			continue
		}
		// The quadratic also matches the mirror cone past the apex
		if point.Subtract(c.apex).Dot(c.axis) > epsilon {
			continue
		}

		axisPoint := c.BaseCenter.Add(c.axis.Multiply(h))
		radial := point.Subtract(axisPoint)
		outwardNormal := radial.Add(c.axis.Multiply(c.tanAngle * radial.Length())).Normalize()

		hit.T = t
		hit.Point = point
		hit.Material = c.Material
		hit.U, hit.V = c.uv(radial, h)
		hit.SetFaceNormal(ray, outwardNormal)
		return true
	}
	return false
}

// hitCap intersects a circular end disc
func (c *Cone) hitCap(ray core.Ray, center, normal core.Vec3, radius, tMin, tMax float64, hit *material.HitRecord) bool {
	const epsilon = 1e-8

	denom := ray.Direction.Dot(normal)
	if math.Abs(denom) < epsilon {
		return false
	}

	t := center.Subtract(ray.Origin).Dot(normal) / denom
	if t < tMin || t > tMax {
		return false
	}

	point := ray.At(t)
	radial := point.Subtract(center)
	if radial.Length() > radius {
		return false
	}

	hit.T = t
	hit.Point = point
	hit.Material = c.Material
	// Planar cap coordinates, disc center at (0.5, 0.5)
	hit.U = float32(radial.Dot(c.frame.U)/(2*radius) + 0.5)
	hit.V = float32(radial.Dot(c.frame.V)/(2*radius) + 0.5)
	hit.SetFaceNormal(ray, normal)
	return true
}

// uv wraps u around the axis and runs v from base to top
func (c *Cone) uv(radial core.Vec3, h float64) (float32, float32) {
	phi := math.Atan2(radial.Dot(c.frame.V), radial.Dot(c.frame.U))
	u := (phi + math.Pi) / (2 * math.Pi)
	return float32(u), float32(h / c.height)
}

// BoundingBox returns the axis-aligned bounding box for this cone
func (c *Cone) BoundingBox() core.AABB {
	return c.bbox
}
