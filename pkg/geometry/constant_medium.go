package geometry

import (
	"math"
	"math/rand"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

// ConstantMedium represents a volume of uniform density inside a boundary
// shape, such as smoke or fog. Rays passing through scatter probabilistically
// with an exponential free-flight distance; the phase function is the
// material (typically Isotropic).
type ConstantMedium struct {
	Boundary      Shape
	PhaseFunction material.Material
	negInvDensity float64
}

// NewConstantMedium creates a volume bounded by the given shape. Higher
// density scatters rays sooner; the boundary must be convex for correct
// entry/exit detection.
func NewConstantMedium(boundary Shape, density float64, phaseFunction material.Material) *ConstantMedium {
	return &ConstantMedium{
		Boundary:      boundary,
		PhaseFunction: phaseFunction,
		negInvDensity: -1.0 / density,
	}
}

// Hit samples a scattering event inside the boundary. Free-flight distance
// sampling draws from the process-wide random source, which keeps Hit safe
// for concurrent callers at the cost of per-tile reproducibility in scenes
// containing media.
func (cm *ConstantMedium) Hit(ray core.Ray, tMin, tMax float64, hit *material.HitRecord) bool {
	var entry, exit material.HitRecord

	// Entry point anywhere along the ray, including behind the origin for
	// rays starting inside the volume
	if !cm.Boundary.Hit(ray, math.Inf(-1), math.Inf(1), &entry) {
		return false
	}
	if !cm.Boundary.Hit(ray, entry.T+0.0001, math.Inf(1), &exit) {
		return false
	}

	tEnter := math.Max(entry.T, tMin)
	tExit := math.Min(exit.T, tMax)
	if tEnter >= tExit {
		return false
	}
	if tEnter < 0 {
		tEnter = 0
	}

	rayLength := ray.Direction.Length()
	distanceInside := (tExit - tEnter) * rayLength
	hitDistance := cm.negInvDensity * math.Log(rand.Float64())

	if hitDistance > distanceInside {
		return false
	}

	hit.T = tEnter + hitDistance/rayLength
	hit.Point = ray.At(hit.T)
	hit.Material = cm.PhaseFunction

	// Scattering direction is independent of the surface frame
	hit.Normal = core.NewVec3(1, 0, 0)
	hit.FrontFace = true
	hit.U, hit.V = 0, 0

	return true
}

// BoundingBox returns the bounds of the boundary shape
func (cm *ConstantMedium) BoundingBox() core.AABB {
	return cm.Boundary.BoundingBox()
}
