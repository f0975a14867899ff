package lights

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/geometry"
	"github.com/df07/go-pathtrace/pkg/material"
)

// QuadLight represents a rectangular area light
type QuadLight struct {
	*geometry.Quad // Embed quad for hit testing
}

// NewQuadLight creates a new quad light
func NewQuadLight(corner, u, v core.Vec3, mat material.Material) *QuadLight {
	return &QuadLight{Quad: geometry.NewQuad(corner, u, v, mat)}
}

// NewQuadLightFromQuad wraps an existing emissive quad as a light
func NewQuadLightFromQuad(quad *geometry.Quad) *QuadLight {
	return &QuadLight{Quad: quad}
}

func (ql *QuadLight) Type() LightType {
	return LightTypeArea
}

// Sample implements the Light interface, drawing a uniform point on the quad
func (ql *QuadLight) Sample(point core.Vec3, sample core.Vec2) (LightSample, bool) {
	// Sample uniformly on the quad surface
	samplePoint := ql.Corner.Add(ql.U.Multiply(sample.X)).Add(ql.V.Multiply(sample.Y))

	toLight := samplePoint.Subtract(point)
	distance := toLight.Length()
	if distance < 1e-12 {
		return LightSample{}, false
	}
	direction := toLight.Multiply(1.0 / distance)

	// Convert the uniform area density to solid angle:
	// pdf_solid = pdf_area * distance² / |cos(θ)| with θ at the light
	cosTheta := math.Abs(ql.Normal.Dot(direction))
	if cosTheta < 1e-8 {
		// Light is edge-on, no contribution
		return LightSample{}, false
	}
	solidAnglePDF := distance * distance / (cosTheta * ql.Area())

	ray := core.NewRay(point, direction)
	emission := emitterRadiance(ql.Material, ray, samplePoint, ql.Normal, distance,
		float32(sample.X), float32(sample.Y))

	return LightSample{
		Point:     samplePoint,
		Normal:    ql.Normal,
		Direction: direction,
		Distance:  distance,
		Emission:  emission,
		PDF:       solidAnglePDF,
	}, true
}

// PDF implements the Light interface, returning the density Sample would
// have for the given direction
func (ql *QuadLight) PDF(point, direction core.Vec3) float64 {
	ray := core.NewRay(point, direction)
	var hit material.HitRecord
	if !ql.Quad.Hit(ray, 0.001, math.Inf(1), &hit) {
		return 0.0
	}

	cosTheta := math.Abs(ql.Normal.Dot(direction))
	if cosTheta < 1e-8 {
		return 0.0
	}

	return hit.T * hit.T / (cosTheta * ql.Area())
}
