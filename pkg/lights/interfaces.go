package lights

import (
	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

type LightType string

const (
	// LightTypeArea lights have surface area and can be hit by path rays
	LightTypeArea LightType = "area"
	// LightTypeDelta lights occupy a single direction and are never hittable
	LightTypeDelta LightType = "delta"
)

// Light interface for sources that can be sampled for direct lighting
type Light interface {
	Type() LightType

	// Sample draws a point on the light for direct lighting of the given
	// shading point. Direction points FROM the shading point TO the light.
	// Returns false when the sample carries no usable contribution.
	Sample(point core.Vec3, sample core.Vec2) (LightSample, bool)

	// PDF returns the solid-angle probability density of sampling the given
	// direction from the shading point. Delta lights return 0: scattering
	// can never generate their direction.
	PDF(point core.Vec3, direction core.Vec3) float64
}

// LightSample contains information about a sampled point on a light
type LightSample struct {
	Point     core.Vec3 // Point on the light source
	Normal    core.Vec3 // Outward normal at the light sample point
	Direction core.Vec3 // Unit direction from shading point to light
	Distance  float64   // Distance to the light, +Inf for delta lights
	Emission  core.Vec3 // Radiance arriving from the light
	PDF       float64   // Solid-angle density of this sample
}

// emitterRadiance evaluates an area light's material emission toward a
// receiver. The synthetic hit record carries the sample's surface frame so
// front-face gating and distance attenuation match what a path ray hitting
// the same point would see. Non-emissive materials yield zero.
func emitterRadiance(mat material.Material, ray core.Ray, samplePoint, outwardNormal core.Vec3, distance float64, u, v float32) core.Vec3 {
	emitter, ok := mat.(material.Emitter)
	if !ok {
		return core.NewVec3(0, 0, 0)
	}

	hit := material.HitRecord{
		Point:    samplePoint,
		T:        distance,
		U:        u,
		V:        v,
		Material: mat,
	}
	hit.SetFaceNormal(ray, outwardNormal)

	return emitter.Emit(ray, hit)
}
