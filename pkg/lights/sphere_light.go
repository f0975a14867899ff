package lights

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/geometry"
	"github.com/df07/go-pathtrace/pkg/material"
)

// SphereLight represents a spherical area light
type SphereLight struct {
	*geometry.Sphere // Embed sphere for hit testing
}

// NewSphereLight creates a new spherical light
func NewSphereLight(center core.Vec3, radius float64, mat material.Material) *SphereLight {
	return &SphereLight{Sphere: geometry.NewSphere(center, radius, mat)}
}

// NewSphereLightFromSphere wraps an existing emissive sphere as a light
func NewSphereLightFromSphere(sphere *geometry.Sphere) *SphereLight {
	return &SphereLight{Sphere: sphere}
}

func (sl *SphereLight) Type() LightType {
	return LightTypeArea
}

// Sample implements the Light interface. Shading points outside the sphere
// sample the cone of directions it subtends; points inside sample the whole
// surface uniformly.
func (sl *SphereLight) Sample(point core.Vec3, sample core.Vec2) (LightSample, bool) {
	toCenter := sl.Center.Subtract(point)
	distanceToCenter := toCenter.Length()

	if distanceToCenter <= sl.Radius {
		return sl.sampleUniform(point, sample)
	}
	return sl.sampleCone(point, toCenter, distanceToCenter, sample)
}

// sampleUniform picks a uniform point on the whole surface, for shading
// points inside the sphere. Each surface point maps to a unique direction,
// so the area density converts directly to solid angle.
func (sl *SphereLight) sampleUniform(point core.Vec3, sample core.Vec2) (LightSample, bool) {
	localDir := core.SampleOnUnitSphere(sample)
	samplePoint := sl.Center.Add(localDir.Multiply(sl.Radius))

	toSample := samplePoint.Subtract(point)
	distance := toSample.Length()
	if distance < 1e-12 {
		return LightSample{}, false
	}
	direction := toSample.Multiply(1.0 / distance)

	// Resolve the surface crossing so UV and emission match a path hit
	ray := core.NewRay(point, direction)
	var hit material.HitRecord
	if !sl.Sphere.Hit(ray, 1e-4, math.Inf(1), &hit) {
		return LightSample{}, false
	}

	cosTheta := math.Abs(localDir.Dot(direction))
	if cosTheta < 1e-8 {
		return LightSample{}, false
	}

	areaPDF := 1.0 / (4.0 * math.Pi * sl.Radius * sl.Radius)
	solidAnglePDF := areaPDF * hit.T * hit.T / cosTheta

	emission := emitterRadiance(sl.Material, ray, hit.Point, localDir, hit.T, hit.U, hit.V)

	return LightSample{
		Point:     hit.Point,
		Normal:    localDir,
		Direction: direction,
		Distance:  hit.T,
		Emission:  emission,
		PDF:       solidAnglePDF,
	}, true
}

// sampleCone samples the cone of directions subtended by the sphere as seen
// from an outside shading point
func (sl *SphereLight) sampleCone(point, toCenter core.Vec3, distanceToCenter float64, sample core.Vec2) (LightSample, bool) {
	sinThetaMax := sl.Radius / distanceToCenter
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))

	direction := core.SampleCone(toCenter.Multiply(1.0/distanceToCenter), cosThetaMax, sample)

	// Numerical grazing samples can slip past the sphere; discard them
	ray := core.NewRay(point, direction)
	var hit material.HitRecord
	if !sl.Sphere.Hit(ray, 0.001, math.Inf(1), &hit) {
		return LightSample{}, false
	}

	pdf := 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))

	outwardNormal := hit.Point.Subtract(sl.Center).Multiply(1.0 / sl.Radius)
	emission := emitterRadiance(sl.Material, ray, hit.Point, outwardNormal, hit.T, hit.U, hit.V)

	return LightSample{
		Point:     hit.Point,
		Normal:    outwardNormal,
		Direction: direction,
		Distance:  hit.T,
		Emission:  emission,
		PDF:       pdf,
	}, true
}

// PDF implements the Light interface, returning the density Sample would
// have for the given direction
func (sl *SphereLight) PDF(point, direction core.Vec3) float64 {
	ray := core.NewRay(point, direction)
	var hit material.HitRecord
	if !sl.Sphere.Hit(ray, 0.001, math.Inf(1), &hit) {
		return 0.0
	}

	toCenter := sl.Center.Subtract(point)
	distanceToCenter := toCenter.Length()

	if distanceToCenter <= sl.Radius {
		outwardNormal := hit.Point.Subtract(sl.Center).Multiply(1.0 / sl.Radius)
		cosTheta := math.Abs(outwardNormal.Dot(direction))
		if cosTheta < 1e-8 {
			return 0.0
		}
		areaPDF := 1.0 / (4.0 * math.Pi * sl.Radius * sl.Radius)
		return areaPDF * hit.T * hit.T / cosTheta
	}

	sinThetaMax := sl.Radius / distanceToCenter
	cosThetaMax := math.Sqrt(math.Max(0, 1.0-sinThetaMax*sinThetaMax))

	return 1.0 / (2.0 * math.Pi * (1.0 - cosThetaMax))
}
