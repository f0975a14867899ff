package material

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
)

// Dielectric represents a transparent material like glass that can both
// reflect and refract
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction (e.g., 1.5 for glass)
	Albedo          Texture // Tint applied to transmitted and reflected light
}

// NewDielectric creates a clear dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{
		RefractiveIndex: refractiveIndex,
		Albedo:          NewSolidColor(core.NewVec3(1, 1, 1)),
	}
}

// NewTintedDielectric creates a dielectric with a color tint
func NewTintedDielectric(refractiveIndex float64, albedo core.Vec3) *Dielectric {
	return &Dielectric{
		RefractiveIndex: refractiveIndex,
		Albedo:          NewSolidColor(albedo),
	}
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	attenuation := d.Albedo.Value(hit.U, hit.V, hit.Point)

	// Entering or exiting the material determines the relative index
	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex
	} else {
		refractionRatio = d.RefractiveIndex
	}

	unitDirection := rayIn.Direction.Normalize()

	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	// Beyond the critical angle refraction is impossible and the ray
	// must reflect (total internal reflection)
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = reflect(unitDirection, hit.Normal)
	} else {
		direction = refract(unitDirection, hit.Normal, refractionRatio)
	}

	scattered := core.NewRay(hit.Point, direction)

	return ScatterResult{
		Incoming:      rayIn,
		Scattered:     scattered,
		Attenuation:   attenuation,
		PDF:           0, // Specular materials have no PDF
		ShadingNormal: hit.Normal,
	}, true
}

// refract calculates the refraction of a vector using Snell's law
func refract(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
