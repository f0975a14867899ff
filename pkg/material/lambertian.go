package material

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo    Texture // Base color/reflectance (solid or textured)
	NormalMap Texture // Optional tangent-space normal map, nil for none
}

// NewLambertian creates a new lambertian material with a solid color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with textures.
// normalMap may be nil.
func NewTexturedLambertian(albedo, normalMap Texture) *Lambertian {
	return &Lambertian{Albedo: albedo, NormalMap: normalMap}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	shadingNormal := mappedNormal(hit, l.NormalMap)

	// Cosine-weighted direction in the hemisphere around the shading normal
	scatterDirection := core.SampleCosineHemisphere(shadingNormal, sampler.Get2D())
	scattered := core.NewRay(hit.Point, scatterDirection)

	cosTheta := scatterDirection.Dot(shadingNormal)
	if cosTheta < 0 {
		cosTheta = 0
	}
	pdf := cosTheta / math.Pi

	albedo := l.Albedo.Value(hit.U, hit.V, hit.Point)

	return ScatterResult{
		Incoming:      rayIn,
		Scattered:     scattered,
		Attenuation:   albedo.Multiply(1.0 / math.Pi), // BRDF: albedo/π
		PDF:           pdf,
		ShadingNormal: shadingNormal,
	}, true
}
