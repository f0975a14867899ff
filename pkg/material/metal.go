package material

import (
	"github.com/df07/go-pathtrace/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo    Texture // Metal color
	Fuzz      float64 // 0.0 = perfect mirror, 1.0 = very fuzzy
	NormalMap Texture // Optional tangent-space normal map, nil for none
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzz float64) *Metal {
	return &Metal{Albedo: NewSolidColor(albedo), Fuzz: clampFuzz(fuzz)}
}

// NewTexturedMetal creates a new metal material with textures. normalMap may be nil.
func NewTexturedMetal(albedo Texture, fuzz float64, normalMap Texture) *Metal {
	return &Metal{Albedo: albedo, Fuzz: clampFuzz(fuzz), NormalMap: normalMap}
}

func clampFuzz(fuzz float64) float64 {
	return max(0.0, min(1.0, fuzz))
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	shadingNormal := mappedNormal(hit, m.NormalMap)

	reflected := reflect(rayIn.Direction.Normalize(), shadingNormal)

	// Fuzziness perturbs the reflection direction
	if m.Fuzz > 0 {
		perturbation := core.SamplePointInUnitSphere(sampler.Get3D()).Multiply(m.Fuzz)
		reflected = reflected.Add(perturbation)
	}

	scattered := core.NewRay(hit.Point, reflected)

	// A perturbed reflection that re-enters the surface is absorbed
	scatters := scattered.Direction.Dot(hit.Normal) > 0

	return ScatterResult{
		Incoming:      rayIn,
		Scattered:     scattered,
		Attenuation:   m.Albedo.Value(hit.U, hit.V, hit.Point),
		PDF:           0, // Specular materials have no PDF
		ShadingNormal: shadingNormal,
	}, scatters
}

// reflect calculates the reflection of a vector v off a surface with normal n
func reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
