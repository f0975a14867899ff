package material

import (
	"github.com/df07/go-pathtrace/pkg/core"
)

// Material interface for objects that can scatter rays
type Material interface {
	// Scatter generates a scattered ray for the given intersection, or
	// reports absorption. The sampler belongs to the calling worker.
	Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool)
}

// Emitter interface for materials that emit light
type Emitter interface {
	Emit(rayIn core.Ray, hit HitRecord) core.Vec3
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Incoming      core.Ray  // The incoming ray
	Scattered     core.Ray  // The scattered ray
	Attenuation   core.Vec3 // BSDF value for the sampled direction (albedo/π for diffuse, reflectance for specular)
	PDF           float64   // Probability density of the sampled direction (0 for specular materials)
	ShadingNormal core.Vec3 // Normal the material shaded with; differs from the geometric normal under normal mapping
}

// IsSpecular returns true if this is specular scattering (no PDF)
func (s ScatterResult) IsSpecular() bool {
	return s.PDF <= 0
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Geometric surface normal, oriented against the ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	U, V      float32   // Texture coordinates
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Multiply(-1)
	}
}

// mappedNormal returns the shading normal for hit, perturbed by the normal
// map when one is present. The geometric normal in hit stays untouched so
// face orientation and intersection offsets are unaffected.
func mappedNormal(hit HitRecord, normalMap Texture) core.Vec3 {
	if normalMap == nil {
		return hit.Normal
	}
	sample := normalMap.Value(hit.U, hit.V, hit.Point)
	tangentNormal := sample.Multiply(2).Subtract(core.NewVec3(1, 1, 1))
	return core.NewONB(hit.Normal).Local(tangentNormal).Normalize()
}
