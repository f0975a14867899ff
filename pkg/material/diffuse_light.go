package material

import (
	"github.com/df07/go-pathtrace/pkg/core"
)

// DiffuseLight is an emissive material that radiates light from its front face.
// AttenuationFactor optionally dims emission with distance along the viewing
// ray: radiance is scaled by 1/(1+factor*distance). A factor of 0 gives the
// usual distance-independent emitter.
type DiffuseLight struct {
	Emission          Texture
	AttenuationFactor float64
}

// NewDiffuseLight creates an emissive material with uniform radiance
func NewDiffuseLight(emission core.Vec3) *DiffuseLight {
	return &DiffuseLight{Emission: NewSolidColor(emission)}
}

// NewTexturedDiffuseLight creates an emissive material whose radiance varies
// over the surface
func NewTexturedDiffuseLight(emission Texture) *DiffuseLight {
	return &DiffuseLight{Emission: emission}
}

// NewAttenuatedDiffuseLight creates an emissive material that dims with
// distance from the viewer
func NewAttenuatedDiffuseLight(emission core.Vec3, attenuationFactor float64) *DiffuseLight {
	return &DiffuseLight{
		Emission:          NewSolidColor(emission),
		AttenuationFactor: attenuationFactor,
	}
}

// Scatter implements the Material interface. Lights don't scatter rays.
func (dl *DiffuseLight) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	return ScatterResult{}, false
}

// Emit implements the Emitter interface. Only the front face emits.
func (dl *DiffuseLight) Emit(rayIn core.Ray, hit HitRecord) core.Vec3 {
	if !hit.FrontFace {
		return core.NewVec3(0, 0, 0)
	}
	return dl.EmittedRadiance(hit.U, hit.V, hit.Point, hit.T)
}

// EmittedRadiance returns the radiance leaving the surface at (u,v) toward a
// receiver at the given distance. Light sampling uses this directly so that
// next-event estimation and path hits agree on attenuated emitters.
func (dl *DiffuseLight) EmittedRadiance(u, v float32, p core.Vec3, distance float64) core.Vec3 {
	radiance := dl.Emission.Value(u, v, p)
	if dl.AttenuationFactor > 0 {
		radiance = radiance.Multiply(1.0 / (1.0 + dl.AttenuationFactor*distance))
	}
	return radiance
}
