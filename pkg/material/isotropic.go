package material

import (
	"github.com/df07/go-pathtrace/pkg/core"
)

// Isotropic scatters rays uniformly in all directions, used as the phase
// function for participating media like smoke and fog.
type Isotropic struct {
	Albedo Texture
}

// NewIsotropic creates an isotropic volume material
func NewIsotropic(albedo core.Vec3) *Isotropic {
	return &Isotropic{Albedo: NewSolidColor(albedo)}
}

// NewTexturedIsotropic creates an isotropic volume material with a textured albedo
func NewTexturedIsotropic(albedo Texture) *Isotropic {
	return &Isotropic{Albedo: albedo}
}

// Scatter implements the Material interface by picking a uniformly random
// outgoing direction. The uniform phase function 1/(4π) cancels against the
// uniform sampling pdf, so attenuation is the bare albedo with PDF 0 and no
// cosine term applies.
func (i *Isotropic) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	direction := core.SampleOnUnitSphere(sampler.Get2D())
	scattered := core.NewRay(hit.Point, direction)

	return ScatterResult{
		Incoming:      rayIn,
		Scattered:     scattered,
		Attenuation:   i.Albedo.Value(hit.U, hit.V, hit.Point),
		PDF:           0,
		ShadingNormal: hit.Normal,
	}, true
}
