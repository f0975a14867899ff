package integrator

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
	"github.com/df07/go-pathtrace/pkg/scene"
)

// specularFollowLimit bounds how far AlbedoIntegrator follows mirror and
// glass chains looking for a rough surface
const specularFollowLimit = 8

// AlbedoIntegrator records the surface color a denoiser should preserve:
// the diffuse albedo of the first rough surface along the ray, looking
// through mirrors and glass. Emitters record their emission clamped to [0,1].
type AlbedoIntegrator struct{}

// RayColor returns the albedo for the first rough surface the ray reaches
func (AlbedoIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	for i := 0; i < specularFollowLimit; i++ {
		var hit material.HitRecord
		if !s.BVH.Hit(ray, 0.001, math.Inf(1), &hit) {
			return SanitizeColor(s.Background(ray))
		}
		if emitter, ok := hit.Material.(material.Emitter); ok {
			return emitter.Emit(ray, hit).Clamp(0, 1)
		}

		scatter, ok := hit.Material.Scatter(ray, hit, sampler)
		if !ok {
			return core.Vec3{}
		}
		if scatter.IsSpecular() {
			ray = scatter.Scattered
			continue
		}
		// Lambertian attenuation is albedo/π
		return scatter.Attenuation.Multiply(math.Pi).Clamp(0, 1)
	}
	return core.Vec3{}
}

// NormalIntegrator records world-space shading normals remapped from [-1,1]
// to [0,1] per component. Rays that miss everything record zero, which
// downstream consumers read as "no data".
type NormalIntegrator struct{}

// RayColor returns the remapped shading normal at the first hit
func (NormalIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	var hit material.HitRecord
	if !s.BVH.Hit(ray, 0.001, math.Inf(1), &hit) {
		return core.Vec3{}
	}

	normal := hit.Normal
	if scatter, ok := hit.Material.Scatter(ray, hit, sampler); ok {
		normal = scatter.ShadingNormal
	}
	return normal.Add(core.NewVec3(1, 1, 1)).Multiply(0.5)
}
