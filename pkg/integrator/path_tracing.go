package integrator

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/lights"
	"github.com/df07/go-pathtrace/pkg/material"
	"github.com/df07/go-pathtrace/pkg/scene"
)

// PathTracing implements unidirectional path tracing with next event
// estimation: at every diffuse bounce one light is sampled directly and the
// BSDF sample continues the path, with the two strategies combined by the
// power heuristic.
type PathTracing struct {
	MaxDepth            int
	RouletteStartBounce int  // First bounce at which Russian roulette may terminate a path
	LightSampling       bool // Disablable for pure BSDF sampling, mostly in tests
}

// NewPathTracing creates a path tracing integrator with light sampling enabled
func NewPathTracing(maxDepth, rouletteStartBounce int) *PathTracing {
	return &PathTracing{
		MaxDepth:            maxDepth,
		RouletteStartBounce: rouletteStartBounce,
		LightSampling:       true,
	}
}

// prevBounce describes how the current ray was generated. A bsdfPDF of zero
// marks camera rays and specular continuations, whose emission is never
// weighted against light sampling.
type prevBounce struct {
	point   core.Vec3
	bsdfPDF float64
}

// RayColor computes the radiance estimate for a single camera ray
func (pt *PathTracing) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	color := pt.rayColor(ray, s, sampler, pt.MaxDepth, core.NewVec3(1, 1, 1), prevBounce{})
	return SanitizeColor(color)
}

func (pt *PathTracing) rayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler, depth int, throughput core.Vec3, prev prevBounce) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	// Russian roulette: terminate dim paths early, compensate survivors
	rrCompensation := 1.0
	if bounce := pt.MaxDepth - depth; bounce >= pt.RouletteStartBounce {
		survival := math.Min(0.95, math.Max(0.5, throughput.Luminance()))
		if sampler.Get1D() > survival {
			return core.Vec3{}
		}
		rrCompensation = 1.0 / survival
	}

	var hit material.HitRecord
	if !s.BVH.Hit(ray, 0.001, math.Inf(1), &hit) {
		return s.Background(ray).Multiply(rrCompensation)
	}

	emitted := pt.emittedLight(ray, hit, s, prev)

	scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
	if !didScatter {
		return emitted.Multiply(rrCompensation)
	}

	var scattered core.Vec3
	if scatter.IsSpecular() {
		// Mirrors, glass and phase functions carry no density to weight
		// against, so the chain continues with plain attenuation
		newThroughput := throughput.MultiplyVec(scatter.Attenuation)
		scattered = scatter.Attenuation.MultiplyVec(
			pt.rayColor(scatter.Scattered, s, sampler, depth-1, newThroughput, prevBounce{}))
	} else {
		direct := pt.directLighting(s, scatter, hit, sampler)
		indirect := pt.indirectLighting(s, scatter, hit, sampler, depth, throughput)
		scattered = direct.Add(indirect)
	}

	return emitted.Add(scattered).Multiply(rrCompensation)
}

// emittedLight returns the emission at a hit. For hits reached by a diffuse
// BSDF sample the emission competes with light sampling for the same light,
// so it is weighted by the power heuristic over the two densities; the MIS
// pair to that weight lives in directLighting.
func (pt *PathTracing) emittedLight(ray core.Ray, hit material.HitRecord, s *scene.Scene, prev prevBounce) core.Vec3 {
	emitter, ok := hit.Material.(material.Emitter)
	if !ok {
		return core.Vec3{}
	}
	emitted := emitter.Emit(ray, hit)
	if prev.bsdfPDF <= 0 || !pt.LightSampling {
		return emitted
	}
	// Lights unknown to the sampler report zero density here and keep full weight
	lightPDF := s.LightSampler.PDF(prev.point, ray.Direction)
	return emitted.Multiply(core.PowerHeuristic(1, prev.bsdfPDF, 1, lightPDF))
}

// directLighting estimates direct illumination by sampling one light
func (pt *PathTracing) directLighting(s *scene.Scene, scatter material.ScatterResult, hit material.HitRecord, sampler core.Sampler) core.Vec3 {
	if !pt.LightSampling {
		return core.Vec3{}
	}

	ls, light, ok := s.LightSampler.Sample(hit.Point, sampler)
	if !ok {
		return core.Vec3{}
	}

	cosine := ls.Direction.Dot(scatter.ShadingNormal)
	if cosine <= 0 {
		return core.Vec3{}
	}

	// Shadow ray: anything strictly between the point and the light blocks it
	shadowRay := core.NewRay(hit.Point, ls.Direction)
	var shadowHit material.HitRecord
	if s.BVH.Hit(shadowRay, 0.001, ls.Distance-0.001, &shadowHit) {
		return core.Vec3{}
	}

	var weight, density float64
	if light.Type() == lights.LightTypeDelta {
		// Delta lights cannot be hit by BSDF samples, light sampling is
		// the only strategy and the sample density is the selection weight
		weight = 1.0
		density = ls.PDF
	} else {
		// Estimator density over all strategy outcomes that produce this
		// direction, which also keeps overlapping lights unbiased
		density = s.LightSampler.PDF(hit.Point, ls.Direction)
		bsdfPDF := cosine / math.Pi // Lambertian density toward the light
		weight = core.PowerHeuristic(1, density, 1, bsdfPDF)
	}
	if density <= 0 {
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(ls.Emission).Multiply(cosine * weight / density)
}

// indirectLighting continues the path along the BSDF sample. The incoming
// radiance is not weighted here; the next bounce weights its own emission
// against light sampling using the density recorded in prevBounce.
func (pt *PathTracing) indirectLighting(s *scene.Scene, scatter material.ScatterResult, hit material.HitRecord, sampler core.Sampler, depth int, throughput core.Vec3) core.Vec3 {
	if scatter.PDF <= 0 {
		return core.Vec3{}
	}

	cosine := scatter.Scattered.Direction.Dot(scatter.ShadingNormal)
	if cosine <= 0 {
		return core.Vec3{}
	}

	scale := cosine / scatter.PDF
	newThroughput := throughput.MultiplyVec(scatter.Attenuation).Multiply(scale)
	next := prevBounce{point: hit.Point, bsdfPDF: scatter.PDF}
	incoming := pt.rayColor(scatter.Scattered, s, sampler, depth-1, newThroughput, next)

	return scatter.Attenuation.Multiply(scale).MultiplyVec(incoming)
}
