package lights

import (
	"github.com/df07/go-pathtrace/pkg/core"
)

// UniformLightSampler selects among scene lights with equal probability.
// Sampled PDFs are scaled by the selection probability so they compose
// directly into multiple importance sampling weights.
type UniformLightSampler struct {
	lights []Light
}

// NewUniformLightSampler creates a sampler over the given lights
func NewUniformLightSampler(lights []Light) *UniformLightSampler {
	return &UniformLightSampler{lights: lights}
}

// LightCount returns the number of lights the sampler can select
func (uls *UniformLightSampler) LightCount() int {
	return len(uls.lights)
}

// Sample picks one light uniformly and samples it toward the shading point.
// The returned sample's PDF includes the selection probability. Returns
// false when there are no lights or the chosen light produced no usable
// sample.
func (uls *UniformLightSampler) Sample(point core.Vec3, sampler core.Sampler) (LightSample, Light, bool) {
	n := len(uls.lights)
	if n == 0 {
		return LightSample{}, nil, false
	}

	idx := int(sampler.Get1D() * float64(n))
	if idx >= n {
		idx = n - 1
	}
	light := uls.lights[idx]

	sample, ok := light.Sample(point, sampler.Get2D())
	if !ok {
		return LightSample{}, nil, false
	}
	sample.PDF *= 1.0 / float64(n)

	return sample, light, true
}

// PDF returns the total solid-angle density with which Sample generates the
// given direction from the shading point: the selection-weighted sum over
// every light. Delta lights contribute nothing.
func (uls *UniformLightSampler) PDF(point, direction core.Vec3) float64 {
	n := len(uls.lights)
	if n == 0 {
		return 0.0
	}

	total := 0.0
	for _, light := range uls.lights {
		total += light.PDF(point, direction)
	}
	return total / float64(n)
}
