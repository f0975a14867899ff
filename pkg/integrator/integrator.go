package integrator

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/scene"
)

// Integrator defines the interface for light transport algorithms. The scene
// must be preprocessed before rays are traced; the sampler belongs to the
// calling worker.
type Integrator interface {
	// RayColor computes the radiance estimate for a single camera ray
	RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3
}

// maxSampleComponent caps single-sample radiance to suppress fireflies
const maxSampleComponent = 3.0

// SanitizeColor filters a radiance sample before it enters a pixel
// accumulator: NaN, infinite and negative components become zero, and
// components are clamped to maxSampleComponent.
func SanitizeColor(c core.Vec3) core.Vec3 {
	return core.NewVec3(sanitizeComponent(c.X), sanitizeComponent(c.Y), sanitizeComponent(c.Z))
}

func sanitizeComponent(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > maxSampleComponent {
		return maxSampleComponent
	}
	return v
}
