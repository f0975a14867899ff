package lights

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
)

// DirectionalLight is a delta light emitting parallel rays from infinitely
// far away, like sunlight. It has no surface: path rays never hit it, and
// shadow rays toward it test the whole half-line for occlusion.
type DirectionalLight struct {
	Direction core.Vec3 // Unit direction the light travels, from light toward scene
	Emission  core.Vec3 // Radiance delivered along that direction
}

// NewDirectionalLight creates a directional light. direction is the
// direction the light travels; sunlight falling straight down is (0,-1,0).
func NewDirectionalLight(direction, emission core.Vec3) *DirectionalLight {
	return &DirectionalLight{
		Direction: direction.Normalize(),
		Emission:  emission,
	}
}

func (dl *DirectionalLight) Type() LightType {
	return LightTypeDelta
}

// Sample implements the Light interface. The returned direction is fixed and
// the distance infinite; PDF 1 reflects the Dirac density of a delta light.
func (dl *DirectionalLight) Sample(point core.Vec3, sample core.Vec2) (LightSample, bool) {
	toLight := dl.Direction.Multiply(-1)

	return LightSample{
		Point:     point.Add(toLight),
		Normal:    dl.Direction,
		Direction: toLight,
		Distance:  math.Inf(1),
		Emission:  dl.Emission,
		PDF:       1.0,
	}, true
}

// PDF implements the Light interface. Scattered rays can never align with a
// delta light's single direction, so its density for MIS is zero.
func (dl *DirectionalLight) PDF(point, direction core.Vec3) float64 {
	return 0.0
}
