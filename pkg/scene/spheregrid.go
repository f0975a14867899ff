package scene

import (
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/geometry"
	"github.com/df07/go-pathtrace/pkg/lights"
	"github.com/df07/go-pathtrace/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB.
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(r, g, blue)
}

// NewSphereGridScene creates a grid of metallic spheres colored across the
// OKLCH hue and chroma ranges, on a gray ground under a sky gradient with a
// warm sun light.
func NewSphereGridScene() *Scene {
	camera := geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(4.5, 6, 18),
		LookAt:      core.NewVec3(4.5, 0.8, 4.5),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40.0,
		AspectRatio: 16.0 / 9.0,
		Aperture:    0.02,
	})

	s := NewScene(camera)
	s.SetBackground(core.NewVec3(0.5, 0.7, 1.0), core.NewVec3(1.0, 1.0, 1.0))

	// Sun: high and to the side, warm white
	s.AddSphereLight(core.NewVec3(20, 25, 20), 8, core.NewVec3(12.0, 11.5, 10.0))

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.AddShape(NewGroundQuad(core.NewVec3(4.5, 0, 4.5), 200, ground))

	gridSize := 20

	// Fit the grid into roughly 9x9 units regardless of sphere count
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			// Center the grid around the camera's look-at point
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			// Hue varies across X, chroma across Z, lightness ripples diagonally
			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			roughness := 0.05 + 0.1*float64((i+j)%3)/2.0
			s.AddShape(geometry.NewSphere(position, sphereRadius, material.NewMetal(color, roughness)))
		}
	}

	return s
}

// NewSphereDirectionalScene creates a minimal diagnostic scene: a single
// Lambertian sphere against a flat gray background, lit by one directional
// light. Rays that miss the sphere see exactly the background color, and the
// gray is a dyadic value (0.125) so that per-pixel sample averages reproduce
// it bit for bit at any sample count.
func NewSphereDirectionalScene() *Scene {
	camera := geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 2),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        60.0,
		AspectRatio: 1.0,
	})

	s := NewScene(camera)
	s.SetBackground(core.NewVec3(0.125, 0.125, 0.125), core.NewVec3(0.125, 0.125, 0.125))
	s.AddShape(geometry.NewSphere(core.NewVec3(0, 0, 0), 0.5, material.NewLambertian(core.NewVec3(0.7, 0.7, 0.7))))
	s.AddLight(lights.NewDirectionalLight(core.NewVec3(-1, -1, -1), core.NewVec3(2, 2, 2)))
	return s
}
