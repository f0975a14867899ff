package scene

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/geometry"
	"github.com/df07/go-pathtrace/pkg/lights"
	"github.com/df07/go-pathtrace/pkg/material"
)

// bumpHeightMap builds a grayscale egg-crate height pattern for bump mapping
func bumpHeightMap(size int) image.Image {
	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx := float64(x) / float64(size)
			fy := float64(y) / float64(size)
			h := 0.5 + 0.5*math.Sin(fx*8*math.Pi)*math.Sin(fy*8*math.Pi)
			img.SetGray(x, y, color.Gray{Y: uint8(h * 255)})
		}
	}
	return img
}

// pyramidMesh builds a small four-sided pyramid as an indexed triangle mesh
func pyramidMesh(transform *geometry.Transformer, mat material.Material) (*geometry.TriangleMesh, error) {
	vertices := []core.Vec3{
		core.NewVec3(-1, 0, -1),
		core.NewVec3(1, 0, -1),
		core.NewVec3(1, 0, 1),
		core.NewVec3(-1, 0, 1),
		core.NewVec3(0, 1.6, 0),
	}
	// Sides wound counter-clockwise seen from outside, base facing down
	indices := []int32{
		3, 2, 4,
		2, 1, 4,
		1, 0, 4,
		0, 3, 4,
		0, 1, 2,
		0, 2, 3,
	}
	return geometry.NewTriangleMesh(vertices, indices, nil, nil, transform, mat)
}

// NewShowcaseScene creates a scene exercising every material kind: checkered
// ground, bump-mapped clay, tinted glass, metal, a brushed cylinder, a capped
// cone, a mirror disc, a mesh pyramid and a fog ball, lit by a
// distance-attenuated sphere light under a soft sky.
func NewShowcaseScene() *Scene {
	camera := geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 3.2, 10),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        45.0,
		AspectRatio: 16.0 / 9.0,
	})

	s := NewScene(camera)
	s.SetBackground(core.NewVec3(0.4, 0.55, 0.8), core.NewVec3(0.9, 0.9, 0.95))

	// Checkered ground
	checker := material.NewChecker(2.0, core.NewVec3(0.8, 0.8, 0.8), core.NewVec3(0.25, 0.3, 0.35))
	s.AddShape(NewGroundQuad(core.NewVec3(0, 0, 0), 100, material.NewTexturedLambertian(checker, nil)))

	// Bump-mapped clay sphere
	clay := material.NewTexturedLambertian(
		material.NewSolidColor(core.NewVec3(0.7, 0.4, 0.3)),
		material.NewNormalFromHeightMap(bumpHeightMap(256)),
	)
	s.AddShape(geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, clay))

	// Tinted glass sphere
	s.AddShape(geometry.NewSphere(core.NewVec3(-2, 1, 0), 1, material.NewTintedDielectric(1.5, core.NewVec3(0.9, 0.95, 1.0))))

	// Polished gold sphere
	s.AddShape(geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewMetal(core.NewVec3(0.9, 0.75, 0.4), 0.02)))

	// Brushed metal column
	s.AddShape(geometry.NewCylinder(core.NewVec3(2.2, 0, 0), core.NewVec3(2.2, 2.2, 0), 0.7, material.NewMetal(core.NewVec3(0.7, 0.7, 0.75), 0.3)))

	// Capped cone
	cone, err := geometry.NewCone(core.NewVec3(4.4, 0, 0), 0.9, core.NewVec3(4.4, 2, 0), 0, true, material.NewLambertian(core.NewVec3(0.6, 0.15, 0.1)))
	if err == nil {
		s.AddShape(cone)
	}

	// Mirror disc leaning behind the row
	s.AddShape(geometry.NewDisc(core.NewVec3(-1, 1.8, -4), core.NewVec3(0.1, 0.25, 1), 1.8, material.NewMetal(core.NewVec3(0.92, 0.92, 0.95), 0.0)))

	// Mesh pyramid behind the row
	pyramid, err := pyramidMesh(
		geometry.NewTransformer().Translate(core.NewVec3(3, 0, -3.5)).RotateY(geometry.Degrees(30)),
		material.NewLambertian(core.NewVec3(0.3, 0.5, 0.6)),
	)
	if err == nil {
		s.AddShape(pyramid)
	}

	// Fog ball
	fogBoundary := geometry.NewSphere(core.NewVec3(-3, 1.2, -3.5), 1.4, nil)
	s.AddShape(geometry.NewConstantMedium(fogBoundary, 0.6, material.NewIsotropic(core.NewVec3(0.85, 0.85, 0.85))))

	// Overhead light, attenuated with distance
	s.AddShape(lights.NewSphereLight(core.NewVec3(0, 8, 2), 1.5, material.NewAttenuatedDiffuseLight(core.NewVec3(40, 38, 34), 0.1)))

	return s
}
