package scene

import (
	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/geometry"
	"github.com/df07/go-pathtrace/pkg/material"
)

// cornellCamera positions the camera outside the box looking in through the open face
func cornellCamera() *geometry.Camera {
	return geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(278, 278, -800),
		LookAt:      core.NewVec3(278, 278, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40.0,
		AspectRatio: 1.0,
	})
}

// newCornellBox builds the five walls and the ceiling light shared by all
// Cornell variants. The box spans 555 units per side, red wall at x=0,
// green wall at x=555, open face toward the camera.
func newCornellBox() *Scene {
	s := NewScene(cornellCamera())

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))

	boxSize := 555.0

	// Floor - XZ plane at y=0
	floor := geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white)

	// Ceiling - XZ plane at y=boxSize
	ceiling := geometry.NewQuad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white)

	// Back wall - XY plane at z=boxSize
	backWall := geometry.NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white)

	// Left wall (red) - YZ plane at x=0
	leftWall := geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red)

	// Right wall (green) - YZ plane at x=boxSize
	rightWall := geometry.NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green)

	s.Shapes = append(s.Shapes, floor, ceiling, backWall, leftWall, rightWall)

	// Ceiling light: a small quad just below the ceiling, facing down
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	s.AddQuadLight(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		core.NewVec3(15.0, 15.0, 15.0),
	)

	return s
}

// NewCornellScene creates the classic Cornell box with two rotated white boxes
func NewCornellScene() *Scene {
	s := newCornellBox()

	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))

	// Tall box toward the back left, rotated 15 degrees
	tallBox := geometry.NewBox(
		core.NewVec3(0, 0, 0),
		core.NewVec3(82.5, 165, 82.5),
		geometry.NewTransformer().Translate(core.NewVec3(347.5, 165, 377.5)).RotateY(geometry.Degrees(15)),
		white,
	)

	// Short box toward the front right, rotated -18 degrees
	shortBox := geometry.NewBox(
		core.NewVec3(0, 0, 0),
		core.NewVec3(82.5, 82.5, 82.5),
		geometry.NewTransformer().Translate(core.NewVec3(212.5, 82.5, 147.5)).RotateY(geometry.Degrees(-18)),
		white,
	)

	s.Shapes = append(s.Shapes, tallBox, shortBox)
	return s
}

// NewCornellSphereScene creates a Cornell box holding a mirror sphere and a glass sphere
func NewCornellSphereScene() *Scene {
	s := newCornellBox()

	metalSphere := geometry.NewSphere(core.NewVec3(185, 82.5, 169), 82.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.9), 0.0))
	glassSphere := geometry.NewSphere(core.NewVec3(370, 90, 351), 90, material.NewDielectric(1.5))

	s.Shapes = append(s.Shapes, metalSphere, glassSphere)
	return s
}
