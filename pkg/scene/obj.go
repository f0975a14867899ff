package scene

import (
	_ "embed"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/geometry"
	"github.com/df07/go-pathtrace/pkg/loaders"
	"github.com/df07/go-pathtrace/pkg/material"
)

//go:embed models/gem.obj
var gemObj []byte

// NewObjScene displays the bundled gem model through the OBJ pipeline:
// a faceted bronze icosahedron on a checkered floor under a sphere light.
func NewObjScene() *Scene {
	s := objStage()

	// Rotate for an asymmetric silhouette, then lift the bottom edge onto the floor
	transform := geometry.NewTransformer().
		Translate(core.NewVec3(0, 1.618034, 0)).
		RotateY(geometry.Degrees(24))
	bronze := material.NewMetal(core.NewVec3(0.85, 0.65, 0.35), 0.05)
	if shapes, err := loaders.LoadObjBytes("gem.obj", gemObj, transform, bronze); err == nil {
		for _, shape := range shapes {
			s.AddShape(shape)
		}
	}
	return s
}

// NewObjFileScene displays an OBJ model from disk on the same stage as
// NewObjScene. The transform positions the model; materials come from the
// model's library, with a neutral gray fallback for untagged groups.
func NewObjFileScene(path string, transform *geometry.Transformer) (*Scene, error) {
	shapes, err := loaders.LoadObj(path, transform, material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73)))
	if err != nil {
		return nil, err
	}

	s := objStage()
	for _, shape := range shapes {
		s.AddShape(shape)
	}
	return s, nil
}

// objStage builds the shared display stage: a camera aimed just above the
// origin, a checkered floor and a sphere key light under a dusk sky.
func objStage() *Scene {
	camera := geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(3.5, 3, 6),
		LookAt:      core.NewVec3(0, 1.4, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40.0,
		AspectRatio: 16.0 / 9.0,
	})

	s := NewScene(camera)
	s.SetBackground(core.NewVec3(0.2, 0.3, 0.5), core.NewVec3(0.85, 0.9, 0.95))

	checker := material.NewChecker(1.5, core.NewVec3(0.75, 0.75, 0.75), core.NewVec3(0.3, 0.32, 0.36))
	s.AddShape(NewGroundQuad(core.NewVec3(0, 0, 0), 100, material.NewTexturedLambertian(checker, nil)))
	s.AddSphereLight(core.NewVec3(-4, 7, 3), 1.2, core.NewVec3(15, 15, 15))
	return s
}
