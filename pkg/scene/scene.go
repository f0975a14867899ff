package scene

import (
	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/geometry"
	"github.com/df07/go-pathtrace/pkg/lights"
	"github.com/df07/go-pathtrace/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera       *geometry.Camera
	Shapes       []geometry.Shape            // Objects in the scene
	Lights       []lights.Light              // Lights in the scene, extended by Preprocess
	LightSampler *lights.UniformLightSampler // Built by Preprocess
	TopColor     core.Vec3                   // Background color straight up
	BottomColor  core.Vec3                   // Background color straight down
	BVH          *geometry.BVH               // Acceleration structure for ray-object intersection
}

// NewScene creates an empty scene with the given camera and a flat black background
func NewScene(camera *geometry.Camera) *Scene {
	return &Scene{Camera: camera}
}

// SetBackground sets the vertical background gradient. Passing the same color
// twice gives a flat background.
func (s *Scene) SetBackground(top, bottom core.Vec3) {
	s.TopColor = top
	s.BottomColor = bottom
}

// Background returns the radiance for a ray that escaped the scene,
// interpolated between BottomColor and TopColor on the ray's vertical direction.
func (s *Scene) Background(ray core.Ray) core.Vec3 {
	t := 0.5 * (ray.Direction.Normalize().Y + 1.0)
	return s.BottomColor.Lerp(s.TopColor, t)
}

// AddShape adds a shape to the scene
func (s *Scene) AddShape(shape geometry.Shape) {
	s.Shapes = append(s.Shapes, shape)
}

// AddLight adds a non-hittable light, such as a directional light.
// Emissive shapes do not need this; Preprocess discovers them.
func (s *Scene) AddLight(light lights.Light) {
	s.Lights = append(s.Lights, light)
}

// AddQuadLight adds a rectangular area light to the scene
func (s *Scene) AddQuadLight(corner, u, v core.Vec3, emission core.Vec3) {
	s.AddShape(lights.NewQuadLight(corner, u, v, material.NewDiffuseLight(emission)))
}

// AddSphereLight adds a spherical area light to the scene
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) {
	s.AddShape(lights.NewSphereLight(center, radius, material.NewDiffuseLight(emission)))
}

// NewGroundQuad creates a large horizontal quad to stand in for an infinite
// ground plane, centered at the given point with normal pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, material material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) normalizes to (0,1,0)
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, material)
}

// Preprocess prepares the scene for rendering: it validates the scene,
// builds the BVH, discovers emissive shapes as sampled lights and creates
// the light sampler. Calling it again after it succeeds is a no-op, so the
// scene is effectively immutable once preprocessing is done.
func (s *Scene) Preprocess() error {
	if s.BVH != nil {
		return nil
	}
	if s.Camera == nil {
		return core.NewConstructionError(nil, "scene has no camera")
	}
	for i, shape := range s.Shapes {
		if shape == nil {
			return core.NewConstructionError(nil, "shape %d is nil", i)
		}
	}
	for i, light := range s.Lights {
		if light == nil {
			return core.NewConstructionError(nil, "light %d is nil", i)
		}
	}

	s.discoverLights()
	s.LightSampler = lights.NewUniformLightSampler(s.Lights)
	s.BVH = geometry.NewBVH(s.Shapes)
	return nil
}

// discoverLights registers every emissive shape as a sampled light.
// Shapes that already are lights are registered directly; bare quads and
// spheres carrying an emitting material are wrapped. Emissive meshes are
// not sampled; their emission still reaches the camera through path hits.
func (s *Scene) discoverLights() {
	registered := make(map[lights.Light]bool, len(s.Lights))
	for _, light := range s.Lights {
		registered[light] = true
	}
	addLight := func(light lights.Light) {
		if !registered[light] {
			registered[light] = true
			s.Lights = append(s.Lights, light)
		}
	}

	for _, shape := range s.Shapes {
		switch obj := shape.(type) {
		case *lights.QuadLight:
			addLight(obj)
		case *lights.SphereLight:
			addLight(obj)
		case *geometry.Quad:
			if _, ok := obj.Material.(material.Emitter); ok {
				addLight(lights.NewQuadLightFromQuad(obj))
			}
		case *geometry.Sphere:
			if _, ok := obj.Material.(material.Emitter); ok {
				addLight(lights.NewSphereLightFromSphere(obj))
			}
		}
	}
}

// PrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) PrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		count += countPrimitivesInShape(shape)
	}
	return count
}

// countPrimitivesInShape counts primitives in a single shape, handling complex objects
func countPrimitivesInShape(shape geometry.Shape) int {
	switch obj := shape.(type) {
	case *geometry.TriangleMesh:
		return obj.TriangleCount()
	default:
		return 1
	}
}
