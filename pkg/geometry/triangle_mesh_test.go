package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

// quadMeshData returns a unit square in the z=0 plane split into two triangles
func quadMeshData() ([]core.Vec3, []int32) {
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(1, 1, 0),
		core.NewVec3(0, 1, 0),
	}
	indices := []int32{0, 1, 2, 0, 2, 3}
	return vertices, indices
}

func TestTriangleMesh_Construction(t *testing.T) {
	vertices, indices := quadMeshData()

	mesh, err := NewTriangleMesh(vertices, indices, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("Expected successful construction, got error: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}

	box := mesh.BoundingBox()
	if !box.Contains(core.NewVec3(0.5, 0.5, 0)) {
		t.Error("Expected bounding box to contain the mesh center")
	}
}

func TestTriangleMesh_ValidationErrors(t *testing.T) {
	vertices, indices := quadMeshData()

	tests := []struct {
		name     string
		vertices []core.Vec3
		indices  []int32
		normals  []core.Vec3
		uvs      []core.Vec2
	}{
		{
			name:     "index count not a multiple of 3",
			vertices: vertices,
			indices:  []int32{0, 1, 2, 0},
		},
		{
			name:     "normal count mismatch",
			vertices: vertices,
			indices:  indices,
			normals:  []core.Vec3{core.NewVec3(0, 0, 1)},
		},
		{
			name:     "uv count mismatch",
			vertices: vertices,
			indices:  indices,
			uvs:      []core.Vec2{core.NewVec2(0, 0), core.NewVec2(1, 1)},
		},
		{
			name:     "index out of range",
			vertices: vertices,
			indices:  []int32{0, 1, 4},
		},
		{
			name:     "negative index",
			vertices: vertices,
			indices:  []int32{0, 1, -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTriangleMesh(tt.vertices, tt.indices, tt.normals, tt.uvs, nil, nil)
			if err == nil {
				t.Fatal("Expected construction error, got nil")
			}

			var constructionErr *core.ConstructionError
			if !errors.As(err, &constructionErr) {
				t.Errorf("Expected ConstructionError, got %T: %v", err, err)
			}
		})
	}
}

func TestTriangleMesh_Hit(t *testing.T) {
	vertices, indices := quadMeshData()
	mesh, err := NewTriangleMesh(vertices, indices, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("Unexpected construction error: %v", err)
	}

	// Both triangles cover the center; the ray should hit either way
	ray := core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1))
	var hit material.HitRecord
	if !mesh.Hit(ray, 0.001, 1000.0, &hit) {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1.0, got t=%f", hit.T)
	}

	// Flat shading without vertex normals uses the face normal
	assertVec3Near(t, hit.Normal, core.NewVec3(0, 0, 1), 1e-9, "face normal")

	// Outside the square misses both triangles
	missRay := core.NewRay(core.NewVec3(1.5, 0.5, 1), core.NewVec3(0, 0, -1))
	if mesh.Hit(missRay, 0.001, 1000.0, &hit) {
		t.Error("Expected miss outside the mesh")
	}
}

func TestTriangleMesh_SharedNormalInterpolation(t *testing.T) {
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
	}
	indices := []int32{0, 1, 2}
	normals := []core.Vec3{
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 1, 0),
	}

	mesh, err := NewTriangleMesh(vertices, indices, normals, nil, nil, nil)
	if err != nil {
		t.Fatalf("Unexpected construction error: %v", err)
	}

	// Halfway between V0 and V2 the normal blends +z with +y
	ray := core.NewRay(core.NewVec3(0, 0.5, 1), core.NewVec3(0, 0, -1))
	var hit material.HitRecord
	if !mesh.Hit(ray, 0.001, 1000.0, &hit) {
		t.Fatal("Expected hit, but got miss")
	}

	expected := core.NewVec3(0, math.Sqrt2/2, math.Sqrt2/2)
	assertVec3Near(t, hit.Normal, expected, 1e-9, "interpolated normal")
}

func TestTriangleMesh_SharedUVInterpolation(t *testing.T) {
	vertices, indices := quadMeshData()
	uvs := []core.Vec2{
		core.NewVec2(0, 0),
		core.NewVec2(1, 0),
		core.NewVec2(1, 1),
		core.NewVec2(0, 1),
	}

	mesh, err := NewTriangleMesh(vertices, indices, nil, uvs, nil, nil)
	if err != nil {
		t.Fatalf("Unexpected construction error: %v", err)
	}

	// UVs follow vertex positions here, so the hit point predicts the UV
	tests := []struct {
		name      string
		hitXY     core.Vec3
		expectedU float32
		expectedV float32
	}{
		{"center", core.NewVec3(0.5, 0.5, 0), 0.5, 0.5},
		{"near first corner", core.NewVec3(0.25, 0.125, 0), 0.25, 0.125},
		{"near opposite corner", core.NewVec3(0.25, 0.75, 0), 0.25, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.hitXY.Add(core.NewVec3(0, 0, 1)), core.NewVec3(0, 0, -1))
			var hit material.HitRecord
			if !mesh.Hit(ray, 0.001, 1000.0, &hit) {
				t.Fatal("Expected hit, but got miss")
			}

			tolerance := float32(1e-6)
			if absF32(hit.U-tt.expectedU) > tolerance || absF32(hit.V-tt.expectedV) > tolerance {
				t.Errorf("Expected UV (%f, %f), got (%f, %f)", tt.expectedU, tt.expectedV, hit.U, hit.V)
			}
		})
	}
}

func TestTriangleMesh_Transform(t *testing.T) {
	vertices, indices := quadMeshData()
	normals := []core.Vec3{
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 0, 1),
		core.NewVec3(0, 0, 1),
	}
	transform := NewTransformer().Translate(core.NewVec3(5, 0, 0)).RotateY(Degrees(90))

	mesh, err := NewTriangleMesh(vertices, indices, normals, nil, transform, nil)
	if err != nil {
		t.Fatalf("Unexpected construction error: %v", err)
	}

	// Rotation maps the square from the XY plane into the ZY plane at x=0,
	// translation then moves it to x=5. Original (x,y,0) lands at (5, y, -x).
	ray := core.NewRay(core.NewVec3(6, 0.5, -0.5), core.NewVec3(-1, 0, 0))
	var hit material.HitRecord
	if !mesh.Hit(ray, 0.001, 1000.0, &hit) {
		t.Fatal("Expected hit on transformed mesh, but got miss")
	}
	if math.Abs(hit.T-1.0) > 1e-6 {
		t.Errorf("Expected t=1.0, got t=%f", hit.T)
	}

	// Normals rotate with the mesh: +z becomes +x
	assertVec3Near(t, hit.Normal, core.NewVec3(1, 0, 0), 1e-9, "rotated normal")

	// The untransformed position no longer intersects
	originalRay := core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1))
	if mesh.Hit(originalRay, 0.001, 1000.0, &hit) {
		t.Error("Expected miss at the untransformed position")
	}
}

func TestTriangleMesh_CopiesInputSlices(t *testing.T) {
	vertices, indices := quadMeshData()
	mesh, err := NewTriangleMesh(vertices, indices, nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("Unexpected construction error: %v", err)
	}

	// Mutating the caller's slice must not affect the mesh
	for i := range vertices {
		vertices[i] = core.NewVec3(100, 100, 100)
	}

	ray := core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1))
	var hit material.HitRecord
	if !mesh.Hit(ray, 0.001, 1000.0, &hit) {
		t.Error("Expected hit at the original position after caller mutation")
	}
}
