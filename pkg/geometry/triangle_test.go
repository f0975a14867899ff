package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/material"
)

// unitTriangle returns a right triangle in the z=0 plane with the normal +z
func unitTriangle() *Triangle {
	return NewTriangle(
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		nil,
	)
}

func TestTriangle_Hit_BasicIntersection(t *testing.T) {
	tri := unitTriangle()
	ray := core.NewRay(core.NewVec3(0.25, 0.25, 1), core.NewVec3(0, 0, -1))

	var hit material.HitRecord
	if !tri.Hit(ray, 0.001, 1000.0, &hit) {
		t.Fatal("Expected hit, but got miss")
	}

	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1.0, got t=%f", hit.T)
	}
	if !hit.FrontFace {
		t.Error("Expected front face hit")
	}
	assertVec3Near(t, hit.Normal, core.NewVec3(0, 0, 1), 1e-9, "normal")
	assertVec3Near(t, hit.Point, core.NewVec3(0.25, 0.25, 0), 1e-9, "hit point")
}

func TestTriangle_Hit_Miss(t *testing.T) {
	tri := unitTriangle()

	tests := []struct {
		name      string
		rayOrigin core.Vec3
		rayDir    core.Vec3
	}{
		{
			name:      "outside hypotenuse",
			rayOrigin: core.NewVec3(1, 1, 1),
			rayDir:    core.NewVec3(0, 0, -1),
		},
		{
			name:      "negative u",
			rayOrigin: core.NewVec3(-0.5, 0.5, 1),
			rayDir:    core.NewVec3(0, 0, -1),
		},
		{
			name:      "negative v",
			rayOrigin: core.NewVec3(0.5, -0.5, 1),
			rayDir:    core.NewVec3(0, 0, -1),
		},
		{
			name:      "parallel to plane",
			rayOrigin: core.NewVec3(-1, 0.25, 0),
			rayDir:    core.NewVec3(1, 0, 0),
		},
		{
			name:      "triangle behind ray",
			rayOrigin: core.NewVec3(0.25, 0.25, -1),
			rayDir:    core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDir)
			var hit material.HitRecord
			if tri.Hit(ray, 0.001, 1000.0, &hit) {
				t.Errorf("Expected miss, but got hit at t=%f", hit.T)
			}
		})
	}
}

func TestTriangle_Hit_BackFace(t *testing.T) {
	tri := unitTriangle()
	ray := core.NewRay(core.NewVec3(0.25, 0.25, -1), core.NewVec3(0, 0, 1))

	var hit material.HitRecord
	if !tri.Hit(ray, 0.001, 1000.0, &hit) {
		t.Fatal("Expected back face hit, but got miss")
	}

	if hit.FrontFace {
		t.Error("Expected back face hit")
	}
	assertVec3Near(t, hit.Normal, core.NewVec3(0, 0, -1), 1e-9, "flipped normal")
}

func TestTriangle_Hit_VertexAndEdge(t *testing.T) {
	tri := unitTriangle()

	// Boundary barycentric coordinates still count as hits
	points := []core.Vec3{
		core.NewVec3(0, 0, 0),     // vertex V0
		core.NewVec3(0.5, 0, 0),   // edge V0-V1
		core.NewVec3(0.5, 0.5, 0), // hypotenuse midpoint
	}

	for _, p := range points {
		ray := core.NewRay(p.Add(core.NewVec3(0, 0, 1)), core.NewVec3(0, 0, -1))
		var hit material.HitRecord
		if !tri.Hit(ray, 0.001, 1000.0, &hit) {
			t.Errorf("Expected hit at boundary point %v, but got miss", p)
		}
	}
}

func TestTriangle_FlatShadingUsesFaceNormal(t *testing.T) {
	tri := unitTriangle()

	expected := core.NewVec3(0, 0, 1)
	assertVec3Near(t, tri.FaceNormal(), expected, 1e-9, "face normal")
	assertVec3Near(t, tri.N0, expected, 1e-9, "N0")
	assertVec3Near(t, tri.N1, expected, 1e-9, "N1")
	assertVec3Near(t, tri.N2, expected, 1e-9, "N2")
}

func TestTriangle_SmoothNormalInterpolation(t *testing.T) {
	tri := NewSmoothTriangle(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec3(0, 1, 0),
		core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0, 1),
		nil,
	)

	// Hit at (0, 0.5): barycentric weights are w=0.5, u=0, v=0.5, so the
	// normal blends V0's +z with V2's +y
	ray := core.NewRay(core.NewVec3(0, 0.5, 1), core.NewVec3(0, 0, -1))
	var hit material.HitRecord
	if !tri.Hit(ray, 0.001, 1000.0, &hit) {
		t.Fatal("Expected hit, but got miss")
	}

	expected := core.NewVec3(0, math.Sqrt2/2, math.Sqrt2/2)
	assertVec3Near(t, hit.Normal, expected, 1e-9, "interpolated normal")

	if math.Abs(hit.Normal.Length()-1.0) > 1e-9 {
		t.Errorf("Expected unit normal, got length %f", hit.Normal.Length())
	}
}

func TestTriangle_UVInterpolation(t *testing.T) {
	tri := NewSmoothTriangle(
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1),
		core.NewVec2(0, 0), core.NewVec2(1, 0), core.NewVec2(0, 1),
		nil,
	)

	tests := []struct {
		name      string
		hitXY     core.Vec3
		expectedU float32
		expectedV float32
	}{
		{"at V0", core.NewVec3(0, 0, 0), 0, 0},
		{"at V1", core.NewVec3(1, 0, 0), 1, 0},
		{"at V2", core.NewVec3(0, 1, 0), 0, 1},
		{"interior", core.NewVec3(0.25, 0.25, 0), 0.25, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.hitXY.Add(core.NewVec3(0, 0, 1)), core.NewVec3(0, 0, -1))
			var hit material.HitRecord
			if !tri.Hit(ray, 0.001, 1000.0, &hit) {
				t.Fatal("Expected hit, but got miss")
			}

			tolerance := float32(1e-6)
			if absF32(hit.U-tt.expectedU) > tolerance || absF32(hit.V-tt.expectedV) > tolerance {
				t.Errorf("Expected UV (%f, %f), got (%f, %f)", tt.expectedU, tt.expectedV, hit.U, hit.V)
			}
		})
	}
}

func TestTriangle_BoundingBox_Padded(t *testing.T) {
	tri := unitTriangle()
	box := tri.BoundingBox()

	// Flat in z, so the box needs padding to keep the slab test working
	if box.Max.Z-box.Min.Z <= 0 {
		t.Error("Expected padded bounding box to have thickness in Z")
	}
	if !box.Contains(core.NewVec3(0.25, 0.25, 0)) {
		t.Error("Expected bounding box to contain interior point")
	}
}
