package scene

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/geometry"
)

func TestList_SortedAndComplete(t *testing.T) {
	infos := List()
	if len(infos) != len(builtins) {
		t.Fatalf("Expected %d scenes, got %d", len(builtins), len(infos))
	}
	if !sort.SliceIsSorted(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID }) {
		t.Error("Expected scene list sorted by ID")
	}
	for _, info := range infos {
		if info.ID == "" || info.Name == "" {
			t.Errorf("Scene %+v is missing ID or name", info)
		}
	}
}

func TestBuild_UnknownScene(t *testing.T) {
	_, err := Build("no-such-scene")
	if err == nil {
		t.Fatal("Expected error for unknown scene")
	}
	var ce *core.ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("Expected ConfigError, got %T", err)
	}
}

// Every built-in scene must preprocess cleanly and come out with a camera,
// a BVH and at least one light to sample.
func TestBuild_AllScenesPreprocess(t *testing.T) {
	for _, info := range List() {
		t.Run(info.ID, func(t *testing.T) {
			s, err := Build(info.ID)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if err := s.Preprocess(); err != nil {
				t.Fatalf("Preprocess failed: %v", err)
			}
			if s.Camera == nil {
				t.Error("Scene has no camera")
			}
			if s.BVH == nil {
				t.Error("Scene has no BVH")
			}
			if s.LightSampler.LightCount() == 0 {
				t.Error("Scene has no lights")
			}
			if s.PrimitiveCount() == 0 {
				t.Error("Scene has no primitives")
			}
		})
	}
}

func TestNewCornellScene_Contents(t *testing.T) {
	s := NewCornellScene()
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	// Five walls, the ceiling light and two boxes
	if len(s.Shapes) != 8 {
		t.Errorf("Expected 8 shapes, got %d", len(s.Shapes))
	}
	if len(s.Lights) != 1 {
		t.Errorf("Expected 1 light, got %d", len(s.Lights))
	}
	if s.TopColor != s.BottomColor {
		t.Error("Expected a flat background")
	}
}

func TestNewSphereDirectionalScene_Contents(t *testing.T) {
	s := NewSphereDirectionalScene()
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if len(s.Shapes) != 1 {
		t.Errorf("Expected 1 shape, got %d", len(s.Shapes))
	}
	if len(s.Lights) != 1 {
		t.Errorf("Expected 1 light, got %d", len(s.Lights))
	}
	if s.TopColor != s.BottomColor {
		t.Error("Expected a flat background")
	}
}

func TestNewShowcaseScene_Contents(t *testing.T) {
	s := NewShowcaseScene()
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	// Ground, three spheres, cylinder, cone, mirror disc, pyramid, fog ball, light
	if len(s.Shapes) != 10 {
		t.Errorf("Expected 10 shapes, got %d", len(s.Shapes))
	}
	if len(s.Lights) != 1 {
		t.Errorf("Expected 1 light, got %d", len(s.Lights))
	}
	// The pyramid contributes six triangles
	if got := s.PrimitiveCount(); got != 15 {
		t.Errorf("Expected 15 primitives, got %d", got)
	}
}

func TestNewObjScene_Contents(t *testing.T) {
	s := NewObjScene()
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	// Ground, the gem mesh and the light
	if len(s.Shapes) != 3 {
		t.Fatalf("Expected 3 shapes, got %d", len(s.Shapes))
	}

	var mesh *geometry.TriangleMesh
	for _, shape := range s.Shapes {
		if m, ok := shape.(*geometry.TriangleMesh); ok {
			mesh = m
		}
	}
	if mesh == nil {
		t.Fatal("Expected the embedded gem mesh in the scene")
	}
	if got := mesh.TriangleCount(); got != 20 {
		t.Errorf("Expected 20 gem faces, got %d", got)
	}

	// The transform stands the gem on the floor above the origin. The parser
	// stores coordinates as float32, so the lift cancels only to that precision.
	bounds := mesh.BoundingBox()
	if math.Abs(bounds.Min.Y) > 1e-6 {
		t.Errorf("Expected the gem resting on the floor, bbox min y = %v", bounds.Min.Y)
	}
	if !bounds.Contains(core.NewVec3(0, 1.6, 0)) {
		t.Errorf("Expected the gem centered above the origin, bounds %+v", bounds)
	}
}
