package renderer

import (
	"context"
	"image"
	"math"
	"testing"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/geometry"
	"github.com/df07/go-pathtrace/pkg/material"
	"github.com/df07/go-pathtrace/pkg/scene"
)

func TestRenderCornellBox(t *testing.T) {
	if testing.Short() {
		t.Skip("small render")
	}
	s := scene.NewCornellScene()
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	cfg := RenderConfig{
		Width:               32,
		Height:              32,
		SamplesPerPixel:     4,
		MaxDepth:            5,
		RouletteStartBounce: 2,
		MaxPasses:           2,
		TileSize:            16,
	}
	r := NewRenderer(s, cfg, pathTracer(cfg), &testLogger{})

	result := r.RenderWithSink(context.Background(), nil)
	if result.Outcome != OutcomeCompleted {
		t.Fatalf("Expected completed outcome, got %v (errors: %v)", result.Outcome, result.Errors)
	}
	if result.Stats.TotalSamples != 4*32*32 {
		t.Errorf("Expected %d total samples, got %d", 4*32*32, result.Stats.TotalSamples)
	}

	// The box is lit: the render must carry energy, and every value must be
	// a usable finite color
	if calculateAverageLuminance(result.Image) <= 0 {
		t.Error("Expected a non-black render of the Cornell box")
	}
	for i, c := range result.Snapshot.Pixels {
		if !c.IsFinite() {
			t.Fatalf("Pixel %d is not finite: %v", i, c)
		}
	}
}

// On a constant background the sample variance is zero, so adaptive stopping
// must cut every pixel off at the minimum share of the target.
func TestRendererAdaptiveStopsEarly(t *testing.T) {
	s := scene.NewScene(geometry.NewCamera(geometry.DefaultCameraConfig()))
	gray := core.NewVec3(0.25, 0.25, 0.25)
	s.SetBackground(gray, gray)
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	cfg := RenderConfig{
		Width:              4,
		Height:             4,
		SamplesPerPixel:    16,
		MaxDepth:           2,
		MaxPasses:          1,
		TileSize:           4,
		WorkerCount:        1,
		AdaptiveThreshold:  0.5,
		AdaptiveMinSamples: 0.25,
	}
	r := NewRenderer(s, cfg, pathTracer(cfg), &testLogger{})

	result := r.RenderWithSink(context.Background(), nil)
	if result.Outcome != OutcomeCompleted {
		t.Fatalf("Expected completed outcome, got %v", result.Outcome)
	}

	// Every pixel converges after max(1, 16*0.25) = 4 samples
	if result.Stats.TotalSamples != 4*16 {
		t.Errorf("Expected adaptive stopping after 4 samples per pixel, got %d total", result.Stats.TotalSamples)
	}
	if result.Stats.MaxSamplesUsed != 4 {
		t.Errorf("Expected at most 4 samples per pixel, got %d", result.Stats.MaxSamplesUsed)
	}
	for i, c := range result.Snapshot.Pixels {
		if c != gray {
			t.Errorf("Pixel %d = %v, want exact background %v", i, c, gray)
		}
	}
}

// calculateAverageLuminance computes the average luminance of an image
func calculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return 0.0
	}

	totalLuminance := 0.0
	pixelCount := bounds.Dx() * bounds.Dy()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			r := float64(c.R) / 255.0
			g := float64(c.G) / 255.0
			b := float64(c.B) / 255.0
			totalLuminance += 0.299*r + 0.587*g + 0.114*b
		}
	}

	return totalLuminance / float64(pixelCount)
}

// enclosureScene surrounds a Lambertian plane with uniform emission from
// every direction. Each camera path lands on the plane and reflects exactly
// albedo * Le in expectation, giving an analytic target of 0.5.
func enclosureScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.NewScene(geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 3, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        40.0,
		AspectRatio: 1.0,
	}))
	s.SetBackground(core.NewVec3(1, 1, 1), core.NewVec3(1, 1, 1))
	s.AddShape(geometry.NewQuad(core.NewVec3(-100, 0, -100), core.NewVec3(200, 0, 0), core.NewVec3(0, 0, 200), material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))))
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	return s
}

// Russian roulette is the only variance source in the enclosure, so the
// estimate must still converge to the analytic 0.5 as samples grow.
func TestRendererConvergesInEmissiveEnclosure(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}

	estimate := func(spp int) float64 {
		s := enclosureScene(t)
		cfg := RenderConfig{
			Width:               8,
			Height:              8,
			SamplesPerPixel:     spp,
			MaxDepth:            4,
			RouletteStartBounce: 1,
			MaxPasses:           1,
			TileSize:            8,
		}
		r := NewRenderer(s, cfg, pathTracer(cfg), &testLogger{})
		result := r.RenderWithSink(context.Background(), nil)
		if result.Outcome != OutcomeCompleted {
			t.Fatalf("Expected completed outcome, got %v", result.Outcome)
		}

		total := 0.0
		for _, c := range result.Snapshot.Pixels {
			total += c.X
		}
		return total / float64(len(result.Snapshot.Pixels))
	}

	const want = 0.5
	if coarse := math.Abs(estimate(16) - want); coarse > 0.2 {
		t.Errorf("Estimate off by %v at 16 samples, want within 0.2 of %v", coarse, want)
	}
	if fine := math.Abs(estimate(256) - want); fine > 0.05 {
		t.Errorf("Estimate off by %v at 256 samples, want within 0.05 of %v", fine, want)
	}
}
