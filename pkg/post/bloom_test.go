package post

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathtrace/pkg/core"
)

func TestGaussianWeights(t *testing.T) {
	weights := gaussianWeights(5, 1.0)

	// Normalized gaussian taps for size 5, sigma 1
	want := []float64{
		0.05448868454964294,
		0.24420134200323332,
		0.4026199468942474,
		0.24420134200323332,
		0.05448868454964294,
	}
	for i := range want {
		if math.Abs(weights[i]-want[i]) > 1e-12 {
			t.Errorf("Weight %d = %v, want %v", i, weights[i], want[i])
		}
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-12 {
		t.Errorf("Weights sum to %v, want 1", sum)
	}
}

func TestNewBloomValidation(t *testing.T) {
	tests := []struct {
		name                                    string
		kernelFraction, threshold, maxIntensity float64
	}{
		{"kernel fraction over half", 0.6, 0, 0},
		{"negative kernel fraction", -0.1, 0, 0},
		{"negative threshold", 0.1, -1, 0},
		{"negative max intensity", 0.1, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBloom(tt.kernelFraction, tt.threshold, tt.maxIntensity)
			if err == nil {
				t.Fatal("Expected a config error")
			}
			var ce *core.ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("Expected ConfigError, got %T: %v", err, err)
			}
		})
	}
}

func TestBloomSpreadsGlow(t *testing.T) {
	bloom, err := NewBloom(0.25, 0, 0)
	if err != nil {
		t.Fatalf("NewBloom failed: %v", err)
	}

	// One bright pixel on an 8x1 strip: kernel size 5, sigma 1
	buf := NewPixelBuffer(8, 1)
	buf.Pixels[3] = core.NewVec3(10, 10, 10)

	out, err := bloom.Process(buf)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	weights := gaussianWeights(5, 1.0)
	if got, want := out.Pixels[3].X, 10+10*weights[2]; math.Abs(got-want) > 1e-9 {
		t.Errorf("Center = %v, want %v", got, want)
	}
	if got, want := out.Pixels[2].X, 10*weights[1]; math.Abs(got-want) > 1e-9 {
		t.Errorf("Neighbor = %v, want %v", got, want)
	}
	if out.Pixels[2] != out.Pixels[4] {
		t.Errorf("Glow should be symmetric, got %v vs %v", out.Pixels[2], out.Pixels[4])
	}
	if out.Pixels[6] != (core.Vec3{}) {
		t.Errorf("Pixel outside the kernel reach should stay black, got %v", out.Pixels[6])
	}

	// The source buffer is untouched
	if buf.Pixels[2] != (core.Vec3{}) {
		t.Errorf("Process modified its input: %v", buf.Pixels[2])
	}
}

func TestBloomBelowThresholdUnchanged(t *testing.T) {
	bloom, err := NewBloom(0.25, 0, 0)
	if err != nil {
		t.Fatalf("NewBloom failed: %v", err)
	}

	// Length 0.5*sqrt(3) stays under the default threshold
	buf := grayBuffer(4, 4, 0.5)
	out, err := bloom.Process(buf)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	for i := range out.Pixels {
		if out.Pixels[i] != buf.Pixels[i] {
			t.Fatalf("Pixel %d changed from %v to %v", i, buf.Pixels[i], out.Pixels[i])
		}
	}
}

func TestBloomMaxIntensityCapsGlow(t *testing.T) {
	capped, err := NewBloom(0.25, 0, 2.0)
	if err != nil {
		t.Fatalf("NewBloom failed: %v", err)
	}

	buf := NewPixelBuffer(8, 1)
	buf.Pixels[3] = core.NewVec3(10, 0, 0)

	out, err := capped.Process(buf)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	// The glow source is rescaled to length 2 before blurring
	weights := gaussianWeights(5, 1.0)
	if got, want := out.Pixels[3].X, 10+2*weights[2]; math.Abs(got-want) > 1e-9 {
		t.Errorf("Center = %v, want %v", got, want)
	}
	if out.Pixels[3].Y != 0 || out.Pixels[3].Z != 0 {
		t.Errorf("Cap should preserve hue, got %v", out.Pixels[3])
	}
}

func TestBloomKeepsAuxPlanes(t *testing.T) {
	bloom, err := NewBloom(0.1, 0, 0)
	if err != nil {
		t.Fatalf("NewBloom failed: %v", err)
	}

	buf := grayBuffer(2, 2, 0.1)
	buf.Albedo = []core.Vec3{{X: 1}, {X: 2}, {X: 3}, {X: 4}}
	buf.Normal = make([]core.Vec3, 4)

	out, err := bloom.Process(buf)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !out.HasAuxBuffers() || out.Albedo[1].X != 2 {
		t.Error("Aux planes should pass through bloom unchanged")
	}
	if bloom.NeedsAuxBuffers() {
		t.Error("Bloom should not request aux buffers")
	}
}

func TestBloomRejectsMalformedBuffer(t *testing.T) {
	bloom, err := NewBloom(0.1, 0, 0)
	if err != nil {
		t.Fatalf("NewBloom failed: %v", err)
	}

	buf := PixelBuffer{Width: 2, Height: 2, Pixels: make([]core.Vec3, 3)}
	if _, err := bloom.Process(buf); err == nil {
		t.Error("Expected an error for a short pixel slice")
	}
}
