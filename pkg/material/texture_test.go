package material

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-pathtrace/pkg/core"
)

func TestSolidColor(t *testing.T) {
	c := core.NewVec3(0.2, 0.4, 0.6)
	tex := NewSolidColor(c)

	// Same color regardless of coordinates
	points := []core.Vec3{
		core.NewVec3(0, 0, 0),
		core.NewVec3(100, -50, 3),
	}
	for _, p := range points {
		if got := tex.Value(0.3, 0.7, p); got != c {
			t.Errorf("SolidColor at %v = %v, expected %v", p, got, c)
		}
	}
}

func TestChecker_Alternation(t *testing.T) {
	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)
	checker := NewChecker(1.0, white, black)

	tests := []struct {
		name     string
		point    core.Vec3
		expected core.Vec3
	}{
		{"Origin cell", core.NewVec3(0.5, 0.5, 0.5), white},
		{"Adjacent in x", core.NewVec3(1.5, 0.5, 0.5), black},
		{"Adjacent in y", core.NewVec3(0.5, 1.5, 0.5), black},
		{"Adjacent in z", core.NewVec3(0.5, 0.5, 1.5), black},
		{"Diagonal neighbor", core.NewVec3(1.5, 1.5, 0.5), white},
		{"Negative cell", core.NewVec3(-0.5, 0.5, 0.5), black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.Value(0, 0, tt.point); got != tt.expected {
				t.Errorf("Checker at %v = %v, expected %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestChecker_Scale(t *testing.T) {
	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)
	checker := NewChecker(2.0, white, black)

	// With scale 2 the cells are twice as large
	if got := checker.Value(0, 0, core.NewVec3(1.5, 0.5, 0.5)); got != white {
		t.Errorf("Point (1.5,0.5,0.5) should still be in the origin cell at scale 2, got %v", got)
	}
	if got := checker.Value(0, 0, core.NewVec3(2.5, 0.5, 0.5)); got != black {
		t.Errorf("Point (2.5,0.5,0.5) should be in the next cell at scale 2, got %v", got)
	}
}

// newTestImage builds an NRGBA image from a row-major grid of 8-bit colors
func newTestImage(width, height int, texels []color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, texels[y*width+x])
		}
	}
	return img
}

func TestImageTexture_Sampling(t *testing.T) {
	// 2x2 checkerboard:
	//   white black   (top image row)
	//   black white   (bottom image row)
	img := newTestImage(2, 2, []color.NRGBA{
		{255, 255, 255, 255}, {0, 0, 0, 255},
		{0, 0, 0, 255}, {255, 255, 255, 255},
	})
	tex := NewImageTexture(img)

	white := core.NewVec3(1, 1, 1)
	black := core.NewVec3(0, 0, 0)

	tests := []struct {
		name     string
		u, v     float32
		expected core.Vec3
	}{
		// V runs bottom-up, so v near 0 samples the bottom image row
		{"Bottom-left", 0.1, 0.1, black},
		{"Bottom-right", 0.9, 0.1, white},
		{"Top-left", 0.1, 0.9, white},
		{"Top-right", 0.9, 0.9, black},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tex.Value(tt.u, tt.v, core.Vec3{})
			if got.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("UV(%v,%v): expected %v, got %v", tt.u, tt.v, tt.expected, got)
			}
		})
	}
}

func TestImageTexture_CoordinateClamping(t *testing.T) {
	// 1x2 image: red on top, blue on bottom
	img := newTestImage(1, 2, []color.NRGBA{
		{255, 0, 0, 255},
		{0, 0, 255, 255},
	})
	tex := NewImageTexture(img)

	red := core.NewVec3(1, 0, 0)
	blue := core.NewVec3(0, 0, 1)

	// Out-of-range coordinates clamp to the border texels
	tests := []struct {
		name     string
		u, v     float32
		expected core.Vec3
	}{
		{"V above range", 0.5, 2.5, red},
		{"V below range", 0.5, -1.5, blue},
		{"U out of range", 7.0, 0.9, red},
		{"Exact top", 0.0, 1.0, red},
		{"Exact bottom", 0.0, 0.0, blue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tex.Value(tt.u, tt.v, core.Vec3{})
			if got.Subtract(tt.expected).Length() > 1e-9 {
				t.Errorf("UV(%v,%v): expected %v, got %v", tt.u, tt.v, tt.expected, got)
			}
		})
	}
}

func TestNormalFromHeightMap_FlatSurface(t *testing.T) {
	// Constant height produces straight-up normals everywhere
	gray := color.NRGBA{128, 128, 128, 255}
	img := newTestImage(3, 3, []color.NRGBA{
		gray, gray, gray,
		gray, gray, gray,
		gray, gray, gray,
	})
	tex := NewNormalFromHeightMap(img)

	// Encoded (0,0,1) is color (0.5, 0.5, 1.0)
	got := tex.Value(0.5, 0.5, core.Vec3{})
	expected := core.NewVec3(0.5, 0.5, 1.0)
	if got.Subtract(expected).Length() > 1e-9 {
		t.Errorf("Flat height map normal = %v, expected %v", got, expected)
	}
}

func TestNormalFromHeightMap_Ramp(t *testing.T) {
	// Height increasing along +x tilts normals away from the slope
	img := newTestImage(3, 3, []color.NRGBA{
		{0, 0, 0, 255}, {128, 128, 128, 255}, {255, 255, 255, 255},
		{0, 0, 0, 255}, {128, 128, 128, 255}, {255, 255, 255, 255},
		{0, 0, 0, 255}, {128, 128, 128, 255}, {255, 255, 255, 255},
	})
	tex := NewNormalFromHeightMap(img)

	// Center texel: dx > 0, dy = 0. Encoded x component sits below 0.5 and
	// the normal still leans mostly toward +z.
	got := tex.Value(0.5, 0.5, core.Vec3{})
	if got.X >= 0.5 {
		t.Errorf("Ramp normal x = %v, expected below 0.5 for +x slope", got.X)
	}
	if math.Abs(got.Y-0.5) > 1e-6 {
		t.Errorf("Ramp normal y = %v, expected 0.5 with no y slope", got.Y)
	}
	if got.Z <= 0.5 {
		t.Errorf("Ramp normal z = %v, expected above 0.5", got.Z)
	}

	// Decoded vector is unit length
	decoded := got.Multiply(2).Subtract(core.NewVec3(1, 1, 1))
	if math.Abs(decoded.Length()-1.0) > 1e-6 {
		t.Errorf("Decoded normal %v is not unit length", decoded)
	}
}
