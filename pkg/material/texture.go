package material

import (
	"fmt"
	"image"
	"math"
	"os"

	// Register decoders for the formats texture files arrive in
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/chewxy/math32"
	"github.com/df07/go-pathtrace/pkg/core"
)

// Texture produces a color for a surface position. Coordinates are the
// primitive's UV parameterization; p is the world-space hit point for
// textures that are defined spatially rather than parametrically.
type Texture interface {
	Value(u, v float32, p core.Vec3) core.Vec3
}

// SolidColor is a texture with the same color everywhere
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a solid color texture
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Value returns the constant color
func (s *SolidColor) Value(u, v float32, p core.Vec3) core.Vec3 {
	return s.Color
}

// Checker alternates two textures in a 3D checkerboard pattern based on the
// world-space position, so it needs no UV parameterization
type Checker struct {
	Scale float64
	Even  Texture
	Odd   Texture
}

// NewChecker creates a checker texture with the given cell scale
func NewChecker(scale float64, even, odd core.Vec3) *Checker {
	return &Checker{Scale: scale, Even: NewSolidColor(even), Odd: NewSolidColor(odd)}
}

// Value returns the checker cell color containing p
func (c *Checker) Value(u, v float32, p core.Vec3) core.Vec3 {
	inv := 1.0 / c.Scale
	sum := int(math.Floor(p.X*inv)) + int(math.Floor(p.Y*inv)) + int(math.Floor(p.Z*inv))
	if sum%2 == 0 {
		return c.Even.Value(u, v, p)
	}
	return c.Odd.Value(u, v, p)
}

// ImageTexture samples colors from a decoded image. V runs bottom-up, so
// lookups flip it against the image's top-down row order.
type ImageTexture struct {
	pixels []core.Vec3
	width  int
	height int
}

// NewImageTexture converts a decoded image to a linear-color texture
func NewImageTexture(img image.Image) *ImageTexture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pixels[y*width+x] = core.NewVec3(
				float64(r>>8)/255.0,
				float64(g>>8)/255.0,
				float64(b>>8)/255.0,
			)
		}
	}

	return &ImageTexture{pixels: pixels, width: width, height: height}
}

// LoadImageTexture decodes an image file (png, jpeg, bmp or tiff) into a texture
func LoadImageTexture(path string) (*ImageTexture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening texture %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding texture %q: %w", path, err)
	}

	return NewImageTexture(img), nil
}

// Value returns the texel color at (u, v) using nearest sampling
func (t *ImageTexture) Value(u, v float32, p core.Vec3) core.Vec3 {
	if t.width == 0 || t.height == 0 {
		return core.NewVec3(0, 0, 0)
	}

	u = math32.Max(0, math32.Min(1, u))
	v = 1 - math32.Max(0, math32.Min(1, v))

	x := int(u * float32(t.width))
	y := int(v * float32(t.height))
	if x >= t.width {
		x = t.width - 1
	}
	if y >= t.height {
		y = t.height - 1
	}

	return t.pixels[y*t.width+x]
}

// NewNormalFromHeightMap converts a height (bump) map into a tangent-space
// normal map texture, encoding normals as colors in [0,1]. Gradients use
// central differences with clamped borders.
func NewNormalFromHeightMap(img image.Image) *ImageTexture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	heightAt := func(x, y int) float32 {
		x = max(0, min(width-1, x))
		y = max(0, min(height-1, y))
		r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
		return (float32(r>>8) + float32(g>>8) + float32(b>>8)) / (3 * 255)
	}

	pixels := make([]core.Vec3, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx := heightAt(x+1, y) - heightAt(x-1, y)
			dy := heightAt(x, y+1) - heightAt(x, y-1)

			normal := core.NewVec3(float64(-dx), float64(dy), 0.25).Normalize()
			pixels[y*width+x] = normal.Multiply(0.5).Add(core.NewVec3(0.5, 0.5, 0.5))
		}
	}

	return &ImageTexture{pixels: pixels, width: width, height: height}
}
