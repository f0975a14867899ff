package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pathtrace/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MaxSamples     int     // Maximum samples allowed per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for convergence
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// Color returns the current average color for this pixel
func (ps *PixelStats) Color() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// LuminanceMean returns the average sample luminance for this pixel
func (ps *PixelStats) LuminanceMean() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	return ps.LuminanceAccum / float64(ps.SampleCount)
}

// LuminanceVariance returns the population variance of the sample luminances
func (ps *PixelStats) LuminanceVariance() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	return math.Max(0, meanSq-mean*mean)
}

// Snapshot is a copy of the linear framebuffer state taken at a pass
// boundary. Pixels hold averaged linear color, row-major from the top-left.
type Snapshot struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// At returns the linear color of the pixel at (x, y)
func (s Snapshot) At(x, y int) core.Vec3 {
	return s.Pixels[y*s.Width+x]
}

// Framebuffer accumulates samples for the whole image. During rendering each
// tile's region is written only by the worker processing that tile, so no
// locking is required; snapshots are taken between passes when no worker is
// writing.
type Framebuffer struct {
	width  int
	height int
	pixels []PixelStats
}

// NewFramebuffer creates an empty framebuffer of the given dimensions
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pixels: make([]PixelStats, width*height),
	}
}

func (fb *Framebuffer) Width() int  { return fb.width }
func (fb *Framebuffer) Height() int { return fb.height }

// At returns the accumulator for the pixel at (x, y)
func (fb *Framebuffer) At(x, y int) *PixelStats {
	return &fb.pixels[y*fb.width+x]
}

// Assemble creates the display image, a linear snapshot and the render
// statistics from the current accumulator state in a single pass.
func (fb *Framebuffer) Assemble(targetSamples int) (*image.RGBA, Snapshot, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	snapshot := Snapshot{
		Width:  fb.width,
		Height: fb.height,
		Pixels: make([]core.Vec3, len(fb.pixels)),
	}
	stats := RenderStats{
		TotalPixels: fb.width * fb.height,
		MaxSamples:  targetSamples,
		MinSamples:  math.MaxInt,
	}

	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			ps := fb.At(x, y)
			colorVec := ps.Color()
			snapshot.Pixels[y*fb.width+x] = colorVec
			img.SetRGBA(x, y, vec3ToRGBA(colorVec))

			stats.TotalSamples += ps.SampleCount
			stats.MinSamples = min(stats.MinSamples, ps.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, ps.SampleCount)
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return img, snapshot, stats
}

// vec3ToRGBA converts a linear color to RGBA with gamma correction and clamping
func vec3ToRGBA(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
