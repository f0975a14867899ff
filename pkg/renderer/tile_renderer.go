package renderer

import (
	"image"
	"math"
	"sync/atomic"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/geometry"
	"github.com/df07/go-pathtrace/pkg/integrator"
	"github.com/df07/go-pathtrace/pkg/scene"
)

// tileRenderer traces the pixels of individual tiles using an integrator.
// The cancellation flag is polled between pixel rows so a worker reaches a
// safe stopping point within at most one tile's remaining work.
type tileRenderer struct {
	scene              *scene.Scene
	integrator         integrator.Integrator
	cancel             *atomic.Bool
	adaptiveThreshold  float64
	adaptiveMinSamples float64
}

func newTileRenderer(s *scene.Scene, integ integrator.Integrator, cancel *atomic.Bool, cfg RenderConfig) *tileRenderer {
	return &tileRenderer{
		scene:              s,
		integrator:         integ,
		cancel:             cancel,
		adaptiveThreshold:  cfg.AdaptiveThreshold,
		adaptiveMinSamples: cfg.AdaptiveMinSamples,
	}
}

// renderBounds samples every pixel within bounds up to the cumulative target,
// accumulating into the framebuffer. Each tile has non-overlapping bounds, so
// writing to the shared framebuffer is safe without locks. Returns false if
// cancellation interrupted the tile between rows.
func (tr *tileRenderer) renderBounds(bounds image.Rectangle, fb *Framebuffer, sampler core.Sampler, targetSamples int) bool {
	camera := tr.scene.Camera

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		if tr.cancel.Load() {
			return false
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tr.samplePixel(camera, x, y, fb, sampler, targetSamples)
		}
	}

	return true
}

// samplePixel takes jittered samples until the pixel reaches the cumulative
// target or adaptive stopping decides it has converged.
func (tr *tileRenderer) samplePixel(camera *geometry.Camera, x, y int, fb *Framebuffer, sampler core.Sampler, targetSamples int) {
	ps := fb.At(x, y)
	width := float64(fb.Width())
	height := float64(fb.Height())

	for ps.SampleCount < targetSamples && !tr.shouldStopSampling(ps, targetSamples) {
		jitter := sampler.Get2D()
		// Screen coordinates with t=0 at the bottom; image y grows downward
		s := (float64(x) + jitter.X) / width
		t := 1.0 - (float64(y)+jitter.Y)/height

		ray := camera.GetRay(s, t, sampler)
		ps.AddSample(tr.integrator.RayColor(ray, tr.scene, sampler))
	}
}

// shouldStopSampling determines if adaptive sampling should stop based on
// the perceptual relative error of the pixel's luminance
func (tr *tileRenderer) shouldStopSampling(ps *PixelStats, targetSamples int) bool {
	if tr.adaptiveThreshold <= 0 {
		return false
	}

	// Don't stop before a minimum share of the target has been taken
	minSamples := max(1, int(float64(targetSamples)*tr.adaptiveMinSamples))
	if ps.SampleCount < minSamples {
		return false
	}

	mean := ps.LuminanceMean()
	variance := ps.LuminanceVariance()

	// Avoid division by zero for black pixels
	if mean <= 1e-8 {
		return variance < 1e-6
	}

	relativeError := math.Sqrt(variance) / mean
	return relativeError < tr.adaptiveThreshold
}
