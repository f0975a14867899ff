package renderer

import (
	"github.com/df07/go-pathtrace/pkg/core"
)

// RenderConfig contains the full set of user-facing render parameters.
// SamplesPerPixel is the total per-pixel budget; the progressive controller
// spreads it across MaxPasses according to the pass schedule.
type RenderConfig struct {
	Width               int     // Image width in pixels
	Height              int     // Image height in pixels
	SamplesPerPixel     int     // Total sample budget per pixel across all passes
	MaxDepth            int     // Maximum ray bounce depth
	RouletteStartBounce int     // First bounce at which Russian roulette may terminate paths
	InitialSamples      int     // Samples for the first preview pass (0 = 1)
	MaxPasses           int     // Number of progressive passes (0 = 1)
	TileSize            int     // Size of each square tile (0 = 64)
	WorkerCount         int     // Number of parallel workers (0 = use CPU count)
	Seed                int64   // Base seed for the per-tile samplers
	AdaptiveThreshold   float64 // Relative luminance error target, 0 disables adaptive stopping
	AdaptiveMinSamples  float64 // Fraction of the pass target required before adaptive stopping
}

// DefaultRenderConfig returns sensible default values
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:               800,
		Height:              450,
		SamplesPerPixel:     50,
		MaxDepth:            50,
		RouletteStartBounce: 3,
		InitialSamples:      1,
		MaxPasses:           7,
		TileSize:            64,
		WorkerCount:         0, // Auto-detect CPU count
		AdaptiveMinSamples:  0.1,
	}
}

// Validate rejects configurations that cannot be rendered. Zero values for
// InitialSamples, MaxPasses, TileSize and WorkerCount are legal and mean
// "use the default".
func (c RenderConfig) Validate() error {
	if c.Width <= 0 {
		return core.NewConfigError("width", "must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		return core.NewConfigError("height", "must be positive, got %d", c.Height)
	}
	if c.SamplesPerPixel <= 0 {
		return core.NewConfigError("samplesPerPixel", "must be positive, got %d", c.SamplesPerPixel)
	}
	if c.MaxDepth <= 0 {
		return core.NewConfigError("maxDepth", "must be positive, got %d", c.MaxDepth)
	}
	if c.RouletteStartBounce < 0 {
		return core.NewConfigError("rouletteStartBounce", "must not be negative, got %d", c.RouletteStartBounce)
	}
	if c.InitialSamples < 0 {
		return core.NewConfigError("initialSamples", "must not be negative, got %d", c.InitialSamples)
	}
	if c.InitialSamples > c.SamplesPerPixel {
		return core.NewConfigError("initialSamples", "%d exceeds the sample budget %d", c.InitialSamples, c.SamplesPerPixel)
	}
	if c.MaxPasses < 0 {
		return core.NewConfigError("maxPasses", "must not be negative, got %d", c.MaxPasses)
	}
	if c.TileSize < 0 {
		return core.NewConfigError("tileSize", "must not be negative, got %d", c.TileSize)
	}
	if c.WorkerCount < 0 {
		return core.NewConfigError("workerCount", "must not be negative, got %d", c.WorkerCount)
	}
	if c.AdaptiveThreshold < 0 {
		return core.NewConfigError("adaptiveThreshold", "must not be negative, got %g", c.AdaptiveThreshold)
	}
	if c.AdaptiveMinSamples < 0 || c.AdaptiveMinSamples > 1 {
		return core.NewConfigError("adaptiveMinSamples", "must be in [0, 1], got %g", c.AdaptiveMinSamples)
	}
	return nil
}

// withDefaults fills the zero values that stand for defaults
func (c RenderConfig) withDefaults() RenderConfig {
	if c.InitialSamples == 0 {
		c.InitialSamples = 1
	}
	if c.MaxPasses == 0 {
		c.MaxPasses = 1
	}
	if c.TileSize == 0 {
		c.TileSize = 64
	}
	return c
}

// samplesForPass calculates the cumulative per-pixel sample target after the
// given pass: a quick preview pass first, then the remaining budget divided
// evenly, with the final pass absorbing the integer remainder.
func samplesForPass(cfg RenderConfig, passNumber int) int {
	// Special case: if only 1 pass, use all samples
	if cfg.MaxPasses == 1 {
		return cfg.SamplesPerPixel
	}

	// For multiple passes: first pass is a quick preview
	if passNumber == 1 {
		return cfg.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := cfg.SamplesPerPixel - cfg.InitialSamples
	remainingPasses := cfg.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := cfg.InitialSamples + (passNumber-1)*samplesPerPass

	// The final pass gets all remaining samples
	if passNumber == cfg.MaxPasses {
		targetSamples = cfg.SamplesPerPixel
	}

	return targetSamples
}
