package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/integrator"
	"github.com/df07/go-pathtrace/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Outcome classifies how a render ended
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeCancelled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// PassResult contains the published state after a completed pass
type PassResult struct {
	PassNumber int // 1-based pass index
	Image      *image.RGBA
	Snapshot   Snapshot
	Stats      RenderStats
	Elapsed    time.Duration
	IsLast     bool
}

// RenderResult is the terminal outcome of a render. Whatever the outcome, it
// carries the latest valid snapshot: for Cancelled that is the state at the
// moment the workers stopped, for Failed the healthy tiles' data survives.
type RenderResult struct {
	Outcome  Outcome
	Image    *image.RGBA
	Snapshot Snapshot
	Stats    RenderStats
	Passes   int     // Number of fully completed passes
	Errors   []error // Per-tile faults, populated for Failed outcomes
}

// ProgressSink receives pass completion events during a render
type ProgressSink interface {
	OnPass(result PassResult)
}

// ProgressSinkFunc adapts a function to the ProgressSink interface
type ProgressSinkFunc func(PassResult)

func (f ProgressSinkFunc) OnPass(result PassResult) { f(result) }

// Renderer runs a progressive multi-pass render of a scene
type Renderer struct {
	scene      *scene.Scene
	config     RenderConfig
	integrator integrator.Integrator
	logger     core.Logger
}

// NewRenderer creates a renderer for the given scene and integrator. A nil
// logger falls back to the stdout logger.
func NewRenderer(s *scene.Scene, config RenderConfig, integ integrator.Integrator, logger core.Logger) *Renderer {
	if logger == nil {
		logger = NewDefaultLogger()
	}
	return &Renderer{
		scene:      s,
		config:     config,
		integrator: integ,
		logger:     logger,
	}
}

// RenderProgressive starts a progressive render and returns a channel of pass
// results and a channel delivering the single terminal result. The caller
// must drain the pass channel; both channels are closed when the render ends.
// An invalid configuration fails immediately without starting any workers.
func (r *Renderer) RenderProgressive(ctx context.Context) (<-chan PassResult, <-chan RenderResult) {
	passChan := make(chan PassResult, 1)
	resultChan := make(chan RenderResult, 1)

	if err := r.config.Validate(); err != nil {
		resultChan <- RenderResult{Outcome: OutcomeFailed, Errors: []error{err}}
		close(passChan)
		close(resultChan)
		return passChan, resultChan
	}

	go r.renderLoop(ctx, r.config.withDefaults(), passChan, resultChan)

	return passChan, resultChan
}

// renderLoop drives the pass schedule and publishes results. It always sends
// exactly one RenderResult before closing both channels.
func (r *Renderer) renderLoop(ctx context.Context, cfg RenderConfig, passChan chan<- PassResult, resultChan chan<- RenderResult) {
	defer close(passChan)

	// Cancellation fans out through a single flag the workers poll between
	// tiles and between pixel rows
	var cancel atomic.Bool
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			cancel.Store(true)
		case <-watchDone:
		}
	}()

	fb := NewFramebuffer(cfg.Width, cfg.Height)
	tiles := NewTileGrid(cfg.Width, cfg.Height, cfg.TileSize, cfg.Seed)
	pool := NewWorkerPool(r.scene, r.integrator, fb, &cancel, cfg, len(tiles))
	pool.Start()
	defer pool.Stop()

	r.logger.Printf("Starting progressive render: %dx%d, %d samples/pixel over %d passes (%d workers)\n",
		cfg.Width, cfg.Height, cfg.SamplesPerPixel, cfg.MaxPasses, pool.NumWorkers())

	result := RenderResult{Outcome: OutcomeCompleted}
	var tileErrors []error

	for pass := 1; pass <= cfg.MaxPasses; pass++ {
		if cancel.Load() || ctx.Err() != nil {
			result.Outcome = OutcomeCancelled
			break
		}

		startTime := time.Now()
		targetSamples := samplesForPass(cfg, pass)

		interrupted := false
		for _, tile := range tiles {
			pool.Submit(TileTask{Tile: tile, TargetSamples: targetSamples})
		}
		for range tiles {
			tileResult, ok := pool.Result()
			if !ok {
				tileErrors = append(tileErrors, errors.New("worker pool closed unexpectedly"))
				break
			}
			if tileResult.Err != nil {
				tileErrors = append(tileErrors, tileResult.Err)
			} else if !tileResult.Completed {
				interrupted = true
			}
		}

		img, snapshot, stats := fb.Assemble(targetSamples)
		result.Image, result.Snapshot, result.Stats = img, snapshot, stats

		// Cancellation beats failure: a cancelled render is a successful stop
		if cancel.Load() || interrupted {
			result.Outcome = OutcomeCancelled
			break
		}
		if len(tileErrors) > 0 {
			result.Outcome = OutcomeFailed
			break
		}

		result.Passes = pass
		elapsed := time.Since(startTime)
		r.logger.Printf("Pass %d completed in %v (%.1f samples/pixel)\n", pass, elapsed, stats.AverageSamples)

		isLast := pass == cfg.MaxPasses || stats.TotalSamples >= cfg.SamplesPerPixel*stats.TotalPixels
		passResult := PassResult{
			PassNumber: pass,
			Image:      img,
			Snapshot:   snapshot,
			Stats:      stats,
			Elapsed:    elapsed,
			IsLast:     isLast,
		}

		select {
		case passChan <- passResult:
		case <-ctx.Done():
			result.Outcome = OutcomeCancelled
		}
		if result.Outcome == OutcomeCancelled || isLast {
			break
		}
	}

	// Cancelled before the first pass finished: snapshot whatever accumulated
	if result.Image == nil {
		result.Image, result.Snapshot, result.Stats = fb.Assemble(0)
	}
	result.Errors = tileErrors

	// Every worker must have exited before the terminal result is observable
	pool.Stop()
	resultChan <- result
	close(resultChan)
}

// RenderWithSink runs a full render, forwarding each pass to the sink, and
// returns the terminal result. A nil sink discards pass events.
func (r *Renderer) RenderWithSink(ctx context.Context, sink ProgressSink) RenderResult {
	passChan, resultChan := r.RenderProgressive(ctx)
	for passResult := range passChan {
		if sink != nil {
			sink.OnPass(passResult)
		}
	}
	return <-resultChan
}

// RenderImage runs a full render to completion and returns the final image.
// Cancellation and render faults surface as errors alongside the last image.
func (r *Renderer) RenderImage(ctx context.Context) (*image.RGBA, error) {
	result := r.RenderWithSink(ctx, nil)
	switch result.Outcome {
	case OutcomeCancelled:
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		return result.Image, err
	case OutcomeFailed:
		if err := errors.Join(result.Errors...); err != nil {
			return result.Image, err
		}
		return result.Image, errors.New("rendering failed")
	default:
		return result.Image, nil
	}
}
