package renderer

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/df07/go-pathtrace/pkg/core"
	"github.com/df07/go-pathtrace/pkg/integrator"
	"github.com/df07/go-pathtrace/pkg/scene"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	TargetSamples int // Cumulative per-pixel sample target for this pass
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TileID    int
	Completed bool  // False when cancellation interrupted the tile
	Err       error // Worker-local fault, isolated to this tile
}

// WorkerPool manages parallel tile rendering. Workers share the framebuffer
// but tiles never overlap, so no two workers write the same pixel.
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*worker
	numWorkers  int
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

// worker renders tiles from the shared task queue
type worker struct {
	id          int
	renderer    *tileRenderer
	fb          *Framebuffer
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// NewWorkerPool creates a worker pool writing into the given framebuffer.
// queueDepth must be at least the number of tiles submitted per pass so that
// submission never blocks.
func NewWorkerPool(s *scene.Scene, integ integrator.Integrator, fb *Framebuffer, cancel *atomic.Bool, cfg RenderConfig, queueDepth int) *WorkerPool {
	numWorkers := cfg.WorkerCount
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, queueDepth),
		resultQueue: make(chan TileResult, queueDepth),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &worker{
			id:          i,
			renderer:    newTileRenderer(s, integ, cancel, cfg),
			fb:          fb,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, w := range wp.workers {
		wp.wg.Add(1)
		go w.run(&wp.wg)
	}
}

// Stop shuts down all workers and returns only after every worker has
// exited. Safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue) // No more tasks
		wp.wg.Wait()        // Wait for workers to finish
		close(wp.resultQueue)
	})
}

// Submit queues a tile task
func (wp *WorkerPool) Submit(task TileTask) {
	wp.taskQueue <- task
}

// Result retrieves a completed tile result
func (wp *WorkerPool) Result() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.resultQueue <- w.renderTile(task)
	}
}

// renderTile renders one tile, confining any panic to that tile. A fault in
// one tile must not corrupt or abort the others, so the recovered panic is
// reported as a RenderError in the tile's result.
func (w *worker) renderTile(task TileTask) (result TileResult) {
	result = TileResult{TileID: task.Tile.ID}

	defer func() {
		if r := recover(); r != nil {
			result.Err = core.NewRenderError(task.Tile.ID, fmt.Errorf("panic: %v", r))
		}
	}()

	result.Completed = w.renderer.renderBounds(task.Tile.Bounds, w.fb, task.Tile.Sampler, task.TargetSamples)
	return result
}
