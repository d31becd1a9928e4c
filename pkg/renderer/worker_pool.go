package renderer

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// WorkerPool renders scanlines in parallel. Each scanline is an independent
// task with its own random stream and its own slot in the frame, so workers
// share only the read-only scene.
type WorkerPool struct {
	raytracer  *Raytracer
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(raytracer *Raytracer, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{raytracer: raytracer, numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// RenderFrame renders every scanline and returns the completed frame.
// Cancelling ctx stops scheduling new scanlines.
func (wp *WorkerPool) RenderFrame(ctx context.Context) (*Frame, error) {
	rt := wp.raytracer
	frame := NewFrame(rt.width, rt.height)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	var remaining atomic.Int64
	remaining.Store(int64(rt.height))

	for j := rt.height - 1; j >= 0; j-- {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			frame.setRow(j, rt.RenderRow(j, rt.RowRandom(j)))
			rt.progress.ScanlinesRemaining(int(remaining.Add(-1)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return frame, nil
}
