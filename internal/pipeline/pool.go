package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jackzampolin/pdfsift/internal/extract"
)

// ErrQueueFull is returned by Submit when the pool's queue has no room.
var ErrQueueFull = errors.New("worker queue full")

// Processor turns one document into one result. Implementations must be
// safe for concurrent use and must not return without a result.
type Processor interface {
	Process(ctx context.Context, path string) extract.Result
}

// workUnit is one document queued for processing.
type workUnit struct {
	Seq  int
	Path string
}

// workerResult pairs a finished unit with its result.
// Workers send these to the coordinator; they never touch shared state.
type workerResult struct {
	Unit   workUnit
	Result extract.Result
}

// WorkerPool runs a fixed number of workers over a single shared queue.
// Load balancing falls out of Go channel semantics.
type WorkerPool struct {
	name        string
	logger      *slog.Logger
	workerCount int
	queueSize   int
	processor   Processor
	signal      Signal

	// Single shared queue (all workers pull from this)
	queue chan workUnit

	// Results channel (workers -> coordinator)
	results chan<- workerResult

	wg        sync.WaitGroup
	closeOnce sync.Once

	inFlight atomic.Int32
	skipped  atomic.Int32
}

// PoolConfig configures a new worker pool.
type PoolConfig struct {
	Name        string
	Logger      *slog.Logger
	WorkerCount int // Default 4
	QueueSize   int // Default 10000
	Processor   Processor
	// Signal lets workers skip queued units once a run is cancelled.
	Signal Signal
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(cfg PoolConfig) *WorkerPool {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.Name
	if name == "" {
		name = "extract"
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 10000
	}

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = DefaultWorkers
	}

	return &WorkerPool{
		name:        name,
		logger:      logger.With("pool", name, "workers", workerCount),
		workerCount: workerCount,
		queueSize:   queueSize,
		processor:   cfg.Processor,
		signal:      cfg.Signal,
	}
}

// init initializes channels. Called by the pipeline before Start.
func (p *WorkerPool) init(results chan<- workerResult) {
	p.queue = make(chan workUnit, p.queueSize)
	p.results = results
}

// Start launches the workers and returns. Workers exit once the queue is
// closed and drained, or when ctx is cancelled.
func (p *WorkerPool) Start(ctx context.Context) {
	p.logger.Debug("pool starting")
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// worker processes work units from the shared queue.
func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	p.logger.Debug("worker started", "worker_id", id)
	for {
		select {
		case <-ctx.Done():
			return

		case unit, ok := <-p.queue:
			if !ok {
				return
			}
			if p.signal != nil && p.signal.Cancelled() {
				p.skipped.Add(1)
				continue
			}
			p.inFlight.Add(1)
			result := p.processor.Process(ctx, unit.Path)
			p.inFlight.Add(-1)
			p.logger.Debug("worker completed unit", "worker_id", id, "seq", unit.Seq, "failed", result.Failed())
			// results is sized to hold every unit, so this never blocks
			// even after the coordinator stops listening.
			p.results <- workerResult{Unit: unit, Result: result}
		}
	}
}

// Submit adds a work unit to the pool's queue.
func (p *WorkerPool) Submit(unit workUnit) error {
	select {
	case p.queue <- unit:
		return nil
	default:
		p.logger.Warn("pool queue full", "seq", unit.Seq)
		return fmt.Errorf("%w: %s", ErrQueueFull, p.name)
	}
}

// Close stops accepting work. Queued units still run.
func (p *WorkerPool) Close() {
	p.closeOnce.Do(func() { close(p.queue) })
}

// Wait blocks until every worker has exited.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// PoolStatus reports a pool's current state.
type PoolStatus struct {
	Name       string `json:"name" yaml:"name"`
	Workers    int    `json:"workers" yaml:"workers"`
	InFlight   int    `json:"in_flight" yaml:"in_flight"`
	QueueDepth int    `json:"queue_depth" yaml:"queue_depth"`
	Skipped    int    `json:"skipped" yaml:"skipped"`
}

// Status returns current pool status.
func (p *WorkerPool) Status() PoolStatus {
	return PoolStatus{
		Name:       p.name,
		Workers:    p.workerCount,
		InFlight:   int(p.inFlight.Load()),
		QueueDepth: len(p.queue),
		Skipped:    int(p.skipped.Load()),
	}
}
