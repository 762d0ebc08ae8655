// Package pipeline runs extraction over a corpus with a bounded worker
// pool, cooperative pause/cancel, and results reported in completion order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/pdfsift/internal/extract"
)

const (
	// DefaultWorkers is the concurrency degree when none is configured.
	DefaultWorkers = 4

	// DefaultPollInterval is how often pause and cancel are sampled.
	DefaultPollInterval = 200 * time.Millisecond
)

// ErrRunActive is returned when Run is called while another run is active.
var ErrRunActive = errors.New("a run is already active")

// State is a run's lifecycle position.
type State string

const (
	StateIdle        State = "idle"
	StateScanning    State = "scanning"
	StateDispatching State = "dispatching"
	StatePaused      State = "paused"
	StateCompleted   State = "completed"
	StateCancelled   State = "cancelled"
	StateFailed      State = "failed"
)

// Terminal reports whether no further transitions follow.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Scanner enumerates the documents under a root.
type Scanner interface {
	Scan(root string) ([]string, error)
}

// Config configures a Pipeline.
type Config struct {
	Scanner   Scanner
	Processor Processor
	Signal    Signal
	Listener  Listener
	Logger    *slog.Logger

	Workers      int           // Default 4
	PollInterval time.Duration // Default 200ms
}

// Summary describes a finished run.
type Summary struct {
	RunID     string           `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Root      string           `json:"root" yaml:"root"`
	State     State            `json:"state" yaml:"state"`
	Status    string           `json:"status" yaml:"status"`
	Total     int              `json:"total" yaml:"total"`
	Processed int              `json:"processed" yaml:"processed"`
	Failed    int              `json:"failed" yaml:"failed"`
	Duration  time.Duration    `json:"duration" yaml:"duration"`
	Results   []extract.Result `json:"results,omitempty" yaml:"results,omitempty"`
}

// Pipeline coordinates one run at a time. The coordinating goroutine owns
// the results accumulator and progress; workers only send on a channel.
type Pipeline struct {
	scanner      Scanner
	processor    Processor
	signal       Signal
	listener     Listener
	logger       *slog.Logger
	workers      int
	pollInterval time.Duration

	running atomic.Bool

	mu    sync.RWMutex
	state State
	pool  *WorkerPool
}

// New creates a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Scanner == nil {
		return nil, errors.New("scanner is required")
	}
	if cfg.Processor == nil {
		return nil, errors.New("processor is required")
	}
	signal := cfg.Signal
	if signal == nil {
		signal = NewControl()
	}
	listener := cfg.Listener
	if listener == nil {
		listener = ListenerFuncs{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}

	return &Pipeline{
		scanner:      cfg.Scanner,
		processor:    cfg.Processor,
		signal:       signal,
		listener:     listener,
		logger:       logger.With("component", "pipeline"),
		workers:      workers,
		pollInterval: poll,
		state:        StateIdle,
	}, nil
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// PoolStatus reports the worker pool of the active run. ok is false
// outside the dispatch phase.
func (p *Pipeline) PoolStatus() (status PoolStatus, ok bool) {
	p.mu.RLock()
	pool := p.pool
	p.mu.RUnlock()
	if pool == nil {
		return PoolStatus{}, false
	}
	return pool.Status(), true
}

func (p *Pipeline) setPool(pool *WorkerPool) {
	p.mu.Lock()
	p.pool = pool
	p.mu.Unlock()
}

func (p *Pipeline) setState(state State, message string) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
	p.logger.Debug("state change", "state", state, "message", message)
	p.listener.OnStatus(state, message)
}

// Run scans root and processes every document found. It blocks until the
// run completes or is cancelled, through the Signal or ctx.
//
// A cancelled run returns immediately: documents already being processed
// finish in the background and their results are discarded, queued
// documents are skipped. A scan failure is returned as the error with a
// zero-document summary.
func (p *Pipeline) Run(ctx context.Context, root string) (*Summary, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrRunActive
	}
	defer p.running.Store(false)

	start := time.Now()
	summary := &Summary{Root: root}
	finish := func(state State, message string) *Summary {
		summary.State = state
		summary.Status = message
		summary.Duration = time.Since(start)
		p.setState(state, message)
		return summary
	}

	log := p.logger.With("root", root)
	p.setState(StateScanning, "Scanning PDFs...")

	paths, err := p.scanner.Scan(root)
	if err != nil {
		log.Error("scan failed", "error", err)
		return finish(StateFailed, fmt.Sprintf("Scan failed: %v", err)), err
	}

	total := len(paths)
	summary.Total = total
	if total == 0 {
		log.Info("no documents found")
		return finish(StateCompleted, "No PDFs found."), nil
	}

	// Buffered for every unit so workers never block on a departed coordinator
	results := make(chan workerResult, total)
	pool := NewWorkerPool(PoolConfig{
		Logger:      p.logger,
		WorkerCount: p.workers,
		QueueSize:   total,
		Processor:   p.processor,
		Signal:      p.signal,
	})
	pool.init(results)
	pool.Start(ctx)
	p.setPool(pool)
	defer p.setPool(nil)
	for i, path := range paths {
		if err := pool.Submit(workUnit{Seq: i, Path: path}); err != nil {
			// Queue is sized to total; this would be a programming error
			return finish(StateFailed, err.Error()), err
		}
	}
	pool.Close()

	log.Info("dispatching", "documents", total, "workers", p.workers)
	p.listener.OnStart(total)
	p.setState(StateDispatching, fmt.Sprintf("Processing %d PDFs...", total))

	cancelled := func() *Summary {
		status := pool.Status()
		log.Info("run cancelled",
			"processed", summary.Processed,
			"total", total,
			"in_flight", status.InFlight,
			"queued", status.QueueDepth)
		return finish(StateCancelled, fmt.Sprintf("Cancelled: %d of %d PDFs processed.", summary.Processed, total))
	}

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for summary.Processed < total {
		select {
		case <-ctx.Done():
			return cancelled(), nil

		case <-ticker.C:
			if p.signal.Cancelled() {
				return cancelled(), nil
			}
			if !p.waitWhilePaused(ctx) {
				return cancelled(), nil
			}

		case wr := <-results:
			if p.signal.Cancelled() {
				return cancelled(), nil
			}
			if !p.waitWhilePaused(ctx) {
				return cancelled(), nil
			}

			summary.Results = append(summary.Results, wr.Result)
			summary.Processed++
			if wr.Result.Failed() {
				summary.Failed++
			}
			p.listener.OnResult(wr.Result)
			p.listener.OnProgress(float64(summary.Processed) / float64(total) * 100)
		}
	}

	pool.Wait()
	log.Info("run complete", "processed", summary.Processed, "failed", summary.Failed, "duration", time.Since(start))
	return finish(StateCompleted, fmt.Sprintf("Completed: %d PDFs processed.", total)), nil
}

// waitWhilePaused blocks while the pause flag is set, sampling every poll
// interval. It returns false if the run was cancelled meanwhile.
// Workers keep running; only observation and reporting stop.
func (p *Pipeline) waitWhilePaused(ctx context.Context) bool {
	if !p.signal.Paused() {
		return true
	}

	p.setState(StatePaused, "Paused...")
	for p.signal.Paused() {
		if p.signal.Cancelled() {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(p.pollInterval):
		}
	}
	if p.signal.Cancelled() {
		return false
	}

	p.setState(StateDispatching, "Resuming...")
	return true
}
