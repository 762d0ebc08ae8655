// Package session owns the single active extraction run behind the
// control surfaces: start, pause, resume, cancel and live snapshots.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/pdfsift/internal/config"
	"github.com/jackzampolin/pdfsift/internal/extract"
	"github.com/jackzampolin/pdfsift/internal/pipeline"
)

var (
	// ErrRunActive is returned by StartRun while a run is in progress.
	ErrRunActive = pipeline.ErrRunActive

	// ErrNoRun is returned by controls when no run has been started.
	ErrNoRun = errors.New("no run in progress")

	// ErrNoFactory is returned by StartRun when the session cannot build pipelines.
	ErrNoFactory = errors.New("no pipeline factory configured")
)

// Factory builds a pipeline for one run.
type Factory func(cfg *config.Config, signal pipeline.Signal, listener pipeline.Listener, logger *slog.Logger) (*pipeline.Pipeline, error)

// Config configures a Session.
type Config struct {
	// ConfigManager supplies settings; each run reads the latest.
	ConfigManager *config.Manager
	// Settings is used when ConfigManager is nil. Default DefaultConfig().
	Settings *config.Config
	// Factory builds each run's pipeline; runs cannot start without one.
	Factory Factory
	// Listener also receives every event of every run.
	Listener pipeline.Listener
	Logger   *slog.Logger
}

// Snapshot is a point-in-time view of the current run.
type Snapshot struct {
	RunID     string         `json:"run_id" yaml:"run_id"`
	Root      string         `json:"root" yaml:"root"`
	State     pipeline.State `json:"state" yaml:"state"`
	Status    string         `json:"status" yaml:"status"`
	Progress  float64        `json:"progress" yaml:"progress"`
	Total     int            `json:"total" yaml:"total"`
	Processed int            `json:"processed" yaml:"processed"`
	Failed    int            `json:"failed" yaml:"failed"`
	Paused    bool           `json:"paused" yaml:"paused"`
	// Pool is present while documents are being dispatched.
	Pool      *pipeline.PoolStatus `json:"pool,omitempty" yaml:"pool,omitempty"`
	StartedAt time.Time            `json:"started_at" yaml:"started_at"`
	EndedAt   *time.Time           `json:"ended_at,omitempty" yaml:"ended_at,omitempty"`
	Error     string               `json:"error,omitempty" yaml:"error,omitempty"`
	Results   []extract.Result     `json:"results,omitempty" yaml:"results,omitempty"`
}

// Session runs at most one pipeline at a time.
type Session struct {
	cfgMgr   *config.Manager
	settings *config.Config
	factory  Factory
	listener pipeline.Listener
	base     *slog.Logger
	logger   *slog.Logger
	control  *pipeline.Control

	mu      sync.RWMutex
	current *run
}

type run struct {
	id        string
	root      string
	state     pipeline.State
	status    string
	progress  float64
	total     int
	results   []extract.Result
	failed    int
	startedAt time.Time
	endedAt   time.Time
	summary   *pipeline.Summary
	err       error
	pipe      *pipeline.Pipeline
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a Session.
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	settings := cfg.Settings
	if settings == nil {
		settings = config.DefaultConfig()
	}
	s := &Session{
		cfgMgr:   cfg.ConfigManager,
		settings: settings,
		factory:  cfg.Factory,
		listener: cfg.Listener,
		base:     logger,
		logger:   logger.With("component", "session"),
		control:  pipeline.NewControl(),
	}

	if s.cfgMgr != nil {
		s.cfgMgr.OnChange(func(c *config.Config) {
			s.logger.Info("config reloaded, applies to the next run",
				"workers", c.Extract.Workers,
				"dpi", c.Extract.DPI,
				"min_confidence", c.Extract.MinConfidence)
		})
	}
	return s
}

func (s *Session) config() *config.Config {
	if s.cfgMgr != nil {
		return s.cfgMgr.Get()
	}
	return s.settings
}

// StartRun begins extracting root in the background and returns the run
// id. Prior results and control flags are cleared. The run outlives ctx's
// cancellation but keeps its values; use Cancel or Close to stop it.
func (s *Session) StartRun(ctx context.Context, root string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && !s.current.finished() {
		return "", ErrRunActive
	}
	if s.factory == nil {
		return "", ErrNoFactory
	}

	s.control.Reset()
	r := &run{
		id:        uuid.New().String(),
		root:      root,
		state:     pipeline.StateIdle,
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}

	var listener pipeline.Listener = &runListener{s: s, r: r}
	if s.listener != nil {
		listener = pipeline.Listeners{listener, s.listener}
	}

	p, err := s.factory(s.config(), s.control, listener, s.base.With("run_id", r.id))
	if err != nil {
		return "", err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel
	r.pipe = p
	s.current = r

	s.logger.Info("run started", "run_id", r.id, "root", root)
	go s.execute(runCtx, p, r)
	return r.id, nil
}

func (s *Session) execute(ctx context.Context, p *pipeline.Pipeline, r *run) {
	defer close(r.done)
	defer r.cancel()

	summary, err := p.Run(ctx, r.root)

	s.mu.Lock()
	defer s.mu.Unlock()
	if summary != nil {
		summary.RunID = r.id
		r.state = summary.State
		r.status = summary.Status
	}
	r.summary = summary
	r.err = err
	r.endedAt = time.Now()

	if err != nil {
		s.logger.Error("run failed", "run_id", r.id, "error", err)
		return
	}
	s.logger.Info("run finished", "run_id", r.id, "state", r.state, "processed", len(r.results))
}

// Pause holds progress reporting until Resume.
func (s *Session) Pause() error {
	return s.signal(s.control.Pause, "Paused...")
}

// Resume releases a pause.
func (s *Session) Resume() error {
	return s.signal(s.control.Resume, "Resuming...")
}

// Cancel stops the run at its next check.
func (s *Session) Cancel() error {
	return s.signal(s.control.Cancel, "Stopping...")
}

func (s *Session) signal(apply func(), status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.finished() {
		return ErrNoRun
	}
	apply()
	s.current.status = status
	s.logger.Info(status, "run_id", s.current.id)
	return nil
}

// Snapshot returns the current run's state. withResults includes the
// results collected so far.
func (s *Session) Snapshot(withResults bool) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.current
	if r == nil {
		return nil, ErrNoRun
	}

	snap := &Snapshot{
		RunID:     r.id,
		Root:      r.root,
		State:     r.state,
		Status:    r.status,
		Progress:  r.progress,
		Processed: len(r.results),
		Failed:    r.failed,
		Paused:    s.control.Paused() && !r.state.Terminal(),
		StartedAt: r.startedAt,
	}
	snap.Total = r.total
	if status, ok := r.pipe.PoolStatus(); ok {
		snap.Pool = &status
	}
	if r.summary != nil {
		snap.Total = r.summary.Total
	}
	if !r.endedAt.IsZero() {
		ended := r.endedAt
		snap.EndedAt = &ended
	}
	if r.err != nil {
		snap.Error = r.err.Error()
	}
	if withResults {
		snap.Results = append([]extract.Result(nil), r.results...)
	}
	return snap, nil
}

// Results returns a copy of the current run's results in completion order.
func (s *Session) Results() ([]extract.Result, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, "", ErrNoRun
	}
	return append([]extract.Result(nil), s.current.results...), s.current.id, nil
}

// Wait blocks until the current run finishes or ctx is done.
func (s *Session) Wait(ctx context.Context) (*pipeline.Summary, error) {
	s.mu.RLock()
	r := s.current
	s.mu.RUnlock()
	if r == nil {
		return nil, ErrNoRun
	}

	select {
	case <-r.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return r.summary, r.err
}

// Close cancels any active run and waits for its coordinator to return.
func (s *Session) Close() {
	s.mu.RLock()
	r := s.current
	s.mu.RUnlock()
	if r == nil {
		return
	}
	s.control.Cancel()
	r.cancel()
	<-r.done
}

func (r *run) finished() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// runListener records pipeline events into the run under the session lock.
type runListener struct {
	s *Session
	r *run
}

func (l *runListener) OnStart(total int) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.r.total = total
}

func (l *runListener) OnResult(res extract.Result) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.r.results = append(l.r.results, res)
	if res.Failed() {
		l.r.failed++
	}
}

func (l *runListener) OnProgress(percent float64) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.r.progress = percent
}

func (l *runListener) OnStatus(state pipeline.State, message string) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.r.state = state
	l.r.status = message
}
