package pipeline

import "sync/atomic"

// Signal is the read-only view of operator control the pipeline samples.
// Both flags are level-triggered: a change is seen on the next check.
type Signal interface {
	Paused() bool
	Cancelled() bool
}

// Control holds the pause and cancel flags shared between an operator
// (CLI, HTTP handler) and a running pipeline. Safe for concurrent use.
type Control struct {
	paused    atomic.Bool
	cancelled atomic.Bool
}

// NewControl returns a Control with both flags clear.
func NewControl() *Control {
	return &Control{}
}

func (c *Control) Pause()  { c.paused.Store(true) }
func (c *Control) Resume() { c.paused.Store(false) }
func (c *Control) Cancel() { c.cancelled.Store(true) }

// Reset clears both flags. Controllers call it before starting a run.
func (c *Control) Reset() {
	c.paused.Store(false)
	c.cancelled.Store(false)
}

func (c *Control) Paused() bool    { return c.paused.Load() }
func (c *Control) Cancelled() bool { return c.cancelled.Load() }

var _ Signal = (*Control)(nil)
