package pipeline

import "github.com/jackzampolin/pdfsift/internal/extract"

// Listener observes a run. All callbacks are invoked from the pipeline's
// coordinating goroutine, in order, and should return quickly.
type Listener interface {
	// OnStart receives the number of documents found, before dispatch.
	OnStart(total int)
	OnResult(result extract.Result)
	// OnProgress receives the completed percentage, 0..100, never decreasing.
	OnProgress(percent float64)
	OnStatus(state State, message string)
}

// Listeners fans each event out to every member in order.
type Listeners []Listener

func (ls Listeners) OnStart(total int) {
	for _, l := range ls {
		l.OnStart(total)
	}
}

func (ls Listeners) OnResult(r extract.Result) {
	for _, l := range ls {
		l.OnResult(r)
	}
}

func (ls Listeners) OnProgress(percent float64) {
	for _, l := range ls {
		l.OnProgress(percent)
	}
}

func (ls Listeners) OnStatus(state State, message string) {
	for _, l := range ls {
		l.OnStatus(state, message)
	}
}

// ListenerFuncs adapts optional closures to Listener.
type ListenerFuncs struct {
	Start    func(int)
	Result   func(extract.Result)
	Progress func(float64)
	Status   func(State, string)
}

func (f ListenerFuncs) OnStart(total int) {
	if f.Start != nil {
		f.Start(total)
	}
}

func (f ListenerFuncs) OnResult(r extract.Result) {
	if f.Result != nil {
		f.Result(r)
	}
}

func (f ListenerFuncs) OnProgress(percent float64) {
	if f.Progress != nil {
		f.Progress(percent)
	}
}

func (f ListenerFuncs) OnStatus(state State, message string) {
	if f.Status != nil {
		f.Status(state, message)
	}
}

var (
	_ Listener = Listeners(nil)
	_ Listener = ListenerFuncs{}
)
