package crawl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/ohscrap"
	"github.com/google/uuid"
)

// State is a stage of a Runner's lifecycle.
type State int

const (
	StateIdle State = iota
	StateInitialized
	StateRunning
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateTornDown:
		return "torn down"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type     ProgressType
	RunID    string
	Count    int
	Location string
	Result   ohscrap.Value
	Error    error
	Duration time.Duration
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressData
	ProgressFailed
	ProgressFinished
)

func (t ProgressType) String() string {
	switch t {
	case ProgressStarted:
		return "started"
	case ProgressData:
		return "data"
	case ProgressFailed:
		return "failed"
	case ProgressFinished:
		return "finished"
	default:
		return fmt.Sprintf("progress(%d)", int(t))
	}
}

// ProgressFunc is a callback for reporting run progress. It is called
// synchronously from the goroutine driving the run.
type ProgressFunc func(event ProgressEvent)

// OpenFunc creates the fetcher used by a run.
type OpenFunc func(ctx context.Context) (ohscrap.Fetcher, error)

// LocationFunc returns the location of iteration count. ok is false when
// there are no more locations.
type LocationFunc func(count int) (location string, ok bool)

// ContinueFunc decides after each iteration whether Until goes on.
type ContinueFunc func(ctx context.Context, count int, result ohscrap.Value) (bool, error)

// Runner owns the fetcher of a crawl from initialization to teardown and
// drives single-shot and repeated crawls. A Runner is used once.
type Runner struct {
	Crawler *Crawler

	// Open, if set, creates the crawler's fetcher at initialization.
	// Otherwise Crawler.Fetcher is used as configured.
	Open OpenFunc

	Progress ProgressFunc

	mu    sync.Mutex
	state State
	id    string
	begin time.Time
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// ID returns the run ID assigned at initialization.
func (r *Runner) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

// Start initializes the runner, crawls location once and tears down.
func (r *Runner) Start(ctx context.Context, location string, sel ohscrap.Selector) (result ohscrap.Value, err error) {
	err = r.run(ctx, func() error {
		var err error
		result, err = r.iterate(ctx, 0, location, sel)
		return err
	})
	return result, err
}

// Until crawls the location returned by next for count 0, 1, ... and asks
// keepGoing after each crawl whether to go on. It stops when next runs out,
// keepGoing returns false, or a crawl fails, and returns the number of
// iterations keepGoing approved. A nil keepGoing stops after the first
// crawl.
func (r *Runner) Until(ctx context.Context, next LocationFunc, sel ohscrap.Selector, keepGoing ContinueFunc) (count int, err error) {
	err = r.run(ctx, func() error {
		for {
			location, ok := next(count)
			if !ok {
				return nil
			}

			result, err := r.iterate(ctx, count, location, sel)
			if err != nil {
				return err
			}

			if keepGoing == nil {
				return nil
			}
			more, err := keepGoing(ctx, count, result)
			if err != nil {
				return err
			}
			if !more {
				return nil
			}
			count++
		}
	})
	return count, err
}

// iterate crawls one location and reports the outcome.
func (r *Runner) iterate(ctx context.Context, count int, location string, sel ohscrap.Selector) (ohscrap.Value, error) {
	begin := time.Now()
	result, err := r.Crawler.Crawl(ctx, location, sel, ohscrap.PageContext{})
	event := ProgressEvent{
		Type:     ProgressData,
		RunID:    r.ID(),
		Count:    count,
		Location: location,
		Result:   result,
		Duration: time.Since(begin),
	}
	if err != nil {
		event.Type = ProgressFailed
		event.Error = err
	}
	r.emit(event)
	return result, err
}

// run brackets fn with initialization and teardown.
func (r *Runner) run(ctx context.Context, fn func() error) (err error) {
	if err := r.Init(ctx); err != nil {
		return err
	}
	defer func() {
		if terr := r.Teardown(); terr != nil {
			err = errors.Join(err, terr)
		}
	}()

	if err := r.transition(StateInitialized, StateRunning); err != nil {
		return err
	}
	return fn()
}

// Init opens the fetcher and moves the runner from idle to initialized.
func (r *Runner) Init(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateIdle {
		state := r.state
		r.mu.Unlock()
		return ohscrap.Errorf(ohscrap.EINVALID, "cannot initialize runner in state %s", state)
	}
	if r.Crawler == nil {
		r.mu.Unlock()
		return ohscrap.Errorf(ohscrap.EINVALID, "runner has no crawler")
	}

	if r.Open != nil {
		fetcher, err := r.Open(ctx)
		if err != nil {
			r.mu.Unlock()
			return fmt.Errorf("opening fetcher: %w", err)
		}
		r.Crawler.Fetcher = fetcher
	}

	r.id = uuid.NewString()
	r.begin = time.Now()
	r.state = StateInitialized
	id := r.id
	r.mu.Unlock()

	r.emit(ProgressEvent{Type: ProgressStarted, RunID: id})
	return nil
}

// Teardown closes the fetcher. Teardown is safe to call more than once;
// only the first call after initialization has an effect.
func (r *Runner) Teardown() error {
	r.mu.Lock()
	switch r.state {
	case StateTornDown:
		r.mu.Unlock()
		return nil
	case StateIdle:
		r.mu.Unlock()
		return ohscrap.Errorf(ohscrap.EINVALID, "cannot tear down runner that was never initialized")
	}

	var err error
	if r.Crawler.Fetcher != nil {
		err = r.Crawler.Fetcher.Close()
	}
	r.state = StateTornDown
	event := ProgressEvent{Type: ProgressFinished, RunID: r.id, Duration: time.Since(r.begin), Error: err}
	r.mu.Unlock()

	r.emit(event)
	return err
}

func (r *Runner) transition(from, to State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != from {
		return ohscrap.Errorf(ohscrap.EINVALID, "cannot move runner from %s to %s", r.state, to)
	}
	r.state = to
	return nil
}

func (r *Runner) emit(event ProgressEvent) {
	if r.Progress != nil {
		r.Progress(event)
	}
}
