package runtime

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/state"
)

const (
	// DefaultTick is the interval between timer ticks.
	DefaultTick = 50 * time.Millisecond
	// DefaultQueueSize bounds the event queue.
	DefaultQueueSize = 64
)

// ErrStopped is returned when pushing to a loop that is no longer running.
var ErrStopped = errors.New("loop stopped")

// Options configures a Loop. Zero values select the defaults.
type Options struct {
	Tick      time.Duration
	QueueSize int
	Metrics   *Metrics
	// OnPanic runs before a dispatch panic is propagated, to restore the
	// terminal or similar.
	OnPanic func()
	// Debug logs every dispatched event.
	Debug bool
}

// Status is a snapshot of a loop.
type Status struct {
	State     string    `json:"state"`
	Ticks     uint64    `json:"ticks"`
	Events    uint64    `json:"events"`
	Errors    uint64    `json:"errors"`
	LastError string    `json:"last_error,omitempty"`
	Running   bool      `json:"running"`
	StartedAt time.Time `json:"started_at"`
}

// Loop feeds events to a state machine from a single goroutine. Producers push
// into a bounded queue; a ticker adds timer ticks while Run is active.
type Loop struct {
	machine  *state.Machine
	events   chan engine.Event
	requests chan request
	opts     Options
	done     chan struct{}

	mu     sync.RWMutex
	status Status
}

// New creates a loop around machine.
func New(machine *state.Machine, opts Options) *Loop {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	l := &Loop{
		machine: machine,
		events:   make(chan engine.Event, opts.QueueSize),
		requests: make(chan request),
		opts:     opts,
		done:     make(chan struct{}),
		status:   Status{State: machine.Current().Name()},
	}
	machine.Observe(l.transition)
	return l
}

// Push queues ev, waiting for room until ctx is done.
func (l *Loop) Push(ctx context.Context, ev engine.Event) error {
	select {
	case <-l.done:
		return ErrStopped
	default:
	}
	select {
	case l.events <- ev:
		l.gauge()
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Press queues a press of b followed by its release.
func (l *Loop) Press(ctx context.Context, b engine.Button) error {
	if err := l.Push(ctx, engine.Press(b)); err != nil {
		return err
	}
	return l.Push(ctx, engine.Release(b))
}

type request struct {
	fn   func(*state.Machine)
	done chan struct{}
}

// Inspect runs fn on the dispatch goroutine once every event queued before the
// call has been handled. fn must not keep the machine or anything it owns.
func (l *Loop) Inspect(ctx context.Context, fn func(*state.Machine)) error {
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case l.requests <- req:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a snapshot of the loop.
func (l *Loop) Status() Status {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.status
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Run dispatches events until ctx is cancelled. It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	l.mu.Lock()
	l.status.Running = true
	l.status.StartedAt = time.Now()
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		l.status.Running = false
		l.mu.Unlock()
	}()

	tickCtx, stopTicks := context.WithCancel(ctx)
	defer stopTicks()
	go l.tick(tickCtx)

	log.Printf("runtime: started, tick %s", l.opts.Tick)
	for {
		select {
		case <-ctx.Done():
			log.Printf("runtime: stopped")
			return nil
		case ev := <-l.events:
			l.gauge()
			l.dispatch(ctx, ev)
		case req := <-l.requests:
			l.drain(ctx)
			req.fn(l.machine)
			close(req.done)
		}
	}
}

// drain dispatches whatever is queued right now.
func (l *Loop) drain(ctx context.Context) {
	for {
		select {
		case ev := <-l.events:
			l.gauge()
			l.dispatch(ctx, ev)
		default:
			return
		}
	}
}

func (l *Loop) dispatch(ctx context.Context, ev engine.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("runtime: panic while handling %s: %v", ev, r)
			if l.opts.OnPanic != nil {
				l.opts.OnPanic()
			}
			panic(r)
		}
	}()

	if l.opts.Debug {
		log.Printf("runtime: event %s", ev)
	}
	start := time.Now()
	err := l.machine.OnEvent(ctx, ev)
	elapsed := time.Since(start)

	l.mu.Lock()
	l.status.Events++
	if ev.IsTick() {
		l.status.Ticks++
	}
	if err != nil {
		l.status.Errors++
		l.status.LastError = err.Error()
	}
	l.mu.Unlock()

	if m := l.opts.Metrics; m != nil {
		m.events.WithLabelValues(kindLabel(ev)).Inc()
		m.dispatch.Observe(elapsed.Seconds())
		if err != nil {
			m.errors.Inc()
		}
	}
	if err != nil {
		log.Printf("runtime: %s: %v", ev, err)
	}
}

// tick produces timer ticks. A tick that does not fit the queue is dropped;
// the counter still advances so animations keep their pace.
func (l *Loop) tick(ctx context.Context) {
	ticker := time.NewTicker(l.opts.Tick)
	defer ticker.Stop()

	var now uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now++
			select {
			case l.events <- engine.Tick(now):
				l.gauge()
			default:
				if l.opts.Metrics != nil {
					l.opts.Metrics.dropped.Inc()
				}
			}
		}
	}
}

func (l *Loop) transition(_, next state.State) {
	l.mu.Lock()
	l.status.State = next.Name()
	l.mu.Unlock()
	if m := l.opts.Metrics; m != nil {
		// Level states carry their id; the label keeps only the state kind.
		name, _, _ := strings.Cut(next.Name(), ":")
		m.transitions.WithLabelValues(name).Inc()
	}
}

func (l *Loop) gauge() {
	if m := l.opts.Metrics; m != nil {
		m.queued.Set(float64(len(l.events)))
	}
}

func kindLabel(ev engine.Event) string {
	if ev.IsTick() {
		return "tick"
	}
	return fmt.Sprintf("%s_%s", ev.Button, ev.State)
}
