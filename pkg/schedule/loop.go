package schedule

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// ErrStopped is returned when work is handed to a loop that has stopped.
var ErrStopped = errors.New("schedule: loop stopped")

// Loop is a real-time Scheduler. All scheduled callbacks and all closures
// passed to [Loop.Post] run on the goroutine that calls [Loop.Run].
//
// RequestFrame and Every must be called from the loop goroutine (or before
// Run starts); other goroutines hand work over with Post or Do.
type Loop struct {
	queue         chan func()
	frameInterval time.Duration
	logger        *log.Logger

	done     chan struct{}
	doneOnce sync.Once

	// frames is only touched on the loop goroutine.
	frames       []*frameTask
	framePending atomic.Bool
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithFrameInterval sets the time between frames.
func WithFrameInterval(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.frameInterval = d
		}
	}
}

// WithQueueSize sets the event queue buffer size.
func WithQueueSize(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.queue = make(chan func(), n)
		}
	}
}

// WithLoopLogger sets the logger for loop diagnostics.
func WithLoopLogger(lg *log.Logger) LoopOption { return func(l *Loop) { l.logger = lg } }

// NewLoop creates a stopped loop.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		queue:         make(chan func(), 256),
		frameInterval: DefaultFrameInterval,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = log.Default()
	}
	return l
}

// Run processes queued work until ctx is cancelled. It returns ctx.Err().
// A loop cannot be restarted after Run returns.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()

	go l.tickFrames(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.queue:
			fn()
		}
	}
}

func (l *Loop) stop() { l.doneOnce.Do(func() { close(l.done) }) }

// tickFrames posts one frame event per interval. A frame still waiting in
// the queue is not posted twice.
func (l *Loop) tickFrames(ctx context.Context) {
	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case <-ticker.C:
			if !l.framePending.CompareAndSwap(false, true) {
				continue
			}
			if !l.Post(l.runFrame) {
				l.framePending.Store(false)
			}
		}
	}
}

func (l *Loop) runFrame() {
	l.framePending.Store(false)
	batch := l.frames
	l.frames = nil
	for _, t := range batch {
		if t.canceled {
			continue
		}
		t.canceled = true
		t.fn()
	}
}

// Post queues fn to run on the loop goroutine. It is safe to call from any
// goroutine and reports false if the loop has stopped or the queue is full.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	default:
		l.logger.Warn("event queue full, dropping update")
		return false
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestFrame implements Scheduler.
func (l *Loop) RequestFrame(fn func()) Cancel {
	t := &frameTask{fn: fn}
	l.frames = append(l.frames, t)
	return func() { t.canceled = true }
}

// Every implements Scheduler. Each tick is posted to the loop; a tick that
// arrives after Cancel is discarded on the loop goroutine.
func (l *Loop) Every(period time.Duration, fn func()) Cancel {
	if period <= 0 {
		return func() {}
	}
	stop := make(chan struct{})
	var once sync.Once
	canceled := false // loop goroutine only

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-l.done:
				return
			case <-ticker.C:
				l.Post(func() {
					if !canceled {
						fn()
					}
				})
			}
		}
	}()

	return func() {
		canceled = true
		once.Do(func() { close(stop) })
	}
}
