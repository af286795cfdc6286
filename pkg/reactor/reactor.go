// Package reactor re-runs measurement when the observed geometry changes.
//
// A [Reactor] subscribes to any number of [Notifier]s (box size changes,
// viewport resizes, state changes) and turns every burst of notifications
// into exactly one measurement on the next frame. Measurement never runs
// inside a notification callback, where layout may still be stale.
package reactor

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/bottleneck/pkg/observability"
	"github.com/matzehuels/bottleneck/pkg/schedule"
)

// Notifier delivers geometry change notifications. OnGeometryChange returns
// a function that removes the subscription.
type Notifier interface {
	OnGeometryChange(fn func()) (unsubscribe func())
}

// NotifierFunc adapts a subscription function to Notifier.
type NotifierFunc func(fn func()) func()

// OnGeometryChange implements Notifier.
func (f NotifierFunc) OnGeometryChange(fn func()) func() { return f(fn) }

// Reactor coalesces change notifications into frame-aligned measurements.
// It is not safe for concurrent use.
type Reactor struct {
	sched   schedule.Scheduler
	measure func()
	logger  *log.Logger

	unsubs  []func()
	pending schedule.Cancel
	closed  bool
	runs    int
}

// Option configures a Reactor.
type Option func(*Reactor)

// WithLogger sets the reactor's logger.
func WithLogger(l *log.Logger) Option { return func(r *Reactor) { r.logger = l } }

// New returns a reactor that calls measure on frames requested from sched.
func New(sched schedule.Scheduler, measure func(), opts ...Option) *Reactor {
	r := &Reactor{sched: sched, measure: measure}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

// Watch subscribes to n. Notifications from n invalidate the layout.
func (r *Reactor) Watch(n Notifier) {
	if r.closed || n == nil {
		return
	}
	r.unsubs = append(r.unsubs, n.OnGeometryChange(r.Invalidate))
}

// Start schedules the initial measurement.
func (r *Reactor) Start() { r.Invalidate() }

// Invalidate requests a measurement on the next frame. A request that is
// still pending is cancelled and replaced, so a burst costs one measurement.
func (r *Reactor) Invalidate() {
	if r.closed {
		return
	}
	if r.pending != nil {
		r.pending()
		observability.Reactor().OnCoalesce()
	}
	// Only the newest request can run; older ones were cancelled above.
	r.pending = r.sched.RequestFrame(func() {
		r.pending = nil
		if r.closed {
			return
		}
		r.runs++
		r.measure()
	})
	observability.Reactor().OnSchedule()
}

// Pending reports whether a measurement is waiting for the next frame.
func (r *Reactor) Pending() bool { return r.pending != nil }

// Runs returns how many measurements the reactor has executed.
func (r *Reactor) Runs() int { return r.runs }

// Close cancels any pending measurement and removes every subscription.
// After Close the reactor ignores all notifications.
func (r *Reactor) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if r.pending != nil {
		r.pending()
		r.pending = nil
	}
	for _, unsub := range r.unsubs {
		if unsub != nil {
			unsub()
		}
	}
	r.unsubs = nil
	r.logger.Debug("reactor closed", "measurements", r.runs)
}
