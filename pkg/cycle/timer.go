// Package cycle alternates the hot branch between its bottleneck and
// resolved states on a fixed period.
//
// The cycle has two phases. It starts in the bottleneck phase, flips to
// resolved after one period, back to bottleneck after the next, and so on.
// Selecting a different hot branch restarts the cycle in the bottleneck
// phase with a fresh period.
package cycle

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bottleneck/pkg/observability"
	"github.com/matzehuels/bottleneck/pkg/schedule"
)

// DefaultPeriod is the time spent in each phase.
const DefaultPeriod = 5 * time.Second

// State is the externally visible cycle state.
type State struct {
	Hot      Branch `json:"hot"`
	Resolved bool   `json:"resolved"`
}

// Phase names the current phase.
func (s State) Phase() string {
	if s.Resolved {
		return "resolved"
	}
	return "bottleneck"
}

// Timer owns the cycle state. It is not safe for concurrent use.
type Timer struct {
	sched    schedule.Scheduler
	period   time.Duration
	onChange func(State)
	logger   *log.Logger

	state   State
	cancel  schedule.Cancel
	running bool
}

// Option configures a Timer.
type Option func(*Timer)

// WithPeriod overrides DefaultPeriod. Non-positive values are ignored.
func WithPeriod(d time.Duration) Option {
	return func(t *Timer) {
		if d > 0 {
			t.period = d
		}
	}
}

// WithChangeHandler registers fn to receive every state change.
func WithChangeHandler(fn func(State)) Option { return func(t *Timer) { t.onChange = fn } }

// WithLogger sets the timer's logger.
func WithLogger(l *log.Logger) Option { return func(t *Timer) { t.logger = l } }

// NewTimer returns a stopped timer.
func NewTimer(sched schedule.Scheduler, opts ...Option) *Timer {
	t := &Timer{sched: sched, period: DefaultPeriod, state: State{Hot: DefaultBranch}}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.Default()
	}
	return t
}

// State returns the current state.
func (t *Timer) State() State { return t.state }

// Period returns the phase duration.
func (t *Timer) Period() time.Duration { return t.period }

// Running reports whether the periodic task is active.
func (t *Timer) Running() bool { return t.running }

// Start begins cycling with hot as the bottleneck branch. Starting a
// running timer restarts it.
func (t *Timer) Start(hot Branch) {
	t.restart(normalize(hot))
}

// Select changes the hot branch. Reselecting the current branch of a running
// timer keeps the phase and period; any other selection restarts the cycle
// in the bottleneck phase.
func (t *Timer) Select(hot Branch) {
	hot = normalize(hot)
	if t.running && hot == t.state.Hot {
		return
	}
	t.restart(hot)
}

// Stop cancels the periodic task. The state is left as it was.
func (t *Timer) Stop() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.running = false
}

func (t *Timer) restart(hot Branch) {
	t.Stop()
	prev := t.state
	t.state = State{Hot: hot}
	t.cancel = t.sched.Every(t.period, t.tick)
	t.running = true
	t.logger.Debug("cycle restarted", "hot", hot, "period", t.period)
	if prev != t.state {
		t.emit()
	}
}

func (t *Timer) tick() {
	if !t.running {
		return
	}
	t.state.Resolved = !t.state.Resolved
	t.emit()
}

func (t *Timer) emit() {
	observability.Cycle().OnCycle(int(t.state.Hot), t.state.Resolved)
	if t.onChange != nil {
		t.onChange(t.state)
	}
}

func normalize(b Branch) Branch {
	if !b.Valid() {
		return DefaultBranch
	}
	return b
}
