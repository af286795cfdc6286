package schedule

import (
	"slices"
	"time"
)

// Manual is a Scheduler driven by explicit calls. Time only moves in
// [Manual.Advance]; frames only run in [Manual.Frame]. It is not safe for
// concurrent use.
type Manual struct {
	now    time.Duration
	nextID uint64
	frames []*frameTask
	timers []*periodicTask
}

type frameTask struct {
	id       uint64
	fn       func()
	canceled bool
}

type periodicTask struct {
	id       uint64
	period   time.Duration
	due      time.Duration
	fn       func()
	canceled bool
}

// NewManual returns a Manual scheduler at elapsed time zero.
func NewManual() *Manual { return &Manual{} }

// RequestFrame implements Scheduler.
func (m *Manual) RequestFrame(fn func()) Cancel {
	m.nextID++
	t := &frameTask{id: m.nextID, fn: fn}
	m.frames = append(m.frames, t)
	return func() { t.canceled = true }
}

// Every implements Scheduler. A non-positive period is rejected by returning
// a no-op Cancel without scheduling anything.
func (m *Manual) Every(period time.Duration, fn func()) Cancel {
	if period <= 0 {
		return func() {}
	}
	m.nextID++
	t := &periodicTask{id: m.nextID, period: period, due: m.now + period, fn: fn}
	m.timers = append(m.timers, t)
	return func() { t.canceled = true }
}

// Elapsed returns the virtual time since the scheduler was created.
func (m *Manual) Elapsed() time.Duration { return m.now }

// PendingFrames returns the number of frame callbacks waiting to run.
func (m *Manual) PendingFrames() int {
	n := 0
	for _, t := range m.frames {
		if !t.canceled {
			n++
		}
	}
	return n
}

// ActiveTimers returns the number of periodic tasks that have not been cancelled.
func (m *Manual) ActiveTimers() int {
	m.timers = slices.DeleteFunc(m.timers, func(t *periodicTask) bool { return t.canceled })
	return len(m.timers)
}

// Frame runs every frame callback requested before the call and returns how
// many ran. Callbacks requested while the frame runs wait for the next frame.
func (m *Manual) Frame() int {
	batch := m.frames
	m.frames = nil
	ran := 0
	for _, t := range batch {
		if t.canceled {
			continue
		}
		t.canceled = true
		t.fn()
		ran++
	}
	return ran
}

// Settle runs frames until none are pending or limit frames have run, and
// returns the number of frames executed.
func (m *Manual) Settle(limit int) int {
	n := 0
	for n < limit && m.PendingFrames() > 0 {
		m.Frame()
		n++
	}
	return n
}

// Advance moves the clock forward by d, firing periodic tasks in due order.
// Tasks that share a due time fire in the order they were scheduled.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.now = t.due
		t.due += t.period
		t.fn()
	}
	m.now = target
}

// Run advances the clock by d in frame-sized steps, running a frame after
// each step, the way a real display would interleave timers and frames.
func (m *Manual) Run(d, frame time.Duration) {
	if frame <= 0 {
		frame = DefaultFrameInterval
	}
	for d > 0 {
		step := min(frame, d)
		m.Advance(step)
		m.Frame()
		d -= step
	}
}

func (m *Manual) nextDue(target time.Duration) *periodicTask {
	var next *periodicTask
	for _, t := range m.timers {
		if t.canceled || t.due > target {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.id < next.id) {
			next = t
		}
	}
	return next
}
