// Package schedule provides the cooperative scheduling used by diagram components.
//
// Components never start goroutines of their own. They ask a [Scheduler] for
// two kinds of work:
//
//   - RequestFrame: run once on the next rendering frame (coalescing point for
//     measurement)
//   - Every: run repeatedly on a fixed period (the bottleneck cycle)
//
// Both return a [Cancel] func; a cancelled task never runs, even if its
// trigger has already fired.
//
// Two implementations are provided. [Manual] advances a virtual clock under
// explicit control and is used by tests and by hosts that already own a
// render loop (the terminal view drives it from bubbletea ticks). [Loop] is a
// real-time, single-threaded event loop: helper goroutines only post closures
// into its queue and every closure runs on the goroutine that called Run.
package schedule

import "time"

// Cancel revokes a scheduled task. Calling it more than once is harmless.
type Cancel func()

// Scheduler schedules frame-aligned and periodic work on a single goroutine.
type Scheduler interface {
	// RequestFrame schedules fn to run once on the next frame.
	RequestFrame(fn func()) Cancel
	// Every schedules fn to run each time period elapses, starting one
	// period from now.
	Every(period time.Duration, fn func()) Cancel
}

// DefaultFrameInterval approximates a 60 Hz display.
const DefaultFrameInterval = time.Second / 60
