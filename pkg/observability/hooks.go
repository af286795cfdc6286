// Package observability provides hooks for measurement, scheduling and cycle events.
//
// Components in this module never depend on a metrics or tracing backend.
// Instead they report events to hook interfaces with no-op defaults, and
// the application registers real implementations at startup.
//
// # Usage
//
// Register hooks before mounting any diagram:
//
//	func main() {
//	    observability.SetMeasureHooks(&myMeasureHooks{})
//	    observability.SetCycleHooks(&myCycleHooks{})
//	    // ... run application
//	}
//
// Components call hooks to emit events:
//
//	observability.Measure().OnMeasure(observability.OutcomePublished)
package observability

import (
	"sync"
)

// Outcome classifies a single measurement pass.
type Outcome string

// Measurement outcomes.
const (
	OutcomePublished Outcome = "published" // a new snapshot replaced the previous one
	OutcomeUnchanged Outcome = "unchanged" // geometry was identical to the current snapshot
	OutcomeMissing   Outcome = "missing"   // a rectangle was unavailable
	OutcomeInvalid   Outcome = "invalid"   // a computed anchor was not finite
)

// =============================================================================
// Measure Hooks
// =============================================================================

// MeasureHooks receives events from the anchor measurement engine.
type MeasureHooks interface {
	// OnMeasure records the outcome of one measurement pass.
	OnMeasure(outcome Outcome)

	// OnShift records a change of the published stack shift.
	OnShift(from, to float64)
}

// =============================================================================
// Reactor Hooks
// =============================================================================

// ReactorHooks receives events from the resize reactor.
type ReactorHooks interface {
	// OnSchedule records a measurement request for the next frame.
	OnSchedule()

	// OnCoalesce records a pending request that was replaced by a newer one.
	OnCoalesce()
}

// =============================================================================
// Cycle Hooks
// =============================================================================

// CycleHooks receives events from the bottleneck cycle timer.
type CycleHooks interface {
	// OnCycle records a state change: a tick or a reset after reselection.
	OnCycle(hot int, resolved bool)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopMeasureHooks is a no-op implementation of MeasureHooks.
type NoopMeasureHooks struct{}

func (NoopMeasureHooks) OnMeasure(Outcome)        {}
func (NoopMeasureHooks) OnShift(float64, float64) {}

// NoopReactorHooks is a no-op implementation of ReactorHooks.
type NoopReactorHooks struct{}

func (NoopReactorHooks) OnSchedule() {}
func (NoopReactorHooks) OnCoalesce() {}

// NoopCycleHooks is a no-op implementation of CycleHooks.
type NoopCycleHooks struct{}

func (NoopCycleHooks) OnCycle(int, bool) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	measureHooks MeasureHooks = NoopMeasureHooks{}
	reactorHooks ReactorHooks = NoopReactorHooks{}
	cycleHooks   CycleHooks   = NoopCycleHooks{}
	hooksMu      sync.RWMutex
)

// SetMeasureHooks registers custom measurement hooks.
func SetMeasureHooks(h MeasureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		measureHooks = h
	}
}

// SetReactorHooks registers custom reactor hooks.
func SetReactorHooks(h ReactorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		reactorHooks = h
	}
}

// SetCycleHooks registers custom cycle hooks.
func SetCycleHooks(h CycleHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cycleHooks = h
	}
}

// Measure returns the registered measurement hooks.
func Measure() MeasureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return measureHooks
}

// Reactor returns the registered reactor hooks.
func Reactor() ReactorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return reactorHooks
}

// Cycle returns the registered cycle hooks.
func Cycle() CycleHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cycleHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	measureHooks = NoopMeasureHooks{}
	reactorHooks = NoopReactorHooks{}
	cycleHooks = NoopCycleHooks{}
}
