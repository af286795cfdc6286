package anchor

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bottleneck/pkg/geom"
	"github.com/matzehuels/bottleneck/pkg/observability"
)

// DefaultThreshold is the minimum change, in pixels, before a new stack
// shift replaces the current one.
const DefaultThreshold = 0.5

// Skip explains why a measurement pass did not publish a snapshot.
type Skip int

const (
	SkipNone      Skip = iota // a snapshot was published
	SkipMissing               // a rectangle was unavailable
	SkipInvalid               // an anchor coordinate was not finite
	SkipUnchanged             // the snapshot equals the current one
)

func (s Skip) String() string {
	switch s {
	case SkipNone:
		return "none"
	case SkipMissing:
		return "missing"
	case SkipInvalid:
		return "invalid"
	case SkipUnchanged:
		return "unchanged"
	}
	return "unknown"
}

// Result describes the outcome of one [Engine.Measure] call.
type Result struct {
	Snapshot     Snapshot // the engine's current snapshot after the pass
	Published    bool     // a new snapshot replaced the previous one
	Skip         Skip     // why nothing was published
	Shift        float64  // the stack shift after the pass
	ShiftChanged bool     // the pass republished the stack shift
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for debug output about skipped passes.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithShiftHandler registers fn to receive every republished stack shift.
// The host applies the shift to the branch boxes.
func WithShiftHandler(fn func(float64)) Option { return func(e *Engine) { e.onShift = fn } }

// WithPublishHandler registers fn to receive every published snapshot.
func WithPublishHandler(fn func(Snapshot)) Option { return func(e *Engine) { e.onPublish = fn } }

// WithThreshold overrides [DefaultThreshold].
func WithThreshold(px float64) Option { return func(e *Engine) { e.threshold = px } }

// WithAppliedShift declares that the source reports branch rectangles with the
// published stack shift already applied. The engine then removes its current
// shift before centering, so a centered stack keeps its shift instead of
// snapping back to zero on the next pass.
func WithAppliedShift() Option { return func(e *Engine) { e.applied = true } }

// Engine measures anchors from a RectSource. It is not safe for concurrent
// use; all calls must come from the goroutine that drives the diagram.
type Engine struct {
	src       RectSource
	logger    *log.Logger
	onShift   func(float64)
	onPublish func(Snapshot)
	threshold float64
	applied   bool

	snap  Snapshot
	has   bool
	shift float64
}

// NewEngine returns an engine reading from src.
func NewEngine(src RectSource, opts ...Option) *Engine {
	e := &Engine{src: src, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	return e
}

// Snapshot returns the last published snapshot. The boolean is false until
// the first valid pass.
func (e *Engine) Snapshot() (Snapshot, bool) { return e.snap, e.has }

// Shift returns the current stack shift.
func (e *Engine) Shift() float64 { return e.shift }

// Measure runs one measurement pass. Missing or invalid geometry is not an
// error: the pass is dropped and the previous snapshot stays current.
func (e *Engine) Measure() Result {
	rects, reason := e.read()
	if reason != SkipNone {
		return e.skip(reason)
	}

	container := rects[Container]
	rel := func(id BoxID) geom.Rect { return rects[id].Relative(container) }

	src := rel(Source)
	top, mid, bot := rel(Top), rel(Middle), rel(Bottom)
	out := rel(Output)

	next := Snapshot{
		Source:    src.RightMid(),
		Branches:  [3]geom.Point{top.LeftMid(), mid.LeftMid(), bot.LeftMid()},
		MidRight:  mid.RightMid(),
		Output:    out.LeftMid(),
		Container: container.Size(),
	}
	next.Branches[1].Y = next.Source.Y

	shiftChanged := e.updateShift(top, mid, bot, container.Height)

	if !next.Valid() {
		r := e.skip(SkipInvalid)
		r.ShiftChanged = shiftChanged
		return r
	}

	if e.has && next == e.snap {
		r := e.skip(SkipUnchanged)
		r.ShiftChanged = shiftChanged
		return r
	}

	e.snap, e.has = next, true
	observability.Measure().OnMeasure(observability.OutcomePublished)
	if e.onPublish != nil {
		e.onPublish(next)
	}
	return Result{Snapshot: next, Published: true, Shift: e.shift, ShiftChanged: shiftChanged}
}

// read collects every rectangle. A non-finite rectangle rejects the pass
// before any derived value, including the stack shift, is touched.
func (e *Engine) read() (map[BoxID]geom.Rect, Skip) {
	rects := make(map[BoxID]geom.Rect, len(All))
	for _, id := range All {
		r, ok := e.src.Rect(id)
		if !ok {
			e.logger.Debug("measurement skipped", "box", id, "reason", SkipMissing)
			return nil, SkipMissing
		}
		if !r.Finite() {
			e.logger.Debug("measurement skipped", "box", id, "reason", SkipInvalid)
			return nil, SkipInvalid
		}
		rects[id] = r
	}
	return rects, SkipNone
}

func (e *Engine) updateShift(top, mid, bot geom.Rect, height float64) bool {
	base := 0.0
	if e.applied {
		base = e.shift
	}
	tops := [3]float64{top.Top - base, mid.Top - base, bot.Top - base}
	bottoms := [3]float64{top.Bottom - base, mid.Bottom - base, bot.Bottom - base}

	desired := geom.CenteringOffset(tops, bottoms, height)
	if !geom.IsFiniteNumber(desired) || math.Abs(desired-e.shift) <= e.threshold {
		return false
	}

	prev := e.shift
	e.shift = desired
	e.logger.Debug("stack shift changed", "from", prev, "to", desired)
	observability.Measure().OnShift(prev, desired)
	if e.onShift != nil {
		e.onShift(desired)
	}
	return true
}

func (e *Engine) skip(reason Skip) Result {
	switch reason {
	case SkipMissing:
		observability.Measure().OnMeasure(observability.OutcomeMissing)
	case SkipInvalid:
		observability.Measure().OnMeasure(observability.OutcomeInvalid)
	case SkipUnchanged:
		observability.Measure().OnMeasure(observability.OutcomeUnchanged)
	}
	return Result{Snapshot: e.snap, Skip: reason, Shift: e.shift}
}
