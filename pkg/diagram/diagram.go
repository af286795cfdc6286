// Package diagram assembles the animated bottleneck diagram.
//
// A [Diagram] owns one instance of every component and wires them together:
//
//	cycle timer ──state──▶ host labels ──size change──┐
//	     │                                            ▼
//	     └──────────── invalidate ───────────────▶ reactor ──frame──▶ engine
//	                                                  ▲                 │
//	host viewport ──resize────────────────────────────┘      shift ◀────┤
//	                                                                    ▼
//	                                                  renderer ◀── snapshot
//
// All methods must be called from the goroutine that drives the scheduler.
//
// # Usage
//
//	sched := schedule.NewManual()
//	d := diagram.New(sched, diagram.WithHot(cycle.Top))
//	d.Mount()
//	sched.Frame()
//	frame := d.Frame()
//	// ... draw frame.Boxes and frame.Drawing.Paths
//	d.Dispose()
package diagram

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/bottleneck/pkg/anchor"
	"github.com/matzehuels/bottleneck/pkg/connector"
	"github.com/matzehuels/bottleneck/pkg/cycle"
	"github.com/matzehuels/bottleneck/pkg/geom"
	"github.com/matzehuels/bottleneck/pkg/reactor"
	"github.com/matzehuels/bottleneck/pkg/scene"
	"github.com/matzehuels/bottleneck/pkg/schedule"
)

// Default container size.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 320.0
)

// Host renders the boxes and reports their rectangles. A state change that
// moves or resizes a box must be reported through OnGeometryChange; the
// diagram does not re-measure on cycle ticks by itself.
type Host interface {
	anchor.RectSource
	reactor.Notifier
	Mount()
	Unmount()
	ApplyShift(px float64)
	ApplyState(st cycle.State)
	Boxes() []scene.Box
}

// Optional host capabilities.
type (
	viewporter interface{ Viewport() reactor.Notifier }
	resizer    interface{ Resize(w, h float64) }
	shiftAware interface{ ReflectsShift() bool }
)

// Frame is the observable output of a diagram at one instant.
type Frame struct {
	ID       string            `json:"id"`
	State    cycle.State       `json:"state"`
	Shift    float64           `json:"stackShift"`
	Boxes    []scene.Box       `json:"boxes"`
	Drawing  connector.Drawing `json:"connectors"`
	Snapshot *anchor.Snapshot  `json:"anchors,omitempty"`
}

type options struct {
	id     string
	width  float64
	height float64
	hot    cycle.Branch
	period time.Duration
	labels scene.Labels
	pass   connector.Color
	fail   connector.Color
	bias   float64
	host   Host
	logger *log.Logger
}

// Option configures a Diagram.
type Option func(*options)

// WithInstanceID fixes the instance id that scopes marker definitions.
func WithInstanceID(id string) Option { return func(o *options) { o.id = id } }

// WithSize sets the container size of the built-in scene.
func WithSize(w, h float64) Option {
	return func(o *options) {
		if w > 0 && h > 0 {
			o.width, o.height = w, h
		}
	}
}

// WithHot selects the initial hot branch.
func WithHot(b cycle.Branch) Option { return func(o *options) { o.hot = b } }

// WithPeriod overrides cycle.DefaultPeriod.
func WithPeriod(d time.Duration) Option { return func(o *options) { o.period = d } }

// WithLabels sets the box text of the built-in scene.
func WithLabels(l scene.Labels) Option { return func(o *options) { o.labels = l } }

// WithColors overrides the connector pass and fail colors.
func WithColors(pass, fail connector.Color) Option {
	return func(o *options) { o.pass, o.fail = pass, fail }
}

// WithElbowBias overrides geom.ElbowBias.
func WithElbowBias(b float64) Option { return func(o *options) { o.bias = b } }

// WithHost replaces the built-in scene, for example with fixed test rectangles.
func WithHost(h Host) Option { return func(o *options) { o.host = h } }

// WithLogger sets the logger passed to every component.
func WithLogger(l *log.Logger) Option { return func(o *options) { o.logger = l } }

// Diagram is one mounted instance of the bottleneck diagram.
type Diagram struct {
	id       string
	host     Host
	engine   *anchor.Engine
	reactor  *reactor.Reactor
	timer    *cycle.Timer
	renderer *connector.Renderer
	logger   *log.Logger
	hot      cycle.Branch

	mounted  bool
	disposed bool
}

// New builds an unmounted diagram scheduled on sched.
func New(sched schedule.Scheduler, opts ...Option) *Diagram {
	o := options{
		width:  DefaultWidth,
		height: DefaultHeight,
		hot:    cycle.DefaultBranch,
		period: cycle.DefaultPeriod,
		labels: scene.DefaultLabels(),
		bias:   geom.ElbowBias,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if !o.hot.Valid() {
		o.hot = cycle.DefaultBranch
	}
	if o.host == nil {
		o.host = scene.New(o.width, o.height,
			scene.WithLabels(o.labels),
			scene.WithState(cycle.State{Hot: o.hot}),
		)
	}

	d := &Diagram{
		id:     o.id,
		host:   o.host,
		logger: o.logger.With("diagram", shortID(o.id)),
		hot:    o.hot,
	}

	engineOpts := []anchor.Option{
		anchor.WithLogger(d.logger),
		anchor.WithShiftHandler(d.host.ApplyShift),
	}
	if sa, ok := d.host.(shiftAware); ok && sa.ReflectsShift() {
		engineOpts = append(engineOpts, anchor.WithAppliedShift())
	}
	d.engine = anchor.NewEngine(d.host, engineOpts...)
	d.reactor = reactor.New(sched, d.measure, reactor.WithLogger(d.logger))
	d.timer = cycle.NewTimer(sched,
		cycle.WithPeriod(o.period),
		cycle.WithLogger(d.logger),
		cycle.WithChangeHandler(d.onCycle),
	)
	d.renderer = connector.NewRenderer(
		connector.WithInstanceID(o.id),
		connector.WithColors(o.pass, o.fail),
		connector.WithElbowBias(o.bias),
	)
	return d
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ID returns the instance id.
func (d *Diagram) ID() string { return d.id }

// Mount shows the boxes, subscribes to geometry changes, schedules the first
// measurement and starts the cycle timer.
func (d *Diagram) Mount() {
	if d.mounted || d.disposed {
		return
	}
	d.mounted = true
	d.reactor.Watch(d.host)
	if v, ok := d.host.(viewporter); ok {
		d.reactor.Watch(v.Viewport())
	}
	d.host.ApplyState(cycle.State{Hot: d.hot})
	d.host.Mount()
	d.reactor.Start()
	d.timer.Start(d.hot)
	d.logger.Debug("diagram mounted", "hot", d.hot)
}

// Select changes the hot branch and restarts the cycle.
func (d *Diagram) Select(b cycle.Branch) {
	if d.disposed {
		return
	}
	if !b.Valid() {
		b = cycle.DefaultBranch
	}
	d.hot = b
	if d.mounted {
		d.timer.Select(b)
	}
}

// Resize changes the container size when the host supports it.
func (d *Diagram) Resize(w, h float64) {
	if d.disposed {
		return
	}
	if r, ok := d.host.(resizer); ok {
		r.Resize(w, h)
	}
}

// State returns the current cycle state.
func (d *Diagram) State() cycle.State {
	st := d.timer.State()
	if !d.mounted {
		st.Hot = d.hot
	}
	return st
}

// Snapshot returns the last published anchor snapshot.
func (d *Diagram) Snapshot() (anchor.Snapshot, bool) { return d.engine.Snapshot() }

// Measurements returns how many measurement passes have run.
func (d *Diagram) Measurements() int { return d.reactor.Runs() }

// Frame renders the current state. Before the first valid measurement the
// frame has boxes but no connectors.
func (d *Diagram) Frame() Frame {
	st := d.State()
	f := Frame{
		ID:    d.id,
		State: st,
		Shift: d.engine.Shift(),
		Boxes: d.host.Boxes(),
	}
	if snap, ok := d.engine.Snapshot(); ok {
		f.Snapshot = &snap
		f.Drawing = d.renderer.Render(&snap, st.Hot.Index(), st.Resolved)
	}
	return f
}

// Dispose stops all scheduled work and subscriptions. A disposed diagram
// cannot be mounted again.
func (d *Diagram) Dispose() {
	if d.disposed {
		return
	}
	d.disposed = true
	d.reactor.Close()
	d.timer.Stop()
	d.host.Unmount()
	d.logger.Debug("diagram disposed", "measurements", d.reactor.Runs())
}

func (d *Diagram) measure() {
	if d.disposed {
		return
	}
	res := d.engine.Measure()
	if res.ShiftChanged {
		d.logger.Debug("stack shift", "px", res.Shift)
	}
}

func (d *Diagram) onCycle(st cycle.State) {
	if d.disposed {
		return
	}
	d.host.ApplyState(st)
}
