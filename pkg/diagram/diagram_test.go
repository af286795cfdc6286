package diagram

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bottleneck/pkg/anchor"
	"github.com/matzehuels/bottleneck/pkg/connector"
	"github.com/matzehuels/bottleneck/pkg/cycle"
	"github.com/matzehuels/bottleneck/pkg/geom"
	"github.com/matzehuels/bottleneck/pkg/scene"
	"github.com/matzehuels/bottleneck/pkg/schedule"
)

// fixtureHost reports fixed rectangles and records what the diagram pushes back.
type fixtureHost struct {
	rects   anchor.StaticSource
	mounted bool
	subs    map[int]func()
	nextSub int
	shifts  []float64
	states  []cycle.State
}

func newFixtureHost() *fixtureHost {
	return &fixtureHost{
		rects: anchor.StaticSource{
			anchor.Container: geom.RectXYWH(0, 0, 800, 320),
			anchor.Source:    geom.RectXYWH(80, 118, 120, 44),
			anchor.Top:       geom.RectXYWH(400, 60, 64, 40),
			anchor.Middle:    geom.RectXYWH(400, 130, 64, 40),
			anchor.Bottom:    geom.RectXYWH(400, 200, 64, 40),
			anchor.Output:    geom.RectXYWH(700, 128, 80, 44),
		},
		subs: make(map[int]func()),
	}
}

func (h *fixtureHost) Rect(id anchor.BoxID) (geom.Rect, bool) {
	if !h.mounted {
		return geom.Rect{}, false
	}
	return h.rects.Rect(id)
}

func (h *fixtureHost) OnGeometryChange(fn func()) func() {
	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn
	return func() { delete(h.subs, id) }
}

func (h *fixtureHost) fire() {
	for _, fn := range h.subs {
		fn()
	}
}

func (h *fixtureHost) Mount()                    { h.mounted = true }
func (h *fixtureHost) Unmount()                  { h.mounted = false }
func (h *fixtureHost) ApplyShift(px float64)     { h.shifts = append(h.shifts, px) }
func (h *fixtureHost) ApplyState(st cycle.State) { h.states = append(h.states, st) }
func (h *fixtureHost) Boxes() []scene.Box        { return nil }

func TestDiagramEndToEndFixture(t *testing.T) {
	sched := schedule.NewManual()
	host := newFixtureHost()
	d := New(sched, WithHost(host), WithInstanceID("fixture"))
	d.Mount()

	if f := d.Frame(); !f.Drawing.Empty() || f.Snapshot != nil {
		t.Fatal("connectors drawn before the first frame")
	}
	sched.Frame()

	f := d.Frame()
	if f.Snapshot == nil {
		t.Fatal("no snapshot after the first frame")
	}
	if f.Snapshot.Branches[1] != (geom.Point{X: 400, Y: 140}) {
		t.Errorf("middle branch anchor = %v, want (400,140)", f.Snapshot.Branches[1])
	}
	if diff := cmp.Diff([]float64{10}, host.shifts); diff != "" {
		t.Errorf("shifts pushed to host (-want +got):\n%s", diff)
	}

	var out connector.Path
	for _, p := range f.Drawing.Paths {
		if p.ID == connector.IDOutput {
			out = p
		}
	}
	want := []geom.Point{{X: 464, Y: 150}, {X: 700, Y: 150}}
	if diff := cmp.Diff(want, out.Points); diff != "" {
		t.Errorf("mid->output path (-want +got):\n%s", diff)
	}
	if out.Color != connector.Red {
		t.Errorf("mid->output color = %s, want red", out.Color)
	}
}

func TestDiagramCycleColors(t *testing.T) {
	sched := schedule.NewManual()
	d := New(sched, WithHost(newFixtureHost()))
	d.Mount()
	sched.Frame()

	red := func() int {
		n := 0
		for _, p := range d.Frame().Drawing.Paths {
			if p.Failing {
				n++
			}
		}
		return n
	}
	if n := red(); n != 2 {
		t.Errorf("bottleneck phase: %d failing connectors, want 2", n)
	}

	sched.Advance(cycle.DefaultPeriod)
	sched.Frame()
	if !d.State().Resolved {
		t.Fatal("not resolved after one period")
	}
	if n := red(); n != 0 {
		t.Errorf("resolved phase: %d failing connectors, want 0", n)
	}

	sched.Advance(cycle.DefaultPeriod)
	if d.State().Resolved {
		t.Error("still resolved after two periods")
	}
}

func TestDiagramSelectRestartsCycle(t *testing.T) {
	sched := schedule.NewManual()
	host := newFixtureHost()
	d := New(sched, WithHost(host))
	d.Mount()
	sched.Frame()

	sched.Advance(cycle.DefaultPeriod + time.Second)
	d.Select(cycle.Bottom)
	if got := d.State(); got != (cycle.State{Hot: cycle.Bottom}) {
		t.Fatalf("State() = %+v after Select", got)
	}
	sched.Frame()

	paths := d.Frame().Drawing.Paths
	if !paths[2].Failing || paths[1].Failing || paths[0].Failing {
		t.Errorf("failing flags = %v %v %v, want bottom only", paths[0].Failing, paths[1].Failing, paths[2].Failing)
	}

	sched.Advance(cycle.DefaultPeriod - time.Millisecond)
	if d.State().Resolved {
		t.Error("resolved before a full period after Select")
	}
	if last := host.states[len(host.states)-1]; last != (cycle.State{Hot: cycle.Bottom}) {
		t.Errorf("host last saw %+v", last)
	}
}

func TestDiagramStateChangeMeasuresThroughHost(t *testing.T) {
	sched := schedule.NewManual()
	host := newFixtureHost()
	d := New(sched, WithHost(host))
	d.Mount()
	sched.Frame()
	before := d.Measurements()

	sched.Advance(cycle.DefaultPeriod)
	sched.Frame()
	if d.Measurements() != before {
		t.Errorf("tick without geometry change measured %d times", d.Measurements()-before)
	}
	if !d.Frame().State.Resolved {
		t.Error("frame not resolved after one period")
	}

	host.fire()
	sched.Frame()
	if d.Measurements() != before+1 {
		t.Errorf("measurements = %d, want %d", d.Measurements(), before+1)
	}
}

func TestDiagramSelectBeforeMount(t *testing.T) {
	sched := schedule.NewManual()
	d := New(sched, WithHot(cycle.Top), WithInstanceID("early"))
	d.Select(cycle.Middle)
	d.Mount()
	sched.Settle(10)

	f := d.Frame()
	if f.State.Hot != cycle.Middle {
		t.Fatalf("hot = %s, want middle", f.State.Hot)
	}
	styles := map[anchor.BoxID]scene.BoxStyle{}
	for _, b := range f.Boxes {
		styles[b.ID] = b.Style
	}
	want := map[anchor.BoxID]scene.BoxStyle{
		anchor.Source: scene.StyleNeutral,
		anchor.Top:    scene.StyleNeutral,
		anchor.Middle: scene.StyleHot,
		anchor.Bottom: scene.StyleNeutral,
		anchor.Output: scene.StyleHot,
	}
	if diff := cmp.Diff(want, styles); diff != "" {
		t.Errorf("box styles (-want +got):\n%s", diff)
	}
	for _, p := range f.Drawing.Paths {
		if wantFail := p.ID == connector.IDMiddle || p.ID == connector.IDOutput; p.Failing != wantFail {
			t.Errorf("%s failing = %v, want %v", p.ID, p.Failing, wantFail)
		}
	}
}

func TestDiagramCoalescesGeometryChanges(t *testing.T) {
	sched := schedule.NewManual()
	host := newFixtureHost()
	d := New(sched, WithHost(host))
	d.Mount()
	sched.Frame()

	for i := 0; i < 10; i++ {
		host.fire()
	}
	sched.Frame()
	if d.Measurements() != 2 {
		t.Errorf("measurements = %d, want 2", d.Measurements())
	}
}

func TestDiagramTeardown(t *testing.T) {
	sched := schedule.NewManual()
	host := newFixtureHost()
	d := New(sched, WithHost(host))
	d.Mount()
	sched.Frame()
	host.fire() // leaves a measurement pending

	d.Dispose()
	measured := d.Measurements()
	states := len(host.states)
	stateBefore := d.State()

	if sched.PendingFrames() != 0 || sched.ActiveTimers() != 0 {
		t.Errorf("pending frames=%d timers=%d after Dispose", sched.PendingFrames(), sched.ActiveTimers())
	}
	if len(host.subs) != 0 {
		t.Errorf("%d host subscriptions after Dispose", len(host.subs))
	}

	host.fire()
	sched.Run(20*time.Second, 0)
	d.Select(cycle.Top)
	d.Mount()
	sched.Run(20*time.Second, 0)

	if d.Measurements() != measured {
		t.Errorf("measured %d more times after Dispose", d.Measurements()-measured)
	}
	if len(host.states) != states || d.State() != stateBefore {
		t.Error("cycle state changed after Dispose")
	}
	d.Dispose()
}

func TestDiagramWithScene(t *testing.T) {
	sched := schedule.NewManual()
	d := New(sched, WithSize(800, 320), WithHot(cycle.Top), WithInstanceID("scene"))
	d.Mount()
	if n := sched.Settle(10); n >= 10 {
		t.Fatalf("layout did not settle (%d frames)", n)
	}

	f := d.Frame()
	if f.Shift != 50 {
		t.Errorf("stack shift = %v, want 50", f.Shift)
	}
	if len(f.Boxes) != 5 {
		t.Fatalf("got %d boxes", len(f.Boxes))
	}
	styles := map[anchor.BoxID]scene.BoxStyle{}
	for _, b := range f.Boxes {
		styles[b.ID] = b.Style
	}
	if styles[anchor.Top] != scene.StyleHot || styles[anchor.Output] != scene.StyleHot || styles[anchor.Middle] != scene.StyleNeutral {
		t.Errorf("box styles = %v", styles)
	}
	if f.Snapshot.Branches[1].Y != f.Snapshot.Source.Y {
		t.Error("middle connector not horizontal")
	}

	// Resolving changes label widths; the scene reports it and the layout settles again.
	sched.Advance(cycle.DefaultPeriod)
	sched.Settle(10)
	f = d.Frame()
	for _, b := range f.Boxes {
		if b.ID == anchor.Output && b.Style != scene.StyleResolved {
			t.Errorf("output style = %s, want resolved", b.Style)
		}
	}
	for _, p := range f.Drawing.Paths {
		if p.Failing {
			t.Errorf("%s still failing after resolve", p.ID)
		}
	}

	d.Resize(1000, 400)
	sched.Settle(10)
	f = d.Frame()
	if f.Snapshot.Container != (geom.Size{W: 1000, H: 400}) {
		t.Errorf("container after resize = %+v", f.Snapshot.Container)
	}
	if f.Shift != 90 {
		t.Errorf("stack shift after resize = %v, want 90", f.Shift)
	}
	d.Dispose()
}

func TestDiagramMultipleInstancesDistinctMarkers(t *testing.T) {
	sched := schedule.NewManual()
	a, b := New(sched), New(sched)
	a.Mount()
	b.Mount()
	sched.Settle(10)
	ma := a.Frame().Drawing.Markers
	mb := b.Frame().Drawing.Markers
	if len(ma) == 0 || len(mb) == 0 {
		t.Fatal("no markers")
	}
	if ma[0].ID == mb[0].ID {
		t.Errorf("instances share marker id %q", ma[0].ID)
	}
}
