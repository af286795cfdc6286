package connector

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bottleneck/pkg/anchor"
	"github.com/matzehuels/bottleneck/pkg/geom"
)

func snapshot() *anchor.Snapshot {
	return &anchor.Snapshot{
		Source: geom.Point{X: 200, Y: 140},
		Branches: [3]geom.Point{
			{X: 400, Y: 80},
			{X: 400, Y: 140},
			{X: 400, Y: 220},
		},
		MidRight:  geom.Point{X: 464, Y: 150},
		Output:    geom.Point{X: 700, Y: 150},
		Container: geom.Size{W: 800, H: 320},
	}
}

func colors(d Drawing) map[string]Color {
	m := make(map[string]Color, len(d.Paths))
	for _, p := range d.Paths {
		m[p.ID] = p.Color
	}
	return m
}

func TestRenderColorBinding(t *testing.T) {
	r := NewRenderer(WithInstanceID("t1"))
	tests := []struct {
		name     string
		hot      int
		resolved bool
		want     map[string]Color
	}{
		{"middle bottleneck", 1, false, map[string]Color{IDTop: Green, IDMiddle: Red, IDBottom: Green, IDOutput: Red}},
		{"middle resolved", 1, true, map[string]Color{IDTop: Green, IDMiddle: Green, IDBottom: Green, IDOutput: Green}},
		{"top bottleneck", 0, false, map[string]Color{IDTop: Red, IDMiddle: Green, IDBottom: Green, IDOutput: Red}},
		{"bottom bottleneck", 2, false, map[string]Color{IDTop: Green, IDMiddle: Green, IDBottom: Red, IDOutput: Red}},
		{"out of range defaults to middle", 7, false, map[string]Color{IDTop: Green, IDMiddle: Red, IDBottom: Green, IDOutput: Red}},
		{"negative defaults to middle", -1, false, map[string]Color{IDTop: Green, IDMiddle: Red, IDBottom: Green, IDOutput: Red}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := r.Render(snapshot(), tt.hot, tt.resolved)
			if diff := cmp.Diff(tt.want, colors(d)); diff != "" {
				t.Errorf("colors (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderGeometry(t *testing.T) {
	d := NewRenderer(WithInstanceID("t1")).Render(snapshot(), 1, false)
	if len(d.Paths) != 4 {
		t.Fatalf("got %d paths, want 4", len(d.Paths))
	}

	byID := make(map[string]Path)
	for _, p := range d.Paths {
		byID[p.ID] = p
		if !p.HasArrowhead {
			t.Errorf("%s: no arrowhead", p.ID)
		}
		if p.Dash != DefaultDash || p.StrokeWidth != DefaultStrokeWidth {
			t.Errorf("%s: stroke %q/%v", p.ID, p.Dash, p.StrokeWidth)
		}
		if p.Start() != p.Points[0] || p.End() != p.Points[len(p.Points)-1] {
			t.Errorf("%s: Start/End disagree with Points", p.ID)
		}
	}

	if n := len(byID[IDMiddle].Points); n != 2 {
		t.Errorf("middle connector has %d points, want a straight segment", n)
	}
	if n := len(byID[IDTop].Points); n != 4 {
		t.Errorf("top connector has %d points, want an elbow", n)
	}
	if got := byID[IDBottom].End(); got != (geom.Point{X: 400, Y: 220}) {
		t.Errorf("bottom connector ends at %v", got)
	}

	out := byID[IDOutput]
	want := []geom.Point{{X: 464, Y: 150}, {X: 700, Y: 150}}
	if diff := cmp.Diff(want, out.Points); diff != "" {
		t.Errorf("output connector (-want +got):\n%s", diff)
	}
	if out.From != anchor.Middle || out.To != anchor.Output {
		t.Errorf("output connector %s -> %s", out.From, out.To)
	}
}

func TestRenderOutputIgnoresOutputY(t *testing.T) {
	snap := snapshot()
	snap.Output.Y = 190
	d := NewRenderer().Render(snap, 1, true)
	out := d.Paths[3]
	if out.End() != (geom.Point{X: 700, Y: 150}) {
		t.Errorf("output connector ends at %v, want (700,150)", out.End())
	}
}

func TestRenderMarkers(t *testing.T) {
	r := NewRenderer(WithInstanceID("abc"))
	d := r.Render(snapshot(), 1, false)
	wantMarkers := []Marker{
		{ID: "arrow-green-abc", Color: Green},
		{ID: "arrow-red-abc", Color: Red},
	}
	if diff := cmp.Diff(wantMarkers, d.Markers); diff != "" {
		t.Errorf("markers (-want +got):\n%s", diff)
	}
	for _, p := range d.Paths {
		if p.MarkerID != r.MarkerID(p.Color) {
			t.Errorf("%s: marker %q does not match color %s", p.ID, p.MarkerID, p.Color)
		}
	}
}

func TestRenderInstancesHaveDistinctMarkers(t *testing.T) {
	a, b := NewRenderer(), NewRenderer()
	if a.InstanceID() == "" || a.InstanceID() == b.InstanceID() {
		t.Fatalf("instance ids %q and %q", a.InstanceID(), b.InstanceID())
	}
	if a.MarkerID(Red) == b.MarkerID(Red) {
		t.Error("two renderers share a marker id")
	}
	if !strings.HasPrefix(a.MarkerID(Red), "arrow-red-") {
		t.Errorf("MarkerID(Red) = %q", a.MarkerID(Red))
	}
}

func TestRenderCustomColors(t *testing.T) {
	r := NewRenderer(WithInstanceID("x"), WithColors("#0a0", "orange"))
	d := r.Render(snapshot(), 0, false)
	if d.Paths[0].Color != "orange" || d.Paths[1].Color != "#0a0" {
		t.Errorf("colors = %s, %s", d.Paths[0].Color, d.Paths[1].Color)
	}
	if d.Markers[0].ID != "arrow-0a0-x" || d.Markers[1].ID != "arrow-orange-x" {
		t.Errorf("markers = %+v", d.Markers)
	}
}

func TestRenderMarkerIDsUnique(t *testing.T) {
	tests := []struct {
		name       string
		pass, fail Color
		want       []Marker
	}{
		{"same color", "#123456", "#123456", []Marker{{ID: "arrow-123456-x", Color: "#123456"}}},
		{"same name", "#123456", "123456", []Marker{
			{ID: "arrow-123456-x", Color: "#123456"},
			{ID: "arrow-123456-x-fail", Color: "123456"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(WithInstanceID("x"), WithColors(tt.pass, tt.fail))
			d := r.Render(snapshot(), 1, false)
			if diff := cmp.Diff(tt.want, d.Markers); diff != "" {
				t.Errorf("markers (-want +got):\n%s", diff)
			}
			ids := make(map[string]bool)
			for _, m := range d.Markers {
				ids[m.ID] = true
			}
			for _, p := range d.Paths {
				if !ids[p.MarkerID] {
					t.Errorf("%s references undefined marker %q", p.ID, p.MarkerID)
				}
			}
		})
	}
}

func TestRenderExtent(t *testing.T) {
	r := NewRenderer()
	d := r.Render(snapshot(), 1, false)
	if d.Width != 800 || d.Height != 320 {
		t.Errorf("extent = %vx%v, want container size 800x320", d.Width, d.Height)
	}

	snap := snapshot()
	snap.Output.X = 790
	snap.Branches[2].Y = 310
	d = r.Render(snap, 1, false)
	if d.Width != 790+DefaultMargin || d.Height != 310+DefaultMargin {
		t.Errorf("extent = %vx%v, want %vx%v", d.Width, d.Height, 790+DefaultMargin, 310+DefaultMargin)
	}
}

func TestRenderMalformed(t *testing.T) {
	r := NewRenderer()
	if d := r.Render(nil, 1, false); !d.Empty() {
		t.Error("nil snapshot produced connectors")
	}

	snap := snapshot()
	snap.Branches[0].X = math.NaN()
	if d := r.Render(snap, 1, false); !d.Empty() {
		t.Error("NaN anchor produced connectors")
	}

	snap = snapshot()
	snap.Container.H = math.Inf(1)
	if d := r.Render(snap, 1, false); !d.Empty() {
		t.Error("infinite container produced connectors")
	}
}

func TestHotIndex(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0}, {1, 1}, {2, 2},
		{3, 1}, {-1, 1}, {0.5, 1},
		{math.NaN(), 1}, {math.Inf(1), 1},
	}
	for _, tt := range tests {
		if got := HotIndex(tt.in); got != tt.want {
			t.Errorf("HotIndex(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
