// Package connector turns an anchor snapshot into directed connector paths.
//
// Four connectors are drawn: source to each branch (elbow paths) and the
// middle branch to the output (always a horizontal segment). A connector is
// green when its target is healthy and red while the hot branch is a
// bottleneck. Each color has its own arrowhead marker whose id carries a
// per-renderer instance id, so several diagrams can share one document.
package connector

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/bottleneck/pkg/anchor"
	"github.com/matzehuels/bottleneck/pkg/geom"
)

// Color is a connector stroke and arrowhead fill.
type Color string

// Connector palette.
const (
	Green Color = "#22c55e"
	Red   Color = "#ef4444"
)

// Name returns a short name used in marker ids.
func (c Color) Name() string {
	switch c {
	case Green:
		return "green"
	case Red:
		return "red"
	}
	name := make([]rune, 0, len(c))
	for _, r := range string(c) {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			name = append(name, r)
		}
	}
	if len(name) == 0 {
		return "custom"
	}
	return string(name)
}

// Drawing defaults.
const (
	DefaultDash        = "4 4"
	DefaultStrokeWidth = 2.0
	DefaultMargin      = 24.0
)

// Connector ids.
const (
	IDTop    = "source-top"
	IDMiddle = "source-middle"
	IDBottom = "source-bottom"
	IDOutput = "middle-output"
)

var branchIDs = [3]string{IDTop, IDMiddle, IDBottom}

// Path is one directed connector.
type Path struct {
	ID           string       `json:"id"`
	From         anchor.BoxID `json:"from"`
	To           anchor.BoxID `json:"to"`
	Points       []geom.Point `json:"points"`
	Color        Color        `json:"color"`
	Failing      bool         `json:"failing"`
	Dash         string       `json:"dash"`
	StrokeWidth  float64      `json:"strokeWidth"`
	MarkerID     string       `json:"markerId"`
	HasArrowhead bool         `json:"hasArrowhead"`
}

// Start returns the first point of the path.
func (p Path) Start() geom.Point { return p.Points[0] }

// End returns the last point of the path.
func (p Path) End() geom.Point { return p.Points[len(p.Points)-1] }

// Marker is an arrowhead definition for one color.
type Marker struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
}

// Drawing is everything needed to draw the connectors of one frame.
type Drawing struct {
	Paths   []Path   `json:"paths"`
	Markers []Marker `json:"markers"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
}

// Empty reports whether the drawing has no connectors.
func (d Drawing) Empty() bool { return len(d.Paths) == 0 }

// Renderer builds Drawings. Its instance id scopes marker ids.
type Renderer struct {
	id          string
	pass, fail  Color
	dash        string
	strokeWidth float64
	margin      float64
	bias        float64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithInstanceID fixes the instance id, for deterministic output.
func WithInstanceID(id string) Option { return func(r *Renderer) { r.id = id } }

// WithColors overrides the pass and fail colors.
func WithColors(pass, fail Color) Option {
	return func(r *Renderer) {
		if pass != "" {
			r.pass = pass
		}
		if fail != "" {
			r.fail = fail
		}
	}
}

// WithMargin overrides DefaultMargin around the outermost anchors.
func WithMargin(px float64) Option { return func(r *Renderer) { r.margin = px } }

// WithElbowBias overrides geom.ElbowBias.
func WithElbowBias(b float64) Option { return func(r *Renderer) { r.bias = b } }

// NewRenderer returns a Renderer with a fresh instance id.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		pass:        Green,
		fail:        Red,
		dash:        DefaultDash,
		strokeWidth: DefaultStrokeWidth,
		margin:      DefaultMargin,
		bias:        geom.ElbowBias,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.id == "" {
		r.id = uuid.NewString()
	}
	return r
}

// InstanceID returns the id used to scope marker definitions.
func (r *Renderer) InstanceID() string { return r.id }

// MarkerID returns the arrowhead marker id for c.
func (r *Renderer) MarkerID(c Color) string {
	id := fmt.Sprintf("arrow-%s-%s", c.Name(), r.id)
	if c == r.fail && c != r.pass && c.Name() == r.pass.Name() {
		id += "-fail"
	}
	return id
}

// HotIndex converts a numeric selection to a branch index. Non-finite and
// out-of-range values select the middle branch.
func HotIndex(v float64) int {
	if !geom.IsFiniteNumber(v) || v != math.Trunc(v) || v < 0 || v > 2 {
		return 1
	}
	return int(v)
}

// Render builds the connectors for snap. A nil or invalid snapshot yields an
// empty Drawing. hot outside 0..2 is treated as 1.
func (r *Renderer) Render(snap *anchor.Snapshot, hot int, resolved bool) Drawing {
	if snap == nil || !snap.Valid() {
		return Drawing{}
	}
	if hot < 0 || hot > 2 {
		hot = 1
	}

	paths := make([]Path, 0, 4)
	for i, target := range snap.Branches {
		failing := i == hot && !resolved
		paths = append(paths, r.path(
			branchIDs[i], anchor.Source, anchor.Branches[i],
			geom.ElbowPathBias(snap.Source, target, r.bias), failing,
		))
	}
	paths = append(paths, r.path(
		IDOutput, anchor.Middle, anchor.Output,
		[]geom.Point{snap.MidRight, {X: snap.Output.X, Y: snap.MidRight.Y}}, !resolved,
	))

	w, h := r.extent(snap)
	return Drawing{
		Paths: paths,
		Markers: r.markers(),
		Width:  w,
		Height: h,
	}
}

// markers returns one arrowhead per distinct color.
func (r *Renderer) markers() []Marker {
	if r.pass == r.fail {
		return []Marker{{ID: r.MarkerID(r.pass), Color: r.pass}}
	}
	return []Marker{
		{ID: r.MarkerID(r.pass), Color: r.pass},
		{ID: r.MarkerID(r.fail), Color: r.fail},
	}
}

func (r *Renderer) path(id string, from, to anchor.BoxID, pts []geom.Point, failing bool) Path {
	c := r.pass
	if failing {
		c = r.fail
	}
	return Path{
		ID: id, From: from, To: to,
		Points:       pts,
		Color:        c,
		Failing:      failing,
		Dash:         r.dash,
		StrokeWidth:  r.strokeWidth,
		MarkerID:     r.MarkerID(c),
		HasArrowhead: true,
	}
}

// extent grows the container size to include the outermost anchors.
func (r *Renderer) extent(snap *anchor.Snapshot) (w, h float64) {
	maxX := snap.Output.X
	maxY := max(snap.Source.Y, snap.MidRight.Y, snap.Output.Y)
	for _, b := range snap.Branches {
		maxX = max(maxX, b.X)
		maxY = max(maxY, b.Y)
	}
	return max(snap.Container.W, maxX+r.margin), max(snap.Container.H, maxY+r.margin)
}
