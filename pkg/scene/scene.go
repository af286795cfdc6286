package scene

import (
	"math"
	"unicode/utf8"

	"github.com/matzehuels/bottleneck/pkg/anchor"
	"github.com/matzehuels/bottleneck/pkg/cycle"
	"github.com/matzehuels/bottleneck/pkg/geom"
	"github.com/matzehuels/bottleneck/pkg/reactor"
)

// Layout constants, in pixels.
const (
	Padding      = 24.0
	BoxHeight    = 44.0
	BranchGap    = 20.0
	FontSize     = 14.0
	LabelPadding = 16.0
	MinBoxWidth  = 96.0

	// charWidth approximates the advance of one character of the label font.
	charWidth = FontSize * 0.6

	// branchColumn places the branch column this fraction across the container.
	branchColumn = 0.42
)

// BoxStyle is the visual state of one box.
type BoxStyle string

// Box styles.
const (
	StyleNeutral  BoxStyle = "neutral"
	StyleHot      BoxStyle = "hot"
	StyleResolved BoxStyle = "resolved"
)

// Labels holds the base text of each box and the status suffixes appended
// to the hot branch and the output.
type Labels struct {
	Source   string `toml:"source" json:"source"`
	Top      string `toml:"top" json:"top"`
	Middle   string `toml:"middle" json:"middle"`
	Bottom   string `toml:"bottom" json:"bottom"`
	Output   string `toml:"output" json:"output"`
	Failing  string `toml:"failing" json:"failing"`
	Resolved string `toml:"resolved" json:"resolved"`
}

// DefaultLabels returns the stock diagram text.
func DefaultLabels() Labels {
	return Labels{
		Source:   "Request",
		Top:      "us-east",
		Middle:   "eu-west",
		Bottom:   "ap-south",
		Output:   "Response",
		Failing:  "429 throttled",
		Resolved: "rerouted",
	}
}

func (l Labels) base(id anchor.BoxID) string {
	switch id {
	case anchor.Source:
		return l.Source
	case anchor.Top:
		return l.Top
	case anchor.Middle:
		return l.Middle
	case anchor.Bottom:
		return l.Bottom
	case anchor.Output:
		return l.Output
	}
	return ""
}

// Box is the rendered description of one box.
type Box struct {
	ID    anchor.BoxID `json:"id"`
	Label string       `json:"label"`
	Style BoxStyle     `json:"state"`
	Rect  geom.Rect    `json:"rect"`
}

// Scene lays out the diagram boxes. It is not safe for concurrent use.
type Scene struct {
	origin geom.Point
	size   geom.Size
	labels Labels
	state  cycle.State
	shift  float64

	mounted bool
	rects   map[anchor.BoxID]geom.Rect

	boxes    subscribers
	viewport subscribers
}

// Option configures a Scene.
type Option func(*Scene)

// WithOrigin places the container at (x, y) in page coordinates.
func WithOrigin(x, y float64) Option { return func(s *Scene) { s.origin = geom.Point{X: x, Y: y} } }

// WithLabels sets the box text.
func WithLabels(l Labels) Option { return func(s *Scene) { s.labels = l } }

// WithState sets the initial cycle state.
func WithState(st cycle.State) Option { return func(s *Scene) { s.state = st } }

// New returns an unmounted scene with a w×h container.
func New(w, h float64, opts ...Option) *Scene {
	s := &Scene{
		size:   geom.Size{W: w, H: h},
		labels: DefaultLabels(),
		state:  cycle.State{Hot: cycle.DefaultBranch},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rects = s.layout()
	return s
}

// Mount makes the boxes measurable and announces their geometry.
func (s *Scene) Mount() {
	if s.mounted {
		return
	}
	s.mounted = true
	s.boxes.notify()
}

// Unmount hides every box from measurement.
func (s *Scene) Unmount() { s.mounted = false }

// Mounted reports whether the boxes are measurable.
func (s *Scene) Mounted() bool { return s.mounted }

// Rect implements anchor.RectSource.
func (s *Scene) Rect(id anchor.BoxID) (geom.Rect, bool) {
	if !s.mounted {
		return geom.Rect{}, false
	}
	r, ok := s.rects[id]
	return r, ok
}

// OnGeometryChange implements reactor.Notifier for box changes.
func (s *Scene) OnGeometryChange(fn func()) func() { return s.boxes.add(fn) }

// Viewport returns a notifier that fires when the container is resized.
func (s *Scene) Viewport() reactor.Notifier {
	return reactor.NotifierFunc(s.viewport.add)
}

// Size returns the container size.
func (s *Scene) Size() geom.Size { return s.size }

// Shift returns the applied stack shift.
func (s *Scene) Shift() float64 { return s.shift }

// State returns the cycle state the labels reflect.
func (s *Scene) State() cycle.State { return s.state }

// ApplyShift translates the branch column by px.
func (s *Scene) ApplyShift(px float64) {
	if px == s.shift || !geom.IsFiniteNumber(px) {
		return
	}
	s.shift = px
	s.relayout()
}

// ApplyState updates labels for st. A label that changes length resizes its box.
func (s *Scene) ApplyState(st cycle.State) {
	if st == s.state {
		return
	}
	s.state = st
	s.relayout()
}

// Resize changes the container size, as a viewport resize would.
func (s *Scene) Resize(w, h float64) {
	if (geom.Size{W: w, H: h}) == s.size {
		return
	}
	s.size = geom.Size{W: w, H: h}
	s.relayout()
	if s.mounted {
		s.viewport.notify()
	}
}

// Label returns the current text of a box.
func (s *Scene) Label(id anchor.BoxID) string {
	text := s.labels.base(id)
	var suffix string
	switch s.Style(id) {
	case StyleHot:
		suffix = s.labels.Failing
	case StyleResolved:
		suffix = s.labels.Resolved
	}
	if suffix == "" {
		return text
	}
	return text + " · " + suffix
}

// Style returns the visual state of a box: the hot branch and the output are
// hot while the bottleneck lasts and resolved afterwards; everything else is
// neutral.
func (s *Scene) Style(id anchor.BoxID) BoxStyle {
	if id == anchor.Output || id == anchor.Branches[s.state.Hot.Index()] {
		if s.state.Resolved {
			return StyleResolved
		}
		return StyleHot
	}
	return StyleNeutral
}

// Boxes describes the five boxes in draw order, in container-relative
// coordinates.
func (s *Scene) Boxes() []Box {
	container := s.rects[anchor.Container]
	ids := [...]anchor.BoxID{anchor.Source, anchor.Top, anchor.Middle, anchor.Bottom, anchor.Output}
	out := make([]Box, 0, len(ids))
	for _, id := range ids {
		out = append(out, Box{
			ID:    id,
			Label: s.Label(id),
			Style: s.Style(id),
			Rect:  s.rects[id].Relative(container),
		})
	}
	return out
}

func (s *Scene) relayout() {
	next := s.layout()
	changed := false
	for id, r := range next {
		if s.rects[id] != r {
			changed = true
			break
		}
	}
	s.rects = next
	if changed && s.mounted {
		s.boxes.notify()
	}
}

func (s *Scene) layout() map[anchor.BoxID]geom.Rect {
	w, h := s.size.W, s.size.H
	ox, oy := s.origin.X, s.origin.Y
	at := func(x, y, bw float64) geom.Rect { return geom.RectXYWH(ox+x, oy+y, bw, BoxHeight) }
	centerY := (h - BoxHeight) / 2

	rects := map[anchor.BoxID]geom.Rect{
		anchor.Container: geom.RectXYWH(ox, oy, w, h),
		anchor.Source:    at(Padding, centerY, s.boxWidth(anchor.Source)),
	}

	colX := math.Round(w * branchColumn)
	for i, id := range anchor.Branches {
		y := Padding + float64(i)*(BoxHeight+BranchGap) + s.shift
		rects[id] = at(colX, y, s.boxWidth(id))
	}

	outW := s.boxWidth(anchor.Output)
	rects[anchor.Output] = at(w-Padding-outW, centerY, outW)
	return rects
}

func (s *Scene) boxWidth(id anchor.BoxID) float64 {
	n := utf8.RuneCountInString(s.Label(id))
	return max(MinBoxWidth, math.Ceil(float64(n)*charWidth+2*LabelPadding))
}

// subscribers is an ordered set of callbacks.
type subscribers struct {
	next uint64
	subs []subscriber
}

type subscriber struct {
	id uint64
	fn func()
}

func (s *subscribers) add(fn func()) func() {
	s.next++
	id := s.next
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *subscribers) notify() {
	for _, sub := range append([]subscriber(nil), s.subs...) {
		sub.fn()
	}
}

// Subscribers returns the number of active subscriptions, boxes and viewport combined.
func (s *Scene) Subscribers() int { return len(s.boxes.subs) + len(s.viewport.subs) }

// ReflectsShift reports that rectangles returned by Rect already include the
// applied stack shift.
func (s *Scene) ReflectsShift() bool { return true }
