package anchor

import "github.com/matzehuels/bottleneck/pkg/geom"

// BoxID names one of the measured boxes.
type BoxID string

// Measured boxes.
const (
	Container BoxID = "container"
	Source    BoxID = "source"
	Top       BoxID = "top"
	Middle    BoxID = "middle"
	Bottom    BoxID = "bottom"
	Output    BoxID = "output"
)

// Branches lists the branch boxes in their fixed top-to-bottom order.
var Branches = [3]BoxID{Top, Middle, Bottom}

// All lists every box the engine measures, container first.
var All = [...]BoxID{Container, Source, Top, Middle, Bottom, Output}

// RectSource reports the current on-screen rectangle of a box.
// The second return value is false when the box has no measurable rectangle,
// for example before it is mounted. All rectangles share one coordinate space.
type RectSource interface {
	Rect(id BoxID) (geom.Rect, bool)
}

// StaticSource is a RectSource backed by a fixed map, for fixtures and tests.
type StaticSource map[BoxID]geom.Rect

// Rect implements RectSource.
func (s StaticSource) Rect(id BoxID) (geom.Rect, bool) {
	r, ok := s[id]
	return r, ok
}

// RectSourceFunc adapts a function to RectSource.
type RectSourceFunc func(id BoxID) (geom.Rect, bool)

// Rect implements RectSource.
func (f RectSourceFunc) Rect(id BoxID) (geom.Rect, bool) { return f(id) }
