package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ElbowBias places the vertical run of an elbow path this fraction of the
// horizontal distance away from the start point.
const ElbowBias = 0.55

// StraightTolerance is the vertical distance below which two anchors are
// joined by a straight segment instead of an elbow.
const StraightTolerance = 0.5

// Point is a container-relative coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether both coordinates are finite.
func (p Point) Finite() bool { return IsFiniteNumber(p.X) && IsFiniteNumber(p.Y) }

func (p Point) String() string { return fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y) }

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned bounding rectangle as reported by a host renderer.
// Width and Height are carried alongside the edges because hosts report
// them independently; they are not re-derived.
type Rect struct {
	Left, Top, Right, Bottom float64
	Width, Height            float64
}

// RectXYWH builds a Rect from its top-left corner and size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h, Width: w, Height: h}
}

// Relative returns r translated so that origin's top-left corner becomes (0,0).
func (r Rect) Relative(origin Rect) Rect {
	return Rect{
		Left:   r.Left - origin.Left,
		Top:    r.Top - origin.Top,
		Right:  r.Right - origin.Left,
		Bottom: r.Bottom - origin.Top,
		Width:  r.Width,
		Height: r.Height,
	}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{
		Left: r.Left + dx, Right: r.Right + dx,
		Top: r.Top + dy, Bottom: r.Bottom + dy,
		Width: r.Width, Height: r.Height,
	}
}

// CenterY returns the vertical midpoint.
func (r Rect) CenterY() float64 { return r.Top + r.Height/2 }

// LeftMid returns the vertically centered point on the left edge.
func (r Rect) LeftMid() Point { return Point{X: r.Left, Y: r.CenterY()} }

// RightMid returns the vertically centered point on the right edge.
func (r Rect) RightMid() Point { return Point{X: r.Right, Y: r.CenterY()} }

// Size returns the rectangle's width and height.
func (r Rect) Size() Size { return Size{W: r.Width, H: r.Height} }

// Finite reports whether every field of r is finite.
func (r Rect) Finite() bool {
	for _, v := range [...]float64{r.Left, r.Top, r.Right, r.Bottom, r.Width, r.Height} {
		if !IsFiniteNumber(v) {
			return false
		}
	}
	return true
}

// IsFiniteNumber reports whether v is neither NaN nor an infinity.
func IsFiniteNumber(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Round10 rounds v to the nearest 0.1, with halves rounding up.
func Round10(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}

// CenteringOffset returns the vertical shift that centers the union of three
// stacked boxes inside a container of the given height. A non-finite edge
// yields NaN so callers never store a shift derived from bad geometry.
func CenteringOffset(tops, bottoms [3]float64, containerHeight float64) float64 {
	for i := range tops {
		if !IsFiniteNumber(tops[i]) || !IsFiniteNumber(bottoms[i]) {
			return math.NaN()
		}
	}
	stackTop := floats.Min(tops[:])
	stackBottom := floats.Max(bottoms[:])
	stackCenter := (stackTop + stackBottom) / 2
	return Round10(containerHeight/2 - stackCenter)
}

// ElbowPath returns the orthogonal polyline from start to end using [ElbowBias].
func ElbowPath(start, end Point) []Point {
	return ElbowPathBias(start, end, ElbowBias)
}

// ElbowPathBias is [ElbowPath] with an explicit bias for the vertical run.
func ElbowPathBias(start, end Point, bias float64) []Point {
	if math.Abs(end.Y-start.Y) < StraightTolerance {
		return []Point{start, end}
	}
	midX := start.X + bias*(end.X-start.X)
	return []Point{
		start,
		{X: midX, Y: start.Y},
		{X: midX, Y: end.Y},
		end,
	}
}

// PathData formats points as an SVG path "d" attribute (M x y L x y ...).
func PathData(pts []Point) string {
	if len(pts) == 0 {
		return ""
	}
	b := make([]byte, 0, len(pts)*16)
	for i, p := range pts {
		cmd := byte('L')
		if i == 0 {
			cmd = 'M'
		} else {
			b = append(b, ' ')
		}
		b = fmt.Appendf(b, "%c %.1f %.1f", cmd, p.X, p.Y)
	}
	return string(b)
}
