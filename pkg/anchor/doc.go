// Package anchor turns measured box rectangles into connector anchor points.
//
// An [Engine] reads six rectangles from a [RectSource] (the container plus the
// source, top, middle, bottom and output boxes), converts them to
// container-relative coordinates and publishes an immutable [Snapshot]:
//
//   - Source: right-edge midpoint of the source box
//   - Branches: left-edge midpoints of the three branch boxes, with the middle
//     one forced onto the source's y so its connector is perfectly horizontal
//   - MidRight: right-edge midpoint of the middle branch box
//   - Output: left-edge midpoint of the output box
//
// A pass that cannot see every rectangle, or that computes a non-finite
// coordinate, publishes nothing and leaves the previous snapshot in place.
//
// The engine also owns the stack shift: the vertical offset that centers the
// three branch boxes in the container. The shift is only republished when it
// moves by more than [DefaultThreshold], because the host applies it to the
// boxes and the next measurement sees the result.
package anchor
