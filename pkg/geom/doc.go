// Package geom provides the pure geometry used to route diagram connectors.
//
// All coordinates are float64 pixels relative to the top-left corner of the
// diagram container, with y growing downwards.
//
// # Elbow Paths
//
// [ElbowPath] builds an orthogonal polyline between two anchors. When the
// anchors are vertically aligned (within half a pixel) the path degenerates
// to a single straight segment; otherwise it turns twice at a vertical
// run placed [ElbowBias] of the way from the start:
//
//	start ──────┐
//	            │
//	            └──── end
//
// # Stack Centering
//
// [CenteringOffset] computes the vertical translation that centers a column
// of boxes inside the container, rounded to a tenth of a pixel so small
// measurement noise does not produce a new value every pass.
package geom
