// Package sink writes diagram frames as SVG or JSON.
//
// # SVG
//
// [RenderSVG] draws the five boxes, the four connectors and their arrowhead
// markers. Marker ids carry the diagram instance id, so several exported
// frames can be inlined into one HTML page without their defs colliding.
//
//	frame := d.Frame()
//	svg := sink.RenderSVG(frame, sink.WithStyle(sink.Outline{}))
//
// The look is controlled by a [Style]:
//
//   - [Flat]: filled boxes tinted by state (the default)
//   - [Outline]: unfilled boxes with a colored border
//
// Use [StyleByName] to resolve a style from a flag or config value.
//
// # JSON
//
// [RenderJSON] writes the frame itself: cycle state, stack shift, box
// rectangles, anchors and connector geometry. It is what the preview
// server returns from /frame.json.
package sink
