// Package nodelink describes the diagram topology as a Graphviz graph.
//
// # Overview
//
// The bottleneck diagram is a fixed graph: one source fanning out to three
// branches, with the middle branch feeding the output. This package writes
// that graph as DOT, coloring nodes by box state and edges by connector
// health, so the current frame can be laid out by Graphviz instead of the
// built-in scene.
//
// # Usage
//
//	dot := nodelink.ToDOT(frame)
//	svg, err := nodelink.Layout(ctx, frame)
//
// The CLI exposes the laid-out graph as the "graph" render format and the
// preview server as /frame.graph.svg. PNG and PDF conversion of that SVG
// goes through [github.com/matzehuels/bottleneck/pkg/render].
//
// The generated DOT uses left-to-right layout (rankdir=LR) to match the
// direction of traffic in the diagram. Frames without a measurement still
// produce every edge, drawn in grey.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// layout, compiled to WebAssembly, so no system Graphviz install is needed.
package nodelink
