// Package render exports diagram frames to image formats.
//
// # Overview
//
// Frames are first drawn as SVG by the [sink] subpackage. This package then
// converts SVG to other formats using the external rsvg-convert tool (from
// librsvg):
//
//	svg := sink.RenderSVG(frame)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Topology Export
//
// The [nodelink] subpackage describes the diagram as a Graphviz graph with
// one edge per connector, colored by the current health of its target.
//
//	dot := nodelink.ToDOT(frame)
//	svg, err := nodelink.Layout(ctx, frame)
//
// # Formats
//
// [Formats] lists the names the CLI accepts. "graph" is the Graphviz layout
// as SVG; [Extension] maps it to the ".graph.svg" file suffix.
//
// [sink]: github.com/matzehuels/bottleneck/pkg/render/sink
// [nodelink]: github.com/matzehuels/bottleneck/pkg/render/nodelink
package render
