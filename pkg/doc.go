// Package pkg provides the libraries behind the bottleneck diagram.
//
// # Overview
//
// A request box fans out to three regional branches; one branch throttles
// traffic until it is rerouted, and the diagram cycles between the two
// phases. The libraries are layered bottom-up:
//
//  1. [geom] - Rectangles, anchor points, elbow paths and rounding
//  2. [anchor] - Measures box rectangles into a container-relative snapshot
//  3. [schedule] - Frame and timer scheduling (manual clock or real loop)
//  4. [reactor] - Coalesces geometry changes into one measurement per frame
//  5. [cycle] - The bottleneck/resolved phase timer
//  6. [connector] - Turns a snapshot into colored connector paths
//  7. [scene] - Built-in box layout that reacts to labels and shift
//  8. [diagram] - Wires all of the above into one mountable instance
//  9. [render] - SVG, JSON, DOT, PNG and PDF export
//
// # Architecture
//
//	cycle timer ──▶ scene labels ──▶ reactor ──▶ anchor engine
//	                                               │
//	                 scene shift ◀──── shift ◀─────┤
//	                                               ▼
//	                                  connector renderer ──▶ render/sink
//
// # Quick Start
//
//	sched := schedule.NewManual()
//	d := diagram.New(sched, diagram.WithHot(cycle.Top))
//	d.Mount()
//	sched.Settle(10)
//	svg := sink.RenderSVG(d.Frame())
//
// [geom]: github.com/matzehuels/bottleneck/pkg/geom
// [anchor]: github.com/matzehuels/bottleneck/pkg/anchor
// [schedule]: github.com/matzehuels/bottleneck/pkg/schedule
// [reactor]: github.com/matzehuels/bottleneck/pkg/reactor
// [cycle]: github.com/matzehuels/bottleneck/pkg/cycle
// [connector]: github.com/matzehuels/bottleneck/pkg/connector
// [scene]: github.com/matzehuels/bottleneck/pkg/scene
// [diagram]: github.com/matzehuels/bottleneck/pkg/diagram
// [render]: github.com/matzehuels/bottleneck/pkg/render
package pkg
