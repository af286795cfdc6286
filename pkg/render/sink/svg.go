package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/bottleneck/pkg/connector"
	"github.com/matzehuels/bottleneck/pkg/diagram"
	"github.com/matzehuels/bottleneck/pkg/scene"
)

const flowCSS = `
    @keyframes connector-flow { to { stroke-dashoffset: -16; } }
    .connector { animation: connector-flow 0.8s linear infinite; }
    .connector.failing { animation-duration: 2.4s; }
    .box { transition: fill 0.3s ease, stroke 0.3s ease; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      Style
	animate    bool
	minW       float64
	minH       float64
	background string
}

func WithStyle(s Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithAnimation() SVGOption    { return func(r *svgRenderer) { r.animate = true } }
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// WithMinSize sets the smallest canvas, typically the container size.
func WithMinSize(w, h float64) SVGOption {
	return func(r *svgRenderer) { r.minW, r.minH = w, h }
}

// RenderSVG draws one frame. Boxes are always drawn; connectors only once the
// frame carries a valid measurement.
func RenderSVG(f diagram.Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	blocks := buildBlocks(f.Boxes)
	width, height := r.dimensions(f, blocks)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-diagram="%s" data-phase="%s">`+"\n",
		width, height, width, height, EscapeXML(f.ID), f.State.Phase())

	r.style.RenderDefs(&buf, f.Drawing.Markers)
	if r.animate {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", flowCSS)
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", EscapeXML(r.background))
	}
	renderContent(&buf, r.style, blocks, f.Drawing.Paths)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: Flat{}}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style == nil {
		r.style = Flat{}
	}
	return r
}

// dimensions uses the connector extent when there is one and otherwise the
// box bounds plus the connector margin.
func (r svgRenderer) dimensions(f diagram.Frame, blocks []Block) (width, height float64) {
	width, height = f.Drawing.Width, f.Drawing.Height
	if f.Drawing.Empty() {
		for _, b := range blocks {
			width = max(width, b.X+b.W+connector.DefaultMargin)
			height = max(height, b.Y+b.H+connector.DefaultMargin)
		}
	}
	return max(width, r.minW), max(height, r.minH)
}

// renderContent draws boxes first, then connectors, then labels, so arrowheads
// stay above box borders and text stays above everything.
func renderContent(buf *bytes.Buffer, s Style, blocks []Block, paths []connector.Path) {
	buf.WriteString(`  <g class="boxes">` + "\n")
	for _, b := range blocks {
		s.RenderBlock(buf, b)
	}
	buf.WriteString("  </g>\n")

	if len(paths) > 0 {
		buf.WriteString(`  <g class="connectors">` + "\n")
		for _, p := range paths {
			s.RenderConnector(buf, p)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString(`  <g class="labels">` + "\n")
	for _, b := range blocks {
		s.RenderText(buf, b)
	}
	buf.WriteString("  </g>\n")
}

func buildBlocks(boxes []scene.Box) []Block {
	blocks := make([]Block, 0, len(boxes))
	for _, bx := range boxes {
		r := bx.Rect
		if !r.Finite() {
			continue
		}
		blocks = append(blocks, Block{
			ID:    string(bx.ID),
			Label: bx.Label,
			State: bx.Style,
			X:     r.Left, Y: r.Top,
			W: r.Width, H: r.Height,
			CX: r.Left + r.Width/2, CY: r.CenterY(),
		})
	}
	return blocks
}
