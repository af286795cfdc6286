package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/bottleneck/pkg/connector"
	"github.com/matzehuels/bottleneck/pkg/scene"
)

// Outline draws unfilled boxes; only the border carries the state color.
// The hot box gets a dashed border so the state survives grayscale prints.
type Outline struct{}

func (Outline) RenderDefs(buf *bytes.Buffer, markers []connector.Marker) {
	buf.WriteString("  <defs>\n")
	renderMarkers(buf, markers)
	buf.WriteString("  </defs>\n")
}

func (Outline) RenderBlock(buf *bytes.Buffer, b Block) {
	p := paletteFor(b.State)
	stroke := p.stroke
	if b.State == scene.StyleNeutral {
		stroke = "#334155"
	}
	fmt.Fprintf(buf, `  <rect id="box-%s" class="box %s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="2"`,
		EscapeXML(b.ID), b.State, b.X, b.Y, b.W, b.H, stroke)
	if b.State == scene.StyleHot {
		buf.WriteString(` stroke-dasharray="6 3"`)
	}
	buf.WriteString("/>\n")
}

func (Outline) RenderConnector(buf *bytes.Buffer, p connector.Path) {
	renderPath(buf, p, "outline")
}

func (Outline) RenderText(buf *bytes.Buffer, b Block) {
	renderLabel(buf, b, "#0f172a", "400")
}
