package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/bottleneck/pkg/connector"
	"github.com/matzehuels/bottleneck/pkg/scene"
)

// Flat draws filled, rounded boxes tinted by state.
type Flat struct{}

type palette struct{ fill, stroke, text string }

var flatPalette = map[scene.BoxStyle]palette{
	scene.StyleNeutral:  {fill: "#f8fafc", stroke: "#cbd5e1", text: "#0f172a"},
	scene.StyleHot:      {fill: "#fee2e2", stroke: string(connector.Red), text: "#991b1b"},
	scene.StyleResolved: {fill: "#dcfce7", stroke: string(connector.Green), text: "#166534"},
}

func paletteFor(st scene.BoxStyle) palette {
	if p, ok := flatPalette[st]; ok {
		return p
	}
	return flatPalette[scene.StyleNeutral]
}

func (Flat) RenderDefs(buf *bytes.Buffer, markers []connector.Marker) {
	if len(markers) == 0 {
		return
	}
	buf.WriteString("  <defs>\n")
	renderMarkers(buf, markers)
	buf.WriteString("  </defs>\n")
}

func (Flat) RenderBlock(buf *bytes.Buffer, b Block) {
	p := paletteFor(b.State)
	fmt.Fprintf(buf, `  <rect id="box-%s" class="box %s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="8" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		EscapeXML(b.ID), b.State, b.X, b.Y, b.W, b.H, p.fill, p.stroke)
}

func (Flat) RenderConnector(buf *bytes.Buffer, p connector.Path) {
	renderPath(buf, p, "")
}

func (Flat) RenderText(buf *bytes.Buffer, b Block) {
	renderLabel(buf, b, paletteFor(b.State).text, "500")
}
