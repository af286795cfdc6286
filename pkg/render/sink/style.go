package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/bottleneck/pkg/connector"
	"github.com/matzehuels/bottleneck/pkg/errors"
	"github.com/matzehuels/bottleneck/pkg/geom"
	"github.com/matzehuels/bottleneck/pkg/scene"
)

// Style defines the visual appearance of a frame.
type Style interface {
	// RenderDefs writes SVG <defs> content, including one arrowhead per marker.
	RenderDefs(buf *bytes.Buffer, markers []connector.Marker)
	// RenderBlock writes the SVG for a single box shape.
	RenderBlock(buf *bytes.Buffer, b Block)
	// RenderConnector writes the SVG for one connector path.
	RenderConnector(buf *bytes.Buffer, p connector.Path)
	// RenderText writes the SVG for a box's label.
	RenderText(buf *bytes.Buffer, b Block)
}

// Block contains all data needed to render a single box.
type Block struct {
	ID         string         // Box identifier
	Label      string         // Display text
	State      scene.BoxStyle // neutral, hot or resolved
	X, Y, W, H float64        // Position and dimensions
	CX, CY     float64        // Center coordinates (for text)
}

// Styles lists the style names accepted by [StyleByName].
var Styles = []string{"flat", "outline"}

// StyleByName returns the style registered under name.
func StyleByName(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "flat":
		return Flat{}, nil
	case "outline":
		return Outline{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (want %s)", name, strings.Join(Styles, " or "))
}

func renderMarkers(buf *bytes.Buffer, markers []connector.Marker) {
	for _, m := range markers {
		fmt.Fprintf(buf, `    <marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">`+
			`<path d="M 0 0 L 10 5 L 0 10 z" fill="%s"/></marker>`+"\n",
			EscapeXML(m.ID), EscapeXML(string(m.Color)))
	}
}

func renderPath(buf *bytes.Buffer, p connector.Path, extraClass string) {
	class := "connector"
	if p.Failing {
		class += " failing"
	}
	if extraClass != "" {
		class += " " + extraClass
	}
	fmt.Fprintf(buf, `  <path class="%s" data-connector="%s" d="%s" fill="none" stroke="%s" stroke-width="%.1f"`,
		class, EscapeXML(p.ID), geom.PathData(p.Points), EscapeXML(string(p.Color)), p.StrokeWidth)
	if p.Dash != "" {
		fmt.Fprintf(buf, ` stroke-dasharray="%s"`, EscapeXML(p.Dash))
	}
	if p.HasArrowhead && p.MarkerID != "" {
		fmt.Fprintf(buf, ` marker-end="url(#%s)"`, EscapeXML(p.MarkerID))
	}
	buf.WriteString("/>\n")
}
