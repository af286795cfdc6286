package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/bottleneck/pkg/scene"
)

// FontFamily is the label font stack.
const FontFamily = "ui-sans-serif, system-ui, sans-serif"

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func renderLabel(buf *bytes.Buffer, b Block, color, weight string) {
	fmt.Fprintf(buf, `  <text class="box-label" data-box="%s" x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%.0f" font-weight="%s" fill="%s">%s</text>`+"\n",
		EscapeXML(b.ID), b.CX, b.CY, FontFamily, scene.FontSize, weight, color, EscapeXML(b.Label))
}
