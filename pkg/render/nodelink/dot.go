package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/bottleneck/pkg/anchor"
	"github.com/matzehuels/bottleneck/pkg/connector"
	"github.com/matzehuels/bottleneck/pkg/diagram"
	"github.com/matzehuels/bottleneck/pkg/errors"
	"github.com/matzehuels/bottleneck/pkg/scene"
)

const unmeasuredColor = "#94a3b8"

// topology lists the connectors in draw order.
var topology = []struct {
	id       string
	from, to anchor.BoxID
}{
	{connector.IDTop, anchor.Source, anchor.Top},
	{connector.IDMiddle, anchor.Source, anchor.Middle},
	{connector.IDBottom, anchor.Source, anchor.Bottom},
	{connector.IDOutput, anchor.Middle, anchor.Output},
}

// ToDOT converts a frame to Graphviz DOT format.
// [RenderSVG] lays the result out with Graphviz.
func ToDOT(f diagram.Frame) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [style=dashed, penwidth=2, arrowsize=0.8];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.3;\n")
	fmt.Fprintf(&buf, "  label=%q;\n", "phase: "+f.State.Phase())
	buf.WriteString("\n")

	for _, b := range f.Boxes {
		fmt.Fprintf(&buf, "  %q [%s];\n", string(b.ID), strings.Join(fmtAttrs(b), ", "))
	}

	buf.WriteString("\n")
	paths := make(map[string]connector.Path, len(f.Drawing.Paths))
	for _, p := range f.Drawing.Paths {
		paths[p.ID] = p
	}
	for _, e := range topology {
		color := unmeasuredColor
		if p, ok := paths[e.id]; ok {
			color = string(p.Color)
		}
		fmt.Fprintf(&buf, "  %q -> %q [id=%q, color=%q];\n", string(e.from), string(e.to), e.id, color)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(b scene.Box) []string {
	attrs := []string{fmt.Sprintf("label=%q", b.Label)}
	switch b.Style {
	case scene.StyleHot:
		attrs = append(attrs, "fillcolor=\"#fee2e2\"", fmt.Sprintf("color=%q", string(connector.Red)))
	case scene.StyleResolved:
		attrs = append(attrs, "fillcolor=\"#dcfce7\"", fmt.Sprintf("color=%q", string(connector.Green)))
	}
	return attrs
}

// Layout lays out the frame with Graphviz and returns it as SVG.
func Layout(ctx context.Context, f diagram.Frame) ([]byte, error) {
	return RenderSVG(ctx, ToDOT(f))
}

// RenderSVG lays out a DOT graph with Graphviz and returns the SVG document
// with its pt dimensions converted to pixels.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "graphviz layout")
	}
	return pixelSize(buf.Bytes()), nil
}

var (
	svgTagRe = regexp.MustCompile(`<svg\b[^>]*>`)
	ptAttrRe = regexp.MustCompile(`\b(width|height)="([0-9.]+)pt"`)
)

// pixelSize rewrites width="Npt" and height="Npt" on the root svg element to
// whole pixels so the graph embeds next to the scene SVG at the same scale.
// Other attributes, including the viewBox, are left alone.
func pixelSize(svg []byte) []byte {
	loc := svgTagRe.FindIndex(svg)
	if loc == nil {
		return svg
	}
	tag := ptAttrRe.ReplaceAllFunc(svg[loc[0]:loc[1]], func(attr []byte) []byte {
		m := ptAttrRe.FindSubmatch(attr)
		v, err := strconv.ParseFloat(string(m[2]), 64)
		if err != nil {
			return attr
		}
		return []byte(fmt.Sprintf(`%s="%.0f"`, m[1], math.Ceil(v)))
	})

	out := make([]byte, 0, len(svg))
	out = append(out, svg[:loc[0]]...)
	out = append(out, tag...)
	return append(out, svg[loc[1]:]...)
}
