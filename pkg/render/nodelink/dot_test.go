package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/bottleneck/pkg/cycle"
	"github.com/matzehuels/bottleneck/pkg/diagram"
	"github.com/matzehuels/bottleneck/pkg/errors"
	"github.com/matzehuels/bottleneck/pkg/scene"
	"github.com/matzehuels/bottleneck/pkg/schedule"
)

func frame(t *testing.T, settle bool, opts ...diagram.Option) diagram.Frame {
	t.Helper()
	sched := schedule.NewManual()
	d := diagram.New(sched, append([]diagram.Option{diagram.WithInstanceID("dot")}, opts...)...)
	d.Mount()
	t.Cleanup(d.Dispose)
	if settle {
		sched.Settle(10)
	}
	return d.Frame()
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(frame(t, true, diagram.WithHot(cycle.Top)))

	for _, want := range []string{
		"digraph G",
		"rankdir=LR",
		`"source" [label="Request"]`,
		`"top" [label="us-east · 429 throttled", fillcolor="#fee2e2", color="#ef4444"]`,
		`"source" -> "top" [id="source-top", color="#ef4444"]`,
		`"source" -> "middle" [id="source-middle", color="#22c55e"]`,
		`"middle" -> "output" [id="middle-output", color="#ef4444"]`,
		`label="phase: bottleneck"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_Unmeasured(t *testing.T) {
	dot := ToDOT(frame(t, false))
	if got := strings.Count(dot, "->"); got != 4 {
		t.Errorf("got %d edges, want 4", got)
	}
	if got := strings.Count(dot, unmeasuredColor); got != 4 {
		t.Errorf("got %d grey edges, want 4", got)
	}
}

func TestToDOT_QuotesLabels(t *testing.T) {
	labels := scene.DefaultLabels()
	labels.Source = `say "hi"`
	dot := ToDOT(frame(t, true, diagram.WithLabels(labels)))
	if !strings.Contains(dot, `label="say \"hi\""`) {
		t.Errorf("label not quoted:\n%s", dot)
	}
}

func TestLayout(t *testing.T) {
	svg, err := Layout(context.Background(), frame(t, true, diagram.WithHot(cycle.Bottom)))
	if err != nil {
		t.Fatalf("Layout() error: %v", err)
	}
	out := string(svg)
	for _, want := range []string{"<svg", "source-bottom", "ap-south"} {
		if !strings.Contains(out, want) {
			t.Errorf("Layout() output missing %q", want)
		}
	}
	tag := svgTagRe.FindString(out)
	if strings.Contains(tag, `pt"`) {
		t.Errorf("root element still sized in pt: %s", tag)
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), "not a valid dot graph {{{")
	if err == nil {
		t.Fatal("RenderSVG() should return error for invalid DOT")
	}
	if !errors.Is(err, errors.ErrCodeRender) {
		t.Errorf("code = %v", errors.GetCode(err))
	}
}

func TestPixelSize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"pt dimensions",
			`<svg width="100pt" height="50.4pt" viewBox="0.00 0.00 100.00 50.40" xmlns="http://www.w3.org/2000/svg"><rect width="3pt"/></svg>`,
			`<svg width="100" height="51" viewBox="0.00 0.00 100.00 50.40" xmlns="http://www.w3.org/2000/svg"><rect width="3pt"/></svg>`,
		},
		{"pixel dimensions", `<svg width="10" height="20"/>`, `<svg width="10" height="20"/>`},
		{"no svg element", `<g/>`, `<g/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(pixelSize([]byte(tt.in))); got != tt.want {
				t.Errorf("pixelSize() = %s\nwant %s", got, tt.want)
			}
		})
	}
}
