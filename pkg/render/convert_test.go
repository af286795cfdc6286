package render

import (
	"os/exec"
	"slices"
	"testing"

	"github.com/matzehuels/bottleneck/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"svg", []string{"svg"}, false},
		{"svg, JSON,dot", []string{"svg", "json", "dot"}, false},
		{"graph,svg", []string{"graph", "svg"}, false},
		{"png,png,pdf", []string{"png", "pdf"}, false},
		{"", nil, true},
		{" , ", nil, true},
		{"svg,gif", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("code = %v", errors.GetCode(err))
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	for format, want := range map[string]string{"svg": "svg", "graph": "graph.svg", "pdf": "pdf"} {
		if got := Extension(format); got != want {
			t.Errorf("Extension(%q) = %q, want %q", format, got, want)
		}
	}
}

func TestToPNGRequiresRsvg(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err == nil {
		t.Skip("rsvg-convert installed")
	}
	_, err := ToPNG([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), 2)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPNG without rsvg-convert = %v", err)
	}
}
