package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/bottleneck/pkg/cycle"
	"github.com/matzehuels/bottleneck/pkg/diagram"
	"github.com/matzehuels/bottleneck/pkg/errors"
	"github.com/matzehuels/bottleneck/pkg/schedule"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
hot = "bottom"
period = "750ms"
style = "outline"

[container]
width = 1000

[labels]
top = "primary"
failing = "saturated"
`)
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := Default()
	want.Hot = cycle.Bottom
	want.Period = Duration{750 * time.Millisecond}
	want.Style = "outline"
	want.Container.Width = 1000
	want.Labels.Top = "primary"
	want.Labels.Failing = "saturated"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"syntax", `hot = `, errors.ErrCodeInvalidConfig},
		{"unknown branch", `hot = "left"`, errors.ErrCodeInvalidConfig},
		{"unknown key", `colour = "red"`, errors.ErrCodeInvalidConfig},
		{"bad duration", `period = "soon"`, errors.ErrCodeInvalidConfig},
		{"short period", `period = "10ms"`, errors.ErrCodeInvalidConfig},
		{"bad style", `style = "neon"`, errors.ErrCodeInvalidStyle},
		{"bad bias", `elbow_bias = 1.5`, errors.ErrCodeInvalidConfig},
		{"zero width", "[container]\nwidth = 0", errors.ErrCodeInvalidSize},
		{"empty color", "[colors]\npass = \"\"", errors.ErrCodeInvalidConfig},
		{"equal colors", "[colors]\npass = \"#123456\"\nfail = \"#123456\"", errors.ErrCodeInvalidConfig},
		{"colors share marker name", "[colors]\npass = \"#123456\"\nfail = \"123456\"", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bottleneck.toml")
	if err := os.WriteFile(path, []byte(`hot = "top"`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Hot != cycle.Top {
		t.Errorf("Hot = %v, want top", cfg.Hot)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Load(missing) = %v", err)
	}
}

func TestDiagramOptions(t *testing.T) {
	cfg := Default()
	cfg.Hot = cycle.Top
	cfg.Period = Duration{time.Second}

	sched := schedule.NewManual()
	opts := append(cfg.DiagramOptions(), diagram.WithInstanceID("cfg"))
	d := diagram.New(sched, opts...)
	d.Mount()
	defer d.Dispose()

	if st := d.State(); st.Hot != cycle.Top || st.Resolved {
		t.Fatalf("State = %+v", st)
	}
	sched.Advance(time.Second)
	if st := d.State(); !st.Resolved {
		t.Errorf("expected resolved after one configured period, got %+v", st)
	}
}
