// Package config loads diagram settings from a TOML file.
//
// Every key is optional; missing keys keep their [Default] value:
//
//	hot    = "top"          # initial hot branch
//	period = "5s"           # bottleneck/resolved phase length
//	style  = "flat"         # SVG style: flat or outline
//	elbow_bias = 0.55
//
//	[container]
//	width  = 800
//	height = 320
//
//	[labels]
//	source = "Request"
//	failing = "429 throttled"
//
//	[colors]
//	pass = "#22c55e"
//	fail = "#ef4444"
//
// Unknown keys are rejected so typos do not go unnoticed.
package config

import (
	"math"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bottleneck/pkg/connector"
	"github.com/matzehuels/bottleneck/pkg/cycle"
	"github.com/matzehuels/bottleneck/pkg/diagram"
	"github.com/matzehuels/bottleneck/pkg/errors"
	"github.com/matzehuels/bottleneck/pkg/geom"
	"github.com/matzehuels/bottleneck/pkg/render/sink"
	"github.com/matzehuels/bottleneck/pkg/scene"
)

// MinPeriod is the shortest accepted cycle period.
const MinPeriod = 100 * time.Millisecond

// Config holds every configurable diagram setting.
type Config struct {
	Hot       cycle.Branch `toml:"hot"`
	Period    Duration     `toml:"period"`
	Style     string       `toml:"style"`
	ElbowBias float64      `toml:"elbow_bias"`
	Container Container    `toml:"container"`
	Labels    scene.Labels `toml:"labels"`
	Colors    Colors       `toml:"colors"`
}

// Container is the diagram container size in pixels.
type Container struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Colors are the connector pass and fail colors.
type Colors struct {
	Pass string `toml:"pass"`
	Fail string `toml:"fail"`
}

// Duration decodes TOML strings such as "5s" or "750ms".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Hot:       cycle.DefaultBranch,
		Period:    Duration{cycle.DefaultPeriod},
		Style:     "flat",
		ElbowBias: geom.ElbowBias,
		Container: Container{Width: diagram.DefaultWidth, Height: diagram.DefaultHeight},
		Labels:    scene.DefaultLabels(),
		Colors:    Colors{Pass: string(connector.Green), Fail: string(connector.Red)},
	}
}

// Load reads and validates the file at path on top of [Default].
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML data on top of [Default] and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if !c.Hot.Valid() {
		return errors.New(errors.ErrCodeInvalidBranch, "invalid hot branch %d", int(c.Hot))
	}
	if c.Period.Duration < MinPeriod {
		return errors.New(errors.ErrCodeInvalidConfig, "period must be at least %s, got %s", MinPeriod, c.Period)
	}
	if _, err := sink.StyleByName(c.Style); err != nil {
		return err
	}
	if math.IsNaN(c.ElbowBias) || c.ElbowBias <= 0 || c.ElbowBias >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "elbow_bias must be in (0, 1), got %g", c.ElbowBias)
	}
	if err := errors.ValidateDimension("container width", c.Container.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("container height", c.Container.Height); err != nil {
		return err
	}
	if c.Colors.Pass == "" || c.Colors.Fail == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "colors must not be empty")
	}
	if connector.Color(c.Colors.Pass).Name() == connector.Color(c.Colors.Fail).Name() {
		return errors.New(errors.ErrCodeInvalidConfig, "pass color %q and fail color %q are indistinguishable", c.Colors.Pass, c.Colors.Fail)
	}
	return nil
}

// DiagramOptions converts the config into diagram options.
func (c Config) DiagramOptions() []diagram.Option {
	return []diagram.Option{
		diagram.WithHot(c.Hot),
		diagram.WithPeriod(c.Period.Duration),
		diagram.WithSize(c.Container.Width, c.Container.Height),
		diagram.WithLabels(c.Labels),
		diagram.WithColors(connector.Color(c.Colors.Pass), connector.Color(c.Colors.Fail)),
		diagram.WithElbowBias(c.ElbowBias),
	}
}
