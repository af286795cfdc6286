package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bottleneck/pkg/config"
	"github.com/matzehuels/bottleneck/pkg/cycle"
	"github.com/matzehuels/bottleneck/pkg/diagram"
	"github.com/matzehuels/bottleneck/pkg/errors"
	"github.com/matzehuels/bottleneck/pkg/render"
	"github.com/matzehuels/bottleneck/pkg/render/nodelink"
	"github.com/matzehuels/bottleneck/pkg/render/sink"
	"github.com/matzehuels/bottleneck/pkg/schedule"
)

const (
	defaultOutput = "bottleneck" // base name when --output is not given
	defaultScale  = 2.0          // PNG scale factor
	settleFrames  = 10           // frame budget for the layout to converge
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string        // output file (single format) or base path (multiple)
	formats []string      // output formats: svg, json, dot, graph, png, pdf
	hot     string        // initial hot branch
	at      time.Duration // clock time of the exported frame
	style   string        // SVG style: flat or outline
	width   float64       // container width
	height  float64       // container height
	scale   float64       // PNG scale factor
	animate bool          // embed the dash-flow CSS animation
	id      string        // fixed instance id for reproducible output
}

// renderCommand creates the render command for exporting a single frame.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: defaultScale}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame of the diagram",
		Long: `Render mounts the diagram on a simulated clock, advances it to --at and
writes the resulting frame. At 0s the hot branch is throttled; after one
period (default 5s) it is rerouted, and the phases alternate from there.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := render.ParseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, &cfg, opts.hot, opts.style, opts.width, opts.height); err != nil {
				return err
			}
			if opts.output != "" && opts.output != "-" {
				if err := errors.ValidateOutputPath(opts.output); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format, - for stdout) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "svg", "output format(s): svg, json, dot, graph, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.hot, "hot", "", "initial hot branch: top, middle, bottom")
	cmd.Flags().DurationVar(&opts.at, "at", 0, "clock time of the exported frame (e.g. 7s)")
	cmd.Flags().StringVar(&opts.style, "style", "", "visual style: flat (default), outline")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "container width")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "container height")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.animate, "animate", false, "embed the connector flow animation")
	cmd.Flags().StringVar(&opts.id, "id", "", "fixed instance id (default: random)")

	return cmd
}

// applyFlags overrides config values with the flags the user set.
func applyFlags(cmd *cobra.Command, cfg *config.Config, hot, style string, width, height float64) error {
	flags := cmd.Flags()
	if flags.Changed("hot") {
		b, ok := cycle.ParseBranch(hot)
		if !ok {
			return errors.New(errors.ErrCodeInvalidBranch, "unknown branch %q (want top, middle or bottom)", hot)
		}
		cfg.Hot = b
	}
	if flags.Changed("style") {
		cfg.Style = style
	}
	if flags.Changed("width") {
		cfg.Container.Width = width
	}
	if flags.Changed("height") {
		cfg.Container.Height = height
	}
	return cfg.Validate()
}

// captureFrame mounts a diagram on a manual clock, runs it for at and
// returns the settled frame.
func captureFrame(cfg config.Config, at time.Duration, opts ...diagram.Option) diagram.Frame {
	sched := schedule.NewManual()
	d := diagram.New(sched, append(cfg.DiagramOptions(), opts...)...)
	d.Mount()
	defer d.Dispose()

	sched.Settle(settleFrames)
	sched.Run(at, schedule.DefaultFrameInterval)
	sched.Settle(settleFrames)
	return d.Frame()
}

func (c *CLI) runRender(ctx context.Context, cfg config.Config, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	dopts := []diagram.Option{diagram.WithLogger(logger)}
	if opts.id != "" {
		dopts = append(dopts, diagram.WithInstanceID(opts.id))
	}
	frame := captureFrame(cfg, opts.at, dopts...)
	logger.Debug("frame captured", "at", opts.at, "phase", frame.State.Phase(), "hot", frame.State.Hot, "shift", frame.Shift)

	style, err := sink.StyleByName(cfg.Style)
	if err != nil {
		return err
	}
	svgOpts := []sink.SVGOption{
		sink.WithStyle(style),
		sink.WithMinSize(cfg.Container.Width, cfg.Container.Height),
	}
	if opts.animate {
		svgOpts = append(svgOpts, sink.WithAnimation())
	}

	var written []string
	for _, format := range opts.formats {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := encodeFrame(ctx, frame, format, opts.scale, svgOpts...)
		if err != nil {
			return err
		}
		path := outputPath(opts.output, format, len(opts.formats) > 1)
		if path == "-" {
			if _, err := c.out.Write(data); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write stdout")
			}
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		written = append(written, path)
	}

	if len(written) > 0 {
		prog.done(fmt.Sprintf("Rendered %d file(s)", len(written)))
		for _, p := range written {
			printFile(c.out, p)
		}
	}
	return nil
}

// encodeFrame produces the bytes for one output format.
func encodeFrame(ctx context.Context, f diagram.Frame, format string, scale float64, svgOpts ...sink.SVGOption) ([]byte, error) {
	switch format {
	case "svg":
		return sink.RenderSVG(f, svgOpts...), nil
	case "json":
		return sink.RenderJSON(f)
	case "dot":
		return []byte(nodelink.ToDOT(f)), nil
	case "graph":
		return nodelink.Layout(ctx, f)
	case "png":
		return render.ToPNG(sink.RenderSVG(f, svgOpts...), scale)
	case "pdf":
		return render.ToPDF(sink.RenderSVG(f, svgOpts...))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
}

// outputPath derives the file for format. A single format writes to output
// as given; multiple formats share output as a base path with the format
// extension appended.
func outputPath(output, format string, multiple bool) string {
	ext := "." + render.Extension(format)
	if output == "" {
		return defaultOutput + ext
	}
	if output == "-" {
		if multiple {
			return defaultOutput + ext
		}
		return output
	}
	if !multiple {
		return output
	}
	return basePath(output) + ext
}

// basePath strips the longest known format extension from output.
func basePath(output string) string {
	lower := strings.ToLower(output)
	best := ""
	for _, f := range render.Formats {
		ext := "." + render.Extension(f)
		if strings.HasSuffix(lower, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	return output[:len(output)-len(best)]
}
