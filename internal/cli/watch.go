package cli

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bottleneck/pkg/diagram"
	"github.com/matzehuels/bottleneck/pkg/errors"
	"github.com/matzehuels/bottleneck/pkg/schedule"
)

// watchCommand creates the watch command for the live terminal view.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		hot      string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Animate the diagram in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := applyFlags(cmd, &cfg, hot, cfg.Style, 0, 0); err != nil {
				return err
			}
			if interval < 10*time.Millisecond {
				return errors.New(errors.ErrCodeInvalidConfig, "interval must be at least 10ms, got %s", interval)
			}
			return c.runWatch(cmd.Context(), cfg.DiagramOptions(), interval)
		},
	}

	cmd.Flags().StringVar(&hot, "hot", "", "initial hot branch: top, middle, bottom")
	cmd.Flags().DurationVar(&interval, "interval", 100*time.Millisecond, "redraw interval")

	return cmd
}

func (c *CLI) runWatch(ctx context.Context, opts []diagram.Option, interval time.Duration) error {
	logger := loggerFromContext(ctx)

	sched := schedule.NewManual()
	d := diagram.New(sched, append(opts, diagram.WithLogger(logger.WithPrefix("watch")))...)
	defer d.Dispose()

	p := tea.NewProgram(NewWatchModel(sched, d, interval), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "terminal view")
	}
	return nil
}
