package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bottleneck/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is meant for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Rendered 3 files (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Debug Hooks
// =============================================================================

// debugHooks logs every observability event at debug level.
type debugHooks struct {
	logger *log.Logger
}

// installDebugHooks registers h for every hook interface. SetLogLevel resets
// the registry when leaving debug level.
func installDebugHooks(l *log.Logger) {
	h := debugHooks{logger: l.WithPrefix("hooks")}
	observability.SetMeasureHooks(h)
	observability.SetReactorHooks(h)
	observability.SetCycleHooks(h)
}

func (h debugHooks) OnMeasure(o observability.Outcome) {
	h.logger.Debug("measure", "outcome", o)
}

func (h debugHooks) OnShift(from, to float64) {
	h.logger.Debug("shift", "from", from, "to", to)
}

func (h debugHooks) OnSchedule() { h.logger.Debug("frame scheduled") }
func (h debugHooks) OnCoalesce() { h.logger.Debug("frame coalesced") }

func (h debugHooks) OnCycle(hot int, resolved bool) {
	h.logger.Debug("cycle", "hot", hot, "resolved", resolved)
}
