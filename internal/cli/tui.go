package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/bottleneck/pkg/anchor"
	"github.com/matzehuels/bottleneck/pkg/connector"
	"github.com/matzehuels/bottleneck/pkg/cycle"
	"github.com/matzehuels/bottleneck/pkg/diagram"
	"github.com/matzehuels/bottleneck/pkg/schedule"
	"github.com/matzehuels/bottleneck/pkg/scene"
)

// =============================================================================
// WatchModel - Live terminal view of the diagram
// =============================================================================

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// WatchModel is the bubbletea model for the watch command. Each tick advances
// a manual clock, so the diagram runs on the bubbletea goroutine.
type WatchModel struct {
	sched    *schedule.Manual
	diagram  *diagram.Diagram
	frame    diagram.Frame
	interval time.Duration
}

// NewWatchModel mounts d, which must be scheduled on sched.
func NewWatchModel(sched *schedule.Manual, d *diagram.Diagram, interval time.Duration) WatchModel {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	d.Mount()
	sched.Settle(settleFrames)
	return WatchModel{sched: sched, diagram: d, frame: d.Frame(), interval: interval}
}

// Frame returns the frame shown by the last View.
func (m WatchModel) Frame() diagram.Frame { return m.frame }

func (m WatchModel) Init() tea.Cmd {
	return tick(m.interval)
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.sched.Run(m.interval, schedule.DefaultFrameInterval)
		m.frame = m.diagram.Frame()
		return m, tick(m.interval)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.diagram.Dispose()
			return m, tea.Quit
		case "1", "t":
			m.selectBranch(cycle.Top)
		case "2", "m":
			m.selectBranch(cycle.Middle)
		case "3", "b":
			m.selectBranch(cycle.Bottom)
		}
	}
	return m, nil
}

func (m *WatchModel) selectBranch(b cycle.Branch) {
	m.diagram.Select(b)
	m.sched.Settle(settleFrames)
	m.frame = m.diagram.Frame()
}

func (m WatchModel) View() string {
	var b strings.Builder
	st := m.frame.State

	b.WriteString(StyleTitle.Render(appName))
	b.WriteString("  ")
	b.WriteString(stylePhase[st.Resolved].Render(st.Phase()))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  hot: %s  t+%s  shift: %.1fpx",
		st.Hot, m.sched.Elapsed().Round(100*time.Millisecond), m.frame.Shift)))
	b.WriteString("\n\n")
	b.WriteString(renderDiagram(m.frame))
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("1/t top  2/m middle  3/b bottom  q quit"))
	b.WriteString("\n")
	return b.String()
}

// renderDiagram draws the frame as three text rows with the source on the
// middle row:
//
//	          ┌──▶ us-east
//	Request ──┼──▶ eu-west · 429 throttled ──▶ Response · 429 throttled
//	          └──▶ ap-south
func renderDiagram(f diagram.Frame) string {
	boxes := make(map[anchor.BoxID]scene.Box, len(f.Boxes))
	for _, bx := range f.Boxes {
		boxes[bx.ID] = bx
	}
	arrows := make(map[string]lipgloss.Style, len(f.Drawing.Paths))
	for _, p := range f.Drawing.Paths {
		arrows[p.ID] = connectorStyle(p.Color)
	}
	arrow := func(id string) string {
		s, ok := arrows[id]
		if !ok {
			s = StyleDim
		}
		return s.Render("──▶ ")
	}
	box := func(id anchor.BoxID) string {
		bx := boxes[id]
		s, ok := styleBox[bx.Style]
		if !ok {
			s = styleBox[scene.StyleNeutral]
		}
		return s.Render(bx.Label)
	}

	src := box(anchor.Source) + StyleDim.Render(" ──")
	pad := strings.Repeat(" ", lipgloss.Width(src))

	rows := []string{
		pad + StyleDim.Render("┌") + arrow(connector.IDTop) + box(anchor.Top),
		src + StyleDim.Render("┼") + arrow(connector.IDMiddle) + box(anchor.Middle) + " " + arrow(connector.IDOutput) + box(anchor.Output),
		pad + StyleDim.Render("└") + arrow(connector.IDBottom) + box(anchor.Bottom),
	}
	return strings.Join(rows, "\n")
}
