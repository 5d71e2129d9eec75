package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/fabkey/internal/engine"
	"github.com/tonhe/fabkey/tui/styles"
)

// RunView shows a live run: progress bar, per-device log tail, failures.
type RunView struct {
	theme styles.Theme
	sty   *styles.Styles

	snapshot engine.Snapshot

	width  int
	height int
}

// NewRunView creates a run progress view.
func NewRunView(theme styles.Theme) RunView {
	return RunView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetSize updates the available dimensions.
func (v *RunView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetSnapshot replaces the rendered run state.
func (v *RunView) SetSnapshot(snap engine.Snapshot) {
	v.snapshot = snap
}

// View renders run progress.
func (v RunView) View() string {
	snap := v.snapshot
	var b strings.Builder

	b.WriteString(v.sty.SectionTitle.Render("Run: " + snap.Blueprint))
	b.WriteString("\n\n")

	barWidth := v.width - 20
	if barWidth < 10 {
		barWidth = 10
	}
	filled := 0
	if snap.Total > 0 {
		filled = barWidth * snap.Done / snap.Total
	}
	bar := v.sty.StatusOK.Render(strings.Repeat("█", filled)) +
		v.sty.TableCellDim.Render(strings.Repeat("░", barWidth-filled))
	b.WriteString(fmt.Sprintf("%s %d/%d  %s\n\n", bar, snap.Done, snap.Total, snap.State))

	logStart := 0
	maxLog := v.height - 10
	if maxLog < 3 {
		maxLog = 3
	}
	if len(snap.Log) > maxLog {
		logStart = len(snap.Log) - maxLog
	}
	for _, line := range snap.Log[logStart:] {
		b.WriteString(v.sty.LogLine.Render(line) + "\n")
	}

	if len(snap.Failures) > 0 {
		b.WriteString("\n" + v.sty.StatusWarn.Render(fmt.Sprintf("%d failures", len(snap.Failures))) + "\n")
		for _, f := range snap.Failures {
			b.WriteString(v.sty.StatusFail.Render("  "+f.Hostname) + v.sty.TableCellDim.Render(": "+f.Reason) + "\n")
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
