package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/fabkey/tui/styles"
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key  string
	Desc string
}

// RenderStatusBar renders the two-line footer: run progress on top, key
// hints below.
func RenderStatusBar(theme styles.Theme, state string, done, total, failed, width int, hints []KeyHint) string {
	bg := theme.Base01
	bgStyle := lipgloss.NewStyle().Background(bg)
	sep := lipgloss.NewStyle().Foreground(theme.Base03).Background(bg).Render(" | ")

	stateSeg := lipgloss.NewStyle().Foreground(theme.Base05).Background(bg).Render(state)
	progSeg := lipgloss.NewStyle().Foreground(theme.Base05).Background(bg).
		Render(fmt.Sprintf("%d/%d done", done, total))

	failColor := theme.Base0B
	if failed > 0 {
		failColor = theme.Base0A
	}
	failSeg := lipgloss.NewStyle().Foreground(failColor).Background(bg).
		Render(fmt.Sprintf("%d failed", failed))

	topContent := bgStyle.Render(" ") + stateSeg + sep + progSeg + sep + failSeg
	topWidth := lipgloss.Width(topContent)
	if topWidth < width {
		topContent += bgStyle.Render(strings.Repeat(" ", width-topWidth))
	}

	keyStyle := lipgloss.NewStyle().Foreground(theme.Base0D).Background(bg).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.Base04).Background(bg)
	spacer := bgStyle.Render("  ")

	keysLine := bgStyle.Render(" ")
	for i, h := range hints {
		if i > 0 {
			keysLine += spacer
		}
		keysLine += keyStyle.Render(h.Key) + descStyle.Render(":"+h.Desc)
	}

	keysWidth := lipgloss.Width(keysLine)
	if keysWidth < width {
		keysLine += bgStyle.Render(strings.Repeat(" ", width-keysWidth))
	}

	return lipgloss.JoinVertical(lipgloss.Left, topContent, keysLine)
}
