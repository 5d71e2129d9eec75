package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/fabkey/tui/styles"
)

// RenderHeader renders the top header bar with app name, controller, and
// connection status.
func RenderHeader(theme styles.Theme, server string, connected bool, blueprint string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Base0D).
		Background(theme.Base01).
		Bold(true).
		Render("fabkey")

	target := server
	if target == "" {
		target = "(not connected)"
	}
	center := lipgloss.NewStyle().
		Foreground(theme.Base05).
		Background(theme.Base01).
		Render(target)

	status := "OFFLINE"
	statusColor := theme.Base08
	if connected {
		status = "CONNECTED"
		statusColor = theme.Base0B
	}
	right := lipgloss.NewStyle().
		Foreground(statusColor).
		Background(theme.Base01).
		Render(status)

	content := fmt.Sprintf(" %s  |  %s  |  %s ", left, center, right)
	if blueprint != "" {
		bpSeg := lipgloss.NewStyle().
			Foreground(theme.Base04).
			Background(theme.Base01).
			Render(blueprint)
		content += lipgloss.NewStyle().Foreground(theme.Base03).Background(theme.Base01).Render("|  ") + bpSeg + " "
	}

	return lipgloss.NewStyle().
		Background(theme.Base01).
		Width(width).
		Render(content)
}
