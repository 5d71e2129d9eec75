package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/fabkey/tui/styles"
)

// AboutView is a static screen describing the tool.
type AboutView struct {
	sty *styles.Styles
}

// NewAboutView creates the about screen.
func NewAboutView(theme styles.Theme) AboutView {
	return AboutView{sty: styles.NewStyles(theme)}
}

// View renders the about text.
func (v AboutView) View() string {
	var b strings.Builder
	b.WriteString(v.sty.SectionTitle.Render("fabkey v0.1.0"))
	b.WriteString("\n\n")
	b.WriteString("SNMPv3 key tool for Apstra-managed fabrics.\n\n")
	b.WriteString("fabkey logs in to an Apstra controller, runs show commands on a\n")
	b.WriteString("blueprint's switches through the telemetry job API, and either\n")
	b.WriteString("extracts the configured SNMPv3 keys or derives fresh ones from a\n")
	b.WriteString("passphrase. Derived keys are localized per device engine-id and\n")
	b.WriteString("obfuscated with the Junos $9$ encoding, then uploaded as a\n")
	b.WriteString("property set or written to a JSON file.\n")
	b.WriteString("\n" + v.sty.TableCellDim.Render("esc: back"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
