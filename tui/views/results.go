package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/fabkey/internal/engine"
	"github.com/tonhe/fabkey/tui/keys"
	"github.com/tonhe/fabkey/tui/styles"
)

// ResultsAction describes what the app should do after a results update.
type ResultsAction int

const (
	// ResultsNone means stay in the results view.
	ResultsNone ResultsAction = iota
	// ResultsUpload means upsert results into a controller property set.
	ResultsUpload
	// ResultsWrite means write results to the configured output file.
	ResultsWrite
	// ResultsBack means return to the blueprint picker.
	ResultsBack
)

// ResultsView is a scrollable table of per-device key results.
type ResultsView struct {
	theme styles.Theme
	sty   *styles.Styles

	results  []engine.SystemResult
	failures []engine.Failure
	cursor   int
	status   string

	width  int
	height int
}

// NewResultsView creates a results table.
func NewResultsView(theme styles.Theme) ResultsView {
	return ResultsView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetSize updates the available dimensions.
func (v *ResultsView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetResults replaces the displayed results.
func (v *ResultsView) SetResults(results []engine.SystemResult, failures []engine.Failure) {
	v.results = results
	v.failures = failures
	v.cursor = 0
}

// SetStatus shows a one-line status message (upload/write outcome).
func (v *ResultsView) SetStatus(msg string) {
	v.status = msg
}

// Update handles key input.
func (v ResultsView) Update(msg tea.KeyMsg) (ResultsView, ResultsAction) {
	switch {
	case key.Matches(msg, keys.DefaultKeyMap.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, keys.DefaultKeyMap.Down):
		if v.cursor < len(v.results)-1 {
			v.cursor++
		}
	case key.Matches(msg, keys.DefaultKeyMap.Upload):
		return v, ResultsUpload
	case key.Matches(msg, keys.DefaultKeyMap.Write):
		return v, ResultsWrite
	case key.Matches(msg, keys.DefaultKeyMap.Escape):
		return v, ResultsBack
	}
	return v, ResultsNone
}

// View renders the table plus the selected device's full keys.
func (v ResultsView) View() string {
	var b strings.Builder
	b.WriteString(v.sty.SectionTitle.Render(fmt.Sprintf("Results (%d ok, %d failed)", len(v.results), len(v.failures))))
	b.WriteString("\n\n")

	b.WriteString(v.sty.TableHeader.Render(fmt.Sprintf("  %-24s %-20s %s", "HOSTNAME", "ENGINE-ID/USER", "AUTH KEY")))
	b.WriteString("\n")

	for i, r := range v.results {
		ident := r.EngineID
		if ident == "" {
			ident = r.User
		}
		auth := r.AuthenticationKey
		if len(auth) > 24 {
			auth = auth[:24] + "…"
		}
		line := fmt.Sprintf("  %-24s %-20s %s", r.Hostname, ident, auth)
		if i == v.cursor {
			b.WriteString(v.sty.TableRowSel.Render(line))
		} else {
			b.WriteString(v.sty.TableRow.Render(line))
		}
		b.WriteString("\n")
	}

	if v.cursor < len(v.results) {
		r := v.results[v.cursor]
		b.WriteString("\n" + v.sty.FormLabel.Render("auth ") + v.sty.KeyValue.Render(r.AuthenticationKey))
		b.WriteString("\n" + v.sty.FormLabel.Render("priv ") + v.sty.KeyValue.Render(r.PrivacyKey) + "\n")
	}

	if v.status != "" {
		b.WriteString("\n" + v.sty.StatusOK.Render(v.status) + "\n")
	}
	b.WriteString("\n" + v.sty.TableCellDim.Render("u: upload property set   w: write file   esc: back"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
