package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/fabkey/internal/apstra"
	"github.com/tonhe/fabkey/internal/engine"
	"github.com/tonhe/fabkey/tui/keys"
	"github.com/tonhe/fabkey/tui/styles"
)

// PickerAction describes what the app should do after a picker update.
type PickerAction int

const (
	// PickerNone means stay in the picker.
	PickerNone PickerAction = iota
	// PickerStart means launch a run against the selected blueprint.
	PickerStart
)

// PickerView lists blueprints and collects the run mode and passphrase.
type PickerView struct {
	theme styles.Theme
	sty   *styles.Styles

	blueprints []apstra.Blueprint
	cursor     int
	mode       engine.Mode

	passInput  textinput.Model
	editingPwd bool

	width  int
	height int
}

// NewPickerView creates a blueprint picker.
func NewPickerView(theme styles.Theme) PickerView {
	passInput := textinput.New()
	passInput.Placeholder = "SNMPv3 passphrase"
	passInput.CharLimit = 128
	passInput.Width = 40
	passInput.EchoMode = textinput.EchoPassword
	passInput.EchoCharacter = '*'

	return PickerView{
		theme:     theme,
		sty:       styles.NewStyles(theme),
		mode:      engine.ModeExtract,
		passInput: passInput,
	}
}

// SetSize updates the available dimensions.
func (v *PickerView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetBlueprints replaces the blueprint list.
func (v *PickerView) SetBlueprints(bps []apstra.Blueprint) {
	v.blueprints = bps
	if v.cursor >= len(bps) {
		v.cursor = 0
	}
}

// Selection returns the chosen blueprint, mode, and passphrase.
func (v PickerView) Selection() (apstra.Blueprint, engine.Mode, string) {
	var bp apstra.Blueprint
	if v.cursor < len(v.blueprints) {
		bp = v.blueprints[v.cursor]
	}
	return bp, v.mode, v.passInput.Value()
}

// Update handles key input.
func (v PickerView) Update(msg tea.KeyMsg) (PickerView, PickerAction, tea.Cmd) {
	if v.editingPwd {
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Enter):
			v.editingPwd = false
			v.passInput.Blur()
			if v.passInput.Value() != "" {
				return v, PickerStart, nil
			}
			return v, PickerNone, nil
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			v.editingPwd = false
			v.passInput.Blur()
			return v, PickerNone, nil
		}
		var cmd tea.Cmd
		v.passInput, cmd = v.passInput.Update(msg)
		return v, PickerNone, cmd
	}

	switch {
	case key.Matches(msg, keys.DefaultKeyMap.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, keys.DefaultKeyMap.Down):
		if v.cursor < len(v.blueprints)-1 {
			v.cursor++
		}
	case key.Matches(msg, keys.DefaultKeyMap.Mode):
		if v.mode == engine.ModeExtract {
			v.mode = engine.ModeDerive
		} else {
			v.mode = engine.ModeExtract
		}
	case key.Matches(msg, keys.DefaultKeyMap.Enter):
		if len(v.blueprints) == 0 {
			return v, PickerNone, nil
		}
		if v.mode == engine.ModeDerive && v.passInput.Value() == "" {
			v.editingPwd = true
			return v, PickerNone, v.passInput.Focus()
		}
		return v, PickerStart, nil
	}
	return v, PickerNone, nil
}

// View renders the blueprint list and run options.
func (v PickerView) View() string {
	var b strings.Builder
	b.WriteString(v.sty.SectionTitle.Render("Blueprints"))
	b.WriteString("\n\n")

	if len(v.blueprints) == 0 {
		b.WriteString(v.sty.TableCellDim.Render("No blueprints found."))
	}
	for i, bp := range v.blueprints {
		line := fmt.Sprintf("  %-30s %s", bp.Label, v.sty.TableCellDim.Render(bp.ID))
		if i == v.cursor {
			line = v.sty.TableRowSel.Render("> " + fmt.Sprintf("%-30s", bp.Label) + " " + bp.ID)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(v.sty.FormLabel.Render("Mode: ") + v.sty.KeyValue.Render(string(v.mode)))
	if v.mode == engine.ModeDerive {
		b.WriteString("\n" + v.sty.FormLabel.Render("Passphrase: ") + v.passInput.View())
	}
	b.WriteString("\n\n" + v.sty.TableCellDim.Render("m: toggle mode   enter: start run"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
