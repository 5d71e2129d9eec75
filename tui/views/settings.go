package views

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/fabkey/internal/config"
	"github.com/tonhe/fabkey/tui/keys"
	"github.com/tonhe/fabkey/tui/styles"
)

// SettingsAction describes what the app should do after a settings update.
type SettingsAction int

const (
	// SettingsNone means continue in the settings view.
	SettingsNone SettingsAction = iota
	// SettingsClose means the user cancelled without saving.
	SettingsClose
	// SettingsSaved means the config was saved; the app should apply changes.
	SettingsSaved
)

const (
	settingsFieldTheme = iota
	settingsFieldPropertySet
	settingsFieldOutput
	settingsFieldInterval
	settingsFieldWorkers
	settingsFieldCount
)

// SettingsView edits the theme, property set label, output file, poll
// interval, and worker count.
type SettingsView struct {
	theme styles.Theme
	sty   *styles.Styles

	config     *config.Config
	themeIndex int
	cursor     int
	err        string

	propertySetInput textinput.Model
	outputInput      textinput.Model
	intervalInput    textinput.Model
	workersInput     textinput.Model

	width  int
	height int
}

// NewSettingsView creates a settings editor populated from the config.
func NewSettingsView(theme styles.Theme, cfg *config.Config) SettingsView {
	themeIdx := styles.GetThemeIndex(cfg.Theme)
	if themeIdx < 0 {
		themeIdx = 0
	}

	propertySetInput := textinput.New()
	propertySetInput.Placeholder = "snmp_auth"
	propertySetInput.CharLimit = 64
	propertySetInput.Width = 40
	propertySetInput.SetValue(cfg.PropertySetName)

	outputInput := textinput.New()
	outputInput.Placeholder = "snmp_keys_output.json"
	outputInput.CharLimit = 256
	outputInput.Width = 40
	outputInput.SetValue(cfg.OutputFile)

	intervalInput := textinput.New()
	intervalInput.Placeholder = "3s"
	intervalInput.CharLimit = 16
	intervalInput.Width = 40
	intervalInput.SetValue(cfg.PollInterval.String())

	workersInput := textinput.New()
	workersInput.Placeholder = "4"
	workersInput.CharLimit = 3
	workersInput.Width = 40
	workersInput.SetValue(strconv.Itoa(cfg.Workers))

	return SettingsView{
		theme:            theme,
		sty:              styles.NewStyles(theme),
		config:           cfg,
		themeIndex:       themeIdx,
		propertySetInput: propertySetInput,
		outputInput:      outputInput,
		intervalInput:    intervalInput,
		workersInput:     workersInput,
	}
}

// SetSize updates the available dimensions.
func (v *SettingsView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SelectedTheme returns the currently highlighted theme.
func (v SettingsView) SelectedTheme() styles.Theme {
	if t := styles.GetThemeByIndex(v.themeIndex); t != nil {
		return *t
	}
	return styles.DefaultTheme
}

// Update handles key input.
func (v SettingsView) Update(msg tea.KeyMsg) (SettingsView, SettingsAction, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.DefaultKeyMap.Escape):
		return v, SettingsClose, nil

	case key.Matches(msg, keys.DefaultKeyMap.Tab):
		v.cursor = (v.cursor + 1) % settingsFieldCount
		v.focusField()
		return v, SettingsNone, nil

	case key.Matches(msg, keys.DefaultKeyMap.Enter):
		return v.save()
	}

	switch v.cursor {
	case settingsFieldTheme:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Up):
			if v.themeIndex > 0 {
				v.themeIndex--
			}
		case key.Matches(msg, keys.DefaultKeyMap.Down):
			if v.themeIndex < len(styles.ListThemes())-1 {
				v.themeIndex++
			}
		}
		return v, SettingsNone, nil
	case settingsFieldPropertySet:
		var cmd tea.Cmd
		v.propertySetInput, cmd = v.propertySetInput.Update(msg)
		return v, SettingsNone, cmd
	case settingsFieldOutput:
		var cmd tea.Cmd
		v.outputInput, cmd = v.outputInput.Update(msg)
		return v, SettingsNone, cmd
	case settingsFieldInterval:
		var cmd tea.Cmd
		v.intervalInput, cmd = v.intervalInput.Update(msg)
		return v, SettingsNone, cmd
	case settingsFieldWorkers:
		var cmd tea.Cmd
		v.workersInput, cmd = v.workersInput.Update(msg)
		return v, SettingsNone, cmd
	}
	return v, SettingsNone, nil
}

func (v *SettingsView) focusField() {
	v.propertySetInput.Blur()
	v.outputInput.Blur()
	v.intervalInput.Blur()
	v.workersInput.Blur()
	switch v.cursor {
	case settingsFieldPropertySet:
		v.propertySetInput.Focus()
	case settingsFieldOutput:
		v.outputInput.Focus()
	case settingsFieldInterval:
		v.intervalInput.Focus()
	case settingsFieldWorkers:
		v.workersInput.Focus()
	}
}

func (v SettingsView) save() (SettingsView, SettingsAction, tea.Cmd) {
	workers, err := strconv.Atoi(strings.TrimSpace(v.workersInput.Value()))
	if err != nil || workers < 1 {
		v.err = "workers must be a positive number"
		return v, SettingsNone, nil
	}
	interval, err := time.ParseDuration(strings.TrimSpace(v.intervalInput.Value()))
	if err != nil || interval <= 0 {
		v.err = "poll interval must be a positive duration (e.g. 3s)"
		return v, SettingsNone, nil
	}

	slugs := styles.ListThemes()
	v.config.Theme = slugs[v.themeIndex]
	v.config.PropertySetName = strings.TrimSpace(v.propertySetInput.Value())
	v.config.OutputFile = strings.TrimSpace(v.outputInput.Value())
	v.config.PollInterval = interval
	v.config.Workers = workers

	path, err := config.GetConfigPath()
	if err == nil {
		err = config.SaveConfig(v.config, path)
	}
	if err != nil {
		v.err = "save failed: " + err.Error()
		return v, SettingsNone, nil
	}
	return v, SettingsSaved, nil
}

// View renders the settings form.
func (v SettingsView) View() string {
	var b strings.Builder
	b.WriteString(v.sty.SectionTitle.Render("Settings"))
	b.WriteString("\n\n")

	slugs := styles.ListThemes()
	themeLine := v.sty.FormLabel.Render("Theme         ") + v.sty.FormInput.Render(slugs[v.themeIndex])
	if v.cursor == settingsFieldTheme {
		themeLine = v.sty.FormLabel.Render("Theme         ") + v.sty.FormInputActive.Render(slugs[v.themeIndex])
	}
	b.WriteString(themeLine + "\n")
	b.WriteString(v.sty.FormLabel.Render("Property set  ") + v.propertySetInput.View() + "\n")
	b.WriteString(v.sty.FormLabel.Render("Output file   ") + v.outputInput.View() + "\n")
	b.WriteString(v.sty.FormLabel.Render("Poll interval ") + v.intervalInput.View() + "\n")
	b.WriteString(v.sty.FormLabel.Render("Workers       ") + v.workersInput.View() + "\n")

	if v.err != "" {
		b.WriteString("\n" + v.sty.StatusFail.Render(v.err) + "\n")
	}
	b.WriteString("\n" + v.sty.TableCellDim.Render("tab: next   up/down: change theme   enter: save   esc: cancel"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
