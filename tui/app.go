package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/fabkey/internal/apstra"
	"github.com/tonhe/fabkey/internal/config"
	"github.com/tonhe/fabkey/internal/engine"
	"github.com/tonhe/fabkey/tui/components"
	"github.com/tonhe/fabkey/tui/keys"
	"github.com/tonhe/fabkey/tui/styles"
	"github.com/tonhe/fabkey/tui/views"
)

// AppState represents the current screen/view of the application.
type AppState int

const (
	StateConnect AppState = iota
	StatePicker
	StateRunning
	StateResults
	StateSettings
	StateAbout
)

// Messages produced by async commands.
type (
	loginDoneMsg  struct{ client *apstra.Client }
	loginErrMsg   struct{ err error }
	blueprintsMsg struct{ blueprints []apstra.Blueprint }
	runStartedMsg struct {
		runner *engine.Runner
		cancel context.CancelFunc
		events <-chan engine.Event
	}
	runEventMsg struct {
		events <-chan engine.Event
		snap   engine.Snapshot
	}
	runDoneMsg  struct{}
	statusMsg   struct{ text string }
	appErrorMsg struct{ err error }
	tickMsg     struct{}
)

// tickCmd backstops event delivery while a run is active; subscriber
// channels drop events when the UI falls behind.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// AppModel is the root Bubble Tea model that manages all views and state.
type AppModel struct {
	state  AppState
	theme  styles.Theme
	config *config.Config

	client    *apstra.Client
	server    string
	blueprint apstra.Blueprint
	runner    *engine.Runner
	cancelRun context.CancelFunc

	connect  views.ConnectView
	picker   views.PickerView
	run      views.RunView
	results  views.ResultsView
	settings views.SettingsView
	about    views.AboutView

	width  int
	height int
}

// NewAppModel creates the root model from the loaded config.
func NewAppModel(cfg *config.Config) AppModel {
	theme := styles.DefaultTheme
	if t := styles.GetThemeByName(cfg.Theme); t != nil {
		theme = *t
	}
	return AppModel{
		state:   StateConnect,
		theme:   theme,
		config:  cfg,
		connect: views.NewConnectView(theme, "", ""),
		picker:  views.NewPickerView(theme),
		run:     views.NewRunView(theme),
		results: views.NewResultsView(theme),
		about:   views.NewAboutView(theme),
	}
}

// Init has nothing to start; everything waits on user input.
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and dispatches to the active view.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		body := msg.Height - 3
		m.connect.SetSize(msg.Width, body)
		m.picker.SetSize(msg.Width, body)
		m.run.SetSize(msg.Width, body)
		m.results.SetSize(msg.Width, body)
		m.settings.SetSize(msg.Width, body)
		return m, nil

	case loginDoneMsg:
		m.client = msg.client
		m.state = StatePicker
		return m, m.fetchBlueprintsCmd()

	case loginErrMsg:
		m.connect.SetError(msg.err.Error())
		return m, nil

	case blueprintsMsg:
		m.picker.SetBlueprints(msg.blueprints)
		return m, nil

	case runStartedMsg:
		m.runner = msg.runner
		m.cancelRun = msg.cancel
		m.state = StateRunning
		m.run.SetSnapshot(m.runner.Snapshot())
		return m, tea.Batch(waitEventCmd(msg.events), tickCmd())

	case runEventMsg:
		m.run.SetSnapshot(msg.snap)
		if msg.snap.State == engine.RunCompleted || msg.snap.State == engine.RunCancelled {
			m.results.SetResults(msg.snap.Results, msg.snap.Failures)
			m.state = StateResults
			return m, nil
		}
		return m, waitEventCmd(msg.events)

	case tickMsg, runDoneMsg:
		if m.state != StateRunning || m.runner == nil {
			return m, nil
		}
		snap := m.runner.Snapshot()
		m.run.SetSnapshot(snap)
		if snap.State == engine.RunCompleted || snap.State == engine.RunCancelled {
			m.results.SetResults(snap.Results, snap.Failures)
			m.state = StateResults
			return m, nil
		}
		return m, tickCmd()

	case statusMsg:
		m.results.SetStatus(msg.text)
		return m, nil

	case appErrorMsg:
		m.results.SetStatus("error: " + msg.err.Error())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.DefaultKeyMap.Quit) {
		if m.cancelRun != nil {
			m.cancelRun()
		}
		return m, tea.Quit
	}

	switch m.state {
	case StateConnect:
		var action views.ConnectAction
		var cmd tea.Cmd
		m.connect, action, cmd = m.connect.Update(msg)
		if action == views.ConnectSubmit {
			server, username, password := m.connect.Values()
			m.server = server
			return m, m.loginCmd(server, username, password)
		}
		return m, cmd

	case StatePicker:
		if key.Matches(msg, keys.DefaultKeyMap.Settings) {
			m.settings = views.NewSettingsView(m.theme, m.config)
			m.settings.SetSize(m.width, m.height-3)
			m.state = StateSettings
			return m, nil
		}
		if key.Matches(msg, keys.DefaultKeyMap.Refresh) {
			return m, m.fetchBlueprintsCmd()
		}
		if key.Matches(msg, keys.DefaultKeyMap.About) {
			m.state = StateAbout
			return m, nil
		}
		var action views.PickerAction
		var cmd tea.Cmd
		m.picker, action, cmd = m.picker.Update(msg)
		if action == views.PickerStart {
			bp, mode, passphrase := m.picker.Selection()
			m.blueprint = bp
			return m, m.startRunCmd(bp, mode, passphrase)
		}
		return m, cmd

	case StateRunning:
		if key.Matches(msg, keys.DefaultKeyMap.Escape) && m.cancelRun != nil {
			m.cancelRun()
		}
		return m, nil

	case StateResults:
		var action views.ResultsAction
		m.results, action = m.results.Update(msg)
		switch action {
		case views.ResultsUpload:
			return m, m.uploadCmd()
		case views.ResultsWrite:
			return m, m.writeCmd()
		case views.ResultsBack:
			m.state = StatePicker
			return m, nil
		}
		return m, nil

	case StateSettings:
		var action views.SettingsAction
		var cmd tea.Cmd
		m.settings, action, cmd = m.settings.Update(msg)
		switch action {
		case views.SettingsClose:
			m.state = StatePicker
		case views.SettingsSaved:
			m.theme = m.settings.SelectedTheme()
			m.applyTheme()
			m.state = StatePicker
			if m.client != nil {
				return m, m.fetchBlueprintsCmd()
			}
		}
		return m, cmd

	case StateAbout:
		if key.Matches(msg, keys.DefaultKeyMap.Escape) {
			m.state = StatePicker
		}
		return m, nil
	}
	return m, nil
}

// applyTheme rebuilds every view with the new theme. The blueprint list is
// refetched when the user lands back on the picker.
func (m *AppModel) applyTheme() {
	m.connect = views.NewConnectView(m.theme, m.server, "")
	m.picker = views.NewPickerView(m.theme)
	m.run = views.NewRunView(m.theme)
	m.results = views.NewResultsView(m.theme)
	m.about = views.NewAboutView(m.theme)
	body := m.height - 3
	m.connect.SetSize(m.width, body)
	m.picker.SetSize(m.width, body)
	m.run.SetSize(m.width, body)
	m.results.SetSize(m.width, body)
}

func (m AppModel) loginCmd(server, username, password string) tea.Cmd {
	cfg := m.config
	return func() tea.Msg {
		client := apstra.NewClient(server, apstra.Options{
			SkipVerify:   cfg.SkipVerify,
			PollInterval: cfg.PollInterval,
			PollAttempts: cfg.PollAttempts,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := client.Login(ctx, username, password); err != nil {
			return loginErrMsg{err: err}
		}
		return loginDoneMsg{client: client}
	}
}

func (m AppModel) fetchBlueprintsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		bps, err := client.Blueprints(ctx)
		if err != nil {
			return appErrorMsg{err: err}
		}
		return blueprintsMsg{blueprints: bps}
	}
}

func (m AppModel) startRunCmd(bp apstra.Blueprint, mode engine.Mode, passphrase string) tea.Cmd {
	client := m.client
	cfg := m.config
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())

		fetchCtx, fetchCancel := context.WithTimeout(ctx, 30*time.Second)
		systems, err := client.SwitchSystems(fetchCtx, bp.ID)
		fetchCancel()
		if err != nil {
			cancel()
			return appErrorMsg{err: err}
		}

		runner, err := engine.NewRunner(client, engine.Params{
			Blueprint:  bp.ID,
			Systems:    systems,
			Mode:       mode,
			Passphrase: passphrase,
			Workers:    cfg.Workers,
		})
		if err != nil {
			cancel()
			return appErrorMsg{err: err}
		}

		events := runner.Subscribe()
		go func() {
			defer cancel()
			_ = runner.Run(ctx)
		}()
		return runStartedMsg{runner: runner, cancel: cancel, events: events}
	}
}

// waitEventCmd relays one engine event into the Bubble Tea loop.
func waitEventCmd(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return runDoneMsg{}
		}
		return runEventMsg{events: events, snap: ev.Snapshot}
	}
}

func (m AppModel) uploadCmd() tea.Cmd {
	client := m.client
	label := m.blueprint.Label + "-" + m.config.PropertySetName
	snap := m.runner.Snapshot()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := client.UpsertPropertySet(ctx, label, engine.PayloadValues(snap.Results)); err != nil {
			return appErrorMsg{err: err}
		}
		return statusMsg{text: "uploaded property set " + label}
	}
}

func (m AppModel) writeCmd() tea.Cmd {
	path := m.config.OutputFile
	snap := m.runner.Snapshot()
	return func() tea.Msg {
		if err := engine.WriteResults(path, snap.Results); err != nil {
			return appErrorMsg{err: err}
		}
		return statusMsg{text: fmt.Sprintf("wrote %d results to %s", len(snap.Results), path)}
	}
}

// View renders the full application UI by composing header, body, and status.
func (m AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := components.RenderHeader(m.theme, m.server, m.client != nil, m.blueprint.Label, m.width)

	var body string
	switch m.state {
	case StateConnect:
		body = m.connect.View()
	case StatePicker:
		body = m.picker.View()
	case StateRunning:
		body = m.run.View()
	case StateResults:
		body = m.results.View()
	case StateSettings:
		body = m.settings.View()
	case StateAbout:
		body = m.about.View()
	}

	state := "idle"
	done, total, failed := 0, 0, 0
	if m.runner != nil {
		snap := m.runner.Snapshot()
		state = snap.State.String()
		done, total, failed = snap.Done, snap.Total, len(snap.Failures)
	}
	hints := hintsFor(m.state)
	statusBar := components.RenderStatusBar(m.theme, state, done, total, failed, m.width, hints)

	bodyHeight := m.height - 1 - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	bodyStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(bodyHeight).
		Background(m.theme.Base00).
		Foreground(m.theme.Base05)

	return lipgloss.JoinVertical(lipgloss.Left, header, bodyStyle.Render(body), statusBar)
}

func hintsFor(state AppState) []components.KeyHint {
	quit := components.KeyHint{Key: "ctrl+c", Desc: "quit"}
	switch state {
	case StateConnect:
		return []components.KeyHint{{Key: "enter", Desc: "log in"}, quit}
	case StatePicker:
		return []components.KeyHint{
			{Key: "enter", Desc: "run"},
			{Key: "m", Desc: "mode"},
			{Key: "r", Desc: "refresh"},
			{Key: "s", Desc: "settings"},
			{Key: "a", Desc: "about"},
			quit,
		}
	case StateRunning:
		return []components.KeyHint{{Key: "esc", Desc: "cancel"}, quit}
	case StateResults:
		return []components.KeyHint{
			{Key: "u", Desc: "upload"},
			{Key: "w", Desc: "write"},
			{Key: "esc", Desc: "back"},
			quit,
		}
	case StateSettings:
		return []components.KeyHint{{Key: "enter", Desc: "save"}, {Key: "esc", Desc: "cancel"}, quit}
	case StateAbout:
		return []components.KeyHint{{Key: "esc", Desc: "back"}, quit}
	}
	return []components.KeyHint{quit}
}
