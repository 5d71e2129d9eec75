package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/fabkey/tui/keys"
	"github.com/tonhe/fabkey/tui/styles"
)

// ConnectAction describes what the app should do after a connect update.
type ConnectAction int

const (
	// ConnectNone means stay in the connect view.
	ConnectNone ConnectAction = iota
	// ConnectSubmit means the user finished the form and wants to log in.
	ConnectSubmit
)

const (
	connectFieldServer = iota
	connectFieldUsername
	connectFieldPassword
	connectFieldCount
)

// ConnectView is the login form shown before anything else works.
type ConnectView struct {
	theme styles.Theme
	sty   *styles.Styles

	serverInput   textinput.Model
	usernameInput textinput.Model
	passwordInput textinput.Model
	cursor        int
	err           string

	width  int
	height int
}

// NewConnectView creates the login form, pre-filled with any known values.
func NewConnectView(theme styles.Theme, server, username string) ConnectView {
	serverInput := textinput.New()
	serverInput.Placeholder = "apstra.example.net"
	serverInput.CharLimit = 128
	serverInput.Width = 40
	serverInput.SetValue(server)
	serverInput.Focus()

	usernameInput := textinput.New()
	usernameInput.Placeholder = "admin"
	usernameInput.CharLimit = 64
	usernameInput.Width = 40
	usernameInput.SetValue(username)

	passwordInput := textinput.New()
	passwordInput.CharLimit = 128
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.EchoCharacter = '*'

	return ConnectView{
		theme:         theme,
		sty:           styles.NewStyles(theme),
		serverInput:   serverInput,
		usernameInput: usernameInput,
		passwordInput: passwordInput,
	}
}

// SetSize updates the available dimensions.
func (v *ConnectView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetError displays a login failure message under the form.
func (v *ConnectView) SetError(msg string) {
	v.err = msg
}

// Values returns the current form contents.
func (v ConnectView) Values() (server, username, password string) {
	return strings.TrimSpace(v.serverInput.Value()),
		strings.TrimSpace(v.usernameInput.Value()),
		v.passwordInput.Value()
}

// Update handles key input for the form.
func (v ConnectView) Update(msg tea.KeyMsg) (ConnectView, ConnectAction, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.DefaultKeyMap.Enter):
		if v.cursor == connectFieldPassword {
			server, username, _ := v.Values()
			if server == "" || username == "" {
				v.err = "server and username are required"
				return v, ConnectNone, nil
			}
			return v, ConnectSubmit, nil
		}
		v.focusField(v.cursor + 1)
		return v, ConnectNone, nil

	case key.Matches(msg, keys.DefaultKeyMap.Tab), key.Matches(msg, keys.DefaultKeyMap.Down):
		v.focusField((v.cursor + 1) % connectFieldCount)
		return v, ConnectNone, nil

	case key.Matches(msg, keys.DefaultKeyMap.Up):
		v.focusField((v.cursor + connectFieldCount - 1) % connectFieldCount)
		return v, ConnectNone, nil
	}

	var cmd tea.Cmd
	switch v.cursor {
	case connectFieldServer:
		v.serverInput, cmd = v.serverInput.Update(msg)
	case connectFieldUsername:
		v.usernameInput, cmd = v.usernameInput.Update(msg)
	case connectFieldPassword:
		v.passwordInput, cmd = v.passwordInput.Update(msg)
	}
	return v, ConnectNone, cmd
}

func (v *ConnectView) focusField(idx int) {
	v.cursor = idx
	v.serverInput.Blur()
	v.usernameInput.Blur()
	v.passwordInput.Blur()
	switch idx {
	case connectFieldServer:
		v.serverInput.Focus()
	case connectFieldUsername:
		v.usernameInput.Focus()
	case connectFieldPassword:
		v.passwordInput.Focus()
	}
}

// View renders the form.
func (v ConnectView) View() string {
	var b strings.Builder
	b.WriteString(v.sty.SectionTitle.Render("Connect to Apstra"))
	b.WriteString("\n\n")
	b.WriteString(v.sty.FormLabel.Render("Server    ") + v.serverInput.View() + "\n")
	b.WriteString(v.sty.FormLabel.Render("Username  ") + v.usernameInput.View() + "\n")
	b.WriteString(v.sty.FormLabel.Render("Password  ") + v.passwordInput.View() + "\n")
	if v.err != "" {
		b.WriteString("\n" + v.sty.StatusFail.Render(v.err) + "\n")
	}
	b.WriteString("\n" + v.sty.TableCellDim.Render("tab: next field   enter: log in"))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
