package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type oidcModel struct {
	state   *wizardState
	id      textinput.Model
	secret  textinput.Model
	focused int // 0=id, 1=secret
	errMsg  string
}

func newOIDCModel(state *wizardState) *oidcModel {
	id := textinput.New()
	id.Placeholder = "application ID"
	id.CharLimit = 128
	id.Width = 48

	secret := textinput.New()
	secret.Placeholder = "application secret"
	secret.CharLimit = 128
	secret.Width = 48
	secret.EchoMode = textinput.EchoPassword
	secret.EchoCharacter = '*'

	return &oidcModel{
		state:  state,
		id:     id,
		secret: secret,
	}
}

func (m *oidcModel) Init() tea.Cmd {
	if m.state.oidcID != "" {
		m.id.SetValue(m.state.oidcID)
	}
	if m.state.oidcSecret != "" {
		m.secret.SetValue(m.state.oidcSecret)
	}
	m.focused = 0
	m.id.Focus()
	m.secret.Blur()
	return textinput.Blink
}

func (m *oidcModel) focus(i int) tea.Cmd {
	m.focused = i
	if i == 0 {
		m.secret.Blur()
		return m.id.Focus()
	}
	m.id.Blur()
	return m.secret.Focus()
}

func (m *oidcModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenScopeInput} }
		}
		if isTab(msg) || msg.String() == "down" {
			return m, m.focus((m.focused + 1) % 2)
		}
		if msg.String() == "shift+tab" || msg.String() == "up" {
			return m, m.focus((m.focused + 1) % 2)
		}
		if isEnter(msg) {
			if m.focused == 0 {
				return m, m.focus(1)
			}
			id := strings.TrimSpace(m.id.Value())
			secret := strings.TrimSpace(m.secret.Value())
			if id == "" || secret == "" {
				m.errMsg = "Both the application ID and secret are required"
				return m, nil
			}
			m.errMsg = ""
			m.state.oidcID = id
			m.state.oidcSecret = secret
			next := screenTLSSelect
			if m.state.local() {
				next = screenConfirm
			}
			return m, func() tea.Msg { return navigateMsg{to: next} }
		}
	}

	var cmd tea.Cmd
	if m.focused == 0 {
		m.id, cmd = m.id.Update(msg)
	} else {
		m.secret, cmd = m.secret.Update(msg)
	}
	return m, cmd
}

func (m *oidcModel) View() string {
	var b strings.Builder

	reg := m.state.config().OIDCRegistration()

	b.WriteString(titleStyle.Render("OIDC Application"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Register an application on your GitLab, then enter its credentials."))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("  Registration form"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Open:         %s\n", normalStyle.Render(reg.SettingsURL)))
	b.WriteString(fmt.Sprintf("  Name:         %s\n", normalStyle.Render(reg.AppName)))
	b.WriteString(fmt.Sprintf("  Redirect URI: %s\n", normalStyle.Render(reg.RedirectURI)))
	b.WriteString(fmt.Sprintf("  Confidential: %s\n", normalStyle.Render("yes")))
	b.WriteString(fmt.Sprintf("  Scopes:       %s\n", normalStyle.Render(reg.Scopes)))
	b.WriteString("\n")

	b.WriteString("  " + m.id.View())
	b.WriteString("\n")
	b.WriteString("  " + m.secret.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(helpStyle.Render("\n  tab: switch field  enter: confirm  esc: back"))
	return b.String()
}
