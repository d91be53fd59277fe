package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type scopeInputModel struct {
	state *wizardState
	input textinput.Model
}

func newScopeInputModel(state *wizardState) *scopeInputModel {
	ti := textinput.New()
	ti.Placeholder = "(all users)"
	ti.CharLimit = 255
	ti.Width = 40

	return &scopeInputModel{
		state: state,
		input: ti,
	}
}

func (m *scopeInputModel) Init() tea.Cmd {
	if m.state.gitlabGroup != "" {
		m.input.SetValue(m.state.gitlabGroup)
	}
	m.input.Focus()
	return textinput.Blink
}

func (m *scopeInputModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenUpstreamInput} }
		}
		if isEnter(msg) {
			m.state.gitlabGroup = strings.TrimSpace(m.input.Value())
			return m, func() tea.Msg { return navigateMsg{to: screenOIDC} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *scopeInputModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("GitLab Group"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Limit sign-in to one group, or leave empty to allow every user."))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("\n  enter: confirm (empty is fine)  esc: back"))
	return b.String()
}
