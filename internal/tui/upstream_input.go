package tui

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type upstreamInputModel struct {
	state  *wizardState
	input  textinput.Model
	errMsg string
}

func newUpstreamInputModel(state *wizardState) *upstreamInputModel {
	ti := textinput.New()
	ti.Placeholder = "https://gitlab.example.com"
	ti.CharLimit = 2048
	ti.Width = 40

	return &upstreamInputModel{
		state: state,
		input: ti,
	}
}

func (m *upstreamInputModel) Init() tea.Cmd {
	if m.state.gitlabURL != "" {
		m.input.SetValue(m.state.gitlabURL)
	}
	m.input.Focus()
	return textinput.Blink
}

func (m *upstreamInputModel) back() screen {
	if m.state.local() {
		return screenTypeSelect
	}
	return screenDomainInput
}

func (m *upstreamInputModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: m.back()} }
		}
		if isEnter(msg) {
			val := strings.TrimSpace(m.input.Value())
			u, err := url.Parse(val)
			if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
				m.errMsg = "Enter a full URL, e.g. https://gitlab.example.com"
				return m, nil
			}
			m.errMsg = ""
			m.state.gitlabURL = strings.TrimRight(val, "/")
			return m, func() tea.Msg { return navigateMsg{to: screenScopeInput} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *upstreamInputModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("GitLab URL"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Peerview authenticates users against this GitLab instance."))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(helpStyle.Render("\n  enter: confirm  esc: back"))
	return b.String()
}
