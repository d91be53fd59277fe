package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type confirmModel struct {
	state  *wizardState
	cursor int
}

func newConfirmModel(state *wizardState) *confirmModel {
	return &confirmModel{state: state}
}

func (m *confirmModel) Init() tea.Cmd {
	m.cursor = 0
	return nil
}

func (m *confirmModel) back() screen {
	switch {
	case m.state.local():
		return screenOIDC
	case m.state.externalDB:
		return screenDBForm
	default:
		return screenDBSelect
	}
}

func (m *confirmModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: m.back()} }
		}
		if (isLeft(msg) || isUp(msg)) && m.cursor > 0 {
			m.cursor--
		}
		if (isRight(msg) || isDown(msg)) && m.cursor < 2 {
			m.cursor++
		}
		if isEnter(msg) {
			switch m.cursor {
			case 0: // Confirm
				return m, func() tea.Msg { return navigateMsg{to: screenProgress} }
			case 1: // Back
				return m, func() tea.Msg { return navigateMsg{to: m.back()} }
			case 2: // Cancel
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *confirmModel) View() string {
	var b strings.Builder
	s := m.state

	b.WriteString(titleStyle.Render("Confirm Setup"))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("  Summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Deployment:   %s\n", selectedStyle.Render(s.deployType)))
	if !s.local() {
		b.WriteString(fmt.Sprintf("  Domain:       %s\n", selectedStyle.Render(s.domain)))
	}
	b.WriteString(fmt.Sprintf("  GitLab:       %s\n", selectedStyle.Render(s.gitlabURL)))
	if s.gitlabGroup != "" {
		b.WriteString(fmt.Sprintf("  Group:        %s\n", selectedStyle.Render(s.gitlabGroup)))
	} else {
		b.WriteString(fmt.Sprintf("  Group:        %s\n", mutedStyle.Render("(all users)")))
	}
	b.WriteString(fmt.Sprintf("  OIDC app:     %s\n", selectedStyle.Render(s.oidcID)))
	if !s.local() {
		b.WriteString(fmt.Sprintf("  Profile:      %s\n", selectedStyle.Render(s.config().Profile())))
		if s.externalDB {
			b.WriteString(fmt.Sprintf("  Database:     %s\n", selectedStyle.Render(s.db.Host+":"+s.db.Port+"/"+s.db.Name)))
		} else {
			b.WriteString(fmt.Sprintf("  Database:     %s\n", selectedStyle.Render("internal")))
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  Secrets are generated and written on confirm. The same flow is"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  available non-interactively via: $ pvctl install"))
	b.WriteString("\n\n")

	buttons := []string{"Confirm", "Back", "Cancel"}
	for i, btn := range buttons {
		if i == m.cursor {
			b.WriteString("  " + borderStyle.Render(selectedStyle.Render(btn)))
		} else {
			b.WriteString("  " + normalStyle.Render("["+btn+"]"))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("\n  left/right: navigate  enter: select  esc: back"))
	return b.String()
}
