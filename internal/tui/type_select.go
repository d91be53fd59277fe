package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type typeOption struct {
	value string
	label string
	desc  string
}

type typeSelectModel struct {
	state   *wizardState
	cursor  int
	options []typeOption
}

func newTypeSelectModel(state *wizardState) *typeSelectModel {
	return &typeSelectModel{
		state: state,
		options: []typeOption{
			{value: "production", label: "production", desc: "Public domain with TLS, for real use"},
			{value: "local", label: "local", desc: "localhost without TLS, evaluation only"},
		},
	}
}

func (m *typeSelectModel) Init() tea.Cmd {
	for i, opt := range m.options {
		if opt.value == m.state.deployType {
			m.cursor = i
			break
		}
	}
	return nil
}

func (m *typeSelectModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenWelcome} }
		}
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < len(m.options)-1 {
			m.cursor++
		}
		if isEnter(msg) {
			m.state.deployType = m.options[m.cursor].value
			next := screenDomainInput
			if m.state.local() {
				next = screenUpstreamInput
			}
			return m, func() tea.Msg { return navigateMsg{to: next} }
		}
	}
	return m, nil
}

func (m *typeSelectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Deployment Type"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("How will this Peerview instance be reached?"))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		radio := radioOff
		label := normalStyle.Render(opt.label)
		if i == m.cursor {
			radio = radioOn
			label = selectedStyle.Render(opt.label)
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", radio, label))
		b.WriteString(fmt.Sprintf("      %s\n", mutedStyle.Render(opt.desc)))
	}

	b.WriteString(helpStyle.Render("\n  up/down: navigate  enter: select  esc: back"))
	return b.String()
}
