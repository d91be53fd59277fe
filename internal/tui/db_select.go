package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type dbOption struct {
	external bool
	label    string
	desc     string
}

type dbSelectModel struct {
	state   *wizardState
	cursor  int
	options []dbOption
}

func newDBSelectModel(state *wizardState) *dbSelectModel {
	return &dbSelectModel{
		state: state,
		options: []dbOption{
			{external: false, label: "internal", desc: "Bundled postgres container, zero configuration"},
			{external: true, label: "external", desc: "Existing postgres server you manage yourself"},
		},
	}
}

func (m *dbSelectModel) Init() tea.Cmd {
	if m.state.externalDB {
		m.cursor = 1
	}
	return nil
}

func (m *dbSelectModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenTLSSelect} }
		}
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < len(m.options)-1 {
			m.cursor++
		}
		if isEnter(msg) {
			m.state.externalDB = m.options[m.cursor].external
			next := screenConfirm
			if m.state.externalDB {
				next = screenDBForm
			}
			return m, func() tea.Msg { return navigateMsg{to: next} }
		}
	}
	return m, nil
}

func (m *dbSelectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Database"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Where should Peerview store its data?"))
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
