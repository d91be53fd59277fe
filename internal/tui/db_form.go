package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/pvctl/internal/pvctl"
)

const (
	dbFieldHost = iota
	dbFieldPort
	dbFieldUser
	dbFieldName
	dbFieldSSLMode
	dbFieldTimezone
	dbFieldPassword
	dbFieldCount
)

var dbFieldLabels = [dbFieldCount]string{
	"Host",
	"Port",
	"User",
	"Database",
	"SSL mode",
	"Timezone",
	"Password",
}

type dbFormModel struct {
	state   *wizardState
	inputs  [dbFieldCount]textinput.Model
	focused int
	errMsg  string
}

func newDBFormModel(state *wizardState) *dbFormModel {
	m := &dbFormModel{state: state}

	defaults := [dbFieldCount]string{
		dbFieldPort:     "5432",
		dbFieldUser:     "peerview",
		dbFieldName:     "peerview",
		dbFieldSSLMode:  "disable",
		dbFieldTimezone: pvctl.HostTimezone(),
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.CharLimit = 255
		ti.Width = 32
		ti.SetValue(defaults[i])
		m.inputs[i] = ti
	}
	m.inputs[dbFieldHost].Placeholder = "db.example.com"
	m.inputs[dbFieldPassword].EchoMode = textinput.EchoPassword
	m.inputs[dbFieldPassword].EchoCharacter = '*'

	return m
}

func (m *dbFormModel) Init() tea.Cmd {
	db := m.state.db
	restored := [dbFieldCount]string{
		dbFieldHost:     db.Host,
		dbFieldPort:     db.Port,
		dbFieldUser:     db.User,
		dbFieldName:     db.Name,
		dbFieldSSLMode:  db.SSLMode,
		dbFieldTimezone: db.Timezone,
		dbFieldPassword: db.Password,
	}
	for i, v := range restored {
		if v != "" {
			m.inputs[i].SetValue(v)
		}
	}
	return m.focus(dbFieldHost)
}

func (m *dbFormModel) focus(i int) tea.Cmd {
	m.focused = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return tea.Batch(cmd, textinput.Blink)
}

func (m *dbFormModel) submit() (screenModel, tea.Cmd) {
	host := strings.TrimSpace(m.inputs[dbFieldHost].Value())
	password := m.inputs[dbFieldPassword].Value()
	if host == "" {
		m.errMsg = "Host is required"
		return m, m.focus(dbFieldHost)
	}
	if password == "" {
		m.errMsg = "Password is required"
		return m, m.focus(dbFieldPassword)
	}

	m.errMsg = ""
	m.state.db = pvctl.ExternalDB{
		Host:     host,
		Port:     strings.TrimSpace(m.inputs[dbFieldPort].Value()),
		User:     strings.TrimSpace(m.inputs[dbFieldUser].Value()),
		Name:     strings.TrimSpace(m.inputs[dbFieldName].Value()),
		SSLMode:  strings.TrimSpace(m.inputs[dbFieldSSLMode].Value()),
		Timezone: strings.TrimSpace(m.inputs[dbFieldTimezone].Value()),
		Password: password,
	}
	return m, func() tea.Msg { return navigateMsg{to: screenConfirm} }
}

func (m *dbFormModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case isEsc(msg):
			return m, func() tea.Msg { return navigateMsg{to: screenDBSelect} }
		case isTab(msg) || msg.String() == "down":
			return m, m.focus((m.focused + 1) % dbFieldCount)
		case msg.String() == "shift+tab" || msg.String() == "up":
			return m, m.focus((m.focused + dbFieldCount - 1) % dbFieldCount)
		case isEnter(msg):
			if m.focused < dbFieldCount-1 {
				return m, m.focus(m.focused + 1)
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *dbFormModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("External Database"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Connection details for your postgres server."))
	b.WriteString("\n\n")

	for i := range m.inputs {
		label := mutedStyle.Render(fmt.Sprintf("%-10s", dbFieldLabels[i]))
		if i == m.focused {
			label = selectedStyle.Render(fmt.Sprintf("%-10s", dbFieldLabels[i]))
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", label, m.inputs[i].View()))
	}

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(helpStyle.Render("\n  tab: next field  enter: confirm  esc: back"))
	return b.String()
}
