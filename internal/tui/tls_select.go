package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/pvctl/internal/pvctl"
)

type tlsOption struct {
	value string
	label string
	desc  string
}

type tlsSelectModel struct {
	state   *wizardState
	cursor  int
	options []tlsOption
}

func newTLSSelectModel(state *wizardState) *tlsSelectModel {
	return &tlsSelectModel{
		state: state,
		options: []tlsOption{
			{value: pvctl.ProfileLetsEncrypt, label: "Let's Encrypt", desc: "Automatic certificates, needs ports 80/443 reachable"},
			{value: pvctl.ProfileCustomCerts, label: "Custom certificates", desc: "Bring your own certificate and key"},
		},
	}
}

func (m *tlsSelectModel) Init() tea.Cmd {
	for i, opt := range m.options {
		if opt.value == m.state.certMethod {
			m.cursor = i
			break
		}
	}
	return nil
}

func (m *tlsSelectModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenOIDC} }
		}
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < len(m.options)-1 {
			m.cursor++
		}
		if isEnter(msg) {
			m.state.certMethod = m.options[m.cursor].value
			return m, func() tea.Msg { return navigateMsg{to: screenDBSelect} }
		}
	}
	return m, nil
}

func (m *tlsSelectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("TLS Method"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("How should certificates be provisioned?"))
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

	// Show file status when custom certificates are highlighted
	if m.options[m.cursor].value == pvctl.ProfileCustomCerts {
		b.WriteString("\n")
		for _, rel := range pvctl.CertFilePaths() {
			if _, err := os.Stat(rel); err == nil {
				b.WriteString(fmt.Sprintf("  %s %s\n", successStyle.Render("OK"), mutedStyle.Render(rel)))
			} else {
				b.WriteString(fmt.Sprintf("  %s %s\n", warningStyle.Render("!!"), mutedStyle.Render(rel+" (place it before launch)")))
			}
		}
		if n := pvctl.CountCustomCACerts("."); n > 0 {
			b.WriteString(fmt.Sprintf("  %s\n", mutedStyle.Render(fmt.Sprintf("%d custom CA bundle(s) in %s", n, pvctl.CustomCADir()))))
		}
	}

	b.WriteString(helpStyle.Render("\n  up/down: navigate  enter: select  esc: back"))
	return b.String()
}
