package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/pvctl/internal/pvctl"
)

type launchDoneMsg struct {
	err error
}

type completeModel struct {
	state     *wizardState
	spinner   spinner.Model
	cursor    int // 0=Launch Now, 1=Exit
	launching bool
	launched  bool
	launchErr error
}

func newCompleteModel(state *wizardState) *completeModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &completeModel{state: state, spinner: sp}
}

func (m *completeModel) Init() tea.Cmd {
	m.cursor = 0
	m.launching = false
	m.launched = false
	m.launchErr = nil
	return nil
}

func (m *completeModel) launch() tea.Cmd {
	return func() tea.Msg {
		return launchDoneMsg{err: pvctl.LaunchStack(context.Background())}
	}
}

func (m *completeModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case launchDoneMsg:
		m.launching = false
		m.launched = true
		m.launchErr = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.launching {
			return m, nil
		}
		if m.launched {
			if isEnter(msg) || isEsc(msg) || msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}
		if isLeft(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isRight(msg) && m.cursor < 1 {
			m.cursor++
		}
		if isEnter(msg) {
			if m.cursor == 0 {
				m.launching = true
				return m, tea.Batch(m.spinner.Tick, m.launch())
			}
			return m, tea.Quit
		}
		if msg.String() == "q" || isEsc(msg) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *completeModel) url() string {
	if m.state.local() {
		return "http://localhost:8080"
	}
	return "https://" + m.state.domain
}

func (m *completeModel) View() string {
	var b strings.Builder

	b.WriteString(successStyle.Render("  Setup Complete!"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  Configuration: %s\n", normalStyle.Render(pvctl.EnvFileName)))
	b.WriteString(fmt.Sprintf("  URL:           %s\n", selectedStyle.Render(m.url())))
	b.WriteString(fmt.Sprintf("  Versions:      %s\n",
		normalStyle.Render("frontend "+m.state.cfg.FrontendTag+", backend "+m.state.cfg.BackendTag)))

	if m.state.caWarning != "" {
		b.WriteString("\n  " + warningStyle.Render("custom CA override: "+m.state.caWarning) + "\n")
	}

	failed := pvctl.FailCount(m.state.postResults)
	if failed > 0 || hasWarnResults(m.state.postResults) {
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("  Post-install Checks"))
		b.WriteString("\n")
		for _, r := range m.state.postResults {
			switch r.Status {
			case pvctl.StatusWarn:
				b.WriteString(fmt.Sprintf("  %s %s: %s\n",
					warningStyle.Render("!!"), normalStyle.Render(r.Name), mutedStyle.Render(r.Detail)))
			case pvctl.StatusFail:
				b.WriteString(fmt.Sprintf("  %s %s: %s\n",
					errorStyle.Render("XX"), normalStyle.Render(r.Name), mutedStyle.Render(r.Detail)))
			}
		}
		if failed > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("\n  Fix %s and re-run: $ pvctl preflight --post\n", pvctl.EnvFileName)))
		}
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("  Next Steps"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  $ pvctl status              # stack state"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  $ pvctl preflight --post    # re-verify configuration"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  $ pvctl update              # pull the next release"))
	b.WriteString("\n\n")

	switch {
	case m.launching:
		b.WriteString(fmt.Sprintf("  %s Launching the stack...\n", m.spinner.View()))
	case m.launched && m.launchErr != nil:
		b.WriteString(errorStyle.Render("  Launch failed: " + m.launchErr.Error()))
		b.WriteString("\n  " + mutedStyle.Render("launch manually with: $ "+pvctl.LaunchCommand))
		b.WriteString(helpStyle.Render("\n\n  press enter to exit"))
	case m.launched:
		b.WriteString(successStyle.Render("  Stack launched."))
		b.WriteString("\n  " + mutedStyle.Render("Peerview is coming up at "+m.url()))
		b.WriteString(helpStyle.Render("\n\n  press enter to exit"))
	default:
		buttons := []string{"Launch Now", "Exit"}
		for i, btn := range buttons {
			if i == m.cursor {
				b.WriteString("  " + borderStyle.Render(selectedStyle.Render(btn)))
			} else {
				b.WriteString("  " + normalStyle.Render("["+btn+"]"))
			}
			b.WriteString("  ")
		}
		b.WriteString(helpStyle.Render("\n\n  left/right: navigate  enter: select  q: quit"))
	}

	return b.String()
}

func hasWarnResults(results []pvctl.CheckResult) bool {
	for _, r := range results {
		if r.Status == pvctl.StatusWarn {
			return true
		}
	}
	return false
}
