package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/pvctl/internal/pvctl"
)

type checksDoneMsg struct {
	results []pvctl.CheckResult
	repoErr error
}

type preflightModel struct {
	state   *wizardState
	spinner spinner.Model
	running bool
	results []pvctl.CheckResult
	repoErr error
	hasWarn bool
	hasFail bool
	cursor  int // 0=Continue, 1=Cancel
}

func newPreflightModel(state *wizardState) *preflightModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &preflightModel{
		state:   state,
		spinner: sp,
	}
}

func (m *preflightModel) Init() tea.Cmd {
	m.running = true
	m.results = nil
	m.repoErr = nil
	m.hasWarn = false
	m.hasFail = false
	m.cursor = 0
	return tea.Batch(m.spinner.Tick, m.runChecks())
}

func (m *preflightModel) runChecks() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := pvctl.EnsureRepo(ctx); err != nil {
			return checksDoneMsg{repoErr: err}
		}
		return checksDoneMsg{results: pvctl.RunPreChecks(ctx)}
	}
}

func (m *preflightModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case checksDoneMsg:
		m.running = false
		m.results = msg.results
		m.repoErr = msg.repoErr
		for _, r := range m.results {
			switch r.Status {
			case pvctl.StatusWarn:
				m.hasWarn = true
			case pvctl.StatusFail:
				m.hasFail = true
			}
		}
		if m.repoErr == nil && !m.hasWarn && !m.hasFail {
			return m, func() tea.Msg { return navigateMsg{to: screenTypeSelect} }
		}
		return m, nil

	case tea.KeyMsg:
		if m.running {
			return m, nil
		}
		// Failures block the install; warnings are the operator's call.
		if m.repoErr != nil || m.hasFail {
			if isEnter(msg) || isEsc(msg) {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.hasWarn {
			if isLeft(msg) && m.cursor > 0 {
				m.cursor--
			}
			if isRight(msg) && m.cursor < 1 {
				m.cursor++
			}
			if isEnter(msg) {
				if m.cursor == 0 {
					return m, func() tea.Msg { return navigateMsg{to: screenTypeSelect} }
				}
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *preflightModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Pre-flight Checks"))
	b.WriteString("\n\n")

	if m.running {
		b.WriteString(fmt.Sprintf("  %s Fetching the deployment checkout and probing the host...\n", m.spinner.View()))
		return b.String()
	}

	if m.repoErr != nil {
		b.WriteString(errorStyle.Render("  Could not prepare the deployment checkout"))
		b.WriteString("\n  " + mutedStyle.Render(m.repoErr.Error()))
		b.WriteString(helpStyle.Render("\n\n  press enter or esc to exit"))
		return b.String()
	}

	for _, r := range m.results {
		switch r.Status {
		case pvctl.StatusPass:
			b.WriteString(fmt.Sprintf("  %s %s\n", successStyle.Render("OK"), normalStyle.Render(r.Name)))
		case pvctl.StatusWarn:
			b.WriteString(fmt.Sprintf("  %s %s: %s\n",
				warningStyle.Render("!!"),
				normalStyle.Render(r.Name),
				mutedStyle.Render(r.Detail)))
		case pvctl.StatusFail:
			b.WriteString(fmt.Sprintf("  %s %s: %s\n",
				errorStyle.Render("XX"),
				normalStyle.Render(r.Name),
				mutedStyle.Render(r.Detail)))
		}
	}

	if m.hasFail {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  Fix the failed checks and run setup again."))
		b.WriteString(helpStyle.Render("\n\n  press enter or esc to exit"))
		return b.String()
	}

	if m.hasWarn {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("  Some checks have warnings. Continue anyway?"))
		b.WriteString("\n\n")

		buttons := []string{"Continue", "Cancel"}
		for i, btn := range buttons {
			if i == m.cursor {
				b.WriteString("  " + borderStyle.Render(selectedStyle.Render(btn)))
			} else {
				b.WriteString("  " + normalStyle.Render("["+btn+"]"))
			}
			b.WriteString("  ")
		}
		b.WriteString(helpStyle.Render("\n\n  left/right: navigate  enter: select"))
	}

	return b.String()
}
