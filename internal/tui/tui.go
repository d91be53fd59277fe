package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/pvctl/internal/pvctl"
)

type screen int

const (
	screenWelcome screen = iota
	screenPreflight
	screenTypeSelect
	screenDomainInput
	screenUpstreamInput
	screenScopeInput
	screenOIDC
	screenTLSSelect
	screenDBSelect
	screenDBForm
	screenConfirm
	screenProgress
	screenComplete
	screenHelp
)

type navigateMsg struct {
	to screen
}

// wizardState accumulates answers across screens. The progress screen
// assembles the final Config from it once the operator confirms.
type wizardState struct {
	deployType  string
	domain      string
	gitlabURL   string
	gitlabGroup string

	oidcID     string
	oidcSecret string

	certMethod string
	externalDB bool
	db         pvctl.ExternalDB

	cfg         pvctl.Config
	postResults []pvctl.CheckResult
	caWarning   string
}

func (s *wizardState) local() bool {
	return s.deployType == "local"
}

func (s *wizardState) config() pvctl.Config {
	cfg := pvctl.Config{
		DeployType:       s.deployType,
		Domain:           s.domain,
		GitLabURL:        s.gitlabURL,
		GitLabGroup:      s.gitlabGroup,
		OIDCClientID:     s.oidcID,
		OIDCClientSecret: s.oidcSecret,
		CertMethod:       s.certMethod,
		ExternalDB:       s.externalDB,
	}
	if s.externalDB {
		cfg.DB = s.db
	}
	return cfg
}

type screenModel interface {
	Init() tea.Cmd
	Update(tea.Msg) (screenModel, tea.Cmd)
	View() string
}

type rootModel struct {
	current  screen
	previous screen
	state    *wizardState
	screens  map[screen]screenModel
	width    int
	height   int
	quitting bool
}

// StartWizard runs the full-screen setup flow: preflight, guided
// configuration, secret generation, file render, post-checks, launch.
func StartWizard() error {
	state := &wizardState{}
	screens := map[screen]screenModel{
		screenWelcome:       newWelcomeModel(),
		screenPreflight:     newPreflightModel(state),
		screenTypeSelect:    newTypeSelectModel(state),
		screenDomainInput:   newDomainInputModel(state),
		screenUpstreamInput: newUpstreamInputModel(state),
		screenScopeInput:    newScopeInputModel(state),
		screenOIDC:          newOIDCModel(state),
		screenTLSSelect:     newTLSSelectModel(state),
		screenDBSelect:      newDBSelectModel(state),
		screenDBForm:        newDBFormModel(state),
		screenConfirm:       newConfirmModel(state),
		screenProgress:      newProgressModel(state),
		screenComplete:      newCompleteModel(state),
		screenHelp:          newHelpModel(),
	}

	m := rootModel{
		current: screenWelcome,
		state:   state,
		screens: screens,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m rootModel) Init() tea.Cmd {
	return m.screens[m.current].Init()
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			return m, tea.Quit
		}
		// Help overlay accessible via '?' from any non-progress screen
		if msg.String() == "?" && m.current != screenProgress && m.current != screenHelp {
			m.previous = m.current
			m.current = screenHelp
			return m, m.screens[m.current].Init()
		}

	case navigateMsg:
		m.current = msg.to
		s := m.screens[m.current]
		return m, s.Init()

	case helpReturnMsg:
		m.current = m.previous
		return m, nil
	}

	s := m.screens[m.current]
	newScreen, cmd := s.Update(msg)
	m.screens[m.current] = newScreen
	return m, cmd
}

func (m rootModel) View() string {
	if m.quitting {
		return ""
	}

	s := m.screens[m.current]
	content := s.View()

	// Step indicator for the question screens only
	if m.current >= screenTypeSelect && m.current <= screenConfirm {
		step := int(m.current) - int(screenPreflight)
		total := int(screenConfirm) - int(screenPreflight)
		progress := mutedStyle.Render(fmt.Sprintf("Step %d of %d", step, total))
		content = content + "\n" + progress
	}

	return content
}
