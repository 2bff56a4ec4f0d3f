// Package ui wires the three views of the console together: the startup
// restore check, the login form, and the protected submissions inbox. View
// routing doubles as the route guard: the submissions view is only reachable
// once the session manager reports an authenticated session, and the restore
// check renders its own waiting state so protected content can never flash.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iatek/deptadmin/api"
	"github.com/iatek/deptadmin/auth"
	"github.com/iatek/deptadmin/ui/common"
	"github.com/iatek/deptadmin/ui/header"
	"github.com/iatek/deptadmin/ui/login"
	"github.com/iatek/deptadmin/ui/submissions"
	"github.com/iatek/deptadmin/util"
)

type MainModel struct {
	width  int
	height int
	state  common.SessionState

	manager *auth.Manager

	headerModel header.Model
	loginModel  login.Model
	subsModel   submissions.Model
	spinner     spinner.Model
}

func NewModel(conf *util.AppConfig, manager *auth.Manager, client *api.Client, width, height int) MainModel {
	width = common.DefaultWindowWidth(width) + 10
	if width < 40 {
		width = 40
	}
	if height < 10 {
		height = 24
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(common.COLOR_MAGENTA))

	return MainModel{
		state:       common.RestoringView,
		manager:     manager,
		headerModel: header.Model{Width: width, ApiHost: conf.Conf.ApiBaseUrl},
		loginModel:  login.InitialModel(manager),
		subsModel:   submissions.InitialModel(client, width, height),
		spinner:     sp,
		width:       width,
		height:      height,
	}
}

func restoreSessionCmd(manager *auth.Manager) tea.Cmd {
	return func() tea.Msg {
		return common.SessionRestoredMsg{Authenticated: manager.Restore()}
	}
}

func (m MainModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.subsModel.Init(), restoreSessionCmd(m.manager))
}

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.headerModel.Width = msg.Width
		return m, nil

	case common.SessionRestoredMsg:
		if msg.Authenticated {
			return m.enterSubmissionsView()
		}
		m.state = common.LoginView
		return m, m.loginModel.Init()

	case common.AuthSuccessMsg:
		return m.enterSubmissionsView()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+l":
			if m.state == common.SubmissionsView {
				m.manager.Logout()
				m.state = common.LoginView
				m.loginModel = login.InitialModel(m.manager)
				m.headerModel.User = nil
				return m, m.loginModel.Init()
			}
		}
	}

	// Route non-keyboard messages to all sub-models so fetch results and
	// spinner ticks reach their destination regardless of the active view.
	// A result for a view the admin already left is harmless: the
	// generation check in the submissions model drops anything stale.
	if _, isKeyMsg := msg.(tea.KeyMsg); !isKeyMsg {
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		m.subsModel, cmd = m.subsModel.Update(msg)
		cmds = append(cmds, cmd)
		m.loginModel, cmd = m.loginModel.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Keyboard input only reaches the active view
	if _, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case common.LoginView:
			m.loginModel, cmd = m.loginModel.Update(msg)
			cmds = append(cmds, cmd)
		case common.SubmissionsView:
			m.subsModel, cmd = m.subsModel.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m MainModel) enterSubmissionsView() (tea.Model, tea.Cmd) {
	m.state = common.SubmissionsView

	session := m.manager.Session()
	m.headerModel.User = session.User

	var cmd tea.Cmd
	m.subsModel, cmd = m.subsModel.Refresh()
	return m, cmd
}

func (m MainModel) View() string {
	switch m.state {
	case common.RestoringView:
		// Deliberately nothing but the spinner here: the protected view must
		// not render until the restore check has finished
		checking := fmt.Sprintf("%s Checking session...", m.spinner.View())
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, checking)

	case common.LoginView:
		return m.loginModel.ViewWithWidth(m.width, m.height)

	default:
		var s string
		s += m.headerModel.View() + "\n"
		s += m.subsModel.View() + "\n"
		s += common.HelpStyle.Render(
			"keys > ↑/↓: select • enter: detail • d: delete • r: refresh • ctrl+l: logout • ctrl+c: exit")
		return lipgloss.NewStyle().Render(s)
	}
}

func (m MainModel) State() common.SessionState {
	return m.state
}
