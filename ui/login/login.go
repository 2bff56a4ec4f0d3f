package login

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iatek/deptadmin/auth"
	"github.com/iatek/deptadmin/ui/common"
	"github.com/iatek/deptadmin/util"
)

var (
	Style = lipgloss.NewStyle().Height(25).Width(80).
		Align(lipgloss.Center, lipgloss.Center).
		BorderStyle(lipgloss.ThickBorder()).
		Margin(0, 3)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_GREY)).
			Italic(true)
)

type Model struct {
	Email       textinput.Model
	Password    textinput.Model
	Username    textinput.Model
	Registering bool
	Step        int // 0=username (register only), 1=email, 2=password
	Submitting  bool
	ErrText     string

	manager *auth.Manager
}

// resultMsg carries the outcome of a login or register attempt.
type resultMsg struct {
	result auth.Result
}

func InitialModel(manager *auth.Manager) Model {
	email := textinput.New()
	email.Placeholder = "admin@iatek.com"
	email.CharLimit = 100
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 100
	password.Width = 40

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 50
	username.Width = 40

	return Model{
		Email:    email,
		Password: password,
		Username: username,
		Step:     1,
		manager:  manager,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case resultMsg:
		m.Submitting = false
		if msg.result.OK {
			return m, func() tea.Msg { return common.AuthSuccessMsg{} }
		}
		m.ErrText = msg.result.Message
		return m, nil

	case tea.KeyMsg:
		if m.Submitting {
			return m, nil
		}

		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			if msg.String() == "shift+tab" || msg.String() == "up" {
				m = m.focusStep(m.prevStep())
			} else {
				m = m.focusStep(m.nextStep())
			}
			return m, nil

		case "ctrl+r":
			m.Registering = !m.Registering
			m.ErrText = ""
			if m.Registering {
				m = m.focusStep(0)
			} else {
				m = m.focusStep(1)
			}
			return m, nil

		case "enter":
			if m.Step < 2 {
				m = m.focusStep(m.nextStep())
				return m, nil
			}
			return m.submit()
		}
	}

	switch m.Step {
	case 0:
		m.Username, cmd = m.Username.Update(msg)
	case 1:
		m.Email, cmd = m.Email.Update(msg)
	case 2:
		m.Password, cmd = m.Password.Update(msg)
	}

	return m, cmd
}

// submit validates locally first: missing fields never reach the network.
func (m Model) submit() (Model, tea.Cmd) {
	if m.Email.Value() == "" || m.Password.Value() == "" ||
		(m.Registering && m.Username.Value() == "") {
		m.ErrText = "Please fill in all fields"
		return m, nil
	}

	m.ErrText = ""
	m.Submitting = true

	manager := m.manager
	if m.Registering {
		username, email, password := m.Username.Value(), m.Email.Value(), m.Password.Value()
		return m, func() tea.Msg {
			return resultMsg{result: manager.Register(username, email, password)}
		}
	}

	email, password := m.Email.Value(), m.Password.Value()
	return m, func() tea.Msg {
		return resultMsg{result: manager.Login(email, password)}
	}
}

func (m Model) nextStep() int {
	first := 1
	if m.Registering {
		first = 0
	}
	if m.Step >= 2 {
		return first
	}
	if m.Step == 0 {
		return 1
	}
	return 2
}

func (m Model) prevStep() int {
	first := 1
	if m.Registering {
		first = 0
	}
	if m.Step <= first {
		return 2
	}
	return m.Step - 1
}

func (m Model) focusStep(step int) Model {
	m.Step = step
	m.Username.Blur()
	m.Email.Blur()
	m.Password.Blur()

	switch step {
	case 0:
		m.Username.Focus()
	case 1:
		m.Email.Focus()
	case 2:
		m.Password.Focus()
	}
	return m
}

func (m Model) View() string {
	title := "Admin IATEK"
	action := "Sign in"
	if m.Registering {
		action = "Create account"
	}

	var fields string
	if m.Registering {
		fields = fmt.Sprintf("Username\n%s\n\nEmail\n%s\n\nPassword\n%s",
			m.Username.View(), m.Email.View(), m.Password.View())
	} else {
		fields = fmt.Sprintf("Email\n%s\n\nPassword\n%s",
			m.Email.View(), m.Password.View())
	}

	status := ""
	if m.Submitting {
		status = "Signing in..."
	} else if m.ErrText != "" {
		status = common.ErrorStyle.Render(m.ErrText)
	}

	help := "enter: next/submit • tab: switch field • ctrl+r: toggle register • ctrl+c: quit"

	return fmt.Sprintf(
		"%s v%s\n\n%s\n\n%s\n\n%s\n\n%s\n\n%s",
		title,
		util.GetVersion(),
		action,
		fields,
		status,
		common.HelpStyle.Render(help),
		footerStyle.Render("Administrators only"),
	)
}

// ViewWithWidth renders the bordered login box centered in the terminal.
func (m Model) ViewWithWidth(termWidth, termHeight int) string {
	contentWidth := termWidth - 8
	if contentWidth < 40 {
		contentWidth = 40
	}

	bordered := Style.Width(contentWidth).Render(m.View())
	return lipgloss.Place(termWidth, termHeight, lipgloss.Center, lipgloss.Center, bordered)
}
