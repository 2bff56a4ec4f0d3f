package header

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iatek/deptadmin/domain"
	"github.com/iatek/deptadmin/ui/common"
	"github.com/iatek/deptadmin/util"
)

type Model struct {
	Width   int
	User    *domain.User
	ApiHost string
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) View() string {
	return GetHeaderStyle(m.User, m.ApiHost, m.Width)
}

func GetHeaderStyle(user *domain.User, apiHost string, width int) string {
	// Each styled box adds 4 chars to the content width (padding + border),
	// three boxes in total
	overhead := 12
	availableWidth := width - overhead

	if availableWidth < 40 {
		availableWidth = 40
	}

	adminWidth := availableWidth / 3
	versionWidth := availableWidth / 3
	hostWidth := availableWidth - adminWidth - versionWidth

	identity := "not signed in"
	if user != nil {
		if user.Email != "" {
			identity = user.Email
		} else if user.Username != "" {
			identity = user.Username
		} else {
			identity = "admin #" + string(user.Id)
		}
	}

	admin := lipgloss.
		NewStyle().
		SetString(identity).
		Align(lipgloss.Left).
		Background(lipgloss.Color(common.COLOR_PURPLE)).
		Padding(1).
		Height(2).
		Width(adminWidth).
		Border(lipgloss.NormalBorder(), true, false, true, false).
		BorderForeground(lipgloss.Color(common.COLOR_MAGENTA)).
		String()

	version := lipgloss.
		NewStyle().
		SetString(util.GetNameAndVersion()).
		Width(versionWidth).
		Height(2).
		Background(lipgloss.Color(common.COLOR_GREY)).
		Padding(1).
		Border(lipgloss.NormalBorder(), true, false, true, false).
		BorderForeground(lipgloss.Color(common.COLOR_MAGENTA)).
		String()

	host := lipgloss.
		NewStyle().
		SetString("api: "+apiHost).
		Background(lipgloss.Color(common.COLOR_MAGENTA)).
		Padding(1).
		Align(lipgloss.Left).
		Height(2).
		Width(hostWidth).
		Border(lipgloss.NormalBorder(), true, false, true, false).
		BorderForeground(lipgloss.Color(common.COLOR_MAGENTA)).
		String()

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		admin,
		version,
		host,
	)
}
