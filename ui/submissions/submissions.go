// Package submissions is the inbox view: the contact-form records fetched
// from the backend, a detail panel per record, and deletion with a
// confirmation gate. Fetching runs through an explicit phase machine with a
// bounded, classified auto-retry; every fetch cycle carries a generation tag
// so a result arriving for a superseded cycle is simply dropped.
package submissions

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/iatek/deptadmin/api"
	"github.com/iatek/deptadmin/domain"
	"github.com/iatek/deptadmin/ui/common"
)

type fetchPhase int

const (
	phaseIdle fetchPhase = iota
	phaseLoading
	phaseSuccess
	phaseRetryScheduled
	phaseFailed
)

var (
	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_LIGHTBLUE)).
			Bold(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_LIGHTBLUE)).
			Bold(true)

	emailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_PURPLE))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	detailStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(common.COLOR_MAGENTA)).
			Padding(1, 2)

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(common.COLOR_GREY))
)

type Model struct {
	Submissions []domain.Submission
	Cursor      int
	ShowDetail  bool
	Confirming  bool

	phase      fetchPhase
	errText    string
	notice     string
	attempt    int
	generation int

	client  *api.Client
	spinner spinner.Model
	width   int
	height  int
}

// submissionsLoadedMsg is sent when the list endpoint answered.
type submissionsLoadedMsg struct {
	generation  int
	submissions []domain.Submission
}

// fetchFailedMsg is sent when the list request failed for any reason.
type fetchFailedMsg struct {
	generation int
	err        error
}

// retryTickMsg fires after the fixed retry delay.
type retryTickMsg struct {
	generation int
	attempt    int
}

// deleteResultMsg is sent when the delete request completed.
type deleteResultMsg struct {
	err error
}

func InitialModel(client *api.Client, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(common.COLOR_MAGENTA))

	return Model{
		client:  client,
		spinner: sp,
		width:   width,
		height:  height,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Refresh starts a fresh fetch cycle. Advancing the generation makes any
// still in-flight result stale: last request wins.
func (m Model) Refresh() (Model, tea.Cmd) {
	m.generation++
	m.attempt = 0
	m.phase = phaseLoading
	m.errText = ""
	m.notice = ""
	m.Confirming = false
	return m, fetchCmd(m.client, m.generation)
}

func (m Model) Loading() bool {
	return m.phase == phaseLoading
}

func (m Model) StatusText() string {
	return m.errText
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		// Keep the spinner ticking for the lifetime of the view; it is only
		// rendered while a fetch is in flight
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case submissionsLoadedMsg:
		if msg.generation != m.generation {
			// A superseded fetch resolved, drop it
			return m, nil
		}
		m.phase = phaseSuccess
		m.Submissions = msg.submissions
		m.errText = ""
		if m.Cursor >= len(m.Submissions) {
			m.Cursor = 0
		}
		return m, nil

	case fetchFailedMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		return m.handleFetchFailure(msg.err)

	case retryTickMsg:
		if msg.generation != m.generation || m.phase != phaseRetryScheduled {
			return m, nil
		}
		m.phase = phaseLoading
		m.attempt = msg.attempt
		return m, fetchCmd(m.client, m.generation)

	case deleteResultMsg:
		if msg.err != nil {
			m.notice = "Delete failed: " + msg.err.Error()
			return m, nil
		}
		// Resynchronize the list after a successful delete
		return m.Refresh()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleFetchFailure classifies the error and either schedules exactly one
// retry after the fixed delay or settles into a terminal failure. The view
// leaves the loading state either way; a retry is a fresh fetch cycle.
func (m Model) handleFetchFailure(err error) (Model, tea.Cmd) {
	class := api.Classify(err)

	if class.Retryable() && m.attempt < class.MaxRetries() {
		next := m.attempt + 1
		m.phase = phaseRetryScheduled
		m.errText = fmt.Sprintf("%s Retrying in %d seconds (attempt %d of %d)...",
			class.Describe(), int(api.RetryDelay.Seconds()), next, class.MaxRetries())
		return m, retryAfter(m.generation, next)
	}

	m.phase = phaseFailed
	m.errText = class.Describe()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// The confirmation gate swallows everything except yes/no
	if m.Confirming {
		switch msg.String() {
		case "y", "Y":
			m.Confirming = false
			if m.Cursor < len(m.Submissions) {
				id := m.Submissions[m.Cursor].Id
				return m, deleteCmd(m.client, id)
			}
			return m, nil
		case "n", "N", "esc":
			m.Confirming = false
			m.notice = "Deletion cancelled"
			return m, nil
		}
		return m, nil
	}

	if m.ShowDetail {
		switch msg.String() {
		case "esc", "q", "enter":
			m.ShowDetail = false
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if len(m.Submissions) > 0 && m.Cursor < len(m.Submissions)-1 {
			m.Cursor++
		}
	case "enter":
		if m.Cursor < len(m.Submissions) {
			m.ShowDetail = true
		}
	case "d":
		if m.Cursor < len(m.Submissions) {
			m.Confirming = true
			m.notice = ""
		}
	case "r":
		return m.Refresh()
	}

	return m, nil
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(common.CaptionStyle.Render(fmt.Sprintf("departements (%d)", len(m.Submissions))))
	s.WriteString("\n\n")

	switch m.phase {
	case phaseLoading:
		s.WriteString(m.spinner.View())
		s.WriteString(" Loading submissions...")
		return s.String()

	case phaseRetryScheduled:
		s.WriteString(common.NoticeStyle.Render(m.errText))
		return s.String()

	case phaseFailed:
		s.WriteString(common.ErrorStyle.Render(m.errText))
		s.WriteString("\n\n")
		s.WriteString(common.HelpStyle.Render("press 'r' to try again"))
		return s.String()
	}

	if m.ShowDetail && m.Cursor < len(m.Submissions) {
		s.WriteString(m.detailView(m.Submissions[m.Cursor]))
		return s.String()
	}

	if m.Confirming && m.Cursor < len(m.Submissions) {
		sub := m.Submissions[m.Cursor]
		s.WriteString(common.ErrorStyle.Render("Delete the submission from " + sub.FullName() + "?"))
		s.WriteString("\n\n")
		s.WriteString(common.HelpStyle.Render("press 'y' to delete or 'n'/'esc' to cancel"))
		return s.String()
	}

	if len(m.Submissions) == 0 {
		s.WriteString(emptyStyle.Render("No submissions found."))
	} else {
		itemsPerPage := 10
		start := m.Cursor
		end := start + itemsPerPage
		if end > len(m.Submissions) {
			end = len(m.Submissions)
		}

		for i := start; i < end; i++ {
			sub := m.Submissions[i]

			marker := "  "
			if i == m.Cursor {
				marker = cursorStyle.Render("> ")
			}

			line := fmt.Sprintf("%s%s  %s  %s  %s",
				marker,
				nameStyle.Render(padRight(sub.FullName(), 24)),
				emailStyle.Render(padRight(sub.Email, 28)),
				common.ServiceStyle(sub.Service).Render(sub.Service),
				truncate(sub.Message, 40),
			)
			s.WriteString(line)
			s.WriteString("\n")
		}
	}

	if m.notice != "" {
		s.WriteString("\n")
		s.WriteString(common.NoticeStyle.Render(m.notice))
	}

	s.WriteString("\n\n")
	s.WriteString(totalStyle.Render(fmt.Sprintf("Total: %d departement(s)", len(m.Submissions))))

	return s.String()
}

func (m Model) detailView(sub domain.Submission) string {
	var b strings.Builder

	b.WriteString(nameStyle.Render(sub.FullName()))
	b.WriteString("\n\n")
	b.WriteString("Email:   " + sub.Email + "\n")

	phone := sub.Phone
	if phone == "" {
		phone = "-"
	}
	b.WriteString("Phone:   " + phone + "\n")
	b.WriteString("Service: " + common.ServiceStyle(sub.Service).Render(sub.Service) + "\n\n")
	b.WriteString(sub.Message)
	b.WriteString("\n\n")
	b.WriteString(common.HelpStyle.Render("esc: back to list"))

	width := m.width - 10
	if width < 40 {
		width = 40
	}

	return detailStyle.MaxWidth(width).Render(b.String())
}

func retryAfter(generation, attempt int) tea.Cmd {
	return tea.Tick(api.RetryDelay, func(time.Time) tea.Msg {
		return retryTickMsg{generation: generation, attempt: attempt}
	})
}

func fetchCmd(client *api.Client, generation int) tea.Cmd {
	return func() tea.Msg {
		subs, err := client.ListSubmissions()
		if err != nil {
			return fetchFailedMsg{generation: generation, err: err}
		}
		return submissionsLoadedMsg{generation: generation, submissions: subs}
	}
}

func deleteCmd(client *api.Client, id string) tea.Cmd {
	return func() tea.Msg {
		return deleteResultMsg{err: client.DeleteSubmission(id)}
	}
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-1]) + "…"
}

func padRight(text string, width int) string {
	runes := []rune(text)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return text + strings.Repeat(" ", width-len(runes))
}
