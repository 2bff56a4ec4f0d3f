package middleware

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/iatek/deptadmin/api"
	"github.com/iatek/deptadmin/auth"
	"github.com/iatek/deptadmin/ui"
	"github.com/iatek/deptadmin/util"
	"github.com/muesli/termenv"
	"log"
)

// MainTui serves the admin console over SSH. The SSH key only identifies the
// terminal; authentication against the backend still happens inside the TUI
// through the regular login flow, and each session gets its own manager so
// concurrent admins never share a token.
func MainTui(conf *util.AppConfig) wish.Middleware {
	teaHandler := func(s ssh.Session) *tea.Program {

		pty, _, active := s.Pty()
		if !active {
			wish.Println(s, "no active terminal, skipping")
			return nil
		}

		store, err := auth.DefaultTokenStore()
		if err != nil {
			log.Println("Could not open the token store:", err)
			return nil
		}

		client := api.NewClientFromConf(conf)
		manager := auth.NewManager(client, store)

		m := ui.NewModel(conf, manager, client, pty.Window.Width, pty.Window.Height)
		return tea.NewProgram(m, tea.WithInput(s), tea.WithOutput(s), tea.WithAltScreen())
	}
	return bm.MiddlewareWithProgramHandler(teaHandler, termenv.ANSI256)
}
