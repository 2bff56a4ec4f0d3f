package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/logging"
	"github.com/iatek/deptadmin/api"
	"github.com/iatek/deptadmin/auth"
	"github.com/iatek/deptadmin/db"
	"github.com/iatek/deptadmin/middleware"
	"github.com/iatek/deptadmin/ui"
	"github.com/iatek/deptadmin/util"
	"github.com/iatek/deptadmin/web"
)

func main() {

	conf, err := util.ReadConf()
	if err != nil {
		log.Fatalln(err)
	}

	mode := "tui"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "tui":
		runLocalTui(conf)
	case "serve":
		runSshServer(conf)
	case "api":
		runApiServer(conf)
	case "version":
		fmt.Println(util.GetNameAndVersion())
	default:
		fmt.Printf("Unknown mode %q, expected tui, serve, api or version\n", mode)
		os.Exit(1)
	}
}

// runLocalTui starts the admin console in the current terminal.
func runLocalTui(conf *util.AppConfig) {
	store, err := auth.DefaultTokenStore()
	if err != nil {
		log.Fatalln("Could not open the token store:", err)
	}

	client := api.NewClientFromConf(conf)
	manager := auth.NewManager(client, store)

	// The real size arrives with the first WindowSizeMsg
	m := ui.NewModel(conf, manager, client, 80, 24)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalln(err)
	}
}

// runSshServer serves the same console over SSH, one program per session.
func runSshServer(conf *util.AppConfig) {
	fmt.Println("Configuration: ")
	fmt.Println(util.PrettyPrint(conf))

	s, err := wish.NewServer(
		wish.WithAddress(fmt.Sprintf("%s:%d", conf.Conf.Host, conf.Conf.SshPort)),
		wish.WithHostKeyPath(".ssh/hostkey"),
		wish.WithPublicKeyAuth(publicKeyHandler),
		wish.WithMiddleware(
			middleware.MainTui(conf),
			logging.Middleware(), // last middleware executed first
		),
	)
	if err != nil {
		log.Fatalln(err)
	}

	startServing(s, conf)
}

// runApiServer runs the stand-in backend with a seeded local database.
func runApiServer(conf *util.AppConfig) {
	database := db.GetDB()
	if err := database.Seed(conf); err != nil {
		log.Fatalln("Could not seed the database:", err)
	}

	if err := web.Router(conf, database); err != nil {
		log.Fatalln(err)
	}
}

func startServing(s *ssh.Server, conf *util.AppConfig) {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Printf("Starting SSH server on %s:%d", conf.Conf.Host, conf.Conf.SshPort)
	go func() {
		if err := s.ListenAndServe(); err != nil {
			log.Fatalln(err)
		}
	}()

	<-done
	log.Println("Stopping SSH server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer func() { cancel() }()
	if err := s.Shutdown(ctx); err != nil {
		log.Fatalln(err)
	}
}

func publicKeyHandler(ssh.Context, ssh.PublicKey) bool {
	return true
}
