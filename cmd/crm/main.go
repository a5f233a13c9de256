package main

import (
	"errors"
	"fmt"
	"log"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"

	"github.com/jrsteele09/go-crm-console/apiclient"
	"github.com/jrsteele09/go-crm-console/auth"
	"github.com/jrsteele09/go-crm-console/calllogs"
	"github.com/jrsteele09/go-crm-console/guard"
	"github.com/jrsteele09/go-crm-console/internal/config"
	"github.com/jrsteele09/go-crm-console/internal/logger"
	"github.com/jrsteele09/go-crm-console/prospects"
	"github.com/jrsteele09/go-crm-console/reports"
	"github.com/jrsteele09/go-crm-console/sales"
	"github.com/jrsteele09/go-crm-console/session"
	"github.com/jrsteele09/go-crm-console/sessionstore"
	"github.com/jrsteele09/go-crm-console/transfers"
	"github.com/jrsteele09/go-crm-console/users/usersvc"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running console: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}
	zl := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	displayAppname(cfg.App.Name)

	store, err := sessionstore.NewFileStore(cfg.API.DataDir, sessionstore.WithLogger(zl))
	if err != nil {
		return fmt.Errorf("sessionstore.NewFileStore: %w", err)
	}

	client, err := apiclient.New(cfg.API.BaseURL, store)
	if err != nil {
		return fmt.Errorf("apiclient.New: %w", err)
	}

	authService, err := auth.NewService(client, store)
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	manager, err := session.NewManager(authService, store, session.WithLogger(zl))
	if err != nil {
		return fmt.Errorf("session.NewManager: %w", err)
	}
	client.OnUnauthenticated(manager.HandleUnauthenticated)

	console, err := newConsole(manager, guard.New(), services{
		users:     mustService(usersvc.NewService(client, store)),
		prospects: mustService(prospects.NewService(client)),
		sales:     mustService(sales.NewService(client)),
		transfers: mustService(transfers.NewService(client)),
		reports:   mustService(reports.NewService(client)),
		calllogs:  mustService(calllogs.NewService(client)),
	}, store)
	if err != nil {
		return fmt.Errorf("newConsole: %w", err)
	}
	return console.Run()
}

// mustService panics on a nil-dependency constructor error. The client is
// checked non-nil above, so this cannot fire outside programmer error.
func mustService[T any](svc T, err error) T {
	if err != nil {
		panic(err)
	}
	return svc
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
