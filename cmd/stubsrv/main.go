package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"

	"github.com/jrsteele09/go-crm-console/internal/config"
	"github.com/jrsteele09/go-crm-console/internal/logger"
	"github.com/jrsteele09/go-crm-console/stubsrv"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running stub server: %s\n", err)
	}
	log.Printf("Stub server stopped\n")
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

	displayAppname("CRM Stub API")

	server, err := stubsrv.New(stubsrv.Config{
		JWTSecret:       cfg.Stub.JWTSecret,
		TokenTTLMinutes: cfg.Stub.TokenTTLMinutes,
	}, stubsrv.WithLogger(zl))
	if err != nil {
		return fmt.Errorf("stubsrv.New: %w", err)
	}

	if _, err := server.Seed(); err != nil {
		return fmt.Errorf("server.Seed: %w", err)
	}

	httpServer := &http.Server{Addr: cfg.Stub.Addr, Handler: server}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) {
	log.Printf("Stub server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("server.ListenAndServe: %s\n", err)
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
