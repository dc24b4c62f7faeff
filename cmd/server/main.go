package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"seo-monitor/internal/app"
	"seo-monitor/internal/handler"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	application := &Application{}

	flag.StringVar(&application.configPath, "config", "", "Configuration file path")
	flag.BoolVar(&application.debug, "debug", false, "Enable debug mode")
	flag.Parse()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

func (application *Application) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(application.configPath, application.debug)
	if err != nil {
		return err
	}
	defer a.Close()

	server, err := handler.NewServer(a.Config, a.Dashboard)
	if err != nil {
		return err
	}

	return server.Run(ctx)
}
