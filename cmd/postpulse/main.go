package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/postpulse/postpulse/adapter/cli"
	"github.com/postpulse/postpulse/adapter/cli/rule"
	"github.com/postpulse/postpulse/internal/app"
	"github.com/postpulse/postpulse/pkg/config"
	"github.com/postpulse/postpulse/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			// In development, allow the CLI to run without a database
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()
		cliApp = &cli.App{
			AutomationService: container.Service,
			Engine:            container.Engine,
		}
	}
	cli.SetApp(cliApp)

	cli.RootCmd().AddCommand(rule.Cmd)
	cli.RootCmd().SetContext(ctx)
	cli.Execute()
}
