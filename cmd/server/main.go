package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dhoini/crm-service/internal/app"
	"github.com/Dhoini/crm-service/internal/config"
	"github.com/Dhoini/crm-service/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config.yml)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.New(logger.INFO, false).Fatal("Failed to load configuration: %v", err)
	}

	log := logger.New(logger.ParseLevel(cfg.Log.Level), !cfg.App.IsProduction())
	defer func() { _ = log.Sync() }()

	log.Infow("CRM service starting up...", "env", cfg.App.Env, "storage", cfg.Database.Driver)

	// Контекст отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalw("Failed to initialize application", "error", err)
	}

	runErr := a.Run(ctx)
	if err := a.Close(); err != nil {
		log.Errorw("Failed to release resources", "error", err)
	}
	if runErr != nil {
		log.Fatalw("Server error", "error", runErr)
	}
}
