package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/Dhoini/crm-service/internal/app"
	"github.com/Dhoini/crm-service/internal/config"
	"github.com/Dhoini/crm-service/internal/seed"
	"github.com/Dhoini/crm-service/pkg/logger"
)

var errMemoryStorage = errors.New("seeding the in-memory store has no effect, set database.driver to postgres")

// checkStorage отклоняет хранилища, данные которых не переживают завершение процесса
func checkStorage(cfg *config.Config) error {
	if cfg.Database.Driver == config.DriverMemory {
		return errMemoryStorage
	}
	return nil
}

func main() {
	configPath := flag.String("config", "", "path to config file (default ./config.yml)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.New(logger.INFO, false).Fatal("Failed to load configuration: %v", err)
	}

	log := logger.New(logger.ParseLevel(cfg.Log.Level), !cfg.App.IsProduction())
	defer func() { _ = log.Sync() }()

	if err := checkStorage(cfg); err != nil {
		log.Fatalw("Refusing to seed", "error", err, "driver", cfg.Database.Driver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalw("Failed to initialize application", "error", err)
	}

	if _, err := seed.Run(ctx, a.Customers, a.Products, log); err != nil {
		_ = a.Close()
		log.Fatalw("Seeding failed", "error", err)
	}
	if err := a.Close(); err != nil {
		log.Errorw("Failed to release resources", "error", err)
	}
}
