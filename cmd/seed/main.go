package main

import (
	"fmt"
	"os"

	"chitieu/internal/config"
	"chitieu/internal/database"
	"chitieu/internal/logger"
	"chitieu/internal/seed"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seed.Run(dbManager.DB()); err != nil {
		return err
	}

	logger.Get().Info("Seed completed")
	return nil
}
