package main

import (
	"flag"
	"log"

	"mocktest-engine/internal/config"
	"mocktest-engine/internal/database"
	"mocktest-engine/internal/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	down := flag.Bool("down", false, "roll the schema back instead of applying it")
	flag.Parse()

	cfg, err := config.LoadConfigFrom(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.Open(cfg)
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	dir := database.Up
	if *down {
		dir = database.Down
	}
	if err := database.RunMigrations(db.DB, cfg.DB.Driver, dir); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
}
