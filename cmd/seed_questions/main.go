package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mocktest-engine/internal/config"
	"mocktest-engine/internal/database"
	"mocktest-engine/internal/logger"
	"mocktest-engine/internal/repository"
	"mocktest-engine/internal/seed"

	"go.uber.org/zap"
)

const defaultSeedFile = "configs/seed_data/questions.json"

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	seedFile := flag.String("file", defaultSeedFile, "JSON question pool")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfigFrom(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Loading question pool", zap.String("path", *seedFile))
	f, err := os.Open(*seedFile)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFile), zap.Error(err))
	}
	questions, err := seed.Decode(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to decode seed data", zap.Error(err))
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	n, err := seed.Apply(ctx, repository.NewSQLXQuestionRepository(db), repository.NewTransactionManagerAdapter(db), questions, log)
	if err != nil {
		log.Fatal("Seeding stopped", zap.Int("written", n), zap.Error(err))
	}
	log.Info("Question pool seeded", zap.Int("questions", n))
}
