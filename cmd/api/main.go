// @title Mock Test Engine API
// @version 1.0
// @description Blueprint-driven mock test generation, rank prediction and leaderboards.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "mocktest-engine/cmd/api/docs"
	"mocktest-engine/internal/app"
	"mocktest-engine/internal/config"
	"mocktest-engine/internal/handler"
	"mocktest-engine/internal/logger"
	"mocktest-engine/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	useMemory := flag.Bool("memory", false, "serve from an in-process store")
	flag.Parse()

	cfg, err := config.LoadConfigFrom(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	application, err := app.New(cfg, app.Options{Memory: *useMemory, Logger: appLogger})
	if err != nil {
		appLogger.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	if !application.Auth.Enabled() {
		appLogger.Warn("auth.jwt_secret is empty; operator routes are open")
	}

	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	fiberApp.Use(middleware.RequestLogger())
	fiberApp.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	fiberApp.Use(recover.New())

	fiberApp.Get("/swagger/*", swagger.HandlerDefault)

	handler.RegisterRoutes(fiberApp, handler.Handlers{
		Blueprints:  handler.NewBlueprintHandler(application.Exams),
		Exams:       handler.NewExamHandler(application.Exams, application.Ranks, application.Attempts),
		Leaderboard: handler.NewLeaderboardHandler(application.Leaderboard),
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"store": application.PingStore,
			"cache": application.PingCache,
		}),
	}, application.Auth)

	go func() {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("env", cfg.Logger.Env),
			zap.String("db_driver", cfg.DB.Driver),
			zap.Bool("memory", *useMemory),
		)
		if err := fiberApp.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fiberApp.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
