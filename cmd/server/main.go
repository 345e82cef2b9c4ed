package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"condocore/internal/adapters/http/middleware"
	"condocore/internal/adapters/http/routes"
	"condocore/internal/adapters/persistence/models"
	"condocore/internal/adapters/persistence/repositories"
	"condocore/internal/config"
	"condocore/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if err := config.SeedAdminUser(db); err != nil {
		log.Printf("warning: admin seed failed: %v", err)
	}

	// Nightly retention sweep over expired refresh-token rows.
	maintenance := services.NewMaintenanceService(repositories.NewRefreshTokenRepository(db))
	maintenance.Start()
	defer maintenance.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "condocore API",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, db, cfg)

	go gracefulShutdown(app)

	log.Printf("server starting on port %s [mode: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	log.Println("server stopped")
}
