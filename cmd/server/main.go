package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"payaso-portal/internal/adapters/http/middleware"
	"payaso-portal/internal/adapters/http/routes"
	"payaso-portal/internal/adapters/persistence/memory"
	"payaso-portal/internal/adapters/persistence/models"
	"payaso-portal/internal/adapters/persistence/repositories"
	"payaso-portal/internal/config"
	"payaso-portal/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "payaso-portal/docs" // Swagger docs
)

// @title Payaso Portal API
// @version 1.0
// @description Portal de voluntarios: capacitaciones, visitas, cuotas y graduación
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email soporte@payasos.org

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Pick the data source
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open data source: %v", err)
	}
	defer config.CloseDatabase()

	// Seed demo data
	if cfg.SeedDemo {
		if err := config.NewSeeder(store).Run(context.Background()); err != nil {
			log.Printf("⚠️ Warning: Failed to seed demo data: %v", err)
		}
	}

	svc := routes.NewServices(store, cfg)

	// Monthly dues reminder
	cronService := services.NewCronService(store, svc.Payments, cfg)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Payaso Portal API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, svc, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s, DATA: %s]", cfg.Port, cfg.AppMode, cfg.DataSource)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// openStore returns the in-memory store or the database-backed one
func openStore(cfg *config.Config) (*repositories.Store, error) {
	if !cfg.UsesDatabase() {
		log.Println("✅ Using in-memory data source")
		return memory.NewStore().Repositories(), nil
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, err
	}

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}
	log.Println("✅ Database migration completed")

	return repositories.NewGormStore(db), nil
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
