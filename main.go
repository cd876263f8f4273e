package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epeers/stockdata/config"
	"github.com/epeers/stockdata/docs"
	"github.com/epeers/stockdata/internal/cache"
	"github.com/epeers/stockdata/internal/handlers"
	"github.com/epeers/stockdata/internal/middleware"
	"github.com/epeers/stockdata/internal/repository"
	"github.com/epeers/stockdata/internal/services"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Stock Data Import API
// @version 1.0
// @description Bulk CSV import and export for stock market data tables.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.SetupLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	// Create context for initialization
	ctx := context.Background()

	// Initialize database connection and schema
	backend, err := repository.OpenBackend(ctx, repository.BackendOptions{
		Driver:     cfg.DBDriver,
		PGURL:      cfg.PGURL,
		SQLitePath: cfg.SQLitePath,
		Migrate:    true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer backend.Close()

	// Initialize services
	lookup := services.NewSymbolLookup(backend.Symbols, cfg.SymbolLookupChunk).
		WithCache(cache.NewMemoryCache(5 * time.Minute))
	importSvc := services.NewImportService(lookup, backend.Rows)
	exportSvc := services.NewExportService(backend.Rows)

	sweeper := services.NewUploadSweeper(cfg.UploadDir, cfg.UploadMaxAge)
	if err := sweeper.Start("@hourly"); err != nil {
		log.Fatalf("Failed to start upload sweeper: %v", err)
	}
	defer sweeper.Stop()

	// Initialize handlers
	importHandler := handlers.NewImportHandler(importSvc, cfg.UploadDir)
	exportHandler := handlers.NewExportHandler(exportSvc)
	symbolHandler := handlers.NewSymbolHandler(lookup)

	// Setup Gin router
	router := gin.Default()

	// Apply global middleware
	router.Use(middleware.ValidateUser(cfg.JWTSecret))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "driver": backend.Driver})
	})

	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	// Read routes, any authenticated user
	read := api.Group("", middleware.RequireAuth())
	read.GET("/symbols/:symbol", symbolHandler.GetSymbol)
	read.GET("/import-domains", symbolHandler.ListImportDomains)

	// Import and export routes, admin only
	admin := api.Group("", middleware.RequireAdmin())
	handlers.RegisterImportRoutes(admin, importHandler, exportHandler, middleware.RateLimit(cfg.ImportRatePerMinute))

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Starting server on port %s (%s)", cfg.Port, backend.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Imports in flight get 30 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: ", err)
	}

	fmt.Println("Server exited")
}
