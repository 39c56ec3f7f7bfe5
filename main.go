package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docvault/server/config"
	"github.com/docvault/server/handler"
	"github.com/docvault/server/middleware"
	"github.com/docvault/server/pkg/logger"
	"github.com/docvault/server/service"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Pick the store backend
	var store service.Store
	if cfg.Store.Database != "" {
		store, err = service.NewSQLiteStore(cfg.Store.Database)
		if err != nil {
			slog.Error("failed to open sqlite store", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("no database configured, using in-memory store")
		store = service.NewMemoryStore()
	}
	defer store.Close()

	// Initialize services
	minioSvc, err := service.NewMinioService(&cfg.Minio)
	if err != nil {
		slog.Error("failed to initialize MINIO service", "error", err)
		os.Exit(1)
	}

	// Ensure bucket exists
	if err := minioSvc.EnsureBucket(context.Background()); err != nil {
		slog.Error("failed to ensure MINIO bucket", "error", err)
		os.Exit(1)
	}

	authSvc := service.NewAuthService(store)
	ingestClient := service.NewIngestClient(&cfg.Ingest)
	ingestionSvc := service.NewIngestionService(store, ingestClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authSvc, &cfg.Auth)
	userHandler := handler.NewUserHandler(store)
	documentHandler := handler.NewDocumentHandler(store, minioSvc)
	ingestionHandler := handler.NewIngestionHandler(ingestionSvc)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	policy := middleware.DefaultPolicy()

	// Public routes
	api := router.Group("/api/v1")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth, store))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/users", middleware.RequireRole(policy, "users.list"), userHandler.List)
		protected.PATCH("/users/:id/role", middleware.RequireRole(policy, "users.updateRole"), userHandler.UpdateRole)
		protected.DELETE("/users/:id", middleware.RequireRole(policy, "users.delete"), userHandler.Delete)

		protected.POST("/documents", middleware.RequireRole(policy, "documents.create"), documentHandler.Create)
		protected.GET("/documents", documentHandler.List)
		protected.GET("/documents/:id", documentHandler.Get)
		protected.PATCH("/documents/:id", middleware.RequireRole(policy, "documents.update"), documentHandler.Update)
		protected.DELETE("/documents/:id", middleware.RequireRole(policy, "documents.delete"), documentHandler.Delete)

		protected.POST("/ingestion/trigger/:documentId", middleware.RequireRole(policy, "ingestion.trigger"), ingestionHandler.Trigger)
		protected.GET("/ingestion/status/:id", middleware.RequireRole(policy, "ingestion.status"), ingestionHandler.Status)
		protected.POST("/ingestion/retry/:id", middleware.RequireRole(policy, "ingestion.retry"), ingestionHandler.Retry)
		protected.GET("/ingestion/all", middleware.RequireRole(policy, "ingestion.list"), ingestionHandler.All)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
