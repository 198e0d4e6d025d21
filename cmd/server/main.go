package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"fabula-server/internal/ai"
	"fabula-server/internal/config"
	"fabula-server/internal/contextbuilder"
	"fabula-server/internal/database"
	"fabula-server/internal/handler"
	"fabula-server/internal/logger"
	"fabula-server/internal/middleware"
	"fabula-server/internal/model"
	"fabula-server/internal/repository"
	"fabula-server/internal/service"
	"fabula-server/migrations"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: cfg.LogEncoding,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)
	zap.L().Info("Logger initialized successfully", zap.String("logLevel", cfg.LogLevel))
	zap.L().Info("Configuration loaded")

	// --- Database ---
	dbPool, err := database.Connect(cfg, log)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer dbPool.Close()

	migrator := database.NewMigrator(database.MigrationConfig{
		MigrationsPath: ".",
		MigrationsFS:   migrations.FS,
	}, dbPool)
	migrationCtx, migrationCancel := context.WithTimeout(context.Background(), time.Minute)
	if err := migrator.Up(migrationCtx); err != nil {
		migrationCancel()
		zap.L().Fatal("Failed to apply database migrations", zap.Error(err))
	}
	migrationCancel()

	// --- Dependency Injection ---
	store := repository.NewPostgresStore(dbPool, log)
	assembler := contextbuilder.NewAssembler(store, log)

	provider, err := ai.NewProvider(cfg, log)
	if err != nil {
		zap.L().Fatal("Failed to create AI provider", zap.Error(err))
	}
	zap.L().Info("AI provider initialized",
		zap.String("provider", cfg.AIProvider),
		zap.String("model", provider.Info().ModelID))

	settings := service.NewSettings(model.ComplexityLevel(cfg.DefaultComplexity))
	orchestrator := service.NewOrchestrator(
		provider,
		store,
		assembler,
		settings,
		cfg.QualityThreshold,
		cfg.MaxRegenerationAttempts,
		log,
	)
	generationHandler := handler.NewGenerationHandler(orchestrator, store, log)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(middleware.ZapLoggingMiddlewareForGin(log))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	generationHandler.RegisterRoutes(router)

	// Метрики отдаются на отдельном порту, наружу не публикуются.
	p := ginprometheus.NewPrometheus("gin")
	p.SetListenAddress(":" + cfg.MetricsPort)
	p.Use(router)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// Потоковые ответы держат соединение дольше обычного таймаута
		WriteTimeout: cfg.AITimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.Port))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}
