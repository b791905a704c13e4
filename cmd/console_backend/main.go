package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/fitment_console/internal/adapters/notify"
	portssvc "github.com/SscSPs/fitment_console/internal/core/ports/services"
	"github.com/SscSPs/fitment_console/internal/core/services"
	"github.com/SscSPs/fitment_console/internal/handlers"
	"github.com/SscSPs/fitment_console/internal/middleware"
	"github.com/SscSPs/fitment_console/internal/platform/config"
	"github.com/SscSPs/fitment_console/internal/platform/metrics"
	"github.com/SscSPs/fitment_console/internal/repositories/database/pgsql"
	"github.com/SscSPs/fitment_console/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Fitment Console API
// @version 1.0
// @description Multi-tenant backend for vehicle accessory installation: intake, installation tracking, invoicing and staff roles.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.Migrate(cfg.DatabaseURL, database.DefaultMigrationsPath, database.MigrateUp, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, newTransport(cfg, logger), m)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.TenantHeader, middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if m != nil {
		r.Use(middleware.MetricsMiddleware(m))
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterRoutes(r, cfg, serviceContainer); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}

	// Let in-flight notifications finish before the pool closes.
	serviceContainer.Publisher.Wait()
	logger.Info("Server exited")
}

// newTransport picks the notification delivery adapter.
func newTransport(cfg *config.Config, logger *slog.Logger) portssvc.NotificationTransport {
	if cfg.NotifyProvider == config.NotifyProviderWhatsApp {
		logger.Info("Notifications are delivered over WhatsApp", slog.String("api_url", cfg.WhatsAppAPIURL))
		return notify.NewWhatsAppTransport(context.Background(), notify.WhatsAppConfig{
			APIURL:       cfg.WhatsAppAPIURL,
			TokenURL:     cfg.WhatsAppTokenURL,
			ClientID:     cfg.WhatsAppClientID,
			ClientSecret: cfg.WhatsAppClientSecret,
			Timeout:      cfg.NotifyDispatchTimeout,
		})
	}
	logger.Info("Notifications are written to the log")
	return notify.NewLogTransport()
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
