package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	_ "github.com/SscSPs/homeos_backend/cmd/docs"
	"github.com/SscSPs/homeos_backend/internal/adapters/docstore"
	portsrepo "github.com/SscSPs/homeos_backend/internal/core/ports/repositories"
	"github.com/SscSPs/homeos_backend/internal/core/services"
	"github.com/SscSPs/homeos_backend/internal/handlers"
	"github.com/SscSPs/homeos_backend/internal/middleware"
	"github.com/SscSPs/homeos_backend/internal/platform/config"
	"github.com/SscSPs/homeos_backend/internal/platform/telegram"
	"github.com/SscSPs/homeos_backend/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const shutdownTimeout = 10 * time.Second

// @title HomeOS Backend API
// @version 1.0
// @description Backend of the HomeOS Telegram mini app: bank, shop, work shifts and personal records.

// @host localhost:5000
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := docstore.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize document store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	verifier := telegram.NewVerifier(cfg.BotToken, cfg.InitDataMaxAge)
	serviceContainer := services.NewServiceContainer(cfg, portsrepo.RepositoryProvider{Documents: store}, verifier)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.New(corsConfig(cfg)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, store, posthogClient)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("backend", store.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("Server stopped")
}

// corsConfig allows credentialed requests from the configured origins.
// A "*" entry reflects any origin back, since browsers refuse a wildcard with credentials.
func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigin) == 0 || slices.Contains(cfg.CORSAllowedOrigin, "*") {
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigin
	}
	corsCfg.AddAllowHeaders("Authorization", "x-api-key")
	corsCfg.AddExposeHeaders("Content-Length")
	corsCfg.AllowCredentials = true
	return corsCfg
}
