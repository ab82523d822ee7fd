package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "taskflow/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"taskflow/internal/auth"
	"taskflow/internal/cache"
	"taskflow/internal/config"
	"taskflow/internal/db"
	"taskflow/internal/handler"
	"taskflow/internal/logging"
	"taskflow/internal/password"
	"taskflow/internal/repository"
	"taskflow/internal/router"
	"taskflow/internal/service"
	"taskflow/internal/telemetry"
)

// @title TaskFlow API
// @version 1.0
// @description Multi-tenant task tracking API with bearer token authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "taskflow", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("telemetry init: %v", err)
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatalf("reset database: %v", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, "taskflow:")
	defer cacheClient.Close()
	pingCtx, cancelPing := context.WithTimeout(ctx, 2*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable, token revocation disabled until it recovers", "addr", cfg.RedisAddr, "error", err)
	}
	cancelPing()

	// Initialize auth components
	tokenStore := auth.NewTokenStore(cacheClient, cfg.AccessTokenTTL)
	guard := auth.Guard(auth.GuardConfig{
		Verifier:    auth.HS256Verifier{Issuer: cfg.JWTIssuer},
		Secret:      []byte(cfg.JWTSecret),
		Revocations: tokenStore,
		Logger:      logger,
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	// Initialize services
	hasher := password.NewBcryptHasher(cfg.BcryptCost)
	userService := service.NewUserService(userRepo, hasher, tokenStore, logger)
	taskService := service.NewTaskService(taskRepo, userRepo, logger)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)

	e := echo.New()
	router.Register(e, logger, guard, userHandler, taskHandler)

	logger.Info("swagger documentation available", "url", swaggerURL(cfg.SwaggerHost, cfg.ServerPort))

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server listening", "addr", addr, "env", cfg.Env, "db", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// swaggerURL builds the UI address. SwaggerHost may already include a scheme.
func swaggerURL(host, port string) string {
	if host == "" {
		host = "localhost:" + port
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return strings.TrimRight(host, "/") + "/swagger/index.html"
}
