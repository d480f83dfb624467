package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"LostFound/internal/config"
	"LostFound/internal/handlers"
	"LostFound/internal/matching"
	"LostFound/internal/middleware"
	"LostFound/internal/realtime"
	"LostFound/internal/repo"
	"LostFound/internal/service"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	itemRepo := repo.NewItemRepository(gormDB)
	chatRepo := repo.NewChatRepository(gormDB)

	userService := service.NewUserService(userRepo, service.WithAdmins(cfg.AdminEmails))
	itemService := service.NewItemService(itemRepo, userRepo, matching.NewEngine(itemRepo, sugar), sugar)
	chatService := service.NewChatService(itemRepo, chatRepo, userRepo, sugar)

	hub := realtime.NewHub(chatService, handlers.Reason, middleware.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst), sugar)
	chatService.SetNotifier(hub)

	h := handlers.NewHandler(userService, itemService, chatService, hub, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN != "",
		"RateLimitRPS", cfg.RateLimitRPS,
		"RateLimitBurst", cfg.RateLimitBurst,
		"AdminEmails", len(cfg.AdminEmails),
	)

	go func() {
		sugar.Infow("Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
