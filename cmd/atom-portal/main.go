// Package main ATOM Jiu-Jitsu API
//
// @title           ATOM Jiu-Jitsu API
// @version         1.0
// @description     Портал клуба: участники, абонементы, вход по QR, магазин, уведомления и отчёты.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/magabrotheeeer/atom-backoffice/docs"
	atomportal "github.com/magabrotheeeer/atom-backoffice/internal/app/atom-portal"
	"github.com/magabrotheeeer/atom-backoffice/internal/config"
	"github.com/magabrotheeeer/atom-backoffice/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting atom-portal", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := atomportal.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("atom-portal stopped gracefully")
}
