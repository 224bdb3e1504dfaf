package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/finance-tracker/finance-api/internal/app"
	"github.com/finance-tracker/finance-api/internal/pkg/config"
	"github.com/finance-tracker/finance-api/pkg/logger"
)

// @title                       Personal Finance API
// @version                     1.0
// @description                 Authentication and profile endpoints for the personal-finance backend.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "finance-api",
		Env:     cfg.Env,
	})

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	if err := application.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}
