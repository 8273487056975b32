package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mythicalprogrammer/exRPG/internal/config"
	"github.com/mythicalprogrammer/exRPG/internal/httpapi"
	"github.com/mythicalprogrammer/exRPG/internal/llm"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	programLevel := slog.LevelInfo
	if cfg.Debug {
		programLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: programLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen, err := llm.New(
		llm.WithProvider(llm.LoadProvider(ctx, cfg, logger)),
		llm.WithParallelism(cfg.LlmParallel),
		llm.WithTimeout(cfg.LlmTimeout),
		llm.WithLogger(logger),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer gen.Close() //nolint:errcheck

	app := httpapi.NewServer(cfg, logger, gen)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("forced shutdown", "error", err)
		}
	}()

	logger.Info("listening", "addr", cfg.Addr, "ai_available", gen.Available())
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
