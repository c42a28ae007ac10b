package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodie-planner/internal/auth"
	"foodie-planner/internal/config"
	"foodie-planner/internal/database"
	"foodie-planner/internal/llm"
	"foodie-planner/internal/metrics"
	"foodie-planner/internal/planner"
	"foodie-planner/internal/server"
	"foodie-planner/internal/session"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.NewFromEnv()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Prefer OpenAI when both backends are configured; the original
	// deployment ran on it.
	var textGen llm.TextGenerator
	if cfg.OpenAIAPIKey != "" {
		textGen = llm.NewOpenAIClient(cfg)
		logger.Info("using OpenAI generation backend", zap.String("model", cfg.OpenAIModel))
	} else {
		textGen, err = llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			logger.Fatal("failed to initialize Gemini client", zap.Error(err))
		}
		logger.Info("using Gemini generation backend", zap.String("model", cfg.GeminiModel))
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	mealPlanner := planner.NewPlanner(textGen)
	planRepo := planner.NewPlanRepository(db.SQL)
	sessionStore := session.NewStore(db.SQL)
	userRepo := auth.NewUserRepository(db.SQL)
	tokenManager := auth.NewTokenManager(cfg.SessionSecret)
	metricsStore := metrics.NewStore(db.SQL)

	srv := server.New(cfg, logger, mealPlanner, planRepo, sessionStore, userRepo, tokenManager, metricsStore)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
