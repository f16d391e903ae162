package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pvieira/flashdeck/internal/ai"
	"github.com/pvieira/flashdeck/internal/api"
	"github.com/pvieira/flashdeck/internal/config"
	"github.com/pvieira/flashdeck/internal/db"
	"github.com/pvieira/flashdeck/internal/logger"
	"github.com/pvieira/flashdeck/internal/repository/sqlite"
	"github.com/pvieira/flashdeck/internal/services"
	"github.com/pvieira/flashdeck/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("FlashDeck Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("ai_base_url=%s", cfg.AIBaseURL)
	log.Debug("ai_grading_model=%s", cfg.AIGradingModel)
	log.Debug("ai_generator_model=%s", cfg.AIGeneratorModel)
	log.Debug("generation_max_cards=%d", cfg.GenerationMaxCards)
	log.Debug("draft_ttl_hours=%d", cfg.DraftTTLHours)
	log.Debug("janitor_interval_mins=%d", cfg.JanitorIntervalMins)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	userRepo := sqlite.NewUserRepository(database.DB)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	scheduleRepo := sqlite.NewScheduleRepository(database.DB)
	draftRepo := sqlite.NewDraftRepository(database.DB)

	// AI collaborators
	grader := ai.NewGrader(ai.Config{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIGradingModel,
	})
	generator := ai.NewGenerator(ai.Config{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIGeneratorModel,
	})

	// Services
	userService := services.NewUserService(userRepo)
	deckService := services.NewDeckService(deckRepo)
	cardService := services.NewCardService(deckRepo, cardRepo)
	studyService := services.NewStudyService(deckRepo, cardRepo, scheduleRepo, grader)
	generationService := services.NewGenerationService(
		deckRepo, cardRepo, draftRepo, generator,
		cfg.GenerationMaxCards, time.Duration(cfg.DraftTTLHours)*time.Hour,
	)

	srv := api.NewServer(userService, deckService, cardService, studyService, generationService)

	// Background janitor for expired drafts
	janitorPool := worker.NewPool("janitor", cfg.JanitorWorkerCount, cfg.JanitorQueueSize)
	ctx, cancel := context.WithCancel(context.Background())
	janitorPool.Start(ctx)

	janitorTicker := time.NewTicker(time.Duration(cfg.JanitorIntervalMins) * time.Minute)
	go func() {
		janitorPool.Submit(&worker.DraftExpiryJob{DraftRepo: draftRepo})
		for {
			select {
			case <-ctx.Done():
				return
			case <-janitorTicker.C:
				janitorPool.Submit(&worker.DraftExpiryJob{DraftRepo: draftRepo})
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // AI endpoints can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	janitorTicker.Stop()
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping janitor pool")
	janitorPool.Stop()

	log.Info("===========================================")
	log.Info("FlashDeck Server Stopped")
	log.Info("===========================================")
}
