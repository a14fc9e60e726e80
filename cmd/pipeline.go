package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/resume-coach/internal/achievements"
	"github.com/spigell/resume-coach/internal/ai"
	"github.com/spigell/resume-coach/internal/ai/gemini"
	"github.com/spigell/resume-coach/internal/analysis"
	"github.com/spigell/resume-coach/internal/logger"
	"github.com/spigell/resume-coach/internal/scoring"
	"github.com/spigell/resume-coach/internal/secrets"
	"github.com/spigell/resume-coach/internal/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const providerGemini = "gemini"

// pipeline is the AI-facing part of the application, resolved once at start.
type pipeline struct {
	orchestrator *analysis.Orchestrator
	// coach is nil when no provider credential is configured.
	coach ai.Coach
}

func newPipeline(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*pipeline, error) {
	mode := analysis.ModeFromFlag(cfg.Mandatory)
	log.Info("resolved analysis mode", zap.String("mode", mode.String()))

	generator, err := newGenerator(ctx, cfg, log)
	switch {
	case errors.Is(err, secrets.ErrNotConfigured):
		if mode == analysis.ModeMandatoryAI {
			log.Error("AI credential is missing while AI analysis is mandatory",
				zap.Error(err),
				zap.String("hint", "set ai.gemini.api-key-file, ai.gemini.api-key or GEMINI_API_KEY"),
			)
		} else {
			log.Info("AI provider is not configured, chat coach is disabled")
		}
		return &pipeline{orchestrator: analysis.NewOrchestrator(scoring.NewScorer(), nil, mode, log)}, nil
	case err != nil:
		return nil, err
	}

	aiLog := logger.WithCommonFields(log, providerGemini, generator.Model())
	maxLogLength := cfg.Gemini.MaxLogLength

	return &pipeline{
		orchestrator: analysis.NewOrchestrator(
			scoring.NewScorer(),
			gemini.NewRefiner(generator, aiLog.Named("refiner"), maxLogLength),
			mode,
			log,
		),
		coach: gemini.NewCoach(generator, aiLog.Named("coach"), maxLogLength),
	}, nil
}

func newGenerator(ctx context.Context, cfg *AIConfig, log *zap.Logger) (*gemini.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != providerGemini {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gemini.Options{
		Model:           cfg.Gemini.Model,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
	})
	if err != nil {
		return nil, err
	}

	logger.WithCommonFields(log, providerGemini, generator.Model()).Debug("AI provider configured")
	return generator, nil
}

// openStore connects, migrates and seeds the badge catalogue.
func openStore(ctx context.Context, cfg store.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := store.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx, db); err != nil {
		return nil, err
	}
	if err := store.SeedBadges(ctx, db, achievements.Catalogue()); err != nil {
		return nil, err
	}
	return db, nil
}

func closeStore(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("closing database", zap.Error(err))
	}
}
