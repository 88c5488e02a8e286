package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jeffbeard/storylift/internal/config"
	"github.com/jeffbeard/storylift/internal/db"
	"github.com/jeffbeard/storylift/internal/embeddings"
	"github.com/jeffbeard/storylift/internal/logging"
	"github.com/jeffbeard/storylift/internal/matching"
	"github.com/jeffbeard/storylift/internal/ranking"
	"github.com/jeffbeard/storylift/internal/similarity"
)

// app holds the process-wide dependencies shared by commands
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *db.DB
	embedder *embeddings.Service
	matcher  *matching.Service
}

// newApp loads configuration, the logger and the database connection.
// Commands that match stories also call withMatcher.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{JSON: cfg.Log.JSON, Debug: cfg.Log.Debug})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database.url (STORYLIFT_DATABASE_URL or DATABASE_URL) is required")
	}

	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &app{cfg: cfg, logger: logger, db: database}, nil
}

// withMatcher wires the embedding service, scorer, ranker and matching service
func (a *app) withMatcher() error {
	embedder, err := embeddings.NewService(
		embeddings.FactoryFor(a.cfg.EmbeddingProvider()),
		embeddings.Options{CacheSize: a.cfg.Embedding.CacheSize, Logger: a.logger},
	)
	if err != nil {
		return fmt.Errorf("failed to create embedding service: %w", err)
	}

	scorer := similarity.NewScorer(embedder, similarity.NewDomainGuard(a.cfg.Matching.DomainKeywords))
	ranker := ranking.NewRanker(scorer, ranking.Options{
		Threshold:     a.cfg.Matching.Threshold,
		TopK:          a.cfg.Matching.TopK,
		LegacyPreview: a.cfg.Matching.LegacyPreview,
	})

	a.embedder = embedder
	a.matcher = matching.NewService(a.db, ranker, matching.Options{
		Concurrency: a.cfg.Matching.Concurrency,
		Logger:      a.logger,
	})
	return nil
}

func (a *app) Close() {
	if a.embedder != nil {
		if err := a.embedder.Close(); err != nil {
			a.logger.Warn("failed to close embedding service", zap.Error(err))
		}
	}
	a.db.Close()
	_ = a.logger.Sync()
}
