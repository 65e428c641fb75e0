package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Chative-support-poc/server/internal/agent/dialogue"
	"github.com/Chative-support-poc/server/internal/agent/graph"
	"github.com/Chative-support-poc/server/internal/agent/graph/prompts"
	"github.com/Chative-support-poc/server/internal/agent/graph/tools"
	"github.com/Chative-support-poc/server/internal/agent/model"
	"github.com/Chative-support-poc/server/internal/agent/nlu"
	"github.com/Chative-support-poc/server/internal/agent/repo"
	logx "github.com/Chative-support-poc/server/pkg/logger"
)

// app bundles the pieces both commands need.
type app struct {
	runner graph.Runner
	engine *dialogue.Engine
	close  func()
}

func newApp(ctx context.Context, cfg AppConfig) (*app, error) {
	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid CONVERSATION_TTL %q: %w", cfg.Conversation.TTL, err)
	}

	catalog, err := prompts.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("load intent catalog: %w", err)
	}

	classifier := nlu.NewModel(catalog, nlu.WithThreshold(cfg.Classifier.Threshold))
	orders := tools.DefaultOrderRegistry()
	engine := dialogue.NewEngine(catalog, orders, dialogue.WithClassifier(classifier))
	logx.Debug().
		Int("intents", len(catalog.Intents)).
		Int("orders", orders.Len()).
		Float64("threshold", classifier.Threshold()).
		Msg("Dialogue engine ready")

	conversationRepo, sessionRepo, closeStores, err := newStores(ctx, cfg, ttl)
	if err != nil {
		return nil, err
	}

	runner, err := graph.BuildResponseGraph(ctx, graph.Config{
		Engine:           engine,
		ConversationRepo: conversationRepo,
		SessionRepo:      sessionRepo,
	})
	if err != nil {
		closeStores()
		return nil, fmt.Errorf("build graph: %w", err)
	}

	return &app{runner: runner, engine: engine, close: closeStores}, nil
}

func newStores(ctx context.Context, cfg AppConfig, ttl time.Duration) (model.ConversationRepository, model.SessionRepository, func(), error) {
	maxMessages := cfg.Conversation.History.MaxMessages

	if !cfg.Redis.Enabled() {
		logx.Info().Msg("REDIS_URL not set, using in-memory session store")
		store := repo.NewMemoryStore(ttl, maxMessages)
		stopJanitor := store.StartJanitor(ttl)
		return store, store, stopJanitor, nil
	}

	rdb, err := cfg.Redis.New(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialise Redis client: %w", err)
	}
	logx.Info().Msg("Connected to Redis successfully")

	closeFn := func() {
		if err := rdb.Close(); err != nil {
			logx.Warn().Err(err).Msg("Error closing Redis client")
		}
	}
	return repo.NewRedisConversationRepository(rdb, ttl, maxMessages),
		repo.NewRedisSessionRepository(rdb, ttl),
		closeFn, nil
}
