package main

import (
	"context"
	"net/http"

	dbadapter "mediamgr/internal/adapters/database"
	dynamoadapter "mediamgr/internal/adapters/dynamodb"
	"mediamgr/internal/adapters/gemini"
	"mediamgr/internal/adapters/memory"
	"mediamgr/internal/adapters/openaiapi"
	redisadapter "mediamgr/internal/adapters/redis"
	"mediamgr/internal/config"
	"mediamgr/internal/core/generation"
	postapp "mediamgr/internal/core/post/service"
	genPort "mediamgr/internal/ports/generation"
	postPort "mediamgr/internal/ports/post"
	schedulePort "mediamgr/internal/ports/schedule"

	"go.uber.org/zap"
)

// app holds the wired dependencies and the resources to release on exit.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	posts   *postapp.PostService
	queue   schedulePort.PublishQueue
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("Error closing resource", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func bootstrap(ctx context.Context) (*app, error) {
	logger := config.InitLogger(getenvDefault("APP_ENV", "development"))

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger}

	repo, err := a.postRepository(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	queue, err := a.publishQueue(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.queue = queue

	orchestrator := a.orchestrator()
	a.posts = postapp.NewPostService(repo, orchestrator, queue, logger)
	return a, nil
}

func (a *app) postRepository(ctx context.Context) (postPort.PostRepository, error) {
	switch a.cfg.PostStore {
	case config.StoreMySQL:
		db, err := config.OpenDB(a.cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { return config.CloseDB(db) })
		return dbadapter.NewPostRepositoryDatabase(db), nil
	case config.StoreDynamoDB:
		client, err := config.OpenDynamoDB(ctx, a.cfg.AWSEndpoint)
		if err != nil {
			return nil, err
		}
		return dynamoadapter.NewPostRepositoryDynamo(client, a.cfg.DynamoTable, a.cfg.DynamoOwnerIndex), nil
	default:
		a.logger.Warn("Using in-memory post store; posts are lost on restart")
		return memory.NewPostRepositoryMemory(), nil
	}
}

func (a *app) publishQueue(ctx context.Context) (schedulePort.PublishQueue, error) {
	if a.cfg.RedisAddr == "" {
		a.logger.Warn("REDIS_ADDR is not set, publish schedule is kept in memory")
		return memory.NewPublishQueueMemory(), nil
	}
	client, err := config.OpenRedis(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	return redisadapter.NewPublishQueueRedis(client, a.logger), nil
}

// orchestrator builds the generation orchestrator around the configured provider.
// The provider client is created here and injected; nothing is process-global.
func (a *app) orchestrator() *generation.Orchestrator {
	httpClient := &http.Client{Timeout: a.cfg.ProviderTimeout}

	var (
		text  genPort.TextProvider
		image genPort.ImageProvider
	)
	switch a.cfg.Provider {
	case config.ProviderGemini:
		text = gemini.NewClient(gemini.Config{
			APIKey:     a.cfg.GeminiAPIKey,
			URL:        a.cfg.GeminiURL,
			HTTPClient: httpClient,
		})
	case config.ProviderOpenAI:
		client := openaiapi.NewClient(openaiapi.Config{
			APIKey:     a.cfg.OpenAIAPIKey,
			Model:      a.cfg.OpenAIModel,
			ImageModel: a.cfg.OpenAIImageModel,
			HTTPClient: httpClient,
		})
		text, image = client, client
	default:
		a.logger.Warn("No generation provider configured, captions use fallback text")
	}

	a.logger.Info("Generation provider configured",
		zap.String("provider", a.cfg.Provider),
		zap.Duration("timeout", a.cfg.ProviderTimeout))
	return generation.NewOrchestrator(text, image, nil, a.cfg.ProviderTimeout, a.logger)
}
