package main

import (
	"context"
	"log"
	"time"

	"student-assistant/internal/adapter/api"
	"student-assistant/internal/adapter/client"
	"student-assistant/internal/adapter/extract"
	"student-assistant/internal/adapter/store"
	"student-assistant/internal/config"
	"student-assistant/internal/domain/repository"
	"student-assistant/internal/logger"
	"student-assistant/internal/usecase"

	"github.com/qdrant/go-client/qdrant"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"
)

func main() {
	cfg := config.Load(".env", ".env.dev")
	ctx := context.Background()

	appLog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer appLog.Sync()

	deps := usecase.Deps{
		Log:            appLog,
		CacheThreshold: cfg.CacheThreshold,
	}

	// Redis for usage limits and progress
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		deps.Limiter = store.NewRedisLimiter(rdb, cfg.UserTokenLimit)
		deps.Progress = store.NewRedisProgressStore(rdb)
	} else {
		appLog.Warn("REDIS_ADDR not set, usage limits disabled and progress kept in memory")
		deps.Progress = store.NewMemoryProgressStore()
	}

	timeout := time.Duration(cfg.ProviderTimeoutSecs) * time.Second
	var genaiClient *genai.Client
	switch cfg.Provider {
	case "mock":
		appLog.Warn("mock provider active, every structured feature serves local fallbacks")
		deps.Provider = client.MockProvider{}
	case "openai":
		oc, err := client.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, client.DefaultGenerationSettings)
		if err != nil {
			appLog.Fatal("failed to init openai client", "error", err)
		}
		deps.Provider = usecase.NewResilientProvider(appLog, oc, nil, timeout)
	default:
		genaiClient, err = client.NewGenAIClient(ctx, cfg.GeminiAPIKey, cfg.GCPProject, cfg.GCPLocation)
		if err != nil {
			appLog.Fatal("failed to init genai client", "error", err)
		}
		primaryModel := client.NewGeminiClientFromClient(genaiClient, cfg.GeminiModel, client.DefaultGenerationSettings)
		var fallbackModel repository.AIProvider
		if cfg.GeminiFallbackModel != "" && cfg.GeminiFallbackModel != cfg.GeminiModel {
			fallbackModel = client.NewGeminiClientFromClient(genaiClient, cfg.GeminiFallbackModel, client.DefaultGenerationSettings)
		}
		deps.Provider = usecase.NewResilientProvider(appLog, primaryModel, fallbackModel, timeout)
	}

	// Qdrant semantic cache for tutor chat; needs genai for embeddings
	if cfg.QdrantHost != "" && genaiClient != nil {
		qClient, err := qdrant.NewClient(&qdrant.Config{
			Host: cfg.QdrantHost,
			Port: cfg.QdrantPort,
		})
		if err != nil {
			appLog.Fatal("failed to connect to qdrant", "error", err)
		}
		vectorStore := store.NewQdrantStore(qClient, cfg.QdrantCollection, appLog)
		if err := vectorStore.InitCollection(ctx, client.EmbeddingDim); err != nil {
			appLog.Warn("qdrant collection init failed, answer cache disabled", "error", err)
		} else {
			deps.Cache = vectorStore
			deps.Embedder = client.NewEmbedderFromClient(genaiClient, cfg.EmbedModel)
			deps.Matcher = client.NewGeminiEvaluator(genaiClient, cfg.GeminiModel)
			deps.Tagger = client.NewGeminiTagger(genaiClient, cfg.GeminiFallbackModel)
		}
	}

	assistant := usecase.NewOrchestrator(deps)

	if deps.Embedder != nil {
		go func() {
			warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := deps.Embedder.CreateEmbedding(warmCtx, "warmup"); err != nil {
				appLog.Warn("embedder warm-up failed", "error", err)
				return
			}
			appLog.Info("embedder warm-up complete")
		}()
	}

	maxUpload := int64(cfg.MaxUploadMB) << 20
	app := api.NewApp("AI Student Assistant", int(maxUpload)+1<<20, appLog, cfg.Debug())
	handler := api.NewHandler(assistant, extract.New(maxUpload), appLog, api.Options{
		Debug:       cfg.Debug(),
		Environment: cfg.Env,
		Version:     cfg.AppVersion,
		MaxUpload:   maxUpload,
	})
	api.SetupRouter(app, handler, cfg.AllowedOrigins())

	appLog.Info("AI Student Assistant API listening", "port", cfg.Port, "env", cfg.Env, "provider", cfg.Provider)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Fatal("server stopped", "error", err)
	}
}
