package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/SoJune1023/Dive-Chat-Prototype/config"
	"github.com/SoJune1023/Dive-Chat-Prototype/infra/cache"
	"github.com/SoJune1023/Dive-Chat-Prototype/infra/database"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/account"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/handler"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/handler/middleware"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/pipeline"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/provider"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/security"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := database.NewPostgresDB(cfg.Postgres)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()
	if err := db.CreateTables(&store.User{}, &store.Cooldown{}, &store.UserNote{}, &store.PublicPrompt{}); err != nil {
		log.Fatalf("failed to migrate tables: %v", err)
	}

	redisCache, err := cache.NewRedisCache(&cfg.Redis)
	if err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer redisCache.Close()

	users := store.NewUserRepository(db)
	cooldowns := store.NewCooldownRepository(db)
	notes := store.NewNoteRepository(db)
	prompts := store.NewPromptRepository(db)

	clientCache := provider.NewClientCache()
	registry := provider.NewRegistry(
		provider.NewOpenAIProvider(clientCache, cfg.Providers.OpenAI),
		provider.NewGeminiProvider(clientCache, cfg.Providers.Gemini),
	)
	if cfg.Providers.RefreshInterval > 0 {
		go refreshClients(clientCache, cfg.Providers.RefreshInterval)
	}

	creditGate := pipeline.NewCreditGate(users, cfg.Credit.MinCredit, cfg.Credit.Band)
	cooldownGate := pipeline.NewCooldownGate(cooldowns, time.Now)

	chatPipeline := pipeline.NewChatPipeline(creditGate, cooldownGate, prompts, registry, cfg.Cooldown.EvaluationSec)
	summaryPipeline := pipeline.NewSummaryPipeline(cooldownGate, notes, registry, pipeline.SummaryConfig{
		MaxPrevConversation: cfg.Summary.MaxPrevConversation,
		SummaryCooldownSec:  cfg.Cooldown.SummarySec,
		UploadCooldownSec:   cfg.Cooldown.UploadSec,
		SystemPrompt:        cfg.Summary.SystemPrompt,
	})

	tokens := security.NewJWTService(cfg.Auth.JwtSecret, cfg.Auth.ExpireAccessH, cfg.Auth.ExpireRefreshH)
	accounts := account.NewService(users, cooldowns, security.NewBcryptService(), tokens, cfg.Auth.DefaultRegion)

	chatHandler := handler.NewChatHandler(chatPipeline)
	noteHandler := handler.NewNoteHandler(summaryPipeline)
	accountHandler := handler.NewAccountHandler(accounts)
	promptHandler := handler.NewPromptHandler(prompts)

	r := gin.Default()
	r.Use(middleware.RateLimit(redisCache.Client(), redisCache.Key("rate_limit:"), cfg.Redis.RateLimitQPS))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"service":   cfg.ServerName,
			"timestamp": time.Now(),
		})
	})

	r.POST("/onSend", chatHandler.OnSend)
	r.POST("/onSummary", noteHandler.OnSummary)
	r.POST("/onUpload", noteHandler.OnUpload)
	r.POST("/onEnter", noteHandler.OnEnter)

	r.POST("/register", accountHandler.Register)
	r.POST("/signin", accountHandler.SignIn)

	admin := r.Group("/")
	admin.Use(middleware.JwtAuth(tokens))
	{
		admin.POST("/promptUpload", promptHandler.Upload)
		admin.POST("/promptApprove/:id", promptHandler.Approve)
	}

	slog.Info("gateway listening", "port", cfg.Port)
	log.Fatal(r.Run(fmt.Sprintf(":%d", cfg.Port)))
}

// refreshClients rebuilds the provider clients on an interval so rotated
// credentials are picked up without a restart.
func refreshClients(clientCache *provider.ClientCache, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		clientCache.Refresh(ctx)
		cancel()
	}
}
