package provider

import (
	"context"

	"github.com/SoJune1023/Dive-Chat-Prototype/config"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// GeminiProvider serves the "gemini" model key.
type GeminiProvider struct {
	cache *ClientCache
	cfg   config.BackendConfig
}

func NewGeminiProvider(cache *ClientCache, cfg config.BackendConfig) *GeminiProvider {
	cache.Register(ModelGemini, func(ctx context.Context) (llms.Model, error) {
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	})
	return &GeminiProvider{cache: cache, cfg: cfg}
}

func (p *GeminiProvider) Name() string {
	return ModelGemini
}

func (p *GeminiProvider) Send(ctx context.Context, turns []domain.Turn, systemPrompt string) (*Reply, error) {
	client, err := p.cache.GetOrInit(ctx, ModelGemini)
	if err != nil {
		return nil, err
	}
	raw, err := generate(ctx, client, toMessageContent(turns, systemPrompt), p.cfg.Temperature, p.cfg.TopP, p.cfg.MaxTokens)
	if err != nil {
		return nil, upstreamError(ModelGemini, err)
	}
	var reply Reply
	if err := decodeStructured(raw, &reply); err != nil {
		return nil, upstreamError(ModelGemini, err)
	}
	return &reply, nil
}

func (p *GeminiProvider) Summarize(ctx context.Context, text, systemPrompt string) (*Summary, error) {
	client, err := p.cache.GetOrInit(ctx, ModelGemini)
	if err != nil {
		return nil, err
	}
	msgs := toMessageContent([]domain.Turn{{Role: domain.RoleUser, Content: text}}, systemPrompt)
	raw, err := generate(ctx, client, msgs, p.cfg.Temperature, p.cfg.TopP, p.cfg.MaxTokens)
	if err != nil {
		return nil, upstreamError(ModelGemini, err)
	}
	var summary Summary
	if err := decodeStructured(raw, &summary); err != nil {
		return nil, upstreamError(ModelGemini, err)
	}
	return &summary, nil
}
