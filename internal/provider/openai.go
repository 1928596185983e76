package provider

import (
	"context"

	"github.com/SoJune1023/Dive-Chat-Prototype/config"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIProvider serves the "gpt" model key.
type OpenAIProvider struct {
	cache *ClientCache
	cfg   config.BackendConfig
}

func NewOpenAIProvider(cache *ClientCache, cfg config.BackendConfig) *OpenAIProvider {
	cache.Register(ModelGPT, func(ctx context.Context) (llms.Model, error) {
		return openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		)
	})
	return &OpenAIProvider{cache: cache, cfg: cfg}
}

func (p *OpenAIProvider) Name() string {
	return ModelGPT
}

func (p *OpenAIProvider) Send(ctx context.Context, turns []domain.Turn, systemPrompt string) (*Reply, error) {
	client, err := p.cache.GetOrInit(ctx, ModelGPT)
	if err != nil {
		return nil, err
	}
	raw, err := generate(ctx, client, toMessageContent(turns, systemPrompt), p.cfg.Temperature, p.cfg.TopP, p.cfg.MaxTokens)
	if err != nil {
		return nil, upstreamError(ModelGPT, err)
	}
	var reply Reply
	if err := decodeStructured(raw, &reply); err != nil {
		return nil, upstreamError(ModelGPT, err)
	}
	return &reply, nil
}

func (p *OpenAIProvider) Summarize(ctx context.Context, text, systemPrompt string) (*Summary, error) {
	client, err := p.cache.GetOrInit(ctx, ModelGPT)
	if err != nil {
		return nil, err
	}
	msgs := toMessageContent([]domain.Turn{{Role: domain.RoleUser, Content: text}}, systemPrompt)
	raw, err := generate(ctx, client, msgs, p.cfg.Temperature, p.cfg.TopP, p.cfg.MaxTokens)
	if err != nil {
		return nil, upstreamError(ModelGPT, err)
	}
	var summary Summary
	if err := decodeStructured(raw, &summary); err != nil {
		return nil, upstreamError(ModelGPT, err)
	}
	return &summary, nil
}
