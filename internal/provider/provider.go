package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// Model keys accepted on the wire.
const (
	ModelGPT    = "gpt"
	ModelGemini = "gemini"
)

// Reply is the structured chat reply every backend must produce.
type Reply struct {
	Conversation  []domain.Utterance `json:"conversation"`
	ImageSelected string             `json:"image_selected"`
	Summary       string             `json:"summary"`
}

// Summary is the structured reply of a summarize call.
type Summary struct {
	Result string `json:"result"`
}

// Provider is one interchangeable LLM backend. Implementations must return a
// parsed structured value or fail with an upstream error; they never leak raw
// provider output as an error message.
type Provider interface {
	Name() string
	Send(ctx context.Context, turns []domain.Turn, systemPrompt string) (*Reply, error)
	Summarize(ctx context.Context, text, systemPrompt string) (*Summary, error)
}

func upstreamError(model string, cause error) *domain.AppError {
	return domain.NewAppError(
		fmt.Sprintf("Could not get response from %s", model),
		http.StatusBadGateway,
		domain.CodeUpstream,
		cause,
	)
}

func toMessageContent(turns []domain.Turn, systemPrompt string) []llms.MessageContent {
	msgs := make([]llms.MessageContent, 0, len(turns)+1)
	if systemPrompt != "" {
		msgs = append(msgs, llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt))
	}
	for _, t := range turns {
		msgs = append(msgs, llms.TextParts(roleToMessageType(t.Role), t.Content))
	}
	return msgs
}

func roleToMessageType(role domain.Role) schema.ChatMessageType {
	switch role {
	case domain.RoleAssistant:
		return schema.ChatMessageTypeAI
	case domain.RoleSystem:
		return schema.ChatMessageTypeSystem
	default:
		return schema.ChatMessageTypeHuman
	}
}

// generate runs one JSON-mode completion and returns the raw text of the
// first choice.
func generate(ctx context.Context, client llms.Model, msgs []llms.MessageContent, temperature, topP float64, maxTokens int) (string, error) {
	resp, err := client.GenerateContent(ctx, msgs,
		llms.WithTemperature(temperature),
		llms.WithTopP(topP),
		llms.WithMaxTokens(maxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return resp.Choices[0].Content, nil
}
