package pipeline

import (
	"context"
	"log/slog"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/provider"
	"github.com/SoJune1023/Dive-Chat-Prototype/pkg/ids"
)

// ChatPipeline runs one chat request end to end: payload extraction, session
// resolution, credit and cooldown checks, prompt and message build, provider
// dispatch. Every stage is a potential exit point; there are no retries and
// no partial results.
type ChatPipeline struct {
	credit        *CreditGate
	cooldown      *CooldownGate
	prompts       domain.PromptStore
	registry      *provider.Registry
	evaluationSec int64
}

func NewChatPipeline(credit *CreditGate, cooldown *CooldownGate, prompts domain.PromptStore, registry *provider.Registry, evaluationSec int64) *ChatPipeline {
	return &ChatPipeline{
		credit:        credit,
		cooldown:      cooldown,
		prompts:       prompts,
		registry:      registry,
		evaluationSec: evaluationSec,
	}
}

func (p *ChatPipeline) Handle(ctx context.Context, payload *ChatPayload) (*domain.ChatResult, error) {
	in, err := extractChat(payload)
	if err != nil {
		return nil, err
	}

	sessionID := ids.ResolveSessionID(in.sessionID)

	if err := p.credit.Check(ctx, in.userID, in.maxCredit); err != nil {
		return nil, err
	}
	if err := p.cooldown.Check(ctx, in.userID, domain.PurposeEvaluation, p.evaluationSec); err != nil {
		return nil, err
	}

	publicPrompt, err := p.prompts.ResolveApproved(ctx, in.publicPromptKey)
	if err != nil {
		return nil, err
	}
	imgChoices := BuildImageChoices(in.imgList)
	systemPrompt := BuildPrompt(publicPrompt, in.characterPrompt, imgChoices, in.note)

	messages := BuildMessages(in.previous, in.message)

	backend, err := p.registry.Lookup(in.model)
	if err != nil {
		return nil, err
	}
	reply, err := backend.Send(ctx, messages, systemPrompt)
	if err != nil {
		return nil, err
	}

	// Recording happens only after a successful dispatch; a failed request
	// never consumes the cooldown window.
	if err := p.cooldown.Record(ctx, in.userID, domain.PurposeEvaluation); err != nil {
		slog.Error("failed to record evaluation cooldown", "user_id", in.userID, "error", err)
	}

	conversation := reply.Conversation
	if conversation == nil {
		conversation = []domain.Utterance{}
	}
	// A model that picked nothing falls back to the character's default image.
	imageSelected := reply.ImageSelected
	if imageSelected == "" {
		imageSelected = in.imgDefault
	}
	return &domain.ChatResult{
		Conversation:  conversation,
		ImageSelected: imageSelected,
		Summary:       reply.Summary,
		SessionID:     sessionID,
	}, nil
}
