package pipeline

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/provider"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePromptStore struct {
	prompts map[string]string
}

func (f *fakePromptStore) ResolveApproved(_ context.Context, key string) (string, error) {
	prompt, ok := f.prompts[key]
	if !ok {
		return "", domain.NewClientError("Wrong public prompt", http.StatusBadRequest, domain.CodeWrongPromptKey)
	}
	return prompt, nil
}

type fakeProvider struct {
	name         string
	reply        *provider.Reply
	summary      *provider.Summary
	err          error
	sentTurns    []domain.Turn
	sentSystem   string
	summaryText  string
	summaryCalls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Send(_ context.Context, turns []domain.Turn, systemPrompt string) (*provider.Reply, error) {
	f.sentTurns = turns
	f.sentSystem = systemPrompt
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeProvider) Summarize(_ context.Context, text, _ string) (*provider.Summary, error) {
	f.summaryCalls++
	f.summaryText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func validChatPayload() *ChatPayload {
	return &ChatPayload{
		User: ChatUser{
			UserID:    "u1",
			Model:     "gpt",
			Message:   "hello there",
			MaxCredit: 10,
			Previous: []domain.Turn{
				{Role: domain.RoleAssistant, Content: "welcome"},
			},
		},
		Character: ChatCharacter{
			Prompt:       "Act in character.",
			PublicPrompt: "default",
		},
	}
}

func newChatPipeline(backend *fakeProvider, credits map[string]int) (*ChatPipeline, *fakeCooldownStore) {
	creditGate := NewCreditGate(&fakeCreditStore{credits: credits}, 0, 1000)
	cooldowns := &fakeCooldownStore{timestamps: map[string]int64{}}
	for userID := range credits {
		cooldowns.timestamps[cooldownKey(userID, domain.PurposeEvaluation)] = 0
	}
	cooldownGate := NewCooldownGate(cooldowns, func() time.Time { return time.Unix(1_700_000_000, 0).UTC() })
	prompts := &fakePromptStore{prompts: map[string]string{"default": "You are a character."}}
	return NewChatPipeline(creditGate, cooldownGate, prompts, provider.NewRegistry(backend), 60), cooldowns
}

func TestChatPipelineSuccess(t *testing.T) {
	backend := &fakeProvider{
		name: "gpt",
		reply: &provider.Reply{
			Conversation:  []domain.Utterance{{Said: "Mira", Context: "Hi!"}},
			ImageSelected: "https://cdn.example.com/happy.png",
			Summary:       "greeted the user",
		},
	}
	p, cooldowns := newChatPipeline(backend, map[string]int{"u1": 50})

	result, err := p.Handle(context.Background(), validChatPayload())
	require.NoError(t, err)

	assert.Equal(t, []domain.Utterance{{Said: "Mira", Context: "Hi!"}}, result.Conversation)
	assert.Equal(t, "https://cdn.example.com/happy.png", result.ImageSelected)
	assert.Equal(t, "greeted the user", result.Summary)
	_, uuidErr := uuid.Parse(result.SessionID)
	assert.NoError(t, uuidErr)

	// History plus exactly one appended user turn reached the backend.
	require.Len(t, backend.sentTurns, 2)
	assert.Equal(t, domain.RoleUser, backend.sentTurns[1].Role)
	assert.Equal(t, "hello there", backend.sentTurns[1].Content)
	assert.Equal(t, "You are a character.\nAct in character.", backend.sentSystem)

	// Success consumes the evaluation cooldown window.
	assert.Equal(t, int64(1_700_000_000), cooldowns.timestamps[cooldownKey("u1", domain.PurposeEvaluation)])
}

func TestChatPipelineCooldownRejected(t *testing.T) {
	backend := &fakeProvider{name: "gpt", reply: &provider.Reply{}}
	p, cooldowns := newChatPipeline(backend, map[string]int{"u1": 50})
	cooldowns.timestamps[cooldownKey("u1", domain.PurposeEvaluation)] = 1_700_000_000 - 10

	_, err := p.Handle(context.Background(), validChatPayload())
	ce, ok := domain.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, ce.HTTPStatus)
	assert.Nil(t, backend.sentTurns)
}

func TestChatPipelineKeepsValidSessionID(t *testing.T) {
	backend := &fakeProvider{name: "gpt", reply: &provider.Reply{}}
	p, _ := newChatPipeline(backend, map[string]int{"u1": 50})

	payload := validChatPayload()
	payload.User.SessionID = "018f4e7c-9d1a-7b3e-8c4d-2a6f1e9b0c5d"

	result, err := p.Handle(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "018f4e7c-9d1a-7b3e-8c4d-2a6f1e9b0c5d", result.SessionID)
}

func TestChatPipelineUnknownModel(t *testing.T) {
	backend := &fakeProvider{name: "gpt", reply: &provider.Reply{}}
	p, _ := newChatPipeline(backend, map[string]int{"u1": 50})

	payload := validChatPayload()
	payload.User.Model = "unknown"

	_, err := p.Handle(context.Background(), payload)
	ce, ok := domain.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ce.HTTPStatus)
	assert.Equal(t, "Wrong AI model", ce.Message)
}

func TestChatPipelineUnknownUser(t *testing.T) {
	backend := &fakeProvider{name: "gpt", reply: &provider.Reply{}}
	p, _ := newChatPipeline(backend, map[string]int{})

	_, err := p.Handle(context.Background(), validChatPayload())
	ce, ok := domain.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, ce.HTTPStatus)
	assert.Equal(t, "User not found", ce.Message)
}

func TestChatPipelineUnknownPromptKey(t *testing.T) {
	backend := &fakeProvider{name: "gpt", reply: &provider.Reply{}}
	p, _ := newChatPipeline(backend, map[string]int{"u1": 50})

	payload := validChatPayload()
	payload.Character.PublicPrompt = "not-a-key"

	_, err := p.Handle(context.Background(), payload)
	ce, ok := domain.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ce.HTTPStatus)
	assert.Equal(t, domain.CodeWrongPromptKey, ce.Code)
}

func TestChatPipelineUpstreamFault(t *testing.T) {
	backend := &fakeProvider{
		name: "gpt",
		err:  domain.NewAppError("Could not get response from gpt", http.StatusBadGateway, domain.CodeUpstream, nil),
	}
	p, _ := newChatPipeline(backend, map[string]int{"u1": 50})

	_, err := p.Handle(context.Background(), validChatPayload())
	ae, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
}

func TestChatPipelineNilConversationBecomesEmpty(t *testing.T) {
	backend := &fakeProvider{name: "gpt", reply: &provider.Reply{ImageSelected: "https://x/a.png"}}
	p, _ := newChatPipeline(backend, map[string]int{"u1": 50})

	result, err := p.Handle(context.Background(), validChatPayload())
	require.NoError(t, err)
	assert.NotNil(t, result.Conversation)
	assert.Empty(t, result.Conversation)
}

func TestChatPipelineDefaultImage(t *testing.T) {
	backend := &fakeProvider{name: "gpt", reply: &provider.Reply{}}
	p, _ := newChatPipeline(backend, map[string]int{"u1": 50})

	payload := validChatPayload()
	payload.Character.ImgDefault = "https://cdn.example.com/neutral.png"

	result, err := p.Handle(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/neutral.png", result.ImageSelected)
}

func TestExtractChatDefaulting(t *testing.T) {
	payload := validChatPayload()
	payload.User.UserID = " u1 "
	payload.User.Message = "   "
	payload.User.Note = "\t"

	in, err := extractChat(payload)
	require.NoError(t, err)
	assert.Equal(t, "u1", in.userID)
	assert.Equal(t, "", in.message)
	assert.Equal(t, "", in.note)
}

func TestExtractChatMissingRequired(t *testing.T) {
	payload := validChatPayload()
	payload.User.UserID = "  "

	_, err := extractChat(payload)
	ce, ok := domain.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, "Wrong payload", ce.Message)
}
