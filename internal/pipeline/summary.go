package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/provider"
)

// SummaryConfig carries the knobs of the summarization flow.
type SummaryConfig struct {
	MaxPrevConversation int
	SummaryCooldownSec  int64
	UploadCooldownSec   int64
	SystemPrompt        string
	DefaultModel        string
}

// SummaryPipeline condenses conversation history into a persisted user note.
// Summarize and UploadNote carry their own cooldown gates; a failed
// summarization never advances the cooldown clock and a failed upload never
// corrupts the stored note.
type SummaryPipeline struct {
	cooldown *CooldownGate
	notes    domain.NoteStore
	registry *provider.Registry
	cfg      SummaryConfig
}

func NewSummaryPipeline(cooldown *CooldownGate, notes domain.NoteStore, registry *provider.Registry, cfg SummaryConfig) *SummaryPipeline {
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = provider.ModelGPT
	}
	return &SummaryPipeline{
		cooldown: cooldown,
		notes:    notes,
		registry: registry,
		cfg:      cfg,
	}
}

// FormatSummaryInput joins the non-empty top-level segments with " || " in
// fixed order. Bounded input keeps the prompt size deterministic.
func FormatSummaryInput(userName string, prevSummaryItem []string, prevUserNote string, prevConversation []domain.SummaryTurn) string {
	segments := []string{"User name: " + userName}

	if len(prevSummaryItem) > 0 {
		segments = append(segments, "Conversation Summary: "+strings.Join(prevSummaryItem, ", "))
	}
	if strings.TrimSpace(prevUserNote) != "" {
		segments = append(segments, "Previous UserNote: "+strings.TrimSpace(prevUserNote))
	}
	if len(prevConversation) > 0 {
		pairs := make([]string, 0, len(prevConversation))
		for _, turn := range prevConversation {
			pairs = append(pairs, fmt.Sprintf("user: %s, system: %s", turn.User, turn.System))
		}
		segments = append(segments, "Conversation: "+strings.Join(pairs, " | "))
	}
	return strings.Join(segments, " || ")
}

func (p *SummaryPipeline) Summarize(ctx context.Context, payload *SummaryPayload) (*domain.SummaryResult, error) {
	if payload == nil || strings.TrimSpace(payload.UserID) == "" || strings.TrimSpace(payload.UserName) == "" {
		return nil, domain.NewClientError("Wrong payload", http.StatusBadRequest, domain.CodeWrongPayload)
	}

	// Oversized history is the caller's mistake; reject instead of silently
	// truncating so the client can detect and correct it.
	if len(payload.PrevConversation) > p.cfg.MaxPrevConversation {
		return nil, domain.NewClientError("Too many conversation items", http.StatusBadRequest, domain.CodeConversationLen).
			WithDetails(map[string]any{"max": p.cfg.MaxPrevConversation})
	}

	if err := p.cooldown.Check(ctx, payload.UserID, domain.PurposeSummary, p.cfg.SummaryCooldownSec); err != nil {
		return nil, err
	}

	input := FormatSummaryInput(payload.UserName, payload.PrevSummaryItem, payload.PrevUserNote, payload.PrevConversation)

	model := payload.Model
	if strings.TrimSpace(model) == "" {
		model = p.cfg.DefaultModel
	}
	backend, err := p.registry.Lookup(model)
	if err != nil {
		return nil, err
	}
	summary, err := backend.Summarize(ctx, input, p.cfg.SystemPrompt)
	if err != nil {
		return nil, err
	}

	// Recording happens only after a successful dispatch. A record fault is
	// an infrastructure problem; the produced summary is still returned.
	if err := p.cooldown.Record(ctx, payload.UserID, domain.PurposeSummary); err != nil {
		slog.Error("failed to record summary cooldown", "user_id", payload.UserID, "error", err)
	}

	return &domain.SummaryResult{Result: summary.Result}, nil
}

// UploadNote persists a new note behind its own cooldown gate.
func (p *SummaryPipeline) UploadNote(ctx context.Context, payload *UploadPayload) error {
	if payload == nil || strings.TrimSpace(payload.UserID) == "" || strings.TrimSpace(payload.NewNoteText) == "" {
		return domain.NewClientError("Wrong payload", http.StatusBadRequest, domain.CodeWrongPayload)
	}

	if err := p.cooldown.Check(ctx, payload.UserID, domain.PurposeUpload, p.cfg.UploadCooldownSec); err != nil {
		return err
	}

	if err := p.notes.UpsertNote(ctx, payload.UserID, payload.NewNoteText); err != nil {
		return err
	}

	if err := p.cooldown.Record(ctx, payload.UserID, domain.PurposeUpload); err != nil {
		slog.Error("failed to record upload cooldown", "user_id", payload.UserID, "error", err)
	}
	return nil
}

// Enter provisions the cooldown rows on session entry so the gates' 404 path
// only fires for accounts that were never seen.
func (p *SummaryPipeline) Enter(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.NewClientError("Wrong payload", http.StatusBadRequest, domain.CodeWrongPayload)
	}
	return p.cooldown.Seed(ctx, userID)
}
