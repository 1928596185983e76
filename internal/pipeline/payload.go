package pipeline

import (
	"net/http"
	"strings"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"
)

// ChatPayload mirrors the wire shape of POST /onSend. Structural validation
// (presence, types) happens at the binding layer; semantic defaulting of the
// optional strings happens in extractChat.
type ChatPayload struct {
	User      ChatUser      `json:"user" binding:"required"`
	Character ChatCharacter `json:"character" binding:"required"`
}

type ChatUser struct {
	UserID    string        `json:"user_id" binding:"required"`
	Model     string        `json:"model" binding:"required"`
	Message   string        `json:"message"`
	Note      string        `json:"note"`
	Previous  []domain.Turn `json:"previous"`
	MaxCredit int           `json:"max_credit" binding:"required"`
	SessionID string        `json:"session_id"`
}

type ChatCharacter struct {
	Prompt       string               `json:"prompt" binding:"required"`
	PublicPrompt string               `json:"public_prompt" binding:"required"`
	ImgDefault   string               `json:"img_default"`
	ImgList      []domain.ImageChoice `json:"img_list"`
}

// chatInput is the ordered tuple of fields the downstream flow needs.
type chatInput struct {
	userID          string
	model           string
	message         string
	note            string
	previous        []domain.Turn
	maxCredit       int
	characterPrompt string
	publicPromptKey string
	imgDefault      string
	imgList         []domain.ImageChoice
	sessionID       string
}

// extractChat pulls the fields out of a bound payload and applies semantic
// defaulting: whitespace-only optional strings become absent.
func extractChat(payload *ChatPayload) (*chatInput, error) {
	if payload == nil || strings.TrimSpace(payload.User.UserID) == "" ||
		strings.TrimSpace(payload.User.Model) == "" {
		return nil, domain.NewClientError("Wrong payload", http.StatusBadRequest, domain.CodeWrongPayload)
	}

	in := &chatInput{
		userID:          strings.TrimSpace(payload.User.UserID),
		model:           strings.TrimSpace(payload.User.Model),
		message:         strings.TrimSpace(payload.User.Message),
		note:            strings.TrimSpace(payload.User.Note),
		previous:        payload.User.Previous,
		maxCredit:       payload.User.MaxCredit,
		characterPrompt: payload.Character.Prompt,
		publicPromptKey: strings.TrimSpace(payload.Character.PublicPrompt),
		imgDefault:      strings.TrimSpace(payload.Character.ImgDefault),
		imgList:         payload.Character.ImgList,
		sessionID:       payload.User.SessionID,
	}
	return in, nil
}

// SummaryPayload mirrors the wire shape of POST /onSummary.
type SummaryPayload struct {
	UserID           string               `json:"user_id" binding:"required"`
	UserName         string               `json:"user_name" binding:"required"`
	Model            string               `json:"model"`
	PrevSummaryItem  []string             `json:"prevSummaryItem"`
	PrevUserNote     string               `json:"prevUserNote"`
	PrevConversation []domain.SummaryTurn `json:"prevConversation"`
}

// UploadPayload mirrors the wire shape of POST /onUpload.
type UploadPayload struct {
	UserID      string `json:"user_id" binding:"required"`
	NewNoteText string `json:"new_note_text" binding:"required"`
}
