package store

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/SoJune1023/Dive-Chat-Prototype/infra/database"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"

	"gorm.io/gorm"
)

// PublicPrompt is an operator-curated shared system prompt. Only approved
// rows are resolvable from the chat pipeline, so callers cannot inject
// arbitrary system prompts by key.
type PublicPrompt struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Key       string    `json:"key" gorm:"uniqueIndex;size:255;not null"`
	Prompt    string    `json:"prompt" gorm:"type:text;not null"`
	Approved  bool      `json:"approved" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (PublicPrompt) TableName() string {
	return "public_prompts"
}

type PromptRepository struct {
	db *database.PostgresDB
}

func NewPromptRepository(db *database.PostgresDB) *PromptRepository {
	return &PromptRepository{db: db}
}

func (r *PromptRepository) ResolveApproved(ctx context.Context, key string) (string, error) {
	var row PublicPrompt
	err := r.db.WithContext(ctx).
		Where("key = ? AND approved = ?", key, true).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.NewClientError("Wrong public prompt", http.StatusBadRequest, domain.CodeWrongPromptKey)
	}
	if err != nil {
		return "", domain.NewAppError("Database error", http.StatusInternalServerError, domain.CodeDatabase, err)
	}
	return row.Prompt, nil
}

// UploadPrompt stores a new prompt in the unapproved state.
func (r *PromptRepository) UploadPrompt(ctx context.Context, key, prompt string) (*PublicPrompt, error) {
	row := &PublicPrompt{Key: key, Prompt: prompt}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, domain.NewAppError("Database error", http.StatusInternalServerError, domain.CodeDatabase, err)
	}
	return row, nil
}

func (r *PromptRepository) ApprovePrompt(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&PublicPrompt{}).
		Where("id = ?", id).
		Update("approved", true)
	if res.Error != nil {
		return domain.NewAppError("Database error", http.StatusInternalServerError, domain.CodeDatabase, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NewClientError("Prompt not found", http.StatusNotFound, domain.CodeWrongPromptKey)
	}
	return nil
}
