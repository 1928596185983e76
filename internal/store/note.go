package store

import (
	"context"
	"net/http"
	"time"

	"github.com/SoJune1023/Dive-Chat-Prototype/infra/database"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"

	"gorm.io/gorm/clause"
)

// UserNote is the persisted summary note, one row per user.
type UserNote struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"uniqueIndex;size:255;not null"`
	Note      string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserNote) TableName() string {
	return "user_notes"
}

type NoteRepository struct {
	db *database.PostgresDB
}

func NewNoteRepository(db *database.PostgresDB) *NoteRepository {
	return &NoteRepository{db: db}
}

// UpsertNote replaces the stored note in a single statement; a failed call
// leaves the previous note intact.
func (r *NoteRepository) UpsertNote(ctx context.Context, userID, text string) error {
	row := UserNote{UserID: userID, Note: text}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"note", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return domain.NewAppError("Database error", http.StatusInternalServerError, domain.CodeDatabase, err)
	}
	return nil
}
