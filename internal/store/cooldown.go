package store

import (
	"context"
	"errors"
	"net/http"

	"github.com/SoJune1023/Dive-Chat-Prototype/infra/database"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cooldown is the last-request timestamp of one gated action for one user.
type Cooldown struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	UserID        string `gorm:"uniqueIndex:idx_user_purpose;size:255;not null"`
	Purpose       string `gorm:"uniqueIndex:idx_user_purpose;size:64;not null"`
	LastRequestTS int64  `gorm:"column:last_request_ts;not null"`
}

func (Cooldown) TableName() string {
	return "cooldowns"
}

type CooldownRepository struct {
	db *database.PostgresDB
}

func NewCooldownRepository(db *database.PostgresDB) *CooldownRepository {
	return &CooldownRepository{db: db}
}

// LoadLastRequestTime treats a missing row like a missing user: the account
// was never provisioned for this purpose.
func (r *CooldownRepository) LoadLastRequestTime(ctx context.Context, userID, purpose string) (int64, error) {
	var row Cooldown
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ?", userID, purpose).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.NewClientError("User not found", http.StatusNotFound, domain.CodeUserNotFound)
	}
	if err != nil {
		return 0, domain.NewAppError("Database error", http.StatusInternalServerError, domain.CodeDatabase, err)
	}
	if row.LastRequestTS < 0 {
		return 0, domain.NewAppError("Invalid user data", http.StatusInternalServerError, domain.CodeInvalidUserData, nil)
	}
	return row.LastRequestTS, nil
}

func (r *CooldownRepository) RecordRequestTime(ctx context.Context, userID, purpose string, ts int64) error {
	row := Cooldown{UserID: userID, Purpose: purpose, LastRequestTS: ts}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "purpose"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_request_ts"}),
		}).
		Create(&row).Error
	if err != nil {
		return domain.NewAppError("Database error", http.StatusInternalServerError, domain.CodeDatabase, err)
	}
	return nil
}

// SeedPurposes provisions zero-timestamp rows so a fresh account passes its
// first cooldown check. Existing rows are left untouched.
func (r *CooldownRepository) SeedPurposes(ctx context.Context, userID string) error {
	rows := make([]Cooldown, 0, len(domain.Purposes))
	for _, purpose := range domain.Purposes {
		rows = append(rows, Cooldown{UserID: userID, Purpose: purpose, LastRequestTS: 0})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "purpose"}},
			DoNothing: true,
		}).
		Create(&rows).Error
	if err != nil {
		return domain.NewAppError("Database error", http.StatusInternalServerError, domain.CodeDatabase, err)
	}
	return nil
}
