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

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex;size:255;not null"`
	Name      string    `json:"name" gorm:"size:255"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone     string    `json:"phone" gorm:"uniqueIndex;size:32;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	Credit    *int      `json:"credit" gorm:"column:credit"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type UserRepository struct {
	db *database.PostgresDB
}

func NewUserRepository(db *database.PostgresDB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateUser(ctx context.Context, u *domain.User) error {
	row := &User{
		UserID:   u.UserID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Password: u.Password,
		Credit:   u.Credit,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return translateCreateError(err)
	}
	return nil
}

// translateCreateError maps a unique-constraint violation to the duplicate
// account error, so a register that loses the race to an identical email or
// phone fails the same way the pre-read check does.
func translateCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.NewClientError("User already exists", http.StatusBadRequest, domain.CodeUserExists)
	}
	return domain.NewAppError("Database error", http.StatusInternalServerError, domain.CodeDatabase, err)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewClientError("User not found", http.StatusNotFound, domain.CodeUserNotFound)
	}
	if err != nil {
		return nil, domain.NewAppError("Database error", http.StatusInternalServerError, domain.CodeDatabase, err)
	}
	return rowToUser(&row), nil
}

// LoadCredit reads the remaining balance for one request. A row with a NULL
// balance is a data-integrity fault, not an empty wallet.
func (r *UserRepository) LoadCredit(ctx context.Context, userID string) (int, error) {
	var row User
	err := r.db.WithContext(ctx).Select("credit").Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, domain.NewClientError("User not found", http.StatusNotFound, domain.CodeUserNotFound)
	}
	if err != nil {
		return 0, domain.NewAppError("Database error", http.StatusInternalServerError, domain.CodeDatabase, err)
	}
	if row.Credit == nil {
		return 0, domain.NewAppError("Invalid user data", http.StatusInternalServerError, domain.CodeInvalidUserData, nil)
	}
	return *row.Credit, nil
}

func rowToUser(row *User) *domain.User {
	return &domain.User{
		UserID:    row.UserID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		Password:  row.Password,
		Credit:    row.Credit,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
