package account

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"
	"github.com/SoJune1023/Dive-Chat-Prototype/internal/security"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// RegisterPayload mirrors the wire shape of POST /register.
type RegisterPayload struct {
	UserInfo UserInfo `json:"user_info" binding:"required"`
}

type UserInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SigninPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterResult struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

type SigninResult struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Service normalizes registration input, hashes credentials and provisions
// new accounts.
type Service struct {
	users         domain.UserStore
	cooldowns     domain.CooldownStore
	encoder       *security.BcryptService
	tokens        *security.JWTService
	defaultRegion string
}

func NewService(users domain.UserStore, cooldowns domain.CooldownStore, encoder *security.BcryptService, tokens *security.JWTService, defaultRegion string) *Service {
	if defaultRegion == "" {
		defaultRegion = "KR"
	}
	return &Service{
		users:         users,
		cooldowns:     cooldowns,
		encoder:       encoder,
		tokens:        tokens,
		defaultRegion: defaultRegion,
	}
}

func (s *Service) Register(ctx context.Context, payload *RegisterPayload) (*RegisterResult, error) {
	email, err := NormalizeEmail(payload.UserInfo.Email)
	if err != nil {
		return nil, err
	}
	phone, err := NormalizePhone(payload.UserInfo.Phone, s.defaultRegion)
	if err != nil {
		return nil, err
	}
	if !security.ValidatePolicy(payload.UserInfo.Password) {
		return nil, domain.NewClientError("Invalid password format", http.StatusBadRequest, domain.CodeInvalidPassword)
	}
	hashed, err := s.encoder.Hash(payload.UserInfo.Password)
	if err != nil {
		return nil, domain.Internal("Something went wrong while register", err)
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, domain.NewClientError("User already exists", http.StatusBadRequest, domain.CodeUserExists)
	} else if _, ok := domain.AsClientError(err); !ok {
		return nil, err
	}

	credit := 0
	user := &domain.User{
		UserID:   uuid.NewString(),
		Name:     payload.UserInfo.Name,
		Email:    email,
		Phone:    phone,
		Password: hashed,
		Credit:   &credit,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	// Provision cooldown rows up front; the gates treat a missing row as an
	// unknown account.
	if err := s.cooldowns.SeedPurposes(ctx, user.UserID); err != nil {
		return nil, err
	}

	return &RegisterResult{UserID: user.UserID, Email: email, Phone: phone}, nil
}

func (s *Service) SignIn(ctx context.Context, payload *SigninPayload) (*SigninResult, error) {
	email, err := NormalizeEmail(payload.Email)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !s.encoder.Compare(user.Password, payload.Password) {
		return nil, domain.NewClientError("Invalid password", http.StatusForbidden, domain.CodeInvalidPassword)
	}

	accessToken, expiresAt, err := s.tokens.GenerateAccessToken(user.UserID, user.Name)
	if err != nil {
		return nil, domain.Internal("Could not generate token", err)
	}
	refreshToken, _, err := s.tokens.GenerateRefreshToken(user.UserID, user.Name)
	if err != nil {
		return nil, domain.Internal("Could not generate token", err)
	}

	return &SigninResult{
		UserID:       user.UserID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt.Unix(),
	}, nil
}

// NormalizeEmail lowercases and syntax-checks an address.
func NormalizeEmail(raw string) (string, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", domain.NewClientError("Invalid email format", http.StatusBadRequest, domain.CodeInvalidEmail)
	}
	return addr.Address, nil
}

// NormalizePhone parses a raw number and formats it as E.164. Numbers with a
// leading "+" carry their own region.
func NormalizePhone(raw, defaultRegion string) (string, error) {
	raw = strings.TrimSpace(raw)
	region := defaultRegion
	if strings.HasPrefix(raw, "+") {
		region = ""
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsPossibleNumber(num) || !phonenumbers.IsValidNumber(num) {
		return "", domain.NewClientError("Invalid phone number format", http.StatusBadRequest, domain.CodeInvalidPhone)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
