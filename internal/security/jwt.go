package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JWTService struct {
	secretKey         string
	expirationAccess  time.Duration
	expirationRefresh time.Duration
}

type Claims struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

type TokenClaims struct {
	UserID    string
	UserName  string
	ExpiresAt time.Time
}

func NewJWTService(secretKey string, expirationAccessH, expirationRefreshH int) *JWTService {
	return &JWTService{
		secretKey:         secretKey,
		expirationAccess:  time.Duration(expirationAccessH) * time.Hour,
		expirationRefresh: time.Duration(expirationRefreshH) * time.Hour,
	}
}

func (j *JWTService) GenerateAccessToken(userID, userName string) (string, time.Time, error) {
	return j.generate(userID, userName, "access", j.expirationAccess)
}

func (j *JWTService) GenerateRefreshToken(userID, userName string) (string, time.Time, error) {
	return j.generate(userID, userName, "refresh", j.expirationRefresh)
}

func (j *JWTService) generate(userID, userName, subject string, expiration time.Duration) (string, time.Time, error) {
	claims := &Claims{
		UserID:   userID,
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(j.secretKey))
	return tokenStr, claims.ExpiresAt.Time, err
}

func (j *JWTService) ValidateToken(tokenStr string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.secretKey), nil
		})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return &TokenClaims{
			UserID:    claims.UserID,
			UserName:  claims.UserName,
			ExpiresAt: claims.ExpiresAt.Time,
		}, nil
	}

	return nil, fmt.Errorf("invalid token")
}
