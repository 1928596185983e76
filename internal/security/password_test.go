package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"all classes present", "Abcdef1!", true},
		{"longer mixed", "S3cure(pass)W0rd", true},
		{"too short", "Ab1!xyz", false},
		{"no upper", "abcdef1!", false},
		{"no lower", "ABCDEF1!", false},
		{"no digit", "Abcdefg!", false},
		{"no symbol", "Abcdefg1", false},
		{"disallowed symbol", "Abcdef1!~", false},
		{"whitespace rejected", "Abcdef1! ", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePolicy(tt.password))
		})
	}
}

func TestBcryptHashAndCompare(t *testing.T) {
	svc := NewBcryptService()

	hashed, err := svc.Hash("Abcdef1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", hashed)

	assert.True(t, svc.Compare(hashed, "Abcdef1!"))
	assert.False(t, svc.Compare(hashed, "Abcdef1?"))
	assert.False(t, svc.Compare("not-a-hash", "Abcdef1!"))
}

func TestJWTRoundTrip(t *testing.T) {
	tokens := NewJWTService("test-secret", 1, 24)

	access, expiresAt, err := tokens.GenerateAccessToken("u1", "Jun")
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := tokens.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "Jun", claims.UserName)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	tokens := NewJWTService("test-secret", 1, 24)
	other := NewJWTService("another-secret", 1, 24)

	access, _, err := tokens.GenerateAccessToken("u1", "Jun")
	require.NoError(t, err)

	_, err = other.ValidateToken(access)
	assert.Error(t, err)
}
