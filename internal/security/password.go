package security

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

const allowedSymbols = "!@#$%^&*()"

type BcryptService struct{}

func NewBcryptService() *BcryptService {
	return &BcryptService{}
}

func (s *BcryptService) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (s *BcryptService) Compare(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// ValidatePolicy enforces the password policy: at least 8 characters drawn
// from letters, digits and !@#$%^&*(), with at least one upper, one lower,
// one digit and one symbol.
func ValidatePolicy(password string) bool {
	if len(password) < minPasswordLen {
		return false
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r) && r <= unicode.MaxASCII:
			hasUpper = true
		case unicode.IsLower(r) && r <= unicode.MaxASCII:
			hasLower = true
		case unicode.IsDigit(r) && r <= unicode.MaxASCII:
			hasDigit = true
		case strings.ContainsRune(allowedSymbols, r):
			hasSymbol = true
		default:
			return false
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}
