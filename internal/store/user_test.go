package store

import (
	"errors"
	"net/http"
	"testing"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateCreateErrorDuplicateKey(t *testing.T) {
	err := translateCreateError(gorm.ErrDuplicatedKey)

	ce, ok := domain.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, ce.HTTPStatus)
	assert.Equal(t, "User already exists", ce.Message)
	assert.Equal(t, domain.CodeUserExists, ce.Code)
}

func TestTranslateCreateErrorOtherFault(t *testing.T) {
	cause := errors.New("connection reset")
	err := translateCreateError(cause)

	ae, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, ae.HTTPStatus)
	assert.Equal(t, domain.CodeDatabase, ae.Code)
	assert.ErrorIs(t, ae, cause)
}
