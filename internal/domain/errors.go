package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried to the client next to the generic message.
const (
	CodeUnknown         = "ERR_UNKNOWN"
	CodeWrongPayload    = "ERR_WRONG_PAYLOAD"
	CodeUserNotFound    = "ERR_USER_NOT_FOUND"
	CodeInvalidUserData = "ERR_INVALID_USER_DATA"
	CodeDatabase        = "ERR_DATABASE"
	CodeOutOfCredit     = "ERR_OUT_OF_CREDIT"
	CodeCreditBand      = "ERR_CREDIT_BAND"
	CodeRateLimited     = "ERR_RATE_LIMITED"
	CodeWrongModel      = "ERR_WRONG_MODEL"
	CodeWrongPromptKey  = "ERR_WRONG_PROMPT_KEY"
	CodeUpstream        = "ERR_UPSTREAM"
	CodeClientInit      = "ERR_CLIENT_INIT"
	CodeConversationLen = "ERR_CONVERSATION_TOO_LONG"
	CodeInvalidEmail    = "ERR_INVALID_EMAIL"
	CodeInvalidPhone    = "ERR_INVALID_PHONE"
	CodeInvalidPassword = "ERR_INVALID_PASSWORD"
	CodeUserExists      = "ERR_USER_EXISTS"
)

// ClientError is a caller-fixable failure: bad payload, unknown model or prompt
// key, out of credit, rate limited, unknown user. It maps straight to its HTTP
// status and is never logged at error severity.
type ClientError struct {
	Message    string
	HTTPStatus int
	Code       string
	Details    map[string]any
}

func (e *ClientError) Error() string {
	return e.Message
}

// AppError is a server or infrastructure failure: store faults, data integrity
// violations, provider construction or call faults. It wraps the underlying
// cause for logging; the cause never crosses the HTTP boundary.
type AppError struct {
	Message    string
	HTTPStatus int
	Code       string
	Details    map[string]any
	cause      error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewClientError(message string, status int, code string) *ClientError {
	if code == "" {
		code = CodeUnknown
	}
	return &ClientError{Message: message, HTTPStatus: status, Code: code}
}

func (e *ClientError) WithDetails(details map[string]any) *ClientError {
	e.Details = details
	return e
}

func NewAppError(message string, status int, code string, cause error) *AppError {
	if code == "" {
		code = CodeUnknown
	}
	return &AppError{Message: message, HTTPStatus: status, Code: code, cause: cause}
}

// Internal wraps an unexpected fault as a plain 500.
func Internal(message string, cause error) *AppError {
	return NewAppError(message, http.StatusInternalServerError, CodeUnknown, cause)
}

func AsClientError(err error) (*ClientError, bool) {
	var ce *ClientError
	ok := errors.As(err, &ce)
	return ce, ok
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}
