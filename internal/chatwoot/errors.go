package chatwoot

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// duplicateEmailMessage is the validation message Chatwoot returns with a 422
// when a contact with the same email already exists in the account.
const duplicateEmailMessage = "Email has already been taken"

var (
	// ErrMalformedResponse indicates a success response without the expected identifier
	ErrMalformedResponse = errors.New("malformed Chatwoot response")

	// ErrUnauthorized indicates the API token was rejected
	ErrUnauthorized = errors.New("authentication failed - check Chatwoot API token (administrator or agent, not super admin)")

	// ErrInboxNotFound indicates the configured inbox does not exist in the account
	ErrInboxNotFound = errors.New("Chatwoot inbox not found")
)

// APIError is a non-success response from the Chatwoot API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Chatwoot API error: status %d: %s", e.StatusCode, e.Body)
}

// IsRateLimited reports a 429 Too Many Requests response.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsDuplicateEmail reports the 422 conflict returned when creating a contact
// whose email is already registered.
func (e *APIError) IsDuplicateEmail() bool {
	return e.StatusCode == http.StatusUnprocessableEntity && strings.Contains(e.Body, duplicateEmailMessage)
}

// IsRateLimitError checks if err wraps a rate-limited APIError.
func IsRateLimitError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsRateLimited()
}

// IsDuplicateEmailError checks if err wraps a duplicate-email APIError.
func IsDuplicateEmailError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsDuplicateEmail()
}

// StatusCode extracts the HTTP status from an APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
