package intercom

import (
	"errors"
	"fmt"
)

var (
	// ErrConversationNotFound indicates the API answered 404 for a conversation id
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrMalformedResponse indicates a response missing mandatory fields or not decodable
	ErrMalformedResponse = errors.New("malformed Intercom response")

	// ErrPaginationLoop indicates a next-page pointer that was already followed
	ErrPaginationLoop = errors.New("conversation parts pagination loop")

	// ErrForeignPageURL indicates a next-page pointer outside the configured API host
	ErrForeignPageURL = errors.New("conversation parts page outside the Intercom API host")

	// ErrUnauthorized indicates the access token was rejected
	ErrUnauthorized = errors.New("authentication failed - check Intercom access token")
)

// APIError is a non-success response from the Intercom API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Intercom API error: status %d: %s", e.StatusCode, e.Body)
}
