package migration

import (
	"errors"
	"fmt"

	"github.com/exileum/intercom-to-chatwoot/internal/util"
)

// Error classification for migration operations.

// Migration phases reported by MigrationError.
const (
	PhaseFetch     = "fetch"
	PhaseResolve   = "resolve"
	PhaseReplicate = "replicate"
)

// MigrationError represents errors that occur while migrating one conversation.
type MigrationError struct {
	Phase          string // The migration phase where the error occurred
	ConversationID int    // The source conversation being processed (0 if not applicable)
	Message        string // Human-readable error message
	Cause          error  // Underlying error cause
}

func (e *MigrationError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.ConversationID > 0 {
		return fmt.Sprintf("migration error in phase '%s' for conversation %d: %s", e.Phase, e.ConversationID, msg)
	}
	return fmt.Sprintf("migration error in phase '%s': %s", e.Phase, msg)
}

func (e *MigrationError) Unwrap() error {
	return e.Cause
}

// NewMigrationError creates a new migration error.
func NewMigrationError(phase, message string, cause error) *MigrationError {
	return &MigrationError{
		Phase:   phase,
		Message: message,
		Cause:   cause,
	}
}

// NewConversationMigrationError creates a new migration error for a specific conversation.
func NewConversationMigrationError(phase string, conversationID int, message string, cause error) *MigrationError {
	return &MigrationError{
		Phase:          phase,
		ConversationID: conversationID,
		Message:        message,
		Cause:          cause,
	}
}

// Sentinel errors for common migration issues
var (
	// ErrNoEmail indicates the source conversation author has no email address
	ErrNoEmail = errors.New("conversation author has no email")

	// ErrContactNotResolved indicates a contact could neither be found nor created
	ErrContactNotResolved = errors.New("contact could not be resolved")

	// ErrConversationNotCreated indicates the destination conversation could not be created
	ErrConversationNotCreated = errors.New("Chatwoot conversation not created")

	// ErrMaxRetriesExceeded indicates the retry budget was spent on rate limits
	ErrMaxRetriesExceeded = util.ErrAttemptsExhausted

	// ErrMigrationAborted indicates the run was interrupted before the end of the range
	ErrMigrationAborted = errors.New("migration aborted")
)

// IsMigrationError checks if an error is a migration error.
func IsMigrationError(err error) bool {
	var migrationErr *MigrationError
	return errors.As(err, &migrationErr)
}

// GetMigrationPhase extracts the migration phase from a migration error.
func GetMigrationPhase(err error) string {
	var migrationErr *MigrationError
	if errors.As(err, &migrationErr) {
		return migrationErr.Phase
	}
	return ""
}

// GetConversationID extracts the source conversation ID from a migration error.
func GetConversationID(err error) int {
	var migrationErr *MigrationError
	if errors.As(err, &migrationErr) {
		return migrationErr.ConversationID
	}
	return 0
}
