package migration

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/exileum/intercom-to-chatwoot/internal/chatwoot"
	"github.com/exileum/intercom-to-chatwoot/internal/util"
)

const defaultContactName = "Unknown User"

// ContactResolver maps an email address to a Chatwoot contact id, creating the
// contact when it does not exist yet. Resolved ids are cached for the lifetime
// of the resolver.
type ContactResolver struct {
	directory ContactDirectory
	inboxID   int
	policy    util.RetryPolicy

	mu    sync.Mutex
	cache map[string]int
}

func NewContactResolver(directory ContactDirectory, inboxID, maxAttempts int, backoff time.Duration) *ContactResolver {
	return &ContactResolver{
		directory: directory,
		inboxID:   inboxID,
		policy: util.RetryPolicy{
			MaxAttempts: maxAttempts,
			Backoff:     backoff,
			Retryable:   chatwoot.IsRateLimitError,
		},
		cache: make(map[string]int),
	}
}

// Resolve returns the contact id for email, searching first and creating the
// contact under the retry policy when the search finds nothing.
func (r *ContactResolver) Resolve(ctx context.Context, email, name string) (int, error) {
	key := cacheKey(email)
	if key == "" {
		return 0, ErrNoEmail
	}

	if id, ok := r.cached(key); ok {
		return id, nil
	}

	contact, err := r.directory.FindContactByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("failed to search contact %s: %w", email, err)
	}
	if contact != nil {
		log.Printf("  ✓ Found existing contact %s (ID: %d)", email, contact.ID)
		r.store(key, contact.ID)
		return contact.ID, nil
	}

	log.Printf("  ⚠ No existing contact for %s, creating one", email)
	id, err := r.create(ctx, email, name)
	if err != nil {
		return 0, err
	}
	r.store(key, id)
	return id, nil
}

func (r *ContactResolver) create(ctx context.Context, email, name string) (int, error) {
	if name == "" {
		name = defaultContactName
	}
	input := chatwoot.ContactInput{Name: name, Email: email, InboxID: r.inboxID}

	policy := r.policy
	policy.OnRetry = func(attempt int, err error) {
		log.Printf("  ⏳ Rate limit hit while creating contact %s. Retrying in %v (attempt %d/%d)...",
			email, policy.Backoff, attempt, policy.MaxAttempts)
	}

	var created *chatwoot.Contact
	err := policy.Do(ctx, func(int) error {
		contact, err := r.directory.CreateContact(ctx, input)
		if err != nil {
			return err
		}
		created = contact
		return nil
	})

	switch {
	case err == nil:
		log.Printf("  ✓ Created contact %s (ID: %d)", email, created.ID)
		return created.ID, nil
	case chatwoot.IsDuplicateEmailError(err):
		log.Printf("  ⚠ Contact %s already exists, searching again", email)
		return r.recoverDuplicate(ctx, email)
	default:
		return 0, fmt.Errorf("failed to create contact %s: %w", email, err)
	}
}

func (r *ContactResolver) recoverDuplicate(ctx context.Context, email string) (int, error) {
	contact, err := r.directory.FindContactByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrContactNotResolved, email, err)
	}
	if contact == nil {
		return 0, fmt.Errorf("%w: %s reported as taken but not found", ErrContactNotResolved, email)
	}
	log.Printf("  ✓ Found existing contact %s after conflict (ID: %d)", email, contact.ID)
	return contact.ID, nil
}

func (r *ContactResolver) cached(key string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.cache[key]
	return id, ok
}

func (r *ContactResolver) store(key string, id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[key] = id
}

func cacheKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
