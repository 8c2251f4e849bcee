package migration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/exileum/intercom-to-chatwoot/internal/config"
	"github.com/exileum/intercom-to-chatwoot/internal/intercom"
	"github.com/exileum/intercom-to-chatwoot/internal/progress"
	"github.com/exileum/intercom-to-chatwoot/internal/util"
)

type Runner struct {
	config     *config.Config
	source     ConversationSource
	resolver   *ContactResolver
	replicator *Replicator
	tracker    *progress.Tracker
}

// NewRunner wires the pipeline. In dry-run mode resolver may be nil and the
// replicator is only used to plan messages.
func NewRunner(cfg *config.Config, source ConversationSource, resolver *ContactResolver, replicator *Replicator, tracker *progress.Tracker) *Runner {
	return &Runner{
		config:     cfg,
		source:     source,
		resolver:   resolver,
		replicator: replicator,
		tracker:    tracker,
	}
}

// RunMigration processes every conversation id in the configured range. Item
// failures are logged and recorded; only cancellation stops the loop early.
func (r *Runner) RunMigration(ctx context.Context) error {
	start, end := r.config.Migration.StartID, r.config.Migration.EndID
	total := end - start + 1
	log.Printf("Migrating Intercom conversations %d to %d (run %s)...", start, end, r.tracker.RunID())

	for id := start; id <= end; id++ {
		if err := util.WrapContextError(ctx, "migration"); err != nil {
			return r.abort(err)
		}

		log.Printf("\nProcessing conversation %d (%d/%d)", id, id-start+1, total)
		r.tracker.Record(id, r.processConversation(ctx, id))

		if id < end {
			if err := util.ContextSleep(ctx, r.config.Migration.ItemDelay); err != nil {
				return r.abort(err)
			}
		}
	}

	r.tracker.PrintSummary()
	return nil
}

func (r *Runner) abort(err error) error {
	log.Printf("⚠ Migration interrupted: %v", err)
	r.tracker.PrintSummary()
	return fmt.Errorf("%w: %w", ErrMigrationAborted, err)
}

func (r *Runner) processConversation(ctx context.Context, id int) progress.Outcome {
	conv, err := r.source.GetConversation(ctx, id)
	if err != nil {
		if errors.Is(err, intercom.ErrConversationNotFound) {
			log.Printf("⚠ Conversation %d not found, skipping", id)
			return progress.OutcomeNotFound
		}
		log.Printf("✗ %v", NewConversationMigrationError(PhaseFetch, id, "failed to fetch conversation", err))
		return progress.OutcomeFetchFailed
	}
	log.Printf("  ✓ Fetched conversation with %d parts", len(conv.Parts))

	email, name := conversationContact(conv)
	if email == "" {
		log.Printf("✗ No valid contact found for conversation %d, skipping", id)
		return progress.OutcomeNoEmail
	}

	if r.config.Migration.DryRun {
		r.preview(conv, email, name)
		return progress.OutcomeCompleted
	}

	contactID, err := r.resolver.Resolve(ctx, email, name)
	if err != nil {
		log.Printf("✗ %v", NewConversationMigrationError(PhaseResolve, id, "failed to resolve contact", err))
		return progress.OutcomeFailed
	}

	result, err := r.replicator.Replicate(ctx, contactID, conv)
	if result != nil {
		r.tracker.AddMessages(result.Sent, result.Skipped, result.Failed)
	}
	if err != nil {
		log.Printf("✗ %v", NewConversationMigrationError(PhaseReplicate, id, "failed to replicate conversation", err))
		return progress.OutcomeFailed
	}

	log.Printf("✓ Migrated conversation %d to Chatwoot conversation %d", id, result.ConversationID)
	return progress.OutcomeCompleted
}

func (r *Runner) preview(conv *intercom.Conversation, email, name string) {
	planned := r.replicator.Plan(conv)

	var sent, skipped int
	for _, msg := range planned {
		if msg.Skipped {
			skipped++
			continue
		}
		sent++
	}

	log.Printf("  [DRY-RUN] Would resolve contact %s (%s)", email, name)
	log.Printf("  [DRY-RUN] Would create conversation imported on %s with %d messages (%d empty)",
		ImportedDate(conv.CreatedAt), sent, skipped)
	r.tracker.AddMessages(0, skipped, 0)

	if r.config.Migration.Verbose {
		var b strings.Builder
		for _, msg := range planned {
			if msg.Skipped {
				continue
			}
			fmt.Fprintf(&b, "[%s] %s:\n%s\n\n", msg.Input.MessageType, msg.Author, msg.Input.Content)
		}
		log.Printf("\n--- Conversation Preview ---\n%s--- End Preview ---\n", b.String())
	}
}

// conversationContact returns the email and name of the conversation author.
func conversationContact(conv *intercom.Conversation) (string, string) {
	author := conv.Source.Author
	return strings.TrimSpace(author.Email), author.Name
}
