package migration

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/exileum/intercom-to-chatwoot/internal/chatwoot"
	"github.com/exileum/intercom-to-chatwoot/internal/htmltext"
	"github.com/exileum/intercom-to-chatwoot/internal/intercom"
	"github.com/exileum/intercom-to-chatwoot/internal/util"
)

const importedDateLayout = "2006-01-02T15:04:05"

// PlannedMessage is one source body after normalization, in replay order.
type PlannedMessage struct {
	Author  string
	Input   chatwoot.MessageInput
	Skipped bool // normalized body was empty
}

// ReplicationResult summarizes the replay of one conversation.
type ReplicationResult struct {
	ConversationID int
	Sent           int
	Skipped        int
	Failed         int
}

// Replicator recreates a source conversation and its messages in Chatwoot.
type Replicator struct {
	sink       ConversationSink
	inboxID    int
	normalizer *htmltext.Normalizer
	verbose    bool
}

func NewReplicator(sink ConversationSink, inboxID int, verbose bool) *Replicator {
	return &Replicator{
		sink:       sink,
		inboxID:    inboxID,
		normalizer: htmltext.NewNormalizer(),
		verbose:    verbose,
	}
}

// Plan normalizes the opening message and every part of conv. It does not
// touch the destination.
func (r *Replicator) Plan(conv *intercom.Conversation) []PlannedMessage {
	planned := make([]PlannedMessage, 0, len(conv.Parts)+1)

	// The opening message always comes from the contact.
	planned = append(planned, r.plan(conv.Source.Author, conv.Source.Body, chatwoot.MessageIncoming))

	for _, part := range conv.Parts {
		planned = append(planned, r.plan(part.Author, part.Body, MessageTypeFor(part.Author)))
	}
	return planned
}

func (r *Replicator) plan(author intercom.Author, body string, messageType chatwoot.MessageType) PlannedMessage {
	content := r.normalizer.ToText(body)
	return PlannedMessage{
		Author:  author.DisplayName(author.Type),
		Input:   chatwoot.MessageInput{Content: content, MessageType: messageType},
		Skipped: content == "",
	}
}

// Replicate creates the destination conversation for contactID and sends the
// planned messages in order. A failed message is counted and the replay goes
// on; only a failure to create the conversation aborts it.
func (r *Replicator) Replicate(ctx context.Context, contactID int, conv *intercom.Conversation) (*ReplicationResult, error) {
	created, err := r.sink.CreateConversation(ctx, chatwoot.ConversationInput{
		InboxID:   r.inboxID,
		ContactID: contactID,
		CustomAttributes: map[string]string{
			"imported_date": ImportedDate(conv.CreatedAt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConversationNotCreated, err)
	}
	if created == nil || created.ID == 0 {
		return nil, fmt.Errorf("%w: response carried no conversation id", ErrConversationNotCreated)
	}
	log.Printf("  ✓ Created Chatwoot conversation %d", created.ID)

	result := &ReplicationResult{ConversationID: created.ID}
	for i, msg := range r.Plan(conv) {
		if msg.Skipped {
			if i == 0 {
				log.Printf("  ⚠ Opening message is empty, not sent")
			} else {
				log.Printf("  ⚠ Skipping empty message from %s", msg.Author)
			}
			result.Skipped++
			continue
		}

		if err := util.WrapContextError(ctx, "message replay"); err != nil {
			return result, err
		}

		if _, err := r.sink.CreateMessage(ctx, created.ID, msg.Input); err != nil {
			log.Printf("  ✗ Failed to send %s message from %s: %v", msg.Input.MessageType, msg.Author, err)
			result.Failed++
			continue
		}
		result.Sent++
		if r.verbose {
			log.Printf("  ✓ Sent %s message from %s", msg.Input.MessageType, msg.Author)
		}
	}

	log.Printf("  ✓ Replayed %d messages (%d skipped, %d failed)", result.Sent, result.Skipped, result.Failed)
	return result, nil
}

// MessageTypeFor maps a source author to the direction of the Chatwoot message.
func MessageTypeFor(author intercom.Author) chatwoot.MessageType {
	if author.IsEndUser() {
		return chatwoot.MessageIncoming
	}
	return chatwoot.MessageOutgoing
}

// ImportedDate renders a Unix timestamp as the naive UTC value stored in the
// imported_date custom attribute.
func ImportedDate(createdAt int64) string {
	return time.Unix(createdAt, 0).UTC().Format(importedDateLayout)
}
