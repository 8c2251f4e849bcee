package migration

import (
	"context"

	"github.com/exileum/intercom-to-chatwoot/internal/chatwoot"
	"github.com/exileum/intercom-to-chatwoot/internal/intercom"
)

// ConversationSource fetches complete source conversations.
type ConversationSource interface {
	GetConversation(ctx context.Context, id int) (*intercom.Conversation, error)
}

// ContactDirectory finds and creates destination contacts.
type ContactDirectory interface {
	FindContactByEmail(ctx context.Context, email string) (*chatwoot.Contact, error)
	CreateContact(ctx context.Context, input chatwoot.ContactInput) (*chatwoot.Contact, error)
}

// ConversationSink creates destination conversations and their messages.
type ConversationSink interface {
	CreateConversation(ctx context.Context, input chatwoot.ConversationInput) (*chatwoot.Conversation, error)
	CreateMessage(ctx context.Context, conversationID int, input chatwoot.MessageInput) (*chatwoot.Message, error)
}
