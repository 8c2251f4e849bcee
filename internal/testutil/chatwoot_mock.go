package testutil

import (
	"context"

	"github.com/exileum/intercom-to-chatwoot/internal/chatwoot"
)

// SentMessage records one CreateMessage call.
type SentMessage struct {
	ConversationID int
	Input          chatwoot.MessageInput
}

type ChatwootClient struct {
	FindContactByEmailFunc func(ctx context.Context, email string) (*chatwoot.Contact, error)
	CreateContactFunc      func(ctx context.Context, input chatwoot.ContactInput) (*chatwoot.Contact, error)
	CreateConversationFunc func(ctx context.Context, input chatwoot.ConversationInput) (*chatwoot.Conversation, error)
	CreateMessageFunc      func(ctx context.Context, conversationID int, input chatwoot.MessageInput) (*chatwoot.Message, error)

	Searches      []string
	Contacts      []chatwoot.ContactInput
	Conversations []chatwoot.ConversationInput
	Messages      []SentMessage
}

func (m *ChatwootClient) FindContactByEmail(ctx context.Context, email string) (*chatwoot.Contact, error) {
	m.Searches = append(m.Searches, email)
	if m.FindContactByEmailFunc != nil {
		return m.FindContactByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *ChatwootClient) CreateContact(ctx context.Context, input chatwoot.ContactInput) (*chatwoot.Contact, error) {
	m.Contacts = append(m.Contacts, input)
	if m.CreateContactFunc != nil {
		return m.CreateContactFunc(ctx, input)
	}
	return &chatwoot.Contact{ID: len(m.Contacts), Name: input.Name, Email: input.Email}, nil
}

func (m *ChatwootClient) CreateConversation(ctx context.Context, input chatwoot.ConversationInput) (*chatwoot.Conversation, error) {
	m.Conversations = append(m.Conversations, input)
	if m.CreateConversationFunc != nil {
		return m.CreateConversationFunc(ctx, input)
	}
	return &chatwoot.Conversation{ID: 1000 + len(m.Conversations), InboxID: input.InboxID}, nil
}

func (m *ChatwootClient) CreateMessage(ctx context.Context, conversationID int, input chatwoot.MessageInput) (*chatwoot.Message, error) {
	m.Messages = append(m.Messages, SentMessage{ConversationID: conversationID, Input: input})
	if m.CreateMessageFunc != nil {
		return m.CreateMessageFunc(ctx, conversationID, input)
	}
	return &chatwoot.Message{ID: len(m.Messages), Content: input.Content, ConversationID: conversationID}, nil
}

// Calls returns the number of destination API calls recorded so far.
func (m *ChatwootClient) Calls() int {
	return len(m.Searches) + len(m.Contacts) + len(m.Conversations) + len(m.Messages)
}
