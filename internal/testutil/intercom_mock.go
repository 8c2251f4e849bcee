package testutil

import (
	"context"

	"github.com/exileum/intercom-to-chatwoot/internal/intercom"
)

type IntercomClient struct {
	GetConversationFunc func(ctx context.Context, id int) (*intercom.Conversation, error)
	TestConnectionFunc  func(ctx context.Context) error

	Requested []int
}

func (m *IntercomClient) GetConversation(ctx context.Context, id int) (*intercom.Conversation, error) {
	m.Requested = append(m.Requested, id)
	if m.GetConversationFunc != nil {
		return m.GetConversationFunc(ctx, id)
	}
	return nil, intercom.ErrConversationNotFound
}

func (m *IntercomClient) TestConnection(ctx context.Context) error {
	if m.TestConnectionFunc != nil {
		return m.TestConnectionFunc(ctx)
	}
	return nil
}
