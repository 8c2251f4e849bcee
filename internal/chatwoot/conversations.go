package chatwoot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

func (c *Client) CreateConversation(ctx context.Context, input ConversationInput) (*Conversation, error) {
	if input.ContactID <= 0 {
		return nil, fmt.Errorf("contact ID must be positive")
	}
	if input.InboxID <= 0 {
		return nil, fmt.Errorf("inbox ID must be positive")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(input).
		Post(c.accountURL + "/conversations")
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation for contact %d: %w", input.ContactID, err)
	}

	if err := c.check(resp); err != nil {
		return nil, err
	}

	var result Conversation
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: conversation creation: %v", ErrMalformedResponse, err)
	}

	if result.ID == 0 {
		return nil, fmt.Errorf("%w: conversation creation returned no id: %s", ErrMalformedResponse, resp.String())
	}

	return &result, nil
}

func (c *Client) CreateMessage(ctx context.Context, conversationID int, input MessageInput) (*Message, error) {
	if conversationID <= 0 {
		return nil, fmt.Errorf("conversation ID must be positive")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("message content cannot be empty")
	}
	if input.MessageType != MessageIncoming && input.MessageType != MessageOutgoing {
		return nil, fmt.Errorf("invalid message type %q", input.MessageType)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(input).
		Post(fmt.Sprintf("%s/conversations/%d/messages", c.accountURL, conversationID))
	if err != nil {
		return nil, fmt.Errorf("failed to add message to conversation %d: %w", conversationID, err)
	}

	if err := c.check(resp); err != nil {
		return nil, err
	}

	var result Message
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		// The message was created; the response body is informational.
		return &Message{ConversationID: conversationID, Content: input.Content}, nil
	}

	return &result, nil
}

// TestConnection verifies the token and that inboxID exists in the account.
func (c *Client) TestConnection(ctx context.Context, inboxID int) (*Inbox, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(fmt.Sprintf("%s/inboxes/%d", c.accountURL, inboxID))
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %d", ErrInboxNotFound, inboxID)
	}

	if err := c.check(resp); err != nil {
		return nil, err
	}

	var inbox Inbox
	if err := json.Unmarshal(resp.Body(), &inbox); err != nil {
		return nil, fmt.Errorf("%w: inbox: %v", ErrMalformedResponse, err)
	}

	return &inbox, nil
}

func (c *Client) ListInboxes(ctx context.Context) ([]Inbox, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.accountURL + "/inboxes")
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	if err := c.check(resp); err != nil {
		return nil, err
	}

	var result inboxListResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: inboxes: %v", ErrMalformedResponse, err)
	}

	return result.Payload, nil
}
