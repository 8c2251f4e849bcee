package intercom

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
)

func (c *Client) TestConnection(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.baseURL + "/me")

	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode() != http.StatusOK {
		return apiError(resp)
	}

	return nil
}

// GetConversation fetches a conversation with its contacts and parts, following
// conversation_parts pagination until the last page. Any non-success response
// aborts the whole fetch; no partial conversation is returned.
func (c *Client) GetConversation(ctx context.Context, id int) (*Conversation, error) {
	var conversation *Conversation
	var parts []ConversationPart

	pageURL := fmt.Sprintf("%s/conversations/%d", c.baseURL, id)
	visited := make(map[string]bool)
	first := true

	for pageURL != "" {
		// Check context cancellation before each page
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if visited[pageURL] {
			return nil, fmt.Errorf("%w: %s", ErrPaginationLoop, pageURL)
		}
		visited[pageURL] = true

		req := c.client.R().SetContext(ctx)
		if first {
			req.SetQueryParam("include", "contacts,conversation_parts")
		}

		resp, err := req.Get(pageURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch conversation %d: %w", id, err)
		}

		if resp.StatusCode() == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %d", ErrConversationNotFound, id)
		}

		if resp.StatusCode() != http.StatusOK {
			return nil, apiError(resp)
		}

		var page ConversationResponse
		if err := json.Unmarshal(resp.Body(), &page); err != nil {
			return nil, fmt.Errorf("%w: conversation %d: %v", ErrMalformedResponse, id, err)
		}

		if first {
			conversation, err = newConversation(id, page)
			if err != nil {
				return nil, err
			}
			first = false
		}

		parts = append(parts, page.ConversationParts.Parts...)
		pageURL = page.ConversationParts.NextURL()
		if pageURL != "" {
			// Only follow pages on the API host; the client sends the bearer token everywhere.
			if err := c.checkPageURL(pageURL); err != nil {
				return nil, err
			}
		}
	}

	conversation.Parts = parts
	return conversation, nil
}

func (c *Client) checkPageURL(next string) error {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid Intercom API URL %q: %w", c.baseURL, err)
	}
	parsed, err := url.Parse(next)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrForeignPageURL, next)
	}
	if parsed.Scheme != base.Scheme || parsed.Host != base.Host {
		return fmt.Errorf("%w: %s", ErrForeignPageURL, next)
	}
	return nil
}

func newConversation(requestedID int, page ConversationResponse) (*Conversation, error) {
	if page.Source == nil {
		return nil, fmt.Errorf("%w: conversation %d has no source", ErrMalformedResponse, requestedID)
	}
	if page.CreatedAt <= 0 {
		return nil, fmt.Errorf("%w: conversation %d has no created_at", ErrMalformedResponse, requestedID)
	}

	id := page.ID
	if id == "" {
		id = ID(strconv.Itoa(requestedID))
	}

	return &Conversation{
		ID:        id,
		CreatedAt: page.CreatedAt,
		Source:    *page.Source,
	}, nil
}

func apiError(resp *resty.Response) error {
	return &APIError{
		StatusCode: resp.StatusCode(),
		Body:       resp.String(),
	}
}
