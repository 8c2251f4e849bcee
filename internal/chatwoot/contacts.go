package chatwoot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// SearchContacts queries contacts by name, email, phone number or identifier.
func (c *Client) SearchContacts(ctx context.Context, query string) (*ContactSearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("contact search query cannot be empty")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		Get(c.accountURL + "/contacts/search")
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts for %q: %w", query, err)
	}

	if err := c.check(resp); err != nil {
		return nil, err
	}

	var result ContactSearchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: contact search: %v", ErrMalformedResponse, err)
	}

	return &result, nil
}

// FindContactByEmail returns the first contact matching email, or nil when
// the search has no results.
func (c *Client) FindContactByEmail(ctx context.Context, email string) (*Contact, error) {
	result, err := c.SearchContacts(ctx, email)
	if err != nil {
		return nil, err
	}

	if result.Meta.Count == 0 || len(result.Payload) == 0 {
		return nil, nil
	}

	contact := result.Payload[0]
	if contact.ID == 0 {
		return nil, fmt.Errorf("%w: contact search result without id", ErrMalformedResponse)
	}
	return &contact, nil
}

// CreateContact creates a contact attached to an inbox. A 422 duplicate-email
// or 429 rate-limit answer is returned as an *APIError for the caller to act on.
func (c *Client) CreateContact(ctx context.Context, input ContactInput) (*Contact, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, fmt.Errorf("contact email cannot be empty")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(input).
		Post(c.accountURL + "/contacts")
	if err != nil {
		return nil, fmt.Errorf("failed to create contact %q: %w", input.Email, err)
	}

	if err := c.check(resp); err != nil {
		return nil, err
	}

	var result contactCreateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("%w: contact creation: %v", ErrMalformedResponse, err)
	}

	if result.Payload.Contact.ID == 0 {
		return nil, fmt.Errorf("%w: contact creation returned no id: %s", ErrMalformedResponse, resp.String())
	}

	return &result.Payload.Contact, nil
}
