// Package chatwoot provides a client for the Chatwoot application API covering
// the contact, conversation and message endpoints used during an import. The
// client does not retry; callers classify failures through APIError.
package chatwoot

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	accountURL    string // {host}/api/v1/accounts/{id}
	client        *resty.Client
	requestCount  int64 // atomic
	rateLimitHits int64 // atomic
}

// NewClient creates a client scoped to one Chatwoot account. The token must
// belong to an agent or administrator of that account, not a platform user.
func NewClient(host, token string, accountID int) (*Client, error) {
	if strings.TrimSpace(host) == "" {
		return nil, errors.New("Chatwoot host cannot be empty")
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("Chatwoot API token cannot be empty")
	}
	if accountID <= 0 {
		return nil, errors.New("Chatwoot account ID must be positive")
	}

	restyClient := resty.New().
		SetTimeout(30*time.Second).
		SetRetryCount(0). // Rate limits are handled by the caller's retry policy
		SetHeader("User-Agent", "Intercom-to-Chatwoot/1.0").
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("api_access_token", token)

	return &Client{
		accountURL: fmt.Sprintf("%s/api/v1/accounts/%d", strings.TrimRight(host, "/"), accountID),
		client:     restyClient,
	}, nil
}

// SetTimeout allows customizing the HTTP timeout after client creation
func (c *Client) SetTimeout(timeout time.Duration) *Client {
	c.client.SetTimeout(timeout)
	return c
}

// GetStats returns request statistics for the run summary
func (c *Client) GetStats() (requestCount, rateLimitHits int64) {
	return atomic.LoadInt64(&c.requestCount), atomic.LoadInt64(&c.rateLimitHits)
}

func (c *Client) check(resp *resty.Response) error {
	atomic.AddInt64(&c.requestCount, 1)

	if resp.IsSuccess() {
		return nil
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Body:       resp.String(),
	}
	if apiErr.IsRateLimited() {
		atomic.AddInt64(&c.rateLimitHits, 1)
	}
	return apiErr
}
