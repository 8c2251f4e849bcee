// Package intercom is a read-only client for the Intercom REST API. It fetches
// single conversations and resolves conversation-part pagination into one
// in-memory Conversation.
package intercom

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

const DefaultAPIURL = "https://api.intercom.io"

type Client struct {
	baseURL string
	client  *resty.Client
}

// NewClient creates a client authenticating with a bearer access token.
func NewClient(baseURL, token string) *Client {
	src := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(context.Background(), src)

	restyClient := resty.NewWithClient(httpClient).
		SetTimeout(30*time.Second).                          // Overall request timeout
		SetRetryCount(0).                                    // Fetch failures are reported, not retried
		SetHeader("User-Agent", "Intercom-to-Chatwoot/1.0"). // Set user agent
		SetHeader("Accept", "application/json")

	if baseURL == "" {
		baseURL = DefaultAPIURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  restyClient,
	}
}

// SetTimeout allows customizing the HTTP timeout after client creation
func (c *Client) SetTimeout(timeout time.Duration) *Client {
	c.client.SetTimeout(timeout)
	return c
}
