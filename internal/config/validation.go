package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	placeholderIntercomToken = "your_intercom_token"
	placeholderChatwootURL   = "https://your-chatwoot.example.com"
	placeholderChatwootToken = "your_chatwoot_token"
)

func (c *Config) Validate() error {
	if err := c.validateIntercom(); err != nil {
		return fmt.Errorf("Intercom config validation failed: %w", err)
	}

	if err := c.validateChatwoot(); err != nil {
		return fmt.Errorf("Chatwoot config validation failed: %w", err)
	}

	if err := c.validateMigration(); err != nil {
		return fmt.Errorf("migration config validation failed: %w", err)
	}

	return nil
}

func (c *Config) validateIntercom() error {
	if err := validateURL("Intercom.APIURL", c.Intercom.APIURL); err != nil {
		return err
	}
	if c.Intercom.Token == "" || c.Intercom.Token == placeholderIntercomToken {
		return NewConfigurationErrorWithCause("Intercom.Token", "Intercom access token must be configured", ErrInvalidToken)
	}
	return nil
}

func (c *Config) validateChatwoot() error {
	if c.Chatwoot.BaseURL == placeholderChatwootURL {
		return NewConfigurationErrorWithCause("Chatwoot.BaseURL", "Chatwoot base URL must be configured", ErrMissingRequiredField)
	}
	if err := validateURL("Chatwoot.BaseURL", c.Chatwoot.BaseURL); err != nil {
		return err
	}
	if c.Chatwoot.Token == "" || c.Chatwoot.Token == placeholderChatwootToken {
		return NewConfigurationErrorWithCause("Chatwoot.Token", "Chatwoot API token must be configured", ErrInvalidToken)
	}
	if c.Chatwoot.AccountID <= 0 {
		return NewConfigurationErrorWithCause("Chatwoot.AccountID", "Chatwoot account ID must be positive", ErrInvalidAccountID)
	}
	if c.Chatwoot.InboxID <= 0 {
		return NewConfigurationErrorWithCause("Chatwoot.InboxID", "Chatwoot inbox ID must be positive", ErrInvalidInboxID)
	}
	return nil
}

func (c *Config) validateMigration() error {
	if c.Migration.StartID < 0 {
		return NewConfigurationErrorWithCause("Migration.StartID", "start ID cannot be negative", ErrInvalidIDRange)
	}
	if c.Migration.EndID < c.Migration.StartID {
		return NewConfigurationErrorWithCause("Migration.EndID",
			fmt.Sprintf("end ID %d is before start ID %d", c.Migration.EndID, c.Migration.StartID), ErrInvalidIDRange)
	}
	if c.Migration.ItemDelay < 0 || c.Migration.RateLimitBackoff < 0 {
		return NewConfigurationErrorWithCause("Migration.ItemDelay", "delays cannot be negative", ErrInvalidRateLimit)
	}
	if c.Migration.MaxAttempts <= 0 {
		return NewConfigurationErrorWithCause("Migration.MaxAttempts", "max attempts must be positive", ErrInvalidRetryConfiguration)
	}
	if c.Migration.RequestTimeout < 0 {
		return NewConfigurationErrorWithCause("Migration.RequestTimeout", "request timeout cannot be negative", ErrInvalidRateLimit)
	}
	return nil
}

func validateURL(field, value string) error {
	if value == "" {
		return NewConfigurationErrorWithCause(field, "URL must be configured", ErrMissingRequiredField)
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return NewConfigurationErrorWithCause(field, "invalid URL", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return NewConfigurationErrorWithCause(field, fmt.Sprintf("URL %q must be absolute http(s)", value), ErrInvalidURL)
	}
	return nil
}

// ParseIDRange parses the inclusive start and end conversation IDs given on
// the command line.
func ParseIDRange(startArg, endArg string) (int, int, error) {
	start, err := strconv.Atoi(strings.TrimSpace(startArg))
	if err != nil {
		return 0, 0, NewValidationError("start_id", startArg, "integer")
	}
	end, err := strconv.Atoi(strings.TrimSpace(endArg))
	if err != nil {
		return 0, 0, NewValidationError("end_id", endArg, "integer")
	}
	if start < 0 || end < start {
		return 0, 0, fmt.Errorf("%w: %d..%d", ErrInvalidIDRange, start, end)
	}
	return start, end, nil
}
