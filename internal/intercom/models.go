package intercom

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an Intercom object identifier. The API sends most ids as JSON strings,
// but numeric ids are accepted too.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// Author identifies who wrote a conversation source or part.
type Author struct {
	ID    ID     `json:"id"`
	Type  string `json:"type"` // "user", "contact", "lead", "admin", "bot", "team"
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IsEndUser reports whether the author is the customer side of the conversation.
func (a Author) IsEndUser() bool {
	return a.Type == "user" || a.Type == "contact"
}

// DisplayName returns the author name, or fallback when the name is empty.
func (a Author) DisplayName(fallback string) string {
	if a.Name == "" {
		return fallback
	}
	return a.Name
}

// Source is the message that opened a conversation.
type Source struct {
	Type        string `json:"type"`
	DeliveredAs string `json:"delivered_as"`
	Subject     string `json:"subject"`
	Body        string `json:"body"` // HTML
	Author      Author `json:"author"`
}

// ConversationPart is a single reply, note or event within a conversation.
type ConversationPart struct {
	ID        ID     `json:"id"`
	PartType  string `json:"part_type"`
	Body      string `json:"body"` // HTML, may be empty for events
	CreatedAt int64  `json:"created_at"`
	Author    Author `json:"author"`
}

// Conversation is the aggregate handed to the migration pipeline. Parts holds
// the parts of every page in request order and is set only once the last page
// has been read.
type Conversation struct {
	ID        ID
	CreatedAt int64 // Unix seconds
	Source    Source
	Parts     []ConversationPart
}

type ConversationResponse struct {
	Type              string      `json:"type"`
	ID                ID          `json:"id"`
	CreatedAt         int64       `json:"created_at"`
	UpdatedAt         int64       `json:"updated_at"`
	Source            *Source     `json:"source"`
	ConversationParts PartsObject `json:"conversation_parts"`
}

type PartsObject struct {
	Parts      []ConversationPart `json:"conversation_parts"`
	TotalCount int                `json:"total_count"`
	Pages      struct {
		Next *string `json:"next"` // absolute URL of the next page, or null
	} `json:"pages"`
}

// NextURL returns the next page URL or "" when this is the last page.
func (p PartsObject) NextURL() string {
	if p.Pages.Next == nil {
		return ""
	}
	return *p.Pages.Next
}
