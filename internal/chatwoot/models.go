package chatwoot

// MessageType is the direction of a Chatwoot message.
type MessageType string

const (
	MessageIncoming MessageType = "incoming" // written by the contact
	MessageOutgoing MessageType = "outgoing" // written by an agent or bot
)

type Contact struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	InboxID int    `json:"inbox_id"`
}

type ContactSearchResponse struct {
	Meta struct {
		Count       int `json:"count"`
		CurrentPage int `json:"current_page"`
	} `json:"meta"`
	Payload []Contact `json:"payload"`
}

type contactCreateResponse struct {
	Payload struct {
		Contact Contact `json:"contact"`
	} `json:"payload"`
}

type ConversationInput struct {
	InboxID          int               `json:"inbox_id"`
	ContactID        int               `json:"contact_id"`
	CustomAttributes map[string]string `json:"custom_attributes,omitempty"`
}

type Conversation struct {
	ID        int `json:"id"`
	InboxID   int `json:"inbox_id"`
	AccountID int `json:"account_id"`
}

type MessageInput struct {
	Content     string      `json:"content"`
	MessageType MessageType `json:"message_type"`
}

type Message struct {
	ID             int    `json:"id"`
	Content        string `json:"content"`
	ConversationID int    `json:"conversation_id"`
}

type Inbox struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ChannelType string `json:"channel_type"`
}

type inboxListResponse struct {
	Payload []Inbox `json:"payload"`
}
