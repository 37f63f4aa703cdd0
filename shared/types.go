package shared

import "encoding/json"

// WebhookPayload is the body of a POST /webhook call from the platform.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

// MessagingEvent is one inbound message notification inside an entry.
// Transient: it is processed once and never persisted as a structured object.
type MessagingEvent struct {
	Sender    Party   `json:"sender"`
	Recipient Party   `json:"recipient"`
	Timestamp int64   `json:"timestamp"`
	Message   Message `json:"message"`
}

type Party struct {
	ID string `json:"id"`
}

type Message struct {
	MID    string `json:"mid"`
	Text   string `json:"text"`
	IsEcho bool   `json:"is_echo"`
}

// UserInfo is the identity the platform reports for a user id.
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Conversation is a platform-side thread. Participants come back nested
// under a "data" key, Graph API style.
type Conversation struct {
	ID           string      `json:"id"`
	Participants Participant `json:"participants"`
	UpdatedTime  string      `json:"updated_time"`
}

type Participant struct {
	Data []Party `json:"data"`
}

// EventStatus tracks one webhook call through its lifecycle.
type EventStatus = string

const (
	StatusProcessing         EventStatus = "processing"
	StatusSignatureVerified  EventStatus = "signature_verified"
	StatusSignatureFailed    EventStatus = "signature_failed_but_proceeding"
	StatusNoJSON             EventStatus = "no_json"
	StatusProcessingMessages EventStatus = "processing_messages"
	StatusCompleted          EventStatus = "completed"
	StatusError              EventStatus = "error"
)

// WebhookEventRecord summarizes one inbound webhook HTTP call. Held in a
// bounded in-memory ring, never persisted.
type WebhookEventRecord struct {
	ID                string          `json:"id"`
	Timestamp         string          `json:"timestamp"`
	Type              string          `json:"type"`
	Signature         string          `json:"signature"`
	PayloadSize       int             `json:"payload_size"`
	Status            EventStatus     `json:"status"`
	MessagesProcessed int             `json:"messages_processed"`
	Data              json.RawMessage `json:"data,omitempty"`
	Error             string          `json:"error,omitempty"`
}
