package bot

import "fmt"

// Markers written to the log's reply field when no reply was delivered.
const (
	ReplyFailed   = "Failed to send reply"
	ReplyNotFound = "Could not send reply - conversation not found"

	noTextPlaceholder = "[Webhook message - no text]"
)

// ComposeReply builds the automated reply for a sender. Deterministic,
// no side effects.
func ComposeReply(username string) string {
	return fmt.Sprintf("Hi %s! Thanks for your message. I've received it and will get back to you soon! 🤖", username)
}
